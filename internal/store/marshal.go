package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/shaderwalk/internal/ir"
)

// marshalArgs converts argument lines to canonical JSON TEXT for storage.
// Lines are NFC-normalised so the stored form is stable across platforms.
func marshalArgs(args []string) (string, error) {
	if args == nil {
		args = []string{}
	}
	data, err := ir.MarshalCanonical(args)
	if err != nil {
		return "", fmt.Errorf("marshal args: %w", err)
	}
	return string(data), nil
}

// unmarshalArgs parses a stored args column.
// Always returns a non-nil slice.
func unmarshalArgs(data string) ([]string, error) {
	if data == "" || data == "[]" {
		return []string{}, nil
	}
	var args []string
	if err := json.Unmarshal([]byte(data), &args); err != nil {
		return nil, fmt.Errorf("unmarshal args: %w", err)
	}
	if args == nil {
		args = []string{}
	}
	return args, nil
}
