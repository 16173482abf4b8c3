package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix leaves room for a future algorithm change.
const (
	DomainModule = "shaderwalk/module/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte keeps the domain/data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ModuleHash computes the content-addressed identity of a module.
// Two modules with the same types, functions and entry points hash equally
// regardless of the source file they were compiled from.
func ModuleHash(m *Module) (string, error) {
	canonical, err := MarshalCanonical(m.Canonical())
	if err != nil {
		return "", fmt.Errorf("ModuleHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainModule, canonical), nil
}

// MustModuleHash is like ModuleHash but panics on error.
// Use only in tests or when the module is known to be well formed.
func MustModuleHash(m *Module) string {
	h, err := ModuleHash(m)
	if err != nil {
		panic(err)
	}
	return h
}
