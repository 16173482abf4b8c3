package ir

import (
	"slices"
	"unicode/utf16"
)

// IRValue is a sealed interface over the values canonical JSON may carry.
// Only IRString, IRInt, IRBool, IRArray and IRObject implement it.
// There is no float variant: float literals are encoded by bit pattern (see Module.Canonical).
type IRValue interface {
	irValue()
}

// IRString is a JSON string.
type IRString string

func (IRString) irValue() {}

// IRInt is a JSON integer.
type IRInt int64

func (IRInt) irValue() {}

// IRBool is a JSON boolean.
type IRBool bool

func (IRBool) irValue() {}

// IRArray is a JSON array.
type IRArray []IRValue

func (IRArray) irValue() {}

// IRObject is a JSON object. Use SortedKeys for deterministic iteration.
type IRObject map[string]IRValue

func (IRObject) irValue() {}

// SortedKeys returns keys in RFC 8785 order (UTF-16 code units, not UTF-8 bytes).
func (obj IRObject) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)
	return keys
}

func compareUTF16(a, b string) int {
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}
