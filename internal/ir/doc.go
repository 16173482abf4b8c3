// Package ir defines the shader intermediate representation consumed by the
// interpreter.
//
// The shapes follow the naga IR: a module owns a type table, free functions
// and entry points; each function owns an expression arena addressed by
// ExpressionHandle and a statement tree. Expressions and statements are closed
// sets of variants (sealed interfaces) so that evaluators can switch on them
// exhaustively.
//
// This package contains type definitions and canonical hashing only. All other
// internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - A module is read-only once built; values may share its type descriptors.
//   - Handles are plain indices into the owning arena and are validated at use.
//   - Canonical JSON carries no floats: float literals hash by bit pattern.
package ir
