// Package interp executes shader entry points by walking their IR.
//
// The interpreter has four layers:
//
//   - ScopeStack: copy-down scopes. A pushed scope copies every visible
//     binding, so lookups only consult the top scope and shadowing never
//     touches an enclosing scope.
//   - Expression evaluation: a recursive walk over expression handles.
//     Literal, FunctionArgument, Compose and Binary are evaluated; every
//     other kind fails with UNIMPLEMENTED.
//   - Statement execution: Emit, Block and Return. A Return stops the
//     enclosing statement lists; WithLegacySequencing keeps the value of
//     the last statement instead.
//   - Driver: selects the entry point for a stage, binds its arguments
//     from a ValueSource and runs the body.
//
// Expressions are not cached, so each run carries a step budget
// (DefaultMaxSteps, see WithMaxSteps) and fails with STEPS_EXCEEDED past it.
//
// Execution is single-threaded and synchronous. An Observer, if installed,
// sees each statement and expression as it is evaluated.
package interp
