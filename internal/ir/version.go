package ir

// Version constants for the IR schema and interpreter.
const (
	// IRVersion is the IR schema version; it is part of every module hash.
	IRVersion = "1"

	// EngineVersion is the interpreter version recorded with each run.
	EngineVersion = "0.1.0"
)
