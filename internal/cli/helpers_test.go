package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// addModule is `@vertex fn main(x: i32) -> i32 { return x + 2; }`.
const addModule = `package shader

types: i32: scalar: {kind: "sint", width: 4}

entry_points: [{
	name:  "main"
	stage: "vertex"
	arguments: [{name: "x", type: "i32"}]
	result: "i32"
	expressions: [
		{argument: 0},
		{literal: i32: 2},
		{binary: {op: "add", left: 0, right: 1}},
	]
	body: [
		{emit: [2]},
		{return: 2},
	]
}]
`

// divideModule divides its two compute arguments.
const divideModule = `package shader

types: i32: scalar: {kind: "sint", width: 4}

entry_points: [{
	name:  "main"
	stage: "compute"
	arguments: [
		{name: "n", type: "i32"},
		{name: "d", type: "i32"},
	]
	result: "i32"
	expressions: [
		{argument: 0},
		{argument: 1},
		{binary: {op: "divide", left: 0, right: 1}},
	]
	body: [
		{emit: [2]},
		{return: 2},
	]
}]
`

// invalidModule compiles but declares a five-lane vector.
const invalidModule = `package shader

types: vec5f: vector: {size: 5, kind: "float", width: 4}

entry_points: [{
	name:  "main"
	stage: "vertex"
	arguments: [{name: "a", type: "vec5f"}]
	result: "vec5f"
	expressions: [{argument: 0}]
	body: [
		{emit: [0]},
		{return: 0},
	]
}]
`

// writeFile writes content to dir/name and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// executeCommand runs the root command with args and empty stdin.
func executeCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	return executeWithInput(t, "", args...)
}

func executeWithInput(t *testing.T, input string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	outBuf, errBuf := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)
	err = cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}
