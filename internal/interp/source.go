package interp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/roach88/shaderwalk/internal/ir"
	"github.com/roach88/shaderwalk/internal/value"
)

// ErrSourceExhausted is returned by a ValueSource with no more input.
var ErrSourceExhausted = errors.New("value source exhausted")

// ArgumentRequest describes the entry point argument a value is wanted for.
type ArgumentRequest struct {
	Index int
	Name  string
	Type  ir.TypeInner
}

// TypeName returns the display name of the requested type.
func (r ArgumentRequest) TypeName() string {
	return value.TypeName(r.Type)
}

// ValueSource supplies one line of argument text per request.
type ValueSource interface {
	Next(ctx context.Context, req ArgumentRequest) (string, error)
}

// SourceFunc adapts a function to ValueSource.
type SourceFunc func(ctx context.Context, req ArgumentRequest) (string, error)

func (f SourceFunc) Next(ctx context.Context, req ArgumentRequest) (string, error) {
	return f(ctx, req)
}

// StaticSource answers requests from a fixed list of lines, in order.
type StaticSource struct {
	mu    sync.Mutex
	lines []string
	pos   int
}

// NewStaticSource creates a source that yields lines in order.
func NewStaticSource(lines ...string) *StaticSource {
	return &StaticSource{lines: lines}
}

func (s *StaticSource) Next(ctx context.Context, req ArgumentRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context cancelled: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos >= len(s.lines) {
		return "", ErrSourceExhausted
	}
	line := s.lines[s.pos]
	s.pos++
	return line, nil
}

// PromptSource writes a prompt for each argument and reads the answer
// as one line.
type PromptSource struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPromptSource reads answers from in and writes prompts to out.
func NewPromptSource(in io.Reader, out io.Writer) *PromptSource {
	return &PromptSource{in: bufio.NewReader(in), out: out}
}

func (p *PromptSource) Next(ctx context.Context, req ArgumentRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context cancelled: %w", err)
	}
	if _, err := fmt.Fprintf(p.out, "Enter value for argument `%s` (%s): ", req.Name, req.TypeName()); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}
	line, err := p.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read answer: %w", err)
		}
		if line == "" {
			return "", ErrSourceExhausted
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// RecordingSource forwards to Source and keeps every line it returned.
type RecordingSource struct {
	Source ValueSource
	Lines  []string
}

func (r *RecordingSource) Next(ctx context.Context, req ArgumentRequest) (string, error) {
	line, err := r.Source.Next(ctx, req)
	if err != nil {
		return "", err
	}
	r.Lines = append(r.Lines, line)
	return line, nil
}
