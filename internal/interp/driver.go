package interp

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/roach88/shaderwalk/internal/ir"
	"github.com/roach88/shaderwalk/internal/value"
)

// SelectEntryPoint returns the first entry point declared for stage.
func SelectEntryPoint(m *ir.Module, stage ir.ShaderStage) (*ir.EntryPoint, error) {
	for i := range m.EntryPoints {
		if m.EntryPoints[i].Stage == stage {
			return &m.EntryPoints[i], nil
		}
	}
	return nil, newError(ErrCodeNoEntryPoint, "", "no entry point for stage %s", stage).
		with("stage", stage.String(), "entry_points", strconv.Itoa(len(m.EntryPoints)))
}

// BindArguments requests one line of text per declared argument, in
// declaration order, and parses it against the argument's type.
func BindArguments(ctx context.Context, m *ir.Module, ep *ir.EntryPoint, src ValueSource) (map[string]value.Value, error) {
	args := make(map[string]value.Value, len(ep.Function.Arguments))
	for i, arg := range ep.Function.Arguments {
		if arg.Name == "" {
			return nil, newError(ErrCodeUnnamedArgument, "", "argument %d of %q has no name", i, ep.Name).
				with("index", strconv.Itoa(i))
		}
		ty, err := m.Type(arg.Type)
		if err != nil {
			return nil, &RuntimeError{
				Code:    ErrCodeInvalidHandle,
				Message: fmt.Sprintf("argument %q has an unresolvable type", arg.Name),
				Err:     err,
			}
		}

		text, err := src.Next(ctx, ArgumentRequest{Index: i, Name: arg.Name, Type: ty.Inner})
		if err != nil {
			if errors.Is(err, ErrSourceExhausted) {
				return nil, &RuntimeError{
					Code:    ErrCodeSourceExhausted,
					Message: fmt.Sprintf("no input for argument %q", arg.Name),
					Err:     err,
				}
			}
			return nil, fmt.Errorf("read argument %q: %w", arg.Name, err)
		}

		v, err := value.Parse(ty.Inner, text)
		if err != nil {
			code := ErrCodeArgumentParse
			if value.CodeOf(err) == value.ErrCodeUnsupportedType {
				code = ErrCodeUnsupportedType
			}
			return nil, &RuntimeError{
				Code:    code,
				Message: fmt.Sprintf("argument %q: cannot parse %q as %s", arg.Name, text, value.TypeName(ty.Inner)),
				Details: map[string]string{"argument": arg.Name, "type": value.TypeName(ty.Inner)},
				Err:     err,
			}
		}

		want, _ := ir.SizeOf(ty.Inner)
		if v.Len() != want {
			return nil, newError(ErrCodeArgumentSizeMismatch, "",
				"argument %q: %q encodes to %d bytes, %s needs %d", arg.Name, text, v.Len(), ty.Inner, want).
				with("argument", arg.Name, "type", ty.Inner.String(),
					"got", strconv.Itoa(v.Len()), "want", strconv.Itoa(want))
		}
		args[arg.Name] = v
	}
	return args, nil
}
