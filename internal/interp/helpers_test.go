package interp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/shaderwalk/internal/ir"
	"github.com/roach88/shaderwalk/internal/value"
)

var (
	tyI32   = ir.Type{Name: "i32", Inner: value.I32}
	tyF32   = ir.Type{Name: "f32", Inner: value.F32}
	tyVec3f = ir.Type{Name: "vec3f", Inner: ir.Vector{Size: ir.Vec3, Kind: ir.Float, Width: 4}}
	tyVec2i = ir.Type{Name: "vec2i", Inner: ir.Vector{Size: ir.Vec2, Kind: ir.Sint, Width: 4}}
)

func h(i ir.ExpressionHandle) *ir.ExpressionHandle { return &i }

func th(i ir.TypeHandle) *ir.TypeHandle { return &i }

func i32(x int32) value.Value { return value.FromPOD(value.I32, x) }

func vec3f(t *testing.T, x, y, z float32) value.Value {
	t.Helper()
	v, err := value.Zero(tyVec3f.Inner)
	require.NoError(t, err)
	for i, c := range []float32{x, y, z} {
		require.NoError(t, value.WriteAt(&v, i*4, c))
	}
	return v
}

func render(t *testing.T, v value.Value) string {
	t.Helper()
	s, err := v.Render()
	require.NoError(t, err)
	return s
}

// singleEntry wraps fn as the only entry point of a module for stage.
func singleEntry(stage ir.ShaderStage, types []ir.Type, fn ir.Function) *ir.Module {
	return &ir.Module{
		Types:       types,
		EntryPoints: []ir.EntryPoint{{Name: fn.Name, Stage: stage, Function: fn}},
	}
}

// vecAddModule is
//
//	@vertex fn main(a: vec3f) -> vec3f { let one = vec3f(1.0, 1.0, 1.0); return a + one; }
func vecAddModule() *ir.Module {
	return singleEntry(ir.StageVertex, []ir.Type{tyF32, tyVec3f}, ir.Function{
		Name:      "main",
		Arguments: []ir.Argument{{Name: "a", Type: 1}},
		Result:    th(1),
		Expressions: []ir.Expression{
			ir.FunctionArgument{Index: 0},
			ir.Literal{Value: ir.LiteralF32(1)},
			ir.Compose{Type: 1, Components: []ir.ExpressionHandle{1, 1, 1}},
			ir.Binary{Op: ir.Add, Left: 0, Right: 2},
		},
		Body: []ir.Statement{
			ir.Emit{Expressions: []ir.ExpressionHandle{2, 3}},
			ir.Return{Value: h(3)},
		},
	})
}

// scalarAddModule is
//
//	@vertex fn main(x: i32) -> i32 { return x + 2; }
func scalarAddModule() *ir.Module {
	return singleEntry(ir.StageVertex, []ir.Type{tyI32}, ir.Function{
		Name:      "main",
		Arguments: []ir.Argument{{Name: "x", Type: 0}},
		Result:    th(0),
		Expressions: []ir.Expression{
			ir.FunctionArgument{Index: 0},
			ir.Literal{Value: ir.LiteralI32(2)},
			ir.Binary{Op: ir.Add, Left: 0, Right: 1},
		},
		Body: []ir.Statement{
			ir.Emit{Expressions: []ir.ExpressionHandle{2}},
			ir.Return{Value: h(2)},
		},
	})
}
