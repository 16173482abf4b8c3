package ir

import "fmt"

// TypeHandle indexes Module.Types.
type TypeHandle uint32

// Type is an entry in the module type table.
type Type struct {
	Name  string
	Inner TypeInner
}

// TypeInner describes the shape of a value without owning data.
// Only Scalar, Vector and Opaque implement it.
type TypeInner interface {
	typeInner()
	String() string
}

// ScalarKind is the numeric family of a scalar or vector lane.
type ScalarKind uint8

const (
	Sint ScalarKind = iota
	Uint
	Float
	Bool
)

var scalarKindNames = [...]string{
	Sint:  "sint",
	Uint:  "uint",
	Float: "float",
	Bool:  "bool",
}

func (k ScalarKind) String() string {
	if int(k) < len(scalarKindNames) {
		return scalarKindNames[k]
	}
	return fmt.Sprintf("ScalarKind(%d)", uint8(k))
}

// ParseScalarKind maps "sint", "uint", "float" or "bool" to a ScalarKind.
func ParseScalarKind(s string) (ScalarKind, error) {
	for i, name := range scalarKindNames {
		if name == s {
			return ScalarKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown scalar kind %q: must be sint, uint, float, or bool", s)
}

// Scalar is a single value of Width bytes.
type Scalar struct {
	Kind  ScalarKind
	Width uint8
}

func (Scalar) typeInner() {}

// String returns the WGSL spelling (i32, u32, f32, f64, bool).
func (s Scalar) String() string {
	switch s.Kind {
	case Sint:
		return fmt.Sprintf("i%d", int(s.Width)*8)
	case Uint:
		return fmt.Sprintf("u%d", int(s.Width)*8)
	case Float:
		return fmt.Sprintf("f%d", int(s.Width)*8)
	case Bool:
		return "bool"
	}
	return fmt.Sprintf("%s%d", s.Kind, int(s.Width)*8)
}

// VectorSize is the lane count of a vector.
type VectorSize uint8

const (
	Vec2 VectorSize = 2
	Vec3 VectorSize = 3
	Vec4 VectorSize = 4
)

// Valid reports whether the size is 2, 3 or 4.
func (s VectorSize) Valid() bool {
	return s >= Vec2 && s <= Vec4
}

// Vector is Size lanes of the same scalar, laid out contiguously with no padding.
type Vector struct {
	Size  VectorSize
	Kind  ScalarKind
	Width uint8
}

func (Vector) typeInner() {}

// Scalar returns the lane type.
func (v Vector) Scalar() Scalar {
	return Scalar{Kind: v.Kind, Width: v.Width}
}

func (v Vector) String() string {
	return fmt.Sprintf("vec%d<%s>", v.Size, v.Scalar())
}

// Opaque stands for type shapes the interpreter does not model
// (matrices, arrays, structs, samplers). Modules may declare them; values may not hold them.
type Opaque struct {
	Name string
}

func (Opaque) typeInner() {}

func (o Opaque) String() string {
	return o.Name
}

// SizeOf returns the byte length of a value of type t.
// The second result is false for Opaque and unknown shapes.
func SizeOf(t TypeInner) (int, bool) {
	switch t := t.(type) {
	case Scalar:
		return int(t.Width), true
	case Vector:
		return int(t.Size) * int(t.Width), true
	default:
		return 0, false
	}
}

// ValidWidth reports whether width is a supported encoding for kind:
// 4 or 8 bytes for numbers, 1 byte for bool.
func ValidWidth(kind ScalarKind, width uint8) bool {
	switch kind {
	case Sint, Uint, Float:
		return width == 4 || width == 8
	case Bool:
		return width == 1
	}
	return false
}

// ShaderStage is the pipeline stage an entry point runs in.
type ShaderStage uint8

const (
	StageVertex ShaderStage = iota
	StageFragment
	StageCompute
)

var stageNames = [...]string{
	StageVertex:   "vertex",
	StageFragment: "fragment",
	StageCompute:  "compute",
}

func (s ShaderStage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("ShaderStage(%d)", uint8(s))
}

// ParseShaderStage maps "vertex", "fragment" or "compute" to a ShaderStage.
func ParseShaderStage(s string) (ShaderStage, error) {
	for i, name := range stageNames {
		if name == s {
			return ShaderStage(i), nil
		}
	}
	return 0, fmt.Errorf("unknown shader stage %q: must be vertex, fragment, or compute", s)
}
