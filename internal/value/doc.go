// Package value implements the typed byte-buffer values the interpreter
// computes with.
//
// A Value pairs an ir.TypeInner descriptor with a little-endian buffer.
// Type information never lives in the buffer itself: vector lanes sit
// contiguously at lane*width with no padding, so lane-wise operations are
// plain offset arithmetic.
//
// Every read and write checks the buffer length against the requested
// native type:
//
//	v := value.FromPOD(value.I32, int32(-7))
//	n, err := value.Read[int32](v)     // -7, nil
//	_, err = value.Read[float64](v)    // TYPE_MISMATCH
//	_, err = value.ReadAt[int32](v, 4) // OUT_OF_RANGE
//
// Parse and Render convert to and from the textual forms used for entry
// point arguments and results.
package value
