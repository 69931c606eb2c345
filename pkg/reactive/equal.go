package reactive

import "reflect"

// SameValue reports whether writing b over a is a no-op.
//
// Comparable values are compared with ==, so NaN never equals itself.
// Maps, slices, funcs, and channels compare by identity: the same backing
// pointer (and, for slices, the same length). Values of different dynamic
// types are never equal.
func SameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return comparableEqual(a, b)
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch va.Kind() {
	case reflect.Map, reflect.Func, reflect.Chan:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	default:
		// Structs and arrays holding slices or maps: fall back to deep equality.
		return reflect.DeepEqual(a, b)
	}
}

// comparableEqual compares two values whose type is comparable. A struct
// with an interface field holding an uncomparable value still panics on ==,
// which is recovered into a deep comparison.
func comparableEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = reflect.DeepEqual(a, b)
		}
	}()
	return a == b
}

// equalFunc returns the equality used by a typed cell.
func equalFunc[T any](custom func(T, T) bool) func(T, T) bool {
	if custom != nil {
		return custom
	}
	return func(a, b T) bool {
		return SameValue(any(a), any(b))
	}
}
