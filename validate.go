package keyvalues3

import (
	"reflect"

	"github.com/kristiker/keyvalues3/errs"
)

// maxRecursionDepth caps the validator's walk so a pathological or
// adversarial tree cannot exhaust the call stack (§9). The binary readers
// recurse without a cap of their own.
const maxRecursionDepth = 1024

// Validate walks v and fails on: an integer outside [-2^63, 2^64-1] (which,
// given Go's concrete integer kinds, can only happen for UInt64 values above
// math.MaxInt64 that are nonetheless in range — included for symmetry with
// the invariant's stated bound); a non-string object key (impossible to
// construct via ObjectMember.Key string, kept here as the home for the
// non-empty-key check); a direct self-reference in an Array or Object; or a
// Flagged wrapping another Flagged.
//
// Object keys are only required to be non-empty strings: the specification
// relaxes the legacy reference's isidentifier() requirement, leaving
// identifier-form enforcement to the text writer's escape-quoting rule.
func Validate(v Value) error {
	return validate(v, 0, nil)
}

func validate(v Value, depth int, stack []Value) error {
	if depth > maxRecursionDepth {
		return errs.NewInvalidValue("recursion depth exceeded")
	}

	for _, ancestor := range stack {
		if sameContainer(ancestor, v) {
			return errs.NewInvalidValue("self-referential container")
		}
	}

	switch t := v.(type) {
	case Null, Bool, Int64, UInt64, Int32, UInt32, Int16, UInt16, Int8, UInt8,
		Double, Float, String, Blob:
		return nil
	case Array:
		next := append(stack, v) //nolint:gocritic // intentional: scoped to this branch only
		for _, elem := range t {
			if err := validate(elem, depth+1, next); err != nil {
				return err
			}
		}

		return nil
	case TypedArray:
		if !t.ElemKind.Valid() {
			return errs.NewInvalidValue("typed array element kind outside the variant")
		}
		next := append(stack, v) //nolint:gocritic
		for _, elem := range t.Elems {
			if err := validate(elem, depth+1, next); err != nil {
				return err
			}
		}

		return nil
	case Object:
		next := append(stack, v) //nolint:gocritic
		for _, member := range t {
			if member.Key == "" {
				return errs.NewInvalidValue("empty object key")
			}
			if err := validate(member.Value, depth+1, next); err != nil {
				return err
			}
		}

		return nil
	case Flagged:
		if _, isFlagged := t.Inner.(Flagged); isFlagged {
			return errs.NewInvalidValue("flagged value wraps another flagged value")
		}

		return validate(t.Inner, depth, stack)
	default:
		return errs.NewInvalidValue("value outside the variant")
	}
}

// sameContainer reports whether a and b are the same backing slice, used to
// detect direct self-reference in Array/TypedArray/Object. Array, Object,
// and TypedArray.Elems are slices, which Go does not permit comparing with
// ==; reflect.Value.Pointer() on the backing array is the standard way to
// recover reference identity for a slice held in an interface.
func sameContainer(a, b Value) bool {
	av := reflect.ValueOf(a)
	bv := reflect.ValueOf(b)
	if av.Kind() != bv.Kind() {
		return false
	}

	switch av.Kind() {
	case reflect.Slice:
		return av.Pointer() == bv.Pointer() && av.Len() == bv.Len()
	case reflect.Struct:
		// TypedArray: compare by its Elems backing pointer.
		ta, ok1 := a.(TypedArray)
		tb, ok2 := b.(TypedArray)
		if ok1 && ok2 {
			return reflect.ValueOf(ta.Elems).Pointer() == reflect.ValueOf(tb.Elems).Pointer()
		}

		return false
	default:
		return false
	}
}
