package blackbox

import (
	"fmt"
	"reflect"
)

// cloneAny produces a deep, fully decoupled copy of the given value. Nested
// slices, arrays, maps, pointers, and plain-data structs are duplicated
// recursively, so no mutation of the original can reach the copy. Values that
// cannot be safely duplicated -- channels, functions, unsafe pointers, and
// structs carrying unexported state such as live connections -- are replaced
// by a placeholder string describing their type. The substitution happens at
// the deepest position that can hold a string; when the enclosing container
// cannot, the whole container becomes the placeholder.
func cloneAny(v any) any {
	if v == nil {
		return nil
	}

	out, err := cloneValue(reflect.ValueOf(v), map[cloneMemoKey]reflect.Value{})
	if err != nil {
		return placeholderString(err)
	}

	return out.Interface()
}

// cloneMemoKey identifies an already-cloned reference, so that shared and
// cyclic structures clone to shared and cyclic structures rather than
// recursing forever.
type cloneMemoKey struct {
	ptr uintptr
	len int // distinguishes slices sharing a backing array
	typ reflect.Type
}

func cloneValue(v reflect.Value, memo map[cloneMemoKey]reflect.Value) (reflect.Value, error) {
	t := v.Type()

	switch v.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128,
		reflect.String:
		return v, nil

	case reflect.Interface:
		if v.IsNil() {
			return v, nil
		}
		return cloneValue(v.Elem(), memo)

	case reflect.Array:
		na := reflect.New(t).Elem()
		for i := 0; i < v.Len(); i++ {
			if err := cloneInto(na.Index(i), v.Index(i), memo); err != nil {
				return reflect.Value{}, err
			}
		}
		return na, nil

	case reflect.Slice:
		if v.IsNil() {
			return v, nil
		}
		key := cloneMemoKey{ptr: v.Pointer(), len: v.Len(), typ: t}
		if v.Len() > 0 {
			if cached, ok := memo[key]; ok {
				return cached, nil
			}
		}
		ns := reflect.MakeSlice(t, v.Len(), v.Len())
		if v.Len() > 0 {
			memo[key] = ns
		}
		for i := 0; i < v.Len(); i++ {
			if err := cloneInto(ns.Index(i), v.Index(i), memo); err != nil {
				return reflect.Value{}, err
			}
		}
		return ns, nil

	case reflect.Map:
		if v.IsNil() {
			return v, nil
		}
		key := cloneMemoKey{ptr: v.Pointer(), typ: t}
		if cached, ok := memo[key]; ok {
			return cached, nil
		}
		nm := reflect.MakeMapWithSize(t, v.Len())
		memo[key] = nm
		iter := v.MapRange()
		for iter.Next() {
			ck, err := cloneAsType(iter.Key(), t.Key(), memo)
			if err != nil {
				return reflect.Value{}, err
			}
			cv, err := cloneAsType(iter.Value(), t.Elem(), memo)
			if err != nil {
				return reflect.Value{}, err
			}
			nm.SetMapIndex(ck, cv)
		}
		return nm, nil

	case reflect.Pointer:
		if v.IsNil() {
			return v, nil
		}
		key := cloneMemoKey{ptr: v.Pointer(), typ: t}
		if cached, ok := memo[key]; ok {
			return cached, nil
		}
		np := reflect.New(t.Elem())
		memo[key] = np
		if err := cloneInto(np.Elem(), v.Elem(), memo); err != nil {
			return reflect.Value{}, err
		}
		return np, nil

	case reflect.Struct:
		if hasUnexportedFields(t) {
			return reflect.Value{}, &UnclonableValueError{Type: t.String()}
		}
		ns := reflect.New(t).Elem()
		for i := 0; i < t.NumField(); i++ {
			if err := cloneInto(ns.Field(i), v.Field(i), memo); err != nil {
				return reflect.Value{}, err
			}
		}
		return ns, nil

	default: // Chan, Func, UnsafePointer
		return reflect.Value{}, &UnclonableValueError{Type: t.String()}
	}
}

// cloneInto clones src into the addressable slot dst, substituting a
// placeholder string when src is unclonable and the slot can hold one.
func cloneInto(dst, src reflect.Value, memo map[cloneMemoKey]reflect.Value) error {
	c, err := cloneAsType(src, dst.Type(), memo)
	if err != nil {
		return err
	}
	dst.Set(c)
	return nil
}

// cloneAsType clones src for a slot of the given type, substituting a
// placeholder string when src is unclonable and the slot type permits one.
func cloneAsType(src reflect.Value, slot reflect.Type, memo map[cloneMemoKey]reflect.Value) (reflect.Value, error) {
	c, err := cloneValue(src, memo)
	if err != nil {
		if stringType.AssignableTo(slot) {
			return reflect.ValueOf(placeholderString(err)), nil
		}
		return reflect.Value{}, err
	}
	return c, nil
}

var stringType = reflect.TypeOf("")

func placeholderString(err error) string {
	if uerr, ok := err.(*UnclonableValueError); ok {
		return fmt.Sprintf("<unclonable %s>", uerr.Type)
	}
	return fmt.Sprintf("<unclonable: %v>", err)
}

func hasUnexportedFields(t reflect.Type) bool {
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).PkgPath != "" {
			return true
		}
	}
	return false
}
