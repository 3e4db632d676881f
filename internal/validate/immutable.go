// Package validate implements the debug-only deep-immutability checks
// spec.md §4.2 and §4.5 require for Outlet payloads and the model. It is
// deliberately conservative: it rejects kinds that are cheap to mutate
// through a shared reference (non-nil pointers, non-empty maps, chans,
// funcs) and
// recurses into structs and slices/arrays of such values.
package validate

import (
	"fmt"
	"reflect"
)

// Immutable reports whether v looks deeply immutable. It is intended for
// debug/test builds only (spec.md §4.2) — skip it in production for
// performance, exactly as an Outlet.Put call does when validation is off.
func Immutable(v any) error {
	if v == nil {
		return nil
	}

	return immutable(reflect.ValueOf(v), nil)
}

func immutable(v reflect.Value, seen []uintptr) error {
	switch v.Kind() {
	case reflect.Ptr:
		if !v.IsNil() {
			return fmt.Errorf("non-nil pointer of type %s", v.Type())
		}

		return nil
	case reflect.Map:
		if v.Len() > 0 {
			return fmt.Errorf("non-empty map of type %s", v.Type())
		}

		return nil
	case reflect.Chan:
		return fmt.Errorf("channel value of type %s", v.Type())
	case reflect.Func:
		return fmt.Errorf("func value of type %s", v.Type())
	case reflect.UnsafePointer:
		return fmt.Errorf("unsafe pointer of type %s", v.Type())
	case reflect.Slice, reflect.Array:
		for i := range v.Len() {
			if err := immutable(v.Index(i), seen); err != nil {
				return fmt.Errorf("%s[%d]: %w", v.Type(), i, err)
			}
		}

		return nil
	case reflect.Struct:
		for i := range v.NumField() {
			field := v.Type().Field(i)
			if !field.IsExported() {
				continue
			}

			if err := immutable(v.Field(i), seen); err != nil {
				return fmt.Errorf("%s.%s: %w", v.Type(), field.Name, err)
			}
		}

		return nil
	case reflect.Interface:
		if v.IsNil() {
			return nil
		}

		return immutable(v.Elem(), seen)
	default:
		// Bool, Int*, Uint*, Float*, Complex*, String: value kinds, always immutable.
		return nil
	}
}
