package functransform

import (
	"fmt"
	"reflect"
)

// FromStruct generates WithParam options from the exported fields of any
// struct value, using the lowercased field name as the parameter name.
//
// This is a convenience for callers that hold initial values in their own
// configuration struct rather than in the wrapped function's params
// struct (for that, use WithDefaults). Field names must still match
// declared parameters; New reports the unknown ones.
func FromStruct(v interface{}) []Option {
	rv := reflect.ValueOf(v)
	sv := structValueOf(rv)
	if sv.Kind() == reflect.Invalid {
		panic(fmt.Sprintf("only struct or pointer to struct types are supported in FromStruct, got %T", v))
	}
	st := sv.Type()

	var opts []Option
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		if f.PkgPath != "" {
			continue
		}

		opts = append(opts, WithParam(f.Name, sv.Field(i).Interface()))
	}

	return opts
}

func structValueOf(rv reflect.Value) reflect.Value {
	if k := rv.Kind(); k != reflect.Struct && k != reflect.Ptr {
		return reflect.Value{}
	}

	sv := rv
	if sv.Kind() == reflect.Ptr {
		// unwrap ptr
		sv = sv.Elem()
		if sv.Kind() != reflect.Struct {
			return reflect.Value{}
		}
	}

	return sv
}
