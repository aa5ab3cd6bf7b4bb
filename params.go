package functransform

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

// paramSet is the declarative descriptor for a wrapped function's
// tunables: one paramField per exported field of the params struct,
// keyed by parameter name.
//
// Field names are lowercased to form parameter names. A `param` struct
// tag can override the name and declare a default value:
//
//	type ScaleParams struct {
//		Factor float64 `param:"factor,default=1.0"`
//		Debug  bool    `param:"-"`
//	}
//
// A field tagged "-" is excluded from the parameter set; it is left at
// its zero value at call time and can't be set by name.
type paramSet struct {
	// structType is the params struct declared by the function. nil means
	// the function declared no params struct at all.
	structType reflect.Type

	// isPtr is true when the function takes *P rather than P.
	isPtr bool

	// fields are the settable parameters. The key is the parameter name.
	fields map[string]*paramField
}

type paramField struct {
	// Index is the index usable with reflect.Value.Field to set this
	// field on structType.
	Index int

	// Name is the parameter name, always lowercase.
	Name string

	// Type is the type of this field.
	Type reflect.Type

	// Default is the default value, materialized once at wrap time.
	Default reflect.Value
}

func emptyParamSet() *paramSet {
	return &paramSet{fields: make(map[string]*paramField)}
}

// newParamSet builds the descriptor from the params struct type declared
// by a wrapped function.
func newParamSet(typ reflect.Type) (*paramSet, error) {
	result := emptyParamSet()

	if typ.Kind() == reflect.Ptr {
		result.isPtr = true
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil, &ErrInvalidSignature{Type: typ, Reason: "the second argument must be a struct or pointer to struct declaring the parameters"}
	}
	result.structType = typ

	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)

		// Ignore unexported fields
		if sf.PkgPath != "" {
			continue
		}

		// name is the name of the parameter.
		name := sf.Name

		// Parse out the tag if there is one
		var options map[string]string
		if tag := sf.Tag.Get("param"); tag != "" {
			parts := strings.Split(tag, ",")

			// A name of "-" excludes the field from the parameter set.
			if parts[0] == "-" {
				continue
			}

			// If we have a name set, then override the name
			if parts[0] != "" {
				name = parts[0]
			}

			// If we have fields set after the comma, then we want to
			// parse those as values.
			options = make(map[string]string)
			for _, v := range parts[1:] {
				idx := strings.Index(v, "=")
				if idx == -1 {
					options[v] = ""
				} else {
					options[v[:idx]] = v[idx+1:]
				}
			}
		}

		// Name is always lowercase
		name = strings.ToLower(name)
		if _, ok := result.fields[name]; ok {
			return nil, fmt.Errorf("duplicate parameter name %q on %s", name, typ)
		}

		field := &paramField{
			Index:   i,
			Name:    name,
			Type:    sf.Type,
			Default: reflect.Zero(sf.Type),
		}

		if raw, ok := options["default"]; ok {
			def, err := parseValue(raw, sf.Type)
			if err != nil {
				return nil, fmt.Errorf("parameter %q on %s: bad default: %w", name, typ, err)
			}
			field.Default = def
		}

		result.fields[name] = field
	}

	return result, nil
}

// empty returns true if the function declared no params struct.
func (s *paramSet) empty() bool {
	return s.structType == nil
}

// names returns the parameter names, sorted, for error messages.
func (s *paramSet) names() []string {
	out := make([]string, 0, len(s.fields))
	for name := range s.fields {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// applyDefaults replaces every field default wholesale with the values
// carried by the given instance of the params struct. Tag defaults are
// not merged; the instance is the new baseline.
func (s *paramSet) applyDefaults(v interface{}) error {
	if s.empty() {
		return fmt.Errorf("defaults given but the function declares no parameters")
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if !rv.IsValid() || rv.Type() != s.structType {
		return fmt.Errorf("defaults must be of type %s, got %T", s.structType, v)
	}

	for _, f := range s.fields {
		f.Default = rv.Field(f.Index)
	}

	return nil
}

// defaults returns a fresh current-value map seeded from the defaults.
func (s *paramSet) defaults() map[string]reflect.Value {
	out := make(map[string]reflect.Value, len(s.fields))
	for name, f := range s.fields {
		out[name] = f.Default
	}
	return out
}

// instantiate materializes a params struct value from the current values,
// ready to pass to the wrapped function.
func (s *paramSet) instantiate(values map[string]reflect.Value) reflect.Value {
	if s.empty() {
		return reflect.Value{}
	}

	pv := reflect.New(s.structType).Elem()
	for name, f := range s.fields {
		if v, ok := values[name]; ok && v.IsValid() {
			pv.Field(f.Index).Set(v)
		} else {
			pv.Field(f.Index).Set(f.Default)
		}
	}

	if s.isPtr {
		return pv.Addr()
	}
	return pv
}

// valueOf adapts a user-supplied value to this field's type. Assignable
// values are used directly. Numeric kinds are converted so that, for
// example, an untyped int can set a float64 parameter. String values for
// non-string parameters are parsed the same way tag defaults are, which
// is what environment-sourced overrides produce.
func (f *paramField) valueOf(v interface{}) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(f.Type), nil
	}

	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(f.Type) {
		return rv, nil
	}

	if isNumeric(rv.Kind()) && isNumeric(f.Type.Kind()) {
		return rv.Convert(f.Type), nil
	}

	if rv.Kind() == reflect.String && f.Type.Kind() != reflect.String {
		parsed, err := parseValue(rv.String(), f.Type)
		if err != nil {
			return reflect.Value{}, &ErrInvalidValue{Name: f.Name, Got: rv.Type(), Want: f.Type}
		}
		return parsed, nil
	}

	return reflect.Value{}, &ErrInvalidValue{Name: f.Name, Got: rv.Type(), Want: f.Type}
}

// durationType gets a special case in parseValue since its kind is a
// plain int64.
var durationType = reflect.TypeOf(time.Duration(0))

// parseValue parses a string representation into a value of the given
// type. Used for `default=` tag values and for string coercion of
// environment-sourced parameter overrides.
func parseValue(raw string, typ reflect.Type) (reflect.Value, error) {
	if typ == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(d), nil
	}

	out := reflect.New(typ).Elem()
	switch typ.Kind() {
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetBool(b)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, typ.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, typ.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetUint(n)

	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(raw, typ.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetFloat(n)

	case reflect.String:
		out.SetString(raw)

	default:
		return reflect.Value{}, fmt.Errorf("cannot parse %q into %s", raw, typ)
	}

	return out, nil
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
