package functransform

import (
	"reflect"
	"runtime"
)

// Func represents a wrapped user function that a Transformer applies to
// its input data.
//
// A wrapped function takes the input data as its first argument and,
// optionally, a params struct as its second. Each exported field of the
// params struct becomes a named parameter of the transformer. The
// function returns the transformed data, optionally followed by an error.
//
// The accepted shapes are:
//
//	func(X) R
//	func(X) (R, error)
//	func(X, P) R
//	func(X, P) (R, error)
//
// where P is a struct or a pointer to a struct. Any other shape is
// rejected with ErrInvalidSignature. Go reflection doesn't enable
// accessing direct function parameter names, so tunables must be declared
// as struct fields for named matching; see the params struct tag format
// on paramSet.
type Func struct {
	fn       reflect.Value
	dataType reflect.Type
	params   *paramSet
	hasErr   bool
}

// newFunc analyzes f and builds the Func wrapper and its parameter
// descriptor. The descriptor is built exactly once here; Transform only
// reads it.
func newFunc(f interface{}) (*Func, error) {
	fv := reflect.ValueOf(f)
	ft := fv.Type()
	if k := ft.Kind(); k != reflect.Func {
		return nil, &ErrInvalidSignature{Type: ft, Reason: "not a function"}
	}

	if ft.IsVariadic() {
		return nil, &ErrInvalidSignature{Type: ft, Reason: "variadic functions are not supported"}
	}

	result := &Func{fn: fv, params: emptyParamSet()}

	// The first input is always the data argument. Zero inputs means we
	// can't tell what the data is; more than two means it is ambiguous
	// which argument the pipeline should feed.
	switch ft.NumIn() {
	case 1:
		result.dataType = ft.In(0)

	case 2:
		result.dataType = ft.In(0)
		ps, err := newParamSet(ft.In(1))
		if err != nil {
			return nil, err
		}
		result.params = ps

	case 0:
		return nil, &ErrInvalidSignature{Type: ft, Reason: "no input arguments; the function must accept the input data"}

	default:
		return nil, &ErrInvalidSignature{Type: ft, Reason: "more than two input arguments; which one is the input data is ambiguous"}
	}

	// Outputs: exactly one value, optionally followed by an error.
	numOut := ft.NumOut()
	if numOut >= 1 && ft.Out(numOut-1) == errType {
		result.hasErr = true
		numOut--
	}
	if numOut != 1 {
		return nil, &ErrInvalidSignature{Type: ft, Reason: "the function must return exactly one value, optionally followed by an error"}
	}

	return result, nil
}

// Name returns the name of the wrapped function.
//
// This will attempt to look up the function name using the pointer. If no
// friendly name can be found, then this will default to the function type
// signature.
func (f *Func) Name() string {
	if rfunc := runtime.FuncForPC(f.fn.Pointer()); rfunc != nil {
		if name := rfunc.Name(); name != "" {
			return name
		}
	}

	return f.fn.String()
}

// call invokes the wrapped function with the given input data and, if the
// function declares a params struct, the materialized params value.
func (f *Func) call(data interface{}, params reflect.Value) result {
	var dv reflect.Value
	if data == nil {
		dv = reflect.Zero(f.dataType)
	} else {
		dv = reflect.ValueOf(data)
		if !dv.Type().AssignableTo(f.dataType) {
			return resultError(&ErrInvalidInput{Func: f.Name(), Got: dv.Type(), Want: f.dataType})
		}
	}

	in := []reflect.Value{dv}
	if !f.params.empty() {
		in = append(in, params)
	}

	return result{out: f.fn.Call(in)}
}

// errType is used for comparison when detecting error outputs.
var errType = reflect.TypeOf((*error)(nil)).Elem()
