package functransform

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
)

// ErrInvalidSignature is the value returned when a function passed to New
// does not have a shape we can wrap as a transformer.
type ErrInvalidSignature struct {
	// Type is the reflected type that was rejected. For most failures
	// this is the function type; for a bad params argument it is that
	// argument's type.
	Type reflect.Type

	// Reason is a short description of what is wrong with the shape.
	Reason string
}

func (e *ErrInvalidSignature) Error() string {
	return fmt.Sprintf(`
Function %s cannot be wrapped as a transformer: %s.

A wrapped function takes the input data as its first argument and,
optionally, a params struct as its second. It returns the transformed
data, optionally followed by an error. The accepted shapes are:

    - func(X) R
    - func(X) (R, error)
    - func(X, P) R
    - func(X, P) (R, error)

where P is a struct (or pointer to struct) whose exported fields declare
the parameters of the transformer.
`, e.Type, e.Reason)
}

// ErrUnknownParam is the value returned when a parameter name given at
// construction or via a set call does not match any declared parameter
// of the wrapped function.
type ErrUnknownParam struct {
	// Name is the unknown parameter name.
	Name string

	// Known is the full list of declared parameter names.
	Known []string
}

func (e *ErrUnknownParam) Error() string {
	known := new(bytes.Buffer)
	if len(e.Known) == 0 {
		fmt.Fprintf(known, "    The transformer declares no parameters.\n")
	}
	for _, name := range e.Known {
		fmt.Fprintf(known, "    - %s\n", name)
	}

	return fmt.Sprintf(`
Unknown parameter %q!

The name does not match any parameter declared by the wrapped function.
The declared parameters are:

%s`, e.Name, strings.TrimSuffix(known.String(), "\n"))
}

// ErrInvalidValue is the value returned when a parameter value cannot be
// used for the parameter's declared type.
type ErrInvalidValue struct {
	// Name is the parameter name.
	Name string

	// Got is the type of the supplied value.
	Got reflect.Type

	// Want is the declared type of the parameter.
	Want reflect.Type
}

func (e *ErrInvalidValue) Error() string {
	return fmt.Sprintf("parameter %q: value of type %s is not usable as %s", e.Name, e.Got, e.Want)
}

// ErrInvalidInput is the value returned by Transform when the input data
// is not assignable to the wrapped function's data argument.
type ErrInvalidInput struct {
	// Func is the name of the wrapped function.
	Func string

	// Got is the dynamic type of the input data.
	Got reflect.Type

	// Want is the declared type of the data argument.
	Want reflect.Type
}

func (e *ErrInvalidInput) Error() string {
	return fmt.Sprintf("input of type %s is not assignable to the %s argument of %s", e.Got, e.Want, e.Func)
}

var (
	_ error = (*ErrInvalidSignature)(nil)
	_ error = (*ErrUnknownParam)(nil)
	_ error = (*ErrInvalidValue)(nil)
	_ error = (*ErrInvalidInput)(nil)
)
