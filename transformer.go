package functransform

import (
	"reflect"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
)

// Transformer applies a wrapped function to input data using the
// currently stored parameter values.
//
// A Transformer satisfies the estimator pipeline convention: Fit is a
// no-op returning the receiver, Transform maps input data to output
// data, and every parameter of the wrapped function is individually
// gettable and settable by name via Param, Params, SetParam and
// SetParams.
//
// Parameter values are initialized from the wrapped function's declared
// defaults, can be overridden at construction with WithParam, and are
// mutated only through the set calls. The function reference itself is
// immutable.
type Transformer struct {
	fn     *Func
	params *paramSet
	values map[string]reflect.Value
	name   string
	logger hclog.Logger
}

// New wraps f into a Transformer.
//
// For the accepted shapes of f, see Func. A nil f produces an identity
// transformer: Transform returns its input unchanged and the parameter
// set is empty.
func New(f interface{}, opts ...Option) (*Transformer, error) {
	builder, err := newOptionBuilder(opts...)
	if err != nil {
		return nil, err
	}

	t := &Transformer{
		params: emptyParamSet(),
		name:   builder.name,
		logger: builder.logger,
	}

	if f != nil {
		fn, err := newFunc(f)
		if err != nil {
			return nil, err
		}

		t.fn = fn
		t.params = fn.params
	}

	if builder.hasDefaults {
		if err := t.params.applyDefaults(builder.defaults); err != nil {
			return nil, err
		}
	}

	t.values = t.params.defaults()

	if len(builder.params) > 0 {
		if err := t.SetParams(builder.params); err != nil {
			return nil, err
		}
	}

	t.logger.Trace("wrapped function as transformer",
		"name", t.Name(), "params", t.params.names())
	return t, nil
}

// Identity returns a transformer whose Transform returns its input
// unchanged. Equivalent to New(nil) with no options.
func Identity() *Transformer {
	t, err := New(nil)
	if err != nil {
		// New(nil) with no options cannot fail.
		panic(err)
	}

	return t
}

// Fit is a no-op that returns the receiver, for pipeline protocol
// compliance. The input data is ignored; a wrapped function is stateless.
func (t *Transformer) Fit(x interface{}) *Transformer {
	return t
}

// Transform applies the wrapped function to x using the currently stored
// parameter values and returns the result.
//
// An input whose dynamic type is not assignable to the function's data
// argument is a usage error. An error returned by the wrapped function
// itself is passed through.
func (t *Transformer) Transform(x interface{}) (interface{}, error) {
	if t.fn == nil {
		return x, nil
	}

	t.logger.Trace("transform", "name", t.Name())
	r := t.fn.call(x, t.params.instantiate(t.values))
	if err := r.Err(); err != nil {
		return nil, err
	}

	return r.Value(), nil
}

// FitTransform fits the transformer on x and transforms it, in one call.
func (t *Transformer) FitTransform(x interface{}) (interface{}, error) {
	return t.Fit(x).Transform(x)
}

// Params returns a snapshot of all parameters and their current values.
// The map has exactly one entry per declared parameter.
func (t *Transformer) Params() map[string]interface{} {
	out := make(map[string]interface{}, len(t.values))
	for name, v := range t.values {
		out[name] = v.Interface()
	}

	return out
}

// Param returns the current value of the named parameter. An unknown
// name returns ErrUnknownParam.
func (t *Transformer) Param(name string) (interface{}, error) {
	name = strings.ToLower(name)
	v, ok := t.values[name]
	if !ok {
		return nil, &ErrUnknownParam{Name: name, Known: t.params.names()}
	}

	return v.Interface(), nil
}

// SetParam sets the named parameter to the given value. An unknown name
// or an unusable value is an explicit usage error.
func (t *Transformer) SetParam(name string, value interface{}) error {
	return t.SetParams(map[string]interface{}{name: value})
}

// SetParams sets multiple parameters at once. All failures are collected
// and returned together; on any failure no parameter is updated.
func (t *Transformer) SetParams(params map[string]interface{}) error {
	staged := make(map[string]reflect.Value, len(params))

	var merr error
	for name, value := range params {
		name = strings.ToLower(name)
		field, ok := t.params.fields[name]
		if !ok {
			merr = multierror.Append(merr, &ErrUnknownParam{Name: name, Known: t.params.names()})
			continue
		}

		v, err := field.valueOf(value)
		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}

		staged[name] = v
	}
	if merr != nil {
		return merr
	}

	for name, v := range staged {
		t.values[name] = v
		t.logger.Trace("set parameter", "name", t.Name(), "param", name, "value", v.Interface())
	}

	return nil
}

// Name returns the step name of the transformer.
//
// This will return the configured name if one was given with WithName.
// If not, this will attempt to look up the wrapped function's name using
// the pointer, falling back to the function type signature. The identity
// transformer is named "identity".
func (t *Transformer) Name() string {
	if t.name != "" {
		return t.name
	}

	if t.fn == nil {
		return "identity"
	}

	return t.fn.Name()
}

// String returns the name of the transformer. See Name.
func (t *Transformer) String() string {
	return t.Name()
}
