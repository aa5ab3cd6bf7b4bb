package functransform

import (
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
)

// Option is an option to New that configures the constructed Transformer.
// This can be an initial parameter value, a defaults baseline, a step
// name, or a logger.
type Option func(*optionBuilder) error

type optionBuilder struct {
	logger      hclog.Logger
	name        string
	defaults    interface{}
	hasDefaults bool
	params      map[string]interface{}
}

func newOptionBuilder(opts ...Option) (*optionBuilder, error) {
	builder := &optionBuilder{
		logger: hclog.L(),
		params: make(map[string]interface{}),
	}

	var buildErr error
	for _, opt := range opts {
		if err := opt(builder); err != nil {
			buildErr = multierror.Append(buildErr, err)
		}
	}

	return builder, buildErr
}

// WithParam sets the initial value of the named parameter, overriding the
// default. This is the construction-time equivalent of SetParam: the name
// must be a declared parameter of the wrapped function and the value must
// be usable for its type.
func WithParam(n string, v interface{}) Option {
	return func(b *optionBuilder) error {
		b.params[strings.ToLower(n)] = v
		return nil
	}
}

// WithParams sets multiple initial parameter values. See WithParam.
func WithParams(params map[string]interface{}) Option {
	return func(b *optionBuilder) error {
		for n, v := range params {
			b.params[strings.ToLower(n)] = v
		}
		return nil
	}
}

// WithDefaults replaces the parameter defaults wholesale with the field
// values of the given params struct instance. Defaults declared in
// `param` tags are ignored when this option is present.
func WithDefaults(v interface{}) Option {
	return func(b *optionBuilder) error {
		b.defaults = v
		b.hasDefaults = true
		return nil
	}
}

// WithName sets the step name of the transformer, used when routing
// nested "step__param" keys. If not set, the name is derived from the
// wrapped function.
func WithName(n string) Option {
	return func(b *optionBuilder) error {
		b.name = n
		return nil
	}
}

// WithLogger sets the logger used by the transformer. Defaults to
// hclog.L().
func WithLogger(l hclog.Logger) Option {
	return func(b *optionBuilder) error {
		b.logger = l
		return nil
	}
}
