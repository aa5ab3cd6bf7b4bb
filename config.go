package functransform

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the environment variable prefix recognized by LoadParams.
const EnvPrefix = "FUNCTRANSFORM__"

// paramKeyDelim separates the step name from the parameter name in
// nested parameter keys, per the pipeline framework convention.
const paramKeyDelim = "__"

// SplitParamKey splits a nested parameter key of the form "step__param"
// into its step and parameter components. A key without a delimiter has
// no step component and addresses a parameter directly.
func SplitParamKey(key string) (step, param string) {
	idx := strings.Index(key, paramKeyDelim)
	if idx == -1 {
		return "", key
	}

	return key[:idx], key[idx+len(paramKeyDelim):]
}

// LoadParams reads parameter overrides from a YAML file merged with
// environment variables (prefix `FUNCTRANSFORM__`, delimiter `__`).
// Environment values override file values.
//
// The returned map is flat: nested YAML sections are flattened into
// "step__param" keys, so both of these address the same parameter:
//
//	scale__factor: 2
//
//	scale:
//	  factor: 2
//
// An empty path loads from the environment only. Apply the result to a
// transformer with ApplyParams.
func LoadParams(path string) (map[string]interface{}, error) {
	const delim = "."

	k := koanf.New(delim)
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	_ = k.Load(env.Provider(EnvPrefix, paramKeyDelim, func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)

	out := make(map[string]interface{})
	for key, v := range k.All() {
		out[strings.ReplaceAll(key, delim, paramKeyDelim)] = v
	}

	return out, nil
}

// ApplyParams applies a flat override map, as returned by LoadParams, to
// the given transformer.
//
// Plain keys address parameters of t directly and must match a declared
// parameter. Nested "step__param" keys are routed by step name: keys
// whose step matches t's name (case-insensitively) are applied, keys
// addressed to other steps are skipped. On any failure no parameter is
// updated; see SetParams.
func ApplyParams(t *Transformer, params map[string]interface{}) error {
	direct := make(map[string]interface{}, len(params))
	for key, v := range params {
		step, param := SplitParamKey(key)
		if step != "" && !strings.EqualFold(step, t.Name()) {
			continue
		}

		direct[param] = v
	}

	return t.SetParams(direct)
}
