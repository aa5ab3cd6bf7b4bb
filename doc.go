// Package functransform turns plain Go functions into pipeline
// transformers.
//
// A transformer, in the convention used by estimator pipelines, is an
// object with a no-op Fit that returns itself and a Transform that maps
// input data to output data. Pipelines additionally expect every tunable
// of a step to be individually gettable and settable by name, rather than
// hidden inside one opaque options value.
//
// functransform builds such an object from an ordinary function. The
// function declares its tunables as fields of a params struct; New
// inspects that struct once with reflection, records each field as a
// named parameter with a default value, and returns a Transformer whose
// parameter surface mirrors the struct exactly. No code is generated at
// runtime; reflection is used once at wrap time and once per Transform.
//
// The primary usage of this library is via the New function and the
// Transformer struct. See Transformer for more documentation.
package functransform
