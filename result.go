package functransform

import "reflect"

// result holds the raw outputs of a call to a wrapped function.
type result struct {
	out      []reflect.Value
	buildErr error
}

// resultError returns a result with an error.
func resultError(err error) result {
	return result{buildErr: err}
}

// Err returns any error that occurred as part of the call. This can be a
// usage error in the process of calling or it can be an error from the
// result of the call. A non-nil final output of type error is
// automatically detected.
func (r *result) Err() error {
	if r.buildErr != nil {
		return r.buildErr
	}

	if len(r.out) > 0 {
		final := r.out[len(r.out)-1]
		if final.IsValid() && final.Type() == errType {
			if err := final.Interface(); err != nil {
				return err.(error)
			}
		}
	}

	return nil
}

// Value returns the transformed data, the first output of the call. Only
// valid when Err returns nil.
func (r *result) Value() interface{} {
	if len(r.out) == 0 {
		return nil
	}

	return r.out[0].Interface()
}
