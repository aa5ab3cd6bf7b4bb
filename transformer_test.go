package functransform

import (
	"errors"
	"io"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"
)

func init() {
	hclog.L().SetLevel(hclog.Trace)
}

// Test fixtures mirroring the classic preprocessing steps a pipeline
// would wrap.

type scaleParams struct {
	Factor float64 `param:"factor,default=1.0"`
}

func scale(x [][]float64, p scaleParams) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = v * p.Factor
		}
	}

	return out
}

type shiftScaleParams struct {
	Offset float64 `param:"offset"`
	Factor float64 `param:"factor,default=1.0"`
}

func shiftScale(x [][]float64, p shiftScaleParams) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = p.Offset + v*p.Factor
		}
	}

	return out
}

var errNegative = errors.New("negative value")

type clampParams struct {
	Max float64 `param:"max,default=1.0"`
}

func clamp(x []float64, p clampParams) ([]float64, error) {
	out := make([]float64, len(x))
	for i, v := range x {
		if v < 0 {
			return nil, errNegative
		}
		if v > p.Max {
			v = p.Max
		}
		out[i] = v
	}

	return out, nil
}

func TestTransform(t *testing.T) {
	input := [][]float64{{1, 2}, {3, 4}}

	cases := []struct {
		Name  string
		Func  interface{}
		Opts  []Option
		Set   map[string]interface{}
		Input interface{}
		Out   interface{}
		Err   string
	}{
		{
			"identity with nil function",
			nil,
			nil,
			nil,
			input,
			input,
			"",
		},

		{
			"default parameters leave data unchanged",
			scale,
			nil,
			nil,
			input,
			[][]float64{{1, 2}, {3, 4}},
			"",
		},

		{
			"construction-time override",
			scale,
			[]Option{WithParam("factor", 2.0)},
			nil,
			input,
			[][]float64{{2, 4}, {6, 8}},
			"",
		},

		{
			"override via SetParam",
			scale,
			nil,
			map[string]interface{}{"factor": 2.0},
			input,
			[][]float64{{2, 4}, {6, 8}},
			"",
		},

		{
			"multiple parameters",
			shiftScale,
			[]Option{WithParams(map[string]interface{}{
				"offset": 1.0,
				"factor": 2.0,
			})},
			nil,
			input,
			[][]float64{{3, 5}, {7, 9}},
			"",
		},

		{
			"numeric conversion on set",
			scale,
			nil,
			map[string]interface{}{"factor": 2},
			input,
			[][]float64{{2, 4}, {6, 8}},
			"",
		},

		{
			"no params struct",
			func(x []int) []int {
				out := make([]int, len(x))
				for i, v := range x {
					out[i] = -v
				}
				return out
			},
			nil,
			nil,
			[]int{1, 2},
			[]int{-1, -2},
			"",
		},

		{
			"unknown parameter at construction",
			scale,
			[]Option{WithParam("gain", 2.0)},
			nil,
			input,
			nil,
			"Unknown parameter",
		},

		{
			"unusable parameter value at construction",
			scale,
			[]Option{WithParam("factor", []string{"nope"})},
			nil,
			input,
			nil,
			"not usable",
		},

		{
			"input type mismatch",
			scale,
			nil,
			nil,
			"not a matrix",
			nil,
			"not assignable",
		},

		{
			"error from the wrapped function",
			clamp,
			nil,
			nil,
			[]float64{1, -2},
			nil,
			"negative value",
		},
	}

	for _, tt := range cases {
		t.Run(tt.Name, func(t *testing.T) {
			require := require.New(t)

			tr, err := New(tt.Func, tt.Opts...)
			if err == nil && tt.Set != nil {
				err = tr.SetParams(tt.Set)
			}

			var out interface{}
			if err == nil {
				out, err = tr.Transform(tt.Input)
			}

			if tt.Err != "" {
				require.Error(err)
				require.Contains(err.Error(), tt.Err)
				return
			}

			require.NoError(err)
			require.Equal(tt.Out, out)
		})
	}
}

// Transforming with defaults must match calling the function directly
// with its defaults, and an override must match the direct call with
// that override.
func TestTransformMatchesDirectCall(t *testing.T) {
	require := require.New(t)
	input := [][]float64{{1, 2}, {3, 4}}

	tr, err := New(scale)
	require.NoError(err)

	out, err := tr.Transform(input)
	require.NoError(err)
	require.Equal(scale(input, scaleParams{Factor: 1.0}), out)

	require.NoError(tr.SetParam("factor", 2.0))
	out, err = tr.Transform(input)
	require.NoError(err)
	require.Equal(scale(input, scaleParams{Factor: 2.0}), out)
}

func TestFit(t *testing.T) {
	require := require.New(t)

	tr, err := New(scale)
	require.NoError(err)

	// Fit is a no-op returning the same transformer.
	require.Same(tr, tr.Fit([][]float64{{1}}))

	out, err := tr.Fit(nil).Transform([][]float64{{2}})
	require.NoError(err)
	require.Equal([][]float64{{2}}, out)
}

func TestFitTransform(t *testing.T) {
	require := require.New(t)

	tr, err := New(scale, WithParam("factor", 3.0))
	require.NoError(err)

	out, err := tr.FitTransform([][]float64{{1, 2}})
	require.NoError(err)
	require.Equal([][]float64{{3, 6}}, out)
}

func TestIdentity(t *testing.T) {
	require := require.New(t)

	tr := Identity()
	require.Equal("identity", tr.Name())
	require.Empty(tr.Params())

	out, err := tr.Transform("anything at all")
	require.NoError(err)
	require.Equal("anything at all", out)
}

func TestParams(t *testing.T) {
	require := require.New(t)

	tr, err := New(shiftScale)
	require.NoError(err)

	// Exactly one settable parameter per declared field, with the
	// declared defaults.
	require.Equal(map[string]interface{}{
		"offset": 0.0,
		"factor": 1.0,
	}, tr.Params())

	v, err := tr.Param("factor")
	require.NoError(err)
	require.Equal(1.0, v)

	_, err = tr.Param("gain")
	require.Error(err)
	require.Contains(err.Error(), "Unknown parameter")

	// The snapshot reflects sets.
	require.NoError(tr.SetParam("offset", 5.0))
	v, err = tr.Param("offset")
	require.NoError(err)
	require.Equal(5.0, v)
}

func TestParamsEmptySet(t *testing.T) {
	require := require.New(t)

	tr, err := New(func(x []int) []int { return x })
	require.NoError(err)
	require.Empty(tr.Params())

	err = tr.SetParam("anything", 1)
	require.Error(err)
	require.Contains(err.Error(), "declares no parameters")
}

func TestSetParamsAtomic(t *testing.T) {
	require := require.New(t)

	tr, err := New(shiftScale)
	require.NoError(err)

	// One good and one unknown key must leave everything untouched.
	err = tr.SetParams(map[string]interface{}{
		"factor": 2.0,
		"gain":   9.0,
	})
	require.Error(err)

	v, err := tr.Param("factor")
	require.NoError(err)
	require.Equal(1.0, v)
}

func TestName(t *testing.T) {
	require := require.New(t)

	tr, err := New(scale, WithName("scale"))
	require.NoError(err)
	require.Equal("scale", tr.Name())
	require.Equal("scale", tr.String())

	// Without WithName the runtime function name is used.
	tr, err = New(scale)
	require.NoError(err)
	require.Contains(tr.Name(), "scale")
}

func TestWithLogger(t *testing.T) {
	require := require.New(t)

	logger := hclog.New(&hclog.LoggerOptions{
		Level:  hclog.Error,
		Output: io.Discard,
	})
	tr, err := New(scale, WithLogger(logger))
	require.NoError(err)

	_, err = tr.Transform([][]float64{{1}})
	require.NoError(err)
}
