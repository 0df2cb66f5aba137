package compare

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athena-regress/athcheck/lib/field"
)

func set(t *testing.T, kv ...interface{}) field.Set {
	s := field.Set{ }
	for i := 0; i < len(kv); i += 2 {
		data := kv[i+1].([]float64)
		arr, err := field.New(data, len(data))
		require.NoError(t, err)
		s[kv[i].(string)] = arr
	}
	return s
}

func TestCompareTolerance(t *testing.T) {
	ref := set(t, "rho", []float64{ 1.0, 2.0, 4.0 })
	cand := set(t, "rho", []float64{ 1.0, 2.0, 4.0004 })
	pairs := Pairs([]string{"rho"}, Identity)

	res := Compare(ref, cand, pairs, 1e-3)
	assert.True(t, res.Pass)
	assert.InDelta(t, 1e-4, res.MaxError, 1e-12)
	require.Len(t, res.Fields, 1)
	assert.Equal(t, 0, res.Worst)
	assert.InDelta(t, 1e-4/3, res.Fields[0].MeanError, 1e-12)

	res = Compare(ref, cand, pairs, 1e-5)
	assert.False(t, res.Pass)
	assert.InDelta(t, 1e-4, res.MaxError, 1e-12)
	assert.Contains(t, res.String(), "fail")
	require.Len(t, res.Failing(), 1)
}

func TestCompareStrict(t *testing.T) {
	ref := set(t, "a", []float64{ 1, 2 })
	cand := set(t, "a", []float64{ 1.5, 2 })

	// 0.5 < 0.5 is false.
	res := Compare(ref, cand, Pairs([]string{"a"}, Identity), 0.5)
	assert.Equal(t, 0.5, res.MaxError)
	assert.False(t, res.Pass)
}

func TestCompareMaxAcrossFields(t *testing.T) {
	ref := set(t,
		"He+", []float64{ 1, 1 },
		"CO", []float64{ 10, 10 },
		"H2", []float64{ 3, 3 },
	)
	cand := set(t,
		"rHe+", []float64{ 1.01, 1 },
		"rCO", []float64{ 10, 13 },
		"rH2", []float64{ 3, 3 },
	)

	res := Compare(ref, cand, Pairs([]string{"He+", "CO", "H2"}, Prefix("r")),
		1.0)
	require.Empty(t, res.Problems)
	assert.InDelta(t, 0.3, res.MaxError, 1e-12)
	assert.Equal(t, "CO", res.Fields[res.Worst].Ref)
	assert.Equal(t, "rCO", res.Fields[res.Worst].Cand)
	assert.True(t, res.Pass)

	failing := Compare(ref, cand, Pairs([]string{"He+", "CO", "H2"},
		Prefix("r")), 0.005).Failing()
	require.Len(t, failing, 2)
	assert.Equal(t, "CO", failing[0].Ref)
	assert.Equal(t, "He+", failing[1].Ref)
}

func TestCompareScale(t *testing.T) {
	gam1 := 5.0/3 - 1
	ref := set(t, "E", []float64{ 3, 6 })
	cand := set(t, "press", []float64{ 3*gam1, 6*gam1 })

	res := Compare(ref, cand, []Pair{{ Ref: "E", Cand: "press",
		Scale: 1/gam1 }}, 1e-12)
	assert.True(t, res.Pass, res.String())
	assert.Contains(t, res.Fields[0].String(), "E:press*")
	assert.Equal(t, []float64{ 3*gam1, 6*gam1 }, cand["press"].Data)
}

func TestCompareZeroReference(t *testing.T) {
	ref := set(t, "a", []float64{ 0, 0, 2 })
	cand := set(t, "a", []float64{ 0, 1e-3, 2 })

	res := Compare(ref, cand, Pairs([]string{"a"}, Identity), 1e-2)
	assert.True(t, res.Pass)
	assert.Equal(t, 2, res.Fields[0].ZeroRefs)
	assert.InDelta(t, 1e-3, res.MaxError, 1e-15)

	zeros := set(t, "a", []float64{ 0, 0 })
	res = Compare(zeros, zeros, Pairs([]string{"a"}, Identity), 1e-10)
	assert.True(t, res.Pass)
	assert.Equal(t, 0.0, res.MaxError)
}

func TestCompareNaN(t *testing.T) {
	ref := set(t, "a", []float64{ 1, 2 }, "b", []float64{ 1, 1 })
	cand := set(t, "a", []float64{ math.NaN(), 2 }, "b", []float64{ 1, 2 })

	res := Compare(ref, cand, Pairs([]string{"a", "b"}, Identity), 10)
	assert.False(t, res.Pass)
	assert.True(t, math.IsNaN(res.MaxError))
	assert.Equal(t, "a", res.Fields[res.Worst].Ref)
	assert.Equal(t, "a", res.Failing()[0].Ref)
}

func TestCompareProblems(t *testing.T) {
	ref := set(t, "a", []float64{ 1, 2 }, "b", []float64{ 1, 2, 3 })
	cand := set(t, "a", []float64{ 1, 2 }, "b", []float64{ 1, 2 })

	tests := []struct {
		pairs []Pair
		problems int
	} {
		{nil, 1},
		{[]Pair{{ Ref: "x", Cand: "a" }}, 1},
		{[]Pair{{ Ref: "a", Cand: "x" }}, 1},
		{[]Pair{{ Ref: "b", Cand: "b" }}, 1},
		{[]Pair{{ Ref: "a", Cand: "a" }, { Ref: "b", Cand: "b" }}, 1},
		{[]Pair{{ Ref: "a", Cand: "a" }}, 0},
	}

	for i := range tests {
		res := Compare(ref, cand, tests[i].pairs, 1)
		assert.Len(t, res.Problems, tests[i].problems, "%d) %v", i, res.Problems)
		if tests[i].problems > 0 {
			assert.False(t, res.Pass, "%d)", i)
			assert.True(t, math.IsInf(res.MaxError, 1), "%d)", i)
			assert.Equal(t, -1, res.Worst, "%d)", i)
		} else {
			assert.True(t, res.Pass, "%d)", i)
		}
	}
}

func TestNameMaps(t *testing.T) {
	names := []string{"E", "CO"}
	m := Rename(map[string]string{ "E": "press" })
	pairs := Pairs(names, m)
	assert.Equal(t, []Pair{{ Ref: "E", Cand: "press" }, { Ref: "CO", Cand: "CO" }},
		pairs)
	assert.Equal(t, "rCO", Prefix("r")("CO"))
	assert.Equal(t, "CO", Identity("CO"))
}
