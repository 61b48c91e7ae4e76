package link

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/rand"

	horizon "github.com/dynoptics/go-horizon"
	"github.com/dynoptics/go-horizon/model"
	"github.com/dynoptics/go-horizon/noise"
)

// makePair builds a source model on [0,1,2] with initialized variables
// and a target model on [0,0.5,1] with uninitialized ones.
func makePair() (srcVars, tgtVars []horizon.Variable) {
	srcTime := []float64{0.0, 1.0, 2.0}
	tgtTime := []float64{0.0, 0.5, 1.0}

	x := model.NewVar("x", srcTime)
	x.Initialize(func(t float64) float64 { return 1.0 + t })
	u := model.NewVar("u", srcTime)
	u.Initialize(func(t float64) float64 { return 10.0 * t })

	return []horizon.Variable{x, u}, []horizon.Variable{
		model.NewVar("x", tgtTime),
		model.NewVar("u", tgtTime),
	}
}

func valueAt(t *testing.T, v horizon.Variable, tp float64) float64 {
	t.Helper()
	slot, ok := v.At(tp)
	if !ok {
		t.Fatalf("variable %q is not indexed by %v", v.Name(), tp)
	}
	val, ok := slot.Value()
	if !ok {
		t.Fatalf("variable %q has no value at %v", v.Name(), tp)
	}
	return val
}

func TestNewLinkerLengthMismatch(t *testing.T) {
	assert := assert.New(t)

	srcVars, tgtVars := makePair()
	_, err := NewLinker(srcVars, tgtVars[:1])
	assert.Error(err)
}

func TestTransferOneToOne(t *testing.T) {
	assert := assert.New(t)

	srcVars, tgtVars := makePair()
	l, err := NewLinker(srcVars, tgtVars)
	assert.NoError(err)

	// Final source value seeds the initial target point.
	assert.NoError(l.Transfer([]float64{2.0}, []float64{0.0}))
	assert.Equal(3.0, valueAt(t, tgtVars[0], 0.0))
	assert.Equal(20.0, valueAt(t, tgtVars[1], 0.0))

	_, ok := tgtVars[0].At(0.5)
	assert.True(ok)
	slot, _ := tgtVars[0].At(0.5)
	_, hasVal := slot.Value()
	assert.False(hasVal)
}

func TestTransferOneToAll(t *testing.T) {
	assert := assert.New(t)

	srcVars, tgtVars := makePair()
	l, err := NewLinker(srcVars, tgtVars)
	assert.NoError(err)

	// A single source value is broadcast to every target time point.
	assert.NoError(l.Transfer([]float64{2.0}, []float64{0.0, 0.5, 1.0}))
	for _, tp := range []float64{0.0, 0.5, 1.0} {
		assert.Equal(3.0, valueAt(t, tgtVars[0], tp))
		assert.Equal(20.0, valueAt(t, tgtVars[1], tp))
	}
}

func TestTransferAllToAll(t *testing.T) {
	assert := assert.New(t)

	srcVars, tgtVars := makePair()
	l, err := NewLinker(srcVars, tgtVars)
	assert.NoError(err)

	assert.NoError(l.Transfer([]float64{0.0, 1.0, 2.0}, []float64{0.0, 0.5, 1.0}))
	assert.Equal(1.0, valueAt(t, tgtVars[0], 0.0))
	assert.Equal(2.0, valueAt(t, tgtVars[0], 0.5))
	assert.Equal(3.0, valueAt(t, tgtVars[0], 1.0))
	assert.Equal(0.0, valueAt(t, tgtVars[1], 0.0))
	assert.Equal(10.0, valueAt(t, tgtVars[1], 0.5))
	assert.Equal(20.0, valueAt(t, tgtVars[1], 1.0))
}

func TestTransferDefaultTimes(t *testing.T) {
	assert := assert.New(t)

	srcVars, tgtVars := makePair()
	l, err := NewLinker(srcVars, tgtVars,
		WithSourceTime([]float64{2.0}),
		WithTargetTime([]float64{0.0, 0.5, 1.0}),
	)
	assert.NoError(err)

	assert.NoError(l.Transfer(nil, nil))
	for _, tp := range []float64{0.0, 0.5, 1.0} {
		assert.Equal(3.0, valueAt(t, tgtVars[0], tp))
	}
}

func TestTransferMissingTimes(t *testing.T) {
	assert := assert.New(t)

	srcVars, tgtVars := makePair()
	l, err := NewLinker(srcVars, tgtVars)
	assert.NoError(err)

	err = l.Transfer(nil, []float64{0.0})
	assert.Error(err)
	assert.Contains(err.Error(), "source time points were not provided")

	err = l.Transfer([]float64{0.0}, nil)
	assert.Error(err)
	assert.Contains(err.Error(), "target time points were not provided")
}

func TestLoadLengthMismatch(t *testing.T) {
	assert := assert.New(t)

	srcVars, tgtVars := makePair()
	l, err := NewLinker(srcVars, tgtVars)
	assert.NoError(err)

	err = l.Transfer([]float64{0.0, 2.0}, []float64{0.0, 0.5, 1.0})
	assert.Error(err)
	assert.Contains(err.Error(), "cannot load 2 values into 3 target time points")
}

func TestExtractErrors(t *testing.T) {
	assert := assert.New(t)

	srcVars, tgtVars := makePair()
	l, err := NewLinker(srcVars, tgtVars)
	assert.NoError(err)

	_, err = l.Extract([]float64{3.0})
	assert.Error(err)

	unset := model.NewVar("y", []float64{0.0})
	l, err = NewLinker(
		[]horizon.Variable{unset},
		[]horizon.Variable{model.NewVar("y", []float64{0.0})},
	)
	assert.NoError(err)
	_, err = l.Extract([]float64{0.0})
	assert.Error(err)
}

func TestApplyNoise(t *testing.T) {
	assert := assert.New(t)

	srcVars, tgtVars := makePair()
	l, err := NewLinker(srcVars, tgtVars)
	assert.NoError(err)

	data, err := l.Extract([]float64{0.0, 1.0, 2.0})
	assert.NoError(err)

	params := []float64{0.1, 1.0}
	bounds := []noise.Bounds{noise.NoBounds(), noise.NoBounds()}
	fn := noise.GaussianFunc(rand.NewSource(5))

	noised, err := l.ApplyNoise(data, params, fn, bounds, noise.Discard, 5, 0.0)
	assert.NoError(err)
	for i, v := range srcVars {
		orig := data[v]
		got := noised[v]
		assert.Len(got, len(orig))
		for j := range orig {
			assert.InDelta(orig[j], got[j], 5*params[i])
		}
	}

	_, err = l.ApplyNoise(data, params[:1], fn, bounds, noise.Discard, 5, 0.0)
	assert.Error(err)
	_, err = l.ApplyNoise(data, params, fn, bounds[:1], noise.Discard, 5, 0.0)
	assert.Error(err)
}

func TestTransferWithNoise(t *testing.T) {
	assert := assert.New(t)

	srcVars, tgtVars := makePair()
	l, err := NewLinker(srcVars, tgtVars)
	assert.NoError(err)

	params := []float64{0.1, 1.0}
	bounds := []noise.Bounds{
		{Lower: 0.5, Upper: 5.0},
		{Lower: -1.0, Upper: 25.0},
	}
	fn := noise.GaussianFunc(rand.NewSource(6))

	// Broadcast a noised final source value to every target point.
	assert.NoError(l.TransferWithNoise(params, fn, bounds, []float64{2.0}, []float64{0.0, 0.5, 1.0}))
	for i, v := range tgtVars {
		b := bounds[i]
		first := valueAt(t, v, 0.0)
		for _, tp := range []float64{0.0, 0.5, 1.0} {
			val := valueAt(t, v, tp)
			assert.Equal(first, val)
			assert.LessOrEqual(b.Lower, val)
			assert.LessOrEqual(val, b.Upper)
		}
	}

	err = l.TransferWithNoise(params, fn, bounds, []float64{0.0, 2.0}, []float64{0.0, 0.5, 1.0})
	assert.Error(err)
}
