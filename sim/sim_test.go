package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	horizon "github.com/dynoptics/go-horizon"
	"github.com/dynoptics/go-horizon/data"
	"github.com/dynoptics/go-horizon/link"
	"github.com/dynoptics/go-horizon/model"
	"github.com/dynoptics/go-horizon/noise"
)

func TestNewDiscrete(t *testing.T) {
	assert := assert.New(t)

	_, err := NewDiscrete(nil, nil, nil, nil, nil)
	assert.Error(err)

	A := mat.NewDense(2, 2, []float64{1.0, 0.1, 0.0, 1.0})
	d, err := NewDiscrete(A, nil, nil, nil, nil)
	assert.NoError(err)
	nx, nu, ny, nz := d.SystemDims()
	assert.Equal(2, nx)
	assert.Equal(0, nu)
	assert.Equal(0, ny)
	assert.Equal(0, nz)
}

func TestNewDiscreteFromContinuous(t *testing.T) {
	assert := assert.New(t)

	// dx/dt = [[0,1],[0,0]]x + [[0],[1]]u discretized with dt=0.1
	A := mat.NewDense(2, 2, []float64{0.0, 1.0, 0.0, 0.0})
	B := mat.NewDense(2, 1, []float64{0.0, 1.0})
	d, err := NewDiscreteFromContinuous(A, B, nil, nil, nil, 0.1)
	assert.NoError(err)

	wantA := mat.NewDense(2, 2, []float64{1.0, 0.1, 0.0, 1.0})
	wantB := mat.NewDense(2, 1, []float64{0.0, 0.1})
	assert.True(mat.EqualApprox(wantA, d.A, 1e-12))
	assert.True(mat.EqualApprox(wantB, d.B, 1e-12))

	_, err = NewDiscreteFromContinuous(nil, B, nil, nil, nil, 0.1)
	assert.Error(err)
}

func TestDiscretePropagate(t *testing.T) {
	assert := assert.New(t)

	A := mat.NewDense(2, 2, []float64{1.0, 0.1, 0.0, 1.0})
	B := mat.NewDense(2, 1, []float64{0.0, 0.1})
	d, err := NewDiscrete(A, B, nil, nil, nil)
	assert.NoError(err)

	x := mat.NewVecDense(2, []float64{1.0, 2.0})
	u := mat.NewVecDense(1, []float64{1.0})

	next, err := d.Propagate(x, u)
	assert.NoError(err)
	assert.InDelta(1.2, next.AtVec(0), 1e-12)
	assert.InDelta(2.1, next.AtVec(1), 1e-12)

	_, err = d.Propagate(mat.NewVecDense(3, nil), u)
	assert.Error(err)
	_, err = d.Propagate(x, mat.NewVecDense(2, nil))
	assert.Error(err)
}

func TestSystemObserve(t *testing.T) {
	assert := assert.New(t)

	A := mat.NewDense(2, 2, []float64{1.0, 0.0, 0.0, 1.0})
	C := mat.NewDense(1, 2, []float64{1.0, 0.0})
	d, err := NewDiscrete(A, nil, C, nil, nil)
	assert.NoError(err)

	x := mat.NewVecDense(2, []float64{3.0, 4.0})
	y, err := d.Observe(x, nil, nil)
	assert.NoError(err)
	assert.InDelta(3.0, y.AtVec(0), 1e-12)

	wn := mat.NewVecDense(1, []float64{0.5})
	y, err = d.Observe(x, nil, wn)
	assert.NoError(err)
	assert.InDelta(3.5, y.AtVec(0), 1e-12)

	_, err = d.Observe(mat.NewVecDense(3, nil), nil, nil)
	assert.Error(err)
}

func TestPlantSolve(t *testing.T) {
	assert := assert.New(t)

	// x[n+1] = 0.5*x[n] + u[n]
	A := mat.NewDense(1, 1, []float64{0.5})
	B := mat.NewDense(1, 1, []float64{1.0})
	sys, err := NewDiscrete(A, B, nil, nil, nil)
	assert.NoError(err)

	_, err = NewPlant(sys, []string{"x", "y"}, []string{"u"})
	assert.Error(err)

	plant, err := NewPlant(sys, []string{"x"}, []string{"u"})
	assert.NoError(err)

	times := []float64{0.0, 1.0, 2.0}
	m := model.New("plant")
	x := m.NewVar("x", times)
	u := m.NewVar("u", times)

	slot, _ := x.SlotAt(0.0)
	slot.SetValue(1.0)
	u.Initialize(func(float64) float64 { return 1.0 })

	assert.NoError(plant.Solve(m))

	want := map[float64]float64{0.0: 1.0, 1.0: 1.5, 2.0: 1.75}
	for tp, wantVal := range want {
		s, _ := x.SlotAt(tp)
		val, ok := s.Value()
		assert.True(ok)
		assert.InDelta(wantVal, val, 1e-12, "t=%v", tp)
	}

	// A model missing one of the named variables cannot be solved.
	empty := model.New("empty")
	assert.Error(plant.Solve(empty))
}

func TestShiftValues(t *testing.T) {
	assert := assert.New(t)

	times := []float64{0.0, 1.0, 2.0}
	v := model.NewVar("x", times)
	v.Initialize(func(t float64) float64 { return t })

	assert.NoError(ShiftValues([]horizon.Variable{v}, 1.0))

	want := map[float64]float64{0.0: 1.0, 1.0: 2.0, 2.0: 2.0}
	for tp, wantVal := range want {
		s, _ := v.SlotAt(tp)
		val, _ := s.Value()
		assert.Equal(wantVal, val, "t=%v", tp)
	}
}

// noopSolver stands in for an estimation solver: the estimator model is
// already seeded with its solution before Solve is called.
type noopSolver struct{}

func (noopSolver) Solve(horizon.Model) error { return nil }

func TestRunnerRun(t *testing.T) {
	assert := assert.New(t)

	plantTimes := []float64{0.0, 1.0, 2.0}
	estTimes := []float64{0.0, 1.0, 2.0}
	lastSampleTimes := []float64{1.0, 2.0}
	sampleTime := 2.0

	// Plant: x[n+1] = 0.5*x[n] + u[n]
	A := mat.NewDense(1, 1, []float64{0.5})
	B := mat.NewDense(1, 1, []float64{1.0})
	sys, err := NewDiscrete(A, B, nil, nil, nil)
	assert.NoError(err)
	plantSolver, err := NewPlant(sys, []string{"x"}, []string{"u"})
	assert.NoError(err)

	plant := model.New("plant")
	px := plant.NewVar("x", plantTimes)
	plant.NewVar("u", plantTimes)
	slot, _ := px.SlotAt(0.0)
	slot.SetValue(1.0)

	estimator := model.New("estimator")
	ex := estimator.NewVar("x", estTimes)
	exMeas := estimator.NewVar("x_measurement", estTimes)
	estimator.NewVar("u", estTimes)

	measLinker, err := link.NewLinker(
		[]horizon.Variable{px}, []horizon.Variable{exMeas},
	)
	assert.NoError(err)
	estLinker, err := link.NewLinker(
		[]horizon.Variable{exMeas}, []horizon.Variable{ex},
	)
	assert.NoError(err)

	inputs, err := data.NewTimeSeriesData(
		map[string][]float64{"u": {1.0, 1.0}},
		[]float64{0.0, 2.0},
	)
	assert.NoError(err)

	r := &Runner{
		Plant:             plant,
		Estimator:         estimator,
		PlantSolver:       plantSolver,
		EstimatorSolver:   noopSolver{},
		MeasurementLinker: measLinker,
		EstimateLinker:    estLinker,
		RecordVars:        []horizon.Variable{px},
		EstimateVars:      []horizon.Variable{ex},
		ShiftVars:         []horizon.Variable{ex, exMeas},
		ReseedVars:        []horizon.Variable{px},
		PlantTimes:        plantTimes,
		EstimatorTimes:    estTimes,
		LastSampleTimes:   lastSampleTimes,
		SampleTime:        sampleTime,
		Inputs:            inputs,
	}

	states, estimates, err := r.Run(2)
	assert.NoError(err)

	assert.Equal([]float64{2.0, 4.0}, states.TimePoints())
	assert.Equal([]float64{2.0, 4.0}, estimates.TimePoints())

	// Step 1: x goes 1 -> 1.5 -> 1.75; step 2 starts from 1.75.
	wantStates := []float64{1.75, 1.9375}
	got, ok := states.Get("x")
	assert.True(ok)
	assert.Len(got, 2)
	for i := range wantStates {
		assert.InDelta(wantStates[i], got[i], 1e-12)
	}

	// With exact measurements and a pass-through estimator, the
	// estimates track the plant exactly.
	gotEst, ok := estimates.Get("x")
	assert.True(ok)
	for i := range wantStates {
		assert.InDelta(wantStates[i], gotEst[i], 1e-12)
	}
}

func TestRunnerValidate(t *testing.T) {
	assert := assert.New(t)

	r := &Runner{}
	_, _, err := r.Run(1)
	assert.Error(err)

	r = &Runner{
		Plant:     model.New("plant"),
		Estimator: model.New("estimator"),
	}
	_, _, err = r.Run(1)
	assert.Error(err)
}

func TestStateEstimatePlot(t *testing.T) {
	assert := assert.New(t)

	states, err := data.NewTimeSeriesData(
		map[string][]float64{"x": {1.0, 2.0}},
		[]float64{0.0, 1.0},
	)
	assert.NoError(err)
	estimates, err := data.NewTimeSeriesData(
		map[string][]float64{"x": {1.1, 1.9}},
		[]float64{0.0, 1.0},
	)
	assert.NoError(err)

	p, err := StateEstimatePlot(states, estimates, "x")
	assert.NoError(err)
	assert.NotNil(p)

	_, err = StateEstimatePlot(states, estimates, "y")
	assert.Error(err)

	_, err = StateEstimatePlot(nil, estimates, "x")
	assert.Error(err)
}

func TestRunnerRunWithNoise(t *testing.T) {
	assert := assert.New(t)

	plantTimes := []float64{0.0, 1.0, 2.0}
	estTimes := []float64{0.0, 1.0, 2.0}
	sampleTime := 2.0

	A := mat.NewDense(1, 1, []float64{0.5})
	B := mat.NewDense(1, 1, []float64{1.0})
	sys, err := NewDiscrete(A, B, nil, nil, nil)
	assert.NoError(err)
	plantSolver, err := NewPlant(sys, []string{"x"}, []string{"u"})
	assert.NoError(err)

	plant := model.New("plant")
	px := plant.NewVar("x", plantTimes)
	plant.NewVar("u", plantTimes)
	slot, _ := px.SlotAt(0.0)
	slot.SetValue(1.0)

	estimator := model.New("estimator")
	ex := estimator.NewVar("x", estTimes)
	exMeas := estimator.NewVar("x_measurement", estTimes)
	estimator.NewVar("u", estTimes)

	measLinker, err := link.NewLinker(
		[]horizon.Variable{px}, []horizon.Variable{exMeas},
	)
	assert.NoError(err)
	estLinker, err := link.NewLinker(
		[]horizon.Variable{exMeas}, []horizon.Variable{ex},
	)
	assert.NoError(err)

	inputs, err := data.NewTimeSeriesData(
		map[string][]float64{"u": {1.0, 1.0, 1.0}},
		[]float64{0.0, 2.0, 4.0},
	)
	assert.NoError(err)

	r := &Runner{
		Plant:             plant,
		Estimator:         estimator,
		PlantSolver:       plantSolver,
		EstimatorSolver:   noopSolver{},
		MeasurementLinker: measLinker,
		EstimateLinker:    estLinker,
		RecordVars:        []horizon.Variable{px},
		EstimateVars:      []horizon.Variable{ex},
		ShiftVars:         []horizon.Variable{ex, exMeas},
		ReseedVars:        []horizon.Variable{px},
		PlantTimes:        plantTimes,
		EstimatorTimes:    estTimes,
		LastSampleTimes:   []float64{1.0, 2.0},
		SampleTime:        sampleTime,
		Inputs:            inputs,
		Noise: &NoiseConfig{
			Params: []float64{0.05},
			Func:   noise.GaussianFunc(rand.NewSource(11)),
			Bounds: []noise.Bounds{{Lower: 0.0, Upper: 5.0}},
		},
	}

	states, estimates, err := r.Run(3)
	assert.NoError(err)

	gotStates, _ := states.Get("x")
	gotEst, _ := estimates.Get("x")
	assert.Len(gotEst, 3)
	for i := range gotStates {
		assert.LessOrEqual(0.0, gotEst[i])
		assert.LessOrEqual(gotEst[i], 5.0)
		assert.InDelta(gotStates[i], gotEst[i], 0.5)
	}
}
