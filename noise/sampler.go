package noise

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// GaussianFunc returns a sampling function drawing from a Normal
// distribution centred on the nominal value, with standard deviation
// given by the spread parameter. The source is owned by the caller;
// a seeded source makes the noise sequence reproducible.
func GaussianFunc(src rand.Source) Func {
	return func(nominal, param float64) float64 {
		dist := distuv.Normal{Mu: nominal, Sigma: param, Src: src}
		return dist.Rand()
	}
}

// UniformFunc returns a sampling function drawing uniformly from the
// interval [nominal-param, nominal+param].
func UniformFunc(src rand.Source) Func {
	return func(nominal, param float64) float64 {
		dist := distuv.Uniform{Min: nominal - param, Max: nominal + param, Src: src}
		return dist.Rand()
	}
}
