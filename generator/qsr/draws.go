package qsr

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Draws supplies the random inputs of one simulated record. Simulate calls
// the methods exactly once each, in declaration order.
type Draws interface {
	Weather() float64
	Noise() float64
	Promotion() bool
	Ticket(mean float64) float64
}

type randomDraws struct {
	rng     *rand.Rand
	weather distuv.Normal
	noise   distuv.Normal
}

// NewRandomDraws returns Draws backed by rng. All draws come from the same
// stream, so the sequence is fully determined by the seed of rng and the
// order of calls.
func NewRandomDraws(rng *rand.Rand) Draws {
	return &randomDraws{
		rng:     rng,
		weather: distuv.Normal{Mu: weatherMean, Sigma: weatherStdDev, Src: rng},
		noise:   distuv.Normal{Mu: 0, Sigma: noiseStdDev, Src: rng},
	}
}

func (d *randomDraws) Weather() float64 { return d.weather.Rand() }

func (d *randomDraws) Noise() float64 { return d.noise.Rand() }

func (d *randomDraws) Promotion() bool { return d.rng.Float64() < promotionProbability }

func (d *randomDraws) Ticket(mean float64) float64 {
	return distuv.Normal{Mu: mean, Sigma: ticketStdDev, Src: d.rng}.Rand()
}

// newSource seeds the single random stream of a generation run.
func newSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}
