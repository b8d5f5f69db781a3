package qsr

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"qsr-forecast/models"
)

const maxStores = 999

// NewRoster builds n stores STORE_001..STORE_n. For each store, in roster
// order, it draws the type, the region, the daily baseline and the size
// factor from rng.
func NewRoster(n int, rng *rand.Rand) ([]*models.StoreMetadata, error) {
	if n < 1 || n > maxStores {
		return nil, fmt.Errorf("qsr: store count %d out of range [1,%d]", n, maxStores)
	}

	size := distuv.Uniform{Min: minSizeFactor, Max: maxSizeFactor, Src: rng}
	stores := make([]*models.StoreMetadata, 0, n)
	for i := 1; i <= n; i++ {
		storeType := models.StoreTypes[rng.IntN(models.NumStoreTypes)]
		region := models.Regions[rng.IntN(models.NumRegions)]
		baseline := minBaseline + rng.IntN(maxBaseline-minBaseline+1)

		stores = append(stores, &models.StoreMetadata{
			StoreID:          StoreID(i),
			StoreType:        storeType,
			Region:           region,
			AvgDailyBaseline: baseline,
			SizeFactor:       size.Rand(),
		})
	}
	return stores, nil
}

// StoreID formats the roster identifier of the i-th store (1-based).
func StoreID(i int) string {
	return fmt.Sprintf("STORE_%03d", i)
}
