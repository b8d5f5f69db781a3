package qsr

import (
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qsr-forecast/models"
	"qsr-forecast/utils"
)

func quietLogger() *utils.Logger {
	return utils.NewLoggerWithOptions(utils.LoggerOptions{Output: io.Discard})
}

func generate(t *testing.T, seed uint64, stores int, start, end string) *models.Dataset {
	t.Helper()
	r, err := ParseDateRange(start, end)
	require.NoError(t, err)
	g, err := New(Params{Seed: seed, Stores: stores, Range: r, GrowthRate: 0.02}, quietLogger())
	require.NoError(t, err)
	ds, err := g.Generate()
	require.NoError(t, err)
	return ds
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := generate(t, 42, 4, "2022-01-01", "2022-03-31")
	b := generate(t, 42, 4, "2022-01-01", "2022-03-31")
	require.Equal(t, a, b)

	c := generate(t, 43, 4, "2022-01-01", "2022-03-31")
	assert.NotEqual(t, a.Sales, c.Sales)
}

func TestGenerateTwoStoresTwoDays(t *testing.T) {
	ds := generate(t, 42, 2, "2022-01-01", "2022-01-02")

	require.Len(t, ds.Sales, 4)
	require.Len(t, ds.Stores, 2)
	assert.Equal(t, "STORE_001", ds.Stores[0].StoreID)
	assert.Equal(t, "STORE_002", ds.Stores[1].StoreID)

	wantOrder := []struct{ date, store string }{
		{"2022-01-01", "STORE_001"},
		{"2022-01-01", "STORE_002"},
		{"2022-01-02", "STORE_001"},
		{"2022-01-02", "STORE_002"},
	}
	for i, w := range wantOrder {
		assert.Equal(t, w.date, ds.Sales[i].Date.Format(dateLayout))
		assert.Equal(t, w.store, ds.Sales[i].StoreID)
	}
	assert.True(t, ds.Sales[0].IsHoliday)
	assert.False(t, ds.Sales[2].IsHoliday)

	// a single-year range has no training years
	assert.Empty(t, ds.Train)
	assert.Len(t, ds.Validation, 4)
}

func TestGenerateDatasetProperties(t *testing.T) {
	const stores = 3
	ds := generate(t, 42, stores, "2022-01-01", "2024-12-31")

	r, err := ParseDateRange("2022-01-01", "2024-12-31")
	require.NoError(t, err)
	require.Len(t, ds.Sales, stores*r.Len())
	assert.Equal(t, 2024, ds.FinalYear)

	roster := make(map[string]*models.StoreMetadata)
	for _, s := range ds.Stores {
		roster[s.StoreID] = s
	}

	for i, rec := range ds.Sales {
		assert.GreaterOrEqual(t, rec.TotalSales, 0.0)
		assert.GreaterOrEqual(t, rec.GuestCount, 0)
		assert.GreaterOrEqual(t, rec.WeatherFactor, 0.5)

		if rec.GuestCount > 0 {
			tolerance := 0.005*float64(rec.GuestCount) + 0.005 + 1e-9
			assert.LessOrEqual(t, math.Abs(rec.AvgTicket*float64(rec.GuestCount)-rec.TotalSales), tolerance)
		} else {
			assert.Equal(t, 0.0, rec.AvgTicket)
		}

		assert.Equal(t, rec.DayOfWeek == 5 || rec.DayOfWeek == 6, rec.IsWeekend)
		assert.Equal(t, (rec.Month-1)/3+1, rec.Quarter)

		store, ok := roster[rec.StoreID]
		require.True(t, ok)
		assert.Equal(t, store.StoreType, rec.StoreType)
		assert.Equal(t, store.Region, rec.Region)

		if i > 0 {
			assert.LessOrEqual(t, CompareRecords(ds.Sales[i-1], rec), 0, "record %d out of order", i)
		}
	}
}

func TestGeneratePartitions(t *testing.T) {
	ds := generate(t, 42, 2, "2022-01-01", "2024-12-31")

	require.Equal(t, len(ds.Sales), len(ds.Train)+len(ds.Validation))

	inTrain := make(map[*models.SalesRecord]bool, len(ds.Train))
	for _, r := range ds.Train {
		assert.Less(t, r.Year, 2024)
		inTrain[r] = true
	}
	inValidation := make(map[*models.SalesRecord]bool, len(ds.Validation))
	for _, r := range ds.Validation {
		assert.Equal(t, 2024, r.Year)
		assert.False(t, inTrain[r], "record in both partitions")
		inValidation[r] = true
	}
	for _, r := range ds.Sales {
		assert.True(t, inTrain[r] != inValidation[r])
	}
	assert.Len(t, ds.Validation, 2*366)
}

func TestGrowthRaisesMeanSales(t *testing.T) {
	ds := generate(t, 42, 10, "2022-01-01", "2024-12-31")
	mean := map[int]float64{}
	count := map[int]int{}
	for _, r := range ds.Sales {
		mean[r.Year] += r.TotalSales
		count[r.Year]++
	}
	assert.Greater(t, mean[2024]/float64(count[2024]), mean[2022]/float64(count[2022]))
}

func TestPartitionPreservesOrder(t *testing.T) {
	recs := []*models.SalesRecord{{Year: 2022}, {Year: 2023}, {Year: 2024}, {Year: 2023}}
	train, val := Partition(recs, 2024)
	assert.Equal(t, []*models.SalesRecord{recs[0], recs[1], recs[3]}, train)
	assert.Equal(t, []*models.SalesRecord{recs[2]}, val)
}

func TestNewRejectsBadParams(t *testing.T) {
	r, err := ParseDateRange("2022-01-01", "2022-12-31")
	require.NoError(t, err)

	_, err = New(Params{Seed: 1, Stores: 0, Range: r}, quietLogger())
	assert.Error(t, err)
	_, err = New(Params{Seed: 1, Stores: 1}, quietLogger())
	assert.Error(t, err)
	_, err = New(Params{Seed: 1, Stores: 1, Range: r, GrowthRate: -1}, quietLogger())
	assert.Error(t, err)
}
