package qsr

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"qsr-forecast/models"
	"qsr-forecast/utils"
)

// Params are the explicit inputs of a generation run. Two runs with equal
// Params produce identical datasets.
type Params struct {
	Seed       uint64
	Stores     int
	Range      DateRange
	GrowthRate float64
}

// Generator drives roster creation, daily simulation, sorting and
// partitioning.
type Generator struct {
	params Params
	logger *utils.Logger
}

// New validates params and returns a ready-to-use Generator.
func New(params Params, logger *utils.Logger) (*Generator, error) {
	if params.Stores < 1 || params.Stores > maxStores {
		return nil, fmt.Errorf("qsr: store count %d out of range [1,%d]", params.Stores, maxStores)
	}
	if params.Range.Start.IsZero() || params.Range.End.Before(params.Range.Start) {
		return nil, fmt.Errorf("qsr: invalid date range")
	}
	if params.GrowthRate <= -1 {
		return nil, fmt.Errorf("qsr: growth rate %.3f would produce non-positive demand", params.GrowthRate)
	}
	return &Generator{params: params, logger: logger}, nil
}

// Generate runs the simulation. Stores are the outer loop and days the
// inner loop; that order fixes the random draw sequence.
func (g *Generator) Generate() (*models.Dataset, error) {
	start := time.Now()
	rng := newSource(g.params.Seed)

	stores, err := NewRoster(g.params.Stores, rng)
	if err != nil {
		return nil, err
	}

	days := g.params.Range.Len()
	g.logger.Info("[qsr] Generating data for %d stores across %d days (%s to %s, seed %d)",
		len(stores), days,
		g.params.Range.Start.Format(dateLayout), g.params.Range.End.Format(dateLayout), g.params.Seed)

	growth := Growth{FirstYear: g.params.Range.Start.Year(), Rate: g.params.GrowthRate}
	draws := NewRandomDraws(rng)

	records := make([]*models.SalesRecord, 0, len(stores)*days)
	for _, store := range stores {
		for day := range g.params.Range.Days() {
			records = append(records, Simulate(store, day, growth, draws))
		}
	}

	SortRecords(records)

	finalYear := g.params.Range.End.Year()
	train, validation := Partition(records, finalYear)

	g.logger.Info("[qsr] Generated %d records (train %d, validation %d) in %v",
		len(records), len(train), len(validation), time.Since(start).Round(time.Millisecond))

	return &models.Dataset{
		Stores:     stores,
		Sales:      records,
		Train:      train,
		Validation: validation,
		StartDate:  g.params.Range.Start,
		EndDate:    g.params.Range.End,
		FinalYear:  finalYear,
	}, nil
}

// SortRecords orders records by date, then store identifier.
func SortRecords(records []*models.SalesRecord) {
	slices.SortStableFunc(records, CompareRecords)
}

// CompareRecords is the (date, store_id) ordering of the sales table.
func CompareRecords(a, b *models.SalesRecord) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	return strings.Compare(a.StoreID, b.StoreID)
}

// Partition splits records by year: everything before finalYear is
// training data, finalYear itself is validation data. Order is preserved.
func Partition(records []*models.SalesRecord, finalYear int) (train, validation []*models.SalesRecord) {
	train = make([]*models.SalesRecord, 0, len(records))
	validation = make([]*models.SalesRecord, 0)
	for _, r := range records {
		switch {
		case r.Year < finalYear:
			train = append(train, r)
		case r.Year == finalYear:
			validation = append(validation, r)
		}
	}
	return train, validation
}
