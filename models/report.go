package models

import (
	"fmt"
	"strings"
	"time"
)

// YearSummary holds per-year aggregates used for growth reporting.
type YearSummary struct {
	Year        int
	Records     int
	MeanSales   float64
	GrowthPct   float64
	HasBaseline bool
}

// SummaryReport holds the computed statistics over a generated dataset.
type SummaryReport struct {
	TotalRecords      int
	Stores            int
	TrainRecords      int
	ValidationRecords int
	FirstDate         time.Time
	LastDate          time.Time

	MeanSales  float64
	MeanGuests float64
	MeanTicket float64
	MinSales   float64
	MaxSales   float64
	MinGuests  int
	MaxGuests  int

	PromotionShare  float64
	Years           []YearSummary
	MeanSalesByType map[StoreType]float64
	StoresByRegion  map[Region]int
	Sample          []*SalesRecord
}

// ValidationReport counts invariant violations found in a dataset.
type ValidationReport struct {
	Records             int
	NegativeSales       int
	NegativeGuests      int
	TicketMismatches    int
	WeekendMismatches   int
	OrderViolations     int
	PartitionMismatches int
	UnknownStores       int
}

// Violations is the total number of problems found.
func (r *ValidationReport) Violations() int {
	return r.NegativeSales + r.NegativeGuests + r.TicketMismatches +
		r.WeekendMismatches + r.OrderViolations + r.PartitionMismatches + r.UnknownStores
}

// Err returns a descriptive error when any invariant was violated.
func (r *ValidationReport) Err() error {
	if r.Violations() == 0 {
		return nil
	}
	var parts []string
	add := func(name string, n int) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", name, n))
		}
	}
	add("negative_sales", r.NegativeSales)
	add("negative_guests", r.NegativeGuests)
	add("ticket_mismatches", r.TicketMismatches)
	add("weekend_mismatches", r.WeekendMismatches)
	add("order_violations", r.OrderViolations)
	add("partition_mismatches", r.PartitionMismatches)
	add("unknown_stores", r.UnknownStores)
	return fmt.Errorf("dataset validation failed: %s", strings.Join(parts, ", "))
}
