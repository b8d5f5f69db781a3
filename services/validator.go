package services

import (
	"math"

	"qsr-forecast/generator/qsr"
	"qsr-forecast/models"
	"qsr-forecast/utils"
)

// DataValidator checks a generated dataset against its invariants before
// anything is persisted.
type DataValidator struct {
	logger *utils.Logger
}

// NewDataValidator creates a DataValidator with the given logger.
func NewDataValidator(logger *utils.Logger) *DataValidator {
	return &DataValidator{logger: logger}
}

// Validate counts every invariant violation in ds.
func (v *DataValidator) Validate(ds *models.Dataset) *models.ValidationReport {
	report := &models.ValidationReport{Records: len(ds.Sales)}

	roster := make(map[string]struct{}, len(ds.Stores))
	for _, s := range ds.Stores {
		roster[s.StoreID] = struct{}{}
	}

	for i, r := range ds.Sales {
		if r.TotalSales < 0 {
			report.NegativeSales++
		}
		if r.GuestCount < 0 {
			report.NegativeGuests++
		}
		if !ticketConsistent(r) {
			v.logger.Debug("[validator] Ticket mismatch %s %s: %.2f x %d vs %.2f",
				r.Date.Format("2006-01-02"), r.StoreID, r.AvgTicket, r.GuestCount, r.TotalSales)
			report.TicketMismatches++
		}
		if r.IsWeekend != (r.DayOfWeek >= 5) {
			report.WeekendMismatches++
		}
		if i > 0 && qsr.CompareRecords(ds.Sales[i-1], r) > 0 {
			report.OrderViolations++
		}
		if _, ok := roster[r.StoreID]; !ok {
			report.UnknownStores++
		}
	}

	report.PartitionMismatches = partitionMismatches(ds)

	if n := report.Violations(); n > 0 {
		v.logger.Warn("[validator] %d violations across %d records", n, report.Records)
	} else {
		v.logger.Info("[validator] %d records passed validation", report.Records)
	}
	return report
}

// ticketConsistent allows for the cent rounding of both the ticket and
// the sales figure: the ticket error is multiplied by the guest count.
func ticketConsistent(r *models.SalesRecord) bool {
	if r.GuestCount <= 0 {
		return r.AvgTicket == 0
	}
	tolerance := 0.005*float64(r.GuestCount) + 0.005 + 1e-9
	return math.Abs(r.AvgTicket*float64(r.GuestCount)-r.TotalSales) <= tolerance
}

func partitionMismatches(ds *models.Dataset) int {
	mismatches := 0

	members := make(map[*models.SalesRecord]int, len(ds.Sales))
	for _, r := range ds.Train {
		if r.Year >= ds.FinalYear {
			mismatches++
		}
		members[r]++
	}
	for _, r := range ds.Validation {
		if r.Year != ds.FinalYear {
			mismatches++
		}
		members[r]++
	}

	for _, r := range ds.Sales {
		if members[r] != 1 {
			mismatches++
		}
		delete(members, r)
	}
	// records that only exist in a partition
	mismatches += len(members)
	return mismatches
}
