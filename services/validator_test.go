package services

import (
	"testing"

	"qsr-forecast/models"
)

func TestValidatorAcceptsConsistentDataset(t *testing.T) {
	v := NewDataValidator(newTestLogger())
	r := v.Validate(sampleDataset())
	if err := r.Err(); err != nil {
		t.Fatalf("unexpected violations: %v", err)
	}
	if r.Records != 4 {
		t.Errorf("Records: got %d, want 4", r.Records)
	}
}

func TestValidatorDetectsViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(ds *models.Dataset)
		check  func(r *models.ValidationReport) int
	}{
		{"negative sales", func(ds *models.Dataset) {
			ds.Sales[0].TotalSales = -1
			ds.Sales[0].GuestCount = 0
			ds.Sales[0].AvgTicket = 0
		},
			func(r *models.ValidationReport) int { return r.NegativeSales }},
		{"negative guests", func(ds *models.Dataset) { ds.Sales[0].GuestCount = -3 },
			func(r *models.ValidationReport) int { return r.NegativeGuests }},
		{"ticket mismatch", func(ds *models.Dataset) { ds.Sales[0].AvgTicket = 20 },
			func(r *models.ValidationReport) int { return r.TicketMismatches }},
		{"zero guests with ticket", func(ds *models.Dataset) { ds.Sales[3].AvgTicket = 1 },
			func(r *models.ValidationReport) int { return r.TicketMismatches }},
		{"weekend flag", func(ds *models.Dataset) { ds.Sales[0].IsWeekend = !ds.Sales[0].IsWeekend },
			func(r *models.ValidationReport) int { return r.WeekendMismatches }},
		{"order", func(ds *models.Dataset) { ds.Sales[0], ds.Sales[1] = ds.Sales[1], ds.Sales[0] },
			func(r *models.ValidationReport) int { return r.OrderViolations }},
		{"unknown store", func(ds *models.Dataset) { ds.Stores = ds.Stores[:1] },
			func(r *models.ValidationReport) int { return r.UnknownStores }},
		{"record missing from partitions", func(ds *models.Dataset) { ds.Validation = ds.Validation[:1] },
			func(r *models.ValidationReport) int { return r.PartitionMismatches }},
		{"record in wrong partition", func(ds *models.Dataset) { ds.Train = append(ds.Train, ds.Validation[0]) },
			func(r *models.ValidationReport) int { return r.PartitionMismatches }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := sampleDataset()
			tt.mutate(ds)
			r := NewDataValidator(newTestLogger()).Validate(ds)
			if tt.check(r) == 0 {
				t.Errorf("violation not detected: %+v", r)
			}
			if r.Err() == nil {
				t.Error("Err() should be non-nil")
			}
		})
	}
}

func TestTicketConsistentTolerance(t *testing.T) {
	// 1234.57 / 301 = 4.1015..., stored as 4.10: off by 0.47 overall
	r := &models.SalesRecord{TotalSales: 1234.57, GuestCount: 301, AvgTicket: 4.10}
	if !ticketConsistent(r) {
		t.Error("cent rounding of the ticket should be tolerated")
	}
	r.AvgTicket = 4.20
	if ticketConsistent(r) {
		t.Error("a ten cent error should not be tolerated")
	}
}
