package qsr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qsr-forecast/models"
)

type fixedDraws struct {
	weather float64
	noise   float64
	promo   bool
	ticket  float64

	calls      []string
	ticketMean float64
}

func (d *fixedDraws) Weather() float64 { d.calls = append(d.calls, "weather"); return d.weather }
func (d *fixedDraws) Noise() float64   { d.calls = append(d.calls, "noise"); return d.noise }
func (d *fixedDraws) Promotion() bool  { d.calls = append(d.calls, "promotion"); return d.promo }
func (d *fixedDraws) Ticket(mean float64) float64 {
	d.calls = append(d.calls, "ticket")
	d.ticketMean = mean
	return d.ticket
}

func testStore(t models.StoreType) *models.StoreMetadata {
	return &models.StoreMetadata{
		StoreID:          "STORE_001",
		StoreType:        t,
		Region:           models.North,
		AvgDailyBaseline: 1000,
		SizeFactor:       1.0,
	}
}

func TestSimulateDrawOrder(t *testing.T) {
	d := &fixedDraws{weather: 1, ticket: 12.5}
	Simulate(testStore(models.Suburban), NewDay(date(t, "2022-03-07")), Growth{FirstYear: 2022}, d)
	assert.Equal(t, []string{"weather", "noise", "promotion", "ticket"}, d.calls)
}

func TestSimulatePlainDay(t *testing.T) {
	// Monday in March: 1000 * 0.80 * 1.00 * 1.0 (Suburban) * 1.0
	d := &fixedDraws{weather: 1.0, ticket: 10}
	r := Simulate(testStore(models.Suburban), NewDay(date(t, "2022-03-07")), Growth{FirstYear: 2022, Rate: 0.02}, d)

	assert.Equal(t, 800.0, r.TotalSales)
	assert.Equal(t, 80, r.GuestCount)
	assert.Equal(t, 10.0, r.AvgTicket)
	assert.Equal(t, 1.0, r.WeatherFactor)
	assert.False(t, r.IsHoliday)
	assert.False(t, r.PromotionActive)
	assert.Equal(t, 12.5, d.ticketMean)
}

func TestSimulateTicketMeanByStoreType(t *testing.T) {
	tests := []struct {
		storeType models.StoreType
		want      float64
	}{
		{models.Urban, 12.5},
		{models.Suburban, 12.5},
		{models.Highway, 12.5},
		{models.Mall, 11.0},
		{models.Airport, 15.0},
	}
	for _, tt := range tests {
		d := &fixedDraws{weather: 1, ticket: 10}
		Simulate(testStore(tt.storeType), NewDay(date(t, "2022-03-07")), Growth{FirstYear: 2022}, d)
		assert.Equal(t, tt.want, d.ticketMean, tt.storeType.String())
	}
}

func TestSimulateHolidaySuppressesDemand(t *testing.T) {
	// 2022-07-04 is a Monday in July: 1000 * 0.80 * 1.20 * 0.4
	d := &fixedDraws{weather: 1, ticket: 8}
	r := Simulate(testStore(models.Suburban), NewDay(date(t, "2022-07-04")), Growth{FirstYear: 2022}, d)
	assert.True(t, r.IsHoliday)
	assert.InDelta(t, 384.0, r.TotalSales, 1e-9)
	assert.Equal(t, 48, r.GuestCount)
}

func TestSimulateWeatherFloor(t *testing.T) {
	d := &fixedDraws{weather: 0.2, ticket: 10}
	r := Simulate(testStore(models.Suburban), NewDay(date(t, "2022-03-07")), Growth{FirstYear: 2022}, d)
	assert.Equal(t, 0.5, r.WeatherFactor)
	assert.Equal(t, 400.0, r.TotalSales)
}

func TestSimulateTicketFloor(t *testing.T) {
	d := &fixedDraws{weather: 1, ticket: 1.0}
	r := Simulate(testStore(models.Suburban), NewDay(date(t, "2022-03-07")), Growth{FirstYear: 2022}, d)
	assert.Equal(t, 160, r.GuestCount, "ticket floored at 5.0")
	assert.Equal(t, 5.0, r.AvgTicket)
}

func TestSimulateZeroSalesHasZeroTicket(t *testing.T) {
	d := &fixedDraws{weather: 1, noise: -5000, promo: true, ticket: 12}
	r := Simulate(testStore(models.Suburban), NewDay(date(t, "2022-03-07")), Growth{FirstYear: 2022}, d)
	assert.Equal(t, 0.0, r.TotalSales)
	assert.Equal(t, 0, r.GuestCount)
	assert.Equal(t, 0.0, r.AvgTicket)
}

func TestSimulatePromotionLift(t *testing.T) {
	d := &fixedDraws{weather: 1, promo: true, ticket: 10}
	r := Simulate(testStore(models.Suburban), NewDay(date(t, "2022-03-07")), Growth{FirstYear: 2022}, d)

	assert.True(t, r.PromotionActive)
	assert.Equal(t, 1000.0, r.TotalSales)
	// floor(1000/10) = 100, then floor(100*1.4)
	assert.Equal(t, 140, r.GuestCount)
	assert.InDelta(t, 7.14, r.AvgTicket, 1e-9)
}

func TestSimulateGrowthFactor(t *testing.T) {
	growth := Growth{FirstYear: 2022, Rate: 0.02}
	store := testStore(models.Mall)

	// both Mondays in March
	base := &fixedDraws{weather: 1.07, ticket: 11}
	later := &fixedDraws{weather: 1.07, ticket: 11}
	r2022 := Simulate(store, NewDay(date(t, "2022-03-07")), growth, base)
	r2024 := Simulate(store, NewDay(date(t, "2024-03-04")), growth, later)

	require.Greater(t, r2022.TotalSales, 0.0)
	assert.InDelta(t, 1.04, r2024.TotalSales/r2022.TotalSales, 1e-4)

	f22 := demandFactors(store, NewDay(date(t, "2022-03-07")), growth, 1.07)
	f24 := demandFactors(store, NewDay(date(t, "2024-03-04")), growth, 1.07)
	assert.InDelta(t, 1.04, f24.product()/f22.product(), 1e-12)
}

func TestSimulateWithoutGrowth(t *testing.T) {
	store := testStore(models.Urban)
	r2022 := Simulate(store, NewDay(date(t, "2022-03-07")), Growth{FirstYear: 2022}, &fixedDraws{weather: 1, ticket: 10})
	r2023 := Simulate(store, NewDay(date(t, "2023-03-06")), Growth{FirstYear: 2022}, &fixedDraws{weather: 1, ticket: 10})
	assert.Equal(t, r2022.TotalSales, r2023.TotalSales)
}

func TestMultiplierTablesCoverEveryCase(t *testing.T) {
	for _, st := range models.StoreTypes {
		assert.NotZero(t, storeTypeEffect(st), st.String())
		assert.NotZero(t, baseTicket(st), st.String())
	}
	for wd := range 7 {
		assert.NotZero(t, dayOfWeekEffect(wd))
	}
	for m := 1; m <= 12; m++ {
		assert.NotZero(t, seasonalEffect(m))
	}
	assert.Equal(t, 0.80, dayOfWeekEffect(0))
	assert.Equal(t, 1.10, dayOfWeekEffect(6))
	assert.Equal(t, 0.85, seasonalEffect(1))
	assert.Equal(t, 1.25, seasonalEffect(12))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 1.24, round(1.235, 2))
	assert.Equal(t, 0.957, round(0.95749, 3))
	assert.False(t, math.IsNaN(round(0, 2)))

	// binary value below the midpoint
	assert.Equal(t, 2.67, round(2.675, 2))
	assert.Equal(t, 0.5, round(0.5005, 3))
	// exact midpoints go to the even digit
	assert.Equal(t, 0.12, round(0.125, 2))
	assert.Equal(t, 0.38, round(0.375, 2))
}
