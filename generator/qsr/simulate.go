package qsr

import (
	"math"
	"strconv"

	"qsr-forecast/models"
)

// Growth anchors the linear year-over-year trend.
type Growth struct {
	FirstYear int
	Rate      float64
}

// factors are the multiplicative demand components of one store-day.
type factors struct {
	baseline  float64
	growth    float64
	dayOfWeek float64
	seasonal  float64
	holiday   float64
	weather   float64
	storeType float64
	size      float64
}

func (f factors) product() float64 {
	return f.baseline * f.growth * f.dayOfWeek * f.seasonal * f.holiday *
		f.weather * f.storeType * f.size
}

// Simulate produces the record of store on day. The stages below run in a
// fixed order and each consumes the previous stage's output: weather is
// floored before it enters the product, sales are floored before the
// promotion lift, and the ticket draw sees the final sales figure.
func Simulate(store *models.StoreMetadata, day Day, growth Growth, d Draws) *models.SalesRecord {
	f := demandFactors(store, day, growth, d.Weather())
	sales := baseSales(f, d.Noise())
	promo := d.Promotion()
	sales = applyPromotion(sales, promo)
	ticket := sampledTicket(d.Ticket(baseTicket(store.StoreType)))
	guests := guestCount(sales, ticket, promo)
	return buildRecord(store, day, f, sales, guests, promo)
}

func demandFactors(store *models.StoreMetadata, day Day, growth Growth, weatherDraw float64) factors {
	return factors{
		baseline:  float64(store.AvgDailyBaseline),
		growth:    growthEffect(day.Year, growth.FirstYear, growth.Rate),
		dayOfWeek: dayOfWeekEffect(day.Weekday),
		seasonal:  seasonalEffect(day.Month),
		holiday:   holidayEffect(day.Holiday),
		weather:   math.Max(minWeather, weatherDraw),
		storeType: storeTypeEffect(store.StoreType),
		size:      store.SizeFactor,
	}
}

func baseSales(f factors, noise float64) float64 {
	return math.Max(0, f.product()+noise)
}

func applyPromotion(sales float64, active bool) float64 {
	if active {
		return sales * promotionSalesLift
	}
	return sales
}

func sampledTicket(draw float64) float64 {
	return math.Max(minTicket, draw)
}

func guestCount(sales, ticket float64, promo bool) int {
	guests := int(sales / ticket)
	if promo {
		guests = int(float64(guests) * promotionGuestLift)
	}
	return guests
}

// avgTicket back-computes the ticket actually realised by the record.
func avgTicket(sales float64, guests int) float64 {
	if guests == 0 {
		return 0
	}
	return sales / float64(guests)
}

func buildRecord(store *models.StoreMetadata, day Day, f factors, sales float64, guests int, promo bool) *models.SalesRecord {
	return &models.SalesRecord{
		Date:            day.Date,
		StoreID:         store.StoreID,
		StoreType:       store.StoreType,
		Region:          store.Region,
		DayOfWeek:       day.Weekday,
		Month:           day.Month,
		Quarter:         day.Quarter,
		Year:            day.Year,
		WeekOfYear:      day.ISOWeek,
		IsWeekend:       day.Weekend,
		IsHoliday:       f.holiday < 1.0,
		PromotionActive: promo,
		TotalSales:      round(sales, 2),
		GuestCount:      guests,
		AvgTicket:       round(avgTicket(sales, guests), 2),
		WeatherFactor:   round(f.weather, 3),
	}
}

// round rounds the exact binary value of v, ties to even, so 2.675 (stored
// just below 2.675) becomes 2.67 and 0.125 becomes 0.12.
func round(v float64, places int) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	return r
}
