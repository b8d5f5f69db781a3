package storage

import (
	"strconv"

	"github.com/shopspring/decimal"

	"qsr-forecast/models"
)

const dateLayout = "2006-01-02"

// SalesHeader is the column order of every sales table.
var SalesHeader = []string{
	"date", "store_id", "store_type", "region",
	"day_of_week", "month", "quarter", "year", "week_of_year",
	"is_weekend", "is_holiday", "promotion_active",
	"total_sales", "guest_count", "avg_ticket", "weather_factor",
}

// StoreHeader is the column order of the store metadata table.
var StoreHeader = []string{
	"store_id", "store_type", "region", "avg_daily_baseline", "size_factor",
}

// SalesRow encodes a record in SalesHeader order.
func SalesRow(r *models.SalesRecord) []string {
	return []string{
		r.Date.Format(dateLayout),
		r.StoreID,
		r.StoreType.String(),
		r.Region.String(),
		strconv.Itoa(r.DayOfWeek),
		strconv.Itoa(r.Month),
		strconv.Itoa(r.Quarter),
		strconv.Itoa(r.Year),
		strconv.Itoa(r.WeekOfYear),
		strconv.FormatBool(r.IsWeekend),
		strconv.FormatBool(r.IsHoliday),
		strconv.FormatBool(r.PromotionActive),
		fixed(r.TotalSales, 2),
		strconv.Itoa(r.GuestCount),
		fixed(r.AvgTicket, 2),
		fixed(r.WeatherFactor, 3),
	}
}

// StoreRow encodes a store in StoreHeader order. The size factor keeps
// full precision.
func StoreRow(s *models.StoreMetadata) []string {
	return []string{
		s.StoreID,
		s.StoreType.String(),
		s.Region.String(),
		strconv.Itoa(s.AvgDailyBaseline),
		strconv.FormatFloat(s.SizeFactor, 'f', -1, 64),
	}
}

func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}
