package models

import "time"

// SalesRecord is one simulated day of trading for one store.
type SalesRecord struct {
	Date            time.Time
	StoreID         string
	StoreType       StoreType
	Region          Region
	DayOfWeek       int
	Month           int
	Quarter         int
	Year            int
	WeekOfYear      int
	IsWeekend       bool
	IsHoliday       bool
	PromotionActive bool
	TotalSales      float64
	GuestCount      int
	AvgTicket       float64
	WeatherFactor   float64
}

// Dataset is the full output of a generation run.
// Train and Validation are year filters over Sales and share its records.
type Dataset struct {
	Stores     []*StoreMetadata
	Sales      []*SalesRecord
	Train      []*SalesRecord
	Validation []*SalesRecord

	StartDate time.Time
	EndDate   time.Time
	FinalYear int
}
