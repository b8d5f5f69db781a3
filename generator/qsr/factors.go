package qsr

import (
	"fmt"

	"qsr-forecast/models"
)

// Demand multipliers. Tables are indexed by closed enumerations so every
// weekday, month and store type has an entry.
var (
	// Monday .. Sunday
	dayOfWeekMultipliers = [7]float64{0.80, 0.85, 0.90, 0.95, 1.20, 1.30, 1.10}

	// January .. December
	monthMultipliers = [12]float64{0.85, 0.90, 1.00, 1.05, 1.10, 1.15, 1.20, 1.15, 1.00, 0.95, 1.10, 1.25}

	storeTypeMultipliers = [models.NumStoreTypes]float64{
		models.Urban:    1.1,
		models.Suburban: 1.0,
		models.Highway:  0.9,
		models.Mall:     1.2,
		models.Airport:  1.3,
	}

	baseTicketByType = [models.NumStoreTypes]float64{
		models.Urban:    12.5,
		models.Suburban: 12.5,
		models.Highway:  12.5,
		models.Mall:     11.0,
		models.Airport:  15.0,
	}
)

const (
	holidayMultiplier = 0.4

	weatherMean   = 1.0
	weatherStdDev = 0.1
	minWeather    = 0.5

	noiseStdDev = 50.0

	promotionProbability = 0.15
	promotionSalesLift   = 1.25
	promotionGuestLift   = 1.4

	ticketStdDev = 2.0
	minTicket    = 5.0

	minBaseline   = 800
	maxBaseline   = 2500
	minSizeFactor = 0.8
	maxSizeFactor = 1.3
)

func init() {
	for i := range models.NumStoreTypes {
		t := models.StoreType(i)
		if storeTypeMultipliers[t] == 0 || baseTicketByType[t] == 0 {
			panic(fmt.Sprintf("qsr: missing multiplier for store type %s", t))
		}
	}
}

func dayOfWeekEffect(weekday int) float64 { return dayOfWeekMultipliers[weekday] }

func seasonalEffect(month int) float64 { return monthMultipliers[month-1] }

func holidayEffect(holiday bool) float64 {
	if holiday {
		return holidayMultiplier
	}
	return 1.0
}

func storeTypeEffect(t models.StoreType) float64 { return storeTypeMultipliers[t] }

func baseTicket(t models.StoreType) float64 { return baseTicketByType[t] }

func growthEffect(year, firstYear int, rate float64) float64 {
	return 1.0 + rate*float64(year-firstYear)
}
