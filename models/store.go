package models

import "fmt"

// StoreType is the closed set of store formats in the roster.
type StoreType int

const (
	Urban StoreType = iota
	Suburban
	Highway
	Mall
	Airport

	NumStoreTypes = int(Airport) + 1
)

// StoreTypes lists every StoreType in sampling order.
var StoreTypes = [NumStoreTypes]StoreType{Urban, Suburban, Highway, Mall, Airport}

var storeTypeNames = [NumStoreTypes]string{"Urban", "Suburban", "Highway", "Mall", "Airport"}

func (t StoreType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("StoreType(%d)", int(t))
	}
	return storeTypeNames[t]
}

// Valid reports whether t is one of the declared store types.
func (t StoreType) Valid() bool {
	return t >= 0 && int(t) < NumStoreTypes
}

// ParseStoreType maps a store type name back to its enum value.
func ParseStoreType(s string) (StoreType, error) {
	for i, name := range storeTypeNames {
		if name == s {
			return StoreType(i), nil
		}
	}
	return 0, fmt.Errorf("models: unknown store type %q", s)
}

// Region is the closed set of sales regions.
type Region int

const (
	North Region = iota
	South
	East
	West
	Central

	NumRegions = int(Central) + 1
)

// Regions lists every Region in sampling order.
var Regions = [NumRegions]Region{North, South, East, West, Central}

var regionNames = [NumRegions]string{"North", "South", "East", "West", "Central"}

func (r Region) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Region(%d)", int(r))
	}
	return regionNames[r]
}

// Valid reports whether r is one of the declared regions.
func (r Region) Valid() bool {
	return r >= 0 && int(r) < NumRegions
}

// ParseRegion maps a region name back to its enum value.
func ParseRegion(s string) (Region, error) {
	for i, name := range regionNames {
		if name == s {
			return Region(i), nil
		}
	}
	return 0, fmt.Errorf("models: unknown region %q", s)
}

// StoreMetadata describes one store of the roster. It is created once per
// generation run and never mutated afterwards.
type StoreMetadata struct {
	StoreID          string
	StoreType        StoreType
	Region           Region
	AvgDailyBaseline int
	SizeFactor       float64
}
