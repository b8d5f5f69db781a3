package qsr

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(dateLayout, s)
	require.NoError(t, err)
	return d
}

func TestNewDayNewYear2022(t *testing.T) {
	d := NewDay(date(t, "2022-01-01"))

	assert.True(t, d.Holiday)
	assert.Equal(t, 5, d.Weekday, "2022-01-01 is a Saturday")
	assert.Equal(t, 1, d.Quarter)
	assert.Equal(t, 1, d.Month)
	assert.Equal(t, 2022, d.Year)
	assert.Equal(t, 52, d.ISOWeek, "ISO week belongs to 2021-W52")
	assert.True(t, d.Weekend)
}

func TestNewDayDropsTimeOfDay(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	d := NewDay(time.Date(2023, 6, 15, 22, 30, 0, 0, loc))
	assert.Equal(t, time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC), d.Date)
	assert.Equal(t, 3, d.Weekday)
	assert.Equal(t, 2, d.Quarter)
	assert.False(t, d.Weekend)
}

func TestIsHolidayMatchesListedDates(t *testing.T) {
	listed := []string{
		"2022-01-01", "2022-07-04", "2022-11-24", "2022-12-25",
		"2023-01-01", "2023-07-04", "2023-11-23", "2023-12-25",
		"2024-01-01", "2024-07-04", "2024-11-28", "2024-12-25",
	}
	want := make(map[string]bool, len(listed))
	for _, s := range listed {
		want[s] = true
	}

	r, err := ParseDateRange("2022-01-01", "2024-12-31")
	require.NoError(t, err)

	found := 0
	for day := range r.Days() {
		key := day.Date.Format(dateLayout)
		if day.Holiday != want[key] {
			t.Errorf("holiday flag for %s: got %v, want %v", key, day.Holiday, want[key])
		}
		if day.Holiday {
			found++
		}
	}
	assert.Equal(t, len(listed), found)
}

func TestDateRangeLenAndOrder(t *testing.T) {
	r, err := ParseDateRange("2024-02-27", "2024-03-02")
	require.NoError(t, err)
	assert.Equal(t, 5, r.Len())

	var got []string
	for day := range r.Days() {
		got = append(got, day.Date.Format(dateLayout))
	}
	assert.Equal(t, []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01", "2024-03-02"}, got)
}

func TestDateRangeRestartable(t *testing.T) {
	r, err := ParseDateRange("2022-01-01", "2022-01-10")
	require.NoError(t, err)

	count := func() int {
		n := 0
		for range r.Days() {
			n++
		}
		return n
	}
	assert.Equal(t, 10, count())
	assert.Equal(t, 10, count())

	n := 0
	for range r.Days() {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestDateRangeRejectsInvertedBounds(t *testing.T) {
	_, err := ParseDateRange("2023-01-02", "2023-01-01")
	assert.Error(t, err)

	_, err = ParseDateRange("2023-13-01", "2023-12-31")
	assert.Error(t, err)
}

func TestSingleDayRange(t *testing.T) {
	r, err := ParseDateRange("2023-07-04", "2023-07-04")
	require.NoError(t, err)
	assert.Equal(t, 1, r.Len())
}
