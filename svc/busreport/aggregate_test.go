package busreport_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolpass-automations/automations/pkg/schoolpass"
	"github.com/schoolpass-automations/automations/svc/busreport"
)

func student(route, first string) schoolpass.ManifestReportItem {
	return schoolpass.ManifestReportItem{BusRoute: route, FirstName: first, LastName: "Doe"}
}

func TestAggregate(t *testing.T) {
	t.Parallel()

	t.Run("counts per bus and grand total", func(t *testing.T) {
		t.Parallel()

		buses := []schoolpass.Bus{{ID: 1, Destination: "A"}, {ID: 2, Destination: "B"}}
		items := []schoolpass.ManifestReportItem{student("A", "x"), student("A", "y"), student("B", "z")}

		report := busreport.Aggregate(buses, items)
		require.Len(t, report.Buses, 2)
		assert.Equal(t, 2, report.Buses[0].Total)
		assert.Equal(t, 1, report.Buses[1].Total)
		assert.Equal(t, 3, report.StudentTotal)
		assert.Zero(t, report.Unmatched)
		assert.Equal(t, "x", report.Buses[0].Students[0].FirstName)
		assert.Equal(t, "y", report.Buses[0].Students[1].FirstName)
	})

	t.Run("empty buses are kept in order", func(t *testing.T) {
		t.Parallel()

		buses := []schoolpass.Bus{{ID: 3, Destination: "C"}, {ID: 1, Destination: "A"}}
		report := busreport.Aggregate(buses, []schoolpass.ManifestReportItem{student("A", "x")})

		require.Len(t, report.Buses, 2)
		assert.Equal(t, 3, report.Buses[0].Bus.ID)
		assert.Zero(t, report.Buses[0].Total)
		assert.Empty(t, report.Buses[0].Students)
		assert.Equal(t, 1, report.Buses[1].Total)
	})

	t.Run("unmatched rows are excluded", func(t *testing.T) {
		t.Parallel()

		buses := []schoolpass.Bus{{ID: 1, Destination: "A"}}
		items := []schoolpass.ManifestReportItem{student("A", "x"), student("Z", "y"), student("", "z")}

		report := busreport.Aggregate(buses, items)
		assert.Equal(t, 1, report.StudentTotal)
		assert.Equal(t, 1, report.Buses[0].Total)
		assert.Equal(t, 2, report.Unmatched)
	})

	t.Run("shared destination goes to the first bus", func(t *testing.T) {
		t.Parallel()

		buses := []schoolpass.Bus{{ID: 1, Destination: "A"}, {ID: 2, Destination: "A"}}
		report := busreport.Aggregate(buses, []schoolpass.ManifestReportItem{student("A", "x"), student("A", "y")})

		assert.Equal(t, 2, report.Buses[0].Total)
		assert.Zero(t, report.Buses[1].Total)
		assert.Equal(t, 2, report.StudentTotal)
	})

	t.Run("no input", func(t *testing.T) {
		t.Parallel()

		report := busreport.Aggregate(nil, nil)
		assert.Empty(t, report.Buses)
		assert.Zero(t, report.StudentTotal)
	})
}

func TestFilterByTags(t *testing.T) {
	t.Parallel()

	buses := []schoolpass.Bus{
		{ID: 1, Btag: "AM"},
		{ID: 2, Btag2: "pm"},
		{ID: 3, Btag: "late"},
		{ID: 4},
	}

	ids := func(bs []schoolpass.Bus) []int {
		out := make([]int, len(bs))
		for i, b := range bs {
			out[i] = b.ID
		}
		return out
	}

	assert.Equal(t, []int{1, 2, 3, 4}, ids(busreport.FilterByTags(buses, nil)))
	assert.Equal(t, []int{1, 2}, ids(busreport.FilterByTags(buses, []string{"am", "PM"})))
	assert.Empty(t, busreport.FilterByTags(buses, []string{"none"}))
	assert.Len(t, buses, 4, "input is not modified")
}

func TestReportOptions(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, 3, 5, 15, 0, 0, 0, time.UTC)
	opts := busreport.ReportOptions([]schoolpass.Bus{{ID: 12}, {ID: 7}, {ID: 30}}, day)

	assert.Equal(t, schoolpass.ReportOptions{
		Sites:          "All",
		BusType:        "1",
		FromDate:       "2024-03-05",
		ToDate:         "2024-03-05",
		ReportGrouping: "0",
		Buses:          "12,7,30",
		Grades:         "",
		BusPasses:      "",
		SortOrder:      "0",
		ReportType:     0,
	}, opts)
}

func TestDates(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-05", busreport.DateYearMonthDay(day))
	assert.Equal(t, "3/5/2024", busreport.DateMonthDayYear(day))

	day = time.Date(2024, 12, 25, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-12-25", busreport.DateYearMonthDay(day))
	assert.Equal(t, "12/25/2024", busreport.DateMonthDayYear(day))
}

func TestConfig(t *testing.T) {
	t.Parallel()

	cfg := busreport.Config{BusTags: " AM, ,pm ,"}
	assert.Equal(t, []string{"AM", "pm"}, cfg.Tags())
	assert.Empty(t, busreport.Config{}.Tags())

	loc, err := busreport.Config{Timezone: "Local"}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	loc, err = busreport.Config{Timezone: "UTC"}.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	_, err = busreport.Config{Timezone: "Mars/Olympus"}.Location()
	assert.ErrorIs(t, err, busreport.ErrInvalidTimezone)
}
