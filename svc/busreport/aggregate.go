package busreport

import (
	"slices"
	"strconv"
	"strings"

	"github.com/schoolpass-automations/automations/pkg/schoolpass"
)

// BusReport is the manifest rows of one bus.
type BusReport struct {
	Bus      schoolpass.Bus
	Students []schoolpass.ManifestReportItem
	Total    int
}

// Report is the aggregated manifest of one run.
type Report struct {
	Date         string
	Buses        []BusReport
	StudentTotal int
	// Unmatched counts rows whose route matched no bus. They are in no group
	// and not in StudentTotal.
	Unmatched int
}

// Aggregate groups manifest rows by bus. A row belongs to the first bus, in
// input order, whose Destination equals the row's BusRoute. Every bus gets a
// group, including buses with no students, in input order.
func Aggregate(buses []schoolpass.Bus, items []schoolpass.ManifestReportItem) Report {
	first := make(map[string]int, len(buses))
	for i, bus := range buses {
		if _, ok := first[bus.Destination]; !ok {
			first[bus.Destination] = i
		}
	}

	report := Report{Buses: make([]BusReport, len(buses))}
	for i, bus := range buses {
		report.Buses[i] = BusReport{Bus: bus}
	}

	for _, item := range items {
		i, ok := first[item.BusRoute]
		if !ok {
			report.Unmatched++
			continue
		}
		report.Buses[i].Students = append(report.Buses[i].Students, item)
	}

	for i := range report.Buses {
		report.Buses[i].Total = len(report.Buses[i].Students)
		report.StudentTotal += report.Buses[i].Total
	}

	return report
}

// FilterByTags keeps buses whose Btag or Btag2 equals one of tags, ignoring
// case. No tags keeps every bus.
func FilterByTags(buses []schoolpass.Bus, tags []string) []schoolpass.Bus {
	if len(tags) == 0 {
		return buses
	}
	match := func(tag string) bool {
		return tag != "" && slices.ContainsFunc(tags, func(t string) bool { return strings.EqualFold(t, tag) })
	}
	return slices.DeleteFunc(slices.Clone(buses), func(b schoolpass.Bus) bool {
		return !match(b.Btag) && !match(b.Btag2)
	})
}

func busIDs(buses []schoolpass.Bus) string {
	ids := make([]string, len(buses))
	for i, bus := range buses {
		ids[i] = strconv.Itoa(bus.ID)
	}
	return strings.Join(ids, ",")
}
