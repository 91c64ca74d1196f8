package dto

import (
	"math"
	"sort"
	"time"

	"nolsaf-admin/internal/admin-console/core/domain/model"
)

const (
	CollectionOwnerBookings = "owner-bookings"
	CollectionGroupStays    = "group-stays"
	CollectionPlanWithUs    = "plan-with-us"
)

// StatusBucket is one slice of a collection's status breakdown.
type StatusBucket struct {
	Status  string
	Count   int
	Percent int
}

// CollectionReport holds the rows of one collection inside the report range.
type CollectionReport struct {
	Key       string
	Title     string
	Columns   []string
	Rows      []model.ReportRow
	Truncated bool
	Err       error
}

// Total is the KPI figure for the collection.
func (c CollectionReport) Total() int {
	return len(c.Rows)
}

// Buckets counts rows per status, largest first.
func (c CollectionReport) Buckets() []StatusBucket {
	counts := map[string]int{}
	for _, r := range c.Rows {
		status := r.RowStatus()
		if status == "" {
			status = "UNKNOWN"
		}
		counts[status]++
	}

	total := len(c.Rows)
	out := make([]StatusBucket, 0, len(counts))
	for status, n := range counts {
		out = append(out, StatusBucket{Status: status, Count: n, Percent: Percent(n, total)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Status < out[j].Status
	})
	return out
}

// Percent is part/total as a whole percentage within [0,100].
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	p := int(math.Round(float64(part) * 100 / float64(total)))
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// BookingReport is the aggregated document behind the print and XLSX exports.
type BookingReport struct {
	From        time.Time
	To          time.Time
	GeneratedAt time.Time
	Collections []CollectionReport
}

// GrandTotal sums the collections that loaded.
func (r BookingReport) GrandTotal() int {
	n := 0
	for _, c := range r.Collections {
		n += c.Total()
	}
	return n
}

// PrintOptions carries the page chrome of a printed report.
type PrintOptions struct {
	CompanyName string
	// LinkURL is encoded in the QR block; empty omits it.
	LinkURL    string
	PrintDelay time.Duration
}
