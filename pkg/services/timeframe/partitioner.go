// Package timeframe splits a calendar month into the half-open
// epoch-millisecond ranges the engagement queries are scoped to.
package timeframe

import (
	"fmt"
	"time"

	"github.com/de-tools/sales-pulse/pkg/models/domain"
)

// MonthRanges partitions (year, month) into contiguous, non-overlapping
// [start, end) ranges of days days each, in epoch milliseconds. Boundaries
// are midnights in loc; the location is pinned by configuration so the same
// inputs always yield the same ranges regardless of where the process runs.
// The final range is clamped to the first instant of the following month, so
// no partition crosses into it.
func MonthRanges(year int, month time.Month, days int, loc *time.Location) ([]domain.TimeRange, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("invalid month %d", month)
	}
	if days <= 0 {
		days = 1
	}
	if loc == nil {
		loc = time.Local
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	next := first.AddDate(0, 1, 0)

	var ranges []domain.TimeRange
	for cur := first; cur.Before(next); {
		end := cur.AddDate(0, 0, days)
		if end.After(next) {
			end = next
		}
		ranges = append(ranges, domain.TimeRange{
			StartMS: cur.UnixMilli(),
			EndMS:   end.UnixMilli(),
		})
		cur = end
	}
	return ranges, nil
}

// MonthBounds returns the single [firstOfMonth, firstOfNextMonth) range, used
// by the one-shot export mode that queries the month without partitioning.
func MonthBounds(year int, month time.Month, loc *time.Location) (domain.TimeRange, error) {
	ranges, err := MonthRanges(year, month, 31, loc)
	if err != nil {
		return domain.TimeRange{}, err
	}
	return domain.TimeRange{StartMS: ranges[0].StartMS, EndMS: ranges[len(ranges)-1].EndMS}, nil
}
