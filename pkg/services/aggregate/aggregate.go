// Package aggregate walks engagement pages per time partition and
// accumulates per-owner call and meeting counts.
package aggregate

import (
	"context"

	"github.com/de-tools/sales-pulse/pkg/models/domain"
	"github.com/de-tools/sales-pulse/pkg/services/paging"
	"github.com/rs/zerolog"
)

// Sources supplies the engagement pages for one query scope. CallPages is
// filtered to the range server-side; MeetingPages returns the unfiltered
// engagements listing, which the aggregator re-checks against the partition
// bounds client-side.
type Sources interface {
	CallPages(r domain.TimeRange) paging.PageSource[domain.EngagementRecord]
	MeetingPages() paging.PageSource[domain.EngagementRecord]
}

// Accumulator is the per-run aggregation state. It is owned by a single run
// and merged nowhere, so repeated runs start clean.
type Accumulator struct {
	Calls    domain.CounterTable
	Meetings domain.CounterTable

	// Incomplete is set when any scope's pagination ended on an upstream
	// error; Truncated when any scope hit the page ceiling. Counts gathered
	// before either condition are retained.
	Incomplete bool
	Truncated  bool
}

func NewAccumulator() *Accumulator {
	return &Accumulator{
		Calls:    domain.CounterTable{},
		Meetings: domain.CounterTable{},
	}
}

// Aggregator counts engagements for the accepted owner set.
type Aggregator struct {
	sources  Sources
	accepted map[string]struct{}
	subtypes map[string]struct{}
	maxPages int
}

// Config carries the run-scoped filters.
type Config struct {
	// Accepted is the owner id set every record is filtered against.
	Accepted map[string]struct{}
	// MeetingSubtypes is the exact, case-sensitive allow-list of meeting
	// subtypes that count.
	MeetingSubtypes []string
	// MaxPages caps pagination per query scope; zero means the paging
	// default.
	MaxPages int
}

func New(sources Sources, cfg Config) *Aggregator {
	subtypes := make(map[string]struct{}, len(cfg.MeetingSubtypes))
	for _, s := range cfg.MeetingSubtypes {
		subtypes[s] = struct{}{}
	}
	return &Aggregator{
		sources:  sources,
		accepted: cfg.Accepted,
		subtypes: subtypes,
		maxPages: cfg.MaxPages,
	}
}

// Run processes the ranges in order and returns the accumulated counters.
// Ranges are produced non-overlapping and half-open by the partitioner, so a
// record on a partition boundary is counted exactly once.
func (a *Aggregator) Run(ctx context.Context, ranges []domain.TimeRange) *Accumulator {
	acc := NewAccumulator()
	log := zerolog.Ctx(ctx)

	for _, r := range ranges {
		res := paging.Walk(ctx, a.sources.CallPages(r), a.maxPages, func(rec domain.EngagementRecord) {
			if rec.OwnerID == "" || !a.accepts(rec.OwnerID) {
				return
			}
			acc.Calls.Increment(rec.OwnerID)
		})
		a.observe(log, acc, "calls", r, res)

		res = paging.Walk(ctx, a.sources.MeetingPages(), a.maxPages, func(rec domain.EngagementRecord) {
			if rec.Kind != domain.KindMeeting {
				return
			}
			if !r.Contains(rec.TimestampMS) {
				return
			}
			if rec.OwnerID == "" || !a.accepts(rec.OwnerID) {
				return
			}
			if _, ok := a.subtypes[rec.Subtype]; !ok {
				return
			}
			acc.Meetings.Increment(rec.OwnerID)
		})
		a.observe(log, acc, "meetings", r, res)
	}

	return acc
}

func (a *Aggregator) accepts(ownerID string) bool {
	_, ok := a.accepted[ownerID]
	return ok
}

func (a *Aggregator) observe(
	log *zerolog.Logger,
	acc *Accumulator,
	metric string,
	r domain.TimeRange,
	res paging.Result,
) {
	if res.Failed() {
		acc.Incomplete = true
		log.Warn().Err(res.Err).
			Str("metric", metric).
			Int64("start_ms", r.StartMS).
			Int64("end_ms", r.EndMS).
			Int("pages", res.Pages).
			Msg("fetch aborted early, partial counts retained for this partition")
		return
	}
	if res.Truncated {
		acc.Truncated = true
		log.Warn().Err(paging.ErrTruncated).
			Str("metric", metric).
			Int64("start_ms", r.StartMS).
			Int64("end_ms", r.EndMS).
			Int("pages", res.Pages).
			Msg("page ceiling reached, counts for this partition may be truncated")
		return
	}
	log.Debug().
		Str("metric", metric).
		Int64("start_ms", r.StartMS).
		Int64("end_ms", r.EndMS).
		Int("records", res.Records).
		Msg("partition processed")
}
