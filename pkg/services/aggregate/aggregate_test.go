package aggregate

import (
	"context"
	"errors"
	"testing"

	"github.com/de-tools/sales-pulse/pkg/models/domain"
	"github.com/de-tools/sales-pulse/pkg/services/paging"

	"github.com/stretchr/testify/assert"
)

var allowedSubtypes = []string{"New Demo Meeting", "Sales Meeting Scheduled - Pitch/Demo"}

func sliceSource(pages [][]domain.EngagementRecord, failAt int) paging.PageSource[domain.EngagementRecord] {
	page := 0
	return &paging.CursorSource[domain.EngagementRecord]{
		Fetch: func(_ context.Context, _ string) ([]domain.EngagementRecord, string, error) {
			if failAt > 0 && page+1 == failAt {
				return nil, "", errors.New("status 502")
			}
			if page >= len(pages) {
				return nil, "", nil
			}
			current := pages[page]
			page++
			next := ""
			if page < len(pages) {
				next = "p"
			}
			return current, next, nil
		},
	}
}

// fakeSources emulates the CRM: calls are filtered to the range server-side
// (keyed by range start here), meetings come back unfiltered every time.
type fakeSources struct {
	calls       map[int64][][]domain.EngagementRecord
	meetings    [][]domain.EngagementRecord
	failCallsAt int
}

func (f *fakeSources) CallPages(r domain.TimeRange) paging.PageSource[domain.EngagementRecord] {
	return sliceSource(f.calls[r.StartMS], f.failCallsAt)
}

func (f *fakeSources) MeetingPages() paging.PageSource[domain.EngagementRecord] {
	return sliceSource(f.meetings, 0)
}

func call(ownerID string) domain.EngagementRecord {
	return domain.EngagementRecord{OwnerID: ownerID, Kind: domain.KindCall}
}

func meeting(ownerID string, ts int64, subtype string) domain.EngagementRecord {
	return domain.EngagementRecord{OwnerID: ownerID, TimestampMS: ts, Kind: domain.KindMeeting, Subtype: subtype}
}

func accepted(ids ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func TestRun_CountsCallsForAcceptedOwnersOnly(t *testing.T) {
	r := domain.TimeRange{StartMS: 0, EndMS: 1000}
	sources := &fakeSources{
		calls: map[int64][][]domain.EngagementRecord{
			0: {{call("A"), call("A"), call("B")}},
		},
	}

	agg := New(sources, Config{Accepted: accepted("A"), MeetingSubtypes: allowedSubtypes})
	acc := agg.Run(context.Background(), []domain.TimeRange{r})

	assert.Equal(t, 2, acc.Calls.Count("A"))
	_, hasB := acc.Calls["B"]
	assert.False(t, hasB)
	assert.False(t, acc.Incomplete)
	assert.False(t, acc.Truncated)
}

func TestRun_IgnoresRecordsWithoutOwner(t *testing.T) {
	r := domain.TimeRange{StartMS: 0, EndMS: 1000}
	sources := &fakeSources{
		calls: map[int64][][]domain.EngagementRecord{
			0: {{call(""), call("A")}},
		},
	}

	agg := New(sources, Config{Accepted: accepted("A")})
	acc := agg.Run(context.Background(), []domain.TimeRange{r})

	assert.Equal(t, 1, acc.Calls.Count("A"))
	assert.Len(t, acc.Calls, 1)
}

func TestRun_MeetingSubtypeAllowListIsExact(t *testing.T) {
	r := domain.TimeRange{StartMS: 0, EndMS: 1000}
	sources := &fakeSources{
		meetings: [][]domain.EngagementRecord{{
			meeting("A", 500, "Unscheduled Call"),
			meeting("A", 500, "new demo meeting"), // case mismatch
			meeting("A", 500, "New Demo Meeting"),
		}},
	}

	agg := New(sources, Config{Accepted: accepted("A"), MeetingSubtypes: allowedSubtypes})
	acc := agg.Run(context.Background(), []domain.TimeRange{r})

	assert.Equal(t, 1, acc.Meetings.Count("A"))
}

func TestRun_MeetingOutsideWindowNotCounted(t *testing.T) {
	r := domain.TimeRange{StartMS: 1000, EndMS: 2000}
	sources := &fakeSources{
		meetings: [][]domain.EngagementRecord{{
			meeting("A", 999, "New Demo Meeting"),
			meeting("A", 2000, "New Demo Meeting"), // end is exclusive
			meeting("A", 1500, "New Demo Meeting"),
		}},
	}

	agg := New(sources, Config{Accepted: accepted("A"), MeetingSubtypes: allowedSubtypes})
	acc := agg.Run(context.Background(), []domain.TimeRange{r})

	assert.Equal(t, 1, acc.Meetings.Count("A"))
}

func TestRun_BoundaryMeetingCountedExactlyOnce(t *testing.T) {
	// Two adjacent partitions; the meeting sits exactly on the shared
	// boundary and the full meeting feed is re-scanned for each partition.
	ranges := []domain.TimeRange{
		{StartMS: 0, EndMS: 1000},
		{StartMS: 1000, EndMS: 2000},
	}
	sources := &fakeSources{
		meetings: [][]domain.EngagementRecord{{meeting("A", 1000, "New Demo Meeting")}},
	}

	agg := New(sources, Config{Accepted: accepted("A"), MeetingSubtypes: allowedSubtypes})
	acc := agg.Run(context.Background(), ranges)

	assert.Equal(t, 1, acc.Meetings.Count("A"))
}

func TestRun_NonMeetingEngagementsIgnoredByMeetingPass(t *testing.T) {
	r := domain.TimeRange{StartMS: 0, EndMS: 1000}
	sources := &fakeSources{
		meetings: [][]domain.EngagementRecord{{
			{OwnerID: "A", TimestampMS: 500, Kind: domain.KindCall, Subtype: "New Demo Meeting"},
		}},
	}

	agg := New(sources, Config{Accepted: accepted("A"), MeetingSubtypes: allowedSubtypes})
	acc := agg.Run(context.Background(), []domain.TimeRange{r})

	assert.Empty(t, acc.Meetings)
}

func TestRun_UpstreamErrorRetainsPartialCountsAndFlags(t *testing.T) {
	ranges := []domain.TimeRange{
		{StartMS: 0, EndMS: 1000},
		{StartMS: 1000, EndMS: 2000},
	}
	sources := &fakeSources{
		calls: map[int64][][]domain.EngagementRecord{
			0:    {{call("A")}},
			1000: {{call("A")}},
		},
		failCallsAt: 1,
	}

	agg := New(sources, Config{Accepted: accepted("A")})
	acc := agg.Run(context.Background(), ranges)

	// Both partitions fail on their first calls page; the run continues and
	// reports incompleteness instead of aborting.
	assert.True(t, acc.Incomplete)
	assert.Equal(t, 0, acc.Calls.Count("A"))
}

func TestRun_PageCeilingFlagsTruncation(t *testing.T) {
	r := domain.TimeRange{StartMS: 0, EndMS: 1000}
	endless := &paging.CursorSource[domain.EngagementRecord]{
		Fetch: func(_ context.Context, _ string) ([]domain.EngagementRecord, string, error) {
			return []domain.EngagementRecord{call("A")}, "more", nil
		},
	}
	sources := &endlessCallSources{src: endless}

	agg := New(sources, Config{Accepted: accepted("A"), MaxPages: 3})
	acc := agg.Run(context.Background(), []domain.TimeRange{r})

	assert.True(t, acc.Truncated)
	assert.Equal(t, 3, acc.Calls.Count("A"))
}

type endlessCallSources struct {
	src paging.PageSource[domain.EngagementRecord]
}

func (s *endlessCallSources) CallPages(domain.TimeRange) paging.PageSource[domain.EngagementRecord] {
	return s.src
}

func (s *endlessCallSources) MeetingPages() paging.PageSource[domain.EngagementRecord] {
	return sliceSource(nil, 0)
}
