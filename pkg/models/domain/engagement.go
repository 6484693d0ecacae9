package domain

// EngagementKind discriminates the two engagement types the pipeline counts.
type EngagementKind string

const (
	KindCall    EngagementKind = "CALL"
	KindMeeting EngagementKind = "MEETING"
)

// TimeRange is a half-open interval [StartMS, EndMS) in epoch milliseconds.
type TimeRange struct {
	StartMS int64
	EndMS   int64
}

// Contains reports whether ts falls inside the range. The comparison is
// start-inclusive and end-exclusive so a timestamp sitting exactly on a
// partition boundary lands in exactly one partition.
func (r TimeRange) Contains(ts int64) bool {
	return ts >= r.StartMS && ts < r.EndMS
}

// EngagementRecord is a single fetched call or meeting. Records are consumed
// page by page and discarded after counting.
type EngagementRecord struct {
	OwnerID     string // empty when the CRM record carries no owner
	TimestampMS int64
	Kind        EngagementKind
	Subtype     string // free-form meeting subtype, empty for calls
}

// CounterTable maps owner id to a per-metric activity count.
type CounterTable map[string]int

// Increment adds one to the owner's count.
func (t CounterTable) Increment(ownerID string) {
	t[ownerID]++
}

// Count returns the owner's count, zero for owners with no recorded activity.
func (t CounterTable) Count(ownerID string) int {
	return t[ownerID]
}
