package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/de-tools/sales-pulse/pkg/models/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func summary() domain.RunSummary {
	start := time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)
	return domain.RunSummary{
		Start:         start,
		End:           start.AddDate(0, 1, 0),
		OwnersMatched: 7,
		TotalCalls:    120,
		TotalMeetings: 14,
	}
}

func TestReporter_CompleteRun(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewReporter(&buf)

	require.NoError(t, reporter.Handle(summary()))

	out := buf.String()
	assert.Contains(t, out, "Engagement Report: August 2025")
	assert.Contains(t, out, "Owners matched:   7")
	assert.Contains(t, out, "Calls counted:    120")
	assert.Contains(t, out, "Meetings counted: 14")
	assert.Contains(t, out, "Data quality: complete")
}

func TestReporter_FlagsIncompleteData(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewReporter(&buf)

	s := summary()
	s.Incomplete = true
	require.NoError(t, reporter.Handle(s))

	assert.Contains(t, buf.String(), "POSSIBLY INCOMPLETE")
}

func TestReporter_FlagsTruncatedData(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewReporter(&buf)

	s := summary()
	s.Truncated = true
	require.NoError(t, reporter.Handle(s))

	assert.Contains(t, buf.String(), "POSSIBLY TRUNCATED")
}
