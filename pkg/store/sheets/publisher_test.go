package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// fakeBackend is an in-memory stand-in for the spreadsheet API, keyed by
// worksheet title. It tracks the operations the publisher performs so the
// overwrite contract can be asserted.
type fakeBackend struct {
	worksheets map[string][][]interface{}
	clears     int
	creates    int
}

func newFakeBackend(titles ...string) *fakeBackend {
	b := &fakeBackend{worksheets: map[string][][]interface{}{}}
	for _, title := range titles {
		b.worksheets[title] = nil
	}
	return b
}

func (b *fakeBackend) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case r.Method == http.MethodGet && strings.HasSuffix(path, "/spreadsheets/test-spreadsheet"):
			resp := sheetsapi.Spreadsheet{}
			for title := range b.worksheets {
				resp.Sheets = append(resp.Sheets, &sheetsapi.Sheet{
					Properties: &sheetsapi.SheetProperties{Title: title},
				})
			}
			_ = json.NewEncoder(w).Encode(resp)

		case strings.HasSuffix(path, ":batchUpdate"):
			var req sheetsapi.BatchUpdateSpreadsheetRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			for _, request := range req.Requests {
				if request.AddSheet != nil {
					b.creates++
					b.worksheets[request.AddSheet.Properties.Title] = nil
				}
			}
			_ = json.NewEncoder(w).Encode(sheetsapi.BatchUpdateSpreadsheetResponse{})

		case strings.HasSuffix(path, ":clear"):
			title := rangeTitle(path, ":clear")
			b.clears++
			b.worksheets[title] = nil
			_ = json.NewEncoder(w).Encode(sheetsapi.ClearValuesResponse{})

		case r.Method == http.MethodPut && strings.Contains(path, "/values/"):
			require.Equal(t, "RAW", r.URL.Query().Get("valueInputOption"))
			var vr sheetsapi.ValueRange
			require.NoError(t, json.NewDecoder(r.Body).Decode(&vr))
			title := strings.SplitN(rangeTitle(path, ""), "!", 2)[0]
			b.worksheets[title] = vr.Values
			_ = json.NewEncoder(w).Encode(sheetsapi.UpdateValuesResponse{})

		default:
			t.Errorf("unexpected request: %s %s", r.Method, path)
			http.NotFound(w, r)
		}
	}
}

func rangeTitle(path, suffix string) string {
	path = strings.TrimSuffix(path, suffix)
	parts := strings.Split(path, "/values/")
	return parts[len(parts)-1]
}

func newTestPublisher(t *testing.T, backend *fakeBackend) *Publisher {
	t.Helper()
	server := httptest.NewServer(backend.handler(t))
	t.Cleanup(server.Close)

	publisher, err := NewPublisher(context.Background(), nil, "test-spreadsheet",
		option.WithoutAuthentication(),
		option.WithEndpoint(server.URL),
	)
	require.NoError(t, err)
	return publisher
}

func grid(rows ...[]any) [][]any {
	return rows
}

func TestOverwrite_WritesHeaderAndRowsAtA1(t *testing.T) {
	backend := newFakeBackend("calls")
	publisher := newTestPublisher(t, backend)

	err := publisher.Overwrite(context.Background(), "calls", grid(
		[]any{"OwnerID", "Email", "FirstName", "LastName", "NumberOfCalls"},
		[]any{"1", "a@x.com", "A", "B", 2},
	))
	require.NoError(t, err)

	require.Len(t, backend.worksheets["calls"], 2)
	assert.Equal(t, "OwnerID", backend.worksheets["calls"][0][0])
	assert.Equal(t, 0, backend.creates)
	assert.Equal(t, 1, backend.clears)
}

func TestOverwrite_CreatesMissingWorksheet(t *testing.T) {
	backend := newFakeBackend() // no worksheets yet
	publisher := newTestPublisher(t, backend)

	err := publisher.Overwrite(context.Background(), "meetings", grid([]any{"OwnerID"}))
	require.NoError(t, err)

	assert.Equal(t, 1, backend.creates)
	_, exists := backend.worksheets["meetings"]
	assert.True(t, exists)
}

func TestOverwrite_IsIdempotent(t *testing.T) {
	backend := newFakeBackend("calls")
	publisher := newTestPublisher(t, backend)

	payload := grid(
		[]any{"OwnerID", "NumberOfCalls"},
		[]any{"1", 2},
		[]any{"2", 0},
	)

	require.NoError(t, publisher.Overwrite(context.Background(), "calls", payload))
	first := backend.worksheets["calls"]

	require.NoError(t, publisher.Overwrite(context.Background(), "calls", payload))
	second := backend.worksheets["calls"]

	// Same content both times, no duplicated rows.
	assert.Equal(t, first, second)
	assert.Len(t, second, 3)
}

func TestOverwrite_SmallerReportLeavesNoResidualRows(t *testing.T) {
	backend := newFakeBackend("calls")
	publisher := newTestPublisher(t, backend)

	large := grid([]any{"OwnerID"}, []any{"1"}, []any{"2"}, []any{"3"})
	small := grid([]any{"OwnerID"}, []any{"1"})

	require.NoError(t, publisher.Overwrite(context.Background(), "calls", large))
	require.NoError(t, publisher.Overwrite(context.Background(), "calls", small))

	assert.Len(t, backend.worksheets["calls"], 2)
}
