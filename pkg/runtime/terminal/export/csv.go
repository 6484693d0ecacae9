package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

// CallRow is one exported call with the detail properties requested by the
// export mode. Values are written as returned by the CRM.
type CallRow struct {
	ID          string
	Title       string
	Timestamp   string
	Description string
	OwnerID     string
}

var callHeader = []string{"ID", "Title", "Timestamp", "Description", "OwnerID"}

// WriteCallsCSV writes the header and rows to w.
func WriteCallsCSV(w io.Writer, rows []CallRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(callHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		record := []string{row.ID, row.Title, row.Timestamp, row.Description, row.OwnerID}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CallsFilename names the export file after the covered month and the run
// time, so successive exports never collide.
func CallsFilename(year int, month time.Month, now time.Time) string {
	return fmt.Sprintf("calls_%s_%d_%s.csv", month, year, now.Format("2006-01-02_15-04"))
}
