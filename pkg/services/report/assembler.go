// Package report merges the owner directory with aggregated counters into
// deterministic, publication-ready tables.
package report

import (
	"fmt"
	"sort"

	"github.com/de-tools/sales-pulse/pkg/models/domain"
)

// Assemble builds the table for one metric. Every accepted owner appears
// exactly once; owners with no counter entry are zero-filled, since absence
// means no activity rather than missing data. Rows sort by last name, then
// first name, then owner id, case-preserving, empty strings first.
func Assemble(metric string, dir *domain.Directory, counts domain.CounterTable) domain.MetricReport {
	rows := make([]domain.ReportRow, 0, len(dir.Accepted))
	for ownerID := range dir.Accepted {
		profile := dir.Lookup[ownerID]
		rows = append(rows, domain.ReportRow{
			OwnerID:   ownerID,
			Email:     profile.Email,
			FirstName: profile.FirstName,
			LastName:  profile.LastName,
			Count:     counts.Count(ownerID),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].LastName != rows[j].LastName {
			return rows[i].LastName < rows[j].LastName
		}
		if rows[i].FirstName != rows[j].FirstName {
			return rows[i].FirstName < rows[j].FirstName
		}
		return rows[i].OwnerID < rows[j].OwnerID
	})

	return domain.MetricReport{
		Metric: metric,
		Header: []string{"OwnerID", "Email", "FirstName", "LastName", fmt.Sprintf("NumberOf%s", metric)},
		Rows:   rows,
	}
}
