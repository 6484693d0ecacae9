package report

import (
	"sort"
	"strings"

	"github.com/de-tools/sales-pulse/pkg/models/domain"
)

// AssembleRoster builds the owner roster table from the resolved directory.
// Every accepted owner appears exactly once with their team memberships
// flattened into comma-separated name and id lists. Rows sort the same way
// metric reports do: last name, first name, owner id.
func AssembleRoster(dir *domain.Directory) domain.RosterReport {
	rows := make([]domain.RosterRow, 0, len(dir.Owners))
	for _, owner := range dir.Owners {
		names := make([]string, 0, len(owner.Teams))
		ids := make([]string, 0, len(owner.Teams))
		for _, team := range owner.Teams {
			names = append(names, team.Name)
			ids = append(ids, team.ID)
		}
		rows = append(rows, domain.RosterRow{
			OwnerID:   owner.ID,
			UserID:    owner.UserID,
			Email:     owner.Email,
			FirstName: owner.FirstName,
			LastName:  owner.LastName,
			CreatedAt: owner.CreatedAt,
			UpdatedAt: owner.UpdatedAt,
			Archived:  owner.Archived,
			TeamNames: strings.Join(names, ", "),
			TeamIDs:   strings.Join(ids, ", "),
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

	return domain.RosterReport{
		Header: []string{
			"OwnerID", "UserID", "Email", "FirstName", "LastName",
			"CreatedAt", "UpdatedAt", "Archived", "TeamNames", "TeamIDs",
		},
		Rows: rows,
	}
}
