// Package directory resolves the owner roster a run attributes engagements
// to, filtered by an explicit membership strategy.
package directory

import (
	"context"

	"github.com/de-tools/sales-pulse/pkg/models/api"
	"github.com/de-tools/sales-pulse/pkg/models/domain"
	"github.com/de-tools/sales-pulse/pkg/services/paging"
	"github.com/rs/zerolog"
)

// Membership decides which owners count for the run. Two strategies exist:
// team membership (the monthly report mode) and a static id allow-list (the
// narrow export mode).
type Membership interface {
	Accept(owner domain.Owner) bool
}

type teamMembership struct {
	teamID string
}

// TeamMembership accepts owners whose team list contains teamID. Team ids
// are compared as strings to tolerate the CRM's mixed representations.
func TeamMembership(teamID string) Membership {
	return teamMembership{teamID: teamID}
}

func (m teamMembership) Accept(owner domain.Owner) bool {
	for _, team := range owner.Teams {
		if team.ID == m.teamID {
			return true
		}
	}
	return false
}

type staticIDs struct {
	ids map[string]struct{}
}

// StaticIDs accepts exactly the listed owner ids.
func StaticIDs(ids []string) Membership {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return staticIDs{ids: set}
}

func (m staticIDs) Accept(owner domain.Owner) bool {
	_, ok := m.ids[owner.ID]
	return ok
}

// Fetch pages through the owners listing and keeps the owners accepted by
// membership. A non-success page ends the fetch early but the owners
// gathered so far are returned with Incomplete set; partial directories are
// usable, just not silently treated as complete.
func Fetch(
	ctx context.Context,
	src paging.PageSource[api.OwnerResult],
	membership Membership,
	maxPages int,
) *domain.Directory {
	dir := &domain.Directory{
		Lookup:   domain.OwnerLookup{},
		Accepted: map[string]struct{}{},
	}

	res := paging.Walk(ctx, src, maxPages, func(result api.OwnerResult) {
		owner := toOwner(result)
		if owner.ID == "" || !membership.Accept(owner) {
			return
		}
		dir.Owners = append(dir.Owners, owner)
		dir.Lookup[owner.ID] = domain.OwnerProfile{
			Email:     owner.Email,
			FirstName: owner.FirstName,
			LastName:  owner.LastName,
		}
		dir.Accepted[owner.ID] = struct{}{}
	})

	if res.Failed() {
		zerolog.Ctx(ctx).Warn().Err(res.Err).
			Int("pages", res.Pages).
			Int("owners", len(dir.Owners)).
			Msg("owners fetch aborted early, directory may be incomplete")
	}
	if res.Truncated {
		zerolog.Ctx(ctx).Warn().Err(paging.ErrTruncated).
			Int("pages", res.Pages).
			Msg("owners fetch hit the page ceiling, directory may be incomplete")
	}
	dir.Incomplete = res.Failed() || res.Truncated

	return dir
}

func toOwner(result api.OwnerResult) domain.Owner {
	owner := domain.Owner{
		ID:        string(result.ID),
		UserID:    string(result.UserID),
		Email:     result.Email,
		FirstName: result.FirstName,
		LastName:  result.LastName,
		CreatedAt: result.CreatedAt,
		UpdatedAt: result.UpdatedAt,
		Archived:  result.Archived,
	}
	for _, team := range result.Teams {
		owner.Teams = append(owner.Teams, domain.Team{ID: string(team.ID), Name: team.Name})
	}
	return owner
}
