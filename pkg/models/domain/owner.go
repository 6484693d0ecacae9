package domain

// Team is a CRM team an owner belongs to. Ids are kept as strings because the
// CRM mixes numeric and string representations across endpoints.
type Team struct {
	ID   string
	Name string
}

// Owner is a CRM user that engagements can be attributed to. Built once from
// the directory fetch and immutable for the duration of a run.
type Owner struct {
	ID        string
	UserID    string
	Email     string
	FirstName string
	LastName  string
	CreatedAt string
	UpdatedAt string
	Archived  bool
	Teams     []Team
}

// OwnerProfile holds the display attributes published alongside counts.
type OwnerProfile struct {
	Email     string
	FirstName string
	LastName  string
}

// OwnerLookup maps owner id to display attributes. Read-only after the
// directory fetch.
type OwnerLookup map[string]OwnerProfile

// Directory is the resolved owner roster for a run: the accepted owners,
// their display attributes, and the id set every fetched record is filtered
// against.
type Directory struct {
	Owners   []Owner
	Lookup   OwnerLookup
	Accepted map[string]struct{}

	// Incomplete is set when the directory fetch ended early on an upstream
	// error or hit the page ceiling. The partial roster is still usable, but
	// the caller must report it as possibly incomplete rather than a full
	// success.
	Incomplete bool
}

// Accepts reports whether the owner id passed the membership filter.
func (d *Directory) Accepts(ownerID string) bool {
	_, ok := d.Accepted[ownerID]
	return ok
}
