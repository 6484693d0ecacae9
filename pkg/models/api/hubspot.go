// Package api holds the wire-level request and response shapes of the
// HubSpot endpoints the pipeline reads from.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlexID is an identifier that HubSpot serializes sometimes as a JSON string
// and sometimes as a JSON number. It always compares as a string.
type FlexID string

func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id is neither string nor number: %w", err)
	}
	*f = FlexID(n.String())
	return nil
}

// Filter is one property comparison inside a search filter group.
type Filter struct {
	PropertyName string   `json:"propertyName"`
	Operator     string   `json:"operator"`
	Value        string   `json:"value,omitempty"`
	Values       []string `json:"values,omitempty"`
}

type FilterGroup struct {
	Filters []Filter `json:"filters"`
}

// SearchRequest is the POST body of the CRM object search endpoint.
type SearchRequest struct {
	FilterGroups []FilterGroup `json:"filterGroups"`
	Sorts        []string      `json:"sorts"`
	Properties   []string      `json:"properties"`
	Limit        int           `json:"limit"`
	After        string        `json:"after,omitempty"`
}

type PagingNext struct {
	After string `json:"after"`
}

type Paging struct {
	Next *PagingNext `json:"next"`
}

// NextAfter returns the cursor for the following page, empty when pagination
// is exhausted.
func (p *Paging) NextAfter() string {
	if p == nil || p.Next == nil {
		return ""
	}
	return p.Next.After
}

// CallResult is one record from the calls search endpoint. Only the
// requested properties are populated.
type CallResult struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
}

type SearchResponse struct {
	Results []CallResult `json:"results"`
	Paging  *Paging      `json:"paging"`
}

type TeamResult struct {
	ID   FlexID `json:"id"`
	Name string `json:"name"`
}

type OwnerResult struct {
	ID        FlexID       `json:"id"`
	UserID    FlexID       `json:"userId"`
	Email     string       `json:"email"`
	FirstName string       `json:"firstName"`
	LastName  string       `json:"lastName"`
	CreatedAt string       `json:"createdAt"`
	UpdatedAt string       `json:"updatedAt"`
	Archived  bool         `json:"archived"`
	Teams     []TeamResult `json:"teams"`
}

type OwnersResponse struct {
	Results []OwnerResult `json:"results"`
	Paging  *Paging       `json:"paging"`
}

// EngagementCore is the nested discriminator block of a legacy engagement.
type EngagementCore struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	OwnerID   FlexID `json:"ownerId"`
}

// EngagementMetadata carries the free-form subtype used to classify
// meetings.
type EngagementMetadata struct {
	CallAndMeetingType string `json:"call_and_meeting_type"`
}

type EngagementResult struct {
	Engagement EngagementCore     `json:"engagement"`
	Metadata   EngagementMetadata `json:"metadata"`
}

// EngagementsResponse is a page of the offset-paginated engagements listing.
// Offset is a pointer because an absent offset, like hasMore=false, ends
// pagination.
type EngagementsResponse struct {
	Results []EngagementResult `json:"results"`
	HasMore bool               `json:"hasMore"`
	Offset  *int64             `json:"offset"`
}
