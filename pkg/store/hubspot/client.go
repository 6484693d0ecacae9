// Package hubspot is the read-side store client for the CRM endpoints:
// calls search (cursor pagination), owners listing (cursor pagination) and
// the legacy engagements feed (offset pagination).
package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/de-tools/sales-pulse/pkg/models/api"
	"github.com/de-tools/sales-pulse/pkg/models/domain"
	"github.com/de-tools/sales-pulse/pkg/services/paging"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	DefaultBaseURL  = "https://api.hubapi.com"
	DefaultPageSize = 100

	propertyTimestamp = "hs_timestamp"
	propertyOwnerID   = "hubspot_owner_id"
)

// Config configures the client. Retry and backoff live entirely in the
// transport; the pagination loops built on top of this client never retry.
type Config struct {
	Token    string
	BaseURL  string
	PageSize int
	RetryMax int
}

type Client struct {
	http     *http.Client
	baseURL  string
	token    string
	pageSize int
}

func NewClient(cfg Config) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryMax
	rc.Logger = nil

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return &Client{
		http:     rc.StandardClient(),
		baseURL:  baseURL,
		token:    cfg.Token,
		pageSize: pageSize,
	}
}

// CallQuery scopes one calls search: a half-open time window, optionally an
// owner-id allow-list applied server-side, and the properties to return.
type CallQuery struct {
	Range      domain.TimeRange
	OwnerIDs   []string
	Properties []string
}

func (q CallQuery) properties() []string {
	if len(q.Properties) > 0 {
		return q.Properties
	}
	return []string{propertyOwnerID}
}

// CallPages returns a cursor source over the calls matching q, newest first.
func (c *Client) CallPages(q CallQuery) *paging.CursorSource[api.CallResult] {
	return &paging.CursorSource[api.CallResult]{
		Fetch: func(ctx context.Context, after string) ([]api.CallResult, string, error) {
			return c.searchCalls(ctx, q, after)
		},
	}
}

func (c *Client) searchCalls(ctx context.Context, q CallQuery, after string) ([]api.CallResult, string, error) {
	filters := []api.Filter{
		{PropertyName: propertyTimestamp, Operator: "GTE", Value: strconv.FormatInt(q.Range.StartMS, 10)},
		{PropertyName: propertyTimestamp, Operator: "LT", Value: strconv.FormatInt(q.Range.EndMS, 10)},
	}
	if len(q.OwnerIDs) > 0 {
		filters = append(filters, api.Filter{PropertyName: propertyOwnerID, Operator: "IN", Values: q.OwnerIDs})
	}

	body := api.SearchRequest{
		FilterGroups: []api.FilterGroup{{Filters: filters}},
		Sorts:        []string{"-" + propertyTimestamp},
		Properties:   q.properties(),
		Limit:        c.pageSize,
		After:        after,
	}

	var resp api.SearchResponse
	if err := c.post(ctx, "/crm/v3/objects/calls/search", body, &resp); err != nil {
		return nil, "", err
	}
	return resp.Results, resp.Paging.NextAfter(), nil
}

// OwnerPages returns a cursor source over the owners listing.
func (c *Client) OwnerPages() *paging.CursorSource[api.OwnerResult] {
	return &paging.CursorSource[api.OwnerResult]{
		Fetch: func(ctx context.Context, after string) ([]api.OwnerResult, string, error) {
			query := url.Values{"limit": {strconv.Itoa(c.pageSize)}}
			if after != "" {
				query.Set("after", after)
			}
			var resp api.OwnersResponse
			if err := c.get(ctx, "/crm/v3/owners", query, &resp); err != nil {
				return nil, "", err
			}
			return resp.Results, resp.Paging.NextAfter(), nil
		},
	}
}

// MeetingPages returns an offset source over the legacy engagements feed.
// The feed is not filterable server-side; every record comes back and the
// aggregator applies the type, window and subtype checks.
func (c *Client) MeetingPages() paging.PageSource[domain.EngagementRecord] {
	src := &paging.OffsetSource[api.EngagementResult]{
		Fetch: func(ctx context.Context, offset int64) ([]api.EngagementResult, *int64, bool, error) {
			query := url.Values{
				"limit":  {strconv.Itoa(c.pageSize)},
				"offset": {strconv.FormatInt(offset, 10)},
			}
			var resp api.EngagementsResponse
			if err := c.get(ctx, "/engagements/v1/engagements/paged", query, &resp); err != nil {
				return nil, nil, false, err
			}
			return resp.Results, resp.Offset, resp.HasMore, nil
		},
	}
	return paging.Map(src, toRecord)
}

// CallRecordPages adapts CallPages to the aggregator's record contract.
func (c *Client) CallRecordPages(r domain.TimeRange, ownerIDs []string) paging.PageSource[domain.EngagementRecord] {
	src := c.CallPages(CallQuery{Range: r, OwnerIDs: ownerIDs})
	return paging.Map[api.CallResult, domain.EngagementRecord](src, func(call api.CallResult) domain.EngagementRecord {
		return domain.EngagementRecord{
			OwnerID: call.Properties[propertyOwnerID],
			Kind:    domain.KindCall,
		}
	})
}

// RecordSources binds the client to one owner-filter mode and satisfies the
// aggregator's source contract. An empty ownerIDs list means the time window
// is the only server-side filter.
type RecordSources struct {
	client   *Client
	ownerIDs []string
}

func (c *Client) Sources(ownerIDs []string) *RecordSources {
	return &RecordSources{client: c, ownerIDs: ownerIDs}
}

func (s *RecordSources) CallPages(r domain.TimeRange) paging.PageSource[domain.EngagementRecord] {
	return s.client.CallRecordPages(r, s.ownerIDs)
}

func (s *RecordSources) MeetingPages() paging.PageSource[domain.EngagementRecord] {
	return s.client.MeetingPages()
}

func toRecord(result api.EngagementResult) domain.EngagementRecord {
	var kind domain.EngagementKind
	switch result.Engagement.Type {
	case "CALL":
		kind = domain.KindCall
	case "MEETING":
		kind = domain.KindMeeting
	}
	return domain.EngagementRecord{
		OwnerID:     string(result.Engagement.OwnerID),
		TimestampMS: result.Engagement.Timestamp,
		Kind:        kind,
		Subtype:     result.Metadata.CallAndMeetingType,
	}
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s returned status %d: %s", req.URL.Path, resp.StatusCode, snippet)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", req.URL.Path, err)
	}
	return nil
}
