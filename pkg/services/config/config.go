// Package config loads the run configuration from the process environment.
// Credentials, team, month, allow-lists and destinations are all supplied
// externally, never hard-coded.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Defaults mirror the production setup this pipeline was built for.
const (
	DefaultTeamID   = "16450"
	DefaultMaxPages = 100
	DefaultPageSize = 100
)

// DefaultMeetingSubtypes is the allow-list of meeting subtypes that count
// toward the meetings metric. Exact, case-sensitive matches only.
var DefaultMeetingSubtypes = []string{
	"New Demo Meeting",
	"Sales Meeting Scheduled - Pitch/Demo",
}

type Config struct {
	HubSpotToken    string
	GoogleCredsJSON string
	SpreadsheetID   string

	TeamID          string
	OwnerIDs        []string // non-empty switches membership to the static-id strategy
	MeetingSubtypes []string

	Year     int
	Month    time.Month
	Location *time.Location

	CallsWorksheet    string
	MeetingsWorksheet string
	RosterWorksheet   string

	MaxPages int
	PageSize int
}

// Load reads the environment. Only the CRM token is unconditionally
// required; publication credentials are validated by RequirePublication so
// the CSV export mode can run without them.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SALES_TEAM_ID", DefaultTeamID)
	v.SetDefault("MAX_PAGES", DefaultMaxPages)
	v.SetDefault("PAGE_SIZE", DefaultPageSize)
	v.SetDefault("REPORT_TZ", "Local")

	token := v.GetString("HUBSPOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("HUBSPOT_TOKEN is missing, check your .env or CI secrets")
	}

	loc, err := loadLocation(v.GetString("REPORT_TZ"))
	if err != nil {
		return nil, err
	}

	year, month, err := loadMonth(v, loc)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HubSpotToken:      token,
		GoogleCredsJSON:   v.GetString("GOOGLE_CREDENTIALS_JSON"),
		SpreadsheetID:     v.GetString("SPREADSHEET_ID"),
		TeamID:            v.GetString("SALES_TEAM_ID"),
		OwnerIDs:          splitList(v.GetString("OWNER_IDS")),
		MeetingSubtypes:   splitList(v.GetString("MEETING_TYPES")),
		Year:              year,
		Month:             month,
		Location:          loc,
		CallsWorksheet:    v.GetString("CALLS_WORKSHEET"),
		MeetingsWorksheet: v.GetString("MEETINGS_WORKSHEET"),
		RosterWorksheet:   v.GetString("ROSTER_WORKSHEET"),
		MaxPages:          v.GetInt("MAX_PAGES"),
		PageSize:          v.GetInt("PAGE_SIZE"),
	}

	if len(cfg.MeetingSubtypes) == 0 {
		cfg.MeetingSubtypes = DefaultMeetingSubtypes
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultMaxPages
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	monthName := strings.ToLower(cfg.Month.String())
	if cfg.CallsWorksheet == "" {
		cfg.CallsWorksheet = "number_of_calls_" + monthName
	}
	if cfg.MeetingsWorksheet == "" {
		cfg.MeetingsWorksheet = "meetings_" + monthName
	}
	if cfg.RosterWorksheet == "" {
		cfg.RosterWorksheet = "Sales_team"
	}

	return cfg, nil
}

// RequirePublication validates the additional settings the sheet publisher
// needs. Called before any network activity so a misconfigured run aborts
// without partial work.
func (c *Config) RequirePublication() error {
	if c.GoogleCredsJSON == "" {
		return fmt.Errorf("GOOGLE_CREDENTIALS_JSON is missing, check your .env or CI secrets")
	}
	if c.SpreadsheetID == "" {
		return fmt.Errorf("SPREADSHEET_ID is missing")
	}
	return nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_TZ %q: %w", name, err)
	}
	return loc, nil
}

// loadMonth resolves the target month, defaulting to the current month in
// the configured location.
func loadMonth(v *viper.Viper, loc *time.Location) (int, time.Month, error) {
	now := time.Now().In(loc)
	year := v.GetInt("REPORT_YEAR")
	if year == 0 {
		year = now.Year()
	}
	month := v.GetInt("REPORT_MONTH")
	if month == 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("REPORT_MONTH must be 1-12, got %d", month)
	}
	return year, time.Month(month), nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
