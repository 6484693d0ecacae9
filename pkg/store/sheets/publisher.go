// Package sheets publishes assembled reports to a Google spreadsheet with a
// full-overwrite model: re-running a month produces identical content, never
// accumulation.
package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	defaultRows = 1000
	defaultCols = 10
)

type Publisher struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewPublisher authenticates with the service-account credentials blob and
// binds the publisher to one spreadsheet.
func NewPublisher(ctx context.Context, credentialsJSON []byte, spreadsheetID string, opts ...option.ClientOption) (*Publisher, error) {
	var clientOpts []option.ClientOption
	if len(credentialsJSON) > 0 {
		clientOpts = append(clientOpts,
			option.WithCredentialsJSON(credentialsJSON),
			option.WithScopes(sheets.SpreadsheetsScope),
		)
	}
	clientOpts = append(clientOpts, opts...)

	svc, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &Publisher{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// Overwrite ensures the named worksheet exists, clears it completely and
// writes the grid starting at A1 with raw value input, so no formula parsing
// or type coercion happens on the way in.
func (p *Publisher) Overwrite(ctx context.Context, worksheet string, grid [][]any) error {
	if err := p.ensureWorksheet(ctx, worksheet); err != nil {
		return err
	}

	_, err := p.svc.Spreadsheets.Values.
		Clear(p.spreadsheetID, worksheet, &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to clear worksheet %q: %w", worksheet, err)
	}

	values := make([][]interface{}, len(grid))
	for i, row := range grid {
		values[i] = row
	}
	_, err = p.svc.Spreadsheets.Values.
		Update(p.spreadsheetID, worksheet+"!A1", &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write worksheet %q: %w", worksheet, err)
	}
	return nil
}

func (p *Publisher) ensureWorksheet(ctx context.Context, worksheet string) error {
	spreadsheet, err := p.svc.Spreadsheets.Get(p.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to fetch spreadsheet %q: %w", p.spreadsheetID, err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == worksheet {
			return nil
		}
	}

	_, err = p.svc.Spreadsheets.BatchUpdate(p.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: worksheet,
					GridProperties: &sheets.GridProperties{
						RowCount:    defaultRows,
						ColumnCount: defaultCols,
					},
				},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to create worksheet %q: %w", worksheet, err)
	}
	return nil
}
