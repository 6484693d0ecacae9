package export

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/de-tools/sales-pulse/pkg/models/domain"
)

// Reporter prints the end-of-run summary to the console. Fail-soft
// conditions gathered during the run are surfaced here so an operator can
// tell zero activity apart from incomplete data.
type Reporter struct {
	writer io.Writer
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

func (r *Reporter) Handle(summary domain.RunSummary) error {
	tmpl := `
Engagement Report: {{.Start.Format "January 2006"}}
Period: {{.Start.Format "2006-01-02"}} to {{.End.Format "2006-01-02"}}

Owners matched:   {{.OwnersMatched}}
Calls counted:    {{.TotalCalls}}
Meetings counted: {{.TotalMeetings}}

Data quality: {{if .Incomplete}}POSSIBLY INCOMPLETE (an upstream fetch failed mid-run)
{{else if .Truncated}}POSSIBLY TRUNCATED (a query scope hit the page ceiling)
{{else}}complete
{{end}}`

	t, err := template.New("summary").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(r.writer, summary)
}
