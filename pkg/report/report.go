// Package report renders a markdown summary of a sync run.
package report

import (
	"io"
	"text/template"
	"time"

	"github.com/mrKrabsmr/test-task-grabber/pkg/shopware"
)

var summaryTemplate = template.Must(template.New("summaryTemplate").Parse(
	`
# Sync Report

Run date: {{ .RunDate.Format "2006-01-02 15:04:05 MST" }}

Products grabbed: {{ .Summary.Total }}

- Created: {{ .Summary.Created }}
- Updated: {{ .Summary.Updated }}
- Skipped: {{ .Summary.Skipped }}
- Failed: {{ .Summary.Failed }}
`,
))

// Context is the data the summary is rendered from.
type Context struct {
	RunDate time.Time
	Summary shopware.Summary
}

// Write renders the summary to w.
func Write(w io.Writer, c Context) error {
	return summaryTemplate.Execute(w, c)
}
