// Package htmlreport renders a run's outcomes into a standalone HTML page
// for review by documentation writers.
package htmlreport

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"time"

	"metadesc"
)

// Compile-time interface verification.
var _ metadesc.Reporter = (*Reporter)(nil)

// Reporter accumulates outcome records in memory and writes a single HTML
// file when the run is flushed.
type Reporter struct {
	path    string
	title   string
	started time.Time
	recs    []*metadesc.OutcomeRecord
}

// NewReporter creates a Reporter that writes to path. An empty title falls
// back to a generic heading.
func NewReporter(path, title string) *Reporter {
	if title == "" {
		title = "Description generation report"
	}
	return &Reporter{
		path:    path,
		title:   title,
		started: time.Now(),
	}
}

// Record buffers one outcome for the final page.
func (r *Reporter) Record(_ context.Context, rec *metadesc.OutcomeRecord) error {
	r.recs = append(r.recs, rec)
	return nil
}

// Flush renders the page and writes it to disk.
func (r *Reporter) Flush(_ context.Context, stats *metadesc.RunStats) error {
	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, pageData{
		Title:       r.title,
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05"),
		Stats:       stats,
		Records:     r.recs,
	})
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	if err := os.WriteFile(r.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

type pageData struct {
	Title       string
	GeneratedAt string
	Stats       *metadesc.RunStats
	Records     []*metadesc.OutcomeRecord
}

var pageTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"statusClass": statusClass,
}).Parse(pageHTML))

// statusClass maps a status onto a CSS class for row coloring.
func statusClass(s metadesc.Status) string {
	switch s {
	case metadesc.StatusWritten:
		return "written"
	case metadesc.StatusDryRun:
		return "preview"
	case metadesc.StatusError:
		return "failed"
	default:
		return "skipped"
	}
}

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem; color: #1f2328; }
  h1 { font-size: 1.4rem; }
  .meta { color: #59636e; margin-bottom: 1.5rem; }
  .cards { display: flex; gap: 1rem; flex-wrap: wrap; margin-bottom: 1.5rem; }
  .card { border: 1px solid #d1d9e0; border-radius: 6px; padding: 0.75rem 1.25rem; min-width: 7rem; }
  .card .num { font-size: 1.6rem; font-weight: 600; }
  .card .label { color: #59636e; font-size: 0.85rem; }
  table { border-collapse: collapse; width: 100%; font-size: 0.9rem; }
  th, td { border: 1px solid #d1d9e0; padding: 0.4rem 0.6rem; text-align: left; vertical-align: top; }
  th { background: #f6f8fa; }
  tr.written td.status { color: #1a7f37; }
  tr.preview td.status { color: #9a6700; }
  tr.failed td.status { color: #d1242f; }
  tr.skipped td.status { color: #59636e; }
  td.desc { max-width: 36rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">Generated {{.GeneratedAt}} &middot; took {{.Stats.Duration}}</p>
<div class="cards">
  <div class="card"><div class="num">{{.Stats.Scanned}}</div><div class="label">Scanned</div></div>
  <div class="card"><div class="num">{{.Stats.Written}}</div><div class="label">Written</div></div>
  <div class="card"><div class="num">{{.Stats.Previewed}}</div><div class="label">Previewed</div></div>
  <div class="card"><div class="num">{{.Stats.SkippedExisting}}</div><div class="label">Skipped (existing)</div></div>
  <div class="card"><div class="num">{{.Stats.SkippedNoExcerpt}}</div><div class="label">Skipped (no prose)</div></div>
  <div class="card"><div class="num">{{.Stats.Errored}}</div><div class="label">Errors</div></div>
</div>
<table>
<thead>
<tr><th>Document</th><th>Format</th><th>Status</th><th>Detail</th></tr>
</thead>
<tbody>
{{range .Records}}<tr class="{{statusClass .Status}}">
  <td>{{.Path}}</td>
  <td>{{.Format}}</td>
  <td class="status">{{.Status}}</td>
  <td class="desc">{{.Detail}}{{if .OldValue}}<br><small>was: {{.OldValue}}</small>{{end}}</td>
</tr>
{{end}}</tbody>
</table>
</body>
</html>
`
