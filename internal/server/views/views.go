// Package views renders the dashboard HTML as templ components.
package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/jonathan/talent-match/internal/ingestion"
	"github.com/jonathan/talent-match/internal/ranking"
	"github.com/jonathan/talent-match/internal/types"
)

// Banner kinds, used as CSS classes
const (
	BannerSuccess = "success"
	BannerWarning = "warning"
	BannerError   = "error"
)

const styles = `body{font-family:system-ui,sans-serif;margin:0;background:#f6f7f9;color:#1f2430}
main{max-width:960px;margin:0 auto;padding:24px}
form{display:grid;gap:12px;background:#fff;padding:16px;border-radius:8px}
label{display:grid;gap:4px;font-weight:600}
input,select,textarea{font:inherit;padding:6px}
.banner{padding:10px 14px;border-radius:6px;margin:16px 0}
.success{background:#e3f6e8}.warning{background:#fff4d6}.error{background:#fde2e1}
table{width:100%;border-collapse:collapse;background:#fff}
th,td{padding:6px 10px;border-bottom:1px solid #e4e6eb;text-align:left}
.scroll{max-height:420px;overflow:auto}
.narrative{background:#fff;padding:16px;border-radius:8px;white-space:pre-wrap}`

// writer keeps the first write error so components can write unconditionally
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) raw(s string) {
	if w.err == nil {
		_, w.err = io.WriteString(w.w, s)
	}
}

func (w *writer) text(s string) {
	w.raw(templ.EscapeString(s))
}

func (w *writer) rawf(format string, args ...any) {
	w.raw(fmt.Sprintf(format, args...))
}

func (w *writer) child(ctx context.Context, c templ.Component) {
	if w.err == nil && c != nil {
		w.err = c.Render(ctx, w.w)
	}
}

func component(fn func(ctx context.Context, w *writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{w: out}
		fn(ctx, w)
		return w.err
	})
}

// Page wraps body in the HTML document shell
func Page(title string, body ...templ.Component) templ.Component {
	return component(func(ctx context.Context, w *writer) {
		w.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`)
		w.text(title)
		w.raw(`</title><style>` + styles + `</style></head><body><main><h1>`)
		w.text(title)
		w.raw(`</h1>`)
		for _, c := range body {
			w.child(ctx, c)
		}
		w.raw(`</main></body></html>`)
	})
}

// Form renders the role profile form pre-filled with f
func Form(f ingestion.Form) templ.Component {
	return component(func(_ context.Context, w *writer) {
		w.raw(`<form method="post" action="/run">`)

		w.rawf(`<label>Role Name<input type="text" name="%s" value="`, ingestion.FieldRoleName)
		w.text(f.RoleName)
		w.raw(`"></label>`)

		w.rawf(`<label>Job Level<select name="%s">`, ingestion.FieldJobLevel)
		for _, level := range types.JobLevels() {
			w.raw(`<option value="`)
			w.text(string(level))
			w.raw(`"`)
			if string(level) == f.JobLevel {
				w.raw(` selected`)
			}
			w.raw(`>`)
			w.text(string(level))
			w.raw(`</option>`)
		}
		w.raw(`</select></label>`)

		w.rawf(`<label>Role Purpose<textarea name="%s" rows="3">`, ingestion.FieldRolePurpose)
		w.text(f.RolePurpose)
		w.raw(`</textarea></label>`)

		w.rawf(`<label>Benchmark Employee IDs (comma separated)<input type="text" name="%s" value="`, ingestion.FieldBenchmarkIDs)
		w.text(f.BenchmarkIDs)
		w.raw(`"></label>`)

		w.raw(`<button type="submit">Generate Job Profile &amp; Run Matching</button></form>`)
	})
}

// Banner renders a status message
func Banner(kind, message string) templ.Component {
	return component(func(_ context.Context, w *writer) {
		w.raw(`<div class="banner `)
		w.text(kind)
		w.raw(`" role="status">`)
		w.text(message)
		w.raw(`</div>`)
	})
}

// RankedTable renders the ranked employees
func RankedTable(ranked []types.MatchResult) templ.Component {
	return component(func(_ context.Context, w *writer) {
		w.raw(`<h2>Ranked Talent List</h2><div class="scroll"><table><thead><tr><th>#</th><th>`)
		w.text(ranking.NameColumn)
		w.raw(`</th><th>`)
		w.text(ranking.RateColumn)
		w.raw(`</th></tr></thead><tbody>`)
		for i, r := range ranked {
			w.rawf(`<tr><td>%d</td><td>`, i+1)
			w.text(r.EmployeeName)
			w.raw(`</td><td>`)
			if r.HasRate {
				w.rawf(`%.2f`, r.MatchRate)
			}
			w.raw(`</td></tr>`)
		}
		w.raw(`</tbody></table></div>`)
	})
}

// Narrative renders the AI summary or its failure banner
func Narrative(n *types.Narrative) templ.Component {
	return component(func(ctx context.Context, w *writer) {
		if n == nil {
			return
		}
		w.raw(`<h2>AI Insight Summary</h2>`)
		if n.Failed() {
			w.child(ctx, Banner(BannerError, n.Err))
			return
		}
		w.raw(`<div class="narrative">`)
		w.text(n.Text)
		w.raw(`</div>`)
	})
}

// Report renders everything a finished run shows
func Report(report *types.Report) templ.Component {
	return component(func(ctx context.Context, w *writer) {
		if report == nil {
			return
		}
		w.child(ctx, Banner(BannerSuccess, fmt.Sprintf("Created Job Vacancy ID: %d", report.JobID)))
		if report.Warning != "" {
			w.child(ctx, Banner(BannerWarning, report.Warning))
			return
		}
		w.child(ctx, RankedTable(report.Ranked))
		w.child(ctx, Histogram(report.Histogram))
		w.child(ctx, Narrative(report.Narrative))
	})
}

// Dashboard is the full page: form, then the report and any error banner
func Dashboard(f ingestion.Form, report *types.Report, errMsg string) templ.Component {
	parts := []templ.Component{Form(f), Report(report)}
	if errMsg != "" {
		parts = append(parts, Banner(BannerError, errMsg))
	}
	return Page("AI Talent Match Dashboard", parts...)
}
