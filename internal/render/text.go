// Package render draws session views and prompts on a terminal.
package render

import (
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"

	"spesa/internal/core"
	"spesa/internal/log"
	"spesa/internal/session"
)

// DateLayout is the short human date used in the expense list.
const DateLayout = "Jan 2, 2006"

const viewTemplate = `{{if .Items}}Expenses ({{len .Items}}){{else}}Expenses{{end}}
{{- with .Prefs}}
[{{.Theme}}] search: {{if .Search}}{{printf "%q" .Search}}{{else}}-{{end}} | category: {{.FilterCategory}} | period: {{.FilterPeriod}} | sort: {{.SortBy}}
{{- end}}
{{if not .Items}}
No expenses yet. Add your first one!
{{else}}
{{range .Items}}{{printf "%-14s" (date .Date)}} {{.Name}} [{{category .}}] {{amount .Amount}}{{with .Notes}} • {{oneLine .}}{{end}}  #{{.ID}}
{{end}}
{{- end}}
Total: {{amount .Totals.Total}} ({{.Totals.Count}} {{plural .Totals.Count}})
{{- range .Totals.ByCategory}}
  {{.Name}}: {{amount .Amount}}
{{- end}}
`

// Text writes each view as a block of plain text.
type Text struct {
	w      io.Writer
	loc    *time.Location
	tmpl   *template.Template
	logger *log.Logger
}

// NewText renders to w, showing dates in loc. A nil loc means time.Local.
func NewText(w io.Writer, loc *time.Location, logger *log.Logger) *Text {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = log.Discard()
	}
	t := &Text{w: w, loc: loc, logger: logger.WithComponent(log.ComponentRender)}
	t.tmpl = template.Must(template.New("view").Funcs(template.FuncMap{
		"amount":   FormatAmount,
		"date":     t.formatDate,
		"category": func(e core.Expense) string { return e.CategoryOrDefault() },
		"plural":   ItemsLabel,
		"oneLine":  oneLine,
	}).Parse(viewTemplate))
	return t
}

// Render implements session.Renderer. Write failures are logged, the
// session carries on.
func (t *Text) Render(v session.View) {
	if err := t.tmpl.Execute(t.w, v); err != nil {
		t.logger.Error("Cannot render view",
			log.FieldErrorType, log.ErrorTypeRender,
			log.FieldError, err)
	}
}

func (t *Text) formatDate(d core.Date) string {
	if !d.Valid() {
		return ""
	}
	return d.Time.In(t.loc).Format(DateLayout)
}

// FormatAmount groups thousands and always shows two decimals.
func FormatAmount(m core.Money) string {
	return humanize.FormatFloat("#,###.##", m.Float64())
}

// ItemsLabel pluralises "item".
func ItemsLabel(n int) string {
	if n == 1 {
		return "item"
	}
	return "items"
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
