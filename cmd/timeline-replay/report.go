package main

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/charmbracelet/lipgloss"
	"github.com/vsariola/timeline"
	"github.com/vsariola/timeline/editor"
)

const defaultTemplate = `Objects:
{{- range .Objects }}
  {{ printf "%3d" .ID }}  track {{ .Track }}  {{ .Start }}{{ if .End }} - {{ .End }}{{ end }}  {{ .Label }}
{{- else }}
  none
{{- end }}
Intents ({{ len .Intents }}):
{{- if .IntentYAML }}
{{ .IntentYAML | trim | indent 2 }}
{{- else }}
  none
{{- end }}
`

type (
	reportObject struct {
		ID         timeline.ObjectID
		Track      int
		Start, End string
		Label      string
	}

	report struct {
		Objects    []reportObject
		Intents    []timeline.Intent
		IntentYAML string
	}
)

func newReport(r *Result) (*report, error) {
	ret := &report{Intents: r.Intents}
	for _, o := range r.Objects {
		start, end := timeline.Bounds(o)
		ro := reportObject{
			ID:    o.Base().ID,
			Track: o.Base().Track,
			Start: r.Tempo.Format(start),
			Label: timeline.Describe(o),
		}
		if timeline.CapabilitiesOf(o).HasLength {
			ro.End = r.Tempo.Format(end)
		}
		ret.Objects = append(ret.Objects, ro)
	}
	if len(r.Intents) > 0 {
		data, err := timeline.MarshalIntents(r.Intents)
		if err != nil {
			return nil, fmt.Errorf("could not marshal intents: %w", err)
		}
		ret.IntentYAML = string(data)
	}
	return ret, nil
}

// writeReport renders the result with the template text, which may use the
// sprig functions, followed by the alerts.
func writeReport(w io.Writer, text string, r *Result) error {
	tmpl, err := template.New("report").Funcs(sprig.TxtFuncMap()).Parse(text)
	if err != nil {
		return fmt.Errorf("could not parse template: %w", err)
	}
	rep, err := newReport(r)
	if err != nil {
		return err
	}
	if err := tmpl.Execute(w, rep); err != nil {
		return fmt.Errorf("could not execute template: %w", err)
	}
	if len(r.Alerts) > 0 {
		_, err = fmt.Fprintln(w, renderAlerts(r.Alerts))
	}
	return err
}

func renderAlerts(alerts []editor.Alert) string {
	var b strings.Builder
	for i, a := range alerts {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strings.ToUpper(priorityName(a.Priority)))
		if a.Title != "" {
			b.WriteString(" [" + a.Title + "]")
		}
		b.WriteString(": ")
		b.WriteString(a.Message)
	}
	style := lipgloss.NewStyle().Width(60)
	style = style.Border(lipgloss.NormalBorder())
	style = style.Padding(0, 1)
	style = style.BorderForeground(lipgloss.Color("#880000"))
	return style.Render(b.String())
}

func priorityName(p editor.AlertPriority) string {
	switch p {
	case editor.Warning:
		return "warning"
	case editor.Error:
		return "error"
	}
	return "info"
}
