package journal

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

var runOrgFuncs = template.FuncMap{
	"short": shortID,
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
	"day": func(t time.Time) string {
		if t.IsZero() {
			return "(date?)"
		}
		return t.UTC().Format("2006-01-02 15:04")
	},
}

var runOrgTmpl = template.Must(template.New("run").Funcs(runOrgFuncs).Parse(RunOrgTemplate))

// FormatRunOrg renders a run as an Org-mode block for a research journal.
func FormatRunOrg(run SignalRun) (string, error) {
	var buf bytes.Buffer
	if err := runOrgTmpl.Execute(&buf, run); err != nil {
		return "", fmt.Errorf("render run %s: %w", run.RunID, err)
	}
	return buf.String(), nil
}

// FormatRowsOrg renders the rows that carry at least one signal as an Org
// table.
func FormatRowsOrg(rows []SignalRow) string {
	var b strings.Builder
	b.WriteString("| time | close | rsi | adx | enter_long | enter_short | exit_long | exit_short |\n")
	b.WriteString("|------+-------+-----+-----+------------+-------------+-----------+------------|\n")
	for _, r := range rows {
		if !(r.EnterLong || r.EnterShort || r.ExitLong || r.ExitShort) {
			continue
		}
		fmt.Fprintf(&b, "| %s | %.5f | %.1f | %.1f | %s | %s | %s | %s |\n",
			r.Time.UTC().Format(time.RFC3339), r.Close, r.RSI, r.ADX,
			mark(r.EnterLong), mark(r.EnterShort), mark(r.ExitLong), mark(r.ExitShort))
	}
	return b.String()
}

func mark(v bool) string {
	if v {
		return "X"
	}
	return ""
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}

const RunOrgTemplate = `* SIGNALS: {{.Pair}} {{if .Timeframe}}{{.Timeframe}}{{else}}(timeframe?){{end}} ({{short .RunID}})
:PROPERTIES:
:RUN_ID:      {{if .RunID}}{{.RunID}}{{else}}(run-id?){{end}}
:STRATEGY:    {{.Strategy}}
:PAIR:        {{.Pair}}
:TIMEFRAME:   {{.Timeframe}}
:DATASET:     {{if .Dataset}}{{.Dataset}}{{else}}(dataset?){{end}}
:START:       {{day .Start}}
:END:         {{day .End}}
:ROWS:        {{.Rows}}
:WARMUP:      {{.Warmup}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Signals (after warm-up)
| Signal      | Count |
|-------------+-------|
| enter_long  | {{.EnterLong}} |
| enter_short | {{.EnterShort}} |
| exit_long   | {{.ExitLong}} |
| exit_short  | {{.ExitShort}} |
{{- if .Config }}

** Parameters
#+begin_src json
{{printf "%s" .Config}}
#+end_src
{{- end }}
`
