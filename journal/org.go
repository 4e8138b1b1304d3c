package journal

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"text/template"
	"time"

	"github.com/shopspring/decimal"
)

var orgFuncs = template.FuncMap{
	"money": func(x float64) string { return decimal.NewFromFloat(x).StringFixed(2) },
	"pct":   func(x float64) string { return decimal.NewFromFloat(x).StringFixed(2) + "%" },
	"opt": func(p *float64) string {
		if p == nil {
			return "-"
		}
		return decimal.NewFromFloat(*p).StringFixed(2)
	},
	"optInt": func(p *int) string {
		if p == nil {
			return "-"
		}
		return fmt.Sprint(*p)
	},
	"mulHundred": func(x float64) float64 { return x * 100 },
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var orgTemplate = template.Must(template.New("run").Funcs(orgFuncs).Parse(RunOrgTemplate))

// OrgReport is the data rendered by RunOrgTemplate.
type OrgReport struct {
	Run       Run
	Summaries []SummaryRecord
}

// WriteOrg renders the run as an Org-mode entry.
func (r OrgReport) WriteOrg(w io.Writer) error {
	return orgTemplate.Execute(w, r)
}

// WriteOrgFile renders the run to path.
func (r OrgReport) WriteOrgFile(path string) error {
	buf := new(bytes.Buffer)
	if err := r.WriteOrg(buf); err != nil {
		return fmt.Errorf("render org: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// ExportOrg loads a run with its summaries and returns the Org entry.
func (j *SQLite) ExportOrg(runID string) (string, error) {
	run, err := j.GetRun(runID)
	if err != nil {
		return "", err
	}
	sums, err := j.ListSummaries(runID)
	if err != nil {
		return "", err
	}

	buf := new(bytes.Buffer)
	if err := (OrgReport{Run: run, Summaries: sums}).WriteOrg(buf); err != nil {
		return "", fmt.Errorf("render org: %w", err)
	}
	return buf.String(), nil
}

const RunOrgTemplate = `
* SIMULATION: {{.Run.Mode}} {{.Run.RunID}}
:PROPERTIES:
:RUN_ID:      {{.Run.RunID}}
:MODE:        {{.Run.Mode}}
:SEED:        {{.Run.Seed}}
:SESSIONS:    {{.Run.Sessions}}
{{- if .Run.Outcome }}
:OUTCOME:     {{.Run.Outcome}}
:TRADES:      {{.Run.TradeCount}}
:FINAL_CAP:   {{money .Run.FinalCapital}}
{{- end }}
{{- if .Run.OptimalRisk }}
:OPTIMAL_RISK: {{opt .Run.OptimalRisk}}
{{- end }}
:CREATED:     [{{(orTime .Run.Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Parameters
| Parameter         | Value |
|-------------------+-------|
| Starting Capital  | {{money .Run.Config.StartingCapital}} |
| Win Probability   | {{pct (mulHundred .Run.Config.WinProbability)}} |
| Amount Risked     | {{money .Run.Config.AmountRisked}} |
| R:R               | {{printf "%.2f" .Run.Config.RiskRewardRatio}} |
| Commission        | {{money .Run.Config.Commission}} |
| Max Drawdown      | {{opt .Run.Config.MaxDrawdown}} |
| Growth Goal       | {{opt .Run.Config.CapitalGrowthGoal}} |
| Trade Count       | {{optInt .Run.Config.TradeCount}} |
{{- if .Summaries }}

** Results
| Risk | Sessions | Target | Drawdown | Win Rate | Loss Rate | Avg To Target | Avg To Drawdown |
|------+----------+--------+----------+----------+-----------+---------------+-----------------|
{{- range .Summaries }}
| {{money .RiskAmount}} | {{.Summary.SessionsRun}} | {{.Summary.TargetHits}} | {{.Summary.DrawdownHits}} | {{pct .Summary.WinRate}} | {{pct .Summary.LossRate}} | {{printf "%.2f" .Summary.AvgTradesToTarget}} | {{printf "%.2f" .Summary.AvgTradesToDrawdown}} |
{{- end }}
{{- end }}

{{- if .Run.Notes }}

** Observations
{{- range .Run.Notes }}
- {{.}}
{{- end }}
{{- end }}
`
