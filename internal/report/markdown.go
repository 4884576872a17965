package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/osintscan/osintscan/internal/model"
)

// MarkdownWriter outputs cases in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent
// markdown generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the case in Markdown format.
func (w *MarkdownWriter) Write(c *model.InvestigationCase) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, c)
	w.writeScore(md, c)
	w.writeProfiles(md, c)
	w.writeBreaches(md, c)
	w.writeRecommendations(md, c)
	w.writeCustody(md, c)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the case header with investigation information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, c *model.InvestigationCase) {
	md.H1("Investigation Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Case ID", "`" + c.ID + "`"},
			{"Identifier", "`" + c.Identifier.Raw + "`"},
			{"Type", string(c.Identifier.Type)},
			{"Created", c.CreatedAt.Format("2006-01-02 15:04:05 MST")},
			{"Status", string(c.Status)},
			{"Deep Scan", strconv.FormatBool(c.DeepScan)},
		},
	})
	md.PlainText("")
}

// writeScore writes the composite score, factor breakdown, and
// breakdown pie chart.
func (w *MarkdownWriter) writeScore(md *markdown.Markdown, c *model.InvestigationCase) {
	if c.Score == nil {
		return
	}

	md.H2("Risk Assessment")
	md.PlainText("")
	md.PlainTextf("**Composite score: %d/100 (%s)**", c.Score.Score, c.Score.LevelText)
	md.PlainText("")

	rows := make([][]string, 0, 6)
	for _, f := range c.Score.Breakdown.Factors() {
		rows = append(rows, []string{
			f.Category,
			fmt.Sprintf("%.1f", f.Points),
			fmt.Sprintf("%.0f", f.MaxPoints),
			truncateString(f.Description, 60),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Factor", "Points", "Cap", "Detail"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writePieChart(md, c.Score)
	w.writeAdjustments(md, c.Score)
	w.writeAlert(md, c.Score)
}

// writePieChart writes a mermaid pie chart of the factor breakdown.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, score *model.CompositeScore) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Risk Factor Breakdown"),
		piechart.WithShowData(true),
	)

	var any bool
	for _, f := range score.Breakdown.Factors() {
		if f.Points <= 0 {
			continue
		}
		any = true
		chart.LabelAndIntValue(f.Category, uint64(f.Points))
	}
	if !any {
		return
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAdjustments writes the deep-scan adjustment trail.
func (w *MarkdownWriter) writeAdjustments(md *markdown.Markdown, score *model.CompositeScore) {
	if len(score.Adjustments) == 0 {
		return
	}

	md.H3("Deep Scan Adjustments")
	md.PlainText("")
	md.PlainTextf("Base score before adjustments: %d", score.BaseScore)
	md.PlainText("")

	rows := make([][]string, 0, len(score.Adjustments))
	for _, adj := range score.Adjustments {
		rows = append(rows, []string{
			adj.Trigger,
			"+" + strconv.Itoa(adj.Delta),
			strconv.Itoa(adj.ScoreAfter),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Trigger", "Delta", "Score After"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeAlert writes an alert matched to the risk level.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, score *model.CompositeScore) {
	switch score.Level {
	case model.LevelCritical:
		md.Cautionf("Critical risk level (score %d). Immediate review required.", score.Score)
	case model.LevelHigh:
		md.Warningf("High risk level (score %d). Prioritize this case.", score.Score)
	case model.LevelMedium:
		md.Importantf("Medium risk level (score %d).", score.Score)
	default:
		md.Note("Low risk level. No significant exposure detected.")
	}
	md.PlainText("")
}

// writeProfiles writes the discovered profiles table.
func (w *MarkdownWriter) writeProfiles(md *markdown.Markdown, c *model.InvestigationCase) {
	md.H2("Discovered Profiles")
	md.PlainText("")

	if len(c.Profiles) == 0 {
		md.PlainText("No profiles discovered.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(c.Profiles))
	for _, p := range c.Profiles {
		url := p.URL
		if url == "" {
			url = "-"
		}
		rows = append(rows, []string{
			displayPlatform(p.Platform),
			"`" + p.Username + "`",
			strconv.Itoa(p.Confidence) + "%",
			truncateString(url, 50),
			truncateString(p.Notes, 60),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Platform", "Username", "Confidence", "URL", "Notes"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeBreaches writes the breach exposure tables.
func (w *MarkdownWriter) writeBreaches(md *markdown.Markdown, c *model.InvestigationCase) {
	md.H2("Breach Exposure")
	md.PlainText("")

	if len(c.Breaches) == 0 {
		md.PlainText("No breach records found.")
		md.PlainText("")
	} else {
		rows := make([][]string, 0, len(c.Breaches))
		for _, b := range c.Breaches {
			classes := "-"
			if len(b.DataClasses) > 0 {
				classes = truncateString(strings.Join(b.DataClasses, ", "), 60)
			}
			rows = append(rows, []string{
				b.Domain,
				b.Date.Format("2006-01-02"),
				strconv.Itoa(b.RiskScore),
				classes,
			})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Domain", "Date", "Risk", "Exposed Data"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if len(c.LeakedEmails) > 0 {
		md.H3("Emails Leaked Through Public Commits")
		md.PlainText("")
		md.BulletList(c.LeakedEmails...)
		md.PlainText("")
	}
}

// writeRecommendations writes the generated guidance list.
func (w *MarkdownWriter) writeRecommendations(md *markdown.Markdown, c *model.InvestigationCase) {
	if c.Score == nil || len(c.Score.Recommendations) == 0 {
		return
	}

	md.H2("Recommendations")
	md.PlainText("")
	md.BulletList(c.Score.Recommendations...)
	md.PlainText("")
}

// writeCustody writes the custody trail table.
func (w *MarkdownWriter) writeCustody(md *markdown.Markdown, c *model.InvestigationCase) {
	if len(c.Custody) == 0 {
		return
	}

	md.H2("Custody Trail")
	md.PlainText("")

	rows := make([][]string, 0, len(c.Custody))
	for _, ev := range c.Custody {
		rows = append(rows, []string{
			ev.Timestamp.Format("2006-01-02 15:04:05"),
			string(ev.Action),
			ev.Actor,
			truncateString(ev.Details, 50),
			"`" + truncateString(ev.Hash, 16) + "`",
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Timestamp", "Action", "Actor", "Details", "Snapshot Hash"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [osintscan](https://github.com/osintscan/osintscan)*")
}
