package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/osintscan/osintscan/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no findings are shown.
	showEmpty bool

	// verbose enables additional detail, including the custody trail.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the case in human-readable format.
func (w *SimpleWriter) Write(c *model.InvestigationCase) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, c)
	w.writeScore(&sb, c)
	w.writeProfiles(&sb, c)
	w.writeBreaches(&sb, c)
	w.writeNetwork(&sb, c)
	w.writeRecommendations(&sb, c)
	w.writeAdapterErrors(&sb, c)
	if w.verbose {
		w.writeCustody(&sb, c)
	}
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the case header with investigation information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, c *model.InvestigationCase) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        OSINTSCAN CASE REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Case ID:     %s\n", c.ID))
	sb.WriteString(fmt.Sprintf("Identifier:  %s\n", c.Identifier.Raw))
	sb.WriteString(fmt.Sprintf("Type:        %s\n", c.Identifier.Type))
	sb.WriteString(fmt.Sprintf("Created:     %s\n", c.CreatedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Status:      %s\n", c.Status))
	if c.DeepScan {
		sb.WriteString("Deep Scan:   yes\n")
	}
	sb.WriteString("\n")
}

// writeScore writes the composite score and factor breakdown.
func (w *SimpleWriter) writeScore(sb *strings.Builder, c *model.InvestigationCase) {
	if c.Score == nil {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("RISK ASSESSMENT\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  SCORE: %d/100  [%s]\n\n", c.Score.Score, c.Score.LevelText))

	for _, f := range c.Score.Breakdown.Factors() {
		sb.WriteString(fmt.Sprintf("  %-18s %5.1f / %-4.0f %s\n",
			f.Category, f.Points, f.MaxPoints, f.Description))
	}
	sb.WriteString("\n")

	if len(c.Score.Adjustments) > 0 {
		sb.WriteString(fmt.Sprintf("  Base score %d, adjusted:\n", c.Score.BaseScore))
		for _, adj := range c.Score.Adjustments {
			sb.WriteString(fmt.Sprintf("    %-24s +%d -> %d\n", adj.Trigger, adj.Delta, adj.ScoreAfter))
		}
		sb.WriteString("\n")
	}
}

// writeProfiles writes the discovered social profiles section.
func (w *SimpleWriter) writeProfiles(sb *strings.Builder, c *model.InvestigationCase) {
	if len(c.Profiles) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("DISCOVERED PROFILES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(c.Profiles) == 0 {
		sb.WriteString("  No profiles discovered\n")
	}
	for _, p := range c.Profiles {
		sb.WriteString(fmt.Sprintf("  [+] %-12s %-20s confidence %d%%\n",
			displayPlatform(p.Platform), p.Username, p.Confidence))
		if w.verbose && p.Notes != "" {
			sb.WriteString(fmt.Sprintf("      %s\n", p.Notes))
		}
	}
	sb.WriteString("\n")
}

// writeBreaches writes the breach exposure section.
func (w *SimpleWriter) writeBreaches(sb *strings.Builder, c *model.InvestigationCase) {
	if len(c.Breaches) == 0 && len(c.LeakedEmails) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("BREACH EXPOSURE\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(c.Breaches) == 0 {
		sb.WriteString("  No breach records found\n")
	}
	for _, b := range c.Breaches {
		sb.WriteString(fmt.Sprintf("  * %s (%s) risk %d\n",
			b.Domain, b.Date.Format("2006-01-02"), b.RiskScore))
		if len(b.DataClasses) > 0 {
			sb.WriteString(fmt.Sprintf("    Exposed: %s\n", strings.Join(b.DataClasses, ", ")))
		}
	}
	if len(c.LeakedEmails) > 0 {
		sb.WriteString("\n  Emails leaked through public commits:\n")
		for _, email := range c.LeakedEmails {
			sb.WriteString(fmt.Sprintf("    - %s\n", email))
		}
	}
	sb.WriteString("\n")
}

// writeNetwork writes the network intelligence section when present.
func (w *SimpleWriter) writeNetwork(sb *strings.Builder, c *model.InvestigationCase) {
	var nr *model.NetworkResult
	for i := range c.Intel {
		if c.Intel[i].Network != nil {
			nr = c.Intel[i].Network
			break
		}
	}
	if nr == nil {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("NETWORK\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  IP:        %s\n", nr.IP))
	if nr.Country != "" {
		location := nr.Country
		if nr.City != "" {
			location = nr.City + ", " + nr.Country
		}
		sb.WriteString(fmt.Sprintf("  Location:  %s\n", location))
	}
	if nr.ISP != "" {
		sb.WriteString(fmt.Sprintf("  ISP:       %s\n", nr.ISP))
	}

	var flags []string
	if nr.VPN {
		flags = append(flags, "VPN")
	}
	if nr.Tor {
		flags = append(flags, "Tor")
	}
	if nr.Proxy {
		flags = append(flags, "proxy")
	}
	if len(flags) > 0 {
		sb.WriteString(fmt.Sprintf("  Anonymization: %s\n", strings.Join(flags, ", ")))
	}
	sb.WriteString("\n")
}

// writeRecommendations writes the generated guidance section.
func (w *SimpleWriter) writeRecommendations(sb *strings.Builder, c *model.InvestigationCase) {
	if c.Score == nil || len(c.Score.Recommendations) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("RECOMMENDATIONS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, rec := range c.Score.Recommendations {
		sb.WriteString(fmt.Sprintf("  ! %s\n", rec))
	}
	sb.WriteString("\n")
}

// writeAdapterErrors writes the absorbed adapter failures, sorted by
// adapter name for stable output.
func (w *SimpleWriter) writeAdapterErrors(sb *strings.Builder, c *model.InvestigationCase) {
	if len(c.AdapterErrors) == 0 {
		return
	}

	names := make([]string, 0, len(c.AdapterErrors))
	for name := range c.AdapterErrors {
		names = append(names, name)
	}
	sort.Strings(names)

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("ADAPTER FAILURES (results are partial)\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, name := range names {
		sb.WriteString(fmt.Sprintf("  %-10s %s\n", name, c.AdapterErrors[name]))
	}
	sb.WriteString("\n")
}

// writeCustody writes the custody trail section.
func (w *SimpleWriter) writeCustody(sb *strings.Builder, c *model.InvestigationCase) {
	if len(c.Custody) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("CUSTODY TRAIL\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, ev := range c.Custody {
		sb.WriteString(fmt.Sprintf("  %s  %-9s  %-16s %s\n",
			ev.Timestamp.Format("2006-01-02 15:04:05"), ev.Action, ev.Actor, ev.Details))
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by osintscan\n")
	sb.WriteString("https://github.com/osintscan/osintscan\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
