package reporter

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/muesli/termenv"

	"github.com/ekropotin/quickmark-go/internal/rules"
)

// Styles for different parts of the output.
var (
	// Color detection using termenv (respects NO_COLOR, CLICOLOR_FORCE, terminal detection).
	useColors = termenv.EnvColorProfile() != termenv.Ascii

	ruleCodeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")) // Red
	messageStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))            // White
	fileLocStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")) // Light gray
	lineNumStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))            // Dark gray
	separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))            // Darker gray
	markerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")) // Red

	severityStyles = map[rules.Severity]lipgloss.Style{
		rules.SeverityError:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")), // Red
		rules.SeverityWarning: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")), // Orange
	}
)

// TextOptions configures the text reporter output.
type TextOptions struct {
	// Color enables/disables colored output. Default: auto-detect.
	Color *bool

	// SyntaxHighlight is accepted for CLI-flag parity with other reporters
	// but has no effect: no Markdown syntax-highlighting library is wired
	// in (see DESIGN.md).
	SyntaxHighlight bool

	// ShowSource shows source code snippets. Default: true.
	ShowSource bool
}

// DefaultTextOptions returns sensible defaults for text output.
func DefaultTextOptions() TextOptions {
	return TextOptions{
		Color:           nil, // auto-detect
		SyntaxHighlight: true,
		ShowSource:      true,
	}
}

// TextReporter formats violations as styled text output.
type TextReporter struct {
	opts TextOptions
}

// NewTextReporter creates a new text reporter with the given options.
func NewTextReporter(opts TextOptions) *TextReporter {
	return &TextReporter{opts: opts}
}

// Print writes violations to the writer.
func (r *TextReporter) Print(w io.Writer, violations []rules.Violation, sources map[string][]byte, meta ReportMetadata) error {
	for _, v := range SortViolations(violations) {
		if err := r.printViolation(w, v, sources[v.FilePath], meta); err != nil {
			return err
		}
	}
	return nil
}

// printViolation formats a single violation.
func (r *TextReporter) printViolation(w io.Writer, v rules.Violation, source []byte, meta ReportMetadata) error {
	colorEnabled := useColors
	if r.opts.Color != nil {
		colorEnabled = *r.opts.Color
	}

	sev := severityOf(meta, v)
	sevStyle, ok := severityStyles[sev]
	if !ok {
		sevStyle = severityStyles[rules.SeverityWarning]
	}

	// One line per violation: "ERR: <path>:<line>:<col> <ID>/<alias> <message>",
	// 1-based line and column.
	sevLabel := strings.ToUpper(sev.Token()) + ":"
	location := fmt.Sprintf("%s:%d:%d", v.FilePath, v.Range.Start.Line+1, v.Range.Start.Character+1)
	ruleLabel := v.Rule.ID + "/" + v.Rule.Alias

	var header string
	if colorEnabled {
		header = fmt.Sprintf("%s %s %s %s",
			sevStyle.Render(sevLabel),
			fileLocStyle.Render(location),
			ruleCodeStyle.Render(ruleLabel),
			messageStyle.Render(v.Message))
	} else {
		header = fmt.Sprintf("%s %s %s %s", sevLabel, location, ruleLabel, v.Message)
	}
	fmt.Fprintln(w, header)

	if r.opts.ShowSource && len(source) > 0 {
		r.printSource(w, v, source, colorEnabled)
	}

	return nil
}

// printSource renders the source code snippet around a violation's range.
// Lines are displayed 1-based; v.Range carries zero-based coordinates.
func (r *TextReporter) printSource(w io.Writer, v rules.Violation, source []byte, colorEnabled bool) {
	lines := strings.Split(string(source), "\n")

	start := v.Range.Start.Line + 1
	end := v.Range.End.Line + 1
	if end < start {
		end = start
	}

	if start > len(lines) || start < 1 {
		return
	}
	if end > len(lines) {
		end = len(lines)
	}

	pad := 2
	if end == start {
		pad = 4
	}

	displayStart := start
	p := 0
	for p < pad {
		expanded := false
		if start > 1 {
			start--
			p++
			expanded = true
		}
		if end < len(lines) {
			end++
			p++
			expanded = true
		}
		if !expanded {
			break
		}
	}

	fmt.Fprintln(w)
	if colorEnabled {
		fmt.Fprintln(w, fileLocStyle.Render(fmt.Sprintf("%s:%d", v.FilePath, displayStart)))
		fmt.Fprintln(w, separatorStyle.Render("────────────────────"))
	} else {
		fmt.Fprintf(w, "%s:%d\n", v.FilePath, displayStart)
		fmt.Fprintln(w, "--------------------")
	}

	for i := start; i <= end; i++ {
		isAffected := lineInRange(i, v.Range.Start.Line+1, v.Range.End.Line+1)
		lineContent := strings.TrimSuffix(lines[i-1], "\r")

		var lineNum string
		if colorEnabled {
			lineNum = lineNumStyle.Render(fmt.Sprintf(" %3d │", i))
		} else {
			lineNum = fmt.Sprintf(" %3d |", i)
		}

		var marker string
		if isAffected {
			if colorEnabled {
				marker = markerStyle.Render(">>>")
			} else {
				marker = ">>>"
			}
		} else {
			marker = "   "
		}

		fmt.Fprintf(w, "%s %s %s\n", lineNum, marker, lineContent)
	}

	if colorEnabled {
		fmt.Fprintln(w, separatorStyle.Render("────────────────────"))
	} else {
		fmt.Fprintln(w, "--------------------")
	}
}

// PrintText is a convenience function that uses default options.
func PrintText(w io.Writer, violations []rules.Violation, sources map[string][]byte, meta ReportMetadata) error {
	r := NewTextReporter(DefaultTextOptions())
	return r.Print(w, violations, sources, meta)
}

// PrintTextPlain writes violations without any styling (for non-TTY output).
func PrintTextPlain(w io.Writer, violations []rules.Violation, sources map[string][]byte, meta ReportMetadata) error {
	noColor := false
	opts := TextOptions{
		Color:      &noColor,
		ShowSource: true,
	}
	r := NewTextReporter(opts)
	return r.Print(w, violations, sources, meta)
}

// lineInRange checks if a 1-based line number is within the range [start, end].
func lineInRange(line, start, end int) bool {
	if end < start {
		end = start
	}
	return line >= start && line <= end
}
