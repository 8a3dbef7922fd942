package ui

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/edelwud/expoci/internal/batch"
	"github.com/edelwud/expoci/internal/validation"
)

// Row is a key with a description
type Row struct {
	Key   string
	Value string
}

// List renders a titled list of rows with aligned keys
func List(title string, rows []Row) string {
	width := 0
	for _, r := range rows {
		width = max(width, len(r.Key))
	}

	var sb strings.Builder
	sb.WriteString(StyleTitle.Render(title))
	sb.WriteString("\n")
	for _, r := range rows {
		key := StyleBold.Render(r.Key) + strings.Repeat(" ", width-len(r.Key))
		fmt.Fprintf(&sb, "  %s  %s\n", key, StyleMuted.Render(r.Value))
	}
	return sb.String()
}

// Report renders a validation result with violations grouped by field
func Report(result *validation.Result) string {
	if result.Valid() {
		return fmt.Sprintf("%s %s\n", MarkOK, StyleSuccess.Render("Options are valid"))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", MarkFail, StyleError.Render(fmt.Sprintf("%d problem(s) found", len(result.Violations))))
	for _, f := range validation.Fields {
		violations := result.ByField(f)
		if len(violations) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "  %s\n", StyleWarning.Render(string(f)+":"))
		for _, v := range violations {
			fmt.Fprintf(&sb, "    - %s\n", v.Message)
		}
	}
	return sb.String()
}

// Notices renders automatic repairs and refusals
func Notices(notices []validation.Notice) string {
	var sb strings.Builder
	for _, n := range notices {
		fmt.Fprintf(&sb, "%s %s\n", MarkNote, n.Message)
	}
	return sb.String()
}

// BatchSummary renders the outcome of a batch run in a box
func BatchSummary(dir string, result *batch.Result) string {
	lines := []string{
		StyleTitle.Render("Batch complete"),
		fmt.Sprintf("%s %d workflow(s) written to %s", MarkOK, result.Written(), StyleAccent.Render(dir)),
	}
	if result.Skipped > 0 {
		lines = append(lines, StyleMuted.Render(fmt.Sprintf("%d combination(s) skipped", result.Skipped)))
	}
	for _, f := range result.Failures {
		lines = append(lines, fmt.Sprintf("%s %s: %v", MarkFail, f.Filename, f.Err))
	}

	border := ColorSuccess
	if len(result.Failures) > 0 {
		border = ColorWarning
	}
	return BoxStyle(border).Render(strings.Join(lines, "\n"))
}

// Fprint writes s to w, downsampling colors to what w supports
func Fprint(w io.Writer, s string) {
	lipgloss.Fprint(w, s)
}
