package syncer

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// Reporter prints human-readable progress for each book.
type Reporter struct {
	out     io.Writer
	success lipgloss.Style
	warning lipgloss.Style
	header  lipgloss.Style
}

// NewReporter styles output for w; colors are dropped when w is not a terminal.
func NewReporter(w io.Writer) *Reporter {
	renderer := lipgloss.NewRenderer(w)
	return &Reporter{
		out:     w,
		success: renderer.NewStyle().Foreground(lipgloss.Color("2")),
		warning: renderer.NewStyle().Foreground(lipgloss.Color("3")),
		header:  renderer.NewStyle().Bold(true),
	}
}

func (r *Reporter) Start() {
	fmt.Fprintln(r.out, "Initiating transfer...")
	fmt.Fprintln(r.out)
}

// Book prints "Title (Author)" and a dash underline of the same width.
func (r *Reporter) Book(title, author string) {
	line := title + " (" + author + ")"
	fmt.Fprintln(r.out, r.header.Render(line))
	fmt.Fprintln(r.out, strings.Repeat("-", utf8.RuneCountInString(line)))
}

// Result prints the outcome of a sync. Skipped books get no success line.
func (r *Reporter) Result(result Result) {
	if result.CoverURL != "" {
		if result.CoverWarning {
			fmt.Fprintln(r.out, r.warning.Render("× Book cover couldn't be found. "+
				"Please replace the placeholder image with the original book cover manually."))
		} else {
			fmt.Fprintln(r.out, r.success.Render("✓ Added book cover."))
		}
	}

	if result.IsSkipped() {
		fmt.Fprintln(r.out)
		return
	}

	fmt.Fprintln(r.out, r.success.Render(fmt.Sprintf("✓ %d notes/highlights added successfully.", result.Added)))
	fmt.Fprintln(r.out)
}

// Pending prints the number of clippings a dry run would send.
func (r *Reporter) Pending(count int) {
	fmt.Fprintf(r.out, "%d notes/highlights to sync.\n\n", count)
}
