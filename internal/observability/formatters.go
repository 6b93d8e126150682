// Package observability provides structured logging setup and formatted output for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/mock-interview/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintInterviewForm outputs the role an interview is generated for.
func (p *Printer) PrintInterviewForm(form *types.InterviewForm) {
	if form == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Position:   %s\n", form.Position))
	sb.WriteString(fmt.Sprintf("Experience: %d years\n", form.Experience))
	sb.WriteString(fmt.Sprintf("Tech stack: %s\n", form.TechStack))
	sb.WriteString(fmt.Sprintf("About:      %s", form.Description))

	p.printBox("INTERVIEW ROLE", sb.String())
}

// PrintQuestions outputs the first few generated questions.
func (p *Printer) PrintQuestions(questions []types.InterviewQuestion) {
	if len(questions) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Generated %d questions:\n\n", len(questions)))

	count := min(len(questions), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, questions[i].Question))
		sb.WriteString(fmt.Sprintf("   → %s\n", questions[i].Answer))
	}
	if len(questions) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more", len(questions)-maxItemsToShow))
	}

	p.printBox("INTERVIEW QUESTIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFeedback outputs a feedback report with the overall rating and per-answer scores.
func (p *Printer) PrintFeedback(report *types.FeedbackReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall rating: %.1f / 10\n", report.OverallRating))
	if len(report.Answers) == 0 {
		sb.WriteString("No answers recorded yet")
	}
	for i, a := range report.Answers {
		sb.WriteString(fmt.Sprintf("\n[%d/10] %s\n", a.Rating, a.Question))
		sb.WriteString(fmt.Sprintf("  %s", a.Feedback))
		if i < len(report.Answers)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("FEEDBACK", sb.String())
}

// PrintImportedJob outputs a summary of an imported job posting.
func (p *Printer) PrintImportedJob(job *types.ImportJobResponse) {
	if job == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("URL:      %s\n", job.URL))
	if job.Title != "" {
		sb.WriteString(fmt.Sprintf("Title:    %s\n", job.Title))
	}
	if job.Platform != "" {
		sb.WriteString(fmt.Sprintf("Platform: %s\n", job.Platform))
	}
	sb.WriteString(fmt.Sprintf("Length:   %d chars", len(job.Description)))

	p.printBox("IMPORTED JOB POSTING", sb.String())
}
