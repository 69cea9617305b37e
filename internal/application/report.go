package application

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Reporter renders experiment summaries and course placements. Numbers are
// formatted for the reporter's locale.
type Reporter struct {
	printer *message.Printer
}

// NewReporter creates a reporter for tag. The zero tag uses English.
func NewReporter(tag language.Tag) *Reporter {
	if tag == language.Und {
		tag = language.English
	}
	return &Reporter{printer: message.NewPrinter(tag)}
}

// Summary writes an experiment's per-strategy means as a table. Lower
// fairness means more equal outcomes.
func (r *Reporter) Summary(w io.Writer, result *ExperimentResult) error {
	r.printer.Fprintf(w, "Experiment %s: %d agents, %d topics, %d slots, %d trials (seed %d)\n",
		result.Experiment, result.Sizing.Agents, result.Sizing.Topics, result.Sizing.Slots,
		result.Trials, result.Seed)
	if result.Description != "" {
		fmt.Fprintln(w, result.Description)
	}

	table := tablewriter.NewWriter(w)
	table.Header("Strategy", "Mean fairness", "Mean welfare", "Trials", "Failures")
	for _, s := range result.Summaries {
		if err := table.Append([]string{
			s.Strategy,
			r.printer.Sprintf("%.3f", s.Fairness),
			r.printer.Sprintf("%.3f", s.Welfare),
			r.printer.Sprintf("%d", s.Trials),
			r.printer.Sprintf("%d", s.Failures),
		}); err != nil {
			return fmt.Errorf("summary row %s: %w", s.Strategy, err)
		}
	}
	return table.Render()
}

// Placements writes one "Group X: topic at slot" line per group.
func (r *Reporter) Placements(w io.Writer, results *CourseResults) {
	r.printer.Fprintf(w, "Course %s: %d of %d groups voted\n",
		results.Course.Name, results.Voted, results.Course.Groups)
	for _, p := range results.Placements {
		fmt.Fprintln(w, p.String())
	}
}

// PlacementTable writes the placements as a table.
func (r *Reporter) PlacementTable(w io.Writer, results *CourseResults) error {
	table := tablewriter.NewWriter(w)
	table.Header("Group", "Topic", "Slot")
	for _, p := range results.Placements {
		if err := table.Append([]string{strconv.Itoa(p.Group), p.Topic.Label(), p.Slot.Label()}); err != nil {
			return fmt.Errorf("placement row %d: %w", p.Group, err)
		}
	}
	return table.Render()
}

// Courses writes course names, one per line.
func (r *Reporter) Courses(w io.Writer, names []string) {
	if len(names) == 0 {
		fmt.Fprintln(w, "no courses")
		return
	}
	for _, name := range names {
		fmt.Fprintln(w, name)
	}
}
