package notifier

import (
	"fmt"
	"io"
	"os"

	"reviewrot/pkg/models"
)

// styleFrames holds the prefix and suffix emitted around the record lines
// of each style. Only the json style frames its output.
var styleFrames = map[models.Style][2]string{
	models.StyleOneline:  {"", ""},
	models.StyleIndented: {"", ""},
	models.StyleJSON:     {"[", "]"},
	models.StyleIRC:      {"", ""},
}

// ReportNotifier prints the reviews to the terminal.
type ReportNotifier struct {
	Style           models.Style
	ShowLastComment *int
	Out             io.Writer // defaults to stdout
}

// NewReportNotifier creates a terminal report sink for the given style.
func NewReportNotifier(style models.Style, showLastComment *int) *ReportNotifier {
	return &ReportNotifier{Style: style, ShowLastComment: showLastComment}
}

// Notify writes the style prefix, every formatted record, then the style
// suffix. An empty result set still emits the frame.
func (r *ReportNotifier) Notify(reviews []models.Review) error {
	out := r.Out
	if out == nil {
		out = os.Stdout
	}

	frame := styleFrames[r.Style]
	if frame[0] != "" {
		if _, err := fmt.Fprintln(out, frame[0]); err != nil {
			return err
		}
	}

	n := len(reviews)
	for i := range reviews {
		line := reviews[i].Format(r.Style, i, n, r.ShowLastComment)
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}

	if frame[1] != "" {
		if _, err := fmt.Fprintln(out, frame[1]); err != nil {
			return err
		}
	}
	return nil
}
