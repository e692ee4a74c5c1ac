package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Style selects the textual rendering applied to a single review.
type Style int

const (
	StyleOneline Style = iota
	StyleIndented
	StyleJSON
	StyleIRC
)

// ParseStyle converts a user-supplied format name to a Style. StyleIRC is
// not a valid format option; it belongs to the IRC sink alone.
func ParseStyle(name string) (Style, error) {
	switch name {
	case "oneline", "":
		return StyleOneline, nil
	case "indented":
		return StyleIndented, nil
	case "json":
		return StyleJSON, nil
	default:
		return StyleOneline, fmt.Errorf("invalid format: %s", name)
	}
}

// String returns the configuration name of the style.
func (s Style) String() string {
	switch s {
	case StyleIndented:
		return "indented"
	case StyleJSON:
		return "json"
	case StyleIRC:
		return "irc"
	default:
		return "oneline"
	}
}

// LastComment is the most recent comment on a review, absent when the
// review has no comments.
type LastComment struct {
	Author    string
	Body      string
	CreatedAt time.Time
}

// Review is one open pull/merge/change request, uniform across all
// git services. Records are immutable once aggregated.
type Review struct {
	User        string
	Title       string
	URL         string
	Time        time.Time // creation time, primary sort key
	Comments    int
	Image       string
	LastComment *LastComment
	ProjectName string
	ProjectURL  string
	Source      string // service type that produced the record
}

// Since returns a human readable duration the review has been pending for.
func (r Review) Since() string {
	return FormatDuration(r.Time)
}

// Format renders the review in the given style. i is the record's position
// and n the total record count; they decide comma placement for the json
// style. showLastComment, when set, includes the last comment body in the
// json payload.
func (r Review) Format(style Style, i, n int, showLastComment *int) string {
	switch style {
	case StyleIndented:
		return r.formatIndented()
	case StyleJSON:
		return r.formatJSON(i, n, showLastComment)
	case StyleIRC:
		return r.formatIRC()
	default:
		return r.formatOneline()
	}
}

func (r Review) formatOneline() string {
	s := fmt.Sprintf("%s filed '%s' %s %s ago", r.User, r.Title, r.URL, r.Since())
	return s + r.commentSuffix()
}

// formatIndented puts the comment count on its own indented line; the
// last-comment segment stays inline like the other styles.
func (r Review) formatIndented() string {
	s := fmt.Sprintf("%s filed '%s'\n\t%s\n\t%s ago", r.User, r.Title, r.URL, r.Since())
	if r.Comments == 1 {
		s += fmt.Sprintf("\n\t%d comment", r.Comments)
	} else if r.Comments > 1 {
		s += fmt.Sprintf("\n\t%d comments", r.Comments)
	}
	return s + r.lastCommentSuffix()
}

// formatIRC uses mIRC control codes: \x02 toggles bold, \x0312...\x03
// colors the URL blue.
func (r Review) formatIRC() string {
	s := fmt.Sprintf("\x02%s\x02 filed \x02'%s'\x02 \x0312%s\x03 %s ago",
		r.User, r.Title, r.URL, r.Since())
	return s + r.commentSuffix()
}

// commentSuffix appends the inline comment count and last-comment segments
// shared by the oneline and irc styles.
func (r Review) commentSuffix() string {
	var s string
	if r.Comments == 1 {
		s += fmt.Sprintf(", %d comment", r.Comments)
	} else if r.Comments > 1 {
		s += fmt.Sprintf(", %d comments", r.Comments)
	}
	return s + r.lastCommentSuffix()
}

func (r Review) lastCommentSuffix() string {
	if r.LastComment == nil {
		return ""
	}
	return fmt.Sprintf(", last comment by \x02%s\x02 %s ago",
		r.LastComment.Author, FormatDuration(r.LastComment.CreatedAt))
}

func (r Review) formatJSON(i, n int, showLastComment *int) string {
	payload := reviewJSON{
		User:         r.User,
		Title:        r.Title,
		URL:          r.URL,
		RelativeTime: r.Since(),
		Time:         r.Time.Unix(),
		Comments:     r.Comments,
		Type:         r.Source,
		Image:        r.Image,
	}
	if r.LastComment != nil {
		payload.LastComment = &lastCommentJSON{
			Author:    r.LastComment.Author,
			CreatedAt: r.LastComment.CreatedAt.Unix(),
		}
		if showLastComment != nil {
			payload.LastComment.Body = r.LastComment.Body
		}
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return ""
	}
	// Comma after every entry except the last.
	if i < n-1 {
		return string(data) + ","
	}
	return string(data)
}

type reviewJSON struct {
	User         string           `json:"user"`
	Title        string           `json:"title"`
	URL          string           `json:"url"`
	RelativeTime string           `json:"relative_time"`
	Time         int64            `json:"time"`
	Comments     int              `json:"comments"`
	Type         string           `json:"type"`
	Image        string           `json:"image"`
	LastComment  *lastCommentJSON `json:"last_comment,omitempty"`
}

type lastCommentJSON struct {
	Author    string `json:"author"`
	CreatedAt int64  `json:"created_at"`
	Body      string `json:"body,omitempty"`
}
