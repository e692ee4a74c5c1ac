package gitservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"reviewrot/pkg/models"
)

// gerritTimeLayout is Gerrit's timestamp format (UTC, nanosecond precision).
const gerritTimeLayout = "2006-01-02 15:04:05.000000000"

// Gerrit lists open changes through the Gerrit REST API. The repo token
// arrives already percent-escaped for use inside the project query.
type Gerrit struct {
	BaseURL string // override for tests
}

func (g *Gerrit) baseURL(req Request) string {
	if g.BaseURL != "" {
		return g.BaseURL
	}
	return req.Host
}

// ListReviews fetches open changes for the configured project.
func (g *Gerrit) ListReviews(ctx context.Context, req Request) ([]models.Review, error) {
	base := g.baseURL(req)
	if base == "" {
		return nil, errors.New("gerrit services require a host")
	}
	client := newHTTPClient(req.SSLVerify)

	slog.Debug("Fetching open changes", "service", "gerrit", "project", req.RepoName, "host", base)

	url := fmt.Sprintf("%s/changes/?q=project:%s+status:open&o=MESSAGES&o=DETAILED_ACCOUNTS", base, req.RepoName)
	var changes []gerritChange
	if err := getJSON(ctx, client, url, nil, &changes); err != nil {
		return nil, err
	}

	var reviews []models.Review
	for _, change := range changes {
		createdAt, err := parseGerritTime(change.Created)
		if err != nil {
			return nil, err
		}

		comments, last, err := gerritLastComment(change)
		if err != nil {
			return nil, err
		}

		ok, err := passesFilters(req, createdAt, last)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		reviews = append(reviews, models.Review{
			User:        gerritOwnerName(change),
			Title:       change.Subject,
			URL:         fmt.Sprintf("%s/#/c/%d", base, change.Number),
			Time:        createdAt,
			Comments:    comments,
			LastComment: last,
			ProjectName: change.Project,
			ProjectURL:  fmt.Sprintf("%s/#/q/project:%s", base, change.Project),
			Source:      "gerrit",
		})
	}
	return reviews, nil
}

func gerritOwnerName(change gerritChange) string {
	if change.Owner.Username != "" {
		return change.Owner.Username
	}
	return change.Owner.Name
}

// gerritLastComment returns the human message count and the newest human
// message. Autogenerated messages (tagged by the server) are not comments.
func gerritLastComment(change gerritChange) (int, *models.LastComment, error) {
	var human []gerritMessage
	for _, msg := range change.Messages {
		if strings.HasPrefix(msg.Tag, "autogenerated:") {
			continue
		}
		human = append(human, msg)
	}
	if len(human) == 0 {
		return 0, nil, nil
	}

	newest := human[len(human)-1]
	createdAt, err := parseGerritTime(newest.Date)
	if err != nil {
		return 0, nil, err
	}
	author := newest.Author.Username
	if author == "" {
		author = newest.Author.Name
	}
	return len(human), &models.LastComment{
		Author:    author,
		Body:      newest.Message,
		CreatedAt: createdAt,
	}, nil
}

func parseGerritTime(s string) (time.Time, error) {
	t, err := time.Parse(gerritTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("error parsing gerrit date %q: %v", s, err)
	}
	return t, nil
}

// Response types for JSON unmarshaling
type gerritChange struct {
	Project string `json:"project"`
	Subject string `json:"subject"`
	Created string `json:"created"`
	Number  int    `json:"_number"`
	Owner   struct {
		Name     string `json:"name"`
		Username string `json:"username"`
	} `json:"owner"`
	Messages []gerritMessage `json:"messages"`
}

type gerritMessage struct {
	Tag     string `json:"tag"`
	Date    string `json:"date"`
	Message string `json:"message"`
	Author  struct {
		Name     string `json:"name"`
		Username string `json:"username"`
	} `json:"author"`
}
