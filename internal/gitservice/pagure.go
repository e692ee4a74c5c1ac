package gitservice

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"reviewrot/pkg/models"
)

// Pagure lists open pull requests through the Pagure API. Pagure embeds the
// comment thread in the pull request payload, so a single call per repo is
// enough.
type Pagure struct {
	BaseURL string // override for tests
}

func (p *Pagure) baseURL(req Request) string {
	if p.BaseURL != "" {
		return p.BaseURL
	}
	if req.Host != "" {
		return req.Host
	}
	return "https://pagure.io"
}

// ListReviews fetches open pull requests for the configured repo. Pagure
// repo tokens may carry a namespace ("user/repo") or be bare repo names.
func (p *Pagure) ListReviews(ctx context.Context, req Request) ([]models.Review, error) {
	client := newHTTPClient(req.SSLVerify)
	base := p.baseURL(req)

	path := req.UserName
	if req.RepoName != "" {
		path = req.UserName + "/" + req.RepoName
	}
	slog.Debug("Fetching open pull requests", "service", "pagure", "repo", path)

	url := fmt.Sprintf("%s/api/0/%s/pull-requests", base, path)
	var resp pagureResponse
	if err := getJSON(ctx, client, url, nil, &resp); err != nil {
		return nil, err
	}

	var reviews []models.Review
	for _, pr := range resp.Requests {
		createdAt, err := parsePagureTime(pr.DateCreated)
		if err != nil {
			return nil, err
		}

		var last *models.LastComment
		if len(pr.Comments) > 0 {
			newest := pr.Comments[len(pr.Comments)-1]
			commentedAt, err := parsePagureTime(newest.DateCreated)
			if err != nil {
				return nil, err
			}
			last = &models.LastComment{
				Author:    newest.User.Name,
				Body:      newest.Comment,
				CreatedAt: commentedAt,
			}
		}

		ok, err := passesFilters(req, createdAt, last)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		reviews = append(reviews, models.Review{
			User:        pr.User.Name,
			Title:       pr.Title,
			URL:         fmt.Sprintf("%s/%s/pull-request/%d", base, path, pr.ID),
			Time:        createdAt,
			Comments:    len(pr.Comments),
			LastComment: last,
			ProjectName: path,
			ProjectURL:  fmt.Sprintf("%s/%s", base, path),
			Source:      "pagure",
		})
	}
	return reviews, nil
}

// parsePagureTime converts Pagure's stringified unix-seconds timestamps.
func parsePagureTime(s string) (time.Time, error) {
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("error parsing pagure date %q: %v", s, err)
	}
	return time.Unix(secs, 0).UTC(), nil
}

// Response types for JSON unmarshaling
type pagureResponse struct {
	Requests []pagurePullRequest `json:"requests"`
}

type pagurePullRequest struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	DateCreated string `json:"date_created"`
	User        struct {
		Name string `json:"name"`
	} `json:"user"`
	Comments []pagureComment `json:"comments"`
}

type pagureComment struct {
	Comment     string `json:"comment"`
	DateCreated string `json:"date_created"`
	User        struct {
		Name string `json:"name"`
	} `json:"user"`
}
