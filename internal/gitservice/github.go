package gitservice

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"reviewrot/pkg/models"
)

// GitHub lists open pull requests through the GitHub REST API.
type GitHub struct {
	BaseURL string // override for tests
}

func (g *GitHub) baseURL(req Request) string {
	if g.BaseURL != "" {
		return g.BaseURL
	}
	if req.Host != "" {
		return req.Host
	}
	return "https://api.github.com"
}

func (g *GitHub) headers(req Request) map[string]string {
	h := map[string]string{"Accept": "application/vnd.github+json"}
	if req.Token != "" {
		h["Authorization"] = "token " + req.Token
	}
	return h
}

// ListReviews fetches open pull requests for the configured repo, or for
// every repo of the user when no repo filter is given.
func (g *GitHub) ListReviews(ctx context.Context, req Request) ([]models.Review, error) {
	client := newHTTPClient(req.SSLVerify)
	base := g.baseURL(req)

	repos := []string{req.RepoName}
	if req.RepoName == "" {
		var err error
		repos, err = g.listUserRepos(ctx, client, base, req)
		if err != nil {
			return nil, err
		}
	}

	var reviews []models.Review
	for _, repo := range repos {
		slog.Debug("Fetching open pull requests", "service", "github", "user", req.UserName, "repo", repo)

		url := fmt.Sprintf("%s/repos/%s/%s/pulls?state=open&per_page=100", base, req.UserName, repo)
		var pulls []githubPull
		if err := getJSON(ctx, client, url, g.headers(req), &pulls); err != nil {
			return nil, err
		}

		for _, pull := range pulls {
			createdAt, err := time.Parse(time.RFC3339, pull.CreatedAt)
			if err != nil {
				return nil, fmt.Errorf("error parsing pull request date %q: %v", pull.CreatedAt, err)
			}

			comments, last, err := g.lastComment(ctx, client, base, req, repo, pull.Number)
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
				User:        pull.User.Login,
				Title:       pull.Title,
				URL:         pull.HTMLURL,
				Time:        createdAt,
				Comments:    comments,
				Image:       pull.User.AvatarURL,
				LastComment: last,
				ProjectName: fmt.Sprintf("%s/%s", req.UserName, repo),
				ProjectURL:  fmt.Sprintf("https://github.com/%s/%s", req.UserName, repo),
				Source:      "github",
			})
		}
	}
	return reviews, nil
}

func (g *GitHub) listUserRepos(ctx context.Context, client *http.Client, base string, req Request) ([]string, error) {
	url := fmt.Sprintf("%s/users/%s/repos?per_page=100", base, req.UserName)
	var repos []githubRepo
	if err := getJSON(ctx, client, url, g.headers(req), &repos); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(repos))
	for _, r := range repos {
		names = append(names, r.Name)
	}
	return names, nil
}

// lastComment returns the issue comment count and the most recent comment
// of a pull request, nil when there are none.
func (g *GitHub) lastComment(ctx context.Context, client *http.Client, base string, req Request, repo string, number int) (int, *models.LastComment, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/issues/%d/comments?per_page=100", base, req.UserName, repo, number)
	var comments []githubComment
	if err := getJSON(ctx, client, url, g.headers(req), &comments); err != nil {
		return 0, nil, err
	}
	if len(comments) == 0 {
		return 0, nil, nil
	}

	// GitHub returns comments oldest first.
	newest := comments[len(comments)-1]
	createdAt, err := time.Parse(time.RFC3339, newest.CreatedAt)
	if err != nil {
		return 0, nil, fmt.Errorf("error parsing comment date %q: %v", newest.CreatedAt, err)
	}
	return len(comments), &models.LastComment{
		Author:    newest.User.Login,
		Body:      newest.Body,
		CreatedAt: createdAt,
	}, nil
}

// Response types for JSON unmarshaling
type githubPull struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	HTMLURL   string `json:"html_url"`
	CreatedAt string `json:"created_at"`
	User      struct {
		Login     string `json:"login"`
		AvatarURL string `json:"avatar_url"`
	} `json:"user"`
}

type githubRepo struct {
	Name string `json:"name"`
}

type githubComment struct {
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
	User      struct {
		Login string `json:"login"`
	} `json:"user"`
}
