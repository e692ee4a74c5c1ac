package gitservice

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"reviewrot/pkg/models"
)

// GitLab lists open merge requests through the GitLab v4 REST API.
type GitLab struct {
	BaseURL string // override for tests
}

func (g *GitLab) baseURL(req Request) string {
	if g.BaseURL != "" {
		return g.BaseURL
	}
	if req.Host != "" {
		return req.Host
	}
	return "https://gitlab.com"
}

func (g *GitLab) headers(req Request) map[string]string {
	h := map[string]string{}
	if req.Token != "" {
		h["PRIVATE-TOKEN"] = req.Token
	}
	return h
}

// ListReviews fetches open merge requests for the configured project, or
// for every project of the user when no repo filter is given.
func (g *GitLab) ListReviews(ctx context.Context, req Request) ([]models.Review, error) {
	client := newHTTPClient(req.SSLVerify)
	base := g.baseURL(req)

	var projects []string
	if req.RepoName != "" {
		projects = []string{req.UserName + "/" + req.RepoName}
	} else {
		var err error
		projects, err = g.listUserProjects(ctx, client, base, req)
		if err != nil {
			return nil, err
		}
	}

	var reviews []models.Review
	for _, project := range projects {
		slog.Debug("Fetching open merge requests", "service", "gitlab", "project", project)

		projectID := url.PathEscape(project)
		mrURL := fmt.Sprintf("%s/api/v4/projects/%s/merge_requests?state=opened&per_page=100", base, projectID)
		var mrs []gitlabMergeRequest
		if err := getJSON(ctx, client, mrURL, g.headers(req), &mrs); err != nil {
			return nil, err
		}

		for _, mr := range mrs {
			createdAt, err := time.Parse(time.RFC3339, mr.CreatedAt)
			if err != nil {
				return nil, fmt.Errorf("error parsing merge request date %q: %v", mr.CreatedAt, err)
			}

			last, err := g.lastComment(ctx, client, base, req, projectID, mr.IID)
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
				User:        mr.Author.Username,
				Title:       mr.Title,
				URL:         mr.WebURL,
				Time:        createdAt,
				Comments:    mr.UserNotesCount,
				Image:       mr.Author.AvatarURL,
				LastComment: last,
				ProjectName: project,
				ProjectURL:  fmt.Sprintf("%s/%s", base, project),
				Source:      "gitlab",
			})
		}
	}
	return reviews, nil
}

func (g *GitLab) listUserProjects(ctx context.Context, client *http.Client, base string, req Request) ([]string, error) {
	projURL := fmt.Sprintf("%s/api/v4/users/%s/projects?per_page=100", base, url.PathEscape(req.UserName))
	var projects []gitlabProject
	if err := getJSON(ctx, client, projURL, g.headers(req), &projects); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(projects))
	for _, p := range projects {
		paths = append(paths, p.PathWithNamespace)
	}
	return paths, nil
}

// lastComment returns the newest user note of a merge request, nil when
// only system notes (or none at all) exist.
func (g *GitLab) lastComment(ctx context.Context, client *http.Client, base string, req Request, projectID string, iid int) (*models.LastComment, error) {
	notesURL := fmt.Sprintf("%s/api/v4/projects/%s/merge_requests/%d/notes?order_by=created_at&sort=desc&per_page=100",
		base, projectID, iid)
	var notes []gitlabNote
	if err := getJSON(ctx, client, notesURL, g.headers(req), &notes); err != nil {
		return nil, err
	}

	for _, note := range notes {
		if note.System {
			continue
		}
		createdAt, err := time.Parse(time.RFC3339, note.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error parsing note date %q: %v", note.CreatedAt, err)
		}
		return &models.LastComment{
			Author:    note.Author.Username,
			Body:      note.Body,
			CreatedAt: createdAt,
		}, nil
	}
	return nil, nil
}

// Response types for JSON unmarshaling
type gitlabMergeRequest struct {
	IID            int    `json:"iid"`
	Title          string `json:"title"`
	WebURL         string `json:"web_url"`
	CreatedAt      string `json:"created_at"`
	UserNotesCount int    `json:"user_notes_count"`
	Author         struct {
		Username  string `json:"username"`
		AvatarURL string `json:"avatar_url"`
	} `json:"author"`
}

type gitlabProject struct {
	PathWithNamespace string `json:"path_with_namespace"`
}

type gitlabNote struct {
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
	System    bool   `json:"system"`
	Author    struct {
		Username string `json:"username"`
	} `json:"author"`
}
