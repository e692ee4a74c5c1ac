package aggregator

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"reviewrot/internal/config"
	"reviewrot/internal/gitservice"
	"reviewrot/pkg/models"
)

// services maps the config discriminator to its collaborator client.
var services = map[string]gitservice.Service{
	"github": &GitHubService,
	"gitlab": &GitLabService,
	"pagure": &PagureService,
	"gerrit": &GerritService,
}

// Exported client instances so tests (and main) can point BaseURL at fakes.
var (
	GitHubService gitservice.GitHub
	GitLabService gitservice.GitLab
	PagureService gitservice.Pagure
	GerritService gitservice.Gerrit
)

// RepoIdentity is a repo token resolved into its service-specific parts.
type RepoIdentity struct {
	UserName string
	RepoName string
}

// SplitRepoToken resolves a raw "user/repo" config token. Gerrit projects
// are not split: the whole token is percent-escaped and used as the repo
// name. Everything else splits once at the first slash; a token without a
// slash is a bare user name with no repo filter.
func SplitRepoToken(token, serviceType string) RepoIdentity {
	if serviceType == "gerrit" {
		return RepoIdentity{RepoName: url.QueryEscape(token)}
	}
	if user, repo, found := strings.Cut(token, "/"); found {
		return RepoIdentity{UserName: user, RepoName: repo}
	}
	return RepoIdentity{UserName: token}
}

// envTokenMarker prefixes token values that name an environment variable
// instead of carrying the credential itself.
const envTokenMarker = "ENV."

// ResolveToken resolves a configured token value. An "ENV."-prefixed value
// is looked up in the environment; an unset variable yields no credential,
// which is distinct from a variable set to the empty string.
func ResolveToken(raw string) string {
	name, found := strings.CutPrefix(raw, envTokenMarker)
	if !found {
		return raw
	}
	value, ok := os.LookupEnv(name)
	if !ok {
		slog.Warn("Token environment variable is not set", "name", name)
		return ""
	}
	return value
}

// QueryOptions are the per-run parameters passed through to every service
// collaborator.
type QueryOptions struct {
	State           string
	Value           int
	Duration        string
	ShowLastComment *int
	SSLVerify       bool
}

// Aggregate queries every configured (service, repo) pair and concatenates
// the results. A service entry without a type is a fatal configuration
// error; a failing query is logged and skipped so the remaining sources
// still contribute.
func Aggregate(ctx context.Context, configs []config.ServiceConfig, opts QueryOptions) ([]models.Review, error) {
	var all []models.Review
	failures := 0

	for _, svc := range configs {
		if svc.Type == "" {
			return nil, fmt.Errorf("git service entry has no type: %+v", svc)
		}
		client, ok := services[svc.Type]
		if !ok {
			return nil, fmt.Errorf("unknown git service type: %s", svc.Type)
		}

		token := ResolveToken(svc.Token)
		host := strings.TrimSuffix(svc.Host, "/")

		for _, repo := range svc.Repos {
			identity := SplitRepoToken(repo, svc.Type)
			slog.Info("Fetching open reviews", "service", svc.Type, "repo", repo)

			reviews, err := client.ListReviews(ctx, gitservice.Request{
				UserName:        identity.UserName,
				RepoName:        identity.RepoName,
				Token:           token,
				Host:            host,
				State:           opts.State,
				Value:           opts.Value,
				Duration:        opts.Duration,
				ShowLastComment: opts.ShowLastComment,
				SSLVerify:       opts.SSLVerify,
			})
			if err != nil {
				slog.Error("Error fetching reviews", "service", svc.Type, "repo", repo, "error", err)
				failures++
				continue
			}
			slog.Info("Open reviews found", "service", svc.Type, "repo", repo, "total", len(reviews))
			all = append(all, reviews...)
		}
	}

	if failures > 0 {
		slog.Warn("Some sources could not be queried", "failed", failures)
	}
	return all, nil
}
