package gitservice

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"reviewrot/pkg/models"
)

// Request carries the resolved parameters for one (service, repo) query.
type Request struct {
	UserName string
	RepoName string
	Token    string
	Host     string // base URL override, no trailing slash

	// Age filter: reviews older/newer than Value x Duration. State empty
	// disables the filter.
	State    string // "older" or "newer"
	Value    int
	Duration string // "y", "m", "d", "h", "min"

	// ShowLastComment, when set to N>0, drops reviews whose last comment
	// is newer than N days.
	ShowLastComment *int

	SSLVerify bool
}

// Service lists the open reviews of one code-hosting backend.
type Service interface {
	ListReviews(ctx context.Context, req Request) ([]models.Review, error)
}

// newHTTPClient builds the client used for a single query. Certificate
// verification is skipped only when the request says so.
func newHTTPClient(sslVerify bool) *http.Client {
	client := &http.Client{Timeout: 15 * time.Second}
	if !sslVerify {
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	return client
}

// gerritJSONPrefix guards Gerrit JSON responses against XSSI; it has to be
// stripped before decoding.
const gerritJSONPrefix = ")]}'\n"

// getJSON performs a GET request and decodes the JSON body into v,
// tolerating Gerrit's anti-XSSI prefix.
func getJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	for k, val := range headers {
		req.Header.Set(k, val)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("error fetching reviews: %s (URL: %s, Body: %s)", resp.Status, url, string(body))
	}

	body = bytes.TrimPrefix(bytes.TrimSpace(body), []byte(gerritJSONPrefix))
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("invalid json content from %s: %v", url, err)
	}
	return nil
}

// checkRequestState reports whether a review filed at createdAt passes the
// older/newer age filter. An empty state disables the filter.
func checkRequestState(createdAt time.Time, state string, value int, duration string) (bool, error) {
	if state == "" {
		return true, nil
	}
	if state != "older" && state != "newer" {
		return false, fmt.Errorf("invalid state value: %s", state)
	}

	now := time.Now().UTC()
	rel := models.DeltaBetween(createdAt.UTC(), now)
	abs := now.Sub(createdAt.UTC())

	var metric int
	switch duration {
	case "y":
		metric = rel.Years
	case "m":
		metric = rel.Years*12 + rel.Months
	case "d":
		metric = int(abs.Hours() / 24)
	case "h":
		metric = int(abs.Hours())
	case "min":
		metric = int(abs.Minutes())
	default:
		return false, fmt.Errorf("invalid duration type: %s", duration)
	}

	if state == "older" && metric < value {
		return false, nil
	}
	if state == "newer" && metric >= value {
		return false, nil
	}
	return true, nil
}

// hasNewComments reports whether the last comment activity happened within
// the given number of days.
func hasNewComments(lastActivity time.Time, days int) bool {
	if lastActivity.IsZero() || days == 0 {
		return false
	}
	delta := time.Since(lastActivity)
	return int(delta.Hours()/24) < days
}

// passesFilters applies the age and recent-comment filters shared by every
// service client.
func passesFilters(req Request, createdAt time.Time, last *models.LastComment) (bool, error) {
	ok, err := checkRequestState(createdAt, req.State, req.Value, req.Duration)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if req.ShowLastComment != nil && *req.ShowLastComment > 0 && last != nil &&
		hasNewComments(last.CreatedAt, *req.ShowLastComment) {
		return false, nil
	}
	return true, nil
}
