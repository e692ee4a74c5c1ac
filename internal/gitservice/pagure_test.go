package gitservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func TestPagure_ListReviews(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/0/fedora/anaconda/pull-requests" {
			t.Errorf("Unexpected path: %q", r.URL.Path)
		}
		w.Write([]byte(`{
			"requests": [
				{
					"id": 12,
					"title": "Handle kickstart edge case",
					"date_created": "1672531200",
					"user": {"name": "frank"},
					"comments": [
						{"comment": "ping", "date_created": "1672617600", "user": {"name": "grace"}}
					]
				},
				{
					"id": 13,
					"title": "Silent request",
					"date_created": "1672531200",
					"user": {"name": "heidi"},
					"comments": []
				}
			]
		}`))
	}))
	defer ts.Close()

	p := &Pagure{BaseURL: ts.URL}
	reviews, err := p.ListReviews(context.Background(), Request{
		UserName:  "fedora",
		RepoName:  "anaconda",
		SSLVerify: true,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(reviews) != 2 {
		t.Fatalf("Expected 2 reviews, got %d", len(reviews))
	}

	first := reviews[0]
	if first.User != "frank" {
		t.Errorf("Expected user 'frank', got %q", first.User)
	}
	if first.Comments != 1 {
		t.Errorf("Expected 1 comment, got %d", first.Comments)
	}
	if first.LastComment == nil || first.LastComment.Author != "grace" {
		t.Errorf("Expected last comment by 'grace', got %+v", first.LastComment)
	}
	wantTime := time.Unix(1672531200, 0).UTC()
	if !first.Time.Equal(wantTime) {
		t.Errorf("Expected creation time %v, got %v", wantTime, first.Time)
	}

	if reviews[1].LastComment != nil {
		t.Errorf("Expected no last comment for uncommented request, got %+v", reviews[1].LastComment)
	}
}

func TestPagure_ListReviews_RecentCommentFilter(t *testing.T) {
	recent := time.Now().Add(-time.Hour).Unix()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"requests": [
				{
					"id": 14,
					"title": "Busy request",
					"date_created": "1672531200",
					"user": {"name": "ivan"},
					"comments": [
						{"comment": "on it", "date_created": "` +
			timeString(recent) + `", "user": {"name": "judy"}}
					]
				}
			]
		}`))
	}))
	defer ts.Close()

	days := 7
	p := &Pagure{BaseURL: ts.URL}
	reviews, err := p.ListReviews(context.Background(), Request{
		UserName:        "fedora",
		RepoName:        "anaconda",
		ShowLastComment: &days,
		SSLVerify:       true,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(reviews) != 0 {
		t.Errorf("Expected recently commented request to be dropped, got %d reviews", len(reviews))
	}
}

func timeString(unix int64) string {
	return strconv.FormatInt(unix, 10)
}
