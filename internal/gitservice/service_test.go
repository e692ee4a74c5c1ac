package gitservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCheckRequestState_Disabled(t *testing.T) {
	ok, err := checkRequestState(time.Now().Add(-time.Hour), "", 0, "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !ok {
		t.Error("Expected the empty state to disable the filter")
	}
}

func TestCheckRequestState_InvalidState(t *testing.T) {
	if _, err := checkRequestState(time.Now(), "ancient", 1, "d"); err == nil {
		t.Error("Expected error for invalid state, got nil")
	}
}

func TestCheckRequestState_InvalidDuration(t *testing.T) {
	if _, err := checkRequestState(time.Now(), "older", 1, "weeks"); err == nil {
		t.Error("Expected error for invalid duration, got nil")
	}
}

func TestCheckRequestState(t *testing.T) {
	now := time.Now().UTC()
	cases := []struct {
		name      string
		createdAt time.Time
		state     string
		value     int
		duration  string
		want      bool
	}{
		{"older in days, matches", now.Add(-10 * 24 * time.Hour), "older", 7, "d", true},
		{"older in days, too recent", now.Add(-3 * 24 * time.Hour), "older", 7, "d", false},
		{"newer in days, matches", now.Add(-3 * 24 * time.Hour), "newer", 7, "d", true},
		{"newer in days, too old", now.Add(-10 * 24 * time.Hour), "newer", 7, "d", false},
		{"older in hours", now.Add(-5 * time.Hour), "older", 3, "h", true},
		{"newer in minutes", now.Add(-10 * time.Minute), "newer", 30, "min", true},
		{"older in years", now.AddDate(-2, 0, -1), "older", 1, "y", true},
		{"newer in years", now.AddDate(-2, 0, -1), "newer", 1, "y", false},
		{"older in months", now.AddDate(0, -14, -1), "older", 12, "m", true},
		{"newer in months", now.AddDate(0, -2, 0), "newer", 6, "m", true},
	}

	for _, c := range cases {
		got, err := checkRequestState(c.createdAt, c.state, c.value, c.duration)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", c.name, err)
			continue
		}
		if got != c.want {
			t.Errorf("%s: expected %v, got %v", c.name, c.want, got)
		}
	}
}

func TestHasNewComments(t *testing.T) {
	now := time.Now()

	if !hasNewComments(now.Add(-24*time.Hour), 7) {
		t.Error("Expected a day-old comment to count as new within 7 days")
	}
	if hasNewComments(now.Add(-10*24*time.Hour), 7) {
		t.Error("Expected a 10-day-old comment to not count as new within 7 days")
	}
	if hasNewComments(time.Time{}, 7) {
		t.Error("Expected zero activity time to never count as new")
	}
	if hasNewComments(now.Add(-time.Hour), 0) {
		t.Error("Expected zero days to disable the check")
	}
}

func TestGetJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "token abc" {
			t.Errorf("Expected auth header to be forwarded, got %q", r.Header.Get("Authorization"))
		}
		w.Write([]byte(`{"name":"value"}`))
	}))
	defer ts.Close()

	var out struct {
		Name string `json:"name"`
	}
	headers := map[string]string{"Authorization": "token abc"}
	if err := getJSON(context.Background(), ts.Client(), ts.URL, headers, &out); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.Name != "value" {
		t.Errorf("Expected 'value', got %q", out.Name)
	}
}

func TestGetJSON_GerritPrefix(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(")]}'\n{\"name\":\"gerrit\"}"))
	}))
	defer ts.Close()

	var out struct {
		Name string `json:"name"`
	}
	if err := getJSON(context.Background(), ts.Client(), ts.URL, nil, &out); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.Name != "gerrit" {
		t.Errorf("Expected prefix to be stripped, got %q", out.Name)
	}
}

func TestGetJSON_ErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer ts.Close()

	var out map[string]interface{}
	err := getJSON(context.Background(), ts.Client(), ts.URL, nil, &out)
	if err == nil {
		t.Fatal("Expected error for non-200 status, got nil")
	}
}

func TestGetJSON_BadJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer ts.Close()

	var out map[string]interface{}
	if err := getJSON(context.Background(), ts.Client(), ts.URL, nil, &out); err == nil {
		t.Fatal("Expected error for invalid JSON, got nil")
	}
}
