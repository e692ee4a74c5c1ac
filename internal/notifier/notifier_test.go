package notifier

import "testing"

func TestSelectSink(t *testing.T) {
	cases := []struct {
		name     string
		email    []string
		irc      []string
		results  int
		expected Sink
	}{
		{"nothing configured", nil, nil, 5, SinkReport},
		{"email only", []string{"team@example.com"}, nil, 5, SinkEmail},
		{"irc only", nil, []string{"#reviews"}, 5, SinkIRC},
		{"email wins over irc", []string{"team@example.com"}, []string{"#reviews"}, 5, SinkEmail},
		{"email even with no results", []string{"team@example.com"}, nil, 0, SinkEmail},
		{"irc skipped on empty results", nil, []string{"#reviews"}, 0, SinkReport},
		{"report on empty everything", nil, nil, 0, SinkReport},
	}

	for _, c := range cases {
		got := SelectSink(c.email, c.irc, c.results)
		if got != c.expected {
			t.Errorf("%s: expected %v, got %v", c.name, c.expected, got)
		}
	}
}
