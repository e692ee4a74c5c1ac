package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"reviewrot/internal/aggregator"
	"reviewrot/internal/config"
	"reviewrot/internal/logger"
	"reviewrot/internal/notifier"
	"reviewrot/pkg/models"
)

var (
	configPath      string
	stateFlag       string
	valueFlag       int
	durationFlag    string
	formatFlag      string
	reverseFlag     bool
	commentSortFlag bool
	showLastComment int
	emailFlag       []string
	ircFlag         []string
	insecureFlag    bool
	debugFlag       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "reviewrot",
		Short: "List open review requests across git hosting services",
		Long: "reviewrot queries the configured GitHub, GitLab, Pagure and Gerrit\n" +
			"repositories for open review requests and delivers one sorted list\n" +
			"to the terminal, an email digest or an IRC channel.",
		SilenceUsage: true,
		RunE:         run,
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "config.yaml", "path to the configuration file")
	flags.StringVar(&stateFlag, "state", "", "filter reviews older or newer than the given age (older|newer)")
	flags.IntVar(&valueFlag, "value", 0, "age filter value")
	flags.StringVar(&durationFlag, "duration", "", "age filter unit (y|m|d|h|min)")
	flags.StringVarP(&formatFlag, "format", "f", "", "output format (oneline|indented|json)")
	flags.BoolVar(&reverseFlag, "reverse", false, "sort newest first")
	flags.BoolVar(&commentSortFlag, "comment-sort", false, "sort by the last comment instead of creation time")
	flags.IntVar(&showLastComment, "show-last-comment", 0, "hide reviews whose last comment is newer than N days (0 shows all)")
	flags.StringSliceVar(&emailFlag, "email", nil, "send the report to these email addresses")
	flags.StringSliceVar(&ircFlag, "irc", nil, "announce the report on these IRC channels")
	flags.BoolVarP(&insecureFlag, "insecure", "k", false, "disable SSL certificate verification")
	flags.BoolVar(&debugFlag, "debug", false, "enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger.Init(cfg, debugFlag)
	mergeArguments(cmd, &cfg.Arguments)

	if err := validateArguments(cfg.Arguments); err != nil {
		return err
	}

	style, err := models.ParseStyle(cfg.Arguments.Format)
	if err != nil {
		return err
	}

	sslVerify := true
	if cfg.Arguments.SSLVerify != nil {
		sslVerify = *cfg.Arguments.SSLVerify
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ageValue := 0
	if cfg.Arguments.Value != nil {
		ageValue = *cfg.Arguments.Value
	}

	reviews, err := aggregator.Aggregate(ctx, cfg.GitServices, aggregator.QueryOptions{
		State:           cfg.Arguments.State,
		Value:           ageValue,
		Duration:        cfg.Arguments.Duration,
		ShowLastComment: cfg.Arguments.ShowLastComment,
		SSLVerify:       sslVerify,
	})
	if err != nil {
		slog.Error("Aggregation failed", "error", err)
		return err
	}

	models.SortReviews(reviews, cfg.Arguments.CommentSort, cfg.Arguments.Reverse)

	sink := notifier.SelectSink(cfg.Arguments.Email, cfg.Arguments.IRC, len(reviews))
	slog.Debug("Dispatching results", "sink", sink.String(), "reviews", len(reviews))

	var n notifier.Notifier
	switch sink {
	case notifier.SinkEmail:
		n = notifier.NewEmailNotifier(cfg, cfg.Arguments.Email)
	case notifier.SinkIRC:
		n = notifier.NewIRCNotifier(cfg, cfg.Arguments.IRC)
	default:
		n = notifier.NewReportNotifier(style, cfg.Arguments.ShowLastComment)
	}

	if err := n.Notify(reviews); err != nil {
		slog.Error("Delivery failed", "sink", sink.String(), "error", err)
		return err
	}
	return nil
}

// mergeArguments lays the flags the user actually set over the defaults
// from the configuration file.
func mergeArguments(cmd *cobra.Command, dst *config.Arguments) {
	flags := cmd.Flags()
	if flags.Changed("state") {
		dst.State = stateFlag
	}
	if flags.Changed("value") {
		v := valueFlag
		dst.Value = &v
	}
	if flags.Changed("duration") {
		dst.Duration = durationFlag
	}
	if flags.Changed("format") {
		dst.Format = formatFlag
	}
	if flags.Changed("reverse") {
		dst.Reverse = reverseFlag
	}
	if flags.Changed("comment-sort") {
		dst.CommentSort = commentSortFlag
	}
	if flags.Changed("show-last-comment") {
		v := showLastComment
		dst.ShowLastComment = &v
	}
	if flags.Changed("email") {
		dst.Email = emailFlag
	}
	if flags.Changed("irc") {
		dst.IRC = ircFlag
	}
	if flags.Changed("insecure") {
		v := !insecureFlag
		dst.SSLVerify = &v
	}
}

// validateArguments enforces the contracts the pipeline relies on: the age
// filter is all-or-nothing and enumerated values are closed sets.
func validateArguments(a config.Arguments) error {
	ageFlags := 0
	if a.State != "" {
		ageFlags++
	}
	if a.Value != nil {
		ageFlags++
	}
	if a.Duration != "" {
		ageFlags++
	}
	if ageFlags != 0 && ageFlags != 3 {
		return errors.New("--state, --value and --duration must be given together")
	}

	if a.State != "" && a.State != "older" && a.State != "newer" {
		return fmt.Errorf("invalid state value: %s", a.State)
	}
	switch a.Duration {
	case "", "y", "m", "d", "h", "min":
	default:
		return fmt.Errorf("invalid duration type: %s", a.Duration)
	}

	if a.ShowLastComment != nil && *a.ShowLastComment < 0 {
		return fmt.Errorf("show-last-comment must not be negative: %d", *a.ShowLastComment)
	}
	return nil
}
