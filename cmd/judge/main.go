package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/Avadhutgiri/judge-cli/internal/environment"
	"github.com/Avadhutgiri/judge-cli/internal/fetcher"
	"github.com/Avadhutgiri/judge-cli/internal/histcache"
	"github.com/Avadhutgiri/judge-cli/internal/judge"
	"github.com/Avadhutgiri/judge-cli/internal/realtime"
	"github.com/Avadhutgiri/judge-cli/internal/reveal"
	"github.com/Avadhutgiri/judge-cli/internal/session"
	"github.com/Avadhutgiri/judge-cli/internal/xdg"
)

func main() {
	root := &cli.Command{
		Name:  "judge",
		Usage: "terminal client for the contest judge",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "debug logging"},
		},
		Commands: []*cli.Command{
			loginCommand(),
			logoutCommand(),
			whoamiCommand(),
			problemsCommand(),
			problemCommand(),
			runCommand(),
			submitCommand(),
			systemCommand(),
			watchCommand(),
			historyCommand(),
			leaderboardCommand(),
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(cmd *cli.Command) *slog.Logger {
	level := slog.LevelWarn
	if cmd.Bool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level}))
}

type app struct {
	cfg    environment.Config
	log    *slog.Logger
	client *judge.Client
}

func newApp(cmd *cli.Command) (*app, error) {
	cfg, err := environment.Read()
	if err != nil {
		return nil, err
	}
	log := newLogger(cmd)

	opts := []judge.ClientOption{}
	if cookie := loadSessionCookie(); cookie != "" {
		opts = append(opts, judge.WithSessionCookie(cookie))
	}
	return &app{
		cfg:    cfg,
		log:    log,
		client: judge.NewClient(cfg.BaseURL, opts...),
	}, nil
}

// newSession builds the full submission pipeline: push channel, fetcher,
// history cache and terminal session. The returned closer tears the push
// connection down.
func (a *app) newSession() (*session.Session, func()) {
	var sub fetcher.Subscriber
	closer := func() {}

	manager, err := realtime.Connect(a.cfg.NatsURL, a.log)
	if err != nil {
		// push channel trouble never blocks an operation
		a.log.Warn("push channel unavailable, polling only", "err", err)
		sub = realtime.Disabled{}
	} else {
		sub = manager
		closer = manager.Close
	}

	f := fetcher.New(a.client, sub, fetcher.Config{
		RunFallbackDelay:    time.Duration(a.cfg.Delivery.RunFallbackMs) * time.Millisecond,
		SubmitFallbackDelay: time.Duration(a.cfg.Delivery.SubmitFallbackMs) * time.Millisecond,
		PollInterval:        time.Duration(a.cfg.Delivery.PollIntervalMs) * time.Millisecond,
		PollAttempts:        a.cfg.Delivery.PollAttempts,
	}, a.log)

	cache := histcache.New(filepath.Join(xdg.CacheHome(), "history"))
	sess := session.New(f, a.client, cache, os.Stdout, a.log, a.cfg.Defaults.TestCaseCount,
		session.WithRevealDelay(reveal.WithDelay(time.Duration(a.cfg.Reveal.DelayMs)*time.Millisecond)))

	return sess, func() {
		sess.Close()
		closer()
	}
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "authenticate and persist the session",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			user, err := a.client.Login(ctx, cmd.String("username"), cmd.String("password"))
			if err != nil {
				return err
			}
			if err := saveSessionCookie(a.client.SessionCookie()); err != nil {
				a.log.Warn("session cookie not persisted", "err", err)
			}
			fmt.Printf("Logged in as %s\n", user.Username)
			return nil
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "end the session",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			if err := a.client.Logout(ctx); err != nil {
				a.log.Warn("backend logout failed", "err", err)
			}
			return clearSessionCookie()
		},
	}
}

func whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "show the authenticated user",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			user, err := a.client.Me(ctx)
			if err != nil {
				return err
			}
			if user.TeamName != "" {
				fmt.Printf("%s (team %s)\n", user.Username, user.TeamName)
			} else {
				fmt.Println(user.Username)
			}
			return nil
		},
	}
}

func problemsCommand() *cli.Command {
	return &cli.Command{
		Name:  "problems",
		Usage: "list problems",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			problems, err := a.client.Problems(ctx)
			if err != nil {
				return err
			}
			for _, p := range problems {
				fmt.Printf("%-12s %s\n", p.ID, p.Title)
			}
			return nil
		},
	}
}

func problemCommand() *cli.Command {
	return &cli.Command{
		Name:      "problem",
		Usage:     "show a problem statement",
		ArgsUsage: "<problem-id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			id := cmd.Args().First()
			if id == "" {
				return fmt.Errorf("problem id required")
			}
			problem, err := a.client.Problem(ctx, id)
			if err != nil {
				return err
			}
			bold := color.New(color.Bold)
			bold.Println(problem.Title)
			fmt.Println()
			fmt.Println(problem.Statement)
			for i, sample := range problem.Samples {
				fmt.Printf("\nSample %d\nInput:\n%s\nOutput:\n%s\n", i+1, sample.Input, sample.Output)
			}
			return nil
		},
	}
}

func codeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "problem", Aliases: []string{"P"}, Required: true},
		&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true, Usage: "source file"},
		&cli.StringFlag{Name: "language", Aliases: []string{"l"}},
	}
}

func (a *app) language(cmd *cli.Command) string {
	if lang := cmd.String("language"); lang != "" {
		return lang
	}
	return a.cfg.Defaults.Language
}

func runCommand() *cli.Command {
	flags := append(codeFlags(),
		&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "custom input file"})
	return &cli.Command{
		Name:  "run",
		Usage: "run code against the samples or a custom input",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			code, err := os.ReadFile(cmd.String("file"))
			if err != nil {
				return err
			}
			input, err := readOptionalFile(cmd.String("input"))
			if err != nil {
				return err
			}

			sess, done := a.newSession()
			defer done()

			if _, err := sess.LoadProblem(ctx, cmd.String("problem")); err != nil {
				a.log.Warn("problem fetch failed", "err", err)
			}
			_, err = sess.RunCode(ctx, cmd.String("problem"), string(code), input, a.language(cmd))
			return err
		},
	}
}

func submitCommand() *cli.Command {
	return &cli.Command{
		Name:  "submit",
		Usage: "submit code for judging",
		Flags: codeFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			code, err := os.ReadFile(cmd.String("file"))
			if err != nil {
				return err
			}

			sess, done := a.newSession()
			defer done()

			if _, err := sess.LoadProblem(ctx, cmd.String("problem")); err != nil {
				a.log.Warn("problem fetch failed", "err", err)
			}
			_, err = sess.SubmitCode(ctx, cmd.String("problem"), string(code), a.language(cmd))
			return err
		},
	}
}

func systemCommand() *cli.Command {
	return &cli.Command{
		Name:  "system",
		Usage: "run the reference solution",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "problem", Aliases: []string{"P"}, Required: true},
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "custom input file"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			input, err := readOptionalFile(cmd.String("input"))
			if err != nil {
				return err
			}

			sess, done := a.newSession()
			defer done()

			_, err = sess.SystemRun(ctx, cmd.String("problem"), input)
			return err
		},
	}
}

// watch runs the user's code and the reference solution concurrently; each
// operation has its own submission id, deadline and budget, so the two never
// share delivery state.
func watchCommand() *cli.Command {
	flags := append(codeFlags(),
		&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "custom input file"})
	return &cli.Command{
		Name:  "watch",
		Usage: "run user code and the reference solution side by side",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			code, err := os.ReadFile(cmd.String("file"))
			if err != nil {
				return err
			}
			input, err := readOptionalFile(cmd.String("input"))
			if err != nil {
				return err
			}

			sess, done := a.newSession()
			defer done()

			problemID := cmd.String("problem")
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				_, err := sess.RunCode(gctx, problemID, string(code), input, a.language(cmd))
				return err
			})
			g.Go(func() error {
				_, err := sess.SystemRun(gctx, problemID, input)
				return err
			})
			return g.Wait()
		},
	}
}

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "list past submissions for a problem",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "problem", Aliases: []string{"P"}, Required: true},
			&cli.IntFlag{Name: "show-code", Value: -1, Usage: "print the source of the n-th listed submission"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			sess, done := a.newSession()
			defer done()

			entries, err := sess.History(ctx, cmd.String("problem"))
			if err != nil {
				return err
			}
			if n := int(cmd.Int("show-code")); n >= 0 {
				if n >= len(entries) {
					return fmt.Errorf("submission %d out of range", n)
				}
				fmt.Println()
				fmt.Println(sess.SubmissionCode(entries[n]))
			}
			return nil
		},
	}
}

func leaderboardCommand() *cli.Command {
	return &cli.Command{
		Name:  "leaderboard",
		Usage: "show the scoreboard",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			rows, err := a.client.Leaderboard(ctx)
			if err != nil {
				return err
			}
			for _, row := range rows {
				fmt.Printf("%3d. %-24s %5d pts  %d solved\n",
					row.Rank, row.TeamName, row.Score, row.Solved)
			}
			return nil
		},
	}
}

func readOptionalFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func sessionCookiePath() string {
	return filepath.Join(xdg.StateHome(), "session")
}

func loadSessionCookie() string {
	data, err := os.ReadFile(sessionCookiePath())
	if err != nil {
		return ""
	}
	return string(data)
}

func saveSessionCookie(value string) error {
	if err := os.MkdirAll(xdg.StateHome(), 0o700); err != nil {
		return err
	}
	return os.WriteFile(sessionCookiePath(), []byte(value), 0o600)
}

func clearSessionCookie() error {
	err := os.Remove(sessionCookiePath())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
