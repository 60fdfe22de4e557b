package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mentorflow/mentorflow/internal/advisory"
	"github.com/mentorflow/mentorflow/internal/config"
	"github.com/mentorflow/mentorflow/internal/domain"
	"github.com/mentorflow/mentorflow/internal/remote"
	"github.com/mentorflow/mentorflow/internal/store"
)

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 || os.Args[1] == "help" || os.Args[1] == "-h" {
		printUsage(os.Stderr)
		return 2
	}

	cfg, err := config.LoadClientConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}

	// store errors are reported by the commands themselves, the log is for debugging
	var logOut io.Writer = io.Discard
	if cfg.Debug {
		logOut = os.Stderr
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelDebug})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing client: %v\n", err)
		return 1
	}

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, a.styles.Error.Render("Error: ")+errorMessage(err))
		return 1
	}
	return 0
}

type app struct {
	cfg      *config.ClientConfig
	auth     *store.AuthStore
	projects *store.ProjectStore
	roster   *store.RosterStore
	advisor  *advisory.Service
	styles   *Styles
	out      io.Writer
	now      func() time.Time
}

func newApp(ctx context.Context, cfg *config.ClientConfig, out io.Writer) (*app, error) {
	client := remote.NewClient(cfg.Remote.URL, time.Duration(cfg.Remote.Timeout)*time.Second)
	auth := store.NewAuthStore(client)

	advisor := advisory.NewService(nil)
	if cfg.Advisory.APIKey != "" {
		gemini, err := advisory.NewGemini(ctx, cfg.Advisory.APIKey, cfg.Advisory.Model)
		if err != nil {
			return nil, err
		}
		advisor = advisory.NewService(gemini)
	}

	return &app{
		cfg:      cfg,
		auth:     auth,
		projects: store.NewProjectStore(client, client, auth),
		roster:   store.NewRosterStore(client, client),
		advisor:  advisor,
		styles:   NewStyles(Clinic),
		out:      out,
		now:      time.Now,
	}, nil
}

func (a *app) run(ctx context.Context, name string, args []string) error {
	cmd, ok := findCommand(name)
	if !ok {
		return fmt.Errorf("unknown command %q, run mentorflow help", name)
	}

	if cmd.signedIn {
		if err := a.open(ctx, cmd.realtime); err != nil {
			return err
		}
		defer a.close()
	}

	return cmd.run(ctx, a, args)
}

// open signs in with the configured credentials and starts the stores. Without realtime a
// failed subscription is ignored; the caches are still loaded once.
func (a *app) open(ctx context.Context, realtime bool) error {
	if a.cfg.Email == "" || a.cfg.Password == "" {
		return errors.New("set MENTORFLOW_EMAIL and MENTORFLOW_PASSWORD to sign in")
	}

	a.auth.Start(ctx)
	if err := a.auth.SignIn(ctx, a.cfg.Email, a.cfg.Password); err != nil {
		return err
	}

	if err := a.projects.Start(ctx); err != nil && realtime {
		return err
	}
	if err := a.roster.Start(ctx); err != nil && realtime {
		return err
	}
	return nil
}

func (a *app) close() {
	a.projects.Stop()
	a.roster.Stop()
	a.auth.Stop()
}

// errorMessage turns write failures into the text shown to the user.
func errorMessage(err error) string {
	var apiErr *remote.APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, remote.ErrNotConfigured):
		return "MENTORFLOW_REMOTE_URL is not set"
	case errors.Is(err, store.ErrNotAuthenticated):
		return "you are not signed in"
	default:
		return err.Error()
	}
}

func (a *app) user() (*domain.User, error) {
	user := a.auth.User()
	if user == nil {
		return nil, store.ErrNotAuthenticated
	}
	return user, nil
}
