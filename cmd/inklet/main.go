// Command inklet is a terminal client for the blog backend: it manages the
// local login session and lists, reads, creates, edits and deletes posts.
//
// The session lives in a small file under the user config directory and is
// shared by every inklet process; changes made by one process (login,
// logout, credential expiry) are picked up by the others.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/inklet/inklet/core/blog"
	"github.com/inklet/inklet/core/config"
	"github.com/inklet/inklet/core/guard"
	"github.com/inklet/inklet/core/session"
	"github.com/inklet/inklet/pkg/logger"
)

type appConfig struct {
	APIBaseURL  string        `env:"INKLET_API_URL" envDefault:"http://localhost:5000"`
	SessionPath string        `env:"INKLET_SESSION_FILE"`
	HTTPTimeout time.Duration `env:"INKLET_HTTP_TIMEOUT" envDefault:"15s"`
	LogLevel    string        `env:"INKLET_LOG_LEVEL" envDefault:"warn"`
}

var (
	log    *slog.Logger
	store  *session.Store
	client *blog.Client
)

var rootCmd = &cobra.Command{
	Use:           "inklet",
	Short:         "Publish and manage blog posts from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setup()
	},
}

func setup() error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}

	log = logger.New(os.Stderr, cfg.LogLevel)

	var err error
	store, err = session.New(cfg.SessionPath, session.WithLogger(log))
	if err != nil {
		return err
	}

	client, err = blog.New(store,
		blog.WithBaseURL(cfg.APIBaseURL),
		blog.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		blog.WithLogger(log),
	)
	return err
}

// checkRoute applies the access guard before a command body runs. The
// returned handled flag means the command already resolved to a redirect
// and its body must not run.
func checkRoute(cmd *cobra.Command, route guard.Route) (handled bool, err error) {
	switch route.Decide(store.Current()) {
	case guard.RedirectLogin:
		return true, fmt.Errorf("%w: run \"inklet login\" first", blog.ErrAuthRequired)
	case guard.RedirectHome:
		cmd.Printf("already logged in as %s\n", store.Current().Username())
		return true, nil
	default:
		return false, nil
	}
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, blog.ErrAuthRequired), errors.Is(err, blog.ErrSessionExpired):
		return 2
	case errors.Is(err, blog.ErrForbidden):
		return 3
	default:
		return 1
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "inklet:", err)
		os.Exit(exitCode(err))
	}
}
