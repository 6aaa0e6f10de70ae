package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/inklet/inklet/core/blog"
	"github.com/inklet/inklet/core/guard"
	"github.com/inklet/inklet/core/session"
)

var (
	loginEmail    string
	loginPassword string

	registerUsername string
	registerEmail    string
	registerPassword string

	whoamiWatch bool
)

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password (prompted when omitted)")

	registerCmd.Flags().StringVar(&registerUsername, "username", "", "display name for new posts")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "account email")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "account password (prompted when omitted)")

	whoamiCmd.Flags().BoolVar(&whoamiWatch, "watch", false, "keep running and report session changes from other processes")

	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
}

var loginRoute = guard.Route{Name: "login", Guarded: true, RequireAuth: false}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate and store the session locally",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if handled, err := checkRoute(cmd, loginRoute); handled {
			return err
		}

		password, err := resolvePassword(cmd, loginPassword)
		if err != nil {
			return err
		}

		id, err := client.Login(cmd.Context(), loginEmail, password)
		if err != nil {
			return err
		}

		cmd.Printf("logged in as %s\n", id.Username)
		return nil
	},
}

var registerRoute = guard.Route{Name: "register", Guarded: true, RequireAuth: false}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if handled, err := checkRoute(cmd, registerRoute); handled {
			return err
		}

		password, err := resolvePassword(cmd, registerPassword)
		if err != nil {
			return err
		}

		id, err := client.Register(cmd.Context(), registerUsername, registerEmail, password)
		if err != nil {
			return err
		}

		cmd.Printf("registered and logged in as %s\n", id.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the local session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !store.Current().Present() {
			cmd.Println("not logged in")
			return nil
		}
		if err := client.Logout(); err != nil {
			return err
		}
		cmd.Println("logged out")
		return nil
	},
}

var whoamiRoute = guard.Route{Name: "whoami", Guarded: true, RequireAuth: true}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current identity",
	Long: `Show the current identity.

With --watch, whoami keeps running and re-evaluates the access guard every
time the session changes, including changes made by other inklet processes.
Logging out elsewhere is reported here immediately.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		render := func() guard.Decision {
			decision := whoamiRoute.Decide(store.Current())
			if decision == guard.Render {
				cmd.Printf("logged in as %s\n", store.Current().Username())
			} else {
				cmd.Println("not logged in")
			}
			return decision
		}

		decision := render()
		if !whoamiWatch {
			if decision == guard.RedirectLogin {
				return fmt.Errorf("%w: run \"inklet login\" first", blog.ErrAuthRequired)
			}
			return nil
		}

		// The guard must re-run on every notification, not only at start.
		stop := store.Subscribe(func() { render() })
		defer stop()

		watcher, err := session.NewWatcher(store, session.WithWatcherLogger(log))
		if err != nil {
			return err
		}
		defer watcher.Close()

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		if err := watcher.Run(ctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func resolvePassword(cmd *cobra.Command, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
