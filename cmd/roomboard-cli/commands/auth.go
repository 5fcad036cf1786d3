package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/example/roomboard/internal/client"
	"github.com/example/roomboard/internal/config"
)

func registerCmd(app *AppContext) *cobra.Command {
	var input client.RegisterInput

	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Create a faculty account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Username = args[0]
			password, err := app.prompt("Password: ")
			if err != nil {
				return app.fail("register", err)
			}
			input.Password = password

			username, err := app.Client.Register(app.Ctx, input)
			if err != nil {
				return app.fail("register", err)
			}
			app.printf("Registered %s. Run `roomboard-cli login %s` to sign in.\n", username, username)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Email, "email", "", "Contact email")
	cmd.Flags().StringVar(&input.FullName, "full-name", "", "Display name")
	return cmd
}

func loginCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "login <username>",
		Short: "Sign in and store the session token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := app.prompt("Password: ")
			if err != nil {
				return app.fail("log in", err)
			}
			session, err := app.Client.Login(app.Ctx, args[0], password)
			if err != nil {
				return app.fail("log in", err)
			}
			if err := app.saveSession(session); err != nil {
				return app.fail("save session", err)
			}
			app.printf("Logged in as %s.\n", session.Username)
			return nil
		},
	}
}

func logoutCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := app.session()
			if errors.Is(err, client.ErrNoSession) {
				app.printf("Not logged in.\n")
				return nil
			}
			if err != nil {
				return app.fail("log out", err)
			}
			// The local token goes away even when the server already dropped it.
			if err := app.Client.Logout(app.Ctx, session); err != nil && !errors.Is(err, client.ErrUnauthorized) {
				app.Logger.Warn("server logout failed", "error", err)
			}
			if err := config.ClearSession(app.Cfg.SessionFile); err != nil {
				return app.fail("log out", err)
			}
			app.printf("Logged out.\n")
			return nil
		},
	}
}

func whoamiCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := app.session()
			if err != nil {
				return app.fail("check session", err)
			}
			if err := app.Client.Check(app.Ctx, session); err != nil {
				return app.fail("check session", err)
			}
			app.printf("%s (session expires %s)\n", session.Username, session.ExpiresAt.Local().Format("2006-01-02 15:04"))
			return nil
		},
	}
}
