package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/example/roomboard/internal/client"
	"github.com/example/roomboard/internal/config"
	"github.com/example/roomboard/internal/logging"
)

// AppContext holds the dependencies shared across all commands.
type AppContext struct {
	Ctx    context.Context
	Cfg    config.ClientConfig
	Client *client.Client
	Logger *slog.Logger

	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
}

// NewAppContext builds an AppContext over the given streams. Config and client
// are filled in by the root command before any subcommand runs.
func NewAppContext(ctx context.Context, in io.Reader, out, errOut io.Writer) *AppContext {
	return &AppContext{
		Ctx:    ctx,
		in:     bufio.NewReader(in),
		out:    out,
		errOut: errOut,
	}
}

func (app *AppContext) init(configPath string, verbose bool) error {
	level := "warn"
	if verbose {
		level = "debug"
	}
	app.Logger = logging.New(app.errOut, logging.FormatText, level)

	var (
		cfg config.ClientConfig
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadClientFromPath(configPath)
	} else {
		cfg, err = config.LoadClient()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Cfg = cfg
	app.Client = client.New(cfg.APIURL, client.WithTimeout(cfg.Timeout), client.WithLogger(app.Logger))
	app.Ctx = logging.ContextWithLogger(app.Ctx, app.Logger)

	app.Logger.Debug("configuration loaded", "api_url", cfg.APIURL, "session_file", cfg.SessionFile)
	return nil
}

// session returns the stored login. The password is never part of it.
func (app *AppContext) session() (*client.Session, error) {
	stored, err := config.LoadSession(app.Cfg.SessionFile)
	if err != nil {
		if errors.Is(err, config.ErrNoSession) {
			return nil, client.ErrNoSession
		}
		return nil, err
	}
	return &client.Session{Username: stored.Username, Token: stored.Token, ExpiresAt: stored.ExpiresAt}, nil
}

func (app *AppContext) saveSession(session *client.Session) error {
	return config.SaveSession(app.Cfg.SessionFile, config.StoredSession{
		Username:  session.Username,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}

// fail logs err in detail and returns the generic message shown to the user.
func (app *AppContext) fail(action string, err error) error {
	app.Logger.Debug("command failed", "action", action, "error", err)
	return errors.New(client.UserMessage(action, err))
}

func (app *AppContext) printf(format string, args ...any) {
	fmt.Fprintf(app.out, format, args...)
}

func (app *AppContext) prompt(question string) (string, error) {
	fmt.Fprint(app.out, question)
	line, err := app.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Confirm implements faculty.Confirmer on stdin.
func (app *AppContext) Confirm(ctx context.Context, question string) (bool, error) {
	answer, err := app.prompt(question + " [y/N] ")
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
