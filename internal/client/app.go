package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-storefront/internal/adapter"
	"github.com/MKhiriev/go-storefront/internal/logger"
	"github.com/MKhiriev/go-storefront/models"
)

var commandNames = []string{"signup", "signin", "signout", "me", "request-reset", "reset", "users", "grant"}

type command struct {
	usage string
	args  int
	run   func(ctx context.Context, args []string) (any, error)
}

// App runs one subcommand per invocation and prints its result as JSON.
type App struct {
	api      adapter.StorefrontAPI
	tokens   TokenStore
	out      io.Writer
	logger   *logger.Logger
	commands map[string]command
}

func NewApp(api adapter.StorefrontAPI, tokens TokenStore, out io.Writer, logger *logger.Logger) *App {
	a := &App{api: api, tokens: tokens, out: out, logger: logger}
	a.commands = map[string]command{
		"signup":        {usage: "signup <email> <name> <password>", args: 3, run: a.signUp},
		"signin":        {usage: "signin <email> <password>", args: 2, run: a.signIn},
		"signout":       {usage: "signout", run: a.signOut},
		"me":            {usage: "me", run: a.me},
		"request-reset": {usage: "request-reset <email>", args: 1, run: a.requestReset},
		"reset":         {usage: "reset <reset-token> <password> <confirm-password>", args: 3, run: a.reset},
		"users":         {usage: "users", run: a.users},
		"grant":         {usage: "grant <user-id> [PERMISSION...]", args: -1, run: a.grant},
	}
	return a
}

func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w; commands: %s", ErrNoCommand, a.usage())
	}

	cmd, ok := a.commands[args[0]]
	if !ok {
		return fmt.Errorf("%w %q; commands: %s", ErrUnknownCommand, args[0], a.usage())
	}

	operands := args[1:]
	if (cmd.args >= 0 && len(operands) != cmd.args) || (cmd.args < 0 && len(operands) == 0) {
		return fmt.Errorf("%w, usage: %s", ErrUsage, cmd.usage)
	}

	token, err := a.tokens.Load()
	if err != nil {
		return err
	}
	a.api.SetToken(token)

	result, err := cmd.run(ctx, operands)
	if err != nil {
		return err
	}

	if a.api.Token() != token {
		if err = a.tokens.Save(a.api.Token()); err != nil {
			return err
		}
		a.logger.Debug().Bool("signed_in", a.api.Token() != "").Msg("session token updated")
	}

	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func (a *App) usage() string {
	return strings.Join(commandNames, ", ")
}

func (a *App) signUp(ctx context.Context, args []string) (any, error) {
	return a.api.SignUp(ctx, models.SignUpRequest{Email: args[0], Name: args[1], Password: args[2]})
}

func (a *App) signIn(ctx context.Context, args []string) (any, error) {
	return a.api.SignIn(ctx, models.SignInRequest{Email: args[0], Password: args[1]})
}

func (a *App) signOut(ctx context.Context, _ []string) (any, error) {
	return a.api.SignOut(ctx)
}

func (a *App) me(ctx context.Context, _ []string) (any, error) {
	return a.api.Me(ctx)
}

func (a *App) requestReset(ctx context.Context, args []string) (any, error) {
	return a.api.RequestReset(ctx, args[0])
}

func (a *App) reset(ctx context.Context, args []string) (any, error) {
	return a.api.ResetPassword(ctx, models.ResetPasswordRequest{
		ResetToken:      args[0],
		Password:        args[1],
		ConfirmPassword: args[2],
	})
}

func (a *App) users(ctx context.Context, _ []string) (any, error) {
	return a.api.ListUsers(ctx)
}

func (a *App) grant(ctx context.Context, args []string) (any, error) {
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || userID <= 0 {
		return nil, fmt.Errorf("invalid user id %q", args[0])
	}

	permissions, err := models.ParsePermissionSet(args[1:]...)
	if err != nil {
		return nil, err
	}

	return a.api.UpdatePermissions(ctx, userID, permissions)
}
