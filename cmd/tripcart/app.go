package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	tcerrors "github.com/kbukum/tripcart/errors"
	"github.com/kbukum/tripcart/logger"
	"github.com/kbukum/tripcart/marketplace"
	"github.com/kbukum/tripcart/notify"
	"github.com/kbukum/tripcart/session"
	"github.com/kbukum/tripcart/validation"
)

// app is the interactive shell. Every command goes through the session
// and the marketplace client, so it never sees raw HTTP.
type app struct {
	api      *marketplace.Client
	sess     *session.Session
	notifier notify.Notifier
	log      *logger.Logger
	out      io.Writer
	now      func() time.Time
	registry *CommandRegistry

	// travelPage is the last page shown by "travel list" or "travel more".
	travelPage int
}

func newApp(api *marketplace.Client, sess *session.Session, notifier notify.Notifier, log *logger.Logger, out io.Writer) *app {
	a := &app{
		api:      api,
		sess:     sess,
		notifier: notifier,
		log:      log.WithComponent("shell"),
		out:      out,
		now:      time.Now,
	}
	a.registry = NewCommandRegistry(out)
	a.registry.authed = sess.IsAuthenticated
	a.registry.unknown = a.trackUnknown
	a.registerAuthCommands()
	a.registerMarketCommands()
	a.registerAdminCommands()
	return a
}

// runLine executes one shell line. Failures have already been reported
// to the user, so they are only logged here.
func (a *app) runLine(ctx context.Context, line string) error {
	args, err := splitArgs(strings.TrimSpace(line))
	if err != nil {
		fmt.Fprintf(a.out, "Could not parse command: %v\n", err)
		return err
	}
	err = a.registry.Execute(ctx, args)
	if err != nil && !errors.Is(err, errUsage) {
		a.log.Debug("command failed", logger.Fields(logger.FieldOperation, args[0], logger.FieldError, err.Error()))
	}
	return err
}

// repl reads commands from in until EOF, "exit" or ctx is done.
func (a *app) repl(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(a.out, a.prompt())
		if !sc.Scan() {
			fmt.Fprintln(a.out)
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		}
		_ = a.runLine(ctx, line)
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (a *app) prompt() string {
	if m := a.sess.Identity(); m != nil {
		return fmt.Sprintf("tripcart (%s)> ", m.FullName)
	}
	return "tripcart> "
}

// invalid reports a local validation failure the same way a backend
// rejection is reported.
func (a *app) invalid(ctx context.Context, err error) error {
	var ve *validation.Error
	if errors.As(err, &ve) {
		a.notifier.Notify(ctx, notify.FromError(ve.Normalized()))
		return errUsage
	}
	fmt.Fprintln(a.out, err)
	return errUsage
}

// usage prints cmd's usage for bad arguments.
func (a *app) usage(cmd string) error {
	if c, ok := a.registry.Lookup(cmd); ok {
		c.PrintUsage(a.out)
	}
	return errUsage
}

// trackUnknown records a visit to a command that does not exist. The
// event carries a null user id when nobody is logged in.
func (a *app) trackUnknown(ctx context.Context, name string) {
	ev := marketplace.Event{Type: "command_not_found", Details: map[string]any{"command": name}}
	if id := a.sess.UserID(); id != "" {
		ev.UserID = &id
	}
	if err := a.api.Analytics.Track(ctx, ev); err != nil && !tcerrors.IsKind(err, tcerrors.KindAborted) {
		a.log.Debug("analytics event dropped", logger.ErrorFields("track", err))
	}
}

func (a *app) success(ctx context.Context, title, msg string) {
	a.notifier.Notify(ctx, notify.Success(title, msg))
}
