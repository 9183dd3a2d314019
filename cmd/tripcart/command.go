package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/pflag"
)

// errUsage marks an error that has already been explained to the user.
var errUsage = errors.New("usage error")

// Command is one shell command.
type Command struct {
	Name        string
	Description string
	Usage       string
	Examples    []string
	// Auth commands refuse to run without an authenticated session.
	Auth bool
	Run  func(ctx context.Context, args []string) error
}

// NewFlagSet returns a flag set that reports errors instead of exiting.
func (c *Command) NewFlagSet(out io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet(c.Name, pflag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() { c.PrintUsage(out) }
	return fs
}

// PrintUsage prints the command's usage and examples.
func (c *Command) PrintUsage(w io.Writer) {
	fmt.Fprintf(w, "%s\n\nUSAGE:\n    %s\n", c.Description, c.Usage)
	if len(c.Examples) > 0 {
		fmt.Fprintln(w, "\nEXAMPLES:")
		for _, ex := range c.Examples {
			fmt.Fprintf(w, "    %s\n", ex)
		}
	}
}

// CommandRegistry dispatches a command line to its Command.
type CommandRegistry struct {
	commands map[string]*Command
	order    []string
	out      io.Writer
	// unknown is called with the name of a command that does not exist.
	unknown func(ctx context.Context, name string)
	// authed reports whether the session is authenticated.
	authed func() bool
}

func NewCommandRegistry(out io.Writer) *CommandRegistry {
	return &CommandRegistry{commands: make(map[string]*Command), out: out}
}

// Register adds cmd. Help lists commands in registration order.
func (r *CommandRegistry) Register(cmd *Command) {
	if _, exists := r.commands[cmd.Name]; !exists {
		r.order = append(r.order, cmd.Name)
	}
	r.commands[cmd.Name] = cmd
}

// Lookup returns the command called name.
func (r *CommandRegistry) Lookup(name string) (*Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Execute runs the command named by args[0].
func (r *CommandRegistry) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return nil
	}
	name := args[0]
	switch name {
	case "help", "-h", "--help":
		if len(args) > 1 {
			if cmd, ok := r.commands[args[1]]; ok {
				cmd.PrintUsage(r.out)
				return nil
			}
		}
		r.PrintHelp(r.out)
		return nil
	}

	cmd, ok := r.commands[name]
	if !ok {
		if r.unknown != nil {
			r.unknown(ctx, name)
		}
		fmt.Fprintf(r.out, "Unknown command %q. Type 'help' for a list of commands.\n", name)
		return fmt.Errorf("unknown command: %s", name)
	}
	if cmd.Auth && r.authed != nil && !r.authed() {
		fmt.Fprintln(r.out, "Please log in first.")
		return errUsage
	}
	err := cmd.Run(ctx, args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	return err
}

// PrintHelp lists every command.
func (r *CommandRegistry) PrintHelp(w io.Writer) {
	fmt.Fprintln(w, "tripcart - shop abroad through travelers")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "COMMANDS:")
	width := 0
	for _, name := range r.order {
		width = max(width, len(name))
	}
	for _, name := range r.order {
		fmt.Fprintf(w, "    %-*s  %s\n", width, name, r.commands[name].Description)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'help <command>' for more information on a command.")
}

// Names returns the registered command names, sorted.
func (r *CommandRegistry) Names() []string {
	names := slices.Clone(r.order)
	slices.Sort(names)
	return names
}

// splitArgs splits a shell line into arguments. Single and double quotes
// group words and a backslash escapes the next character.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		quote   rune
		escaped bool
		inArg   bool
	)
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inArg = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inArg = true
		case r == ' ' || r == '\t':
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(r)
			inArg = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if escaped {
		return nil, errors.New("trailing backslash")
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}
