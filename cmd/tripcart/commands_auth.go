package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"

	"github.com/kbukum/tripcart/marketplace"
	"github.com/kbukum/tripcart/session"
	"github.com/kbukum/tripcart/util"
)

func (a *app) registerAuthCommands() {
	a.registry.Register(&Command{
		Name:        "signup",
		Description: "Create an account and log in",
		Usage:       "signup --name <full name> --email <email> --password <password>",
		Examples:    []string{`signup --name "Ada Lovelace" --email ada@example.com --password "correct horse"`},
		Run:         a.signup,
	})
	a.registry.Register(&Command{
		Name:        "login",
		Description: "Log in with email and password",
		Usage:       "login --email <email> --password <password>",
		Run:         a.login,
	})
	a.registry.Register(&Command{
		Name:        "oauth",
		Description: "Log in with Google or Facebook",
		Usage:       "oauth url <google|facebook> | oauth complete <return url>",
		Examples:    []string{"oauth url google", `oauth complete "tripcart://oauth?auth=success&user_id=..."`},
		Run:         a.oauth,
	})
	a.registry.Register(&Command{
		Name:        "logout",
		Description: "Log out and forget the stored identity",
		Usage:       "logout",
		Run: func(ctx context.Context, _ []string) error {
			return a.sess.Logout(ctx)
		},
	})
	a.registry.Register(&Command{
		Name:        "whoami",
		Description: "Show the logged in user",
		Usage:       "whoami",
		Run:         a.whoami,
	})
	a.registry.Register(&Command{
		Name:        "profile",
		Description: "Show or update a profile",
		Usage:       "profile [show [user id]] | profile update [--name ..] [--phone ..] [--location ..] [--bio ..] [--available true|false] | profile avatar <file>",
		Auth:        true,
		Run:         a.profile,
	})
}

func (a *app) signup(ctx context.Context, args []string) error {
	cmd, _ := a.registry.Lookup("signup")
	var f signupForm
	fs := cmd.NewFlagSet(a.out)
	fs.StringVar(&f.FullName, "name", "", "full name")
	fs.StringVar(&f.Email, "email", "", "email address")
	fs.StringVar(&f.Password, "password", "", "password (8 to 128 characters)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := f.validate(); err != nil {
		return a.invalid(ctx, err)
	}
	m, err := a.sess.Signup(ctx, f.input())
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s.\n", m.FullName)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	cmd, _ := a.registry.Lookup("login")
	var f loginForm
	fs := cmd.NewFlagSet(a.out)
	fs.StringVar(&f.Email, "email", "", "email address")
	fs.StringVar(&f.Password, "password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := f.validate(); err != nil {
		return a.invalid(ctx, err)
	}
	m, err := a.sess.Login(ctx, f.Email, f.Password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome back, %s.\n", m.FullName)
	return nil
}

func (a *app) oauth(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return a.usage("oauth")
	}
	switch args[0] {
	case "url":
		p := marketplace.OAuthProvider(args[1])
		if p != marketplace.ProviderGoogle && p != marketplace.ProviderFacebook {
			return a.usage("oauth")
		}
		u, err := a.sess.OAuthURL(ctx, p)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Open this URL to continue:\n%s\n", u)
		return nil
	case "complete":
		st, err := a.sess.CompleteOAuth(ctx, args[1])
		if err != nil {
			return err
		}
		if st != session.StateAuthenticated {
			fmt.Fprintln(a.out, "Login was not completed.")
			return nil
		}
		fmt.Fprintf(a.out, "Welcome, %s.\n", a.sess.Identity().FullName)
		return nil
	default:
		return a.usage("oauth")
	}
}

func (a *app) whoami(_ context.Context, _ []string) error {
	m := a.sess.Identity()
	if m == nil {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	a.printProfile(&m.Profile)
	fmt.Fprintf(a.out, "Confirmed: %s\n", m.ConfirmedAt.Local().Format("2006-01-02 15:04"))
	return nil
}

func (a *app) printProfile(p *marketplace.Profile) {
	t := NewTableWriter("Field", "Value")
	t.AddRow("Name", p.FullName)
	if p.Email != "" {
		t.AddRow("Email", p.Email)
	}
	for _, row := range [][2]string{
		{"Phone", p.PhoneNumber},
		{"Location", p.Location},
		{"Bio", util.Truncate(p.Bio, 60)},
		{"KYC", p.KYCStatus},
	} {
		if row[1] != "" {
			t.AddRow(row[0], row[1])
		}
	}
	t.AddRow("Available", strconv.FormatBool(p.Available))
	t.Print(a.out)
}

func (a *app) profile(ctx context.Context, args []string) error {
	sub := "show"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}
	switch sub {
	case "show":
		if len(args) == 0 {
			m, err := a.sess.RefreshProfile(ctx)
			if err != nil {
				return err
			}
			a.printProfile(&m.Profile)
			return nil
		}
		p, err := a.api.Auth.GetProfile(ctx, args[0])
		if err != nil {
			return err
		}
		a.printProfile(p)
		return nil
	case "update":
		return a.updateProfile(ctx, args)
	case "avatar":
		if len(args) != 1 {
			return a.usage("profile")
		}
		up, closeFn, err := openUpload(args[0])
		if err != nil {
			fmt.Fprintln(a.out, err)
			return errUsage
		}
		defer closeFn()
		res, err := a.api.Auth.UploadAvatar(ctx, a.sess.UserID(), up)
		if err != nil {
			return err
		}
		a.api.Executor().ClearCache()
		if _, err := a.sess.RefreshProfile(ctx); err != nil {
			return err
		}
		a.success(ctx, "Avatar Updated", "Your profile picture has been updated.")
		fmt.Fprintln(a.out, res.URL)
		return nil
	default:
		return a.usage("profile")
	}
}

func (a *app) updateProfile(ctx context.Context, args []string) error {
	cmd, _ := a.registry.Lookup("profile")
	fs := cmd.NewFlagSet(a.out)
	name := fs.String("name", "", "full name")
	phone := fs.String("phone", "", "phone number")
	location := fs.String("location", "", "location")
	bio := fs.String("bio", "", "short bio")
	available := fs.Bool("available", false, "available to deliver")
	if err := fs.Parse(args); err != nil {
		return err
	}
	in := marketplace.ProfileUpdate{
		FullName:    util.NonEmpty(util.StripMarkup(*name)),
		PhoneNumber: util.NonEmpty(util.SanitizeString(*phone)),
		Location:    util.NonEmpty(util.StripMarkup(*location)),
		Bio:         util.NonEmpty(util.StripMarkup(*bio)),
	}
	if fs.Changed("available") {
		in.Available = available
	}
	if in == (marketplace.ProfileUpdate{}) {
		fmt.Fprintln(a.out, "Nothing to update.")
		return errUsage
	}
	m, err := a.sess.UpdateProfile(ctx, in)
	if err != nil {
		return err
	}
	a.api.Executor().ClearCache()
	a.printProfile(&m.Profile)
	return nil
}

// openUpload opens path for a multipart upload. The content type is taken
// from the file extension.
func openUpload(path string) (marketplace.Upload, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return marketplace.Upload{}, nil, fmt.Errorf("open %s: %w", path, err)
	}
	return marketplace.Upload{
		FileName:    filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Content:     f,
	}, func() { _ = f.Close() }, nil
}
