// Command fakebackend serves the in-memory marketplace backend used by the
// tests, for running the tripcart shell locally without the real service.
//
//	fakebackend --addr :8080 --seed
//	tripcart --base-url http://localhost:8080 --identity memory
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/kbukum/tripcart/logger"
	"github.com/kbukum/tripcart/testutil/fakebackend"
)

const demoPassword = "tripcart-demo"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("fakebackend", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	addr := fs.String("addr", "127.0.0.1:8080", "listen address")
	secret := fs.String("secret", "", "session signing secret (random when empty)")
	seed := fs.Bool("seed", false, "create demo users")
	level := fs.String("log-level", "info", "log level")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	log := logger.NewWithWriter(&logger.Config{Level: *level, Format: logger.FormatConsole, Timestamp: true}, "fakebackend", stderr)

	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", *addr, err)
	}
	baseURL := "http://" + ln.Addr().String()

	opts := []fakebackend.Option{fakebackend.WithLogger(log), fakebackend.WithBaseURL(baseURL)}
	if *secret != "" {
		opts = append(opts, fakebackend.WithSecret(*secret))
	}
	b := fakebackend.New(opts...)
	if *seed {
		if err := seedUsers(b, stdout); err != nil {
			_ = ln.Close()
			return err
		}
	}

	srv := &http.Server{
		Handler:           h2c.NewHandler(b.Handler(), &http2.Server{IdleTimeout: 120 * time.Second}),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	log.Info("fake backend listening", logger.Fields("addr", baseURL))

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// seedUsers creates a shopper, a KYC-verified traveler and an admin.
func seedUsers(b *fakebackend.Backend, out io.Writer) error {
	users := []struct {
		name, email string
		admin, kyc  bool
	}{
		{"Sam Shopper", "shopper@tripcart.test", false, false},
		{"Tara Traveler", "traveler@tripcart.test", false, true},
		{"Ada Admin", "admin@tripcart.test", true, false},
	}
	for _, u := range users {
		id, err := b.CreateUser(u.name, u.email, demoPassword, u.admin)
		if err != nil {
			return fmt.Errorf("seed %s: %w", u.email, err)
		}
		if u.kyc {
			b.SetKYC(id, "/files/kyc/"+id+"/passport.pdf")
		}
		fmt.Fprintf(out, "seeded %-24s password %s\n", u.email, demoPassword)
	}
	return nil
}
