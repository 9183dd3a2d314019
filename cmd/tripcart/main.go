// Command tripcart is an interactive shell for the tripcart marketplace:
// shoppers post requests for items sold abroad and travelers offer to
// bring them.
//
//	tripcart                         # interactive shell
//	tripcart requests list           # run one command and exit
//	tripcart --base-url http://localhost:8080 --identity memory
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/kbukum/tripcart/apiclient"
	"github.com/kbukum/tripcart/config"
	"github.com/kbukum/tripcart/httpclient"
	"github.com/kbukum/tripcart/logger"
	"github.com/kbukum/tripcart/marketplace"
	"github.com/kbukum/tripcart/notify"
	"github.com/kbukum/tripcart/observability"
	"github.com/kbukum/tripcart/session"
	"github.com/kbukum/tripcart/util"
	"github.com/kbukum/tripcart/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type flags struct {
	configFile  string
	envFile     string
	baseURL     string
	identity    string
	logLevel    string
	showVersion bool
	showConfig  bool
}

func parseFlags(args []string, stderr io.Writer) (*flags, []string, error) {
	var f flags
	fs := pflag.NewFlagSet("tripcart", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SetInterspersed(false)
	fs.StringVar(&f.configFile, "config", "", "config file (default: ./config.yml or the user config dir)")
	fs.StringVar(&f.envFile, "env-file", "", ".env file to load")
	fs.StringVar(&f.baseURL, "base-url", "", "marketplace API base URL")
	fs.StringVar(&f.identity, "identity", "", "identity storage: memory, file or redis")
	fs.StringVar(&f.logLevel, "log-level", "", "log level")
	fs.BoolVar(&f.showVersion, "version", false, "print the version and exit")
	fs.BoolVar(&f.showConfig, "show-config", false, "print the effective configuration and exit")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: tripcart [flags] [command [args...]]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return &f, fs.Args(), nil
}

func loadConfig(f *flags) (*config.ClientConfig, error) {
	var opts []config.LoaderOption
	if f.configFile != "" {
		opts = append(opts, config.WithConfigFile(f.configFile))
	}
	if f.envFile != "" {
		opts = append(opts, config.WithEnvFile(f.envFile))
	}
	cfg, err := config.LoadClientConfig(opts...)
	if err != nil {
		return nil, err
	}
	if f.baseURL != "" {
		cfg.API.BaseURL = f.baseURL
	}
	if f.identity != "" {
		cfg.Identity.Backend = f.identity
	}
	if f.logLevel != "" {
		cfg.Logging.Level = f.logLevel
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Version == "" {
		cfg.Version = version.Get().Short()
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	f, rest, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if f.showVersion {
		fmt.Fprintln(stdout, version.Get())
		return 0
	}

	cfg, err := loadConfig(f)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	if f.showConfig {
		printConfig(stdout, cfg)
		return 0
	}

	log := logger.NewWithWriter(&cfg.Logging, cfg.Name, stderr)
	logger.SetGlobalLogger(log)

	a, cleanup, err := build(ctx, cfg, log, stdout)
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	defer cleanup()

	if _, err := a.sess.Start(ctx); err != nil {
		log.Debug("stored identity not confirmed", logger.ErrorFields("start", err))
	}

	if len(rest) > 0 {
		if err := a.registry.Execute(ctx, rest); err != nil {
			return 1
		}
		return 0
	}
	fmt.Fprintf(stdout, "%s. Type 'help' for commands, 'exit' to quit.\n", version.Get())
	if err := a.repl(ctx, stdin); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

// build wires the client stack for cfg.
func build(ctx context.Context, cfg *config.ClientConfig, log *logger.Logger, out io.Writer) (*app, func(), error) {
	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Warn("shutdown", logger.ErrorFields("cleanup", err))
			}
		}
	}

	metrics := observability.NopMetrics()
	if cfg.Observability.Enabled {
		shutdown, err := observability.Setup(ctx, observability.Config{
			ServiceName:    cfg.Name,
			ServiceVersion: cfg.Version,
			Environment:    cfg.Environment,
			Endpoint:       cfg.Observability.Endpoint,
			Insecure:       cfg.Observability.Insecure,
			SampleRate:     cfg.Observability.SampleRate,
		})
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() error {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return shutdown(sctx)
		})
		if m, err := observability.NewMetrics(observability.Meter("tripcart")); err == nil {
			metrics = m
		} else {
			log.Warn("metrics disabled", logger.ErrorFields("metrics", err))
		}
	}

	hc, err := httpclient.New(httpclient.Config{
		BaseURL:   cfg.API.BaseURL,
		UserAgent: "tripcart/" + cfg.Version,
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	notifier := notify.Multi{notify.NewWriter(out), notify.NewLog(log)}
	exec := apiclient.New(hc,
		apiclient.WithLogger(log),
		apiclient.WithNotifier(notifier),
		apiclient.WithMetrics(metrics),
		apiclient.WithDefaults(cfg.API.Retries, cfg.API.Timeout, cfg.API.CacheTTL),
	)
	api := marketplace.New(exec)

	st, closeStore, err := openIdentityStore(ctx, cfg.Identity, log)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("identity storage: %w", err)
	}
	closers = append(closers, closeStore)

	sess := session.New(api, session.NewIdentityStore(st, log.WithComponent("identity")),
		session.WithNotifier(notifier),
		session.WithLogger(log),
	)
	return newApp(api, sess, notifier, log, out), cleanup, nil
}

func printConfig(w io.Writer, cfg *config.ClientConfig) {
	t := NewTableWriter("Key", "Value")
	t.AddRow("environment", cfg.Environment)
	t.AddRow("api.base_url", cfg.API.BaseURL)
	t.AddRow("api.timeout", cfg.API.Timeout.String())
	t.AddRow("api.retries", fmt.Sprint(cfg.API.Retries))
	t.AddRow("api.cache_ttl", cfg.API.CacheTTL.String())
	t.AddRow("identity.backend", cfg.Identity.Backend)
	if cfg.Identity.Path != "" {
		t.AddRow("identity.path", cfg.Identity.Path)
	}
	if cfg.Identity.Backend == config.IdentityBackendRedis {
		t.AddRow("identity.redis.addr", cfg.Identity.Redis.Addr)
		t.AddRow("identity.redis.password", util.MaskSecret(cfg.Identity.Redis.Password, 2))
	}
	t.AddRow("logging.level", cfg.Logging.Level)
	t.AddRow("observability.enabled", fmt.Sprint(cfg.Observability.Enabled))
	t.Print(w)
	fmt.Fprintf(w, "Any key can be overridden from the environment, e.g. %s.\n", config.EnvKey("api.base_url"))
}
