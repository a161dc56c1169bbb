// uriinspect validates URIs and prints their components.
//
// Usage:
//
//	uriinspect [flags] URI...
//
// Every argument is reported as a YAML document (or a JSON object with --format json)
// holding either the URI components or the validation error.
// With --exists the URI is probed with a HEAD request, with --resolve its host is resolved.
// The exit code is 1 when any argument is invalid.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/ghettovoice/gouri/dns"
	"github.com/ghettovoice/gouri/internal/errorutil"
	"github.com/ghettovoice/gouri/internal/log"
	"github.com/ghettovoice/gouri/probe"
	"github.com/ghettovoice/gouri/uri"
)

const (
	errInvalidArgs exitError = 1

	errNoURI errorutil.Error = "no URI given"
)

type exitError int

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

func (e exitError) ExitCode() int { return int(e) }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		var ee exitError
		if errors.As(err, &ee) {
			stop()
			os.Exit(ee.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(2)
	}
}

type config struct {
	format     string
	exists     bool
	resolve    bool
	nameServer string
	timeout    time.Duration
	retries    int
	verbose    bool
	dev        bool
}

func (c *config) addFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.format, "format", "f", "yaml", "output format: yaml or json")
	fs.BoolVar(&c.exists, "exists", false, "probe the URI with a HEAD request")
	fs.BoolVar(&c.resolve, "resolve", false, "resolve the URI host")
	fs.StringVar(&c.nameServer, "nameserver", "", "DNS server address used with --resolve (default: system resolver)")
	fs.DurationVar(&c.timeout, "timeout", 10*time.Second, "timeout of a single network check")
	fs.IntVar(&c.retries, "retries", 0, "number of probe retries")
	fs.BoolVarP(&c.verbose, "verbose", "v", false, "log network checks")
	fs.BoolVar(&c.dev, "dev", false, "use the developer log format")
}

func (c *config) logger(w io.Writer) *slog.Logger {
	switch {
	case !c.verbose:
		return log.Noop
	case c.dev:
		return log.NewDev(w, slog.LevelDebug)
	default:
		return log.New(w, slog.LevelDebug)
	}
}

type report struct {
	Input        string            `json:"input" yaml:"input"`
	Valid        bool              `json:"valid" yaml:"valid"`
	Error        string            `json:"error,omitempty" yaml:"error,omitempty"`
	Scheme       string            `json:"scheme,omitempty" yaml:"scheme,omitempty"`
	User         string            `json:"user,omitempty" yaml:"user,omitempty"`
	Password     string            `json:"password,omitempty" yaml:"password,omitempty"`
	Host         string            `json:"host,omitempty" yaml:"host,omitempty"`
	Port         *int              `json:"port,omitempty" yaml:"port,omitempty"`
	Path         string            `json:"path,omitempty" yaml:"path,omitempty"`
	Query        string            `json:"query,omitempty" yaml:"query,omitempty"`
	QueryParams  map[string]string `json:"query_params,omitempty" yaml:"query_params,omitempty"`
	Fragment     string            `json:"fragment,omitempty" yaml:"fragment,omitempty"`
	DomainSuffix string            `json:"domain_suffix,omitempty" yaml:"domain_suffix,omitempty"`
	FileName     string            `json:"file_name,omitempty" yaml:"file_name,omitempty"`
	HTTPS        bool              `json:"https" yaml:"https"`
	Exists       *bool             `json:"exists,omitempty" yaml:"exists,omitempty"`
	Resolves     *bool             `json:"resolves,omitempty" yaml:"resolves,omitempty"`
}

func newReport(input string) (*report, uri.URI, error) {
	rep := &report{Input: input}
	u, err := uri.Parse(input)
	if err != nil {
		var ierr *uri.InvalidURIError
		if errors.As(err, &ierr) {
			rep.Error = ierr.Reason
		} else {
			rep.Error = err.Error()
		}
		return rep, u, err
	}

	rep.Valid = true
	rep.Scheme = u.Scheme()
	rep.User, _ = u.User()
	rep.Password, _ = u.Password()
	rep.Host = u.Host()
	if port, ok := u.Port(); ok {
		rep.Port = &port
	}
	rep.Path = u.Path()
	rep.Query = u.Query()
	if u.HasQuery() {
		rep.QueryParams = u.QueryMap()
	}
	rep.Fragment = u.Fragment()
	rep.DomainSuffix, _ = u.DomainSuffix()
	rep.FileName, _ = u.FileName()
	rep.HTTPS = u.IsHTTPS()
	return rep, u, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var cfg config
	fs := pflag.NewFlagSet("uriinspect", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: uriinspect [flags] URI...\n\nFlags:\n")
		fs.PrintDefaults()
	}
	cfg.addFlags(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errNoURI
	}

	var encode func(*report) error
	switch cfg.format {
	case "yaml":
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		defer enc.Close()
		encode = func(r *report) error { return enc.Encode(r) }
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		encode = func(r *report) error { return enc.Encode(r) }
	default:
		return errorutil.Errorf("unsupported format %q", cfg.format)
	}

	logger := cfg.logger(stderr)
	logger.LogAttrs(ctx, slog.LevelDebug, "inspecting URIs",
		slog.Any("config", log.FmtValue(cfg, false)),
		slog.Int("count", fs.NArg()),
	)
	var prober uri.Prober
	if cfg.exists {
		prober = probe.NewHTTPProber(&probe.HTTPProberOptions{
			Timeout:  cfg.timeout,
			RetryMax: cfg.retries,
			Log:      logger,
		})
	}
	var resolver *dns.Resolver
	if cfg.resolve {
		resolver = &dns.Resolver{NameServer: cfg.nameServer, Timeout: cfg.timeout}
	}

	var invalid bool
	for _, arg := range fs.Args() {
		rep, u, err := newReport(arg)
		if err != nil {
			invalid = true
			logger.LogAttrs(ctx, slog.LevelDebug, "invalid URI",
				slog.String("input", arg),
				slog.Bool("grammar", errorutil.IsGrammarErr(err)),
				slog.Any("error", err),
			)
		} else {
			if prober != nil {
				ok := u.Exists(ctx, prober)
				rep.Exists = &ok
			}
			if resolver != nil {
				ok := uri.IsValid(u, dns.HostResolves(ctx, resolver))
				rep.Resolves = &ok
			}
		}
		if err := encode(rep); err != nil {
			return err
		}
	}

	if invalid {
		return errInvalidArgs
	}
	return nil
}
