package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/relaykit/relay/internal"
	"github.com/relaykit/relay/internal/config"
	"github.com/relaykit/relay/relay"
	"github.com/relaykit/relay/wire"
)

var rootCmd = &cobra.Command{
	Use:   "relay [flags] [request ...]",
	Short: "Route requests through a configured handler chain",
	Long: `relay routes request tags through an ordered chain of handlers defined in
a YAML config file. The first handler whose rule matches claims the request;
requests no handler claims are reported as unhandled.

Requests given as arguments are dispatched in order, one outcome line each.
With no arguments, relay reads requests from stdin until EOF: bare lines are
treated as tags and answered in text, lines starting with "{" are treated as
JSON envelopes and answered in JSON.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		if !verbose {
			logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		}

		cfg, err := config.LoadFile(configPath)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}

		retryClient := retryablehttp.NewClient()
		retryClient.RetryMax = retries
		retryClient.RetryWaitMin = 1 * time.Second
		retryClient.RetryWaitMax = 30 * time.Second
		retryClient.HTTPClient.Timeout = timeout
		retryClient.Logger = logger

		if rps > 0 {
			retryClient.Backoff = func(min, max time.Duration, attemptNum int, resp *http.Response) time.Duration {
				// Ensure we wait at least 1/rps between requests
				minWait := time.Second / time.Duration(rps)
				if min < minWait {
					min = minWait
				}
				return retryablehttp.DefaultBackoff(min, max, attemptNum, resp)
			}
		}

		opts := []relay.ServerOption{
			relay.WithLogger(logger),
			relay.WithClient(retryClient.StandardClient()),
			relay.WithConfig(cfg),
		}

		if auth != "" {
			resolved, _, err := internal.ResolveSecretReference(ctx, auth)
			if err != nil {
				return fmt.Errorf("error resolving auth value: %w", err)
			}
			opts = append(opts, relay.WithAuth(resolved))
		}

		server, err := relay.NewServer(opts...)
		if err != nil {
			return fmt.Errorf("error creating server: %w", err)
		}

		counter := &countingHandler{inner: server}

		var input io.Reader = os.Stdin
		if len(args) > 0 {
			input = strings.NewReader(strings.Join(args, "\n") + "\n")
		}

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			transport := relay.NewStdioTransport(counter, input, os.Stdout, os.Stderr)
			return transport.Run(ctx)
		})

		if err := g.Wait(); err != nil {
			return err
		}

		if strict && counter.unhandled > 0 {
			return fmt.Errorf("%d of %d requests unhandled", counter.unhandled, counter.total)
		}
		return nil
	},
}

// countingHandler tallies outcomes so --strict can fail the run afterwards.
type countingHandler struct {
	inner     relay.Handler
	total     int
	unhandled int
}

func (h *countingHandler) Handle(ctx context.Context, req wire.Request) wire.Response {
	response := h.inner.Handle(ctx, req)
	h.total++
	if response.Status == wire.StatusUnhandled {
		h.unhandled++
	}
	return response
}

var (
	configPath string
	auth       string
	verbose    bool
	strict     bool
	retries    int
	timeout    time.Duration
	rps        int

	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the chain config file (YAML)")
	rootCmd.Flags().StringVar(&auth, "auth", "", "Authorization header value for forwarded requests (supports op:// and env:// references)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging to stderr")
	rootCmd.Flags().BoolVar(&strict, "strict", false, "Exit nonzero if any request goes unhandled")
	rootCmd.Flags().IntVar(&retries, "retries", 3, "Maximum number of retries for forwarded requests")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "HTTP request timeout for forwarded requests")
	rootCmd.Flags().IntVarP(&rps, "rps", "r", 0, "Maximum forwarded requests per second (0 for no limit)")

	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built at: %s)", version, commit, date)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
