package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pltanton/ssrf-lab/internal/config"
	"github.com/pltanton/ssrf-lab/internal/fetcher"
	"github.com/pltanton/ssrf-lab/internal/gateway"
	"github.com/pltanton/ssrf-lab/internal/intranet"
)

var (
	logLevel   string
	publicPort int

	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ssrf-lab",
	Short: "Deliberately vulnerable fetch proxy for SSRF demos",
	Long: `ssrf-lab runs two listeners:

  public   0.0.0.0:<port>    /api/fetch proxies arbitrary URLs server-side
  internal 127.0.0.1:8000    /internal/flag holds the secret to exfiltrate

The public fetch endpoint applies a naive substring blacklist. Bypassing it
to read the internal flag is the exercise.`,
	RunE: runServe,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := zerolog.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", logLevel, err)
		}
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			Level(level).
			With().Timestamp().Logger()
		return nil
	},
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info",
		"Log level: trace, debug, info, warn, error")
	rootCmd.Flags().IntVar(&publicPort, "port", 0,
		"Public listen port (overrides PORT env and config file)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if publicPort > 0 {
		cfg.PublicPort = publicPort
	}

	internal := intranet.New(cfg.Flag, intranet.Port)
	internalLn, err := internal.ListenLoopback()
	if err != nil {
		return err
	}
	internalSrv := &http.Server{
		Handler:           internal.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", internalLn.Addr().String()).Msg("internal service listening (loopback only)")
		if err := internalSrv.Serve(internalLn); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("internal server error")
		}
	}()

	gw := gateway.NewServer(fetcher.New(fetcher.DefaultTimeout, fetcher.DefaultMaxChars), log)
	publicSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.PublicPort),
		Handler:           gw.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", publicSrv.Addr).Msg("public gateway listening")
		if err := publicSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("public server error")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = publicSrv.Shutdown(ctx)
	_ = internalSrv.Shutdown(ctx)
	return nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
