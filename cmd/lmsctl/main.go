package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/infiotinc/lmsgql/client"
	"github.com/infiotinc/lmsgql/config"
	"github.com/infiotinc/lmsgql/instrument"
	"github.com/infiotinc/lmsgql/internal/logger"
	"github.com/infiotinc/lmsgql/lms"
)

var (
	cfgPath    string
	endpoint   string
	wsEndpoint string
	token      string
	output     string
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lmsctl",
		Short:         "lmsctl - LMS GraphQL API client",
		Long:          "Runs LMS GraphQL operations against a server, or serves a mock of the API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file (default: closest .lmsgql.yml)")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "GraphQL HTTP endpoint, overrides the config")
	rootCmd.PersistentFlags().StringVar(&wsEndpoint, "websocket", "", "GraphQL websocket endpoint, overrides the config")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("LMS_TOKEN"), "Bearer token")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "Output format: table, json")

	rootCmd.AddCommand(
		categoriesCmd(),
		coursesCmd(),
		usersCmd(),
		profileCmd(),
		mockCmd(),
		loadCmd(),
	)

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)

	switch {
	case cfgPath != "":
		cfg, err = config.LoadConfig(cfgPath)
	case endpoint != "":
		cfg = config.DefaultConfig()
	default:
		cfg, err = config.LoadConfigFromDefaultLocations()
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no .lmsgql.yml found, use --config or --endpoint")
		}
	}
	if err != nil {
		return nil, err
	}

	if endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if wsEndpoint != "" {
		cfg.Websocket = wsEndpoint
	}

	if err := cfg.Check(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// session holds a connected LMS client and what must be released with it
type session struct {
	*lms.Client
	cfg    *config.Config
	logger *zap.Logger
	close  []func()
}

func (s *session) Close() {
	for i := len(s.close) - 1; i >= 0; i-- {
		s.close[i]()
	}
}

// connect builds an LMS client from the config, extra wrappers run innermost
func connect(ctx context.Context, extra ...client.Wrapper) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, logger: log}
	s.close = append(s.close, func() { _ = log.Sync() })

	tr, ws := cfg.Transport()
	if ws != nil {
		ws.Logger = log.Named("ws")
		ws.Start(ctx)
		s.close = append(s.close, func() { _ = ws.Close() })
	}

	wrappers := []client.Wrapper{instrument.Logging(log)}

	if cfg.Tracing.Enabled {
		tp := sdktrace.NewTracerProvider()
		s.close = append(s.close, func() { _ = tp.Shutdown(context.Background()) })

		wrappers = append(wrappers, instrument.Tracing(tp, propagation.TraceContext{}))
	}

	wrappers = append(wrappers, instrument.RequestID(""))

	if token != "" {
		wrappers = append(wrappers, instrument.BearerToken(instrument.StaticToken(token)))
	}

	wrappers = append(wrappers, extra...)

	s.Client = lms.NewClient(&client.Client{
		Transport: tr,
		Wrapper:   client.ChainWrappers(wrappers...),
		Header:    cfg.Header(),
	})

	return s, nil
}
