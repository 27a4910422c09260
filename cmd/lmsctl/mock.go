package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/infiotinc/lmsgql/config"
	"github.com/infiotinc/lmsgql/internal/logger"
	"github.com/infiotinc/lmsgql/lms"
	"github.com/infiotinc/lmsgql/lms/lmsmock"
)

func mockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Serve a mock of the LMS API",
	}

	cmd.AddCommand(mockServeCmd())

	return cmd
}

func newMockMux(srv *lmsmock.Server, reg *prometheus.Registry) http.Handler {
	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.DefaultMetricsNamespace,
			Subsystem: "mock",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests served by the mock",
		},
		[]string{"code", "method"},
	)
	reg.MustRegister(requests)

	mux := http.NewServeMux()
	mux.Handle("/graphql", promhttp.InstrumentHandlerCounter(requests, srv))
	mux.Handle("/playground", playground.Handler("LMS", "/graphql"))
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return mux
}

func mockServeCmd() *cobra.Command {
	var (
		addr     string
		empty    bool
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the mock on /graphql, with /playground and /metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger.New(config.LogConfig{Level: logLevel, Development: true})
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			fixtures := lmsmock.SeedFixtures()
			if empty {
				fixtures = lmsmock.NewFixtures()
			}

			srv := lmsmock.NewServer(fixtures.Handlers()...)
			srv.Logger = log.Named("mock")
			if err := srv.Validate(lms.Operations); err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			httpSrv := &http.Server{
				Addr:              addr,
				Handler:           newMockMux(srv, reg),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errc := make(chan error, 1)
			go func() {
				log.Info("mock LMS listening", zap.String("addr", addr))
				errc <- httpSrv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-cmd.Context().Done():
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Shutting down")

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			return httpSrv.Shutdown(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().BoolVar(&empty, "empty", false, "Start without demo data")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level")

	return cmd
}
