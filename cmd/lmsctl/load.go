package main

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/infiotinc/lmsgql/instrument"
	"github.com/infiotinc/lmsgql/lms"
)

// round runs the calls of one simulated page load
func round(ctx context.Context, cli *lms.Client) error {
	if _, err := cli.GetCategories(ctx); err != nil {
		return err
	}

	if _, err := cli.Me(ctx); err != nil {
		return err
	}

	limit := 5
	_, err := cli.SearchUsers(ctx, lms.SearchUsersVariables{Filter: lms.UserFilter{Limit: &limit}})

	return err
}

// outcomes sums the operations counter of reg by outcome
func outcomes(reg prometheus.Gatherer) (map[string]float64, error) {
	families, err := reg.Gather()
	if err != nil {
		return nil, err
	}

	res := map[string]float64{}
	for _, f := range families {
		if f.GetName() != "lmsctl_load_operations_total" {
			continue
		}

		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "outcome" {
					res[l.GetValue()] += m.GetCounter().GetValue()
				}
			}
		}
	}

	return res, nil
}

func loadCmd() *cobra.Command {
	var (
		rounds      int
		concurrency int
		failFast    bool
	)

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Run concurrent rounds of queries and report outcomes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rounds < 0 {
				return fmt.Errorf("rounds must not be negative")
			}
			if concurrency < 1 {
				return fmt.Errorf("concurrency must be at least 1")
			}

			reg := prometheus.NewRegistry()

			metrics, err := instrument.NewMetrics("lmsctl_load", reg)
			if err != nil {
				return err
			}

			s, err := connect(cmd.Context(), metrics.Wrapper())
			if err != nil {
				return err
			}
			defer s.Close()

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(concurrency)

			start := time.Now()

			var done, failed int64
			for i := 0; i < rounds; i++ {
				g.Go(func() error {
					err := round(ctx, s.Client)

					n := atomic.AddInt64(&done, 1)
					if n%1000 == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), n)
					}

					if err != nil {
						atomic.AddInt64(&failed, 1)
						if failFast {
							return err
						}
					}

					return nil
				})
			}

			if err := g.Wait(); err != nil {
				return err
			}

			elapsed := time.Since(start)

			res, err := outcomes(reg)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d rounds in %s (%d failed)\n", done, elapsed.Round(time.Millisecond), failed)
			for _, o := range []instrument.Outcome{
				instrument.OutcomeOK,
				instrument.OutcomeGraphQLError,
				instrument.OutcomeTransportError,
				instrument.OutcomeCanceled,
			} {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-16s %.0f\n", o, res[string(o)])
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&rounds, "rounds", "n", 1000, "Number of rounds")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 5, "Rounds running at once")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop at the first failed round")

	return cmd
}
