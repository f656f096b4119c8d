package subcmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/scitags/rtnl-go/metrics"
	"github.com/scitags/rtnl-go/netlink"
	"github.com/scitags/rtnl-go/rtnl"
)

func init() {
	Monitor.Flags().StringSliceVarP(&groupsFlag, "groups", "g", nil, "multicast groups to join; overrides the configuration")
	Monitor.Flags().BoolVar(&noMetrics, "no-metrics", false, "don't serve the Prometheus endpoint")
	Monitor.Flags().StringVarP(&outputFlag, "output", "o", "", "json or yaml; overrides the configuration")
}

var (
	groupsFlag []string
	noMetrics  bool

	Monitor = &cobra.Command{
		Use:   "monitor",
		Short: "Print the notifications the kernel multicasts.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := settings.Netlink
			if len(groupsFlag) > 0 {
				conf.Groups = groupsFlag
			}

			c, err := netlink.Dial(&conf)
			if err != nil {
				return fmt.Errorf("couldn't get a netlink client: %w", err)
			}
			defer c.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			observe, cleanup, err := startMetrics()
			if err != nil {
				return err
			}
			defer cleanup()

			results := make(chan rtnl.Result)
			errChan := make(chan error, 1)
			go func() {
				errChan <- c.Monitor(ctx, results)
				close(results)
			}()

			w := newWriter(cmd.OutOrStdout())
			for r := range results {
				observe(r)
				if r.Err != nil {
					slog.Warn("couldn't decode a notification", "type", r.Message.Type, "err", r.Err)
				}
				if err := w.Write(r); err != nil {
					return err
				}
			}

			return <-errChan
		},
	}
)

// startMetrics serves the Prometheus endpoint unless --no-metrics was
// given. The returned function accounts for a result.
func startMetrics() (func(rtnl.Result), func(), error) {
	if noMetrics {
		return func(rtnl.Result) {}, func() {}, nil
	}

	rec, err := metrics.NewRecorder()
	if err != nil {
		return nil, nil, err
	}

	s := metrics.NewServer(&settings.Metrics, rec)
	s.Start()
	slog.Info("serving metrics", "address", s.Address())

	cleanup := func() {
		if err := s.Shutdown(); err != nil {
			slog.Error("error stopping the metrics server", "err", err)
		}
	}

	return rec.Observe, cleanup, nil
}
