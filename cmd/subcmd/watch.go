package subcmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/scitags/rtnl-go/capture"
	"github.com/scitags/rtnl-go/rtnl"
)

func init() {
	Watch.Flags().StringVar(&pipePath, "pipe", "", "path of the named pipe; overrides the configuration")
	Watch.Flags().BoolVar(&noMetrics, "no-metrics", false, "don't serve the Prometheus endpoint")
	Watch.Flags().StringVarP(&outputFlag, "output", "o", "", "json or yaml; overrides the configuration")
}

var (
	pipePath string

	Watch = &cobra.Command{
		Use:   "watch",
		Short: "Decode the hex lines written to a named pipe as they arrive.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf := settings.Capture
			if pipePath != "" {
				conf.PipePath = pipePath
			}

			src := capture.New(&conf)
			if err := src.Init(); err != nil {
				return fmt.Errorf("error setting up the named pipe: %w", err)
			}
			defer func() {
				if err := src.Cleanup(); err != nil {
					slog.Error("error cleaning up the named pipe", "err", err)
				}
			}()

			observe, cleanup, err := startMetrics()
			if err != nil {
				return err
			}
			defer cleanup()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			results := make(chan rtnl.Result)
			doneChan := make(chan struct{})
			go src.Run(doneChan, results)

			slog.Info("watching the named pipe", "path", conf.PipePath)

			w := newWriter(cmd.OutOrStdout())
			for {
				select {
				case r, ok := <-results:
					if !ok {
						slog.Warn("the named pipe source stopped")
						return nil
					}
					observe(r)
					if err := w.Write(r); err != nil {
						close(doneChan)
						return err
					}
				case <-sigChan:
					close(doneChan)
					return nil
				}
			}
		},
	}
)
