package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/scitags/rtnl-go/cmd/subcmd"
)

func init() {
	rootCmd.PersistentFlags().StringVar(&confPath, "conf", "", "path to the YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "info", "one of trace, debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&logTimeFlag, "log-time", false, "include timestamps in the log")
}

var (
	rootCmd = &cobra.Command{
		Use:   "rtnl",
		Short: "Decode and inspect rtnetlink traffic.",
		Long: "rtnl decodes NETLINK_ROUTE messages: captured as hex, dumped from the kernel or\n" +
			"received as multicast notifications.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, ok := logLevelMap[logLevelFlag]
			if !ok {
				return fmt.Errorf("unknown log level %q", logLevelFlag)
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				AddSource:   level <= slog.LevelDebug,
				Level:       level,
				ReplaceAttr: logReplacements,
			}))
			slog.SetDefault(logger)

			conf, err := loadConf(confPath)
			if err != nil {
				return err
			}
			slog.Debug("loaded the configuration", "path", confPath, "conf", conf)

			return subcmd.Configure(subcmd.Settings{
				Output:  conf.Output,
				Netlink: *conf.Netlink,
				Metrics: *conf.Metrics,
				Capture: *conf.Capture,
			})
		},
	}

	manCmd = &cobra.Command{
		Use:    "man <dir>",
		Short:  "Write the man pages into dir.",
		Hidden: true,
		Args:   cobra.ExactArgs(1),
		// No configuration or logging needed.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(args[0], 0755); err != nil {
				return fmt.Errorf("couldn't create %q: %w", args[0], err)
			}
			return doc.GenManTree(rootCmd, &doc.GenManHeader{
				Title:   "RTNL",
				Section: "1",
				Source:  "rtnl " + builtCommit,
			}, args[0])
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Get the built version.",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("built commit: %s\n", builtCommit)
		},
	}

	confPath     string
	logLevelFlag string
	logTimeFlag  bool
	builtCommit  = "dev"
)

func init() {
	// Disable completion please!
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Add the different sub-commands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(manCmd)
	rootCmd.AddCommand(subcmd.Decode)
	rootCmd.AddCommand(subcmd.Dump)
	rootCmd.AddCommand(subcmd.Monitor)
	rootCmd.AddCommand(subcmd.Watch)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
