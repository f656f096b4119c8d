package subcmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scitags/rtnl-go/netlink"
)

func init() {
	Dump.Flags().StringVarP(&familyFlag, "family", "f", "unspec", "unspec, inet, inet6 or bridge")
	Dump.Flags().StringVarP(&outputFlag, "output", "o", "", "json or yaml; overrides the configuration")
}

var (
	familyFlag string

	Dump = &cobra.Command{
		Use:       "dump <object>",
		Short:     "Ask the kernel for every object of a kind and print them.",
		Long:      "Objects: " + strings.Join(netlink.Objects, ", "),
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: netlink.Objects,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := parseFamily(familyFlag)
			if err != nil {
				return err
			}

			req, err := netlink.DumpRequest(args[0], f)
			if err != nil {
				return err
			}

			c, err := netlink.Dial(&settings.Netlink)
			if err != nil {
				return fmt.Errorf("couldn't get a netlink client: %w", err)
			}
			defer c.Close()

			results, err := c.Execute(req)
			if err != nil {
				return err
			}

			w := newWriter(cmd.OutOrStdout())
			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					slog.Warn("couldn't decode a message", "type", r.Message.Type, "seq", r.Message.Sequence, "err", r.Err)
				}
				if err := w.Write(r); err != nil {
					return err
				}
			}

			slog.Debug("dump finished", "object", args[0], "family", f, "messages", len(results), "failed", failed)
			return nil
		},
	}
)
