package subcmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/scitags/rtnl-go/capture"
	"github.com/scitags/rtnl-go/rtnl"
)

func init() {
	Decode.Flags().BoolVar(&rawInput, "raw", false, "read the input as one binary buffer instead of hex lines")
	Decode.Flags().StringVarP(&outputFlag, "output", "o", "", "json or yaml; overrides the configuration")
}

var (
	rawInput bool

	Decode = &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode captured messages from a file or stdin.",
		Long: "Every line of the input holds the hex encoding of one socket read. Blank lines\n" +
			"and lines starting with # are skipped. With --raw the whole input is a single\n" +
			"binary buffer.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = os.Stdin
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("couldn't open the input: %w", err)
				}
				defer f.Close()
				in = f
			}

			results, err := decode(in, rawInput)
			w := newWriter(cmd.OutOrStdout())
			for _, r := range results {
				if werr := w.Write(r); werr != nil {
					return werr
				}
			}
			if err != nil {
				return err
			}

			slog.Debug("decoded the input", "messages", len(results))
			return nil
		},
	}
)

func decode(in io.Reader, raw bool) ([]rtnl.Result, error) {
	if !raw {
		return capture.Decode(in)
	}

	b, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("couldn't read the input: %w", err)
	}
	return rtnl.ParseStream(b)
}
