package subcmd

import (
	"fmt"
	"io"
	"os"

	"github.com/scitags/rtnl-go/capture"
	"github.com/scitags/rtnl-go/family"
	"github.com/scitags/rtnl-go/metrics"
	"github.com/scitags/rtnl-go/netlink"
	"github.com/scitags/rtnl-go/report"
)

// Settings carries the parts of the configuration the sub-commands use.
type Settings struct {
	Output  string
	Netlink netlink.Config
	Metrics metrics.Config
	Capture capture.Config
}

var (
	settings Settings
	format   = report.YAML

	// Command-line overrides
	outputFlag string
)

// Configure validates s and makes it the configuration of every
// sub-command.
func Configure(s Settings) error {
	out := s.Output
	if outputFlag != "" {
		out = outputFlag
	}
	if out == "" {
		out = string(report.YAML)
	}

	f, err := report.ParseFormat(out)
	if err != nil {
		return err
	}

	settings, format = s, f

	return nil
}

func newWriter(w io.Writer) *report.Writer {
	if w == nil {
		w = os.Stdout
	}
	return report.NewWriter(w, format)
}

var familyNames = map[string]family.Family{
	"unspec": family.Unspec,
	"inet":   family.Inet,
	"inet6":  family.Inet6,
	"bridge": family.Bridge,
}

func parseFamily(s string) (family.Family, error) {
	f, ok := familyNames[s]
	if !ok {
		return 0, fmt.Errorf("unknown family %q; want unspec, inet, inet6 or bridge", s)
	}
	return f, nil
}
