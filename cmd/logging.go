package main

import (
	"log/slog"
	"path/filepath"

	"github.com/scitags/rtnl-go/nla"
)

var logLevelMap = map[string]slog.Level{
	"trace": nla.LevelTrace,
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

func logReplacements(groups []string, a slog.Attr) slog.Attr {
	// Remove time.
	if a.Key == slog.TimeKey && len(groups) == 0 && !logTimeFlag {
		return slog.Attr{}
	}

	// Remove the directory from the source's filename.
	if a.Key == slog.SourceKey {
		source, ok := a.Value.Any().(*slog.Source)
		if ok {
			source.File = filepath.Base(source.File)
		}
	}

	// slog would print DEBUG-1 otherwise.
	if a.Key == slog.LevelKey && len(groups) == 0 {
		if level, ok := a.Value.Any().(slog.Level); ok && level == nla.LevelTrace {
			return slog.String(slog.LevelKey, "TRACE")
		}
	}

	return a
}
