// Package capture decodes captured rtnetlink traffic. Every line of input
// holds the hex encoding of one socket read, which may carry several
// messages. Lines can come from a file or be written to a named pipe as
// they are captured.
package capture

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"syscall"

	"github.com/rjeczalik/notify"

	"github.com/scitags/rtnl-go/rtnl"
)

// DecodeLine decodes one line of input. Blank lines and lines starting
// with # yield nothing. Whitespace between hex digits is ignored, so
// hexdump style groupings are accepted.
func DecodeLine(line string) ([]rtnl.Result, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, nil
	}

	b, err := hex.DecodeString(strings.Join(strings.Fields(line), ""))
	if err != nil {
		return nil, fmt.Errorf("bad hex: %w", err)
	}

	return rtnl.ParseStream(b)
}

// Decode reads lines from r until EOF and decodes each one.
func Decode(r io.Reader) ([]rtnl.Result, error) {
	var out []rtnl.Result

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for n := 1; s.Scan(); n++ {
		results, err := DecodeLine(s.Text())
		out = append(out, results...)
		if err != nil {
			return out, fmt.Errorf("line %d: %w", n, err)
		}
	}

	return out, s.Err()
}

// splitLines returns the complete lines in pending+chunk and what's left
// after the last newline.
func splitLines(pending, chunk []byte) ([]string, []byte) {
	pending = append(pending, chunk...)

	i := bytes.LastIndexByte(pending, '\n')
	if i < 0 {
		return nil, pending
	}

	lines := strings.Split(string(pending[:i]), "\n")
	rest := append([]byte(nil), pending[i+1:]...)

	return lines, rest
}

type Source struct {
	Config

	logger *slog.Logger
}

func New(c *Config) *Source {
	s := &Source{Config: *c}
	if c.Log {
		s.logger = slog.Default().With("t", "capture")
	} else {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s
}

func (s *Source) String() string {
	return "named pipe"
}

func (s *Source) Init() error {
	s.logger.Debug("initialising the named pipe", "path", s.PipePath)

	if _, err := os.Stat(s.PipePath); !errors.Is(err, os.ErrNotExist) {
		s.logger.Debug("it looks like the named pipe exists!")
		return nil
	}

	if err := syscall.Mkfifo(s.PipePath, 0666); err != nil {
		return fmt.Errorf("couldn't create the named pipe: %w", err)
	}

	return nil
}

// Run pushes the results of every complete line written to the pipe onto
// out until done is closed or the pipe is removed. It closes out when it
// returns.
func (s *Source) Run(done <-chan struct{}, out chan<- rtnl.Result) {
	s.logger.Debug("running the named pipe source")
	defer close(out)

	// Opening the FIFO read-only blocks until there's a writer. Opening it
	// O_RDWR makes us a writer too. O_NONBLOCK would do, but it isn't
	// portable to Darwin.
	pipe, err := os.OpenFile(s.PipePath, os.O_RDWR, os.ModeNamedPipe)
	if err != nil {
		s.logger.Error("couldn't open the named pipe", "err", err)
		return
	}
	defer pipe.Close()

	// A buffered channel guarantees that we don't loose events even
	// if writes take place at the exact same time
	c := make(chan notify.EventInfo, s.MaxReaders)

	// Hook the notifications
	if err := notify.Watch(s.PipePath, c, notify.Write|notify.Remove); err != nil {
		s.logger.Error("couldn't watch the named pipe", "err", err)
		return
	}
	defer notify.Stop(c)

	var pending []byte
	buff := make([]byte, s.BuffSize)
	for {
		select {
		case e := <-c:
			switch e.Event() {
			case notify.Write:
				n, err := pipe.Read(buff)
				if err != nil {
					s.logger.Warn("error reading pipe", "err", err)
					continue
				}
				s.logger.Debug("read pipe", "n", n)

				var lines []string
				lines, pending = splitLines(pending, buff[:n])
				for _, line := range lines {
					results, err := DecodeLine(line)
					if err != nil {
						s.logger.Warn("couldn't decode a line", "err", err)
					}
					for _, r := range results {
						select {
						case out <- r:
						case <-done:
							return
						}
					}
				}
			case notify.Remove:
				s.logger.Error("the named pipe was removed from under us!")
				return
			}
		case <-done:
			s.logger.Debug("cleanly exiting the named pipe source")
			return
		}
	}
}

func (s *Source) Cleanup() error {
	s.logger.Debug("cleaning up the named pipe")
	if err := os.Remove(s.PipePath); err != nil {
		return fmt.Errorf("error removing named pipe: %w", err)
	}
	return nil
}
