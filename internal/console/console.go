// Package console owns gfnprobe's two output channels.
//
// The result channel carries what a user runs the program for: the banner,
// usage, device table and candidate results. The diagnostic channel carries
// logs and the final error line. Interactive runs map them to stdout and
// stderr. A managed grid run must not write free-form text where the client
// does not expect it, so results go to a file in the slot directory and only
// diagnostics stay on stderr, which grid clients capture.
package console

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Channels is a result/diagnostic writer pair.
type Channels struct {
	mu     sync.Mutex
	result io.Writer
	diag   io.Writer
	closer io.Closer
}

// New returns channels writing to the given writers.
func New(result, diag io.Writer) *Channels {
	return &Channels{result: result, diag: diag}
}

// Standard returns channels bound to stdout and stderr.
func Standard() *Channels {
	return New(os.Stdout, os.Stderr)
}

// Managed returns channels for a managed grid run: results appended to
// dir/resultsFile, diagnostics on stderr.
func Managed(dir, resultsFile string) (*Channels, error) {
	path := filepath.Join(dir, resultsFile)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open results file %s: %w", path, err)
	}
	return &Channels{result: f, diag: os.Stderr, closer: f}, nil
}

// Result returns the result writer.
func (c *Channels) Result() io.Writer {
	return c.result
}

// Print writes s to the result channel.
func (c *Channels) Print(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	io.WriteString(c.result, s)
}

// Error writes s to the diagnostic channel.
func (c *Channels) Error(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	io.WriteString(c.diag, s)
}

// Fail writes the uniform fatal line: a blank line, then "error: <message>.".
func (c *Channels) Fail(err error) {
	c.Error(fmt.Sprintf("\nerror: %s.\n", err))
}

// Close releases a results file, if any.
func (c *Channels) Close() error {
	if c.closer == nil {
		return nil
	}
	err := c.closer.Close()
	c.closer = nil
	return err
}
