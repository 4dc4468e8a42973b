package pager

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"harmonyscope/internal/ports"
)

// Viewer implements ports.DocumentViewer with the user's pager
type Viewer struct {
	getenv   func(string) string
	lookPath func(string) (string, error)
}

// Ensure Viewer implements DocumentViewer
var _ ports.DocumentViewer = (*Viewer)(nil)

// NewViewer creates a new pager viewer
func NewViewer() *Viewer {
	return &Viewer{
		getenv:   os.Getenv,
		lookPath: exec.LookPath,
	}
}

// Command writes doc, indented when it is JSON, to a temporary file and
// returns the pager command that shows it.
// This is useful for integrating with bubbletea's ExecProcess
func (v *Viewer) Command(name string, doc []byte) (*exec.Cmd, func(), error) {
	pager := v.findPager()
	if len(pager) == 0 {
		return nil, nil, fmt.Errorf("no pager found: set $PAGER environment variable")
	}

	f, err := os.CreateTemp("", "harmonyscope-*-"+sanitize(name)+".json")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	cleanup := func() { os.Remove(f.Name()) }

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, doc, "", "  "); err != nil {
		pretty.Reset()
		pretty.Write(doc)
	}
	pretty.WriteByte('\n')

	if _, err := f.Write(pretty.Bytes()); err != nil {
		f.Close()
		cleanup()
		return nil, nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return nil, nil, err
	}

	args := append(pager[1:], f.Name())
	cmd := exec.Command(pager[0], args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd, cleanup, nil
}

// findPager returns the pager command line to use
func (v *Viewer) findPager() []string {
	// Check $PAGER first
	if pager := strings.Fields(v.getenv("PAGER")); len(pager) > 0 {
		return pager
	}

	// Try common pagers
	if path, err := v.lookPath("less"); err == nil {
		return []string{path, "-R"}
	}
	if path, err := v.lookPath("more"); err == nil {
		return []string{path}
	}

	return nil
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return '_'
	}, name)
}
