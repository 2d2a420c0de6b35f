package render

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"spesa/internal/log"
	"spesa/internal/session"
)

// Notifier prints one line per notification.
type Notifier struct {
	w io.Writer
}

func NewNotifier(w io.Writer) *Notifier {
	return &Notifier{w: w}
}

func (n *Notifier) Notify(level session.Level, message string) {
	mark := "✓"
	if level == session.LevelError {
		mark = "✗"
	}
	fmt.Fprintf(n.w, "%s %s\n", mark, message)
}

// Prompt asks yes/no questions on a terminal. Anything but "y" or "yes"
// is a no, including end of input.
type Prompt struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: bufio.NewReader(in), out: out}
}

func (p *Prompt) Confirm(prompt string) bool {
	fmt.Fprintf(p.out, "%s [y/N] ", prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(p.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// Assume answers every confirmation with a fixed value (the CLI --yes flag).
type Assume bool

func (a Assume) Confirm(string) bool { return bool(a) }

// DirDownloader saves exported files into a directory.
type DirDownloader struct {
	Dir    string
	Logger *log.Logger
}

func (d DirDownloader) Download(name string, content []byte) error {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	path := filepath.Join(d.Dir, filepath.Base(name))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if d.Logger != nil {
		d.Logger.Debug("Export written", log.FieldPath, path, log.FieldCount, len(content))
	}
	return nil
}
