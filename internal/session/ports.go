package session

import (
	"slices"

	"spesa/internal/aggregate"
	"spesa/internal/core"
	"spesa/internal/prefs"
)

// Level is the severity of a user notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// View is everything a renderer needs to draw the screen.
type View struct {
	Items  []core.Expense
	Totals aggregate.Totals
	Prefs  prefs.Preferences
}

// clone copies the slices so callers cannot reach into a memoised view.
func (v View) clone() View {
	v.Items = slices.Clone(v.Items)
	v.Totals.ByCategory = slices.Clone(v.Totals.ByCategory)
	return v
}

// Ports for the user interface. All of them are fire-and-forget except
// Confirmer, whose answer gates destructive commands.
type (
	Renderer interface {
		Render(v View)
	}

	Notifier interface {
		Notify(level Level, message string)
	}

	Confirmer interface {
		Confirm(prompt string) bool
	}

	Downloader interface {
		Download(name string, content []byte) error
	}
)

type (
	nopRenderer   struct{}
	nopNotifier   struct{}
	alwaysConfirm struct{}
	nopDownloader struct{}
)

func (nopRenderer) Render(View) {}
func (nopNotifier) Notify(Level, string) {}
func (alwaysConfirm) Confirm(string) bool { return true }
func (nopDownloader) Download(string, []byte) error { return nil }
