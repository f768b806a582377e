package cli

import (
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/trackline/internal/config"
	"github.com/alexanderramin/trackline/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects     service.ProjectService
	Features     service.FeatureService
	Timeline     service.TimelineService
	Dependencies service.DependencyService

	Config config.Config
	// ConfigPath is where "config init" writes.
	ConfigPath string
	Logger     *slog.Logger

	// IsInteractive reports whether stdin is a terminal; forms and the TUI
	// refuse to start otherwise.
	IsInteractive func() bool

	// Now is the clock used for overdue and relative-date rendering.
	Now func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewRootCmd creates the top-level "trackline" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "trackline",
		Short:         "Feature timelines with drag scheduling and dependency checks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newProjectCmd(app),
		newFeatureCmd(app),
		newDepCmd(app),
		newTimelineCmd(app),
		newServeCmd(app),
		newConfigCmd(app),
	)

	return root
}
