package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/trackline/internal/cli/formatter"
	"github.com/alexanderramin/trackline/internal/domain"
	"github.com/alexanderramin/trackline/internal/hierarchy"
	"github.com/alexanderramin/trackline/internal/timeline"
	"github.com/spf13/cobra"
)

const defaultTimelineWidth = 100

func newTimelineCmd(app *App) *cobra.Command {
	var (
		expand []string
		width  int
		tui    bool
	)

	cmd := &cobra.Command{
		Use:     "timeline PROJECT",
		Aliases: []string{"tl", "gantt"},
		Short:   "Draw a project's feature timeline",
		Long: `Draw the project's features as bars on a shared date track.

Sub-features are hidden until their parent is expanded: pass feature IDs
to --expand, or --expand all. With --tui the timeline opens full screen;
bars can then be dragged with the mouse to reschedule them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			expanded, all, err := resolveExpand(ctx, app, p.ID, expand)
			if err != nil {
				return err
			}

			if tui {
				if !app.interactive() {
					return fmt.Errorf("--tui needs a terminal")
				}
				return runTimelineTUI(ctx, app, p, expanded, all)
			}

			view, err := buildTimeline(ctx, app, p.ID, expanded, all)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, timelineTitle(p, view))
			fmt.Fprintln(out)
			fmt.Fprint(out, formatter.RenderTimeline(*view, formatter.NewTimelineLayout(*view, width), formatter.TimelineOptions{}))
			fmt.Fprintln(out)
			fmt.Fprintln(out, formatter.Dim("█ done  ▒ remaining  ◆ due  │ today  ▸ collapsed"))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&expand, "expand", nil, "Feature IDs to expand, or \"all\"")
	cmd.Flags().IntVar(&width, "width", defaultTimelineWidth, "Output width in columns")
	cmd.Flags().BoolVar(&tui, "tui", false, "Open the interactive timeline")
	return cmd
}

// resolveExpand turns --expand values into an ExpandSet. "all" is reported
// separately because the forest is only known after the first build.
func resolveExpand(ctx context.Context, app *App, projectID string, refs []string) (hierarchy.ExpandSet, bool, error) {
	set := hierarchy.ExpandSet{}
	for _, ref := range refs {
		if strings.EqualFold(ref, "all") {
			return nil, true, nil
		}
		f, err := resolveFeature(ctx, app, ref, projectID)
		if err != nil {
			return nil, false, err
		}
		set[f.ID] = true
	}
	return set, false, nil
}

// buildTimeline lays the project out. With all set, every parent is expanded.
func buildTimeline(ctx context.Context, app *App, projectID string, expanded hierarchy.ExpandSet, all bool) (*timeline.View, error) {
	view, err := app.Timeline.Build(ctx, projectID, expanded)
	if err != nil {
		return nil, fmt.Errorf("building timeline: %w", err)
	}
	if all {
		return app.Timeline.Build(ctx, projectID, hierarchy.ExpandAll(view.Forest))
	}
	return view, nil
}

func timelineTitle(p *domain.Project, v *timeline.View) string {
	return fmt.Sprintf("%s  %s  %s",
		formatter.StyleHeader.Render(p.Name),
		formatter.Dim(p.DisplayID()),
		formatter.Dim(domain.FormatDate(v.Domain.Start)+" → "+domain.FormatDate(v.Domain.End)))
}
