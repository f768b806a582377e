package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/trackline/internal/cli/formatter"
	"github.com/alexanderramin/trackline/internal/domain"
	"github.com/alexanderramin/trackline/internal/hierarchy"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects", "p"},
		Short:   "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectRemoveCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var (
		shortID     string
		description string
		status      string
		dates       struct{ start, end, deadline *time.Time }
	)

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a new project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := &domain.Project{
				ShortID:     strings.ToUpper(strings.TrimSpace(shortID)),
				Name:        args[0],
				Description: description,
				Status:      domain.ProjectStatus(status),
				StartDate:   dates.start,
				EndDate:     dates.end,
				Deadline:    dates.deadline,
			}

			if err := app.Projects.Create(cmd.Context(), p); err != nil {
				return fmt.Errorf("creating project: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Created project %s %s\n",
				formatter.StyleGreen.Render("✔"),
				formatter.Bold(p.Name),
				formatter.Dim("("+p.DisplayID()+")"))
			return nil
		},
	}

	cmd.Flags().StringVar(&shortID, "id", "", "Short ID, 3-6 letters and 2-4 digits (e.g. WEB01)")
	cmd.Flags().StringVar(&description, "desc", "", "Project description")
	dateFlag(cmd.Flags(), &dates.start, "start", "Start date (YYYY-MM-DD)")
	dateFlag(cmd.Flags(), &dates.end, "end", "End date (YYYY-MM-DD)")
	dateFlag(cmd.Flags(), &dates.deadline, "deadline", "Deadline (YYYY-MM-DD)")
	cmd.Flags().StringVar(&status, "status", string(domain.ProjectActive), "planning, active, on_hold, completed or archived")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing projects: %w", err)
			}
			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No projects yet. Create one with: trackline project add NAME"))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(projects, app.now()))
			return nil
		},
	}
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show PROJECT",
		Short: "Show a project and its feature tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			features, err := app.Features.ListByProject(ctx, p.ID)
			if err != nil {
				return fmt.Errorf("loading features: %w", err)
			}
			forest := hierarchy.Build(derefFeatures(features))
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectDetail(p, forest))
			return nil
		},
	}
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm PROJECT",
		Aliases: []string{"remove"},
		Short:   "Delete a project with all of its features",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Delete(ctx, p.ID); err != nil {
				return fmt.Errorf("deleting project: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", formatter.Bold(p.Name))
			return nil
		},
	}
}

func derefFeatures(in []*domain.Feature) []domain.Feature {
	out := make([]domain.Feature, len(in))
	for i, f := range in {
		out[i] = *f
	}
	return out
}
