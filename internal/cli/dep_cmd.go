package cli

import (
	"fmt"

	"github.com/alexanderramin/trackline/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newDepCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dep",
		Aliases: []string{"deps", "dependency"},
		Short:   "Manage feature dependencies",
	}

	cmd.AddCommand(
		newDepAddCmd(app),
		newDepRemoveCmd(app),
		newDepListCmd(app),
		newDepCandidatesCmd(app),
		newDepEditCmd(app),
	)

	return cmd
}

func newDepAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add FEATURE DEPENDS_ON",
		Short: "Record that FEATURE depends on DEPENDS_ON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := resolveFeature(ctx, app, args[0], "")
			if err != nil {
				return err
			}
			dep, err := resolveFeature(ctx, app, args[1], f.ProjectID)
			if err != nil {
				return err
			}
			if err := app.Dependencies.Add(ctx, f.ID, dep.ID); err != nil {
				return fmt.Errorf("adding dependency: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s now depends on %s\n",
				formatter.StyleGreen.Render("✔"), formatter.Bold(f.Title), formatter.Bold(dep.Title))
			return nil
		},
	}
}

func newDepRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm FEATURE DEPENDS_ON",
		Aliases: []string{"remove"},
		Short:   "Remove a dependency",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := resolveFeature(ctx, app, args[0], "")
			if err != nil {
				return err
			}
			dep, err := resolveFeature(ctx, app, args[1], f.ProjectID)
			if err != nil {
				return err
			}
			if err := app.Dependencies.Remove(ctx, f.ID, dep.ID); err != nil {
				return fmt.Errorf("removing dependency: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s no longer depends on %s\n",
				formatter.Bold(f.Title), formatter.Bold(dep.Title))
			return nil
		},
	}
}

func newDepListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list FEATURE",
		Aliases: []string{"ls"},
		Short:   "List what a feature depends on",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := resolveFeature(ctx, app, args[0], "")
			if err != nil {
				return err
			}
			deps, err := app.Dependencies.List(ctx, f.ID)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(deps))
			for _, d := range deps {
				rows = append(rows, []string{formatter.TruncID(d.ID), d.Title, formatter.FeatureStatusPill(d.Status)})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"ID", "DEPENDS ON", "STATUS"}, rows))
			return nil
		},
	}
}

func newDepCandidatesCmd(app *App) *cobra.Command {
	var projectRef string

	cmd := &cobra.Command{
		Use:   "candidates [FEATURE]",
		Short: "List the features a dependency may point at",
		Long: `List eligible dependency targets. With FEATURE, the feature itself,
its direct sub-features and its direct parent are excluded. Longer cycles
are rejected when the dependency is added. With --project and no FEATURE,
candidates for a new feature are listed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 0 {
				p, err := resolveProject(ctx, app, projectRef)
				if err != nil {
					return err
				}
				candidates, err := app.Dependencies.ProjectCandidates(ctx, p.ID)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCandidates(candidates))
				return nil
			}

			projectID, err := resolveProjectFlag(ctx, app, projectRef)
			if err != nil {
				return err
			}
			f, err := resolveFeature(ctx, app, args[0], projectID)
			if err != nil {
				return err
			}
			candidates, err := app.Dependencies.Candidates(ctx, f.ID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCandidates(candidates))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectRef, "project", "", "Project short ID or UUID")
	return cmd
}

func newDepEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit FEATURE",
		Short: "Pick a feature's dependencies from its candidates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !app.interactive() {
				return fmt.Errorf("dep edit needs a terminal; use dep add / dep rm instead")
			}
			f, err := resolveFeature(ctx, app, args[0], "")
			if err != nil {
				return err
			}
			candidates, err := app.Dependencies.Candidates(ctx, f.ID)
			if err != nil {
				return err
			}
			current, err := app.Dependencies.List(ctx, f.ID)
			if err != nil {
				return err
			}

			before := make([]string, 0, len(current))
			for _, d := range current {
				before = append(before, d.ID)
			}
			selected := append([]string(nil), before...)

			title := fmt.Sprintf("%s depends on", f.Title)
			if err := dependencyForm(title, candidates, &selected).RunWithContext(ctx); err != nil {
				return err
			}

			added, removed := diffSelection(before, selected)
			for _, id := range removed {
				if err := app.Dependencies.Remove(ctx, f.ID, id); err != nil {
					return fmt.Errorf("removing dependency: %w", err)
				}
			}
			for _, id := range added {
				if err := app.Dependencies.Add(ctx, f.ID, id); err != nil {
					return fmt.Errorf("adding dependency: %w", err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d added, %d removed\n",
				formatter.StyleGreen.Render("✔"), len(added), len(removed))
			return nil
		},
	}
}
