package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/alexanderramin/trackline/internal/cli/formatter"
	"github.com/alexanderramin/trackline/internal/domain"
	"github.com/alexanderramin/trackline/internal/drag"
	"github.com/alexanderramin/trackline/internal/hierarchy"
	"github.com/alexanderramin/trackline/internal/service"
	"github.com/spf13/cobra"
)

func newFeatureCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "feature",
		Aliases: []string{"features", "f"},
		Short:   "Manage features and sub-features",
	}

	cmd.AddCommand(
		newFeatureAddCmd(app),
		newFeatureListCmd(app),
		newFeatureShowCmd(app),
		newFeatureUpdateCmd(app),
		newFeatureDatesCmd(app),
		newFeatureStepCmd(app, "advance", "Move a feature to the next status", service.FeatureService.Advance),
		newFeatureStepCmd(app, "revert", "Move a feature back one status", service.FeatureService.Revert),
		newFeatureRemoveCmd(app),
	)

	return cmd
}

func newFeatureAddCmd(app *App) *cobra.Command {
	var (
		projectRef  string
		interactive bool
		values      featureFormValues
	)

	cmd := &cobra.Command{
		Use:   "add [TITLE]",
		Short: "Create a feature, optionally nested under a parent",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, projectRef)
			if err != nil {
				return err
			}

			if len(args) == 1 {
				values.Title = args[0]
			}
			if values.Parent != "" {
				parent, err := resolveFeature(ctx, app, values.Parent, p.ID)
				if err != nil {
					return err
				}
				values.Parent = parent.ID
			}

			if interactive {
				if !app.interactive() {
					return fmt.Errorf("interactive mode needs a terminal")
				}
				parents, err := app.Features.ListByProject(ctx, p.ID)
				if err != nil {
					return err
				}
				if err := featureForm(&values, parents).RunWithContext(ctx); err != nil {
					return err
				}
			}

			f, err := values.toFeature(p.ID)
			if err != nil {
				return err
			}
			if err := app.Features.Create(ctx, f); err != nil {
				return fmt.Errorf("creating feature: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Created feature %s %s\n",
				formatter.StyleGreen.Render("✔"),
				formatter.Bold(f.Title),
				formatter.TruncID(f.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectRef, "project", "", "Project short ID or UUID (required)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Fill in the feature with a form")
	cmd.Flags().StringVar(&values.Description, "desc", "", "Description")
	cmd.Flags().StringVar(&values.Parent, "parent", "", "Parent feature ID or prefix")
	cmd.Flags().StringVar(&values.Status, "status", "", "idea, specification, development, testing or live")
	cmd.Flags().StringVar(&values.Priority, "priority", "", "low, medium, high or critical")
	cmd.Flags().StringVar(&values.Start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&values.End, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&values.Due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&values.Hours, "hours", "", "Estimated hours")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newFeatureListCmd(app *App) *cobra.Command {
	var projectRef string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List a project's features as a tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, projectRef)
			if err != nil {
				return err
			}
			features, err := app.Features.ListByProject(ctx, p.ID)
			if err != nil {
				return fmt.Errorf("listing features: %w", err)
			}
			forest := hierarchy.Build(derefFeatures(features))
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatFeatureList(forest, app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectRef, "project", "", "Project short ID or UUID (required)")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newFeatureShowCmd(app *App) *cobra.Command {
	var projectRef string

	cmd := &cobra.Command{
		Use:   "show FEATURE",
		Short: "Show a feature with its children and dependencies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectFlag(ctx, app, projectRef)
			if err != nil {
				return err
			}
			f, err := resolveFeature(ctx, app, args[0], projectID)
			if err != nil {
				return err
			}

			siblings, err := app.Features.ListByProject(ctx, f.ProjectID)
			if err != nil {
				return err
			}
			data := formatter.FeatureDetailData{Feature: f, Now: app.now()}
			for _, s := range siblings {
				if f.ParentID != nil && s.ID == *f.ParentID {
					data.Parent = s
				}
				if s.IsChildOf(f.ID) {
					data.Children = append(data.Children, s)
				}
			}
			if data.Dependencies, err = app.Dependencies.List(ctx, f.ID); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatFeatureDetail(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectRef, "project", "", "Limit ID prefix matching to a project")
	return cmd
}

func newFeatureUpdateCmd(app *App) *cobra.Command {
	var (
		title, description, status, priority string
		parent, due, hours, actual           string
	)

	cmd := &cobra.Command{
		Use:   "update FEATURE",
		Short: "Change a feature's fields; only the flags given are applied",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := resolveFeature(ctx, app, args[0], "")
			if err != nil {
				return err
			}
			flags := cmd.Flags()

			if flags.Changed("title") {
				f.Title = title
			}
			if flags.Changed("desc") {
				f.Description = description
			}
			if flags.Changed("status") {
				if err := f.SetStatus(domain.FeatureStatus(status), app.now().UTC()); err != nil {
					return err
				}
			}
			if flags.Changed("priority") {
				if !domain.ValidFeaturePriorities[priority] {
					return fmt.Errorf("unknown priority %q", priority)
				}
				f.Priority = domain.FeaturePriority(priority)
			}
			if flags.Changed("parent") {
				f.ParentID = nil
				if parent != "" {
					p, err := resolveFeature(ctx, app, parent, f.ProjectID)
					if err != nil {
						return err
					}
					f.ParentID = &p.ID
				}
			}
			if flags.Changed("due") {
				if f.DueDate, err = domain.ParseOptionalDate(due); err != nil {
					return err
				}
			}
			if flags.Changed("hours") {
				if f.EstimatedHours, err = optionalHours(hours); err != nil {
					return err
				}
			}
			if flags.Changed("actual") {
				if f.ActualHours, err = optionalHours(actual); err != nil {
					return err
				}
			}

			if err := app.Features.Update(ctx, f); err != nil {
				return fmt.Errorf("updating feature: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", formatter.Bold(f.Title))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "desc", "", "New description")
	cmd.Flags().StringVar(&status, "status", "", "New status")
	cmd.Flags().StringVar(&priority, "priority", "", "New priority")
	cmd.Flags().StringVar(&parent, "parent", "", "New parent feature; empty moves it to the top level")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD); empty clears it")
	cmd.Flags().StringVar(&hours, "hours", "", "Estimated hours; empty clears it")
	cmd.Flags().StringVar(&actual, "actual", "", "Actual hours; empty clears it")
	return cmd
}

func newFeatureDatesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dates FEATURE START END",
		Short: "Reschedule a feature, as a drag on the timeline would",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := resolveFeature(ctx, app, args[0], "")
			if err != nil {
				return err
			}
			start, err := domain.ParseDate(args[1])
			if err != nil {
				return err
			}
			end, err := domain.ParseDate(args[2])
			if err != nil {
				return err
			}

			change := drag.DateChange{Start: start, End: end}
			if err := app.Features.UpdateDates(ctx, f.ID, change); err != nil {
				return fmt.Errorf("rescheduling %s: %w", f.Title, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s now runs %s → %s\n",
				formatter.StyleGreen.Render("✔"),
				formatter.Bold(f.Title),
				change.StartDate(), change.EndDate())
			return nil
		},
	}
}

type statusStep func(service.FeatureService, context.Context, string) (*domain.Feature, error)

func newFeatureStepCmd(app *App, use, short string, step statusStep) *cobra.Command {
	return &cobra.Command{
		Use:   use + " FEATURE",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := resolveFeature(cmd.Context(), app, args[0], "")
			if err != nil {
				return err
			}
			updated, err := step(app.Features, cmd.Context(), f.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s → %s\n",
				formatter.Bold(updated.Title),
				formatter.FeatureStatusPill(f.Status),
				formatter.FeatureStatusPill(updated.Status))
			return nil
		},
	}
}

func newFeatureRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm FEATURE",
		Aliases: []string{"remove"},
		Short:   "Delete a feature and its sub-features",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := resolveFeature(ctx, app, args[0], "")
			if err != nil {
				return err
			}
			if err := app.Features.Delete(ctx, f.ID); err != nil {
				return fmt.Errorf("deleting feature: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", formatter.Bold(f.Title))
			return nil
		},
	}
}

func optionalHours(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	h, err := strconv.Atoi(s)
	if err != nil || h < 0 {
		return nil, errors.New("hours must be a non-negative number")
	}
	return &h, nil
}
