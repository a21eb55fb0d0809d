package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/dash/internal/tracker"
)

// newProjectCmd creates the project command.
func newProjectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "project [name]",
		Short: "Show, create or switch the current project",
		Long: `Set the current project, creating it on first use.
Without a name, print the current project.

Examples:
  dash project            # Print the current project
  dash project website    # Create or switch to "website"
  dash project --json     # Output the current project as JSON`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runShowProject(cmd)
			}
			return runSetProject(cmd, args[0])
		},
	}
}

// runShowProject prints the current project.
func runShowProject(cmd *cobra.Command) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	project, err := a.tracker.CurrentProject(cmd.Context())
	if err != nil {
		return a.fail(err)
	}

	if a.printer.IsJSON() {
		return a.printer.Success(map[string]any{"project": project})
	}
	a.printer.Print("Current project: %s\n", a.printer.Styles().Bold.Render(project))
	return nil
}

// runSetProject makes name the current project.
func runSetProject(cmd *cobra.Command, name string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.tracker.SetProject(cmd.Context(), name)
	if err != nil {
		return a.fail(err)
	}

	if a.printer.IsJSON() {
		return a.printer.Success(map[string]any{
			"project": res.Project,
			"created": res.Created,
			"changed": !res.Noop,
		})
	}
	return a.printer.Success(map[string]any{"message": projectMessage(res)})
}

func projectMessage(res tracker.Transition) string {
	switch {
	case res.Created:
		return "Creating project " + res.Project
	case res.Noop:
		return "Already on project " + res.Project
	default:
		return "Setting project to " + res.Project
	}
}
