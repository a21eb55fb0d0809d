package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/dash/internal/export"
)

// newExportCmd creates the export command.
func newExportCmd() *cobra.Command {
	var filters filterFlags
	var formatFlag string
	var outFlag string
	var titleFlag string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export sessions to JSON, Markdown or CSV",
		Long: `Export sessions for reports and spreadsheets.

Examples:
  dash export                              # Current project as JSON to stdout
  dash export --all --format csv           # Every project as CSV
  dash export --since 1m --format md --out report.md
  dash export --format md --title "March"  # Markdown with a custom heading`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, &filters, formatFlag, outFlag, titleFlag)
		},
	}

	filters.register(cmd, false)
	cmd.Flags().StringVar(&formatFlag, "format", "", "Output format: json, md or csv (default: json for stdout, md for --out)")
	cmd.Flags().StringVar(&outFlag, "out", "", "Output file (if omitted, writes to stdout)")
	cmd.Flags().StringVar(&titleFlag, "title", "", "Heading for Markdown output")

	return cmd
}

// runExport executes the export command.
func runExport(cmd *cobra.Command, filters *filterFlags, formatFlag, outFlag, titleFlag string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	format, err := export.ParseFormat(determineFormat(formatFlag, outFlag))
	if err != nil {
		return a.fail(err)
	}

	filter, err := filters.build(cmd.Context(), a.tracker)
	if err != nil {
		return a.fail(err)
	}
	sessions, err := a.tracker.Sessions(cmd.Context(), filter)
	if err != nil {
		return a.fail(err)
	}

	opts := export.Options{
		Now:        a.tracker.Now(),
		TimeFormat: a.settings.TimeFormat,
		Title:      titleFlag,
	}
	if opts.Title == "" && filter.Project != "" {
		opts.Title = filter.Project
	}

	if outFlag == "" {
		if err := export.Write(cmd.OutOrStdout(), format, sessions, opts); err != nil {
			return a.fail(err)
		}
		return nil
	}

	if err := export.WriteFile(outFlag, format, sessions, opts); err != nil {
		return a.fail(err)
	}
	if a.printer.IsJSON() {
		return a.printer.Success(map[string]any{
			"path":   outFlag,
			"format": string(format),
			"count":  len(sessions),
		})
	}
	if len(sessions) == 0 {
		a.printer.Warn("no sessions matched; %s is an empty report", outFlag)
	}
	a.printer.Print("Exported %d sessions to %s\n", len(sessions), outFlag)
	return nil
}

// determineFormat returns the format to use based on flags.
func determineFormat(formatFlag, outFlag string) string {
	if formatFlag != "" {
		return formatFlag
	}
	if outFlag == "" {
		return string(export.FormatJSON)
	}
	return string(export.FormatMarkdown)
}
