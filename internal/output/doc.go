// Package output provides structured output handling for the dash CLI.
//
// Every command prints through a Printer, which switches between
// human-readable and JSON output:
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), jsonMode, output.IsTTY(cmd.OutOrStdout()))
//	printer.Success(map[string]any{"message": "Started design"})
//	printer.Table([]string{"PHASE", "START"}, rows)
//	printer.Error(err)
//
// In JSON mode errors are written as {"error": "...", "code": N, "kind": "..."}.
//
// # Exit Codes
//
//	output.ExitSuccess     // 0
//	output.ExitUserError   // 1: bad arguments, no current project, nothing to resume
//	output.ExitSystemError // 2: I/O failures, unreadable store
//	output.ExitConflict    // 3: state mismatch, e.g. ending when nothing runs
//
// Build errors with NewUserError and NewSystemError (and their WithCause
// variants) or NewConflictErrorWithCause; GetExitCode maps any error to a
// process exit code.
package output
