package mcp

import (
	"fmt"

	"github.com/gorewood/dash/internal/tracker"
)

// toolError prefixes tracker failures with their kind so agents can branch on it.
func toolError(err error) error {
	if kind := tracker.ErrorKind(err); kind != "" {
		return fmt.Errorf("%s: %w", kind, err)
	}
	return err
}
