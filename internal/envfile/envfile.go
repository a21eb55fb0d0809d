// Package envfile reads KEY=VALUE files into an environment map.
package envfile

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Read parses a .env style file into a map.
// Returns an empty map if the file doesn't exist. Returns an error only for read failures.
func Read(path string) (map[string]string, error) {
	vars := make(map[string]string)

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return vars, nil
		}
		return nil, fmt.Errorf("opening env file %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck // read-only file

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := parseEnvLine(line)
		if !ok {
			continue
		}
		vars[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}
	return vars, nil
}

// Merge layers file values under environ. Non-empty environ values win;
// empty values on either side count as unset and are left out.
func Merge(environ, file map[string]string) map[string]string {
	merged := make(map[string]string, len(environ)+len(file))
	for key, value := range file {
		if value != "" {
			merged[key] = value
		}
	}
	for key, value := range environ {
		if value != "" {
			merged[key] = value
		}
	}
	return merged
}

// parseEnvLine extracts KEY=VALUE from a line.
// Handles an optional export prefix and matching quotes around the value.
func parseEnvLine(line string) (key, value string, ok bool) {
	key, value, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}

	key = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(key), "export "))
	value = strings.TrimSpace(value)
	if key == "" {
		return "", "", false
	}

	if len(value) >= 2 {
		if (value[0] == '"' && value[len(value)-1] == '"') ||
			(value[0] == '\'' && value[len(value)-1] == '\'') {
			value = value[1 : len(value)-1]
		}
	}

	return key, value, true
}
