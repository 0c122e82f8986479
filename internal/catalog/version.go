package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// BumpMinor returns v with its minor version incremented and the patch reset,
// e.g. v1.2.3 becomes v1.3.0.
func BumpMinor(v string) (string, error) {
	if !semver.IsValid(v) {
		return "", fmt.Errorf("invalid version %q", v)
	}
	parts := strings.SplitN(strings.TrimPrefix(semver.Canonical(v), "v"), ".", 3)
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", fmt.Errorf("invalid version %q: %w", v, err)
	}
	return fmt.Sprintf("v%s.%d.0", parts[0], minor+1), nil
}
