package updater

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// IsNewer reports whether candidate is a newer release than current.
// Both may carry a leading "v". Unparseable versions (such as "dev") are
// an error, never "newer".
func IsNewer(current, candidate string) (bool, error) {
	cv, err := semver.NewVersion(strings.TrimPrefix(current, "v"))
	if err != nil {
		return false, fmt.Errorf("parsing current version %q: %w", current, err)
	}
	nv, err := semver.NewVersion(strings.TrimPrefix(candidate, "v"))
	if err != nil {
		return false, fmt.Errorf("parsing release version %q: %w", candidate, err)
	}
	return nv.GreaterThan(cv), nil
}

// IsRelease reports whether v is a semantic version rather than a
// development build marker.
func IsRelease(v string) bool {
	_, err := semver.NewVersion(strings.TrimPrefix(v, "v"))
	return err == nil
}
