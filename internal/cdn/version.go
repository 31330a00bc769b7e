package cdn

import (
	"fmt"

	"github.com/hashicorp/go-version"
)

// IsNewer reports whether candidate is a later game data version than
// current. An empty current is always older.
func IsNewer(candidate, current string) (bool, error) {
	if current == "" {
		return true, nil
	}
	cv, err := version.NewVersion(candidate)
	if err != nil {
		return false, fmt.Errorf("parse version %q: %w", candidate, err)
	}
	pv, err := version.NewVersion(current)
	if err != nil {
		return false, fmt.Errorf("parse version %q: %w", current, err)
	}
	return cv.GreaterThan(pv), nil
}
