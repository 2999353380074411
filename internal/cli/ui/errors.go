package ui

import (
	"fmt"
	"strings"
)

// UnknownObject builds the error returned when a requested object is
// not in the active snapshot, suggesting close matches when any exist.
func UnknownObject(name string, known []string) error {
	suggestions := Suggest(name, known)
	if len(suggestions) == 0 {
		return fmt.Errorf("object %q not found in the active snapshot (run 'orglens list' to see cached objects)", name)
	}
	return fmt.Errorf("object %q not found in the active snapshot, did you mean: %s?", name, strings.Join(suggestions, ", "))
}
