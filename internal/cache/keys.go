package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// RenderRequest identifies one diagram render for cache keying. RunID is
// the snapshot's sync run, so a fresh sync implicitly invalidates every
// key derived from the previous one.
type RenderRequest struct {
	RunID         string
	Kind          string // "er" or "hierarchy"
	Roots         []string
	Depth         int
	Direction     string
	Format        string
	FieldFilter   string
	MaxFields     int
	IncludeFields bool
}

// Key digests the request into a short deterministic cache key. Root order
// does not matter.
func (r RenderRequest) Key() string {
	roots := append([]string(nil), r.Roots...)
	sort.Strings(roots)

	parts := []string{
		r.RunID,
		r.Kind,
		strings.Join(roots, ","),
		strconv.Itoa(r.Depth),
		r.Direction,
		r.Format,
		r.FieldFilter,
		strconv.Itoa(r.MaxFields),
		strconv.FormatBool(r.IncludeFields),
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, ":")))
	return "render:" + hex.EncodeToString(sum[:16])
}
