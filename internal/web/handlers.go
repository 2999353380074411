package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/orglens/orglens/internal/cache"
	"github.com/orglens/orglens/internal/diagram"
	"github.com/orglens/orglens/internal/graph"
	"github.com/orglens/orglens/internal/store"
)

// handlers carries the dependencies shared by the API endpoints.
type handlers struct {
	snapshots SnapshotSource
	renders   cache.Cache
	version   string
	logger    *zap.Logger
}

func (h *handlers) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.version,
	})
}

// entityList is the /api/entities response body.
type entityList struct {
	Count    int                `json:"count"`
	Entities []store.IndexEntry `json:"entities"`
}

func (h *handlers) listEntities(w http.ResponseWriter, r *http.Request) {
	index, err := h.snapshots.Store().LoadIndex()
	if err != nil {
		writeError(w, http.StatusNotFound, "no snapshot loaded; run `orglens sync` first")
		return
	}

	q := strings.ToLower(r.URL.Query().Get("q"))
	customOnly, _ := strconv.ParseBool(r.URL.Query().Get("custom_only"))

	entities := make([]store.IndexEntry, 0, len(index))
	for _, entry := range index {
		if customOnly && !entry.Custom {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(entry.Name), q) &&
			!strings.Contains(strings.ToLower(entry.Label), q) {
			continue
		}
		entities = append(entities, entry)
	}

	writeJSON(w, http.StatusOK, entityList{Count: len(entities), Entities: entities})
}

func (h *handlers) getEntity(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	entity, err := h.snapshots.Store().LoadEntity(name)
	if err != nil {
		if store.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "object %q not found in the active snapshot", name)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load object %q: %v", name, err)
		return
	}
	writeJSON(w, http.StatusOK, entity)
}

// renderDiagram serves GET /api/diagram. Query parameters: roots (required,
// comma-separated or repeated), kind (er or hierarchy), depth (hop count
// for er, level count for hierarchy), direction, format, field_filter,
// max_fields, include_fields. Output is the diagram text itself.
func (h *handlers) renderDiagram(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	roots := splitList(params["roots"])
	if len(roots) == 0 {
		writeError(w, http.StatusBadRequest, "at least one root object is required (roots=Account,Contact)")
		return
	}

	kind := params.Get("kind")
	if kind == "" {
		kind = "er"
	}
	if kind != "er" && kind != "hierarchy" {
		writeError(w, http.StatusBadRequest, "unknown diagram kind %q (want er or hierarchy)", kind)
		return
	}

	opts := diagram.DefaultOptions()
	if v := params.Get("format"); v != "" {
		format, err := diagram.ParseFormat(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "%v", err)
			return
		}
		opts.Format = format
	}
	if v := params.Get("field_filter"); v != "" {
		filter, err := diagram.ParseFieldFilter(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "%v", err)
			return
		}
		opts.FieldFilter = filter
	}
	if v := params.Get("include_fields"); v != "" {
		include, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "include_fields must be a boolean")
			return
		}
		opts.IncludeFields = include
	}
	if v := params.Get("max_fields"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "max_fields must be a positive integer")
			return
		}
		opts.MaxFields = n
	}

	depth := 1
	if kind == "hierarchy" {
		depth = 3
	}
	if v := params.Get("depth"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "depth must be a positive integer")
			return
		}
		depth = n
	}

	direction := graph.DirectionBoth
	if v := params.Get("direction"); v != "" {
		d, err := graph.ParseDirection(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "%v", err)
			return
		}
		direction = d
	}

	st := h.snapshots.Store()
	snap, err := st.LoadSnapshot()
	if err != nil {
		writeError(w, http.StatusNotFound, "no snapshot loaded; run `orglens sync` first")
		return
	}

	// Canonicalize before keying so case variants of the same request share
	// a cache entry.
	for i, root := range roots {
		if canon, ok := snap.Canonical(root); ok {
			roots[i] = canon
		}
	}

	key := ""
	if h.renders != nil {
		if meta, err := st.LoadMeta(); err == nil {
			key = cache.RenderRequest{
				RunID:         meta.RunID,
				Kind:          kind,
				Roots:         roots,
				Depth:         depth,
				Direction:     string(direction),
				Format:        string(opts.Format),
				FieldFilter:   string(opts.FieldFilter),
				MaxFields:     opts.MaxFields,
				IncludeFields: opts.IncludeFields,
			}.Key()
			if data, err := h.renders.Get(r.Context(), key); err == nil {
				writeDiagram(w, data, true)
				return
			} else if !cache.IsCacheMiss(err) {
				h.logger.Warn("render cache read failed", zap.Error(err))
			}
		}
	}

	var rendered string
	switch kind {
	case "er":
		g := graph.Build(snap)
		entities, edges := g.Subgraph(roots, depth, direction)
		if len(entities) == 0 {
			writeError(w, http.StatusNotFound, "no matching objects in the active snapshot")
			return
		}
		rendered = diagram.Generate(entities, edges, opts)
	case "hierarchy":
		root := roots[0]
		if !snap.Contains(root) {
			writeError(w, http.StatusNotFound, "object %q not found in the active snapshot", root)
			return
		}
		rendered = diagram.Hierarchy(root, snap, depth, opts.Format)
	}

	if key != "" {
		if err := h.renders.Set(r.Context(), key, []byte(rendered), 0); err != nil {
			h.logger.Warn("render cache write failed", zap.Error(err))
		}
	}
	writeDiagram(w, []byte(rendered), false)
}

func writeDiagram(w http.ResponseWriter, data []byte, hit bool) {
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(data)
}

// splitList flattens repeated query values and comma-separated entries into
// one trimmed list.
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
