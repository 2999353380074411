// Package sync pulls object describes from a Salesforce org and writes them
// into the snapshot store, rebuilding the index and sync metadata as it goes.
package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/orglens/orglens/internal/sfdc"
	"github.com/orglens/orglens/internal/store"
)

// DescribeClient is the slice of the Salesforce client the engine uses.
type DescribeClient interface {
	ListObjects(ctx context.Context) ([]string, error)
	DescribeObject(ctx context.Context, name string) (*sfdc.Describe, error)
	APIVersion() string
	Session() *sfdc.Session
}

// ProgressFunc receives a per-object update during a run. err is nil when
// the object synced cleanly.
type ProgressFunc func(done, total int, name string, err error)

// Options configures one sync run.
type Options struct {
	// Alias names the org in the registry and journal. May be empty for
	// the single-org layout.
	Alias string
	// Objects restricts the run to explicit object names. Empty means
	// every queryable object in the org.
	Objects []string
}

// Result summarizes one sync run.
type Result struct {
	RunID    string        `json:"run_id"`
	Total    int           `json:"total"`
	Synced   int           `json:"synced"`
	Failed   []string      `json:"failed,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Engine drives a sync run: list, describe, normalize, persist.
type Engine struct {
	client DescribeClient
	store  *store.Store
	logger *zap.Logger

	// Registry, when set, records the org alias after a successful run.
	Registry *store.Registry
	// Journal, when set, receives one row per run.
	Journal *store.Journal
	// Progress, when set, is called after each object.
	Progress ProgressFunc
}

// NewEngine creates a sync engine. A nil logger disables logging.
func NewEngine(client DescribeClient, st *store.Store, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{client: client, store: st, logger: logger}
}

// Run executes one sync pass. Individual object failures are tolerated and
// reported in the result; the run errors only when nothing could be synced,
// the listing fails, or the context is canceled.
func (e *Engine) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()

	names := opts.Objects
	if len(names) == 0 {
		list, err := e.client.ListObjects(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		names = list
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("org has no queryable objects to sync")
	}

	if err := e.store.EnsureDir(); err != nil {
		return nil, err
	}

	result := &Result{RunID: uuid.NewString(), Total: len(names)}
	e.logger.Info("starting sync",
		zap.String("run_id", result.RunID),
		zap.String("alias", opts.Alias),
		zap.Int("objects", len(names)))

	for i, name := range names {
		if err := ctx.Err(); err != nil {
			result.Duration = time.Since(start)
			return result, fmt.Errorf("sync canceled: %w", err)
		}

		err := e.syncObject(ctx, name)
		if err != nil {
			result.Failed = append(result.Failed, name)
			e.logger.Warn("object sync failed", zap.String("object", name), zap.Error(err))
		} else {
			result.Synced++
		}

		if e.Progress != nil {
			e.Progress(i+1, len(names), name, err)
		}
	}

	if err := e.finish(result, opts, start); err != nil {
		return result, err
	}

	result.Duration = time.Since(start)
	e.logger.Info("sync complete",
		zap.Int("synced", result.Synced),
		zap.Int("failed", len(result.Failed)),
		zap.Duration("duration", result.Duration))

	if result.Synced == 0 {
		return result, fmt.Errorf("all %d objects failed to sync", len(result.Failed))
	}

	return result, nil
}

func (e *Engine) syncObject(ctx context.Context, name string) error {
	d, err := e.client.DescribeObject(ctx, name)
	if err != nil {
		return err
	}
	return e.store.SaveEntity(sfdc.Normalize(d))
}

// finish rebuilds the index and writes meta, journal, and registry entries.
// The index scans the whole directory so partial syncs keep earlier objects.
func (e *Engine) finish(result *Result, opts Options, start time.Time) error {
	snap, err := e.store.LoadSnapshot()
	if err != nil {
		return err
	}
	if err := e.store.SaveIndex(store.BuildIndex(snap)); err != nil {
		return err
	}

	session := e.client.Session()
	finished := time.Now().UTC()

	meta := &store.Meta{
		RunID:         result.RunID,
		SyncedAt:      finished,
		InstanceURL:   session.InstanceURL,
		APIVersion:    e.client.APIVersion(),
		ObjectsSynced: result.Synced,
		ObjectsFailed: len(result.Failed),
	}
	if err := e.store.SaveMeta(meta); err != nil {
		return err
	}

	if e.Journal != nil {
		run := &store.Run{
			ID:            result.RunID,
			Alias:         opts.Alias,
			StartedAt:     start.UTC(),
			FinishedAt:    finished,
			ObjectsSynced: result.Synced,
			ObjectsFailed: len(result.Failed),
			APIVersion:    e.client.APIVersion(),
		}
		if err := e.Journal.Record(run); err != nil {
			e.logger.Warn("failed to record sync run", zap.Error(err))
		}
	}

	if e.Registry != nil && opts.Alias != "" {
		info := &store.OrgInfo{
			Alias:       opts.Alias,
			Dir:         e.store.Dir(),
			InstanceURL: session.InstanceURL,
			Username:    session.Username,
		}
		if err := e.Registry.Register(info); err != nil {
			e.logger.Warn("failed to register org", zap.String("alias", opts.Alias), zap.Error(err))
		}
	}

	return nil
}
