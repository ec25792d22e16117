package adapters

import (
	"context"
	"errors"
	"time"

	crm "roofing_crm_backend/internal/crm/domain"
	"roofing_crm_backend/internal/followups/ports"
	"roofing_crm_backend/platform/cache"
	"roofing_crm_backend/platform/logger"
)

const (
	snapshotCacheKey   = "snapshot:v1"
	snapshotVersionKey = "snapshot:version"
)

// SnapshotSource is the uncached CRM read, implemented by the crm service.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (crm.Snapshot, error)
}

// CRMSnapshotReader adapts the crm service for the followups module,
// caching snapshots in Redis for ttl when a cache is configured.
// It implements followups/ports.SnapshotReader and SnapshotInvalidator.
type CRMSnapshotReader struct {
	source SnapshotSource
	cache  *cache.JSONCache
	ttl    time.Duration
	log    *logger.Logger
}

// NewCRMSnapshotReader creates the adapter. A nil jsonCache or zero ttl
// disables caching.
func NewCRMSnapshotReader(source SnapshotSource, jsonCache *cache.JSONCache, ttl time.Duration, log *logger.Logger) *CRMSnapshotReader {
	return &CRMSnapshotReader{source: source, cache: jsonCache, ttl: ttl, log: log}
}

func (r *CRMSnapshotReader) cacheEnabled() bool {
	return r.cache != nil && r.ttl > 0
}

// Snapshot returns the cached snapshot or loads a fresh one. Cache failures
// are logged and never fail the read. A load that overlaps an Invalidate is
// returned but not cached.
func (r *CRMSnapshotReader) Snapshot(ctx context.Context) (crm.Snapshot, error) {
	var version int64
	versioned := false
	if r.cacheEnabled() {
		var snap crm.Snapshot
		err := r.cache.Get(ctx, snapshotCacheKey, &snap)
		if err == nil {
			return snap, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			r.log.CacheError("snapshot_get", err)
		}
		if version, err = r.cache.Version(ctx, snapshotVersionKey); err != nil {
			r.log.CacheError("snapshot_version", err)
		} else {
			versioned = true
		}
	}

	snap, err := r.source.Snapshot(ctx)
	if err != nil {
		r.log.DatabaseError("snapshot_load", err)
		return crm.Snapshot{}, err
	}

	if versioned {
		stored, err := r.cache.SetIfVersion(ctx, snapshotVersionKey, version, snapshotCacheKey, snap, r.ttl)
		switch {
		case err != nil:
			r.log.CacheError("snapshot_set", err)
		case !stored:
			r.log.Debug("snapshot invalidated during load, not cached")
		}
	}
	return snap, nil
}

// Invalidate drops the cached snapshot and bumps its version so in-flight
// loads cannot store what they read before the write.
func (r *CRMSnapshotReader) Invalidate(ctx context.Context) error {
	if !r.cacheEnabled() {
		return nil
	}
	return r.cache.Bump(ctx, snapshotVersionKey, snapshotCacheKey)
}

var (
	_ ports.SnapshotReader      = (*CRMSnapshotReader)(nil)
	_ ports.SnapshotInvalidator = (*CRMSnapshotReader)(nil)
)
