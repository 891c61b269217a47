// Package jobs wires the periodic maintenance tasks of the asset catalog
// into the background scheduler.
package jobs

import (
	"context"
	"time"

	"assetdesk/internal/caching"
	"assetdesk/internal/jobs/background"
	"assetdesk/internal/services"

	"go.uber.org/zap"
)

const (
	JobExportSnapshot = "export-snapshot"
	JobCachePurge     = "cache-purge"
)

// Options selects which jobs run. A zero interval or a nil dependency
// leaves the job out.
type Options struct {
	Exports        services.ExportService
	SnapshotFormat string
	SnapshotEvery  time.Duration

	Cache      caching.CacheService
	PurgeEvery time.Duration
}

// Register adds the enabled jobs to js and returns their names.
func Register(js *background.JobScheduler, opts Options, log *zap.Logger) ([]string, error) {
	var names []string
	if opts.Exports != nil && opts.SnapshotEvery > 0 {
		if err := js.AddJob(JobExportSnapshot, opts.SnapshotEvery, SnapshotTask(opts.Exports, opts.SnapshotFormat, log)); err != nil {
			return names, err
		}
		names = append(names, JobExportSnapshot)
	}
	if opts.Cache != nil && opts.PurgeEvery > 0 {
		if err := js.AddJob(JobCachePurge, opts.PurgeEvery, CachePurgeTask(opts.Cache, log)); err != nil {
			return names, err
		}
		names = append(names, JobCachePurge)
	}
	return names, nil
}

// SnapshotTask exports every kind with its default query and uploads the
// files to object storage.
func SnapshotTask(exports services.ExportService, format string, log *zap.Logger) background.Task {
	return func(ctx context.Context) error {
		results, err := exports.Snapshot(ctx, format)
		if err != nil {
			return err
		}
		for _, r := range results {
			fields := []zap.Field{zap.String("kind", r.Kind), zap.Int("rows", r.Rows)}
			if r.Upload != nil {
				fields = append(fields, zap.String("object", r.Upload.Object))
			}
			log.Info("Snapshot exported", fields...)
		}
		return nil
	}
}

// CachePurgeTask drops every cached query page. Entries expire on their
// own; the purge bounds how long a missed invalidation can live.
func CachePurgeTask(cache caching.CacheService, log *zap.Logger) background.Task {
	return func(ctx context.Context) error {
		n, err := caching.PurgeAll(ctx, cache)
		if err != nil {
			return err
		}
		log.Debug("Purged cached queries", zap.Int("keys", n))
		return nil
	}
}
