package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/codingisforpros/wealthtrack/internal/modules/dashboard"
	"github.com/codingisforpros/wealthtrack/internal/modules/history"
)

// Job names used for manual triggering.
const (
	JobGoldRefresh   = "gold_refresh"
	JobDailySnapshot = "daily_snapshot"
	JobCacheCleanup  = "cache_cleanup"
	JobWeeklyBackup  = "weekly_backup"
)

// staleCacheGrace keeps expired gold rates around as a stale-read window
// before the cleanup job prunes them.
const staleCacheGrace = 24 * time.Hour

// GoldRefresher reprices all gold assets from the current rate.
type GoldRefresher interface {
	RefreshAll() (int, error)
}

// GoldRefreshJob reprices gold holdings on a schedule.
type GoldRefreshJob struct {
	refresher GoldRefresher
	log       zerolog.Logger
}

func NewGoldRefreshJob(refresher GoldRefresher, log zerolog.Logger) *GoldRefreshJob {
	return &GoldRefreshJob{refresher: refresher, log: log.With().Str("job", JobGoldRefresh).Logger()}
}

func (j *GoldRefreshJob) Name() string { return JobGoldRefresh }

func (j *GoldRefreshJob) Run() error {
	updated, err := j.refresher.RefreshAll()
	if err != nil {
		return fmt.Errorf("failed to refresh gold prices: %w", err)
	}
	j.log.Info().Int("assets_updated", updated).Msg("Gold prices refreshed")
	return nil
}

// UserLister enumerates the users that own at least one asset.
type UserLister interface {
	UserIDs() ([]string, error)
}

// Summarizer computes the wealth summary for one user.
type Summarizer interface {
	Summary(userID string) (*dashboard.Summary, error)
}

// SnapshotRecorder persists one net worth snapshot.
type SnapshotRecorder interface {
	Record(userID string, summary dashboard.Summary, at time.Time) (*history.Snapshot, error)
}

// SnapshotJob records a daily net worth snapshot for every user with
// assets. Milestone evaluation rides along with the summary computation.
type SnapshotJob struct {
	users     UserLister
	dashboard Summarizer
	recorder  SnapshotRecorder
	log       zerolog.Logger
}

func NewSnapshotJob(users UserLister, summarizer Summarizer, recorder SnapshotRecorder, log zerolog.Logger) *SnapshotJob {
	return &SnapshotJob{
		users:     users,
		dashboard: summarizer,
		recorder:  recorder,
		log:       log.With().Str("job", JobDailySnapshot).Logger(),
	}
}

func (j *SnapshotJob) Name() string { return JobDailySnapshot }

func (j *SnapshotJob) Run() error {
	userIDs, err := j.users.UserIDs()
	if err != nil {
		return fmt.Errorf("failed to list users with assets: %w", err)
	}

	now := time.Now().UTC()
	recorded := 0
	for _, userID := range userIDs {
		summary, err := j.dashboard.Summary(userID)
		if err != nil {
			j.log.Error().Err(err).Str("user_id", userID).Msg("Failed to compute summary")
			continue
		}
		if _, err := j.recorder.Record(userID, *summary, now); err != nil {
			j.log.Error().Err(err).Str("user_id", userID).Msg("Failed to record snapshot")
			continue
		}
		recorded++
	}

	j.log.Info().Int("users", len(userIDs)).Int("recorded", recorded).Msg("Daily snapshots recorded")
	return nil
}

// CachePruner removes expired cache rows past a grace period.
type CachePruner interface {
	DeleteExpired(grace time.Duration) (int64, error)
}

// CacheCleanupJob prunes expired gold rate cache rows.
type CacheCleanupJob struct {
	pruner CachePruner
	log    zerolog.Logger
}

func NewCacheCleanupJob(pruner CachePruner, log zerolog.Logger) *CacheCleanupJob {
	return &CacheCleanupJob{pruner: pruner, log: log.With().Str("job", JobCacheCleanup).Logger()}
}

func (j *CacheCleanupJob) Name() string { return JobCacheCleanup }

func (j *CacheCleanupJob) Run() error {
	removed, err := j.pruner.DeleteExpired(staleCacheGrace)
	if err != nil {
		return fmt.Errorf("failed to prune price cache: %w", err)
	}
	j.log.Info().Int64("removed", removed).Msg("Price cache pruned")
	return nil
}

// BackupRunner performs one full backup cycle.
type BackupRunner interface {
	Backup(ctx context.Context) error
}

// backupTimeout bounds one backup cycle, including the S3 upload.
const backupTimeout = 10 * time.Minute

// BackupJob runs the weekly database backup.
type BackupJob struct {
	runner BackupRunner
	log    zerolog.Logger
}

func NewBackupJob(runner BackupRunner, log zerolog.Logger) *BackupJob {
	return &BackupJob{runner: runner, log: log.With().Str("job", JobWeeklyBackup).Logger()}
}

func (j *BackupJob) Name() string { return JobWeeklyBackup }

func (j *BackupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), backupTimeout)
	defer cancel()

	if err := j.runner.Backup(ctx); err != nil {
		return fmt.Errorf("failed to run backup: %w", err)
	}
	j.log.Info().Msg("Backup completed")
	return nil
}
