package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/rmachado/redflix/internal/cache"
	"github.com/rmachado/redflix/internal/library"
)

// PlaylistSyncJob re-syncs the playlist on a schedule so the library tracks
// upstream changes without an admin pressing the button.
type PlaylistSyncJob struct {
	library *library.Service
	redis   *cache.Redis // optional; used to skip runs while another sync holds the lock
}

// NewPlaylistSyncJob creates the job. redis may be nil.
func NewPlaylistSyncJob(lib *library.Service, redis *cache.Redis) *PlaylistSyncJob {
	return &PlaylistSyncJob{library: lib, redis: redis}
}

// Name returns the job's registry name.
func (j *PlaylistSyncJob) Name() string {
	return "playlist_sync"
}

// Run performs one sync. A missing source URL is not an error: the admin
// simply has not configured a playlist yet.
func (j *PlaylistSyncJob) Run(ctx context.Context) error {
	if j.redis != nil {
		unlock, err := cache.TryLock(ctx, j.redis, cache.SyncLockKey, 10*time.Minute)
		if errors.Is(err, cache.ErrLocked) {
			log.Println("playlist_sync: another sync is running, skipping")
			return nil
		}
		if err != nil {
			return err
		}
		defer unlock()
	}

	summary, err := j.library.Sync(ctx)
	if errors.Is(err, library.ErrNoSourceURL) {
		log.Println("playlist_sync: no source URL configured, skipping")
		return nil
	}
	if err != nil {
		return err
	}
	log.Printf("playlist_sync: %d items (%d movies, %d series, %d channels)",
		summary.Total, summary.Movies, summary.Series, summary.Channels)
	return nil
}
