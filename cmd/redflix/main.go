package main

import (
	"context"
	"log"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rmachado/redflix/internal/cache"
	"github.com/rmachado/redflix/internal/chat"
	"github.com/rmachado/redflix/internal/config"
	"github.com/rmachado/redflix/internal/football"
	"github.com/rmachado/redflix/internal/library"
	"github.com/rmachado/redflix/internal/metadata"
	"github.com/rmachado/redflix/internal/profile"
	"github.com/rmachado/redflix/internal/scheduler"
	"github.com/rmachado/redflix/internal/server"
	"github.com/rmachado/redflix/internal/store"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	if err := store.WaitForDatabase(cfg.DatabaseURL, 10, 2*time.Second); err != nil {
		return err
	}
	if err := store.RunMigrations(cfg.DatabaseURL, "file://migrations"); err != nil {
		return err
	}

	pg, err := store.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pg.Close()

	var st store.Store = pg
	var rds *cache.Redis
	if cfg.RedisURL != "" {
		rds, err = cache.New(cfg.RedisURL)
		if err != nil {
			log.Printf("redis unavailable, caching disabled: %v", err)
		} else {
			defer rds.Close()
			st = store.NewCachedStore(pg, rds)
			log.Println("redis cache enabled")
		}
	}

	prof, err := profile.Load(ctx, st)
	if err != nil {
		return err
	}

	lib := library.New(st, nil, cfg.PlaylistRelayURL, cfg.UserAgent, cfg.FetchTimeout)

	competition, err := strconv.Atoi(cfg.FootballCompetition)
	if err != nil {
		log.Printf("invalid FOOTBALL_COMPETITION %q, using 2013", cfg.FootballCompetition)
		competition = 2013
	}
	fbClient := football.NewClient(cfg.FootballAPIURL, cfg.FootballAPIKey, competition, 15*time.Second)
	fbCache := football.NewCache(fbClient, nil)

	var catalog *metadata.Client
	if cfg.TMDBAPIKey != "" {
		catalog = metadata.NewClient(cfg.TMDBAPIKey, cfg.TMDBLanguage, 15*time.Second)
	} else {
		log.Println("TMDB_API_KEY not set, catalog rows will be empty")
	}

	var chatMgr *chat.Manager
	if cfg.GeminiAPIKey != "" {
		chatMgr = chat.NewManager(chat.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, 60*time.Second))
	} else {
		log.Println("GEMINI_API_KEY not set, chat endpoints disabled")
	}

	if cfg.SyncSchedule != "" {
		sched := scheduler.New()
		if err := sched.AddJob(cfg.SyncSchedule, scheduler.NewPlaylistSyncJob(lib, rds)); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
		log.Printf("playlist sync scheduled: %s", cfg.SyncSchedule)
	}

	if rds != nil {
		go runSyncWorker(ctx, rds, lib)
	}

	srv := server.New(st, cfg, lib, prof, fbCache, catalog, chatMgr, rds)
	return srv.ListenAndServe(ctx)
}

// runSyncWorker drains queued sync requests so admin-triggered async syncs
// run off the request path.
func runSyncWorker(ctx context.Context, rds *cache.Redis, lib *library.Service) {
	log.Println("sync worker started")
	for {
		job, err := cache.Dequeue(ctx, rds, cache.SyncQueue, 5*time.Second)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			log.Printf("sync worker: dequeue: %v", err)
			time.Sleep(2 * time.Second)
			continue
		}
		if job == nil {
			continue
		}

		summary, err := lib.Sync(ctx)
		if err != nil {
			log.Printf("sync worker: sync requested by %s failed: %v", job.RequestedBy, err)
			continue
		}
		log.Printf("sync worker: %d items (%d movies, %d series, %d channels)",
			summary.Total, summary.Movies, summary.Series, summary.Channels)
	}
}
