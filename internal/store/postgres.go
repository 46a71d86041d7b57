package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rmachado/redflix/internal/models"
)

const settingPlaylistURL = "playlist_source_url"

// Postgres implements Store using PostgreSQL.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a Postgres store from a DSN. Caller must call Close when done.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

// ReplaceContent wipes and reloads content_items inside one transaction, so
// a failed sync leaves the previous collection untouched.
func (p *Postgres) ReplaceContent(ctx context.Context, items []models.ContentItem) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM content_items`); err != nil {
		return fmt.Errorf("wipe content: %w", err)
	}

	batch := &pgx.Batch{}
	for _, it := range items {
		batch.Queue(
			`INSERT INTO content_items
			   (id, title, description, thumbnail_url, video_url, duration,
			    genres, match_score, release_year, rating, media_type)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			 ON CONFLICT (id) DO NOTHING`,
			it.ID, it.Title, it.Description, it.ThumbnailURL, it.VideoURL,
			it.Duration, it.Genres, it.Match, it.Year, it.Rating, string(it.MediaType),
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert content: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (p *Postgres) ListContent(ctx context.Context, filter ContentFilter) ([]models.ContentItem, int, error) {
	where := []string{"TRUE"}
	args := []any{}
	n := 0
	arg := func(v any) string {
		n++
		args = append(args, v)
		return fmt.Sprintf("$%d", n)
	}

	if filter.MediaType != nil {
		where = append(where, "media_type = "+arg(string(*filter.MediaType)))
	}
	if filter.Group != "" {
		where = append(where, arg(filter.Group)+" = ANY(genres)")
	}
	if filter.Search != "" {
		where = append(where, "title ILIKE "+arg("%"+filter.Search+"%"))
	}
	whereSQL := strings.Join(where, " AND ")

	var total int
	if err := p.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM content_items WHERE `+whereSQL, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count content: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	query := `SELECT id, title, description, thumbnail_url, video_url, duration,
	                 genres, match_score, release_year, rating, media_type
	          FROM content_items WHERE ` + whereSQL +
		` ORDER BY title ` + fmt.Sprintf("LIMIT %d OFFSET %d", limit, filter.Offset)

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list content: %w", err)
	}
	defer rows.Close()

	var items []models.ContentItem
	for rows.Next() {
		it, err := scanContentItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list content rows: %w", err)
	}
	return items, total, nil
}

func (p *Postgres) GetContentByID(ctx context.Context, id int64) (*models.ContentItem, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, title, description, thumbnail_url, video_url, duration,
		        genres, match_score, release_year, rating, media_type
		 FROM content_items WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get content: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("get content: %w", err)
		}
		return nil, ErrNotFound
	}
	it, err := scanContentItem(rows)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func scanContentItem(rows pgx.Rows) (models.ContentItem, error) {
	var it models.ContentItem
	var mediaType string
	err := rows.Scan(&it.ID, &it.Title, &it.Description, &it.ThumbnailURL,
		&it.VideoURL, &it.Duration, &it.Genres, &it.Match, &it.Year,
		&it.Rating, &mediaType)
	if err != nil {
		return it, fmt.Errorf("scan content: %w", err)
	}
	it.MediaType = models.MediaType(mediaType)
	return it, nil
}

// --- settings ---

func (p *Postgres) GetPlaylistURL(ctx context.Context) (string, error) {
	var value string
	err := p.pool.QueryRow(ctx,
		`SELECT value FROM settings WHERE key = $1`, settingPlaylistURL,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get playlist url: %w", err)
	}
	return value, nil
}

func (p *Postgres) SetPlaylistURL(ctx context.Context, url string) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO settings (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		settingPlaylistURL, url,
	)
	if err != nil {
		return fmt.Errorf("set playlist url: %w", err)
	}
	return nil
}

// --- profile lists ---

func (p *Postgres) LoadProfile(ctx context.Context) (*models.ProfileLists, error) {
	out := &models.ProfileLists{}

	rows, err := p.pool.Query(ctx,
		`SELECT list, item FROM profile_entries ORDER BY added_at`)
	if err != nil {
		return nil, fmt.Errorf("load profile entries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var list string
		var raw []byte
		if err := rows.Scan(&list, &raw); err != nil {
			return nil, fmt.Errorf("scan profile entry: %w", err)
		}
		var it models.ContentItem
		if err := json.Unmarshal(raw, &it); err != nil {
			return nil, fmt.Errorf("decode profile entry: %w", err)
		}
		switch models.ListName(list) {
		case models.ListMyList:
			out.MyList = append(out.MyList, it)
		case models.ListWatchLater:
			out.WatchLater = append(out.WatchLater, it)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("profile entries rows: %w", err)
	}

	liked, err := p.pool.Query(ctx, `SELECT content_id FROM liked_items ORDER BY added_at`)
	if err != nil {
		return nil, fmt.Errorf("load liked: %w", err)
	}
	defer liked.Close()
	for liked.Next() {
		var id int64
		if err := liked.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan liked: %w", err)
		}
		out.Liked = append(out.Liked, id)
	}
	if err := liked.Err(); err != nil {
		return nil, fmt.Errorf("liked rows: %w", err)
	}
	return out, nil
}

// SaveProfile replaces the persisted snapshot. The profile service mirrors
// every mutation here, so a wipe-and-insert inside one transaction keeps the
// durable copy in lockstep with memory.
func (p *Postgres) SaveProfile(ctx context.Context, prof *models.ProfileLists) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM profile_entries`); err != nil {
		return fmt.Errorf("wipe profile entries: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM liked_items`); err != nil {
		return fmt.Errorf("wipe liked: %w", err)
	}

	batch := &pgx.Batch{}
	queueEntries := func(list models.ListName, items []models.ContentItem) error {
		for _, it := range items {
			raw, err := json.Marshal(it)
			if err != nil {
				return fmt.Errorf("encode profile entry: %w", err)
			}
			batch.Queue(
				`INSERT INTO profile_entries (list, content_id, item) VALUES ($1, $2, $3)
				 ON CONFLICT (list, content_id) DO NOTHING`,
				string(list), it.ID, raw,
			)
		}
		return nil
	}
	if err := queueEntries(models.ListMyList, prof.MyList); err != nil {
		return err
	}
	if err := queueEntries(models.ListWatchLater, prof.WatchLater); err != nil {
		return err
	}
	for _, id := range prof.Liked {
		batch.Queue(
			`INSERT INTO liked_items (content_id) VALUES ($1) ON CONFLICT DO NOTHING`, id)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return tx.Commit(ctx)
}

// --- curated lists ---

func (p *Postgres) GetCuratedLists(ctx context.Context) ([]models.CuratedList, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, items FROM curated_lists ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("get curated: %w", err)
	}
	defer rows.Close()

	var lists []models.CuratedList
	for rows.Next() {
		var cl models.CuratedList
		var raw []byte
		if err := rows.Scan(&cl.ID, &raw); err != nil {
			return nil, fmt.Errorf("scan curated: %w", err)
		}
		if err := json.Unmarshal(raw, &cl.Items); err != nil {
			return nil, fmt.Errorf("decode curated %s: %w", cl.ID, err)
		}
		lists = append(lists, cl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("curated rows: %w", err)
	}
	return lists, nil
}

func (p *Postgres) SaveCuratedLists(ctx context.Context, lists []models.CuratedList) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM curated_lists`); err != nil {
		return fmt.Errorf("wipe curated: %w", err)
	}
	for _, cl := range lists {
		raw, err := json.Marshal(cl.Items)
		if err != nil {
			return fmt.Errorf("encode curated %s: %w", cl.ID, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO curated_lists (id, items) VALUES ($1, $2)`, cl.ID, raw); err != nil {
			return fmt.Errorf("save curated %s: %w", cl.ID, err)
		}
	}
	return tx.Commit(ctx)
}
