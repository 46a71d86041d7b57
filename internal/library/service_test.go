package library

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rmachado/redflix/internal/models"
	"github.com/rmachado/redflix/internal/store"
)

// memStore is an in-memory Store covering what the library service touches.
type memStore struct {
	items       []models.ContentItem
	playlistURL string
	replaceErr  error
}

func (m *memStore) ReplaceContent(_ context.Context, items []models.ContentItem) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.items = append([]models.ContentItem(nil), items...)
	return nil
}

func (m *memStore) ListContent(_ context.Context, _ store.ContentFilter) ([]models.ContentItem, int, error) {
	return m.items, len(m.items), nil
}

func (m *memStore) GetContentByID(_ context.Context, id int64) (*models.ContentItem, error) {
	for _, it := range m.items {
		if it.ID == id {
			return &it, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) GetPlaylistURL(context.Context) (string, error) { return m.playlistURL, nil }

func (m *memStore) SetPlaylistURL(_ context.Context, url string) error {
	m.playlistURL = url
	return nil
}

func (m *memStore) LoadProfile(context.Context) (*models.ProfileLists, error) {
	return &models.ProfileLists{}, nil
}
func (m *memStore) SaveProfile(context.Context, *models.ProfileLists) error { return nil }
func (m *memStore) GetCuratedLists(context.Context) ([]models.CuratedList, error) {
	return nil, nil
}
func (m *memStore) SaveCuratedLists(context.Context, []models.CuratedList) error { return nil }

func fixedFetcher(items []models.ContentItem, err error) Fetcher {
	return func(context.Context, string, string, string, time.Duration) ([]models.ContentItem, error) {
		return items, err
	}
}

func sampleItems() []models.ContentItem {
	return []models.ContentItem{
		{ID: 1, Title: "A Movie", MediaType: models.MediaTypeMovie, Genres: []string{"Filmes"}},
		{ID: 2, Title: "A Show", MediaType: models.MediaTypeTV, Genres: []string{"Séries"}},
		{ID: 3, Title: "A Channel", MediaType: models.MediaTypeTV, Genres: []string{"Canais Abertos"}},
	}
}

func TestSync(t *testing.T) {
	st := &memStore{playlistURL: "http://x/list.m3u"}
	svc := New(st, fixedFetcher(sampleItems(), nil), "", "", time.Second)

	summary, err := svc.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if summary.Total != 3 || summary.Movies != 1 || summary.Series != 1 || summary.Channels != 1 {
		t.Errorf("summary = %+v, want 3/1/1/1", summary)
	}
	if len(st.items) != 3 {
		t.Errorf("store holds %d items, want 3", len(st.items))
	}
}

func TestSyncNoSourceURL(t *testing.T) {
	svc := New(&memStore{}, fixedFetcher(nil, nil), "", "", time.Second)
	_, err := svc.Sync(context.Background())
	if !errors.Is(err, ErrNoSourceURL) {
		t.Fatalf("err = %v, want ErrNoSourceURL", err)
	}
}

func TestSyncKeepsOldContentOnFetchFailure(t *testing.T) {
	st := &memStore{
		playlistURL: "http://x/list.m3u",
		items:       []models.ContentItem{{ID: 99, Title: "Existing"}},
	}
	svc := New(st, fixedFetcher(nil, errors.New("upstream down")), "", "", time.Second)

	if _, err := svc.Sync(context.Background()); err == nil {
		t.Fatal("expected sync to fail")
	}
	if len(st.items) != 1 || st.items[0].ID != 99 {
		t.Errorf("failed sync mutated the store: %+v", st.items)
	}
}

func TestSyncKeepsOldContentOnStoreFailure(t *testing.T) {
	st := &memStore{
		playlistURL: "http://x/list.m3u",
		items:       []models.ContentItem{{ID: 99, Title: "Existing"}},
		replaceErr:  errors.New("db down"),
	}
	svc := New(st, fixedFetcher(sampleItems(), nil), "", "", time.Second)

	if _, err := svc.Sync(context.Background()); err == nil {
		t.Fatal("expected sync to fail")
	}
	if len(st.items) != 1 || st.items[0].ID != 99 {
		t.Errorf("failed sync mutated the store: %+v", st.items)
	}
}

func TestSourceURLRoundTrip(t *testing.T) {
	st := &memStore{}
	svc := New(st, fixedFetcher(nil, nil), "", "", time.Second)
	ctx := context.Background()

	url, err := svc.SourceURL(ctx)
	if err != nil || url != "" {
		t.Fatalf("SourceURL on empty store = %q, %v", url, err)
	}
	if err := svc.SetSourceURL(ctx, "http://x/new.m3u"); err != nil {
		t.Fatalf("SetSourceURL: %v", err)
	}
	url, err = svc.SourceURL(ctx)
	if err != nil || url != "http://x/new.m3u" {
		t.Fatalf("SourceURL = %q, %v", url, err)
	}
}

func TestSummarize(t *testing.T) {
	sum := Summarize(nil)
	if sum.Total != 0 {
		t.Errorf("empty summary total = %d", sum.Total)
	}
	sum = Summarize(sampleItems())
	if sum.Movies != 1 || sum.Series != 1 || sum.Channels != 1 {
		t.Errorf("summary = %+v", sum)
	}
}
