package profile

import (
	"context"
	"testing"

	"github.com/rmachado/redflix/internal/models"
)

// memStorage records saves so tests can assert when persistence happens.
type memStorage struct {
	saved     *models.ProfileLists
	saveCalls int
	initial   *models.ProfileLists
}

func (m *memStorage) LoadProfile(context.Context) (*models.ProfileLists, error) {
	if m.initial != nil {
		return m.initial, nil
	}
	return &models.ProfileLists{}, nil
}

func (m *memStorage) SaveProfile(_ context.Context, p *models.ProfileLists) error {
	m.saveCalls++
	m.saved = p
	return nil
}

func item(id int64) models.ContentItem {
	return models.ContentItem{ID: id, Title: "x"}
}

func TestAddIsIdempotent(t *testing.T) {
	st := &memStorage{}
	svc, err := Load(context.Background(), st)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := svc.Add(ctx, models.ListMyList, item(1)); err != nil {
		t.Fatal(err)
	}
	if err := svc.Add(ctx, models.ListMyList, item(1)); err != nil {
		t.Fatal(err)
	}
	if got := svc.List(models.ListMyList); len(got) != 1 {
		t.Errorf("list has %d entries, want 1", len(got))
	}
	if st.saveCalls != 1 {
		t.Errorf("save called %d times, want 1 (duplicate add should not persist)", st.saveCalls)
	}
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	st := &memStorage{}
	svc, _ := Load(context.Background(), st)
	ctx := context.Background()

	if err := svc.Remove(ctx, models.ListWatchLater, 42); err != nil {
		t.Fatalf("Remove of absent ID errored: %v", err)
	}
	if st.saveCalls != 0 {
		t.Errorf("no-op remove persisted %d times", st.saveCalls)
	}

	_ = svc.Add(ctx, models.ListWatchLater, item(42))
	if err := svc.Remove(ctx, models.ListWatchLater, 42); err != nil {
		t.Fatal(err)
	}
	if err := svc.Remove(ctx, models.ListWatchLater, 42); err != nil {
		t.Fatalf("second Remove errored: %v", err)
	}
	if got := svc.List(models.ListWatchLater); len(got) != 0 {
		t.Errorf("list has %d entries, want 0", len(got))
	}
}

func TestListsAreIndependent(t *testing.T) {
	svc, _ := Load(context.Background(), &memStorage{})
	ctx := context.Background()

	_ = svc.Add(ctx, models.ListMyList, item(1))
	_ = svc.Add(ctx, models.ListWatchLater, item(2))

	if got := svc.List(models.ListMyList); len(got) != 1 || got[0].ID != 1 {
		t.Errorf("my list = %+v", got)
	}
	if got := svc.List(models.ListWatchLater); len(got) != 1 || got[0].ID != 2 {
		t.Errorf("watch later = %+v", got)
	}
}

func TestUnknownListErrors(t *testing.T) {
	svc, _ := Load(context.Background(), &memStorage{})
	if err := svc.Add(context.Background(), "bogus", item(1)); err == nil {
		t.Fatal("expected error for unknown list")
	}
}

func TestToggleLiked(t *testing.T) {
	st := &memStorage{}
	svc, _ := Load(context.Background(), st)
	ctx := context.Background()

	liked, err := svc.ToggleLiked(ctx, 7)
	if err != nil || !liked {
		t.Fatalf("first toggle = %v, %v; want liked", liked, err)
	}
	liked, err = svc.ToggleLiked(ctx, 7)
	if err != nil || liked {
		t.Fatalf("second toggle = %v, %v; want unliked", liked, err)
	}
	if got := svc.Liked(); len(got) != 0 {
		t.Errorf("liked set = %v, want empty after double toggle", got)
	}
	if st.saveCalls != 2 {
		t.Errorf("save called %d times, want 2", st.saveCalls)
	}
}

func TestMutationsPersistSnapshot(t *testing.T) {
	st := &memStorage{}
	svc, _ := Load(context.Background(), st)
	ctx := context.Background()

	_ = svc.Add(ctx, models.ListMyList, item(1))
	_, _ = svc.ToggleLiked(ctx, 5)

	if st.saved == nil {
		t.Fatal("nothing persisted")
	}
	if len(st.saved.MyList) != 1 || len(st.saved.Liked) != 1 {
		t.Errorf("persisted snapshot = %+v", st.saved)
	}
}

func TestLoadRestoresSnapshot(t *testing.T) {
	st := &memStorage{initial: &models.ProfileLists{
		MyList: []models.ContentItem{item(1), item(2)},
		Liked:  []int64{9},
	}}
	svc, err := Load(context.Background(), st)
	if err != nil {
		t.Fatal(err)
	}
	if got := svc.List(models.ListMyList); len(got) != 2 {
		t.Errorf("restored my list has %d entries, want 2", len(got))
	}
	if got := svc.Liked(); len(got) != 1 || got[0] != 9 {
		t.Errorf("restored liked = %v", got)
	}
}

func TestListReturnsCopy(t *testing.T) {
	svc, _ := Load(context.Background(), &memStorage{})
	ctx := context.Background()
	_ = svc.Add(ctx, models.ListMyList, item(1))

	got := svc.List(models.ListMyList)
	got[0].ID = 999
	if fresh := svc.List(models.ListMyList); fresh[0].ID != 1 {
		t.Error("List leaked internal state")
	}
}
