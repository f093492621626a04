package library

import (
	"context"
	"errors"
	"testing"

	"github.com/spinwheel/spinwheel/internal/media"
	"github.com/spinwheel/spinwheel/internal/testutil"
	"github.com/spinwheel/spinwheel/internal/wheel"
)

// scriptedSource returns a fixed sequence of draws.
type scriptedSource struct {
	draws []int
	pos   int
}

func (s *scriptedSource) IntN(n int) int {
	d := s.draws[s.pos%len(s.draws)]
	s.pos++
	return d % n
}

func newTestService(t *testing.T, src wheel.Source) (*Service, *testutil.TestDB) {
	t.Helper()
	tdb := testutil.NewTestDB(t)
	svc := NewService(tdb.Conn, nil, wheel.NewPicker(src), tdb.Logger)
	return svc, tdb
}

func mustCreate(t *testing.T, svc *Service, in media.CreateInput) *media.Item {
	t.Helper()
	item, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create(%q) error = %v", in.Title, err)
	}
	return item
}

func TestService_CreateAndGet(t *testing.T) {
	svc, tdb := newTestService(t, nil)
	defer tdb.Close()
	ctx := context.Background()

	created := mustCreate(t, svc, media.CreateInput{
		Type:     media.TypeGame,
		Title:    "  The Witcher 3  ",
		Platform: "PC",
		Tags:     []string{"RPG", "open-world", "rpg"},
	})

	if created.ID == "" {
		t.Error("Create() returned empty ID")
	}
	if created.Title != "The Witcher 3" {
		t.Errorf("Create() Title = %q, want trimmed", created.Title)
	}
	if created.Status != media.StatusActive {
		t.Errorf("Create() Status = %q, want active", created.Status)
	}
	if len(created.Tags) != 2 {
		t.Errorf("Create() Tags = %v, want normalized [rpg open-world]", created.Tags)
	}
	if created.AddedAt == 0 {
		t.Error("Create() AddedAt = 0, want unix timestamp")
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ID != created.ID || got.Title != created.Title {
		t.Errorf("Get() = %+v, want %+v", got, created)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "rpg" || got.Tags[1] != "open-world" {
		t.Errorf("Get() Tags = %v, want [rpg open-world]", got.Tags)
	}
}

func TestService_Create_InvalidInput(t *testing.T) {
	svc, tdb := newTestService(t, nil)
	defer tdb.Close()
	ctx := context.Background()

	_, err := svc.Create(ctx, media.CreateInput{Type: "podcast", Title: "X"})
	if !errors.Is(err, media.ErrInvalidType) {
		t.Errorf("Create() error = %v, want ErrInvalidType", err)
	}

	_, err = svc.Create(ctx, media.CreateInput{Type: media.TypeGame, Title: " "})
	if !errors.Is(err, media.ErrEmptyTitle) {
		t.Errorf("Create() error = %v, want ErrEmptyTitle", err)
	}
}

func TestService_Get_NotFound(t *testing.T) {
	svc, tdb := newTestService(t, nil)
	defer tdb.Close()

	_, err := svc.Get(context.Background(), "nope")
	if !errors.Is(err, ErrItemNotFound) {
		t.Errorf("Get() error = %v, want ErrItemNotFound", err)
	}
}

func TestService_Update(t *testing.T) {
	svc, tdb := newTestService(t, nil)
	defer tdb.Close()
	ctx := context.Background()

	item := mustCreate(t, svc, media.CreateInput{Type: media.TypeGame, Title: "Hades"})

	status := media.StatusDone
	tags := []string{"Roguelike"}
	updated, err := svc.Update(ctx, item.ID, media.UpdateInput{Status: &status, Tags: &tags})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Status != media.StatusDone {
		t.Errorf("Update() Status = %q, want done", updated.Status)
	}
	if len(updated.Tags) != 1 || updated.Tags[0] != "roguelike" {
		t.Errorf("Update() Tags = %v, want [roguelike]", updated.Tags)
	}

	// Persisted
	got, err := svc.Get(ctx, item.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != media.StatusDone {
		t.Errorf("persisted Status = %q, want done", got.Status)
	}
}

func TestService_Update_Errors(t *testing.T) {
	svc, tdb := newTestService(t, nil)
	defer tdb.Close()
	ctx := context.Background()

	item := mustCreate(t, svc, media.CreateInput{Type: media.TypeGame, Title: "Hades"})

	if _, err := svc.Update(ctx, item.ID, media.UpdateInput{}); !errors.Is(err, ErrEmptyUpdate) {
		t.Errorf("Update(empty) error = %v, want ErrEmptyUpdate", err)
	}

	status := media.StatusDone
	if _, err := svc.Update(ctx, "missing", media.UpdateInput{Status: &status}); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrItemNotFound", err)
	}

	bad := media.Status("paused")
	if _, err := svc.Update(ctx, item.ID, media.UpdateInput{Status: &bad}); !errors.Is(err, media.ErrInvalidStatus) {
		t.Errorf("Update(bad status) error = %v, want ErrInvalidStatus", err)
	}
}

func TestService_Delete(t *testing.T) {
	svc, tdb := newTestService(t, nil)
	defer tdb.Close()
	ctx := context.Background()

	item := mustCreate(t, svc, media.CreateInput{Type: media.TypeMovie, Title: "Dune"})

	if err := svc.Delete(ctx, item.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := svc.Get(ctx, item.ID); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrItemNotFound", err)
	}
	if err := svc.Delete(ctx, item.ID); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("Delete() twice error = %v, want ErrItemNotFound", err)
	}

	// Soft-deleted items never reach list or spin pools.
	items, err := svc.List(ctx, ListOptions{IncludeArchived: true})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("List() after delete = %d items, want 0", len(items))
	}
}

func seedCatalog(t *testing.T, svc *Service) {
	t.Helper()
	ctx := context.Background()

	mustCreate(t, svc, media.CreateInput{Type: media.TypeGame, Title: "Witcher 3", Tags: []string{"rpg"}})
	mustCreate(t, svc, media.CreateInput{Type: media.TypeGame, Title: "Elden Ring", Tags: []string{"rpg"}})
	mustCreate(t, svc, media.CreateInput{Type: media.TypeGame, Title: "Celeste", Tags: []string{"platformer"}})
	mustCreate(t, svc, media.CreateInput{Type: media.TypeMovie, Title: "Airplane!", Tags: []string{"comedy"}})

	archived := mustCreate(t, svc, media.CreateInput{Type: media.TypeGame, Title: "Skyrim", Tags: []string{"rpg"}})
	status := media.StatusArchived
	if _, err := svc.Update(ctx, archived.ID, media.UpdateInput{Status: &status}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
}

func TestService_List_Filters(t *testing.T) {
	svc, tdb := newTestService(t, nil)
	defer tdb.Close()
	ctx := context.Background()
	seedCatalog(t, svc)

	tests := []struct {
		name string
		opts ListOptions
		want int
	}{
		{"all non-archived", ListOptions{}, 4},
		{"include archived", ListOptions{IncludeArchived: true}, 5},
		{"games only", ListOptions{Type: media.TypeGame}, 3},
		{"rpg games", ListOptions{Type: media.TypeGame, Tags: []string{"rpg"}}, 2},
		{"rpg games with archived", ListOptions{Type: media.TypeGame, Tags: []string{"rpg"}, IncludeArchived: true}, 3},
		{"status archived overrides default policy", ListOptions{Status: media.StatusArchived}, 1},
		{"search title", ListOptions{Search: "ring"}, 1},
		{"search is case-insensitive", ListOptions{Search: "WITCHER"}, 1},
		{"no matches", ListOptions{Tags: []string{"horror"}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := svc.List(ctx, tt.opts)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(items) != tt.want {
				t.Errorf("List() = %d items, want %d", len(items), tt.want)
			}
		})
	}
}

func TestService_List_InvalidCriteria(t *testing.T) {
	svc, tdb := newTestService(t, nil)
	defer tdb.Close()

	_, err := svc.List(context.Background(), ListOptions{Type: "podcast"})
	if !errors.Is(err, wheel.ErrInvalidCriteria) {
		t.Errorf("List() error = %v, want ErrInvalidCriteria", err)
	}
}

func TestService_Spin_PoolMatchesFilter(t *testing.T) {
	// 5 rpg-tagged games with one archived plus unrelated movies: the spin
	// pool must hold exactly the 4 eligible games.
	svc, tdb := newTestService(t, &scriptedSource{draws: []int{0}})
	defer tdb.Close()
	ctx := context.Background()

	for _, title := range []string{"Witcher 3", "Elden Ring", "Persona 5", "Disco Elysium"} {
		mustCreate(t, svc, media.CreateInput{Type: media.TypeGame, Title: title, Tags: []string{"rpg"}})
	}
	archived := mustCreate(t, svc, media.CreateInput{Type: media.TypeGame, Title: "Skyrim", Tags: []string{"rpg"}})
	status := media.StatusArchived
	if _, err := svc.Update(ctx, archived.ID, media.UpdateInput{Status: &status}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	for _, title := range []string{"Airplane!", "Hot Fuzz", "The Naked Gun"} {
		mustCreate(t, svc, media.CreateInput{Type: media.TypeMovie, Title: title, Tags: []string{"comedy"}})
	}

	result, err := svc.Spin(ctx, SpinOptions{
		Type:       media.TypeGame,
		Tags:       []string{"rpg"},
		ExtraTurns: -1,
	})
	if err != nil {
		t.Fatalf("Spin() error = %v", err)
	}

	if result.TotalPoolSize != 4 {
		t.Errorf("Spin() pool size = %d, want 4", result.TotalPoolSize)
	}
	if result.Winner == nil {
		t.Fatal("Spin() winner = nil, want an item")
	}
	if result.Winner != result.Pool[result.WinnerIndex] {
		t.Error("Spin() winner is not the pool element at WinnerIndex")
	}
	if len(result.Segments) != 4 {
		t.Errorf("Spin() segments = %d, want 4", len(result.Segments))
	}

	seg := result.Segments[result.WinnerIndex]
	midpoint := (seg.Start + seg.End) / 2
	wantRotation := float64(DefaultExtraTurns)*360 + 360 - midpoint
	if result.Rotation != wantRotation {
		t.Errorf("Spin() rotation = %v, want %v", result.Rotation, wantRotation)
	}
}

func TestService_Spin_EmptyPool(t *testing.T) {
	svc, tdb := newTestService(t, nil)
	defer tdb.Close()

	result, err := svc.Spin(context.Background(), SpinOptions{ExtraTurns: -1})
	if err != nil {
		t.Fatalf("Spin() on empty catalog error = %v, want nil", err)
	}
	if result.Winner != nil {
		t.Errorf("Spin() winner = %v, want nil", result.Winner)
	}
	if result.TotalPoolSize != 0 || len(result.Pool) != 0 {
		t.Errorf("Spin() pool size = %d, want 0", result.TotalPoolSize)
	}
	if result.WinnerIndex != -1 {
		t.Errorf("Spin() winner index = %d, want -1", result.WinnerIndex)
	}
}

func TestService_Spin_ScriptedWinner(t *testing.T) {
	svc, tdb := newTestService(t, &scriptedSource{draws: []int{2}})
	defer tdb.Close()
	ctx := context.Background()

	for _, title := range []string{"A", "B", "C", "D"} {
		mustCreate(t, svc, media.CreateInput{Type: media.TypeGame, Title: title})
	}

	result, err := svc.Spin(ctx, SpinOptions{ExtraTurns: 0})
	if err != nil {
		t.Fatalf("Spin() error = %v", err)
	}
	if result.WinnerIndex != 2 {
		t.Errorf("Spin() winner index = %d, want 2", result.WinnerIndex)
	}
	if result.Winner.ID != result.Pool[2].ID {
		t.Errorf("Spin() winner = %s, want pool[2] = %s", result.Winner.ID, result.Pool[2].ID)
	}
}

func TestService_Statistics(t *testing.T) {
	svc, tdb := newTestService(t, nil)
	defer tdb.Close()
	ctx := context.Background()
	seedCatalog(t, svc)

	stats, err := svc.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics() error = %v", err)
	}

	if stats.Total != 5 {
		t.Errorf("Total = %d, want 5", stats.Total)
	}
	if stats.Active != 4 {
		t.Errorf("Active = %d, want 4", stats.Active)
	}
	if stats.Archived != 1 {
		t.Errorf("Archived = %d, want 1", stats.Archived)
	}
	if stats.Games != 4 {
		t.Errorf("Games = %d, want 4", stats.Games)
	}
	if stats.Movies != 1 {
		t.Errorf("Movies = %d, want 1", stats.Movies)
	}
}

func TestStore_ListAll_StableOrder(t *testing.T) {
	svc, tdb := newTestService(t, nil)
	defer tdb.Close()
	ctx := context.Background()
	seedCatalog(t, svc)

	first, err := svc.List(ctx, ListOptions{IncludeArchived: true})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	second, err := svc.List(ctx, ListOptions{IncludeArchived: true})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("List() sizes differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("List() order not stable at position %d: %s vs %s", i, first[i].ID, second[i].ID)
		}
	}
}
