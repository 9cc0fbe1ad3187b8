package daily

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/robalobadob/wordplay/assets"
	"github.com/robalobadob/wordplay/internal/database"
	"github.com/robalobadob/wordplay/internal/words"
)

func TestSeedDeterministic(t *testing.T) {
	morning := time.Date(2024, 3, 9, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC)
	next := time.Date(2024, 3, 10, 0, 0, 1, 0, time.UTC)

	a := Seed(morning, "salt", "crossword")
	if b := Seed(evening, "salt", "crossword"); a != b {
		t.Errorf("same day seeds differ: %d vs %d", a, b)
	}
	if a < 0 {
		t.Errorf("seed %d is negative", a)
	}
	for name, other := range map[string]int64{
		"next day":   Seed(next, "salt", "crossword"),
		"other mode": Seed(morning, "salt", "wordsearch"),
		"other salt": Seed(morning, "pepper", "crossword"),
	} {
		if other == a {
			t.Errorf("%s gives the same seed", name)
		}
	}
	if got := DateKey(time.Date(2024, 3, 9, 23, 30, 0, 0, time.FixedZone("X", -2*3600))); got != "2024-03-10" {
		t.Errorf("DateKey %q, want 2024-03-10 (UTC)", got)
	}
}

func TestPick(t *testing.T) {
	var list []words.Word
	for i := 0; i < 20; i++ {
		list = append(list, words.Word{ID: fmt.Sprintf("w%d", i)})
	}
	a, b := Pick(list, 6, 42), Pick(list, 6, 42)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("Pick not deterministic:\n%s", diff)
	}
	if len(a) != 6 {
		t.Errorf("len %d, want 6", len(a))
	}
	if all := Pick(list, 0, 42); len(all) != 20 {
		t.Errorf("count 0 gave %d words, want 20", len(all))
	}
	if list[0].ID != "w0" {
		t.Error("Pick reordered its input")
	}
}

func openStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(context.Background(), db, assets.Migrations()); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`INSERT INTO users(id, username, password_hash, created_at) VALUES ('u1','ada','x','2024-01-01T00:00:00Z')`); err != nil {
		t.Fatal(err)
	}
	return NewStore(db)
}

func TestStoreOncePerDay(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	played, err := s.AlreadyPlayed(ctx, "u1", "anagram", "2024-03-09")
	if err != nil || played {
		t.Fatalf("AlreadyPlayed = %v, %v; want false", played, err)
	}
	ok, err := s.InsertResult(ctx, Result{ProfileID: "u1", Mode: "anagram", Date: "2024-03-09", Score: 90, ElapsedS: 20})
	if err != nil || !ok {
		t.Fatalf("InsertResult = %v, %v", ok, err)
	}
	ok, err = s.InsertResult(ctx, Result{ProfileID: "u1", Mode: "anagram", Date: "2024-03-09", Score: 150, ElapsedS: 5})
	if err != nil || ok {
		t.Errorf("second InsertResult = %v, %v; want ignored", ok, err)
	}
	if played, _ := s.AlreadyPlayed(ctx, "u1", "anagram", "2024-03-09"); !played {
		t.Error("AlreadyPlayed false after a result")
	}
	if played, _ := s.AlreadyPlayed(ctx, "u1", "crossword", "2024-03-09"); played {
		t.Error("a result in one mode blocks another mode")
	}
}

func TestLeaderboardOrder(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	for _, r := range []Result{
		{ProfileID: "guest-a", Score: 100, ElapsedS: 50},
		{ProfileID: "u1", Score: 100, ElapsedS: 30},
		{ProfileID: "guest-b", Score: 40, ElapsedS: 10},
		{ProfileID: "guest-c", Score: 120, ElapsedS: 90},
	} {
		r.Mode, r.Date = "wordsearch", "2024-03-09"
		if _, err := s.InsertResult(ctx, r); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.InsertResult(ctx, Result{ProfileID: "guest-d", Mode: "wordsearch", Date: "2024-03-08", Score: 999}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Leaderboard(ctx, "wordsearch", "2024-03-09", 3)
	if err != nil {
		t.Fatal(err)
	}
	want := []LBRow{
		{Player: GuestName("guest-c"), Guest: true, Score: 120, ElapsedS: 90},
		{Player: "ada", Score: 100, ElapsedS: 30},
		{Player: GuestName("guest-a"), Guest: true, Score: 100, ElapsedS: 50},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Leaderboard mismatch (-want +got):\n%s", diff)
	}
}

func TestGuestNameHidesProfile(t *testing.T) {
	id := "anon-6f1c2d3e-aaaa-bbbb-cccc-1234567890ab"
	name := GuestName(id)
	if name != GuestName(id) {
		t.Error("GuestName not stable")
	}
	if len(name) != len("guest-")+8 || name == id {
		t.Errorf("GuestName(%q) = %q", id, name)
	}
}
