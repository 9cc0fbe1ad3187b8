package words

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testBank() *Bank {
	return New(map[string][]Word{
		"A1": {
			{ID: "1", Word: "apple", Level: "A1"},
			{ID: "2", Word: "house", Level: "A1"},
			{ID: "3", Word: "water", Level: "A1"},
			{ID: "3", Word: "duplicate", Level: "A1"},
		},
		"B1": {
			{ID: "4", Word: "harvest", Level: "B1"},
		},
		"Z9": {},
	}, 42)
}

func TestLevelsOrder(t *testing.T) {
	got := testBank().Levels()
	want := []string{"A1", "B1", "Z9"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Levels mismatch (-want +got):\n%s", diff)
	}
}

func TestRandomWordExcludes(t *testing.T) {
	b := testBank()
	for i := 0; i < 50; i++ {
		w, ok := b.RandomWord("A1", "1", "2")
		if !ok {
			t.Fatal("RandomWord returned false with words available")
		}
		if w.ID != "3" {
			t.Fatalf("RandomWord picked excluded id %q", w.ID)
		}
	}
	if _, ok := b.RandomWord("A1", "1", "2", "3"); ok {
		t.Error("RandomWord should report false when everything is excluded")
	}
	if _, ok := b.RandomWord("nope"); ok {
		t.Error("RandomWord should report false for an unknown level")
	}
}

func TestRandomWordsScarcity(t *testing.T) {
	b := testBank()
	got := b.RandomWords("B1", 6)
	if len(got) != 1 {
		t.Fatalf("len(RandomWords) %d, want 1", len(got))
	}
	if got := b.RandomWords("A1", 2); len(got) != 2 {
		t.Errorf("len(RandomWords) %d, want 2", len(got))
	}
	if got := b.RandomWords("A1", -1); len(got) != 0 {
		t.Errorf("negative count returned %d words", len(got))
	}
}

func TestRandomWordsDoesNotMutateDataset(t *testing.T) {
	b := testBank()
	before := b.WordsByLevel("A1")
	for i := 0; i < 10; i++ {
		b.RandomWords("A1", 4)
	}
	if diff := cmp.Diff(before, b.WordsByLevel("A1")); diff != "" {
		t.Errorf("dataset changed (-before +after):\n%s", diff)
	}
}

func TestWordByIDFirstMatch(t *testing.T) {
	w, ok := testBank().WordByID("3")
	if !ok {
		t.Fatal("WordByID did not find id 3")
	}
	if w.Word != "water" {
		t.Errorf("WordByID = %q, want first match water", w.Word)
	}
}

func TestParseInheritsLevel(t *testing.T) {
	raw := `{"B2": [{"id": "x", "word": "durable"}]}`
	b, err := Load(strings.NewReader(raw), 1)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := b.WordsByLevel("B2")
	if len(got) != 1 || got[0].Level != "B2" {
		t.Errorf("WordsByLevel(B2) = %+v", got)
	}
	if _, err := Parse([]byte(`{}`), 1); err == nil {
		t.Error("Parse of empty dataset should fail")
	}
	if _, err := Parse([]byte(`not json`), 1); err == nil {
		t.Error("Parse of invalid JSON should fail")
	}
}

func TestInitEmbedded(t *testing.T) {
	t.Setenv("VOCAB_FILE", "")
	if err := Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	b := Default()
	if b.Total() == 0 {
		t.Fatal("embedded dataset is empty")
	}
	for _, lvl := range DefaultLevels {
		if len(b.WordsByLevel(lvl)) == 0 {
			t.Errorf("level %s has no words", lvl)
		}
	}
}

func TestIsAlpha(t *testing.T) {
	cases := map[string]bool{"apple": true, "Apple": true, "": false, "ice-cream": false, "two words": false}
	for in, want := range cases {
		if got := IsAlpha(in); got != want {
			t.Errorf("IsAlpha(%q) = %v, want %v", in, got, want)
		}
	}
}
