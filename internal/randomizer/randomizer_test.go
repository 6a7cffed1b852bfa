package randomizer

import (
	"bytes"
	"errors"
	"testing"

	"neutopia-rando/internal/rom"
	"neutopia-rando/pkg/log"
)

// testSlots maps every catalog location of the test image to its chest
// table slot, derived from the chest object ids the builder placed.
var testSlots = [][2]int{
	{4, 0}, {4, 1}, {4, 2},
	{5, 0}, {5, 1}, {5, 2},
	{6, 0}, {6, 1},
}

func runPolicy(t *testing.T, typ RandoType, seed uint64) []byte {
	t.Helper()
	g := buildTestGame(t)
	out, err := randomize(g, testCatalog(), Config{Type: typ, Seed: seed}, log.NewNopLogger())
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func chestsAt(t *testing.T, img []byte) map[[2]int]rom.Chest {
	t.Helper()
	r, err := rom.New(img)
	if err != nil {
		t.Fatal(err)
	}
	got := make(map[[2]int]rom.Chest)
	for _, slot := range testSlots {
		got[slot] = r.ChestTables[slot[0]][slot[1]]
	}
	return got
}

func TestGlobalShuffleDeterminism(t *testing.T) {
	a := runPolicy(t, TypeGlobal, 0x1234)
	b := runPolicy(t, TypeGlobal, 0x1234)
	if !bytes.Equal(a, b) {
		t.Error("same seed produced different images")
	}
}

func TestGlobalShufflePreservesPool(t *testing.T) {
	got := chestsAt(t, runPolicy(t, TypeGlobal, 7))

	want := make(map[rom.Chest]int)
	for _, c := range testPool {
		want[c]++
	}
	have := make(map[rom.Chest]int)
	for _, c := range got {
		have[c]++
	}
	for c, n := range want {
		if have[c] != n {
			t.Errorf("pool not preserved: %s x%d became x%d", c.ItemName(), n, have[c])
		}
	}

	// the crystal ball must stay in its crypt
	ballArea := -1
	for slot, c := range got {
		if c == testPool["crystal ball"] {
			ballArea = slot[0]
		}
	}
	if ballArea != 4 {
		t.Errorf("area-locked crystal ball ended up in area %d", ballArea)
	}

	// the medallion never joins the shuffle
	if got[[2]int{4, 2}] != medallion {
		t.Errorf("medallion moved: %+v", got[[2]int{4, 2}])
	}
}

func TestLocalShufflePreservesAreas(t *testing.T) {
	got := chestsAt(t, runPolicy(t, TypeLocal, 99))

	byArea := func(chests map[[2]int]rom.Chest, area int) map[rom.Chest]int {
		m := make(map[rom.Chest]int)
		for slot, c := range chests {
			if slot[0] == area {
				m[c]++
			}
		}
		return m
	}
	vanilla := chestsAt(t, buildTestImage())
	for area := 4; area <= 6; area++ {
		want := byArea(vanilla, area)
		have := byArea(got, area)
		for c, n := range want {
			if have[c] != n {
				t.Errorf("area %d: %s x%d became x%d", area, c.ItemName(), n, have[c])
			}
		}
	}
}

func TestNoneLeavesChestsAlone(t *testing.T) {
	got := chestsAt(t, runPolicy(t, TypeNone, 1))
	want := chestsAt(t, buildTestImage())
	for slot, c := range want {
		if got[slot] != c {
			t.Errorf("slot %v changed: %+v -> %+v", slot, c, got[slot])
		}
	}
}

func TestRandomizeRejectsUnknownRom(t *testing.T) {
	_, _, err := Randomize(buildTestImage(), Config{Type: TypeGlobal, Seed: 1})
	if !errors.Is(err, rom.ErrUnknownRom) {
		t.Errorf("expected ErrUnknownRom, got %v", err)
	}
}

func TestRandomizeRejectsBadSize(t *testing.T) {
	_, _, err := Randomize(make([]byte, 0x1000), Config{Type: TypeGlobal, Seed: 1})
	if !errors.Is(err, rom.ErrInvalidRomSize) {
		t.Errorf("expected ErrInvalidRomSize, got %v", err)
	}
}

func TestEmbeddedPatchesWellFormed(t *testing.T) {
	buf := make([]byte, rom.Size)
	if err := applyPatches(buf); err != nil {
		t.Fatal(err)
	}
}

func TestParseRandoType(t *testing.T) {
	for s, want := range map[string]RandoType{
		"global": TypeGlobal,
		"local":  TypeLocal,
		"none":   TypeNone,
	} {
		got, err := ParseRandoType(s)
		if err != nil || got != want {
			t.Errorf("ParseRandoType(%q) = %v, %v", s, got, err)
		}
		if got.String() != s {
			t.Errorf("RandoType(%v).String() = %q", got, got.String())
		}
	}
	if _, err := ParseRandoType("chaos"); err == nil {
		t.Error("expected an error for an unknown type")
	}
}
