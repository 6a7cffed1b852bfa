package randomizer

import (
	"errors"
	"testing"

	"neutopia-rando/internal/game"
	"neutopia-rando/internal/rom"
	"neutopia-rando/internal/rom/romtest"
)

// testPool is every shuffleable chest content the test image holds at
// catalog locations: one area-locked item, all four gate items and two
// fillers. The medallion at crypt 1's boss hoard is deliberately absent: it
// marks crypt completion and must never enter the pool.
var testPool = map[string]rom.Chest{
	"crystal ball": {ItemID: rom.ItemCrystalBall, Text: 0x01},
	"fire wand":    {ItemID: rom.ItemFireWand, Text: 0x02},
	"sky bell":     {ItemID: rom.ItemSkyBell, Text: 0x04},
	"falcon shoes": {ItemID: rom.ItemFalconShoes, Text: 0x05},
	"rainbow drop": {ItemID: rom.ItemRainbowDrop, Text: 0x06},
	"medicine":     {ItemID: rom.ItemMedicine, Text: 0x07},
	"bombs":        {ItemID: 0x00, Arg: 5, Text: 0x08},
}

var medallion = rom.Chest{ItemID: rom.ItemMedallionFirst, Text: 0x03}

func buildTestImage() []byte {
	chest := func(area, room int, id uint8) (int, int, romtest.RoomSpec) {
		return area, room, romtest.RoomSpec{
			Objects: []rom.TableEntry{rom.Object{Info: rom.ObjectInfo{X: 4, Y: 4, ID: id}}},
		}
	}

	chests4 := make([]rom.Chest, rom.ChestsPerArea)
	chests4[0] = testPool["crystal ball"]
	chests4[1] = testPool["fire wand"]
	chests4[2] = medallion
	chests5 := make([]rom.Chest, rom.ChestsPerArea)
	chests5[0] = testPool["sky bell"]
	chests5[1] = testPool["falcon shoes"]
	chests5[2] = testPool["rainbow drop"]
	chests6 := make([]rom.Chest, rom.ChestsPerArea)
	chests6[0] = testPool["medicine"]
	chests6[1] = testPool["bombs"]

	b := romtest.NewBuilder().
		SetChests(4, chests4).
		SetChests(5, chests5).
		SetChests(6, chests6)
	b.SetRoom(chest(4, 2, 0x4c))
	b.SetRoom(chest(4, 9, 0x4d))
	b.SetRoom(chest(4, 27, 0x4e))
	b.SetRoom(chest(5, 6, 0x4c))
	b.SetRoom(chest(5, 15, 0x4d))
	b.SetRoom(chest(5, 30, 0x4e))
	b.SetRoom(chest(6, 3, 0x4c))
	b.SetRoom(chest(6, 20, 0x4d))
	return b.Build()
}

func buildTestGame(t *testing.T) *game.Game {
	t.Helper()
	g, err := game.New(buildTestImage())
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func testCatalog() []Check {
	return []Check{
		{Name: "crypt 1 - entry", Area: 4, Room: 2},
		{Name: "crypt 1 - side", Area: 4, Room: 9},
		{Name: "crypt 1 - boss", Area: 4, Room: 27},
		{Name: "crypt 2 - entry", Area: 5, Room: 6},
		{Name: "crypt 2 - mid", Area: 5, Room: 15},
		{Name: "crypt 2 - boss", Area: 5, Room: 30, Gates: []Gate{GateSkyBell}},
		{Name: "crypt 3 - entry", Area: 6, Room: 3},
		{Name: "crypt 3 - vault", Area: 6, Room: 20, Gates: []Gate{GateFireWand}},
	}
}

func newTestState(t *testing.T) *State {
	t.Helper()
	s, err := NewState(buildTestGame(t), testCatalog())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNewStateSeedsPool(t *testing.T) {
	s := newTestState(t)

	// the medallion location drops out, everything else is seeded
	if got := len(s.Checks(nil)); got != len(testPool) {
		t.Errorf("expected %d unassigned checks, got %d", len(testPool), got)
	}
	if got := len(s.Items(nil)); got != len(testPool) {
		t.Errorf("expected %d unplaced items, got %d", len(testPool), got)
	}

	locked := s.Items(Item.Locked)
	if len(locked) != 1 || locked[0].Chest != testPool["crystal ball"] || locked[0].areaLock != 4 {
		t.Errorf("expected the crystal ball locked to area 4, got %v", locked)
	}
}

func TestNewStateExcludesMedallions(t *testing.T) {
	s := newTestState(t)

	for _, it := range s.Items(nil) {
		if it.Chest.IsMedallion() {
			t.Errorf("medallion entered the pool: %v", it)
		}
	}
	for _, c := range s.Checks(nil) {
		if c.Loc() == (LocationID{Area: 4, Room: 27}) {
			t.Errorf("medallion-holding location seeded as a check: %+v", c)
		}
	}
	if err := s.Place(LocationID{Area: 4, Room: 27}, Item{Chest: medallion}); !errors.Is(err, ErrUnknownLocation) {
		t.Errorf("expected ErrUnknownLocation for medallion location, got %v", err)
	}
}

func TestNewStateBadCheck(t *testing.T) {
	g := buildTestGame(t)
	_, err := NewState(g, []Check{{Name: "nowhere", Area: 4, Room: 33}})
	if !errors.Is(err, ErrBadCheck) {
		t.Errorf("expected ErrBadCheck, got %v", err)
	}
}

func TestNewStateDuplicateLocation(t *testing.T) {
	g := buildTestGame(t)
	_, err := NewState(g, []Check{
		{Name: "front door", Area: 4, Room: 2},
		{Name: "back door", Area: 4, Room: 2},
	})
	if !errors.Is(err, ErrDuplicateLocation) {
		t.Errorf("expected ErrDuplicateLocation, got %v", err)
	}
}

func TestPlaceErrors(t *testing.T) {
	s := newTestState(t)
	wand, ok := s.ItemByID(rom.ItemFireWand)
	if !ok {
		t.Fatal("fire wand missing from pool")
	}

	if err := s.Place(LocationID{Area: 7, Room: 1}, wand); !errors.Is(err, ErrUnknownLocation) {
		t.Errorf("expected ErrUnknownLocation, got %v", err)
	}

	ball, _ := s.ItemByID(rom.ItemCrystalBall)
	if err := s.Place(LocationID{Area: 5, Room: 6}, ball); !errors.Is(err, ErrAreaLockViolation) {
		t.Errorf("expected ErrAreaLockViolation, got %v", err)
	}

	entry := LocationID{Area: 4, Room: 2}
	if err := s.Place(entry, wand); err != nil {
		t.Fatal(err)
	}
	if err := s.Place(LocationID{Area: 4, Room: 9}, wand); !errors.Is(err, ErrUnknownItem) {
		t.Errorf("expected ErrUnknownItem on double placement, got %v", err)
	}
	if err := s.Place(entry, ball); !errors.Is(err, ErrUnknownLocation) {
		t.Errorf("expected ErrUnknownLocation on used check, got %v", err)
	}
}

func TestGateClearing(t *testing.T) {
	s := newTestState(t)

	open := make(map[LocationID]bool)
	for _, c := range s.OpenChecks() {
		open[c.Loc()] = true
	}
	vault := LocationID{Area: 6, Room: 20}
	boss2 := LocationID{Area: 5, Room: 30}
	if open[vault] || open[boss2] {
		t.Fatalf("gated checks open before their gates cleared: %v", open)
	}
	if len(open) != 5 {
		t.Fatalf("expected 5 open checks, got %d", len(open))
	}

	wand, _ := s.ItemByID(rom.ItemFireWand)
	if err := s.Place(LocationID{Area: 4, Room: 2}, wand); err != nil {
		t.Fatal(err)
	}

	open = make(map[LocationID]bool)
	for _, c := range s.OpenChecks() {
		open[c.Loc()] = true
	}
	if !open[vault] {
		t.Error("fire wand placement did not open the fire-wand gated check")
	}
	if open[boss2] {
		t.Error("sky-bell gated check opened without the bell")
	}
}

func TestFinalizeUnfilled(t *testing.T) {
	s := newTestState(t)
	if err := s.Finalize(); !errors.Is(err, ErrUnfilled) {
		t.Errorf("expected ErrUnfilled, got %v", err)
	}
}

func TestFinalizeVanilla(t *testing.T) {
	g := buildTestGame(t)
	s, err := NewState(g, testCatalog())
	if err != nil {
		t.Fatal(err)
	}

	// placing everything back where it came from must reproduce the input
	// chest tables
	for _, p := range s.vanilla {
		if err := s.Place(p.Check.Loc(), p.Item); err != nil {
			t.Fatal(err)
		}
	}
	if !s.Done() {
		t.Fatal("state not done after placing the whole pool")
	}
	if err := s.Finalize(); err != nil {
		t.Fatal(err)
	}

	out, err := g.Write(game.DefaultWriteConfig())
	if err != nil {
		t.Fatal(err)
	}
	r, err := rom.New(out)
	if err != nil {
		t.Fatal(err)
	}
	if r.ChestTables[4][0] != testPool["crystal ball"] ||
		r.ChestTables[5][2] != testPool["rainbow drop"] ||
		r.ChestTables[6][1] != testPool["bombs"] {
		t.Error("vanilla placement changed chest contents")
	}
	if r.ChestTables[4][2] != medallion {
		t.Errorf("medallion moved: %+v", r.ChestTables[4][2])
	}
}
