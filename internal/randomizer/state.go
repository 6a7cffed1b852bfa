package randomizer

import (
	"errors"
	"fmt"
	"sort"

	"neutopia-rando/internal/game"
	"neutopia-rando/internal/rom"
)

var (
	ErrUnknownLocation   = errors.New("no unassigned check at location")
	ErrUnknownItem       = errors.New("no such unplaced item")
	ErrAreaLockViolation = errors.New("item cannot leave its area")
	ErrUnfilled          = errors.New("placement incomplete")
	ErrBadCheck          = errors.New("check does not match a chest object")
)

// noAreaLock marks an item free to move between areas.
const noAreaLock = -1

// An Item is one chest content drawn from the pool, plus the area it is
// pinned to if the game can only resolve it there.
type Item struct {
	Chest    rom.Chest
	areaLock int
}

// Locked reports whether the item is pinned to one area.
func (it Item) Locked() bool { return it.areaLock != noAreaLock }

func (it Item) String() string {
	if it.Locked() {
		return fmt.Sprintf("%s (area %02x)", it.Chest.ItemName(), it.areaLock)
	}
	return it.Chest.ItemName()
}

// A Placement pairs a check with the item assigned to it.
type Placement struct {
	Check Check
	Item  Item
}

// State tracks one placement run. It starts with every seeded check
// unassigned and the pool holding exactly the items the game currently has
// at those checks, so the run can always finish: one item per check.
type State struct {
	game *game.Game

	unassigned map[LocationID]Check
	unplaced   []Item
	cleared    map[Gate]bool

	vanilla []Placement
	placed  []Placement
	refs    []game.ChestRef
}

// NewState seeds a placement run from the game's current chest contents at
// the catalog's checks. Medallions never enter the pool: a crypt's medallion
// marks that crypt's completion and stays where it is, so a check whose
// chest holds one is dropped rather than seeded. Crystal balls and crypt
// keys only work in the area that holds them, so they enter the pool locked
// to their source area.
func NewState(g *game.Game, checks []Check) (*State, error) {
	byLoc := make(map[LocationID]rom.Chest)
	for _, ref := range g.FilterChests(func(game.ChestRef) bool { return true }) {
		byLoc[LocationID{Area: ref.Area, Room: ref.Room, Index: ref.Index}] = ref.Info
	}

	s := &State{
		game:       g,
		unassigned: make(map[LocationID]Check, len(checks)),
		cleared:    make(map[Gate]bool),
	}
	for _, c := range checks {
		info, ok := byLoc[c.Loc()]
		if !ok {
			return nil, fmt.Errorf("%w: %q at %s", ErrBadCheck, c.Name, c.Loc())
		}
		if _, dup := s.unassigned[c.Loc()]; dup {
			return nil, fmt.Errorf("%w: %s (%q)", ErrDuplicateLocation, c.Loc(), c.Name)
		}
		if info.ItemID >= rom.ItemMedallionFirst {
			continue
		}

		it := Item{Chest: info, areaLock: noAreaLock}
		if info.ItemID == rom.ItemCrystalBall || info.ItemID == rom.ItemCryptKey {
			it.areaLock = int(c.Area)
		}
		s.unassigned[c.Loc()] = c
		s.unplaced = append(s.unplaced, it)
		s.vanilla = append(s.vanilla, Placement{Check: c, Item: it})
	}
	return s, nil
}

// Checks returns the unassigned checks passing pred, sorted by location. A
// nil pred selects everything.
func (s *State) Checks(pred func(Check) bool) []Check {
	locs := make([]LocationID, 0, len(s.unassigned))
	for loc, c := range s.unassigned {
		if pred == nil || pred(c) {
			locs = append(locs, loc)
		}
	}
	sort.Slice(locs, func(i, j int) bool {
		a, b := locs[i], locs[j]
		if a.Area != b.Area {
			return a.Area < b.Area
		}
		if a.Room != b.Room {
			return a.Room < b.Room
		}
		return a.Index < b.Index
	})

	checks := make([]Check, len(locs))
	for i, loc := range locs {
		checks[i] = s.unassigned[loc]
	}
	return checks
}

// OpenChecks returns the unassigned checks whose gates are all cleared.
func (s *State) OpenChecks() []Check {
	return s.Checks(func(c Check) bool { return c.open(s.cleared) })
}

// Items returns the unplaced items passing pred, in pool order. A nil pred
// selects everything.
func (s *State) Items(pred func(Item) bool) []Item {
	var items []Item
	for _, it := range s.unplaced {
		if pred == nil || pred(it) {
			items = append(items, it)
		}
	}
	return items
}

// ItemByID returns the first unplaced item with the given id.
func (s *State) ItemByID(id uint8) (Item, bool) {
	for _, it := range s.unplaced {
		if it.Chest.ItemID == id {
			return it, true
		}
	}
	return Item{}, false
}

// VanillaCheck returns the check the first item with the given id was
// seeded from.
func (s *State) VanillaCheck(id uint8) (Check, bool) {
	for _, p := range s.vanilla {
		if p.Item.Chest.ItemID == id {
			return p.Check, true
		}
	}
	return Check{}, false
}

// Place assigns an unplaced item to an unassigned location. Placing a
// progression item clears its gate; the unassigned/unplaced counts stay
// equal, so a run that places one item at a time can always finish.
func (s *State) Place(loc LocationID, it Item) error {
	c, ok := s.unassigned[loc]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownLocation, loc)
	}

	idx := -1
	for i, cand := range s.unplaced {
		if cand == it {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %v", ErrUnknownItem, it)
	}
	if it.Locked() && it.areaLock != int(c.Area) {
		return fmt.Errorf("%w: %v at %s", ErrAreaLockViolation, it, loc)
	}

	delete(s.unassigned, loc)
	s.unplaced = append(s.unplaced[:idx], s.unplaced[idx+1:]...)

	if g, ok := gateForItem(it.Chest.ItemID); ok {
		s.cleared[g] = true
	}

	s.placed = append(s.placed, Placement{Check: c, Item: it})
	s.refs = append(s.refs, game.ChestRef{
		Info:  it.Chest,
		Area:  c.Area,
		Room:  c.Room,
		Index: c.Index,
	})
	return nil
}

// Done reports whether every check has been assigned.
func (s *State) Done() bool {
	return len(s.unassigned) == 0 && len(s.unplaced) == 0
}

// Placements returns the assignments made so far, in placement order.
func (s *State) Placements() []Placement {
	return append([]Placement(nil), s.placed...)
}

// Finalize writes the completed assignment back into the game's chest
// tables.
func (s *State) Finalize() error {
	if !s.Done() {
		return fmt.Errorf("%w: %d checks and %d items remain",
			ErrUnfilled, len(s.unassigned), len(s.unplaced))
	}
	return s.game.UpdateChests(s.refs)
}
