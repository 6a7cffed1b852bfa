// Package game provides the mutable, higher-level view of a parsed ROM:
// chest queries and updates, the conditional object side-channel, and
// re-serialization of a modified game into a new image.
package game

import (
	"bytes"
	"errors"
	"fmt"

	"neutopia-rando/internal/rom"
)

// Consistency errors: these indicate a logic bug in the caller, not bad
// input data.
var (
	ErrIncoherentChest = errors.New("chest reference does not match room contents")
	ErrFinalized       = errors.New("game has already been written")
	ErrOverrun         = errors.New("packed room data exceeds the original footprint")
)

// ChestRef names one chest-bearing object and the chest it currently
// yields. Index is the ordinal of the chest-bearing object within its room,
// not a chest-table slot; UpdateChests re-derives the slot from the room.
type ChestRef struct {
	Info  rom.Chest
	Area  uint8
	Room  uint8
	Index uint8
}

type roomState struct {
	warp    []byte
	enemy   []byte
	objects []rom.TableEntry
}

// Game is built from a parsed Rom, mutated through UpdateChests, and
// consumed exactly once by Write.
type Game struct {
	rom *rom.Rom
	raw []byte

	// rooms indexed by (area, room); chests indexed by area
	rooms  [][]roomState
	chests [][]rom.Chest

	// conditional record pairs spliced out of object tables at parse time,
	// keyed per area by the chest content they were attached to
	conditionals []map[rom.Chest][]rom.TableEntry

	written bool
}

// New parses data (a header-stripped image) and extracts the conditional
// object pairs from every room.
func New(data []byte) (*Game, error) {
	r, err := rom.New(data)
	if err != nil {
		return nil, err
	}

	g := &Game{
		rom:          r,
		raw:          bytes.Clone(data),
		conditionals: make([]map[rom.Chest][]rom.TableEntry, rom.ChestTableCount),
	}

	for area, rooms := range r.Rooms {
		states := make([]roomState, len(rooms))
		for idx, room := range rooms {
			objects, err := rom.ParseObjectTable(room.ObjectTable)
			if err != nil {
				return nil, fmt.Errorf("area %02x room %02x: %w", area, idx, err)
			}
			states[idx] = roomState{
				warp:    bytes.Clone(room.WarpTable),
				enemy:   bytes.Clone(room.EnemyTable),
				objects: objects,
			}
		}
		g.rooms = append(g.rooms, states)
	}

	for _, table := range r.ChestTables {
		g.chests = append(g.chests, append([]rom.Chest(nil), table...))
	}

	for area := 0; area < rom.ChestTableCount; area++ {
		g.conditionals[area] = g.extractConditionals(area)
	}

	return g, nil
}

// extractConditionals splices conditional record pairs out of the area's
// object tables. Only the first qualifying triple per room is extracted;
// rooms with a second independent pair have never been observed and the
// write side reinserts exactly one pair per room.
func (g *Game) extractConditionals(area int) map[rom.Chest][]rom.TableEntry {
	found := make(map[rom.Chest][]rom.TableEntry)
	for idx := range g.rooms[area] {
		room := &g.rooms[area][idx]
		if len(room.objects) <= 2 {
			continue
		}
		for i := 0; i < len(room.objects)-2; i++ {
			id, ok := rom.ChestID(room.objects[i])
			if !ok || !rom.IsConditional(room.objects[i+1]) {
				continue
			}
			key := g.chests[area][id]
			pair := []rom.TableEntry{room.objects[i+1], room.objects[i+2]}
			room.objects = append(room.objects[:i+1], room.objects[i+3:]...)
			found[key] = pair
			break
		}
	}
	return found
}

// FilterChests returns a ref for every chest-bearing object whose current
// chest passes the predicate. Traversal order is fixed: area, then room,
// then object order, so output is deterministic.
func (g *Game) FilterChests(pred func(ChestRef) bool) []ChestRef {
	var refs []ChestRef
	for area := 0; area < rom.ChestTableCount; area++ {
		for idx := range g.rooms[area] {
			ordinal := uint8(0)
			for _, e := range g.rooms[area][idx].objects {
				id, ok := rom.ChestID(e)
				if !ok {
					continue
				}
				ref := ChestRef{
					Info:  g.chests[area][id],
					Area:  uint8(area),
					Room:  uint8(idx),
					Index: ordinal,
				}
				if pred(ref) {
					refs = append(refs, ref)
				}
				ordinal++
			}
		}
	}
	return refs
}

// UpdateChests rewrites the chest-table slots behind the given refs. Each
// ref's slot is re-derived by scanning its room for the Index-th
// chest-bearing object.
func (g *Game) UpdateChests(refs []ChestRef) error {
	if g.written {
		return ErrFinalized
	}
	for _, ref := range refs {
		if int(ref.Area) >= len(g.chests) || int(ref.Room) >= len(g.rooms[ref.Area]) {
			return fmt.Errorf("%w: no such room %02x:%02x", ErrIncoherentChest, ref.Area, ref.Room)
		}
		slot, err := g.chestSlot(ref)
		if err != nil {
			return err
		}
		g.chests[ref.Area][slot] = ref.Info
	}
	return nil
}

func (g *Game) chestSlot(ref ChestRef) (uint8, error) {
	ordinal := uint8(0)
	for _, e := range g.rooms[ref.Area][ref.Room].objects {
		id, ok := rom.ChestID(e)
		if !ok {
			continue
		}
		if ordinal == ref.Index {
			return id, nil
		}
		ordinal++
	}
	return 0, fmt.Errorf("%w: room %02x:%02x has no chest object %d",
		ErrIncoherentChest, ref.Area, ref.Room, ref.Index)
}

// AreaName returns a human readable name for an area index.
func AreaName(area uint8) string {
	switch {
	case area < 0x4:
		return fmt.Sprintf("Sphere %d Overworld", area+1)
	case area < 0xc:
		return fmt.Sprintf("Crypt %d", area-0x4+1)
	case area < 0x10:
		return fmt.Sprintf("Sphere %d Interiors", area-0xc+1)
	case area == 0x10:
		return "Endgame"
	default:
		return fmt.Sprintf("Area %02x", area)
	}
}
