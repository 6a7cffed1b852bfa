// Package rom implements the binary model of the Neutopia ROM image: the
// bank-relative pointer encoding, the per-room warp/enemy/object tables and
// the per-area chest tables.
package rom

import (
	"bytes"
	"fmt"

	"neutopia-rando/pkg/interval"
)

// Room holds one room's raw sub-tables. The pointers are retained as
// provenance only; rooms are addressed by (area, room) index.
type Room struct {
	BaseAddr uint32

	WarpPointer   uint32
	EnemyPointer  uint32
	ObjectPointer uint32

	WarpTable   []byte
	EnemyTable  []byte
	ObjectTable []byte
}

// Rom is the structured, read-only view of a verified image.
type Rom struct {
	AreaPointers       []uint32
	RoomOrderPointers  []uint32
	ChestTablePointers []uint32

	// RoomOrderTables and Rooms are indexed by area; Rooms by (area, room).
	RoomOrderTables [][]byte
	Rooms           [][]Room
	ChestTables     [][]Chest

	claimed []interval.Store[uint32]
}

// New walks the image's top-level pointer tables and every room's
// sub-tables into a structured Rom. data must be the header-stripped image.
func New(data []byte) (*Rom, error) {
	if len(data) < Size {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncatedRom, len(data))
	}

	areaPtrs, err := DecodePointerTable(data[AreaTable:], AreaTableCount)
	if err != nil {
		return nil, fmt.Errorf("area table: %w", err)
	}
	roomOrderPtrs, err := DecodePointerTable(data[RoomOrderTable:], RoomOrderTableCount)
	if err != nil {
		return nil, fmt.Errorf("room order table: %w", err)
	}
	chestPtrs, err := DecodePointerTable(data[ChestTable:], ChestTableCount)
	if err != nil {
		return nil, fmt.Errorf("chest table: %w", err)
	}

	r := &Rom{
		AreaPointers:       areaPtrs,
		RoomOrderPointers:  roomOrderPtrs,
		ChestTablePointers: chestPtrs,
		claimed:            make([]interval.Store[uint32], len(areaPtrs)),
	}

	for area, areaPtr := range areaPtrs {
		claimed := &r.claimed[area]
		claimed.Add(areaPtr, areaPtr+RoomCount*3)

		rooms := make([]Room, RoomCount)
		for idx := range rooms {
			room, err := parseRoom(data, areaPtr+uint32(idx)*3, claimed)
			if err != nil {
				return nil, fmt.Errorf("area %02x room %02x: %w", area, idx, err)
			}
			rooms[idx] = room
		}
		r.Rooms = append(r.Rooms, rooms)
	}

	for area, ptr := range roomOrderPtrs {
		if int(ptr)+RoomCount > len(data) {
			return nil, fmt.Errorf("%w: room order table for area %02x at %05x", ErrTruncatedRom, area, ptr)
		}
		r.RoomOrderTables = append(r.RoomOrderTables, bytes.Clone(data[ptr:ptr+RoomCount]))
	}

	for area, ptr := range chestPtrs {
		if int(ptr) > len(data) {
			return nil, fmt.Errorf("%w: chest table for area %02x at %05x", ErrTruncatedRom, area, ptr)
		}
		table, err := ParseChestTable(data[ptr:])
		if err != nil {
			return nil, fmt.Errorf("chest table for area %02x: %w", area, err)
		}
		r.ChestTables = append(r.ChestTables, table)
	}

	return r, nil
}

func parseRoom(data []byte, descPtrOffset uint32, claimed *interval.Store[uint32]) (Room, error) {
	if int(descPtrOffset)+3 > len(data) {
		return Room{}, fmt.Errorf("%w: room pointer at %05x", ErrTruncatedRom, descPtrOffset)
	}
	base, err := DecodePointer(data[descPtrOffset:])
	if err != nil {
		return Room{}, fmt.Errorf("room pointer: %w", err)
	}
	if int(base)+3*3 > len(data) {
		return Room{}, fmt.Errorf("%w: room descriptor at %05x", ErrTruncatedRom, base)
	}

	// each descriptor is three pointers: warp, enemy, object, and the three
	// tables are laid out contiguously in that order
	ptrs, err := DecodePointerTable(data[base:], 3)
	if err != nil {
		return Room{}, fmt.Errorf("room table pointers: %w", err)
	}
	warpPtr, enemyPtr, objectPtr := ptrs[0], ptrs[1], ptrs[2]
	claimed.Add(base, base+3*3)

	if warpPtr > enemyPtr || int(enemyPtr) > len(data) {
		return Room{}, fmt.Errorf("%w: warp table [%05x, %05x)", ErrTruncatedRom, warpPtr, enemyPtr)
	}
	warpTable := bytes.Clone(data[warpPtr:enemyPtr])

	end := bytes.IndexByte(data[enemyPtr:], TableEnd)
	if end < 0 {
		return Room{}, fmt.Errorf("%w: unterminated enemy table at %05x", ErrTruncatedRom, enemyPtr)
	}
	enemyTable := bytes.Clone(data[enemyPtr : enemyPtr+uint32(end)])

	if int(objectPtr) > len(data) {
		return Room{}, fmt.Errorf("%w: object table at %05x", ErrTruncatedRom, objectPtr)
	}
	n, err := ObjectTableLen(data[objectPtr:])
	if err != nil {
		return Room{}, fmt.Errorf("object table at %05x: %w", objectPtr, err)
	}
	objectTable := bytes.Clone(data[objectPtr : objectPtr+uint32(n)])

	claimed.Add(warpPtr, warpPtr+uint32(len(warpTable)))
	claimed.Add(enemyPtr, enemyPtr+uint32(len(enemyTable))+1)
	claimed.Add(objectPtr, objectPtr+uint32(n)+1)

	return Room{
		BaseAddr:      base,
		WarpPointer:   warpPtr,
		EnemyPointer:  enemyPtr,
		ObjectPointer: objectPtr,
		WarpTable:     warpTable,
		EnemyTable:    enemyTable,
		ObjectTable:   objectTable,
	}, nil
}

// Claimed returns the byte ranges the parse accounted for in the given
// area's data. Gaps or unexpected overlaps indicate the layout was not fully
// understood; verification tooling inspects this, the randomizer does not.
func (r *Rom) Claimed(area int) []interval.Interval[uint32] {
	return r.claimed[area].Intervals()
}
