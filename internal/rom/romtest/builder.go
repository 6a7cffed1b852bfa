// Package romtest builds synthetic ROM images with the real table layout so
// package tests can exercise the parser, the game model and the randomizer
// without shipping a copyrighted image.
package romtest

import (
	"fmt"

	"neutopia-rando/internal/rom"
)

// RoomSpec describes one room's sub-tables. Enemy and object tables are
// given without their 0xff terminators.
type RoomSpec struct {
	Warp    []byte
	Enemy   []byte
	Objects []rom.TableEntry
}

// Builder assembles a header-stripped image. Every area starts out with
// empty rooms and an all-zero chest table; tests override what they need.
type Builder struct {
	chests map[int][]rom.Chest
	rooms  map[[2]int]RoomSpec
}

func NewBuilder() *Builder {
	return &Builder{
		chests: make(map[int][]rom.Chest),
		rooms:  make(map[[2]int]RoomSpec),
	}
}

// SetChests sets an area's chest table. len(chests) must be
// rom.ChestsPerArea.
func (b *Builder) SetChests(area int, chests []rom.Chest) *Builder {
	if len(chests) != rom.ChestsPerArea {
		panic(fmt.Sprintf("chest table must have %d entries, got %d", rom.ChestsPerArea, len(chests)))
	}
	b.chests[area] = chests
	return b
}

// SetRoom overrides one room's contents.
func (b *Builder) SetRoom(area, room int, spec RoomSpec) *Builder {
	b.rooms[[2]int{area, room}] = spec
	return b
}

// Build lays the configured areas out into a rom.Size image.
func (b *Builder) Build() []byte {
	img := make([]byte, rom.Size)
	cur := uint32(0x8000)

	putPtr := func(at uint32, target uint32) {
		p := rom.EncodePointer(target)
		copy(img[at:], p[:])
	}

	for area := 0; area < rom.AreaTableCount; area++ {
		putPtr(rom.AreaTable+uint32(area)*3, cur)
		roomPtrs := cur
		cur += rom.RoomCount * 3

		for idx := 0; idx < rom.RoomCount; idx++ {
			spec := b.rooms[[2]int{area, idx}]

			putPtr(roomPtrs+uint32(idx)*3, cur)
			desc := cur
			cur += 3 * 3

			warpPtr := cur
			cur += uint32(copy(img[cur:], spec.Warp))

			enemyPtr := cur
			cur += uint32(copy(img[cur:], spec.Enemy))
			img[cur] = rom.TableEnd
			cur++

			objectPtr := cur
			cur += uint32(copy(img[cur:], rom.WriteObjectTable(spec.Objects)))
			img[cur] = rom.TableEnd
			cur++

			putPtr(desc, warpPtr)
			putPtr(desc+3, enemyPtr)
			putPtr(desc+6, objectPtr)
		}
	}

	for area := 0; area < rom.RoomOrderTableCount; area++ {
		putPtr(rom.RoomOrderTable+uint32(area)*3, cur)
		for i := 0; i < rom.RoomCount; i++ {
			img[cur] = byte(i)
			cur++
		}
	}

	for area := 0; area < rom.ChestTableCount; area++ {
		table := b.chests[area]
		if table == nil {
			table = make([]rom.Chest, rom.ChestsPerArea)
		}
		putPtr(rom.ChestTable+uint32(area)*3, cur)
		cur += uint32(copy(img[cur:], rom.WriteChestTable(table)))
	}

	if cur >= rom.Size {
		panic("synthetic image overflowed the rom size")
	}
	return img
}
