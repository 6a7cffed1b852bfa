package game

import (
	"fmt"

	"neutopia-rando/internal/rom"
)

// WriteConfig bounds the area range whose chest tables and room data are
// relocated on write. Areas outside the range keep their original bytes.
type WriteConfig struct {
	FirstArea int
	LastArea  int
}

// DefaultWriteConfig covers the eight crypts.
func DefaultWriteConfig() WriteConfig {
	return WriteConfig{FirstArea: 0x4, LastArea: 0xb}
}

// imageWriter is a growable byte buffer with an owned position cursor, used
// for the seek/backpatch/seek-forward pattern of the room write loop. It is
// the only writer of the output image.
type imageWriter struct {
	buf []byte
	pos int
}

func (w *imageWriter) seek(off int) {
	w.pos = off
}

func (w *imageWriter) write(p []byte) {
	if end := w.pos + len(p); end > len(w.buf) {
		w.buf = append(w.buf, make([]byte, end-len(w.buf))...)
	}
	copy(w.buf[w.pos:], p)
	w.pos += len(p)
}

func (w *imageWriter) writePointer(target uint32) {
	p := rom.EncodePointer(target)
	w.write(p[:])
}

// Write re-serializes the game into a full image. Chest tables in the
// configured range are relocated to the fixed free-space region; room data
// is packed area after area starting at the first area's original offset,
// with the room, area and chest pointers backpatched. The output can be
// larger than the input since reattached conditionals grow object tables.
// The game is consumed: further writes or updates fail.
func (g *Game) Write(cfg WriteConfig) ([]byte, error) {
	if g.written {
		return nil, ErrFinalized
	}
	if cfg.FirstArea < 0 || cfg.LastArea >= rom.ChestTableCount || cfg.FirstArea > cfg.LastArea {
		return nil, fmt.Errorf("invalid write config: areas %02x..%02x", cfg.FirstArea, cfg.LastArea)
	}
	g.written = true

	// rooms are repacked in place, so the packed range must stay inside the
	// byte range the original areas occupied or data past the range (the
	// endgame area in particular) gets clobbered
	footprint := uint32(0)
	for area := cfg.FirstArea; area <= cfg.LastArea; area++ {
		for _, iv := range g.rom.Claimed(area) {
			if iv.End > footprint {
				footprint = iv.End
			}
		}
	}

	w := &imageWriter{buf: append([]byte(nil), g.raw...)}

	// relocated chest tables first; the room pass reads nothing back
	for area := cfg.FirstArea; area <= cfg.LastArea; area++ {
		offset := uint32(rom.FreeSpace + 0x20*area)
		w.seek(int(offset))
		w.write(rom.WriteChestTable(g.chests[area]))

		w.seek(rom.ChestTable + 3*area)
		w.writePointer(offset)
	}

	cur := g.rom.AreaPointers[cfg.FirstArea]
	for area := cfg.FirstArea; area <= cfg.LastArea; area++ {
		roomPtrs := make([]byte, 0, rom.RoomCount*3)
		roomPtrsOffset := cur

		// room data goes directly after the room pointer table
		w.seek(int(cur) + rom.RoomCount*3)

		for idx := range g.rooms[area] {
			room := g.rooms[area][idx]
			objects := g.reattachConditionals(area, room.objects)

			p := rom.EncodePointer(uint32(w.pos))
			roomPtrs = append(roomPtrs, p[:]...)

			// skip the three sub-table pointers, backpatch them below
			descriptor := w.pos
			w.seek(descriptor + 3*3)

			warpPtr := uint32(w.pos)
			w.write(room.warp)

			enemyPtr := uint32(w.pos)
			w.write(room.enemy)
			w.write([]byte{rom.TableEnd})

			objectPtr := uint32(w.pos)
			w.write(rom.WriteObjectTable(objects))
			w.write([]byte{rom.TableEnd})

			end := w.pos
			w.seek(descriptor)
			w.writePointer(warpPtr)
			w.writePointer(enemyPtr)
			w.writePointer(objectPtr)
			w.seek(end)
		}

		// the next area starts where this one ended
		cur = uint32(w.pos)

		w.seek(int(roomPtrsOffset))
		w.write(roomPtrs)

		w.seek(rom.AreaTable + 3*area)
		w.writePointer(roomPtrsOffset)

		if cur > footprint {
			return nil, fmt.Errorf("%w: area %02x ends at %05x, original data ends at %05x",
				ErrOverrun, area, cur, footprint)
		}
	}

	return w.buf, nil
}

// reattachConditionals returns the room's object table with the conditional
// pair for any still-present chest content reinserted after its chest
// object, the pair's embedded location patched to the object's position.
func (g *Game) reattachConditionals(area int, objects []rom.TableEntry) []rom.TableEntry {
	out := append([]rom.TableEntry(nil), objects...)
	for i, e := range out {
		id, ok := rom.ChestID(e)
		if !ok {
			continue
		}
		x, y, ok := rom.Loc(e)
		if !ok {
			continue
		}
		pair, ok := g.conditionals[area][g.chests[area][id]]
		if !ok {
			continue
		}

		inserted := make([]rom.TableEntry, len(pair))
		for j, entry := range pair {
			if o, isObject := entry.(rom.Object); isObject {
				o.Info.X = x
				o.Info.Y = y
				entry = o
			}
			inserted[j] = entry
		}
		out = append(out[:i+1], append(inserted, out[i+1:]...)...)
		break
	}
	return out
}
