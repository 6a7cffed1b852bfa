// Package randomizer shuffles the chest contents of a verified image under
// progression constraints: every gated location stays reachable, area-bound
// items stay in their area, and the same seed always produces the same
// image.
package randomizer

import (
	"bytes"
	"fmt"
	"math/rand/v2"

	"neutopia-rando/internal/game"
	"neutopia-rando/internal/rom"
	"neutopia-rando/pkg/log"
)

// pcgStream fixes the PCG stream so a seed identifies one shuffle.
const pcgStream = 0x7c2fa9f6e1d3b581

// RandoType selects the shuffle policy.
type RandoType uint8

const (
	// TypeGlobal shuffles every check against the whole pool.
	TypeGlobal RandoType = iota
	// TypeLocal shuffles each crypt's chests among themselves.
	TypeLocal
	// TypeNone applies the patch set without moving anything.
	TypeNone
)

func (t RandoType) String() string {
	switch t {
	case TypeGlobal:
		return "global"
	case TypeLocal:
		return "local"
	case TypeNone:
		return "none"
	default:
		return fmt.Sprintf("RandoType(%d)", uint8(t))
	}
}

// ParseRandoType parses the -type flag value.
func ParseRandoType(s string) (RandoType, error) {
	switch s {
	case "global":
		return TypeGlobal, nil
	case "local":
		return TypeLocal, nil
	case "none":
		return TypeNone, nil
	}
	return 0, fmt.Errorf("unknown randomization type %q", s)
}

// Config parameterizes one run.
type Config struct {
	Type RandoType
	Seed uint64
	Log  log.Logger
}

// Randomize verifies the input image, applies the patch set, shuffles chest
// contents per the config and returns the new image. Only the known NA dump
// is accepted: the catalog and patches are built against its layout.
func Randomize(data []byte, cfg Config) ([]byte, rom.Info, error) {
	lg := cfg.Log
	if lg == nil {
		lg = log.New()
	}

	info, err := rom.Verify(data)
	if err != nil {
		return nil, info, err
	}
	if !info.Known {
		return nil, info, fmt.Errorf("%w: md5 %s", rom.ErrUnknownRom, info.MD5Hash)
	}
	if info.Region != rom.RegionNA {
		return nil, info, fmt.Errorf("%w: %s is the %s dump", rom.ErrWrongRegion, info.Desc, info.Region)
	}
	lg.Infof("input verified as %s", info.Desc)

	stripped, _, err := rom.StripHeader(data)
	if err != nil {
		return nil, info, err
	}
	buf := bytes.Clone(stripped)
	if err := applyPatches(buf); err != nil {
		return nil, info, err
	}

	g, err := game.New(buf)
	if err != nil {
		return nil, info, err
	}

	out, err := randomize(g, DefaultChecks(), cfg, lg)
	return out, info, err
}

// randomize runs the configured policy against an already-parsed game. Split
// from Randomize so synthetic images can exercise the policies.
func randomize(g *game.Game, checks []Check, cfg Config, lg log.Logger) ([]byte, error) {
	writeCfg := game.DefaultWriteConfig()

	switch cfg.Type {
	case TypeNone:
		lg.Infof("no shuffle requested; writing patched image")

	case TypeLocal:
		var crypts []Check
		for _, c := range checks {
			if c.Area >= 0x4 && c.Area <= 0xb {
				crypts = append(crypts, c)
			}
		}
		s, err := NewState(g, crypts)
		if err != nil {
			return nil, err
		}
		if err := localShuffle(s, newRng(cfg.Seed), lg); err != nil {
			return nil, err
		}
		if err := s.Finalize(); err != nil {
			return nil, err
		}

	case TypeGlobal:
		s, err := NewState(g, checks)
		if err != nil {
			return nil, err
		}
		if err := globalShuffle(s, newRng(cfg.Seed), lg); err != nil {
			return nil, err
		}
		if err := s.Finalize(); err != nil {
			return nil, err
		}
		// a global shuffle moves overworld and interior chests too, and the
		// writer only relocates chest tables for areas it covers, so the
		// range widens to every chest-bearing area; Write refuses the result
		// if the repacked rooms would spill past the original data
		writeCfg = game.WriteConfig{FirstArea: 0x0, LastArea: 0xf}

	default:
		return nil, fmt.Errorf("unknown randomization type %d", cfg.Type)
	}

	return g.Write(writeCfg)
}

func newRng(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, pcgStream))
}

// globalShuffle places the whole pool across every check. Order matters:
// pinned items first, then area-locked items while their areas still have
// free ungated checks, then the gate items one at a time so each lands
// somewhere already reachable, then everything else.
func globalShuffle(s *State, rng *rand.Rand, lg log.Logger) error {
	// the book and the moss are handed over by NPCs rather than found in a
	// chest graphic, so moving them reads as a bug; they stay put
	for _, id := range []uint8{rom.ItemBook, rom.ItemMoss} {
		c, ok := s.VanillaCheck(id)
		if !ok {
			continue
		}
		it, ok := s.ItemByID(id)
		if !ok {
			continue
		}
		if err := s.Place(c.Loc(), it); err != nil {
			return err
		}
		lg.Debugf("pinned %v at %q", it, c.Name)
	}

	for _, it := range s.Items(Item.Locked) {
		// prefer ungated checks, but a gated one is still reachable once its
		// gate item turns up elsewhere
		candidates := s.Checks(func(c Check) bool {
			return int(c.Area) == it.areaLock && len(c.Gates) == 0
		})
		if len(candidates) == 0 {
			candidates = s.Checks(func(c Check) bool { return int(c.Area) == it.areaLock })
		}
		if len(candidates) == 0 {
			return fmt.Errorf("%w: no check left in area %02x for %v",
				ErrUnfilled, it.areaLock, it)
		}
		c := candidates[rng.IntN(len(candidates))]
		if err := s.Place(c.Loc(), it); err != nil {
			return err
		}
		lg.Debugf("locked %v at %q", it, c.Name)
	}

	gateIDs := []uint8{rom.ItemFireWand, rom.ItemSkyBell, rom.ItemFalconShoes, rom.ItemRainbowDrop}
	rng.Shuffle(len(gateIDs), func(i, j int) {
		gateIDs[i], gateIDs[j] = gateIDs[j], gateIDs[i]
	})
	for _, id := range gateIDs {
		it, ok := s.ItemByID(id)
		if !ok {
			continue
		}
		if err := placeRandomOpen(s, rng, it, lg); err != nil {
			return err
		}
	}

	for !s.Done() {
		it := s.unplaced[rng.IntN(len(s.unplaced))]
		if it.Locked() {
			// locked items were all placed above
			return fmt.Errorf("%w: %v still unplaced", ErrUnfilled, it)
		}
		if err := placeRandomOpen(s, rng, it, lg); err != nil {
			return err
		}
	}
	return nil
}

func placeRandomOpen(s *State, rng *rand.Rand, it Item, lg log.Logger) error {
	open := s.OpenChecks()
	if len(open) == 0 {
		return fmt.Errorf("%w: no open check for %v", ErrUnfilled, it)
	}
	c := open[rng.IntN(len(open))]
	if err := s.Place(c.Loc(), it); err != nil {
		return err
	}
	lg.Debugf("placed %v at %q", it, c.Name)
	return nil
}

// localShuffle permutes each crypt's own chests. Progression never crosses
// an area boundary, so gates are irrelevant here.
func localShuffle(s *State, rng *rand.Rand, lg log.Logger) error {
	for area := uint8(0x4); area <= 0xb; area++ {
		var items []Item
		for _, p := range s.vanilla {
			if p.Check.Area == area {
				items = append(items, p.Item)
			}
		}
		checks := s.Checks(func(c Check) bool { return c.Area == area })
		rng.Shuffle(len(items), func(i, j int) {
			items[i], items[j] = items[j], items[i]
		})
		for i, c := range checks {
			if err := s.Place(c.Loc(), items[i]); err != nil {
				return err
			}
			lg.Debugf("placed %v at %q", items[i], c.Name)
		}
	}
	return nil
}
