package randomizer

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"neutopia-rando/internal/rom"
)

var (
	ErrBadCatalog        = errors.New("malformed check catalog")
	ErrDuplicateLocation = errors.New("duplicate location in check catalog")
)

// A Gate is a progression item a check can require. A check is open once
// every gate it names has been placed somewhere reachable.
type Gate string

const (
	GateFireWand    Gate = "fire-wand"
	GateSkyBell     Gate = "sky-bell"
	GateFalconShoes Gate = "falcon-shoes"
	GateRainbowDrop Gate = "rainbow-drop"
)

func validGate(g Gate) bool {
	switch g {
	case GateFireWand, GateSkyBell, GateFalconShoes, GateRainbowDrop:
		return true
	}
	return false
}

// gateForItem maps an item id to the gate its placement clears.
func gateForItem(id uint8) (Gate, bool) {
	switch id {
	case rom.ItemFireWand:
		return GateFireWand, true
	case rom.ItemSkyBell:
		return GateSkyBell, true
	case rom.ItemFalconShoes:
		return GateFalconShoes, true
	case rom.ItemRainbowDrop:
		return GateRainbowDrop, true
	}
	return "", false
}

// A LocationID identifies one chest location: the Index-th chest-bearing
// object of a room. Locations are unique across a catalog; names are labels.
type LocationID struct {
	Area  uint8
	Room  uint8
	Index uint8
}

func (l LocationID) String() string {
	return fmt.Sprintf("%02x:%02x#%d", l.Area, l.Room, l.Index)
}

// A Check is one item location plus the gates a player needs to reach it.
type Check struct {
	Name  string `json:"name"`
	Area  uint8  `json:"area"`
	Room  uint8  `json:"room"`
	Index uint8  `json:"index,omitempty"`
	Gates []Gate `json:"gates,omitempty"`
}

// Loc returns the check's location key.
func (c Check) Loc() LocationID {
	return LocationID{Area: c.Area, Room: c.Room, Index: c.Index}
}

// open reports whether every gate of the check is cleared.
func (c Check) open(cleared map[Gate]bool) bool {
	for _, g := range c.Gates {
		if !cleared[g] {
			return false
		}
	}
	return true
}

//go:embed checks.json
var defaultCatalog []byte

// LoadChecks decodes and validates a check catalog: a JSON array of checks.
// Two checks may not share a location; names are display labels and must
// merely be present.
func LoadChecks(data []byte) ([]Check, error) {
	var checks []Check
	if err := json.Unmarshal(data, &checks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadCatalog, err)
	}

	seen := make(map[LocationID]bool, len(checks))
	for _, c := range checks {
		if c.Name == "" {
			return nil, fmt.Errorf("%w: check with empty name", ErrBadCatalog)
		}
		if int(c.Area) >= rom.ChestTableCount || int(c.Room) >= rom.RoomCount || int(c.Index) >= rom.ChestsPerArea {
			return nil, fmt.Errorf("%w: %q is out of range", ErrBadCatalog, c.Name)
		}
		if seen[c.Loc()] {
			return nil, fmt.Errorf("%w: %s (%q)", ErrDuplicateLocation, c.Loc(), c.Name)
		}
		seen[c.Loc()] = true

		for _, g := range c.Gates {
			if !validGate(g) {
				return nil, fmt.Errorf("%w: %q names unknown gate %q", ErrBadCatalog, c.Name, g)
			}
		}
	}
	return checks, nil
}

// DefaultChecks returns the embedded catalog covering the NA image.
func DefaultChecks() []Check {
	checks, err := LoadChecks(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return checks
}
