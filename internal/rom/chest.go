package rom

import "fmt"

// Chest is one 4-byte reward record from an area's chest table. Chests are
// plain comparable values; the game model uses them as map keys to attach
// side data to a chest's content.
type Chest struct {
	ItemID  uint8
	Arg     uint8
	Text    uint8
	Unknown uint8
}

// Item ids with special meaning to the randomizer.
const (
	ItemMedicine    = 0x01
	ItemFireWand    = 0x02
	ItemSkyBell     = 0x03
	ItemMoss        = 0x05
	ItemFalconShoes = 0x0b
	ItemRainbowDrop = 0x0c
	ItemBook        = 0x0d
	ItemCrystalBall = 0x10
	ItemCryptKey    = 0x11

	// Medallions occupy ids 0x12..0x19, one per crypt.
	ItemMedallionFirst = 0x12
	MedallionCount     = 8
)

// IsMedallion reports whether the chest holds a crypt medallion.
func (c Chest) IsMedallion() bool {
	return c.ItemID >= ItemMedallionFirst && c.ItemID < ItemMedallionFirst+MedallionCount
}

// ItemName returns a human readable name for the chest's content.
func (c Chest) ItemName() string {
	switch c.ItemID {
	case 0x00:
		return fmt.Sprintf("Bombs x%d", c.Arg)
	case ItemMedicine:
		return "Medicine"
	case ItemFireWand:
		return "Fire Wand"
	case ItemSkyBell:
		return "Sky Bell"
	case 0x04:
		return "Wings"
	case ItemMoss:
		return "Moonbeam Moss"
	case 0x06:
		return "Magic Ring"
	case 0x08:
		return tieredName("Sword", c.Arg)
	case 0x09:
		return tieredName("Armor", c.Arg)
	case 0x0a:
		return tieredName("Shield", c.Arg)
	case ItemFalconShoes:
		return "Falcon Shoes"
	case ItemRainbowDrop:
		return "Rainbow Drop"
	case ItemBook:
		return "Book of Revival"
	case ItemCrystalBall:
		return "Crystal Ball"
	case ItemCryptKey:
		return "Crypt Key"
	case 0x07, 0x0e, 0x0f, 0x1a:
		return "Placeholder"
	default:
		if c.IsMedallion() {
			return fmt.Sprintf("Crypt %d Medallion", c.ItemID-ItemMedallionFirst+1)
		}
		return "Unknown"
	}
}

func tieredName(kind string, arg uint8) string {
	switch arg {
	case 1:
		return "Starter " + kind
	case 2:
		return "Bronze " + kind
	case 3:
		return "Steel " + kind
	case 4:
		return "Strongest " + kind
	default:
		return "Unknown " + kind
	}
}

// ParseChest decodes a single chest record.
func ParseChest(b []byte) (Chest, error) {
	if len(b) < 4 {
		return Chest{}, fmt.Errorf("%w: chest needs 4 bytes, have %d", ErrShortRead, len(b))
	}
	return Chest{ItemID: b[0], Arg: b[1], Text: b[2], Unknown: b[3]}, nil
}

// ParseChestTable decodes an area's chest table: exactly ChestsPerArea
// records.
func ParseChestTable(b []byte) ([]Chest, error) {
	if len(b) < ChestsPerArea*4 {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrShortTable, ChestsPerArea*4, len(b))
	}
	table := make([]Chest, ChestsPerArea)
	for i := range table {
		c, err := ParseChest(b[i*4:])
		if err != nil {
			return nil, err
		}
		table[i] = c
	}
	return table, nil
}

// append the serialized chest to dst.
func (c Chest) append(dst []byte) []byte {
	return append(dst, c.ItemID, c.Arg, c.Text, c.Unknown)
}

// WriteChest serializes a single chest record.
func WriteChest(c Chest) []byte {
	return c.append(nil)
}

// WriteChestTable serializes a chest table.
func WriteChestTable(table []Chest) []byte {
	var out []byte
	for _, c := range table {
		out = c.append(out)
	}
	return out
}
