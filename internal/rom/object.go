package rom

import "fmt"

// Room object tables are a sequence of tagged records. Each record is one
// tag byte followed by a fixed-size payload; the table ends at the first
// byte that is not a known tag (the game terminates tables with 0xff).
const (
	tagObject               = 0x00
	tagOpenDoor             = 0x01
	tagPushBlockGatedDoor   = 0x02
	tagEnemyGatedDoor       = 0x03
	tagBombableDoor         = 0x05
	tagPushBlockGatedObject = 0x06
	tagEnemyGatedObject     = 0x07
	tagBellGatedObject      = 0x08
	tagDarkRoom             = 0x09
	tagBossDoor             = 0x0a
	tagUnknown0B            = 0x0b
	tagBurnable             = 0x0c
	tagHiddenRoom           = 0x0d
	tagFalconBootsNeeded    = 0x81
	tagNpc                  = 0x9a
	tagOuchRope             = 0xbd
	tagArrowLauncher        = 0xbf
	tagSwords               = 0xc0
	tagGhostSpawner         = 0xc1
	tagFireballSpawner      = 0xc6
	tagShopItem             = 0xda
	tagUnknownE1            = 0xe1
	tagUnknownF4            = 0xf4

	// TableEnd terminates a serialized object or enemy table.
	TableEnd = 0xff
)

// ObjectInfo is the common payload of object-flavored records: a packed
// nibble location byte (x | y<<4) followed by an object id.
type ObjectInfo struct {
	X  uint8
	Y  uint8
	ID uint8
}

func (o ObjectInfo) String() string {
	return fmt.Sprintf("0x%02x @ (%d,%d)", o.ID, o.X, o.Y)
}

func parseObjectInfo(b []byte) ObjectInfo {
	return ObjectInfo{X: b[0] & 0xf, Y: b[0] >> 4, ID: b[1]}
}

func (o ObjectInfo) append(dst []byte) []byte {
	return append(dst, o.X&0xf|o.Y&0xf<<4, o.ID)
}

// A TableEntry is one record of a room object table. The concrete types are
// all comparable values, so entries can be compared with == and copied
// freely.
type TableEntry interface {
	fmt.Stringer

	// Tag returns the record's tag byte.
	Tag() uint8

	// payload length in bytes, excluding the tag.
	payloadLen() int

	// append the serialized record (tag plus payload) to dst.
	append(dst []byte) []byte
}

type Object struct{ Info ObjectInfo }
type OpenDoor struct{ Arg uint8 }
type PushBlockGatedDoor struct{ Arg uint8 }
type EnemyGatedDoor struct{ Arg uint8 }
type BombableDoor struct{ Arg uint8 }
type PushBlockGatedObject struct{ Info ObjectInfo }
type EnemyGatedObject struct{ Info ObjectInfo }
type BellGatedObject struct{ Info ObjectInfo }
type DarkRoom struct{}
type BossDoor struct{ Arg uint8 }
type Unknown0B struct{ Data [3]uint8 }
type Burnable struct{ Info ObjectInfo }
type HiddenRoom struct{ Data [3]uint8 }
type FalconBootsNeeded struct{}
type Npc struct{ Data [5]uint8 }
type OuchRope struct{ Info ObjectInfo }
type ArrowLauncher struct{ Info ObjectInfo }
type Swords struct{ Info ObjectInfo }
type GhostSpawner struct{ Info ObjectInfo }
type FireballSpawner struct{ Info ObjectInfo }
type ShopItem struct{ Data [7]uint8 }
type UnknownE1 struct{ Data [9]uint8 }
type UnknownF4 struct{ Data [5]uint8 }

func (e Object) Tag() uint8               { return tagObject }
func (e OpenDoor) Tag() uint8             { return tagOpenDoor }
func (e PushBlockGatedDoor) Tag() uint8   { return tagPushBlockGatedDoor }
func (e EnemyGatedDoor) Tag() uint8       { return tagEnemyGatedDoor }
func (e BombableDoor) Tag() uint8         { return tagBombableDoor }
func (e PushBlockGatedObject) Tag() uint8 { return tagPushBlockGatedObject }
func (e EnemyGatedObject) Tag() uint8     { return tagEnemyGatedObject }
func (e BellGatedObject) Tag() uint8      { return tagBellGatedObject }
func (e DarkRoom) Tag() uint8             { return tagDarkRoom }
func (e BossDoor) Tag() uint8             { return tagBossDoor }
func (e Unknown0B) Tag() uint8            { return tagUnknown0B }
func (e Burnable) Tag() uint8             { return tagBurnable }
func (e HiddenRoom) Tag() uint8           { return tagHiddenRoom }
func (e FalconBootsNeeded) Tag() uint8    { return tagFalconBootsNeeded }
func (e Npc) Tag() uint8                  { return tagNpc }
func (e OuchRope) Tag() uint8             { return tagOuchRope }
func (e ArrowLauncher) Tag() uint8        { return tagArrowLauncher }
func (e Swords) Tag() uint8               { return tagSwords }
func (e GhostSpawner) Tag() uint8         { return tagGhostSpawner }
func (e FireballSpawner) Tag() uint8      { return tagFireballSpawner }
func (e ShopItem) Tag() uint8             { return tagShopItem }
func (e UnknownE1) Tag() uint8            { return tagUnknownE1 }
func (e UnknownF4) Tag() uint8            { return tagUnknownF4 }

func (e Object) payloadLen() int               { return 2 }
func (e OpenDoor) payloadLen() int             { return 1 }
func (e PushBlockGatedDoor) payloadLen() int   { return 1 }
func (e EnemyGatedDoor) payloadLen() int       { return 1 }
func (e BombableDoor) payloadLen() int         { return 1 }
func (e PushBlockGatedObject) payloadLen() int { return 2 }
func (e EnemyGatedObject) payloadLen() int     { return 2 }
func (e BellGatedObject) payloadLen() int      { return 2 }
func (e DarkRoom) payloadLen() int             { return 0 }
func (e BossDoor) payloadLen() int             { return 1 }
func (e Unknown0B) payloadLen() int            { return 3 }
func (e Burnable) payloadLen() int             { return 2 }
func (e HiddenRoom) payloadLen() int           { return 3 }
func (e FalconBootsNeeded) payloadLen() int    { return 0 }
func (e Npc) payloadLen() int                  { return 5 }
func (e OuchRope) payloadLen() int             { return 2 }
func (e ArrowLauncher) payloadLen() int        { return 2 }
func (e Swords) payloadLen() int               { return 2 }
func (e GhostSpawner) payloadLen() int         { return 2 }
func (e FireballSpawner) payloadLen() int      { return 2 }
func (e ShopItem) payloadLen() int             { return 7 }
func (e UnknownE1) payloadLen() int            { return 9 }
func (e UnknownF4) payloadLen() int            { return 5 }

func (e Object) append(dst []byte) []byte { return e.Info.append(append(dst, e.Tag())) }
func (e OpenDoor) append(dst []byte) []byte {
	return append(dst, e.Tag(), e.Arg)
}
func (e PushBlockGatedDoor) append(dst []byte) []byte { return append(dst, e.Tag(), e.Arg) }
func (e EnemyGatedDoor) append(dst []byte) []byte     { return append(dst, e.Tag(), e.Arg) }
func (e BombableDoor) append(dst []byte) []byte       { return append(dst, e.Tag(), e.Arg) }
func (e PushBlockGatedObject) append(dst []byte) []byte {
	return e.Info.append(append(dst, e.Tag()))
}
func (e EnemyGatedObject) append(dst []byte) []byte { return e.Info.append(append(dst, e.Tag())) }
func (e BellGatedObject) append(dst []byte) []byte  { return e.Info.append(append(dst, e.Tag())) }
func (e DarkRoom) append(dst []byte) []byte         { return append(dst, e.Tag()) }
func (e BossDoor) append(dst []byte) []byte         { return append(dst, e.Tag(), e.Arg) }
func (e Unknown0B) append(dst []byte) []byte        { return append(append(dst, e.Tag()), e.Data[:]...) }
func (e Burnable) append(dst []byte) []byte         { return e.Info.append(append(dst, e.Tag())) }
func (e HiddenRoom) append(dst []byte) []byte       { return append(append(dst, e.Tag()), e.Data[:]...) }
func (e FalconBootsNeeded) append(dst []byte) []byte { return append(dst, e.Tag()) }
func (e Npc) append(dst []byte) []byte               { return append(append(dst, e.Tag()), e.Data[:]...) }
func (e OuchRope) append(dst []byte) []byte          { return e.Info.append(append(dst, e.Tag())) }
func (e ArrowLauncher) append(dst []byte) []byte     { return e.Info.append(append(dst, e.Tag())) }
func (e Swords) append(dst []byte) []byte            { return e.Info.append(append(dst, e.Tag())) }
func (e GhostSpawner) append(dst []byte) []byte      { return e.Info.append(append(dst, e.Tag())) }
func (e FireballSpawner) append(dst []byte) []byte   { return e.Info.append(append(dst, e.Tag())) }
func (e ShopItem) append(dst []byte) []byte          { return append(append(dst, e.Tag()), e.Data[:]...) }
func (e UnknownE1) append(dst []byte) []byte         { return append(append(dst, e.Tag()), e.Data[:]...) }
func (e UnknownF4) append(dst []byte) []byte         { return append(append(dst, e.Tag()), e.Data[:]...) }

func (e Object) String() string               { return fmt.Sprintf("object %s", e.Info) }
func (e OpenDoor) String() string             { return fmt.Sprintf("open door 0x%02x", e.Arg) }
func (e PushBlockGatedDoor) String() string   { return fmt.Sprintf("push block gated door 0x%02x", e.Arg) }
func (e EnemyGatedDoor) String() string       { return fmt.Sprintf("enemy gated door 0x%02x", e.Arg) }
func (e BombableDoor) String() string         { return fmt.Sprintf("bombable door 0x%02x", e.Arg) }
func (e PushBlockGatedObject) String() string { return fmt.Sprintf("push block gated object %s", e.Info) }
func (e EnemyGatedObject) String() string     { return fmt.Sprintf("enemy gated object %s", e.Info) }
func (e BellGatedObject) String() string      { return fmt.Sprintf("bell gated object %s", e.Info) }
func (e DarkRoom) String() string             { return "dark room" }
func (e BossDoor) String() string             { return fmt.Sprintf("boss door 0x%02x", e.Arg) }
func (e Unknown0B) String() string            { return fmt.Sprintf("unknown object 0x0b %x", e.Data) }
func (e Burnable) String() string             { return fmt.Sprintf("burnable %s", e.Info) }
func (e HiddenRoom) String() string           { return fmt.Sprintf("hidden room %x", e.Data) }
func (e FalconBootsNeeded) String() string    { return "falcon boots needed" }
func (e Npc) String() string                  { return fmt.Sprintf("npc %x", e.Data) }
func (e OuchRope) String() string             { return fmt.Sprintf("ouch rope segment %s", e.Info) }
func (e ArrowLauncher) String() string        { return fmt.Sprintf("arrow launcher %s", e.Info) }
func (e Swords) String() string               { return fmt.Sprintf("swords %s", e.Info) }
func (e GhostSpawner) String() string         { return fmt.Sprintf("ghost spawner %s", e.Info) }
func (e FireballSpawner) String() string      { return fmt.Sprintf("fireball spawner %s", e.Info) }
func (e ShopItem) String() string             { return fmt.Sprintf("shop item %x", e.Data) }
func (e UnknownE1) String() string            { return fmt.Sprintf("unknown object 0xe1 %x", e.Data) }
func (e UnknownF4) String() string            { return fmt.Sprintf("unknown object 0xf4 %x", e.Data) }

// ChestID returns the chest table slot an entry refers to. Object entries
// with ids 0x4c..0x53 are chest-bearing; everything else is not.
func ChestID(e TableEntry) (uint8, bool) {
	o, ok := e.(Object)
	if !ok {
		return 0, false
	}
	if o.Info.ID < 0x4c || o.Info.ID >= 0x4c+ChestsPerArea {
		return 0, false
	}
	return o.Info.ID - 0x4c, true
}

// IsConditional reports whether an entry marks the record pair after a
// chest-bearing object as conditional on that chest's content.
func IsConditional(e TableEntry) bool {
	_, ok := e.(Unknown0B)
	return ok
}

// Loc returns the (x, y) location of an Object entry.
func Loc(e TableEntry) (x, y uint8, ok bool) {
	o, ok := e.(Object)
	if !ok {
		return 0, 0, false
	}
	return o.Info.X, o.Info.Y, true
}

// ParseEntry parses a single table entry from the front of data and returns
// it along with the unconsumed remainder.
func ParseEntry(data []byte) (TableEntry, []byte, error) {
	if len(data) == 0 {
		return nil, nil, fmt.Errorf("%w: empty input", ErrShortRead)
	}

	var e TableEntry
	switch data[0] {
	case tagObject:
		e = Object{}
	case tagOpenDoor:
		e = OpenDoor{}
	case tagPushBlockGatedDoor:
		e = PushBlockGatedDoor{}
	case tagEnemyGatedDoor:
		e = EnemyGatedDoor{}
	case tagBombableDoor:
		e = BombableDoor{}
	case tagPushBlockGatedObject:
		e = PushBlockGatedObject{}
	case tagEnemyGatedObject:
		e = EnemyGatedObject{}
	case tagBellGatedObject:
		e = BellGatedObject{}
	case tagDarkRoom:
		e = DarkRoom{}
	case tagBossDoor:
		e = BossDoor{}
	case tagUnknown0B:
		e = Unknown0B{}
	case tagBurnable:
		e = Burnable{}
	case tagHiddenRoom:
		e = HiddenRoom{}
	case tagFalconBootsNeeded:
		e = FalconBootsNeeded{}
	case tagNpc:
		e = Npc{}
	case tagOuchRope:
		e = OuchRope{}
	case tagArrowLauncher:
		e = ArrowLauncher{}
	case tagSwords:
		e = Swords{}
	case tagGhostSpawner:
		e = GhostSpawner{}
	case tagFireballSpawner:
		e = FireballSpawner{}
	case tagShopItem:
		e = ShopItem{}
	case tagUnknownE1:
		e = UnknownE1{}
	case tagUnknownF4:
		e = UnknownF4{}
	default:
		return nil, nil, fmt.Errorf("%w: 0x%02x", ErrUnknownTag, data[0])
	}

	n := e.payloadLen()
	if len(data) < 1+n {
		return nil, nil, fmt.Errorf("%w: tag 0x%02x needs %d payload bytes, have %d",
			ErrShortRead, data[0], n, len(data)-1)
	}
	payload := data[1 : 1+n]

	switch data[0] {
	case tagObject:
		e = Object{Info: parseObjectInfo(payload)}
	case tagOpenDoor:
		e = OpenDoor{Arg: payload[0]}
	case tagPushBlockGatedDoor:
		e = PushBlockGatedDoor{Arg: payload[0]}
	case tagEnemyGatedDoor:
		e = EnemyGatedDoor{Arg: payload[0]}
	case tagBombableDoor:
		e = BombableDoor{Arg: payload[0]}
	case tagPushBlockGatedObject:
		e = PushBlockGatedObject{Info: parseObjectInfo(payload)}
	case tagEnemyGatedObject:
		e = EnemyGatedObject{Info: parseObjectInfo(payload)}
	case tagBellGatedObject:
		e = BellGatedObject{Info: parseObjectInfo(payload)}
	case tagBossDoor:
		e = BossDoor{Arg: payload[0]}
	case tagUnknown0B:
		e = Unknown0B{Data: [3]uint8(payload)}
	case tagBurnable:
		e = Burnable{Info: parseObjectInfo(payload)}
	case tagHiddenRoom:
		e = HiddenRoom{Data: [3]uint8(payload)}
	case tagNpc:
		e = Npc{Data: [5]uint8(payload)}
	case tagOuchRope:
		e = OuchRope{Info: parseObjectInfo(payload)}
	case tagArrowLauncher:
		e = ArrowLauncher{Info: parseObjectInfo(payload)}
	case tagSwords:
		e = Swords{Info: parseObjectInfo(payload)}
	case tagGhostSpawner:
		e = GhostSpawner{Info: parseObjectInfo(payload)}
	case tagFireballSpawner:
		e = FireballSpawner{Info: parseObjectInfo(payload)}
	case tagShopItem:
		e = ShopItem{Data: [7]uint8(payload)}
	case tagUnknownE1:
		e = UnknownE1{Data: [9]uint8(payload)}
	case tagUnknownF4:
		e = UnknownF4{Data: [5]uint8(payload)}
	}

	return e, data[1+n:], nil
}

// scanTable parses entries from data until the first byte that does not
// start a well-formed entry, returning the entries and the remainder.
func scanTable(data []byte) ([]TableEntry, []byte) {
	var entries []TableEntry
	rest := data
	for len(rest) > 0 {
		e, r, err := ParseEntry(rest)
		if err != nil {
			break
		}
		entries = append(entries, e)
		rest = r
	}
	return entries, rest
}

// ParseObjectTable parses data as a complete object table. Any unconsumed
// remainder, terminator included, is an error: the input must be exactly the
// table.
func ParseObjectTable(data []byte) ([]TableEntry, error) {
	entries, rest := scanTable(data)
	if len(rest) > 0 {
		return nil, fmt.Errorf("%w: % x", ErrTrailingBytes, rest)
	}
	return entries, nil
}

// ObjectTableLen returns the byte length of the object table at the front of
// data. Unlike ParseObjectTable it accepts a table followed by its 0xff
// terminator (and whatever comes after); some rooms' tables are empty and
// begin directly with the terminator.
func ObjectTableLen(data []byte) (int, error) {
	_, rest := scanTable(data)
	if len(rest) > 0 && rest[0] != TableEnd {
		return 0, fmt.Errorf("%w: % x", ErrTrailingBytes, rest)
	}
	return len(data) - len(rest), nil
}

// WriteEntry serializes a single table entry.
func WriteEntry(e TableEntry) []byte {
	return e.append(nil)
}

// WriteObjectTable serializes a table without appending the terminator;
// table boundaries own the 0xff.
func WriteObjectTable(entries []TableEntry) []byte {
	var out []byte
	for _, e := range entries {
		out = e.append(out)
	}
	return out
}
