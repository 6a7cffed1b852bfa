package rom

// ROM layout constants. All offsets are flat file offsets into the
// header-stripped 384KiB image.
const (
	// Size is the size of the header-stripped image.
	Size = 384 * 1024

	// HeaderSize is the size of the optional copier header some dumps carry
	// in front of the image.
	HeaderSize = 0x200

	// AreaTable holds one 3-byte pointer per area to that area's table of
	// 0x40 room descriptor pointers.
	AreaTable      = 0x1e7a
	AreaTableCount = 0x11

	// RoomOrderTable holds one 3-byte pointer per area to the 0x40-byte
	// table mapping grid position to room id.
	RoomOrderTable      = 0x1ecd
	RoomOrderTableCount = 0x11

	// ChestTable holds one 3-byte pointer per area to that area's table of
	// 8 chests. The endgame area (0x10) has no chest table.
	ChestTable      = 0x1f20
	ChestTableCount = 0x10

	// RoomCount is the number of rooms in every area's grid.
	RoomCount = 0x40

	// ChestsPerArea is the fixed size of each area's chest table.
	ChestsPerArea = 8

	// FreeSpace is the start of the unused region relocated chest tables
	// are written to.
	FreeSpace = 0x4fe00
)
