package rom

import "fmt"

// Pointers are stored in the ROM as three bytes (b0, b1, b2) encoding a
// bank-relative address:
//
//	raw    = b0<<13 | (b2 & 0x1f)<<8 | b1
//	offset = raw - 0x40000
//
// The upper bits of b2 select the mapped bank window and are always 0b010
// in pointers the game consumes, so EncodePointer sets them and
// DecodePointer masks them off.
const (
	bankWindow = 0x40000
	bankBits   = 0x40
)

// DecodePointer converts a 3-byte bank-relative pointer into a flat file
// offset. Raw values below the bank window are outside the mapped range.
func DecodePointer(b []byte) (uint32, error) {
	if len(b) < 3 {
		return 0, fmt.Errorf("%w: pointer needs 3 bytes, have %d", ErrShortRead, len(b))
	}
	raw := uint32(b[0])<<13 | uint32(b[2]&0x1f)<<8 | uint32(b[1])
	if raw < bankWindow {
		return 0, fmt.Errorf("%w: %05x", ErrInvalidPointer, raw)
	}
	return raw - bankWindow, nil
}

// EncodePointer converts a flat file offset back into the 3-byte pointer
// encoding. It is the exact inverse of DecodePointer for every offset the
// format can address; callers are responsible for keeping offsets in range.
func EncodePointer(offset uint32) [3]byte {
	raw := offset + bankWindow
	return [3]byte{
		byte(raw >> 13),
		byte(raw),
		byte(raw>>8)&0x1f | bankBits,
	}
}

// DecodePointerTable decodes count consecutive pointers starting at data[0].
func DecodePointerTable(data []byte, count int) ([]uint32, error) {
	if len(data) < count*3 {
		return nil, fmt.Errorf("%w: pointer table needs %d bytes, have %d", ErrShortRead, count*3, len(data))
	}
	ptrs := make([]uint32, count)
	for i := 0; i < count; i++ {
		p, err := DecodePointer(data[i*3:])
		if err != nil {
			return nil, fmt.Errorf("pointer table entry %d: %w", i, err)
		}
		ptrs[i] = p
	}
	return ptrs, nil
}
