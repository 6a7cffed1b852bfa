// Package patch applies IPS format patches to a working ROM buffer.
//
// An IPS stream is the ASCII magic "PATCH", any number of records, then the
// ASCII terminator "EOF". Each record is a 3-byte big-endian offset, a
// 2-byte big-endian length and length payload bytes that overwrite the
// target at offset.
package patch

import (
	"bytes"
	"errors"
	"fmt"
)

var (
	// ErrBadPatch is returned for any framing violation in the patch stream.
	ErrBadPatch = errors.New("malformed ips patch")
)

var (
	magic      = []byte("PATCH")
	terminator = []byte("EOF")
)

// A Hunk is one IPS record.
type Hunk struct {
	Offset  uint32
	Payload []byte
}

// Parse decodes an IPS stream into its hunks.
func Parse(data []byte) ([]Hunk, error) {
	if !bytes.HasPrefix(data, magic) {
		return nil, fmt.Errorf("%w: missing PATCH magic", ErrBadPatch)
	}
	data = data[len(magic):]

	var hunks []Hunk
	for {
		if bytes.Equal(data, terminator) {
			return hunks, nil
		}
		if len(data) < 5 {
			return nil, fmt.Errorf("%w: truncated record header", ErrBadPatch)
		}
		offset := uint32(data[0])<<16 | uint32(data[1])<<8 | uint32(data[2])
		length := int(data[3])<<8 | int(data[4])
		data = data[5:]

		// RLE records (length 0) never appear in our patch set
		if length == 0 {
			return nil, fmt.Errorf("%w: zero-length record at offset %06x", ErrBadPatch, offset)
		}
		if len(data) < length {
			return nil, fmt.Errorf("%w: record at %06x wants %d payload bytes, %d remain",
				ErrBadPatch, offset, length, len(data))
		}
		hunks = append(hunks, Hunk{Offset: offset, Payload: bytes.Clone(data[:length])})
		data = data[length:]
	}
}

// Apply parses the patch and overwrites buf in place. Records must land
// inside the buffer; IPS can grow a file but our patches never do.
func Apply(buf []byte, patchData []byte) error {
	hunks, err := Parse(patchData)
	if err != nil {
		return err
	}
	for _, h := range hunks {
		end := int(h.Offset) + len(h.Payload)
		if end > len(buf) {
			return fmt.Errorf("%w: record [%06x, %06x) outside %06x byte target",
				ErrBadPatch, h.Offset, end, len(buf))
		}
		copy(buf[h.Offset:], h.Payload)
	}
	return nil
}
