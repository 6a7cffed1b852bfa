package rom

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// Region of a known ROM dump.
type Region uint8

const (
	RegionUnknown Region = iota
	RegionNA
	RegionJP
)

func (r Region) String() string {
	switch r {
	case RegionNA:
		return "NA"
	case RegionJP:
		return "JP"
	default:
		return "Unknown"
	}
}

// Info describes the result of verifying an input image.
type Info struct {
	Headered bool
	MD5Hash  string
	Known    bool
	Desc     string
	Region   Region
}

type dbEntry struct {
	desc   string
	region Region
}

// knownRoms is keyed by the MD5 of the header-stripped image.
var knownRoms = map[string]dbEntry{
	"eb0789088fc70be42b2f994c1b66be21": {desc: "Neutopia (U)", region: RegionNA},
	"08ae173878d8a3783fa35e80c99a5dc4": {desc: "Neutopia (J)", region: RegionJP},
}

// Verify checks the image's size, detects and accounts for a copier header,
// and looks the image up in the known-ROM table. An unknown hash is not an
// error; callers decide policy from Info.Known.
func Verify(data []byte) (Info, error) {
	data, headered, err := StripHeader(data)
	if err != nil {
		return Info{}, err
	}

	sum := md5.Sum(data)
	hash := hex.EncodeToString(sum[:])

	info := Info{
		Headered: headered,
		MD5Hash:  hash,
		Desc:     "Unrecognized ROM",
	}
	if entry, ok := knownRoms[hash]; ok {
		info.Known = true
		info.Desc = entry.desc
		info.Region = entry.region
	}
	return info, nil
}

// StripHeader validates the image length and removes the 0x200-byte copier
// header if one is present.
func StripHeader(data []byte) (stripped []byte, headered bool, err error) {
	switch len(data) {
	case Size:
		return data, false, nil
	case Size + HeaderSize:
		return data[HeaderSize:], true, nil
	default:
		return nil, false, fmt.Errorf("%w: %d bytes; expected %d (or %d with copier header)",
			ErrInvalidRomSize, len(data), Size, Size+HeaderSize)
	}
}
