package patch

import (
	"bytes"
	"errors"
	"testing"
)

func ips(records ...[]byte) []byte {
	out := []byte("PATCH")
	for _, r := range records {
		out = append(out, r...)
	}
	return append(out, "EOF"...)
}

func record(offset uint32, payload []byte) []byte {
	r := []byte{byte(offset >> 16), byte(offset >> 8), byte(offset),
		byte(len(payload) >> 8), byte(len(payload))}
	return append(r, payload...)
}

func TestParse(t *testing.T) {
	data := ips(
		record(0x000010, []byte{0xaa, 0xbb}),
		record(0x012345, []byte{0x01}),
	)
	hunks, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(hunks) != 2 {
		t.Fatalf("expected 2 hunks, got %d", len(hunks))
	}
	if hunks[0].Offset != 0x10 || !bytes.Equal(hunks[0].Payload, []byte{0xaa, 0xbb}) {
		t.Errorf("hunk 0: %+v", hunks[0])
	}
	if hunks[1].Offset != 0x012345 || !bytes.Equal(hunks[1].Payload, []byte{0x01}) {
		t.Errorf("hunk 1: %+v", hunks[1])
	}
}

func TestParseEmpty(t *testing.T) {
	hunks, err := Parse(ips())
	if err != nil {
		t.Fatal(err)
	}
	if len(hunks) != 0 {
		t.Errorf("expected no hunks, got %d", len(hunks))
	}
}

func TestParseErrors(t *testing.T) {
	for name, data := range map[string][]byte{
		"bad magic":        []byte("NOTCH" + "EOF"),
		"missing eof":      []byte("PATCH"),
		"truncated header": append([]byte("PATCH"), 0x00, 0x00),
		"truncated body":   append([]byte("PATCH"), record(0, []byte{1, 2, 3})[:6]...),
	} {
		if _, err := Parse(data); !errors.Is(err, ErrBadPatch) {
			t.Errorf("%s: expected ErrBadPatch, got %v", name, err)
		}
	}
}

func TestApply(t *testing.T) {
	buf := make([]byte, 0x20)
	err := Apply(buf, ips(record(0x04, []byte{0xde, 0xad})))
	if err != nil {
		t.Fatal(err)
	}
	if buf[4] != 0xde || buf[5] != 0xad {
		t.Errorf("patch not applied: % x", buf)
	}
	if buf[3] != 0 || buf[6] != 0 {
		t.Errorf("patch bled outside its record: % x", buf)
	}
}

func TestApplyOutOfRange(t *testing.T) {
	buf := make([]byte, 4)
	err := Apply(buf, ips(record(0x03, []byte{1, 2})))
	if !errors.Is(err, ErrBadPatch) {
		t.Errorf("expected ErrBadPatch, got %v", err)
	}
}
