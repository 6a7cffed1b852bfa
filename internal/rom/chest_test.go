package rom

import (
	"bytes"
	"errors"
	"testing"
)

func TestParseChest(t *testing.T) {
	c, err := ParseChest([]byte{0x11, 0x01, 0x85, 0x41})
	if err != nil {
		t.Fatal(err)
	}
	want := Chest{ItemID: 0x11, Arg: 0x01, Text: 0x85, Unknown: 0x41}
	if c != want {
		t.Errorf("got %+v, want %+v", c, want)
	}
	if c.ItemName() != "Crypt Key" {
		t.Errorf("expected Crypt Key, got %s", c.ItemName())
	}
}

func TestChestTableRoundTrip(t *testing.T) {
	table := []Chest{
		{ItemID: 0x00, Arg: 5, Text: 0x10},
		{ItemID: ItemMedicine},
		{ItemID: ItemFireWand},
		{ItemID: 0x08, Arg: 2},
		{ItemID: ItemCrystalBall},
		{ItemID: ItemCryptKey},
		{ItemID: ItemMedallionFirst, Text: 0x22},
		{ItemID: ItemBook},
	}
	data := WriteChestTable(table)
	got, err := ParseChestTable(data)
	if err != nil {
		t.Fatal(err)
	}
	for i := range table {
		if got[i] != table[i] {
			t.Errorf("chest %d: got %+v, want %+v", i, got[i], table[i])
		}
	}
	if out := WriteChestTable(got); !bytes.Equal(out, data) {
		t.Error("serialization drift")
	}
}

func TestParseChestTableShort(t *testing.T) {
	_, err := ParseChestTable(make([]byte, ChestsPerArea*4-1))
	if !errors.Is(err, ErrShortTable) {
		t.Errorf("expected ErrShortTable, got %v", err)
	}
}

func TestIsMedallion(t *testing.T) {
	for id, want := range map[uint8]bool{
		0x11: false,
		0x12: true,
		0x19: true,
		0x1a: false,
	} {
		if got := (Chest{ItemID: id}).IsMedallion(); got != want {
			t.Errorf("IsMedallion(0x%02x) = %v, want %v", id, got, want)
		}
	}
}
