package busval

import (
	"testing"
)

func TestNewDataRange(t *testing.T) {
	cases := []struct {
		in       int
		wantErr  bool
		unsigned uint16
	}{
		{-129, true, 0},
		{-128, false, 0x80},
		{-1, false, 0xFF},
		{0, false, 0x00},
		{127, false, 0x7F},
		{255, false, 0xFF},
		{256, true, 0},
	}

	for i, tc := range cases {
		d, err := NewData(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("%d: NewData(%d) error = %v, wantErr = %t", i, tc.in, err, tc.wantErr)
			continue
		}
		if !tc.wantErr && d.Unsigned() != tc.unsigned {
			t.Errorf("%d: NewData(%d).Unsigned() = 0x%02x, want 0x%02x", i, tc.in, d.Unsigned(), tc.unsigned)
		}
	}
}

func TestSignedUnsignedRoundTrip(t *testing.T) {
	for v := 0; v < 256; v++ {
		d := MustData(v)
		if int(d.Unsigned()) != v {
			t.Errorf("Unsigned() = %d, want %d", d.Unsigned(), v)
		}
		s := d.Signed()
		if s < -128 || s > 127 {
			t.Errorf("Signed() = %d out of signed range for input %d", s, v)
		}
		if MustData(s) != d {
			t.Errorf("MustData(Signed()) != original for input %d", v)
		}
		if MustData(int(d.Unsigned())) != d {
			t.Errorf("MustData(Unsigned()) != original for input %d", v)
		}
	}
}

func TestSigned(t *testing.T) {
	cases := []struct {
		in     int
		signed int
	}{
		{0, 0},
		{1, 1},
		{127, 127},
		{128, -128},
		{255, -1},
		{-5, -5},
	}

	for i, tc := range cases {
		if got := MustData(tc.in).Signed(); got != tc.signed {
			t.Errorf("%d: MustData(%d).Signed() = %d, want %d", i, tc.in, got, tc.signed)
		}
	}
}

func TestIsNegative(t *testing.T) {
	cases := []struct {
		in   int
		want bool
	}{
		{0, false},
		{127, false},
		{128, true},
		{255, true},
		{-1, true},
	}

	for i, tc := range cases {
		if got := MustData(tc.in).IsNegative(); got != tc.want {
			t.Errorf("%d: MustData(%d).IsNegative() = %t, want %t", i, tc.in, got, tc.want)
		}
	}
}

func TestArithmeticWraps(t *testing.T) {
	cases := []struct {
		a, b     int
		addWant  uint16
		subWant  uint16
	}{
		{0, 0, 0, 0},
		{1, 2, 3, 0xFF},
		{0xFF, 1, 0, 0xFE},
		{0x80, 0x80, 0, 0},
		{0x0F, 0xF0, 0xFF, 0x1F},
	}

	for i, tc := range cases {
		a, b := MustData(tc.a), MustData(tc.b)
		if got := a.Add(b).Unsigned(); got != tc.addWant {
			t.Errorf("%d: 0x%02x + 0x%02x = 0x%02x, want 0x%02x", i, tc.a, tc.b, got, tc.addWant)
		}
		if got := a.Sub(b).Unsigned(); got != tc.subWant {
			t.Errorf("%d: 0x%02x - 0x%02x = 0x%02x, want 0x%02x", i, tc.a, tc.b, got, tc.subWant)
		}
	}
}

func TestArithmeticMod(t *testing.T) {
	// (a+b) and (a-b) agree with plain unsigned arithmetic mod 2^W.
	for _, a := range []int{0, 1, 0x7F, 0x80, 0xFE, 0xFF} {
		for _, b := range []int{0, 1, 0x7F, 0x80, 0xFF} {
			da, db := MustData(a), MustData(b)
			if got, want := da.Add(db).Unsigned(), uint16((a+b)%256); got != want {
				t.Errorf("0x%02x + 0x%02x = 0x%02x, want 0x%02x", a, b, got, want)
			}
			if got, want := da.Sub(db).Unsigned(), uint16(((a-b)%256+256)%256); got != want {
				t.Errorf("0x%02x - 0x%02x = 0x%02x, want 0x%02x", a, b, got, want)
			}
		}
	}
}

func TestBitwise(t *testing.T) {
	a, b := MustData(0b1100_1010), MustData(0b1010_0110)

	cases := []struct {
		name string
		got  Data
		want uint16
	}{
		{"and", a.And(b), 0b1000_0010},
		{"or", a.Or(b), 0b1110_1110},
		{"xor", a.Xor(b), 0b0110_1100},
		{"invert", a.Invert(), 0b0011_0101},
	}

	for _, tc := range cases {
		if tc.got.Unsigned() != tc.want {
			t.Errorf("%s: got 0x%02x, want 0x%02x", tc.name, tc.got.Unsigned(), tc.want)
		}
	}
}

func TestSlice(t *testing.T) {
	d := MustData(0b1011_0100)

	cases := []struct {
		start, end int
		want       uint16
		wantErr    bool
	}{
		{0, 4, 0b0100, false},
		{4, 8, 0b1011, false},
		{2, 6, 0b1101, false},
		{0, 8, 0b1011_0100, false},
		{-1, 4, 0, true},
		{0, 9, 0, true},
		{4, 4, 0, true},
		{6, 2, 0, true},
	}

	for i, tc := range cases {
		got, err := d.Slice(tc.start, tc.end)
		if (err != nil) != tc.wantErr {
			t.Errorf("%d: Slice(%d, %d) error = %v, wantErr = %t", i, tc.start, tc.end, err, tc.wantErr)
			continue
		}
		if !tc.wantErr && got.Unsigned() != tc.want {
			t.Errorf("%d: Slice(%d, %d) = 0b%b, want 0b%b", i, tc.start, tc.end, got.Unsigned(), tc.want)
		}
	}
}

func TestEquality(t *testing.T) {
	if MustData(255) != MustData(-1) {
		t.Errorf("0xFF and -1 should compare equal (same unsigned representative)")
	}
	if MustData(1) == MustData(2) {
		t.Errorf("distinct values should not compare equal")
	}
}

func TestBinary(t *testing.T) {
	if got := MustData(0x0F).Binary(); got != "00001111" {
		t.Errorf("Binary() = %q, want %q", got, "00001111")
	}
	if got := MustInstrAddr(0x0F).Binary(); got != "0000000000001111" {
		t.Errorf("Binary() = %q, want %q", got, "0000000000001111")
	}
}

func TestAddressBusWidths(t *testing.T) {
	if _, err := NewDataAddr(0xFFFF); err != nil {
		t.Errorf("0xFFFF should fit the data address bus: %v", err)
	}
	if _, err := NewDataAddr(0x10000); err == nil {
		t.Errorf("0x10000 should not fit the data address bus")
	}
	if _, err := NewInstrAddr(-0x8000); err != nil {
		t.Errorf("-0x8000 should fit the instruction address bus: %v", err)
	}
	if _, err := NewInstrAddr(-0x8001); err == nil {
		t.Errorf("-0x8001 should not fit the instruction address bus")
	}
}

func TestInstrAddrRelative(t *testing.T) {
	// A negative offset wraps the same way the PC-relative branch does.
	base := MustInstrAddr(10)
	off := MustInstrAddr(-4)
	if got := base.Add(off).Unsigned(); got != 6 {
		t.Errorf("10 + (-4) = %d, want 6", got)
	}
}
