package dump

import (
	"bytes"
	"testing"
)

func TestParseTextHex(t *testing.T) {
	data, warnings, err := ParseText("44 01\n02 08\n")
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}
	if !bytes.Equal(data, []byte{0x44, 0x01, 0x02, 0x08}) {
		t.Errorf("data = % x", data)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}

func TestParseTextBinary(t *testing.T) {
	data, _, err := ParseText("01000100 00000001\n00001000 00000000\n")
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}
	if !bytes.Equal(data, []byte{0x44, 0x01, 0x08, 0x00}) {
		t.Errorf("data = % x", data)
	}
}

func TestParseTextMixedAndComments(t *testing.T) {
	text := `// header comment
01000100 // a binary byte
ff       // a hex byte
beef     // two hex bytes
`
	data, _, err := ParseText(text)
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}
	if !bytes.Equal(data, []byte{0x44, 0xFF, 0xBE, 0xEF}) {
		t.Errorf("data = % x", data)
	}
}

func TestParseTextWhitespaceInsignificant(t *testing.T) {
	a, _, err := ParseText("4401\n0208")
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}
	b, _, err := ParseText("  44 01 02 08  ")
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Errorf("layouts parsed differently: % x vs % x", a, b)
	}
}

func TestParseTextOddNibble(t *testing.T) {
	// Five hex digits: the final nibble is zero-padded, and the lone
	// third byte is padded to a whole word.
	data, warnings, err := ParseText("44 01 f")
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}
	if !bytes.Equal(data, []byte{0x44, 0x01, 0xF0, 0x00}) {
		t.Errorf("data = % x", data)
	}
	if len(warnings) != 2 {
		t.Errorf("warnings = %v, want one for the nibble and one for the byte", warnings)
	}
}

func TestParseTextOddByteCount(t *testing.T) {
	data, warnings, err := ParseText("44 01 02")
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}
	if !bytes.Equal(data, []byte{0x44, 0x01, 0x02, 0x00}) {
		t.Errorf("data = % x", data)
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %v, want one for the odd byte count", warnings)
	}
}

func TestParseTextInvalidToken(t *testing.T) {
	if _, _, err := ParseText("44 xyz"); err == nil {
		t.Errorf("a non-digit token should fail")
	}
}

func TestParseTextEmpty(t *testing.T) {
	data, warnings, err := ParseText("// nothing but comments\n")
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}
	if len(data) != 0 || len(warnings) != 0 {
		t.Errorf("data = % x, warnings = %v; want empty", data, warnings)
	}
}

func TestCompareStreams(t *testing.T) {
	// Same byte stream in different formats and layouts.
	diffs, err := Compare("44 01\n02 08\n", "01000100 00000001 // word 0\n0208\n", true)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if len(diffs) != 0 {
		t.Errorf("equivalent streams reported diffs: %v", diffs)
	}

	diffs, err = Compare("44 01", "44 02", true)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if len(diffs) != 1 {
		t.Errorf("diffs = %v, want one mismatch", diffs)
	}

	diffs, err = Compare("44 01", "44 01 02 03", true)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if len(diffs) == 0 {
		t.Errorf("length mismatch should be reported")
	}
}

func TestCompareLines(t *testing.T) {
	// Without ignore-comments, comment text participates.
	diffs, err := Compare("44 01 // a\n", "44 01 // b\n", false)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if len(diffs) == 0 {
		t.Errorf("differing comments should be reported")
	}

	diffs, err = Compare("44 01 // a\n\n", "  44 01 // a\n", false)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if len(diffs) != 0 {
		t.Errorf("trimmed-identical lines reported diffs: %v", diffs)
	}
}
