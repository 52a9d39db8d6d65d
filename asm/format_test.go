package asm

import (
	"strings"
	"testing"
)

const formatSource = `; doubles the value
	SET 1
	ADD ACC ; double
	HALT`

func TestBinaryListingNone(t *testing.T) {
	image, lines, err := AssembleWithSourceLines(formatSource)
	if err != nil {
		t.Fatalf("AssembleWithSourceLines failed: %v", err)
	}

	text, err := BinaryListing(image, "prog.asm", COMMENT_NONE, lines)
	if err != nil {
		t.Fatalf("BinaryListing failed: %v", err)
	}

	want := "01000100 00000001\n00000010 00001000\n00001000 00000000\n"
	if text != want {
		t.Errorf("listing = %q, want %q", text, want)
	}
}

func TestBinaryListingStripped(t *testing.T) {
	image, lines, err := AssembleWithSourceLines(formatSource)
	if err != nil {
		t.Fatalf("AssembleWithSourceLines failed: %v", err)
	}

	text, err := BinaryListing(image, "dir/prog.asm", COMMENT_STRIPPED, lines)
	if err != nil {
		t.Fatalf("BinaryListing failed: %v", err)
	}

	if !strings.HasPrefix(text, "// Assembled from: prog.asm\n") {
		t.Errorf("listing missing header:\n%s", text)
	}
	// The instruction comment is the source with ; comments removed.
	if !strings.Contains(text, "// ADD ACC\n") {
		t.Errorf("listing should strip the ; comment:\n%s", text)
	}
	if strings.Contains(text, "doubles the value") {
		t.Errorf("stripped listing should not carry comment-only lines:\n%s", text)
	}
}

func TestBinaryListingFull(t *testing.T) {
	image, lines, err := AssembleWithSourceLines(formatSource)
	if err != nil {
		t.Fatalf("AssembleWithSourceLines failed: %v", err)
	}

	text, err := BinaryListing(image, "prog.asm", COMMENT_FULL, lines)
	if err != nil {
		t.Fatalf("BinaryListing failed: %v", err)
	}

	// Full listings reproduce every source line, comment-only lines
	// included.
	if !strings.Contains(text, "; doubles the value") {
		t.Errorf("full listing missing the comment line:\n%s", text)
	}
	if !strings.Contains(text, "ADD ACC ; double") {
		t.Errorf("full listing should keep inline comments:\n%s", text)
	}
}

func TestHexListing(t *testing.T) {
	image, lines, err := AssembleWithSourceLines(formatSource)
	if err != nil {
		t.Fatalf("AssembleWithSourceLines failed: %v", err)
	}

	text, err := HexListing(image, "prog.asm", COMMENT_NONE, lines)
	if err != nil {
		t.Fatalf("HexListing failed: %v", err)
	}

	want := "44 01\n02 08\n08 00\n"
	if text != want {
		t.Errorf("listing = %q, want %q", text, want)
	}
}

func TestListingWithPadding(t *testing.T) {
	image, lines, err := AssembleWithSourceLines("HALT")
	if err != nil {
		t.Fatalf("AssembleWithSourceLines failed: %v", err)
	}
	padded, err := Pad(image, 6)
	if err != nil {
		t.Fatalf("Pad failed: %v", err)
	}

	text, err := HexListing(padded, "prog.asm", COMMENT_STRIPPED, lines)
	if err != nil {
		t.Fatalf("HexListing failed: %v", err)
	}

	// Padding words follow the instruction stream without comments.
	want := "// Assembled from: prog.asm\n08 00  // HALT\n00 00\n00 00\n"
	if text != want {
		t.Errorf("listing = %q, want %q", text, want)
	}
}

func TestParseCommentLevel(t *testing.T) {
	for _, s := range []string{"none", "stripped", "full"} {
		if _, err := ParseCommentLevel(s); err != nil {
			t.Errorf("ParseCommentLevel(%q) failed: %v", s, err)
		}
	}
	if _, err := ParseCommentLevel("chatty"); err == nil {
		t.Errorf("ParseCommentLevel should reject unknown levels")
	}
}
