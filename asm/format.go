package asm

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// CommentLevel selects how much of the source an assembled listing
// reproduces.
type CommentLevel string

const (
	COMMENT_NONE     CommentLevel = "none"     // bare digits
	COMMENT_STRIPPED CommentLevel = "stripped" // instruction text, ; comments removed
	COMMENT_FULL     CommentLevel = "full"     // every source line, blank and comment lines included
)

// ParseCommentLevel validates a comment-level flag value.
func ParseCommentLevel(s string) (CommentLevel, error) {
	switch CommentLevel(s) {
	case COMMENT_NONE, COMMENT_STRIPPED, COMMENT_FULL:
		return CommentLevel(s), nil
	}
	return "", errors.Errorf("unknown comment level %q (want none, stripped or full)", s)
}

// BinaryListing renders an assembled image as binary-digit text, one
// instruction word per line.
func BinaryListing(image []byte, inputName string, level CommentLevel, lines []SourceLine) (string, error) {
	return listing(image, inputName, level, lines, func(b1, b2 byte) string {
		return fmt.Sprintf("%08b %08b", b1, b2)
	}, 18)
}

// HexListing renders an assembled image as hex-digit text, one
// instruction word per line.
func HexListing(image []byte, inputName string, level CommentLevel, lines []SourceLine) (string, error) {
	return listing(image, inputName, level, lines, func(b1, b2 byte) string {
		return fmt.Sprintf("%02x %02x", b1, b2)
	}, 6)
}

func listing(image []byte, inputName string, level CommentLevel, lines []SourceLine, word func(b1, b2 byte) string, width int) (string, error) {
	var sb strings.Builder

	wordAt := func(i int) string {
		var b2 byte
		if i+1 < len(image) {
			b2 = image[i+1]
		}
		return word(image[i], b2)
	}

	switch level {
	case COMMENT_NONE:
		for i := 0; i < len(image); i += 2 {
			fmt.Fprintf(&sb, "%s\n", wordAt(i))
		}
		return sb.String(), nil

	case COMMENT_STRIPPED:
		fmt.Fprintf(&sb, "// Assembled from: %s\n", filepath.Base(inputName))
		byteIndex := 0
		for _, line := range lines {
			if !line.IsInstruction || byteIndex >= len(image) {
				continue
			}
			source := strings.TrimSpace(strings.SplitN(line.Instruction.SourceLine, ";", 2)[0])
			fmt.Fprintf(&sb, "%-*s // %s\n", width, wordAt(byteIndex), source)
			byteIndex += 2
		}
		// Padding beyond the instruction stream carries no comments.
		for ; byteIndex < len(image); byteIndex += 2 {
			fmt.Fprintf(&sb, "%s\n", wordAt(byteIndex))
		}
		return sb.String(), nil

	case COMMENT_FULL:
		fmt.Fprintf(&sb, "// Assembled from: %s\n", filepath.Base(inputName))
		byteIndex := 0
		for _, line := range lines {
			if line.IsInstruction && byteIndex < len(image) {
				fmt.Fprintf(&sb, "%-*s // %s\n", width, wordAt(byteIndex), line.Text)
				byteIndex += 2
			} else {
				fmt.Fprintf(&sb, "%-*s // %s\n", width, "", line.Text)
			}
		}
		for ; byteIndex < len(image); byteIndex += 2 {
			fmt.Fprintf(&sb, "%s\n", wordAt(byteIndex))
		}
		return sb.String(), nil
	}

	return "", errors.Errorf("unknown comment level %q", level)
}
