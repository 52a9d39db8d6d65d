// Package dump reads and compares the toolkit's text image formats:
// free-form lines of binary or hex digits with // comments to end of
// line. All whitespace is insignificant; the digits concatenate into a
// single byte stream.
package dump

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseText reads a text image into its byte stream. A token of eight
// 0/1 characters is one binary byte; any other token is hex digits, one
// byte per pair. An incomplete trailing nibble or byte is zero-padded,
// with a warning returned for each padding step.
func ParseText(text string) ([]byte, []string, error) {
	var nibbles strings.Builder

	scanner := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.SplitN(scanner.Text(), "//", 2)[0]
		for _, token := range strings.Fields(line) {
			if len(token) == 8 && strings.Trim(token, "01") == "" {
				v, err := strconv.ParseUint(token, 2, 8)
				if err != nil {
					return nil, nil, errors.Wrapf(err, "line %d: token %q", lineNo, token)
				}
				fmt.Fprintf(&nibbles, "%02x", v)
				continue
			}
			if strings.Trim(strings.ToLower(token), "0123456789abcdef") != "" {
				return nil, nil, errors.Errorf("line %d: token %q is neither binary nor hex digits", lineNo, token)
			}
			nibbles.WriteString(strings.ToLower(token))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, errors.Wrap(err, "couldn't scan text image")
	}

	var warnings []string
	stream := nibbles.String()
	if len(stream)%2 == 1 {
		stream += "0"
		warnings = append(warnings, "odd number of hex digits; padded final byte with a zero nibble")
	}

	data := make([]byte, 0, len(stream)/2)
	for i := 0; i < len(stream); i += 2 {
		v, err := strconv.ParseUint(stream[i:i+2], 16, 8)
		if err != nil {
			return nil, nil, errors.Wrap(err, "couldn't decode byte stream")
		}
		data = append(data, byte(v))
	}
	if len(data)%2 == 1 {
		data = append(data, 0)
		warnings = append(warnings, "odd byte count; padded to a whole instruction word with a zero byte")
	}
	return data, warnings, nil
}

// Compare checks two dump texts for equality. With ignoreComments set,
// the parsed byte streams are compared; otherwise the comparison is
// line-by-line over trimmed, non-blank lines. The returned slice
// describes every mismatch, nil meaning the dumps match.
func Compare(a, b string, ignoreComments bool) ([]string, error) {
	if ignoreComments {
		return compareStreams(a, b)
	}
	return compareLines(a, b), nil
}

func compareStreams(a, b string) ([]string, error) {
	da, _, err := ParseText(a)
	if err != nil {
		return nil, errors.Wrap(err, "first file")
	}
	db, _, err := ParseText(b)
	if err != nil {
		return nil, errors.Wrap(err, "second file")
	}

	var diffs []string
	if len(da) != len(db) {
		diffs = append(diffs, fmt.Sprintf("lengths differ: %d vs %d bytes", len(da), len(db)))
	}
	n := len(da)
	if len(db) < n {
		n = len(db)
	}
	for i := 0; i < n; i++ {
		if da[i] != db[i] {
			diffs = append(diffs, fmt.Sprintf("byte 0x%04x: 0x%02x vs 0x%02x", i, da[i], db[i]))
		}
	}
	return diffs, nil
}

func compareLines(a, b string) []string {
	la := contentLines(a)
	lb := contentLines(b)

	var diffs []string
	if len(la) != len(lb) {
		diffs = append(diffs, fmt.Sprintf("line counts differ: %d vs %d", len(la), len(lb)))
	}
	n := len(la)
	if len(lb) < n {
		n = len(lb)
	}
	for i := 0; i < n; i++ {
		if la[i] != lb[i] {
			diffs = append(diffs, fmt.Sprintf("line %d: %q vs %q", i+1, la[i], lb[i]))
		}
	}
	return diffs
}

func contentLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
