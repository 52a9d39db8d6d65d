package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tomdriley/turtle-toolkit/asm"
)

var (
	assembleOutput   string
	assembleFormat   string
	assembleComments string
	assembleLength   int
)

var assembleCmd = &cobra.Command{
	Use:   "assemble <input>",
	Short: "Assemble source code to an instruction image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := assembleFile(args[0], assembleOutput, assembleFormat, assembleComments, assembleLength)
		return err
	},
}

func init() {
	assembleCmd.Flags().StringVarP(&assembleOutput, "output", "o", "", "output file (default: input with the format's extension)")
	assembleCmd.Flags().StringVarP(&assembleFormat, "format", "f", "bin", "output format: bin, binstr or hexstr")
	assembleCmd.Flags().StringVarP(&assembleComments, "comments", "c", "stripped", "listing comment level: none, stripped or full")
	assembleCmd.Flags().IntVarP(&assembleLength, "length", "l", 0, "pad the image with zero bytes to this length")
	rootCmd.AddCommand(assembleCmd)
}

func assembleFile(input, output, format, comments string, length int) ([]byte, error) {
	source, err := os.ReadFile(input)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't read source file %q", input)
	}

	image, lines, err := asm.AssembleWithSourceLines(string(source))
	if err != nil {
		return nil, err
	}
	if length > 0 {
		if image, err = asm.Pad(image, length); err != nil {
			return nil, err
		}
	}

	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
	}

	switch format {
	case "bin":
		err = os.WriteFile(output, image, 0644)
	case "binstr", "hexstr":
		var level asm.CommentLevel
		if level, err = asm.ParseCommentLevel(comments); err != nil {
			return nil, err
		}
		var text string
		if format == "binstr" {
			text, err = asm.BinaryListing(image, input, level, lines)
		} else {
			text, err = asm.HexListing(image, input, level, lines)
		}
		if err != nil {
			return nil, err
		}
		err = os.WriteFile(output, []byte(text), 0644)
	default:
		return nil, errors.Errorf("unknown output format %q (want bin, binstr or hexstr)", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't write output file %q", output)
	}

	infof("assembled %d instruction words to %s", len(image)/2, output)
	return image, nil
}
