package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tomdriley/turtle-toolkit/dump"
)

var memCompareIgnoreComments bool

var memCompareCmd = &cobra.Command{
	Use:   "mem-compare <file1> <file2>",
	Short: "Compare two memory or register dump files",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := os.ReadFile(args[0])
		if err != nil {
			return errors.Wrapf(err, "couldn't read %q", args[0])
		}
		b, err := os.ReadFile(args[1])
		if err != nil {
			return errors.Wrapf(err, "couldn't read %q", args[1])
		}

		diffs, err := dump.Compare(string(a), string(b), memCompareIgnoreComments)
		if err != nil {
			return err
		}
		if len(diffs) == 0 {
			fmt.Printf("%s and %s match\n", args[0], args[1])
			return nil
		}

		if verbose {
			for _, d := range diffs {
				fmt.Println(d)
			}
		}
		return errors.Errorf("%s and %s differ (%d mismatches)", args[0], args[1], len(diffs))
	},
}

func init() {
	memCompareCmd.Flags().BoolVar(&memCompareIgnoreComments, "ignore-comments", false, "compare the byte streams, ignoring comments and layout")
	rootCmd.AddCommand(memCompareCmd)
}
