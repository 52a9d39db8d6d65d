package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tomdriley/turtle-toolkit/asm"
)

var runOutput string

var runCmd = &cobra.Command{
	Use:   "run <input>",
	Short: "Assemble and simulate in one step",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var image []byte
		var err error
		if runOutput != "" {
			// Keep the intermediate binary the caller asked for.
			image, err = assembleFile(args[0], runOutput, "bin", "none", 0)
		} else {
			var source []byte
			if source, err = os.ReadFile(args[0]); err != nil {
				return errors.Wrapf(err, "couldn't read source file %q", args[0])
			}
			image, err = asm.Assemble(string(source))
		}
		if err != nil {
			return err
		}
		return simulateImage(image)
	},
}

func init() {
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "intermediate binary file (optional)")
	addSimulationFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}
