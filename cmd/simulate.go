package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tomdriley/turtle-toolkit/cpu"
	"github.com/tomdriley/turtle-toolkit/dump"
)

var (
	simulateFormat   string
	simulateMax      int
	dumpMemoryPath   string
	dumpMemoryFull   bool
	dumpRegistersOut string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <input>",
	Short: "Simulate an instruction image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		image, err := readImage(args[0], simulateFormat)
		if err != nil {
			return err
		}
		return simulateImage(image)
	},
}

func init() {
	addSimulationFlags(simulateCmd)
	simulateCmd.Flags().StringVarP(&simulateFormat, "format", "f", "bin", "input format: bin, binstr or hexstr")
	rootCmd.AddCommand(simulateCmd)
}

// addSimulationFlags registers the flags shared by simulate and run.
func addSimulationFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&simulateMax, "max-cycles", "m", 10000, "watchdog cycle limit")
	cmd.Flags().StringVar(&dumpMemoryPath, "dump-memory", "", "write a data memory dump to this file")
	cmd.Flags().BoolVar(&dumpMemoryFull, "dump-memory-full", false, "densify the memory dump from address zero")
	cmd.Flags().StringVar(&dumpRegistersOut, "dump-registers", "", "write a register dump to this file")
}

func readImage(path, format string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't read input file %q", path)
	}
	switch format {
	case "bin":
		return raw, nil
	case "binstr", "hexstr":
		image, warnings, err := dump.ParseText(string(raw))
		if err != nil {
			return nil, errors.Wrapf(err, "couldn't parse text image %q", path)
		}
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s: %s\n", path, w)
		}
		return image, nil
	}
	return nil, errors.Errorf("unknown input format %q (want bin, binstr or hexstr)", format)
}

func simulateImage(image []byte) error {
	infof("simulating %d instruction words", len(image)/2)

	sim := cpu.NewSimulator()
	if err := sim.LoadBinary(image); err != nil {
		return err
	}

	result, err := sim.RunUntilHalt(simulateMax)
	if err != nil {
		return err
	}

	fmt.Println("Simulation Results:")
	fmt.Printf("Total cycles: %d\n", result.CycleCount)
	fmt.Printf("Halted: %t\n", result.Halted)
	fmt.Println(sim.FormatState())

	if dumpMemoryPath != "" {
		text := sim.FormatDataMemoryDump(dumpMemoryFull)
		if err := os.WriteFile(dumpMemoryPath, []byte(text), 0644); err != nil {
			return errors.Wrapf(err, "couldn't write memory dump %q", dumpMemoryPath)
		}
	}
	if dumpRegistersOut != "" {
		if err := os.WriteFile(dumpRegistersOut, []byte(sim.FormatRegisterDump()), 0644); err != nil {
			return errors.Wrapf(err, "couldn't write register dump %q", dumpRegistersOut)
		}
	}
	return nil
}
