// Package cmd implements the turtle-toolkit command line interface.
package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomdriley/turtle-toolkit/config"
)

var (
	verbose    bool
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "turtle-toolkit",
	Short: "Assembler and cycle-accurate simulator for the Turtle CPU",
	Long: `turtle-toolkit assembles Turtle CPU assembly into 16-bit little-endian
instruction images and runs them on a cycle-accurate model of the
processor's microarchitecture.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configFile != "" {
			return config.LoadFile(configFile)
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "width configuration file (YAML)")
}

// infof logs progress messages when --verbose is set.
func infof(format string, args ...interface{}) {
	if verbose {
		log.Printf(format, args...)
	}
}

// Execute runs the CLI, exiting non-zero on any failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}
