// Package config loads the bus and memory width parameters that every
// other size in the toolkit is derived from.
package config

import (
	_ "embed"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed config.yml
var defaultConfig []byte

// Configured widths, in bits. Populated from the embedded config.yml at
// startup; LoadFile replaces them from an external file.
var (
	DataWidth               int
	InstructionWidth        int
	DataAddressWidth        int
	InstructionAddressWidth int
)

type widths struct {
	DataWidth               int `yaml:"data_width"`
	InstructionWidth        int `yaml:"instruction_width"`
	DataAddressWidth        int `yaml:"data_address_width"`
	InstructionAddressWidth int `yaml:"instruction_address_width"`
}

func init() {
	if err := Load(defaultConfig); err != nil {
		panic(err)
	}
}

// Load parses a YAML width configuration and installs it. Bus values are
// stored in 16-bit words, so no width may exceed 16.
func Load(raw []byte) error {
	var w widths
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return errors.Wrap(err, "couldn't parse width config")
	}

	keys := []struct {
		name  string
		value int
	}{
		{"data_width", w.DataWidth},
		{"instruction_width", w.InstructionWidth},
		{"data_address_width", w.DataAddressWidth},
		{"instruction_address_width", w.InstructionAddressWidth},
	}
	for _, k := range keys {
		if k.value <= 0 {
			return errors.Errorf("config key %q missing or not positive", k.name)
		}
		if k.value > 16 {
			return errors.Errorf("config key %q is %d; widths above 16 bits are not supported", k.name, k.value)
		}
	}
	if w.DataWidth > w.DataAddressWidth || w.DataWidth > w.InstructionAddressWidth {
		return errors.Errorf("data_width %d must not exceed the address widths (%d, %d)",
			w.DataWidth, w.DataAddressWidth, w.InstructionAddressWidth)
	}
	if w.InstructionWidth%8 != 0 {
		return errors.Errorf("instruction_width %d is not a whole number of bytes", w.InstructionWidth)
	}

	DataWidth = w.DataWidth
	InstructionWidth = w.InstructionWidth
	DataAddressWidth = w.DataAddressWidth
	InstructionAddressWidth = w.InstructionAddressWidth
	return nil
}

// LoadFile loads a width configuration from a YAML file.
func LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "couldn't read config file %q", path)
	}
	return Load(raw)
}
