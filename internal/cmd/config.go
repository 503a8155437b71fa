package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"

	"github.com/Alia5/VUSB/internal/configpaths"
)

// ConfigCommand groups config-related subcommands.
type ConfigCommand struct {
	Init ConfigInit `cmd:"" help:"Generate an endpoint definitions template"`
}

// ConfigInit scaffolds an endpoint definitions file.
type ConfigInit struct {
	Format string `help:"Output format" enum:"json,yaml,toml" default:"yaml"`
	Output string `help:"Destination file path (defaults to endpoints.<format> in the current directory)"`
	Force  bool   `help:"Overwrite if the file already exists"`
}

// Run generates a definitions template with one endpoint per direction.
func (c *ConfigInit) Run() error {
	mps := uint16(64)
	interval := uint8(5)
	template := DefinitionFile{
		Endpoints: []EndpointDefinition{
			{
				Number:        1,
				Direction:     "in",
				TransferType:  "interrupt",
				MaxPacketSize: &mps,
				Interval:      &interval,
			},
			{
				Number:       1,
				Direction:    "out",
				TransferType: "bulk",
			},
		},
	}

	dest := c.Output
	if dest == "" {
		dest = "endpoints." + c.Format
	}

	if !c.Force {
		if _, err := os.Stat(dest); err == nil {
			return errors.New("destination exists; use --force to overwrite")
		}
	}
	if err := configpaths.EnsureDir(dest); err != nil {
		return err
	}

	var data []byte
	var err error
	switch c.Format {
	case "json":
		data, err = json.MarshalIndent(template, "", "  ")
	case "yaml":
		data, err = yaml.Marshal(template)
	case "toml":
		data, err = toml.Marshal(template)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", dest)
	return nil
}
