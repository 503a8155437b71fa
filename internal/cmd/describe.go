package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/Alia5/VUSB/internal/log"
)

// Describe builds endpoints from a definitions file and prints their
// addresses, attributes and descriptor bytes.
type Describe struct {
	File   string `arg:"" help:"Endpoint definitions file (.json, .yaml or .toml)" type:"existingfile"`
	Binary bool   `help:"Write the raw concatenated descriptor bytes to stdout"`
}

// Run is called by kong when the describe command is executed.
func (d *Describe) Run(logger *slog.Logger, hexlog log.HexLogger) error {
	df, err := LoadDefinitions(d.File)
	if err != nil {
		return err
	}
	set, err := BuildEndpoints(df, logger)
	if err != nil {
		return err
	}
	logger.Debug("built endpoints", "file", d.File, "count", set.Len())

	if d.Binary {
		// Raw descriptor bytes garble a terminal; insist on redirection.
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("refusing to write binary descriptors to a terminal; redirect stdout or drop --binary")
		}
		_, err := os.Stdout.Write(set.Descriptors())
		return err
	}

	for _, ep := range set.Endpoints() {
		desc := ep.Descriptor()
		hexlog.Dump(false, desc)
		fmt.Printf("%s\n", ep)
		fmt.Printf("  address: 0x%02x  attributes: 0x%02x  maxPacketSize: %d  interval: %d\n",
			ep.Address(), ep.Attributes(), ep.MaxPacketSize(), ep.Interval())
		fmt.Printf("  descriptor: % x\n", desc)
	}
	return nil
}

// Validate parses and constructs the endpoints in a definitions file,
// reporting the first configuration error it finds.
type Validate struct {
	File string `arg:"" help:"Endpoint definitions file (.json, .yaml or .toml)" type:"existingfile"`
}

// Run is called by kong when the validate command is executed.
func (v *Validate) Run(logger *slog.Logger) error {
	df, err := LoadDefinitions(v.File)
	if err != nil {
		return err
	}
	set, err := BuildEndpoints(df, logger)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d endpoint(s) ok\n", v.File, set.Len())
	return nil
}
