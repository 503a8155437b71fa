// Package cmd holds the kong command structs for the vusb CLI.
package cmd

// LogConfig groups the logging flags shared by all commands.
type LogConfig struct {
	Level string `help:"Log level (trace, debug, info, warn, error)" enum:"trace,debug,info,warn,error" default:"info" env:"VUSB_LOG_LEVEL"`
	File  string `help:"Write logs to this file instead of the console" env:"VUSB_LOG_FILE"`
	Raw   string `help:"Write hex dumps of emitted descriptor bytes to this file" env:"VUSB_LOG_RAW"`
}

// CLI is the root command structure parsed by kong.
type CLI struct {
	ConfigPath string    `name:"config" help:"Path to a config file (json, yaml or toml)" type:"path"`
	Log        LogConfig `embed:"" prefix:"log."`

	Describe Describe      `cmd:"" help:"Build endpoints from a definitions file and print their descriptors"`
	Validate Validate      `cmd:"" help:"Validate an endpoint definitions file"`
	Config   ConfigCommand `cmd:"" help:"Configuration helpers"`
}
