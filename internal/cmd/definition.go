package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"

	"github.com/Alia5/VUSB/usb"
)

// EndpointDefinition is the on-disk form of one endpoint. Optional
// fields are pointers so an explicit zero survives into the endpoint
// (a zero max packet size is legal in a descriptor).
type EndpointDefinition struct {
	Number          uint8   `json:"number" yaml:"number" toml:"number"`
	Direction       string  `json:"direction" yaml:"direction" toml:"direction"`
	TransferType    string  `json:"transferType,omitempty" yaml:"transferType,omitempty" toml:"transferType,omitempty"`
	Synchronization string  `json:"synchronization,omitempty" yaml:"synchronization,omitempty" toml:"synchronization,omitempty"`
	Usage           string  `json:"usage,omitempty" yaml:"usage,omitempty" toml:"usage,omitempty"`
	MaxPacketSize   *uint16 `json:"maxPacketSize,omitempty" yaml:"maxPacketSize,omitempty" toml:"maxPacketSize,omitempty"`
	Interval        *uint8  `json:"interval,omitempty" yaml:"interval,omitempty" toml:"interval,omitempty"`
}

// DefinitionFile is the top-level structure of an endpoint definitions
// file in any of the supported formats.
type DefinitionFile struct {
	Endpoints []EndpointDefinition `json:"endpoints" yaml:"endpoints" toml:"endpoints"`
}

// LoadDefinitions reads an endpoint definitions file, picking the
// parser from the file extension (.json, .yaml/.yml or .toml).
func LoadDefinitions(path string) (*DefinitionFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var df DefinitionFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &df)
	case ".toml":
		err = toml.Unmarshal(data, &df)
	case ".json":
		err = json.Unmarshal(data, &df)
	default:
		return nil, fmt.Errorf("unsupported definitions format %q (want .json, .yaml or .toml)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &df, nil
}

// BuildEndpoints constructs the endpoints described by a definitions
// file into an EndpointSet, surfacing configuration and duplicate
// errors with their position in the file.
func BuildEndpoints(df *DefinitionFile, logger *slog.Logger) (*usb.EndpointSet, error) {
	set := &usb.EndpointSet{}
	for i, def := range df.Endpoints {
		ep, err := buildEndpoint(def, logger)
		if err != nil {
			return nil, fmt.Errorf("endpoint %d: %w", i, err)
		}
		if err := set.Add(ep); err != nil {
			return nil, fmt.Errorf("endpoint %d: %w", i, err)
		}
	}
	return set, nil
}

func buildEndpoint(def EndpointDefinition, logger *slog.Logger) (*usb.Endpoint, error) {
	dir, err := parseDirection(def.Direction)
	if err != nil {
		return nil, err
	}

	opts := &usb.EndpointOptions{
		MaxPacketSize: def.MaxPacketSize,
		Interval:      def.Interval,
		Logger:        logger,
	}

	if def.TransferType != "" {
		tt, err := parseTransferType(def.TransferType)
		if err != nil {
			return nil, err
		}
		opts.TransferType = &tt
	}
	if def.Synchronization != "" {
		st, err := parseSynchronization(def.Synchronization)
		if err != nil {
			return nil, err
		}
		opts.SynchronizationType = &st
	}
	if def.Usage != "" {
		ut, err := parseUsage(def.Usage)
		if err != nil {
			return nil, err
		}
		opts.UsageType = &ut
	}

	return usb.NewEndpoint(def.Number, dir, opts)
}

func parseDirection(s string) (usb.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return usb.DirIn, nil
	case "out":
		return usb.DirOut, nil
	default:
		return 0, fmt.Errorf("unknown direction %q (want in or out)", s)
	}
}

func parseTransferType(s string) (usb.TransferType, error) {
	switch strings.ToLower(s) {
	case "control":
		return usb.TransferControl, nil
	case "isochronous":
		return usb.TransferIsochronous, nil
	case "bulk":
		return usb.TransferBulk, nil
	case "interrupt":
		return usb.TransferInterrupt, nil
	default:
		return 0, fmt.Errorf("unknown transfer type %q", s)
	}
}

func parseSynchronization(s string) (usb.SynchronizationType, error) {
	switch strings.ToLower(s) {
	case "none":
		return usb.SyncNone, nil
	case "async":
		return usb.SyncAsync, nil
	case "adaptive":
		return usb.SyncAdaptive, nil
	case "sync":
		return usb.SyncSync, nil
	default:
		return 0, fmt.Errorf("unknown synchronization type %q", s)
	}
}

func parseUsage(s string) (usb.UsageType, error) {
	switch strings.ToLower(s) {
	case "data":
		return usb.UsageData, nil
	case "feedback":
		return usb.UsageFeedback, nil
	case "implicit-feedback":
		return usb.UsageImplicitFeedback, nil
	default:
		return 0, fmt.Errorf("unknown usage type %q", s)
	}
}
