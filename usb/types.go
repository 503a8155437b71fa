// Package usb models the endpoint side of an emulated USB device:
// endpoint addressing, standard endpoint descriptors, and dispatch of
// standard control requests to per-endpoint handlers.
package usb

// USB descriptor type constants
const (
	DeviceDescType    = 0x01
	ConfigDescType    = 0x02
	StringDescType    = 0x03
	InterfaceDescType = 0x04
	EndpointDescType  = 0x05
)

// Descriptor lengths in bytes (fixed values from USB spec)
const (
	EndpointDescLen = 7
)

// Direction is the transfer direction of an endpoint, host-relative.
type Direction uint8

const (
	DirOut Direction = 0
	DirIn  Direction = 1
)

// directionMask is OR-ed into the endpoint address for IN endpoints.
const directionMask = 0x80

func (d Direction) String() string {
	if d == DirIn {
		return "IN"
	}
	return "OUT"
}

// TransferType selects the endpoint transfer mode (bmAttributes bits 0-1).
type TransferType uint8

const (
	TransferControl     TransferType = 0x00
	TransferIsochronous TransferType = 0x01
	TransferBulk        TransferType = 0x02
	TransferInterrupt   TransferType = 0x03
)

var transferTypeNames = map[TransferType]string{
	TransferControl:     "control",
	TransferIsochronous: "isochronous",
	TransferBulk:        "bulk",
	TransferInterrupt:   "interrupt",
}

func (t TransferType) String() string {
	if s, ok := transferTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

// SynchronizationType (bmAttributes bits 2-3), meaningful for
// isochronous endpoints only.
type SynchronizationType uint8

const (
	SyncNone     SynchronizationType = 0x00
	SyncAsync    SynchronizationType = 0x01
	SyncAdaptive SynchronizationType = 0x02
	SyncSync     SynchronizationType = 0x03
)

// UsageType (bmAttributes bits 4-5), meaningful for isochronous
// endpoints only.
type UsageType uint8

const (
	UsageData             UsageType = 0x00
	UsageFeedback         UsageType = 0x01
	UsageImplicitFeedback UsageType = 0x02
)

// StandardRequest is a bRequest code for USB chapter 9 standard requests.
type StandardRequest uint8

const (
	RequestGetStatus        StandardRequest = 0x00
	RequestClearFeature     StandardRequest = 0x01
	RequestSetFeature       StandardRequest = 0x03
	RequestSetAddress       StandardRequest = 0x05
	RequestGetDescriptor    StandardRequest = 0x06
	RequestSetDescriptor    StandardRequest = 0x07
	RequestGetConfiguration StandardRequest = 0x08
	RequestSetConfiguration StandardRequest = 0x09
	RequestGetInterface     StandardRequest = 0x0a
	RequestSetInterface     StandardRequest = 0x0b
	RequestSynchFrame       StandardRequest = 0x0c
)

var standardRequestNames = map[StandardRequest]string{
	RequestGetStatus:        "GET_STATUS",
	RequestClearFeature:     "CLEAR_FEATURE",
	RequestSetFeature:       "SET_FEATURE",
	RequestSetAddress:       "SET_ADDRESS",
	RequestGetDescriptor:    "GET_DESCRIPTOR",
	RequestSetDescriptor:    "SET_DESCRIPTOR",
	RequestGetConfiguration: "GET_CONFIGURATION",
	RequestSetConfiguration: "SET_CONFIGURATION",
	RequestGetInterface:     "GET_INTERFACE",
	RequestSetInterface:     "SET_INTERFACE",
	RequestSynchFrame:       "SYNCH_FRAME",
}

func (r StandardRequest) String() string {
	if s, ok := standardRequestNames[r]; ok {
		return s
	}
	return "UNKNOWN"
}

// Recipient is the target scope of a control request (bmRequestType bits 0-4).
type Recipient uint8

const (
	RecipientDevice    Recipient = 0x00
	RecipientInterface Recipient = 0x01
	RecipientEndpoint  Recipient = 0x02
	RecipientOther     Recipient = 0x03
)

var recipientNames = map[Recipient]string{
	RecipientDevice:    "device",
	RecipientInterface: "interface",
	RecipientEndpoint:  "endpoint",
	RecipientOther:     "other",
}

func (r Recipient) String() string {
	if s, ok := recipientNames[r]; ok {
		return s
	}
	return "unknown"
}
