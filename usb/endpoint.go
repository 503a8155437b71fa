package usb

import (
	"bytes"
	"fmt"
	"log/slog"
)

// identifierMask keeps the direction bit and the endpoint number nibble
// of an address byte; the reserved bits in between are ignored when
// matching captured descriptors, per the USB specification.
const identifierMask = 0b10001111

// maxEndpointNumber is the largest endpoint number encodable in the
// 4-bit number field of an endpoint address.
const maxEndpointNumber = 0x0f

// EndpointOptions carries the optional endpoint fields. Nil pointers
// select the defaults (bulk, no synchronization, data usage, 64-byte
// packets, zero interval); explicit zero values are honored as-is.
type EndpointOptions struct {
	TransferType        *TransferType
	SynchronizationType *SynchronizationType
	UsageType           *UsageType
	MaxPacketSize       *uint16
	Interval            *uint8
	Parent              Parent
	Logger              *slog.Logger
}

// Endpoint is a single addressable communication channel of an emulated
// USB device. All configuration is fixed at construction; the only
// mutable pieces are the optional event callbacks, which must be set
// before the endpoint takes part in dispatch.
type Endpoint struct {
	number        uint8
	direction     Direction
	transferType  TransferType
	syncType      SynchronizationType
	usageType     UsageType
	maxPacketSize uint16
	interval      uint8

	parent Parent
	logger *slog.Logger

	handlers []RequestHandler

	onDataReceived  func([]byte)
	onDataRequested func()
	onBufferEmpty   func()
}

// NewEndpoint builds an endpoint for the given number and direction.
// Out-of-range field values are rejected with a *ConfigError rather
// than truncated, so a misconfigured endpoint can never emit a corrupt
// descriptor.
func NewEndpoint(number uint8, direction Direction, o *EndpointOptions) (*Endpoint, error) {
	if number > maxEndpointNumber {
		return nil, &ConfigError{Field: "number", Value: int(number), Reason: "must be 0-15"}
	}
	if direction != DirIn && direction != DirOut {
		return nil, &ConfigError{Field: "direction", Value: int(direction), Reason: "must be IN or OUT"}
	}

	e := &Endpoint{
		number:        number,
		direction:     direction,
		transferType:  TransferBulk,
		syncType:      SyncNone,
		usageType:     UsageData,
		maxPacketSize: 64,
		interval:      0,
		logger:        slog.Default(),
	}

	if o != nil {
		if o.TransferType != nil {
			e.transferType = *o.TransferType
		}
		if o.SynchronizationType != nil {
			e.syncType = *o.SynchronizationType
		}
		if o.UsageType != nil {
			e.usageType = *o.UsageType
		}
		if o.MaxPacketSize != nil {
			e.maxPacketSize = *o.MaxPacketSize
		}
		if o.Interval != nil {
			e.interval = *o.Interval
		}
		if o.Parent != nil {
			e.parent = o.Parent
		}
		if o.Logger != nil {
			e.logger = o.Logger
		}
	}

	if e.transferType > TransferInterrupt {
		return nil, &ConfigError{Field: "transferType", Value: int(e.transferType), Reason: "unknown transfer type"}
	}
	if e.syncType > SyncSync {
		return nil, &ConfigError{Field: "synchronizationType", Value: int(e.syncType), Reason: "unknown synchronization type"}
	}
	if e.usageType > UsageImplicitFeedback {
		return nil, &ConfigError{Field: "usageType", Value: int(e.usageType), Reason: "unknown usage type"}
	}

	// The handler table is fixed from here on; dispatchers may scan it
	// concurrently without locking.
	e.handlers = []RequestHandler{
		{
			Request: RequestClearFeature,
			Matches: e.targetsThisEndpoint,
			Handle:  e.handleClearFeature,
		},
	}

	return e, nil
}

// AddressForNumber computes the protocol address byte for an endpoint
// number and direction. The number is assumed to be in range; callers
// use this to predict an address before an endpoint exists.
func AddressForNumber(number uint8, direction Direction) uint8 {
	if direction == DirIn {
		return number | directionMask
	}
	return number
}

// Number returns the endpoint number without the direction bit.
func (e *Endpoint) Number() uint8 { return e.number }

// Direction returns the endpoint's transfer direction.
func (e *Endpoint) Direction() Direction { return e.direction }

// TransferType returns the endpoint's transfer mode.
func (e *Endpoint) TransferType() TransferType { return e.transferType }

// MaxPacketSize returns the largest packet the endpoint accepts or emits.
func (e *Endpoint) MaxPacketSize() uint16 { return e.maxPacketSize }

// Interval returns the polling interval in (micro)frames.
func (e *Endpoint) Interval() uint8 { return e.interval }

// Address returns the endpoint's protocol address byte: the endpoint
// number with bit 7 set for IN endpoints.
func (e *Endpoint) Address() uint8 {
	return AddressForNumber(e.number, e.direction)
}

// Attributes returns the bmAttributes byte for the endpoint descriptor.
func (e *Endpoint) Attributes() uint8 {
	return uint8(e.transferType)&0x03 |
		(uint8(e.syncType)&0x03)<<2 |
		(uint8(e.usageType)&0x03)<<4
}

// Descriptor returns the standard 7-byte USB endpoint descriptor.
func (e *Endpoint) Descriptor() []byte {
	return []byte{
		EndpointDescLen,
		EndpointDescType,
		e.Address(),
		e.Attributes(),
		uint8(e.maxPacketSize),
		uint8(e.maxPacketSize >> 8),
		e.interval,
	}
}

// Write appends the endpoint descriptor to b, for parents concatenating
// descriptors during enumeration.
func (e *Endpoint) Write(b *bytes.Buffer) {
	b.Write(e.Descriptor())
}

// Attach sets the endpoint's parent. Called by configuration-building
// code when the endpoint is placed under an interface; the reference is
// used only to locate the owning device.
func (e *Endpoint) Attach(p Parent) {
	e.parent = p
}

// Device returns the device owning this endpoint, or nil when the
// endpoint is not attached.
func (e *Endpoint) Device() Device {
	if e.parent == nil {
		return nil
	}
	return e.parent.GetDevice()
}

// Send transmits data on this endpoint. Valid only for IN endpoints;
// the payload is handed to the owning device, which chunks it into
// packets of at most MaxPacketSize bytes. When blocking is true the
// call returns only once the backend reports completion.
func (e *Endpoint) Send(data []byte, blocking bool) error {
	if e.direction != DirIn {
		return fmt.Errorf("endpoint 0x%02x: %w", e.Address(), ErrInvalidDirection)
	}
	dev := e.Device()
	if dev == nil {
		return fmt.Errorf("endpoint 0x%02x: %w", e.Address(), ErrNotAttached)
	}
	return dev.SendInPackets(e.number, data, e.maxPacketSize, blocking)
}

// HandleDataReceived is invoked by the device when payload data arrives
// on an OUT endpoint. Without a handler set, the data is logged and
// discarded; the transfer itself still proceeds.
func (e *Endpoint) HandleDataReceived(data []byte) {
	if e.onDataReceived != nil {
		e.onDataReceived(data)
		return
	}
	e.logger.Info("endpoint received data but has no handler",
		"ep", e.number, "len", len(data))
}

// HandleDataRequested is invoked when the host polls this IN endpoint
// and no data is queued. The default means "nothing to send this frame".
func (e *Endpoint) HandleDataRequested() {
	if e.onDataRequested != nil {
		e.onDataRequested()
	}
}

// HandleBufferEmpty is invoked the first time the endpoint's outbound
// buffer drains to empty, as an extension point for refill logic.
func (e *Endpoint) HandleBufferEmpty() {
	if e.onBufferEmpty != nil {
		e.onBufferEmpty()
	}
}

// SetDataReceivedHandler installs a callback replacing the default
// log-and-discard behavior of HandleDataReceived.
func (e *Endpoint) SetDataReceivedHandler(f func(data []byte)) {
	e.onDataReceived = f
}

// SetDataRequestedHandler installs a callback invoked when the host
// polls the endpoint with nothing queued.
func (e *Endpoint) SetDataRequestedHandler(f func()) {
	e.onDataRequested = f
}

// SetBufferEmptyHandler installs a callback invoked when the outbound
// buffer first drains.
func (e *Endpoint) SetBufferEmptyHandler(f func()) {
	e.onBufferEmpty = f
}

// RequestHandlers returns the endpoint's standard-request handlers in
// declaration order.
func (e *Endpoint) RequestHandlers() []RequestHandler {
	return e.handlers
}

// targetsThisEndpoint reports whether a control request's recipient
// scope is this endpoint: recipient field ENDPOINT and the wIndex low
// byte equal to this endpoint's address.
func (e *Endpoint) targetsThisEndpoint(req ControlRequest) bool {
	return req.Recipient() == RecipientEndpoint && uint8(req.Index()) == e.Address()
}

func (e *Endpoint) handleClearFeature(req ControlRequest) error {
	e.logger.Debug("CLEAR_FEATURE",
		"ep", e.number, "value", req.Value())
	return req.Acknowledge()
}

// Identifier returns the endpoint's address byte, its unique key among
// endpoints of the same parent.
func (e *Endpoint) Identifier() uint8 {
	return e.Address()
}

// MatchesIdentifier reports whether a raw captured address byte
// identifies this endpoint. Only the direction bit and the low nibble
// take part in the comparison.
func (e *Endpoint) MatchesIdentifier(other uint8) bool {
	return other&identifierMask == e.Address()&identifierMask
}

func (e *Endpoint) String() string {
	extra := ""
	if e.transferType == TransferInterrupt {
		extra = fmt.Sprintf(" every %dms", e.interval)
	}
	return fmt.Sprintf("endpoint %02x/%s: %s transfers%s",
		e.number, e.direction, e.transferType, extra)
}
