package usb

import "fmt"

// ControlRequest is the view of a SETUP transaction that handlers
// receive. The control pipe owning the transfer implements it; handlers
// finish the transfer by calling Acknowledge or Stall exactly once.
type ControlRequest interface {
	// Number is the bRequest code of the request.
	Number() StandardRequest
	// Recipient is the target scope from bmRequestType.
	Recipient() Recipient
	// Value is the wValue field.
	Value() uint16
	// Index is the wIndex field. For endpoint-recipient requests its low
	// byte carries the target endpoint address.
	Index() uint16

	// Acknowledge accepts the transfer (ACK the status stage).
	Acknowledge() error
	// Stall rejects the transfer.
	Stall() error
}

// RequestHandler binds a standard request number and a recipient-scope
// predicate to a handler procedure. Tables of these are built once at
// construction and never mutated, so they are safe for concurrent scans.
type RequestHandler struct {
	Request StandardRequest
	// Matches reports whether the handler is in scope for the request.
	// A nil predicate matches unconditionally.
	Matches func(ControlRequest) bool
	Handle  func(ControlRequest) error
}

// RequestHandlerProvider is implemented by anything that owns a table
// of standard-request handlers (endpoints, endpoint sets, interfaces).
type RequestHandlerProvider interface {
	// RequestHandlers returns the provider's handlers in declaration
	// order. Empty if none are declared.
	RequestHandlers() []RequestHandler
}

// DispatchRequest scans each provider's handlers in order and invokes
// the first one whose request number and recipient predicate both
// match. On a miss it returns an error wrapping ErrNoHandler; the
// caller (the control pipe) must stall the transfer itself, per USB
// convention.
func DispatchRequest(req ControlRequest, providers ...RequestHandlerProvider) error {
	for _, p := range providers {
		for _, h := range p.RequestHandlers() {
			if h.Request != req.Number() {
				continue
			}
			if h.Matches != nil && !h.Matches(req) {
				continue
			}
			return h.Handle(req)
		}
	}
	return fmt.Errorf("%s to %s (index=0x%04x): %w",
		req.Number(), req.Recipient(), req.Index(), ErrNoHandler)
}
