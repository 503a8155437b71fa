package usb

import (
	"bytes"
	"fmt"
)

// EndpointSet holds the endpoints of one interface. It enforces that at
// most one endpoint exists per (number, direction) pair and provides
// the lookups used during enumeration and during reconstruction of a
// captured device's configuration tree.
type EndpointSet struct {
	endpoints []*Endpoint
}

// Add registers an endpoint with the set. Returns an error wrapping
// ErrDuplicateEndpoint if the set already holds an endpoint with the
// same number and direction.
func (s *EndpointSet) Add(ep *Endpoint) error {
	if existing := s.Get(ep.Number(), ep.Direction()); existing != nil {
		return fmt.Errorf("endpoint 0x%02x: %w", ep.Address(), ErrDuplicateEndpoint)
	}
	s.endpoints = append(s.endpoints, ep)
	return nil
}

// Get returns the endpoint with the given number and direction, or nil.
func (s *EndpointSet) Get(number uint8, direction Direction) *Endpoint {
	for _, ep := range s.endpoints {
		if ep.Number() == number && ep.Direction() == direction {
			return ep
		}
	}
	return nil
}

// FindByIdentifier returns the endpoint matching a raw captured address
// byte, or nil. Used when rebuilding a configuration tree from captured
// descriptors.
func (s *EndpointSet) FindByIdentifier(raw uint8) *Endpoint {
	for _, ep := range s.endpoints {
		if ep.MatchesIdentifier(raw) {
			return ep
		}
	}
	return nil
}

// Endpoints returns the members in insertion order.
func (s *EndpointSet) Endpoints() []*Endpoint {
	out := make([]*Endpoint, len(s.endpoints))
	copy(out, s.endpoints)
	return out
}

// Len returns the number of endpoints in the set.
func (s *EndpointSet) Len() int { return len(s.endpoints) }

// Descriptors concatenates the members' 7-byte descriptors in insertion
// order, as reported to the host during enumeration.
func (s *EndpointSet) Descriptors() []byte {
	var b bytes.Buffer
	for _, ep := range s.endpoints {
		ep.Write(&b)
	}
	return b.Bytes()
}

// RequestHandlers aggregates the members' handler tables in insertion
// order, so a whole set can be scanned by DispatchRequest.
func (s *EndpointSet) RequestHandlers() []RequestHandler {
	var out []RequestHandler
	for _, ep := range s.endpoints {
		out = append(out, ep.RequestHandlers()...)
	}
	return out
}
