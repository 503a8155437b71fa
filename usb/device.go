package usb

// Device is the minimal interface an endpoint's owning device must
// implement. The device performs the actual I/O against the backend;
// endpoints only hand it data to move.
type Device interface {
	// SendInPackets transmits data on the given IN endpoint number,
	// chunked into packets of at most packetSize bytes. When blocking is
	// true the call returns only once the backend reports the transfer
	// complete; otherwise it returns as soon as the data is queued.
	SendInPackets(number uint8, data []byte, packetSize uint16, blocking bool) error
}

// Parent is a node of the descriptor hierarchy an endpoint hangs off
// (an interface or the device itself). Endpoints keep a weak reference
// to their parent and use it only to locate the owning device.
type Parent interface {
	GetDevice() Device
}
