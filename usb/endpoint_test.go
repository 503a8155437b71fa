package usb_test

import (
	"bytes"
	"encoding/binary"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/VUSB/usb"
)

// mockDevice records the packetization calls it receives.
type mockDevice struct {
	calls []sendCall
}

type sendCall struct {
	number     uint8
	data       []byte
	packetSize uint16
	blocking   bool
}

func (m *mockDevice) SendInPackets(number uint8, data []byte, packetSize uint16, blocking bool) error {
	m.calls = append(m.calls, sendCall{number: number, data: data, packetSize: packetSize, blocking: blocking})
	return nil
}

// mockParent is a descriptor-tree node handing out its device.
type mockParent struct {
	dev usb.Device
}

func (m *mockParent) GetDevice() usb.Device { return m.dev }

func ptrU16(v uint16) *uint16 { return &v }
func ptrU8(v uint8) *uint8    { return &v }

func ptrTransfer(v usb.TransferType) *usb.TransferType           { return &v }
func ptrSync(v usb.SynchronizationType) *usb.SynchronizationType { return &v }
func ptrUsage(v usb.UsageType) *usb.UsageType                    { return &v }

func TestAddressForNumber(t *testing.T) {
	for number := uint8(0); number <= 15; number++ {
		in := usb.AddressForNumber(number, usb.DirIn)
		out := usb.AddressForNumber(number, usb.DirOut)

		assert.Equal(t, number|0x80, in)
		assert.Equal(t, number, out)
		assert.NotZero(t, in&0x80, "IN address must have bit 7 set")
		assert.Zero(t, out&0x80, "OUT address must have bit 7 clear")
	}
}

func TestNewEndpointDefaults(t *testing.T) {
	ep, err := usb.NewEndpoint(2, usb.DirIn, nil)
	require.NoError(t, err)

	assert.Equal(t, uint8(2), ep.Number())
	assert.Equal(t, usb.DirIn, ep.Direction())
	assert.Equal(t, usb.TransferBulk, ep.TransferType())
	assert.Equal(t, uint16(64), ep.MaxPacketSize())
	assert.Equal(t, uint8(0), ep.Interval())
	assert.Equal(t, uint8(0x82), ep.Address())
}

func TestNewEndpointValidation(t *testing.T) {
	tests := []struct {
		name      string
		number    uint8
		direction usb.Direction
		opts      *usb.EndpointOptions
	}{
		{
			name:      "number above 15",
			number:    16,
			direction: usb.DirIn,
		},
		{
			name:      "invalid direction",
			number:    1,
			direction: usb.Direction(2),
		},
		{
			name:      "invalid transfer type",
			number:    1,
			direction: usb.DirIn,
			opts:      &usb.EndpointOptions{TransferType: ptrTransfer(usb.TransferType(4))},
		},
		{
			name:      "invalid synchronization type",
			number:    1,
			direction: usb.DirIn,
			opts:      &usb.EndpointOptions{SynchronizationType: ptrSync(usb.SynchronizationType(4))},
		},
		{
			name:      "invalid usage type",
			number:    1,
			direction: usb.DirIn,
			opts:      &usb.EndpointOptions{UsageType: ptrUsage(usb.UsageType(3))},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ep, err := usb.NewEndpoint(tc.number, tc.direction, tc.opts)
			assert.Nil(t, ep)
			var cfgErr *usb.ConfigError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestDescriptorGolden(t *testing.T) {
	ep, err := usb.NewEndpoint(1, usb.DirIn, &usb.EndpointOptions{
		TransferType:  ptrTransfer(usb.TransferBulk),
		MaxPacketSize: ptrU16(64),
		Interval:      ptrU8(0),
	})
	require.NoError(t, err)

	assert.Equal(t, []byte{0x07, 0x05, 0x81, 0x02, 0x40, 0x00, 0x00}, ep.Descriptor())
}

func TestDescriptorShape(t *testing.T) {
	ep, err := usb.NewEndpoint(15, usb.DirOut, &usb.EndpointOptions{
		TransferType: ptrTransfer(usb.TransferInterrupt),
		Interval:     ptrU8(10),
	})
	require.NoError(t, err)

	desc := ep.Descriptor()
	require.Len(t, desc, 7)
	assert.Equal(t, uint8(7), desc[0])
	assert.Equal(t, uint8(5), desc[1])
	assert.Equal(t, uint8(0x0f), desc[2])
	assert.Equal(t, uint8(10), desc[6])

	// Descriptor must be pure: repeated calls yield identical bytes.
	assert.Equal(t, desc, ep.Descriptor())
}

func TestDescriptorMaxPacketSizeRoundTrip(t *testing.T) {
	for _, mps := range []uint16{0, 1, 64, 512, 1023, 65535} {
		ep, err := usb.NewEndpoint(1, usb.DirIn, &usb.EndpointOptions{MaxPacketSize: ptrU16(mps)})
		require.NoError(t, err)

		desc := ep.Descriptor()
		assert.Equal(t, mps, binary.LittleEndian.Uint16(desc[4:6]), "maxPacketSize %d", mps)
	}
}

func TestAttributes(t *testing.T) {
	tests := []struct {
		name string
		opts *usb.EndpointOptions
		want uint8
	}{
		{
			name: "bulk data endpoint",
			opts: &usb.EndpointOptions{
				TransferType:        ptrTransfer(usb.TransferBulk),
				SynchronizationType: ptrSync(usb.SyncNone),
				UsageType:           ptrUsage(usb.UsageData),
			},
			want: 0x02,
		},
		{
			name: "isochronous async feedback endpoint",
			opts: &usb.EndpointOptions{
				TransferType:        ptrTransfer(usb.TransferIsochronous),
				SynchronizationType: ptrSync(usb.SyncAsync),
				UsageType:           ptrUsage(usb.UsageFeedback),
			},
			want: 0x15,
		},
		{
			name: "interrupt endpoint",
			opts: &usb.EndpointOptions{TransferType: ptrTransfer(usb.TransferInterrupt)},
			want: 0x03,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ep, err := usb.NewEndpoint(1, usb.DirIn, tc.opts)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ep.Attributes())
		})
	}
}

func TestWriteConcatenates(t *testing.T) {
	ep, err := usb.NewEndpoint(3, usb.DirOut, nil)
	require.NoError(t, err)

	var b bytes.Buffer
	b.WriteByte(0xaa)
	ep.Write(&b)
	assert.Equal(t, append([]byte{0xaa}, ep.Descriptor()...), b.Bytes())
}

func TestSendForwardsToDevice(t *testing.T) {
	dev := &mockDevice{}
	ep, err := usb.NewEndpoint(1, usb.DirIn, &usb.EndpointOptions{
		MaxPacketSize: ptrU16(8),
		Parent:        &mockParent{dev: dev},
	})
	require.NoError(t, err)

	payload := []byte("0123456789abcdef")
	require.NoError(t, ep.Send(payload, true))

	require.Len(t, dev.calls, 1)
	call := dev.calls[0]
	assert.Equal(t, uint8(1), call.number)
	assert.Equal(t, payload, call.data)
	assert.Equal(t, uint16(8), call.packetSize)
	assert.True(t, call.blocking)
}

func TestSendOnOutEndpoint(t *testing.T) {
	dev := &mockDevice{}
	ep, err := usb.NewEndpoint(1, usb.DirOut, &usb.EndpointOptions{Parent: &mockParent{dev: dev}})
	require.NoError(t, err)

	err = ep.Send([]byte{0x01}, false)
	assert.ErrorIs(t, err, usb.ErrInvalidDirection)
	assert.Empty(t, dev.calls, "device must never see a send from an OUT endpoint")
}

func TestSendDetached(t *testing.T) {
	ep, err := usb.NewEndpoint(1, usb.DirIn, nil)
	require.NoError(t, err)

	err = ep.Send([]byte{0x01}, false)
	assert.ErrorIs(t, err, usb.ErrNotAttached)
}

func TestAttachReachesDevice(t *testing.T) {
	dev := &mockDevice{}
	ep, err := usb.NewEndpoint(2, usb.DirIn, nil)
	require.NoError(t, err)

	assert.Nil(t, ep.Device())
	ep.Attach(&mockParent{dev: dev})
	assert.Equal(t, usb.Device(dev), ep.Device())
}

func TestDataEventHandlers(t *testing.T) {
	ep, err := usb.NewEndpoint(1, usb.DirOut, &usb.EndpointOptions{
		Logger: slog.New(slog.DiscardHandler),
	})
	require.NoError(t, err)

	// Defaults must not panic: data is logged and discarded, polls are no-ops.
	ep.HandleDataReceived([]byte{0x01, 0x02})
	ep.HandleDataRequested()
	ep.HandleBufferEmpty()

	var received []byte
	requested := 0
	drained := 0
	ep.SetDataReceivedHandler(func(data []byte) { received = data })
	ep.SetDataRequestedHandler(func() { requested++ })
	ep.SetBufferEmptyHandler(func() { drained++ })

	ep.HandleDataReceived([]byte{0xaa, 0xbb})
	ep.HandleDataRequested()
	ep.HandleBufferEmpty()

	assert.Equal(t, []byte{0xaa, 0xbb}, received)
	assert.Equal(t, 1, requested)
	assert.Equal(t, 1, drained)
}

func TestIdentifierMatching(t *testing.T) {
	ep, err := usb.NewEndpoint(1, usb.DirIn, nil)
	require.NoError(t, err)

	assert.Equal(t, uint8(0x81), ep.Identifier())

	tests := []struct {
		name      string
		candidate uint8
		want      bool
	}{
		{name: "exact address", candidate: 0x81, want: true},
		{name: "reserved bits set", candidate: 0xf1, want: true},
		{name: "wrong direction", candidate: 0x01, want: false},
		{name: "wrong number", candidate: 0x82, want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ep.MatchesIdentifier(tc.candidate))
		})
	}
}

func TestString(t *testing.T) {
	bulk, err := usb.NewEndpoint(1, usb.DirIn, nil)
	require.NoError(t, err)
	assert.Equal(t, "endpoint 01/IN: bulk transfers", bulk.String())

	intr, err := usb.NewEndpoint(2, usb.DirOut, &usb.EndpointOptions{
		TransferType: ptrTransfer(usb.TransferInterrupt),
		Interval:     ptrU8(5),
	})
	require.NoError(t, err)
	assert.Equal(t, "endpoint 02/OUT: interrupt transfers every 5ms", intr.String())
}
