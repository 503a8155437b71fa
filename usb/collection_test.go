package usb_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/VUSB/usb"
)

func mustEndpoint(t *testing.T, number uint8, dir usb.Direction) *usb.Endpoint {
	t.Helper()
	ep, err := usb.NewEndpoint(number, dir, nil)
	require.NoError(t, err)
	return ep
}

func TestEndpointSetRejectsDuplicates(t *testing.T) {
	set := &usb.EndpointSet{}

	require.NoError(t, set.Add(mustEndpoint(t, 1, usb.DirIn)))
	// Same number, other direction is a distinct endpoint.
	require.NoError(t, set.Add(mustEndpoint(t, 1, usb.DirOut)))

	err := set.Add(mustEndpoint(t, 1, usb.DirIn))
	assert.ErrorIs(t, err, usb.ErrDuplicateEndpoint)
	assert.Equal(t, 2, set.Len())
}

func TestEndpointSetGet(t *testing.T) {
	set := &usb.EndpointSet{}
	in := mustEndpoint(t, 3, usb.DirIn)
	require.NoError(t, set.Add(in))

	assert.Equal(t, in, set.Get(3, usb.DirIn))
	assert.Nil(t, set.Get(3, usb.DirOut))
	assert.Nil(t, set.Get(4, usb.DirIn))
}

func TestEndpointSetFindByIdentifier(t *testing.T) {
	set := &usb.EndpointSet{}
	in := mustEndpoint(t, 1, usb.DirIn)
	out := mustEndpoint(t, 2, usb.DirOut)
	require.NoError(t, set.Add(in))
	require.NoError(t, set.Add(out))

	assert.Equal(t, in, set.FindByIdentifier(0x81))
	// Reserved bits in a captured address byte are ignored.
	assert.Equal(t, in, set.FindByIdentifier(0xf1))
	assert.Equal(t, out, set.FindByIdentifier(0x02))
	assert.Nil(t, set.FindByIdentifier(0x05))
}

func TestEndpointSetDescriptors(t *testing.T) {
	set := &usb.EndpointSet{}
	first := mustEndpoint(t, 1, usb.DirIn)
	second := mustEndpoint(t, 2, usb.DirOut)
	require.NoError(t, set.Add(first))
	require.NoError(t, set.Add(second))

	blob := set.Descriptors()
	require.Len(t, blob, 14)
	assert.Equal(t, first.Descriptor(), blob[:7])
	assert.Equal(t, second.Descriptor(), blob[7:])
}

func TestEndpointSetAggregatesHandlers(t *testing.T) {
	set := &usb.EndpointSet{}
	require.NoError(t, set.Add(mustEndpoint(t, 1, usb.DirIn)))
	require.NoError(t, set.Add(mustEndpoint(t, 1, usb.DirOut)))

	assert.Len(t, set.RequestHandlers(), 2)
}

func TestEndpointSetEndpointsIsACopy(t *testing.T) {
	set := &usb.EndpointSet{}
	require.NoError(t, set.Add(mustEndpoint(t, 1, usb.DirIn)))

	eps := set.Endpoints()
	require.Len(t, eps, 1)
	eps[0] = nil
	assert.NotNil(t, set.Endpoints()[0])
}
