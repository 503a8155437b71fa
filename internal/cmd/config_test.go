package cmd_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/VUSB/internal/cmd"
	"github.com/Alia5/VUSB/usb"
)

func TestConfigInitRoundTrip(t *testing.T) {
	for _, format := range []string{"json", "yaml", "toml"} {
		t.Run(format, func(t *testing.T) {
			dest := filepath.Join(t.TempDir(), "endpoints."+format)
			init := cmd.ConfigInit{Format: format, Output: dest}
			require.NoError(t, init.Run())

			df, err := cmd.LoadDefinitions(dest)
			require.NoError(t, err)

			set, err := cmd.BuildEndpoints(df, discardLogger())
			require.NoError(t, err)
			assert.Equal(t, 2, set.Len())
			assert.NotNil(t, set.Get(1, usb.DirIn))
			assert.NotNil(t, set.Get(1, usb.DirOut))
		})
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	dest := writeFile(t, "endpoints.yaml", "endpoints: []\n")

	init := cmd.ConfigInit{Format: "yaml", Output: dest}
	err := init.Run()
	assert.ErrorContains(t, err, "destination exists")

	init.Force = true
	assert.NoError(t, init.Run())
}
