package config

import (
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsbCommandDefaults(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli)
	require.NoError(t, err)

	_, err = parser.Parse([]string{"usb"})
	require.NoError(t, err)

	assert.Equal(t, "info", cli.Log.Level)
	assert.False(t, cli.Usb.TouchpadAsRightStick)
}

func TestRelayCommandRequiresHostAndDefaultsPort(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli)
	require.NoError(t, err)

	_, err = parser.Parse([]string{"relay", "192.168.1.50"})
	require.NoError(t, err)

	assert.Equal(t, "192.168.1.50", cli.Relay.Host)
	assert.Equal(t, 5555, cli.Relay.Port)
}

func TestRelayCommandWithoutHostFails(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli)
	require.NoError(t, err)

	_, err = parser.Parse([]string{"relay"})
	assert.Error(t, err)
}

func TestExactlyOneModeRequired(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli)
	require.NoError(t, err)

	_, err = parser.Parse([]string{})
	assert.Error(t, err)
}
