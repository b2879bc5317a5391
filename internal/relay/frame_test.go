package relay

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFrameThenReadFrameRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte{0x01, 0x02, 0x03, 0x04}
	require.NoError(t, WriteFrame(&buf, channelControl, payload))

	channel, got, err := ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, channelControl, channel)
	assert.Equal(t, payload, got)
}

func TestWriteFrameEmptyPayload(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, channelInterrupt, nil))

	channel, got, err := ReadFrame(&buf)
	require.NoError(t, err)
	assert.Equal(t, channelInterrupt, channel)
	assert.Empty(t, got)
}

func TestWriteFrameRejectsOversizedPayload(t *testing.T) {
	var buf bytes.Buffer
	oversized := make([]byte, MaxFramePayload+1)
	assert.Error(t, WriteFrame(&buf, channelControl, oversized))
}

func TestReadFrameRejectsOversizedLength(t *testing.T) {
	header := []byte{channelControl, 0x01, 0x01} // length 257
	_, _, err := ReadFrame(bytes.NewReader(header))
	assert.Error(t, err)
}

func TestReadFrameShortHeaderReturnsError(t *testing.T) {
	_, _, err := ReadFrame(bytes.NewReader([]byte{0x11, 0x00}))
	assert.Error(t, err)
}

func TestFrameChannelsMatchPSMs(t *testing.T) {
	assert.Equal(t, byte(0x11), channelControl)
	assert.Equal(t, byte(0x13), channelInterrupt)
}
