package dualsense

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRejectsShortOrWrongID(t *testing.T) {
	_, ok := Decode(make([]byte, MinFrameLen-1))
	assert.False(t, ok)

	buf := make([]byte, MinFrameLen)
	buf[0] = 0x01
	_, ok = Decode(buf)
	assert.False(t, ok)
}

func TestDecodeMinimalFrameHasNoMotionOrBattery(t *testing.T) {
	buf := make([]byte, MinFrameLen)
	buf[0] = ReportIDInput
	buf[2], buf[3], buf[4], buf[5] = 0x40, 0xC0, 0x10, 0x20
	f, ok := Decode(buf)
	require.True(t, ok)
	assert.Equal(t, byte(0x40), f.LX)
	assert.Equal(t, byte(0xC0), f.LY)
	assert.False(t, f.HasMotion)
	assert.False(t, f.HasBattery)
}

func TestDecodeLongFrameHasMotionAndBattery(t *testing.T) {
	buf := make([]byte, InputFrameSize)
	buf[0] = ReportIDInput
	binary.LittleEndian.PutUint16(buf[20:22], uint16(int16(-100)))
	buf[54] = 0x15 // level 5, charging bit set

	f, ok := Decode(buf)
	require.True(t, ok)
	assert.True(t, f.HasMotion)
	assert.Equal(t, int16(-100), f.GyroZ)
	assert.True(t, f.HasBattery)
	assert.Equal(t, byte(0x15), f.BatteryByte)
}

func TestHatExtractsLowNibble(t *testing.T) {
	f := InputFrame{Button1: 0x53}
	assert.Equal(t, byte(0x03), f.Hat())
}

func TestEncodeProducesVerifiableCRC(t *testing.T) {
	var enc Encoder
	frame := enc.Encode(OutputFrame{RumbleRight: 0xFF, RumbleLeft: 0x80})

	want := ChecksumFrame(frame[:])
	got := binary.LittleEndian.Uint32(frame[74:78])
	assert.Equal(t, want, got)
	assert.Equal(t, byte(0xFF), frame[5])
	assert.Equal(t, byte(0x80), frame[6])
}

func TestEncodeSequenceWrapsModSixteen(t *testing.T) {
	var enc Encoder
	var last byte
	for i := 0; i < 17; i++ {
		frame := enc.Encode(OutputFrame{})
		last = frame[1] >> 4
	}
	// After 17 emissions the counter, started at 0, has wrapped once:
	// values 0..15 then 0 again -> last emitted sequence is 0.
	assert.Equal(t, byte(0), last)
}
