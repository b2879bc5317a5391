package ds3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReportIdleFrame(t *testing.T) {
	r := NewReport()
	b := r.Bytes()
	require.Len(t, b, InputReportSize)

	assert.Equal(t, byte(FeatureID01), b[OffReportID])
	assert.Equal(t, byte(StickCenter), b[OffStickLX])
	assert.Equal(t, byte(StickCenter), b[OffStickLY])
	assert.Equal(t, byte(StickCenter), b[OffStickRX])
	assert.Equal(t, byte(StickCenter), b[OffStickRY])
	assert.Equal(t, byte(PlugPlugged), b[OffPlugStatus])
	assert.Equal(t, byte(BatteryFull), b[OffBattery])
}

func TestSetButtonsWritesBitfieldsAndPS(t *testing.T) {
	r := NewReport()
	r.SetButtons(Button1Start|Button1Up, Button2Cross, true)
	b := r.Bytes()

	assert.Equal(t, Button1Start|Button1Up, b[OffButtons1])
	assert.Equal(t, Button2Cross, b[OffButtons2])
	assert.NotZero(t, b[OffPS]&ButtonPS)

	r.SetButtons(0, 0, false)
	b = r.Bytes()
	assert.Zero(t, b[OffButtons1])
	assert.Zero(t, b[OffButtons2])
	assert.Zero(t, b[OffPS]&ButtonPS)
}

func TestSetFacePressuresWritesAllTwelveBytes(t *testing.T) {
	r := NewReport()
	r.SetFacePressures(FacePressures{
		Up: 1, Right: 2, Down: 3, Left: 4,
		L2: 5, R2: 6, L1: 7, R1: 8,
		Triangle: 9, Circle: 10, Cross: 11, Square: 12,
	})
	b := r.Bytes()
	assert.Equal(t, byte(1), b[OffPressureUp])
	assert.Equal(t, byte(2), b[OffPressureRight])
	assert.Equal(t, byte(3), b[OffPressureDown])
	assert.Equal(t, byte(4), b[OffPressureLeft])
	assert.Equal(t, byte(5), b[OffPressureL2])
	assert.Equal(t, byte(6), b[OffPressureR2])
	assert.Equal(t, byte(7), b[OffPressureL1])
	assert.Equal(t, byte(8), b[OffPressureR1])
	assert.Equal(t, byte(9), b[OffPressureTri])
	assert.Equal(t, byte(10), b[OffPressureCircle])
	assert.Equal(t, byte(11), b[OffPressureCross])
	assert.Equal(t, byte(12), b[OffPressureSquare])
}

func TestSetMotionLittleEndian(t *testing.T) {
	r := NewReport()
	r.SetMotion(Motion{AccelX: 0x0201, AccelY: 0x0403, AccelZ: 0x0605, GyroZ: 0x0807})
	b := r.Bytes()
	assert.Equal(t, []byte{0x01, 0x02}, b[OffAccelX:OffAccelX+2])
	assert.Equal(t, []byte{0x07, 0x08}, b[OffGyroZ:OffGyroZ+2])
}

func TestSetBatteryTogglesPlugStatus(t *testing.T) {
	r := NewReport()
	r.SetBattery(false, BatteryDying, ConnUSB)
	b := r.Bytes()
	assert.Equal(t, byte(PlugUnplugged), b[OffPlugStatus])
	assert.Equal(t, byte(BatteryDying), b[OffBattery])

	r.SetBattery(true, BatteryFull, ConnUSBRumble)
	b = r.Bytes()
	assert.Equal(t, byte(PlugPlugged), b[OffPlugStatus])
	assert.Equal(t, byte(ConnUSBRumble), b[OffConnection])
}

func TestSnapshotIsIndependentCopy(t *testing.T) {
	r := NewReport()
	a := r.Bytes()
	r.SetButtons(Button1Start, 0, false)
	assert.NotEqual(t, a[OffButtons1], r.Bytes()[OffButtons1], "snapshot must not alias internal buffer")
}
