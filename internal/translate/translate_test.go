package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rosettapad/rosettapad/internal/ds3"
	"github.com/rosettapad/rosettapad/internal/dualsense"
	"github.com/rosettapad/rosettapad/internal/lightbar"
)

func TestDpadMaskTable(t *testing.T) {
	cases := map[byte]byte{
		0: ds3.Button1Up,
		1: ds3.Button1Up | ds3.Button1Right,
		2: ds3.Button1Right,
		3: ds3.Button1Down | ds3.Button1Right,
		4: ds3.Button1Down,
		5: ds3.Button1Down | ds3.Button1Left,
		6: ds3.Button1Left,
		7: ds3.Button1Up | ds3.Button1Left,
		8: 0,
		9: 0,
	}
	for hat, want := range cases {
		assert.Equal(t, want, DpadMask(hat), "hat %d", hat)
	}
}

func TestButtonsCreateOptionsRemap(t *testing.T) {
	f := dualsense.InputFrame{Button1: 8, Button2: dsCreate | dsOptions}
	b1, _, _ := Buttons(f, false)
	assert.NotZero(t, b1&ds3.Button1Select)
	assert.NotZero(t, b1&ds3.Button1Start)
}

func TestButtonsTouchpadAsSelectUnlessStickMode(t *testing.T) {
	f := dualsense.InputFrame{Button1: 8, Button3: dsTouchpad}
	b1, _, _ := Buttons(f, false)
	assert.NotZero(t, b1&ds3.Button1Select)

	b1, _, _ = Buttons(f, true)
	assert.Zero(t, b1&ds3.Button1Select)
}

func TestButtonsPSBit(t *testing.T) {
	f := dualsense.InputFrame{Button1: 8, Button3: dsPS}
	_, _, ps := Buttons(f, false)
	assert.True(t, ps)
}

func TestFacePressuresPressedYieldsFullScale(t *testing.T) {
	f := dualsense.InputFrame{Button1: dsCross | 0, Button2: dsL2}
	p := FacePressures(f)
	assert.Equal(t, byte(0xFF), p.Cross)
	assert.Equal(t, byte(0xFF), p.L2)
	assert.Zero(t, p.Square)
	assert.Zero(t, p.R2)
}

func TestMotionScalingFormula(t *testing.T) {
	f := dualsense.InputFrame{HasMotion: true, AccelX: 160, AccelY: 0, AccelZ: -160, GyroZ: 320}
	m, ok := Motion(f)
	assert.True(t, ok)
	assert.Equal(t, uint16(512+10), m.AccelX)
	assert.Equal(t, uint16(512), m.AccelY)
	assert.Equal(t, uint16(512-10), m.AccelZ)
	assert.Equal(t, uint16(498+10), m.GyroZ)
}

func TestMotionAbsentWhenFrameHasNone(t *testing.T) {
	_, ok := Motion(dualsense.InputFrame{HasMotion: false})
	assert.False(t, ok)
}

func TestBatteryChargedAtFull(t *testing.T) {
	plug, level, _ := Battery(0x1F, false) // charging, decile 15 -> clamps to 100%
	assert.Equal(t, byte(ds3.PlugPlugged), plug)
	assert.Equal(t, byte(ds3.BatteryCharged), level)
}

func TestBatteryChargingNotYetFull(t *testing.T) {
	_, level, _ := Battery(0x15, false)
	assert.Equal(t, byte(ds3.BatteryCharging), level)
}

func TestBatteryBuckets(t *testing.T) {
	cases := []struct {
		raw  byte
		want byte
	}{
		{0x00, ds3.BatteryShutdown},
		{0x01, ds3.BatteryDying},
		{0x03, ds3.BatteryLow},
		{0x05, ds3.BatteryMedium},
		{0x08, ds3.BatteryHigh},
		{0x0A, ds3.BatteryFull},
	}
	for _, c := range cases {
		_, level, _ := Battery(c.raw, false)
		assert.Equal(t, c.want, level, "raw %#x", c.raw)
	}
}

func TestBatteryConnectionReflectsRumble(t *testing.T) {
	_, _, conn := Battery(0x00, true)
	assert.Equal(t, byte(ds3.ConnUSBRumble), conn)
	_, _, conn = Battery(0x00, false)
	assert.Equal(t, byte(ds3.ConnUSB), conn)
}

func TestRumbleFromConsoleReport(t *testing.T) {
	r, ok := RumbleFromConsoleReport([]byte{0x01, 0x00, 0xFF, 0x00, 0x80})
	assert.True(t, ok)
	assert.Equal(t, byte(0xFF), r.Right)
	assert.Equal(t, byte(0x80), r.Left)
	assert.True(t, r.NonZero())
}

func TestRumbleFromConsoleReportTooShort(t *testing.T) {
	_, ok := RumbleFromConsoleReport([]byte{0x01, 0x00})
	assert.False(t, ok)
}

func TestRightStickFromTouchCapturesOriginOnce(t *testing.T) {
	var origin TouchOrigin
	f := dualsense.InputFrame{TouchpadByte: 0x00, TouchpadBytes: [3]byte{0x00, 0x00, 0x00}}
	rx, ry, ok := RightStickFromTouch(&origin, f)
	assert.True(t, ok)
	assert.Equal(t, byte(128), rx)
	assert.Equal(t, byte(128), ry)

	f2 := dualsense.InputFrame{TouchpadByte: 0x00, TouchpadBytes: [3]byte{0xFF, 0x0F, 0x00}}
	rx2, _, _ := RightStickFromTouch(&origin, f2)
	assert.NotEqual(t, byte(128), rx2)
}

func TestRightStickFromTouchReleaseClearsOrigin(t *testing.T) {
	origin := TouchOrigin{Active: true, X: 10, Y: 10}
	f := dualsense.InputFrame{TouchpadByte: 0x80}
	_, _, ok := RightStickFromTouch(&origin, f)
	assert.False(t, ok)
	assert.False(t, origin.Active)
}

func TestRumbleCellSetGetRoundTrips(t *testing.T) {
	var c RumbleCell
	c.Set(Rumble{Right: 0xFF, Left: 0x40})
	got := c.Get()
	assert.Equal(t, byte(0xFF), got.Right)
	assert.Equal(t, byte(0x40), got.Left)
}

func TestToOutputFrameMapsCells(t *testing.T) {
	of := ToOutputFrame(Rumble{Right: 0xFF, Left: 0x80}, lightbar.State{R: 1, G: 2, B: 3, PlayerLEDs: 4})
	assert.Equal(t, dualsense.OutputFrame{
		RumbleRight: 0xFF,
		RumbleLeft:  0x80,
		LightbarR:   1,
		LightbarG:   2,
		LightbarB:   3,
		PlayerLEDs:  4,
	}, of)
}
