package controller

import (
	"encoding/binary"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rosettapad/rosettapad/internal/ds3"
	"github.com/rosettapad/rosettapad/internal/dualsense"
	"github.com/rosettapad/rosettapad/internal/lightbar"
	"github.com/rosettapad/rosettapad/internal/translate"
)

func newTestPlant() *Plant {
	return New(ds3.NewReport(), &translate.RumbleCell{}, &lightbar.Cell{}, lightbar.DefaultPath, slog.Default())
}

func TestApplyFrameWritesSticksAndButtons(t *testing.T) {
	p := newTestPlant()
	frame := dualsense.InputFrame{LX: 0x40, LY: 0xC0, RX: 0x10, RY: 0x20, Button1: 0x00}
	var touch translate.TouchOrigin
	p.applyFrame(frame, &touch)

	snap := p.report.Bytes()
	assert.Equal(t, byte(0x40), snap[ds3.OffStickLX])
	assert.Equal(t, byte(0xC0), snap[ds3.OffStickLY])
	assert.Equal(t, byte(0x10), snap[ds3.OffStickRX])
	assert.Equal(t, byte(0x20), snap[ds3.OffStickRY])
}

func TestApplyFrameTouchpadStickModeOverridesRightStick(t *testing.T) {
	p := newTestPlant()
	p.SetTouchpadAsRightStick(true)

	frame := dualsense.InputFrame{RX: 0x99, RY: 0x99, TouchpadByte: 0x00, TouchpadBytes: [3]byte{0, 0, 0}}
	var touch translate.TouchOrigin
	p.applyFrame(frame, &touch)

	snap := p.report.Bytes()
	assert.Equal(t, byte(128), snap[ds3.OffStickRX])
	assert.NotEqual(t, byte(0x99), snap[ds3.OffStickRX])
}

func TestApplyFrameSetsMotionWhenPresent(t *testing.T) {
	p := newTestPlant()
	frame := dualsense.InputFrame{HasMotion: true, GyroZ: 320}
	var touch translate.TouchOrigin
	p.applyFrame(frame, &touch)

	snap := p.report.Bytes()
	got := binary.LittleEndian.Uint16(snap[ds3.OffGyroZ : ds3.OffGyroZ+2])
	assert.Equal(t, uint16(508), got)
}

func TestApplyFrameSetsBatteryWhenPresent(t *testing.T) {
	p := newTestPlant()
	frame := dualsense.InputFrame{HasBattery: true, BatteryByte: 0x05}
	var touch translate.TouchOrigin
	p.applyFrame(frame, &touch)

	snap := p.report.Bytes()
	assert.Equal(t, byte(ds3.BatteryMedium), snap[ds3.OffBattery])
	assert.Equal(t, byte(ds3.PlugPlugged), snap[ds3.OffPlugStatus])
}
