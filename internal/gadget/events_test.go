package gadget

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func setupEvent(bmRequestType, bRequest byte, wValue, wIndex, wLength uint16, kind byte) []byte {
	buf := make([]byte, ffsEventSize)
	buf[0] = bmRequestType
	buf[1] = bRequest
	binary.LittleEndian.PutUint16(buf[2:4], wValue)
	binary.LittleEndian.PutUint16(buf[4:6], wIndex)
	binary.LittleEndian.PutUint16(buf[6:8], wLength)
	buf[8] = kind
	return buf
}

func TestParseEventTooShortIsOther(t *testing.T) {
	ev := parseEvent(make([]byte, ffsEventSize-1))
	assert.Equal(t, EventOther, ev.Kind)
}

func TestParseEventSetupGetReport(t *testing.T) {
	raw := setupEvent(0xA1, 0x01, 0x0301, 0x0000, 64, ffsSetup)
	ev := parseEvent(raw)
	assert.Equal(t, EventSetup, ev.Kind)
	assert.Equal(t, uint8(0x01), ev.Setup.BRequest)
	assert.Equal(t, uint16(0x0301), ev.Setup.WValue)
	assert.Equal(t, uint16(64), ev.Setup.WLength)
}

func TestParseEventEnableDisableUnbind(t *testing.T) {
	assert.Equal(t, EventEnable, parseEvent(setupEvent(0, 0, 0, 0, 0, ffsEnable)).Kind)
	assert.Equal(t, EventDisable, parseEvent(setupEvent(0, 0, 0, 0, 0, ffsDisable)).Kind)
	assert.Equal(t, EventUnbind, parseEvent(setupEvent(0, 0, 0, 0, 0, ffsUnbind)).Kind)
}

func TestParseEventBindSuspendResumeAreOther(t *testing.T) {
	assert.Equal(t, EventOther, parseEvent(setupEvent(0, 0, 0, 0, 0, ffsBind)).Kind)
	assert.Equal(t, EventOther, parseEvent(setupEvent(0, 0, 0, 0, 0, ffsSuspend)).Kind)
	assert.Equal(t, EventOther, parseEvent(setupEvent(0, 0, 0, 0, 0, ffsResume)).Kind)
}

func TestDecodeHidRequestGetReportExtractsLowByteAsReportID(t *testing.T) {
	req := decodeHidRequest(SetupPacket{BRequest: hidGetReport, WValue: 0x03F5, WLength: 64})
	assert.Equal(t, HidGetReport, req.Kind)
	assert.Equal(t, byte(0xF5), req.ReportID)
	assert.Equal(t, 64, req.WLength)
}

func TestDecodeHidRequestSetReport(t *testing.T) {
	req := decodeHidRequest(SetupPacket{BRequest: hidSetReport, WValue: 0x03F4, WLength: 8})
	assert.Equal(t, HidSetReport, req.Kind)
	assert.Equal(t, byte(0xF4), req.ReportID)
}

func TestDecodeHidRequestSetIdleAndOther(t *testing.T) {
	assert.Equal(t, HidSetIdle, decodeHidRequest(SetupPacket{BRequest: hidSetIdle}).Kind)
	assert.Equal(t, HidOther, decodeHidRequest(SetupPacket{BRequest: 0xEE}).Kind)
}
