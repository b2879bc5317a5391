package gadget

import "encoding/binary"

// FunctionFS event types, from the kernel's usb_functionfs_event_type.
const (
	ffsBind    = 0
	ffsUnbind  = 1
	ffsEnable  = 2
	ffsDisable = 3
	ffsSetup   = 4
	ffsSuspend = 5
	ffsResume  = 6
)

// Standard HID class requests carried inside a SETUP event.
const (
	hidGetReport uint8 = 0x01
	hidSetReport uint8 = 0x09
	hidSetIdle   uint8 = 0x0A
)

// EventKind tags the variant of UsbEvent that a FunctionFS ep0 read
// yielded.
type EventKind int

const (
	EventOther EventKind = iota
	EventSetup
	EventEnable
	EventDisable
	EventUnbind
)

// SetupPacket is the 8-byte control transfer header delivered with a
// FunctionFS SETUP event.
type SetupPacket struct {
	BmRequestType uint8
	BRequest      uint8
	WValue        uint16
	WIndex        uint16
	WLength       uint16
}

// UsbEvent is the tagged-variant form of a single FunctionFS ep0 event
// record, replacing the switch-on-byte dispatch of the raw kernel struct.
type UsbEvent struct {
	Kind  EventKind
	Setup SetupPacket
}

// ffsEventSize is sizeof(struct usb_functionfs_event): an 8-byte setup
// union followed by a 1-byte type and 3 bytes of padding.
const ffsEventSize = 12

// parseEvent decodes one raw FunctionFS event record. It returns
// EventOther for anything this adapter does not act on (bind, suspend,
// resume) so the control loop can ignore it uniformly.
func parseEvent(raw []byte) UsbEvent {
	if len(raw) < ffsEventSize {
		return UsbEvent{Kind: EventOther}
	}

	setup := SetupPacket{
		BmRequestType: raw[0],
		BRequest:      raw[1],
		WValue:        binary.LittleEndian.Uint16(raw[2:4]),
		WIndex:        binary.LittleEndian.Uint16(raw[4:6]),
		WLength:       binary.LittleEndian.Uint16(raw[6:8]),
	}
	kind := raw[8]

	switch kind {
	case ffsSetup:
		return UsbEvent{Kind: EventSetup, Setup: setup}
	case ffsEnable:
		return UsbEvent{Kind: EventEnable}
	case ffsDisable:
		return UsbEvent{Kind: EventDisable}
	case ffsUnbind:
		return UsbEvent{Kind: EventUnbind}
	default:
		return UsbEvent{Kind: EventOther}
	}
}

// HidRequestKind tags the variant of a decoded HID class request.
type HidRequestKind int

const (
	HidOther HidRequestKind = iota
	HidGetReport
	HidSetReport
	HidSetIdle
)

// HidRequest is the tagged-variant decoding of a SETUP event's HID class
// semantics: report id, and for SET_REPORT the payload read from ep0.
type HidRequest struct {
	Kind    HidRequestKind
	ReportID byte
	WLength int
	Payload []byte
}

// decodeHidRequest classifies a SETUP packet's bRequest/wValue into the
// HID request this adapter understands.
func decodeHidRequest(sp SetupPacket) HidRequest {
	reportID := byte(sp.WValue & 0xFF)
	switch sp.BRequest {
	case hidGetReport:
		return HidRequest{Kind: HidGetReport, ReportID: reportID, WLength: int(sp.WLength)}
	case hidSetReport:
		return HidRequest{Kind: HidSetReport, ReportID: reportID, WLength: int(sp.WLength)}
	case hidSetIdle:
		return HidRequest{Kind: HidSetIdle}
	default:
		return HidRequest{Kind: HidOther}
	}
}
