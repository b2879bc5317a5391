package dualsense

import "encoding/binary"

// ReportIDInput is the Bluetooth HID report id a DualSense tags every
// input frame with.
const ReportIDInput = 0x31

// ReportIDOutput is the report id written on outbound (rumble/lightbar)
// frames.
const ReportIDOutput = 0x31

// InputFrameSize and OutputFrameSize are the fixed Bluetooth report sizes.
const (
	InputFrameSize  = 78
	OutputFrameSize = 78
)

// Minimum lengths at which progressively more of an input frame becomes
// meaningful; shorter buffers still decode, yielding a partial frame.
const (
	MinFrameLen   = 12
	MotionFrameLen = 28
	BatteryFrameLen = 55
)

// InputFrame is the decoded, protocol-neutral view of a DualSense
// Bluetooth input report. HasMotion and HasBattery report which optional
// regions the source buffer was long enough to contain.
type InputFrame struct {
	LX, LY, RX, RY byte
	L2, R2         byte

	// Button1 packs the hat (low nibble, 0-8) and face buttons (high
	// nibble: Square, Cross, Circle, Triangle from bit4).
	Button1 byte
	// Button2 packs shoulders/triggers/Create/Options/L3/R3.
	Button2 byte
	// Button3 packs PS, touchpad click, mute.
	Button3 byte

	HasMotion bool
	GyroX, GyroY, GyroZ       int16
	AccelX, AccelY, AccelZ    int16

	HasBattery bool
	BatteryByte byte

	TouchpadByte  byte
	TouchpadBytes [3]byte
}

// Hat returns the d-pad hat nibble (0-8).
func (f InputFrame) Hat() byte { return f.Button1 & 0x0F }

// Decode parses a raw DualSense Bluetooth input report. It returns false
// if data is too short or its report id is not 0x31; the Report Store is
// left untouched by callers in that case.
func Decode(data []byte) (InputFrame, bool) {
	var f InputFrame
	if len(data) < MinFrameLen || data[0] != ReportIDInput {
		return f, false
	}

	f.LX, f.LY, f.RX, f.RY = data[2], data[3], data[4], data[5]
	f.L2, f.R2 = data[6], data[7]
	f.Button1 = data[9]
	f.Button2 = data[10]
	f.Button3 = data[11]

	if len(data) >= MotionFrameLen {
		f.HasMotion = true
		f.GyroX = int16(binary.LittleEndian.Uint16(data[16:18]))
		f.GyroY = int16(binary.LittleEndian.Uint16(data[18:20]))
		f.GyroZ = int16(binary.LittleEndian.Uint16(data[20:22]))
		f.AccelX = int16(binary.LittleEndian.Uint16(data[22:24]))
		f.AccelY = int16(binary.LittleEndian.Uint16(data[24:26]))
		f.AccelZ = int16(binary.LittleEndian.Uint16(data[26:28]))
	}

	if len(data) >= BatteryFrameLen {
		f.HasBattery = true
		f.BatteryByte = data[54]
	}

	if len(data) > 37 {
		f.TouchpadByte = data[34]
		f.TouchpadBytes = [3]byte{data[35], data[36], data[37]}
	}

	return f, true
}

// OutputFrame is the protocol-neutral view of a DualSense Bluetooth
// output report (rumble + lightbar).
type OutputFrame struct {
	RumbleRight, RumbleLeft byte
	LightbarR, LightbarG, LightbarB byte
	PlayerLEDs                      byte
}

// Encoder owns the 4-bit wrapping sequence counter. It is the sole
// producer of DualSense output frames; no other component may emit them.
type Encoder struct {
	seq byte
}

// Encode builds a 78-byte output report from of, stamping it with the
// next sequence value and a trailing CRC-32, then advances the sequence
// counter.
func (e *Encoder) Encode(of OutputFrame) [OutputFrameSize]byte {
	var b [OutputFrameSize]byte
	b[0] = ReportIDOutput
	b[1] = e.seq << 4
	b[2] = 0x10

	b[3] = 0x03 // rumble + haptics valid
	b[4] = 0x0C // lightbar + player LEDs valid
	b[41] = 0x02 // lightbar setup valid

	b[5] = of.RumbleRight
	b[6] = of.RumbleLeft

	b[44] = 0x02 // lightbar setup: fade-in enable
	b[45] = 0xFF // brightness
	b[46] = of.PlayerLEDs
	b[47] = of.LightbarR
	b[48] = of.LightbarG
	b[49] = of.LightbarB

	crc := ChecksumFrame(b[:])
	binary.LittleEndian.PutUint32(b[74:78], crc)

	e.seq = (e.seq + 1) & 0x0F
	return b
}
