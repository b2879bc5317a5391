package ds3

import "sync"

// Report holds one 49-byte DS3 input report and exposes field-level
// mutators. A single mutex guards the whole buffer;
// no caller ever holds it across a blocking call, so mutators stay cheap and
// composable from independent input sources (buttons from one goroutine,
// motion from another).
type Report struct {
	mu  sync.Mutex
	buf [InputReportSize]byte
}

// NewReport returns a Report pre-populated with the DS3 idle frame: report
// id 0x01, sticks centered, plugged-in/USB connection, full battery.
func NewReport() *Report {
	r := &Report{}
	r.buf[OffReportID] = FeatureID01
	r.buf[OffStickLX] = StickCenter
	r.buf[OffStickLY] = StickCenter
	r.buf[OffStickRX] = StickCenter
	r.buf[OffStickRY] = StickCenter
	r.buf[OffPlugStatus] = PlugPlugged
	r.buf[OffBattery] = BatteryFull
	r.buf[OffConnection] = ConnUSB
	return r
}

// Snapshot copies the current 49-byte report into out. If out is shorter
// than InputReportSize, only its first len(out) bytes are filled.
func (r *Report) Snapshot(out []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copy(out, r.buf[:])
}

// Bytes returns a freshly allocated copy of the current report.
func (r *Report) Bytes() []byte {
	out := make([]byte, InputReportSize)
	r.Snapshot(out)
	return out
}

// SetButtons writes the two button bitfields and the PS button bit.
func (r *Report) SetButtons(b1, b2 byte, ps bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf[OffButtons1] = b1
	r.buf[OffButtons2] = b2
	if ps {
		r.buf[OffPS] |= ButtonPS
	} else {
		r.buf[OffPS] &^= ButtonPS
	}
}

// SetSticks writes the four analog stick axes, each centered on 0x80.
func (r *Report) SetSticks(lx, ly, rx, ry byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf[OffStickLX] = lx
	r.buf[OffStickLY] = ly
	r.buf[OffStickRX] = rx
	r.buf[OffStickRY] = ry
}

// FacePressures holds the synthesized or true analog pressure for every
// pressure-sensitive DS3 button.
type FacePressures struct {
	Up, Right, Down, Left   byte
	L2, R2, L1, R1          byte
	Triangle, Circle, Cross, Square byte
}

// SetFacePressures writes the analog pressure bytes for d-pad and face
// buttons plus shoulder triggers (bytes 10-13 and 18-25).
func (r *Report) SetFacePressures(p FacePressures) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf[OffPressureUp] = p.Up
	r.buf[OffPressureRight] = p.Right
	r.buf[OffPressureDown] = p.Down
	r.buf[OffPressureLeft] = p.Left
	r.buf[OffPressureL2] = p.L2
	r.buf[OffPressureR2] = p.R2
	r.buf[OffPressureL1] = p.L1
	r.buf[OffPressureR1] = p.R1
	r.buf[OffPressureTri] = p.Triangle
	r.buf[OffPressureCircle] = p.Circle
	r.buf[OffPressureCross] = p.Cross
	r.buf[OffPressureSquare] = p.Square
}

// SetTriggers is retained for callers that only track the two analog
// triggers without touching the rest of the pressure block.
func (r *Report) SetTriggers(l2, r2 byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf[OffPressureL2] = l2
	r.buf[OffPressureR2] = r2
}

// Motion is the accelerometer/gyro payload, already scaled to DS3 units.
type Motion struct {
	AccelX, AccelY, AccelZ uint16
	GyroZ                  uint16
}

// SetMotion writes the little-endian accel/gyro words (bytes 40-47).
func (r *Report) SetMotion(m Motion) {
	r.mu.Lock()
	defer r.mu.Unlock()
	putLE16(r.buf[OffAccelX:], m.AccelX)
	putLE16(r.buf[OffAccelY:], m.AccelY)
	putLE16(r.buf[OffAccelZ:], m.AccelZ)
	putLE16(r.buf[OffGyroZ:], m.GyroZ)
}

// SetBattery writes the plug status, battery bucket, and connection-mode
// byte (bytes 29-31).
func (r *Report) SetBattery(plugged bool, level, conn byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if plugged {
		r.buf[OffPlugStatus] = PlugPlugged
	} else {
		r.buf[OffPlugStatus] = PlugUnplugged
	}
	r.buf[OffBattery] = level
	r.buf[OffConnection] = conn
}

func putLE16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}
