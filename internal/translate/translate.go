// Package translate converts a decoded DualSense input frame into DS3
// report fields, and DS3 rumble output back into a DualSense output
// frame. The field-mapping functions are pure; RumbleCell is the one
// piece of shared, lock-guarded state living here because it is the
// natural home for the Rumble type it carries.
package translate

import (
	"sync"

	"github.com/rosettapad/rosettapad/internal/ds3"
	"github.com/rosettapad/rosettapad/internal/dualsense"
	"github.com/rosettapad/rosettapad/internal/lightbar"
)

// DualSense button1 high-nibble face button bits.
const (
	dsSquare   = 1 << 4
	dsCross    = 1 << 5
	dsCircle   = 1 << 6
	dsTriangle = 1 << 7
)

// DualSense button2 bits.
const (
	dsL1      = 1 << 0
	dsR1      = 1 << 1
	dsL2      = 1 << 2
	dsR2      = 1 << 3
	dsCreate  = 1 << 4
	dsOptions = 1 << 5
	dsL3      = 1 << 6
	dsR3      = 1 << 7
)

// DualSense button3 bits.
const (
	dsPS       = 1 << 0
	dsTouchpad = 1 << 1
)

// dpadTable maps a DualSense hat (0-8, 8 = centered) to the DS3 direction
// bitmask. Diagonal hats set two bits; hats at or beyond 8 set none.
var dpadTable = [16]byte{
	0: ds3.Button1Up,
	1: ds3.Button1Up | ds3.Button1Right,
	2: ds3.Button1Right,
	3: ds3.Button1Down | ds3.Button1Right,
	4: ds3.Button1Down,
	5: ds3.Button1Down | ds3.Button1Left,
	6: ds3.Button1Left,
	7: ds3.Button1Up | ds3.Button1Left,
	// 8..15: centered/out of range, leave zero
}

// DpadMask returns the DS3 button1 d-pad bits for a DualSense hat value.
func DpadMask(hat byte) byte {
	if hat >= 8 {
		return 0
	}
	return dpadTable[hat]
}

// Buttons returns the DS3 button bitfields and PS bit for a decoded
// DualSense frame, honoring the Create->Select and Options->Start
// remaps and the touchpad-click-as-Select fallback.
func Buttons(f dualsense.InputFrame, touchpadAsStick bool) (b1, b2 byte, ps bool) {
	b1 = DpadMask(f.Hat())

	if f.Button2&dsCreate != 0 {
		b1 |= ds3.Button1Select
	}
	if f.Button2&dsOptions != 0 {
		b1 |= ds3.Button1Start
	}
	if f.Button2&dsL3 != 0 {
		b1 |= ds3.Button1L3
	}
	if f.Button2&dsR3 != 0 {
		b1 |= ds3.Button1R3
	}
	if !touchpadAsStick && f.Button3&dsTouchpad != 0 {
		b1 |= ds3.Button1Select
	}

	if f.Button1&dsSquare != 0 {
		b2 |= ds3.Button2Square
	}
	if f.Button1&dsCross != 0 {
		b2 |= ds3.Button2Cross
	}
	if f.Button1&dsCircle != 0 {
		b2 |= ds3.Button2Circle
	}
	if f.Button1&dsTriangle != 0 {
		b2 |= ds3.Button2Triangle
	}
	if f.Button2&dsL1 != 0 {
		b2 |= ds3.Button2L1
	}
	if f.Button2&dsR1 != 0 {
		b2 |= ds3.Button2R1
	}
	if f.Button2&dsL2 != 0 {
		b2 |= ds3.Button2L2
	}
	if f.Button2&dsR2 != 0 {
		b2 |= ds3.Button2R2
	}

	ps = f.Button3&dsPS != 0
	return
}

func boolByte(cond bool) byte {
	if cond {
		return 0xFF
	}
	return 0
}

// FacePressures synthesizes DS3 analog pressure bytes from digital
// DualSense button state: 0xFF while pressed, 0 while released.
func FacePressures(f dualsense.InputFrame) ds3.FacePressures {
	hat := f.Hat()
	mask := DpadMask(hat)
	return ds3.FacePressures{
		Up:    boolByte(mask&ds3.Button1Up != 0),
		Right: boolByte(mask&ds3.Button1Right != 0),
		Down:  boolByte(mask&ds3.Button1Down != 0),
		Left:  boolByte(mask&ds3.Button1Left != 0),
		L2:    boolByte(f.Button2&dsL2 != 0),
		R2:    boolByte(f.Button2&dsR2 != 0),
		L1:    boolByte(f.Button2&dsL1 != 0),
		R1:    boolByte(f.Button2&dsR1 != 0),
		Triangle: boolByte(f.Button1&dsTriangle != 0),
		Circle:   boolByte(f.Button1&dsCircle != 0),
		Cross:    boolByte(f.Button1&dsCross != 0),
		Square:   boolByte(f.Button1&dsSquare != 0),
	}
}

func clampByte(v int32) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// Motion converts DualSense accel/gyro-Z readings into DS3 units. Gyro
// X/Y are discarded; the DS3 only exposes yaw.
func Motion(f dualsense.InputFrame) (ds3.Motion, bool) {
	if !f.HasMotion {
		return ds3.Motion{}, false
	}
	scale := func(raw int16, center int32, div int32) uint16 {
		v := center + int32(raw)/div
		if v < 0 {
			v = 0
		}
		if v > 0xFFFF {
			v = 0xFFFF
		}
		return uint16(v)
	}
	return ds3.Motion{
		AccelX: scale(f.AccelX, int32(ds3.AccelCenter), 16),
		AccelY: scale(f.AccelY, int32(ds3.AccelCenter), 16),
		AccelZ: scale(f.AccelZ, int32(ds3.AccelCenter), 16),
		GyroZ:  scale(f.GyroZ, int32(ds3.GyroZCenter), 32),
	}, true
}

// Battery computes the DS3 plug/battery bytes from a DualSense battery
// byte (bits 0-3 decile, bit 4 charging) and whether rumble is currently
// active (which the translator reports as the USB+rumble connection
// mode).
func Battery(batteryByte byte, rumbleActive bool) (plug, level, conn byte) {
	pct := int((batteryByte & 0x0F)) * 10
	if pct > 100 {
		pct = 100
	}
	charging := batteryByte&0x10 != 0

	switch {
	case charging && pct >= 100:
		level = ds3.BatteryCharged
	case charging:
		level = ds3.BatteryCharging
	case pct <= 5:
		level = ds3.BatteryShutdown
	case pct <= 15:
		level = ds3.BatteryDying
	case pct <= 35:
		level = ds3.BatteryLow
	case pct <= 60:
		level = ds3.BatteryMedium
	case pct <= 85:
		level = ds3.BatteryHigh
	default:
		level = ds3.BatteryFull
	}

	plug = ds3.PlugPlugged
	if rumbleActive {
		conn = ds3.ConnUSBRumble
	} else {
		conn = ds3.ConnUSB
	}
	return
}

// Rumble is the DS3-side rumble cell: right is a boolean-strength motor,
// left is a proportional motor.
type Rumble struct {
	Right, Left byte
}

// NonZero reports whether either motor is currently driven.
func (r Rumble) NonZero() bool { return r.Right != 0 || r.Left != 0 }

// RumbleCell is the single-writer, single-reader rumble slot the ep2
// output sink writes and the DualSense writer loop reads.
type RumbleCell struct {
	mu      sync.Mutex
	current Rumble
}

// Set stores the most recently translated console rumble command.
func (c *RumbleCell) Set(r Rumble) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = r
}

// Get returns the currently stored rumble state.
func (c *RumbleCell) Get() Rumble {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// ToOutputFrame builds the DualSense output frame fields from the
// current rumble and lightbar cells. PlayerLEDBrightness is tracked in
// the lightbar cell purely for change detection; the wire format fixes
// the brightness byte at 0xFF regardless.
func ToOutputFrame(r Rumble, l lightbar.State) dualsense.OutputFrame {
	return dualsense.OutputFrame{
		RumbleRight: r.Right,
		RumbleLeft:  r.Left,
		LightbarR:   l.R,
		LightbarG:   l.G,
		LightbarB:   l.B,
		PlayerLEDs:  l.PlayerLEDs,
	}
}

// RumbleFromConsoleReport parses the console's ep2 output report,
// (id, duration_weak, power_weak, duration_strong, power_strong, ...),
// into a Rumble cell. Any non-zero power_weak becomes a full-strength
// right motor; power_strong maps directly onto the left motor.
func RumbleFromConsoleReport(data []byte) (Rumble, bool) {
	if len(data) < 5 {
		return Rumble{}, false
	}
	powerWeak := data[2]
	powerStrong := data[4]
	return Rumble{
		Right: boolByte(powerWeak != 0),
		Left:  powerStrong,
	}, true
}

// TouchOrigin tracks the per-contact origin used by the optional
// touchpad-as-right-stick mode. A fresh origin must be captured on every
// inactive->active transition and only cleared on release.
type TouchOrigin struct {
	Active bool
	X, Y   int
}

// TouchpadActive reports whether the DualSense touch-contact byte at
// offset 34 indicates an active first contact (bit 7 clear).
func TouchpadActive(touchpadByte byte) bool {
	return touchpadByte&0x80 == 0
}

// TouchpadXY decodes the 12-bit (x, y) coordinate pair packed across the
// three touch-point bytes that follow the touch-contact byte.
func TouchpadXY(b [3]byte) (x, y int) {
	x = int(b[0]) | (int(b[1]&0x0F) << 8)
	y = int(b[1]>>4) | (int(b[2]) << 4)
	return
}

// RightStickFromTouch computes DS3 right-stick bytes from the current
// touch coordinate and a per-contact origin, capturing the origin on the
// first active frame of a contact; the origin does not move while the
// contact lasts. Passing a frame whose touch is inactive clears the
// origin and the caller should fall back to the physical right stick.
func RightStickFromTouch(origin *TouchOrigin, f dualsense.InputFrame) (rx, ry byte, ok bool) {
	active := TouchpadActive(f.TouchpadByte)
	if !active {
		origin.Active = false
		return 0, 0, false
	}

	x, y := TouchpadXY(f.TouchpadBytes)
	if !origin.Active {
		origin.Active = true
		origin.X, origin.Y = x, y
	}

	dx := x - origin.X
	dy := y - origin.Y
	rx = clampByte(int32(128 + (dx*127)/400))
	ry = clampByte(int32(128 + (dy*127)/400))
	return rx, ry, true
}
