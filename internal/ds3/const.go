// Package ds3 implements the emulated DualShock 3 report store and feature
// report table: C1 (Report Store) and C2 (Feature Report Table) from the
// protocol-translation design.
package ds3

// InputReportSize is the fixed size of the DS3 input report pushed on ep1.
const InputReportSize = 49

// FeatureReportSize is the fixed size of every DS3 feature report.
const FeatureReportSize = 64

// Byte offsets within the 49-byte input report (spec §3).
const (
	OffReportID    = 0
	OffButtons1    = 2
	OffButtons2    = 3
	OffPS          = 4
	OffStickLX     = 6
	OffStickLY     = 7
	OffStickRX     = 8
	OffStickRY     = 9
	OffPressureUp    = 10
	OffPressureRight = 11
	OffPressureDown  = 12
	OffPressureLeft  = 13
	OffPressureL2    = 18
	OffPressureR2    = 19
	OffPressureL1    = 20
	OffPressureR1    = 21
	OffPressureTri   = 22
	OffPressureCircle = 23
	OffPressureCross  = 24
	OffPressureSquare = 25
	OffPlugStatus  = 29
	OffBattery     = 30
	OffConnection  = 31
	OffAccelX      = 40
	OffAccelY      = 42
	OffAccelZ      = 44
	OffGyroZ       = 46
	OffTrailer     = 48
)

// Button bitfield 1 (byte 2): Select, L3, R3, Start, Dpad-Up/Right/Down/Left.
const (
	Button1Select uint8 = 1 << 0
	Button1L3     uint8 = 1 << 1
	Button1R3     uint8 = 1 << 2
	Button1Start  uint8 = 1 << 3
	Button1Up     uint8 = 1 << 4
	Button1Right  uint8 = 1 << 5
	Button1Down   uint8 = 1 << 6
	Button1Left   uint8 = 1 << 7
)

// Button bitfield 2 (byte 3): L2, R2, L1, R1, Triangle, Circle, Cross, Square.
const (
	Button2L2       uint8 = 1 << 0
	Button2R2       uint8 = 1 << 1
	Button2L1       uint8 = 1 << 2
	Button2R1       uint8 = 1 << 3
	Button2Triangle uint8 = 1 << 4
	Button2Circle   uint8 = 1 << 5
	Button2Cross    uint8 = 1 << 6
	Button2Square   uint8 = 1 << 7
)

// ButtonPS is bit 0 of byte 4.
const ButtonPS uint8 = 1 << 0

// Plug status (byte 29).
const (
	PlugPlugged   uint8 = 0x02
	PlugUnplugged uint8 = 0x03
)

// Battery level (byte 30).
const (
	BatteryShutdown uint8 = 0x00
	BatteryDying    uint8 = 0x01
	BatteryLow      uint8 = 0x02
	BatteryMedium   uint8 = 0x03
	BatteryHigh     uint8 = 0x04
	BatteryFull     uint8 = 0x05
	BatteryCharging uint8 = 0xEE
	BatteryCharged  uint8 = 0xEF
	BatteryError    uint8 = 0xF1
)

// Connection mode (byte 31).
const (
	ConnUSBRumble uint8 = 0x10
	ConnUSB       uint8 = 0x12
	ConnBTRumble  uint8 = 0x14
	ConnBT        uint8 = 0x16
)

// StickCenter is the neutral value for the analog sticks (byte 6-9).
const StickCenter uint8 = 0x80

// Motion center offsets (bytes 40-47).
const (
	AccelCenter uint16 = 512
	GyroZCenter uint16 = 498
)

// Feature report ids served by the table (C2).
const (
	FeatureID01 = 0x01
	FeatureIDF2 = 0xF2
	FeatureIDF5 = 0xF5
	FeatureIDF7 = 0xF7
	FeatureIDF8 = 0xF8
	FeatureIDEF = 0xEF
	FeatureIDF4 = 0xF4
)
