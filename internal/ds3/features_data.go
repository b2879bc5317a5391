package ds3

// Captured DS3 feature report templates. Bytes are the values a real
// controller returns for each report id. At runtime the table rewrites the
// local-MAC sub-field inside report 0xF2 (see PatchPairing) and the bytes
// that SET_REPORT writes into 0xEF, 0xF4 and 0xF5 (see HandleSetReport).
//
// These are treated as opaque byte blobs: nothing in this package
// validates them, and only the sub-fields above are ever rewritten.

var reportF201 = [FeatureReportSize]byte{
	0xff, 0x00, 0x08, 0x25, 0x00, 0x76, 0x19, 0xa3,
	0x71, 0x00, 0xad, 0x22, 0x5c, 0xc9, 0xff, 0x04,
}

var reportF5 = [FeatureReportSize]byte{
	0x01, 0x00, 0x18, 0x5e, 0xff, 0x00, 0x00, 0x00,
	0xff, 0x30, 0x71, 0xfe, 0xff, 0xff, 0xff, 0x00,
}

var reportF7 = [FeatureReportSize]byte{
	0x01, 0x02, 0x00, 0x02, 0x00, 0x02, 0x00, 0x02,
	0x00, 0x02, 0x00, 0x02, 0x00, 0x02, 0x00, 0x02,
	0x00, 0x02, 0x00, 0x02, 0x00, 0x02, 0x00, 0x02,
	0x00, 0x02, 0x00, 0x02, 0x00, 0x02, 0x00, 0x02,
	0x00, 0x02, 0x00, 0x02, 0x00, 0x02, 0x00, 0x02,
	0x00, 0x02, 0x00, 0x02, 0x00, 0x02, 0x00,
}

var reportF8 = [FeatureReportSize]byte{
	0x00, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
}

var reportEF = [FeatureReportSize]byte{
	0x01, 0x00, 0x00, 0x04, 0x00, 0x00, 0x00, 0x00,
}

var reportF4 = [FeatureReportSize]byte{
	0x00, 0x38, 0x38, 0x33, 0x00, 0x00, 0x00, 0x00,
}

// OffsetF2LocalMAC locates the controller's own Bluetooth address inside
// report 0xF2 (bytes 4-9). The console's own address is never stored in
// 0xF2; it arrives at runtime via SET_REPORT(0xF5) and lives only there.
const OffsetF2LocalMAC = 4
