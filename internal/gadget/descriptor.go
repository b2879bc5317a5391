package gadget

import (
	"bytes"
	"encoding/binary"
)

// FunctionFS descriptor blob header flags (see Documentation/usb/functionfs.rst
// in the kernel tree). This adapter only ever publishes full- and
// high-speed descriptors, never super-speed.
const (
	ffsDescriptorsMagicV2 uint32 = 0x00000003 // wraps FunctionFS "magic" for a v2 descriptor blob
	ffsHasFSDesc          uint32 = 1 << 0
	ffsHasHSDesc          uint32 = 1 << 1
)

// USB descriptor type bytes.
const (
	descTypeInterface = 0x04
	descTypeEndpoint  = 0x05
)

// HID class/subclass/protocol for the DS3 interface; 0/0 disables boot
// protocol so the console talks plain HID reports.
const (
	classHID     = 0x03
	subclassNone = 0x00
	protocolNone = 0x00
)

// Endpoint directions and transfer type, packed into bEndpointAddress /
// bmAttributes the way the USB spec defines them.
const (
	epDirIn    = 0x80
	epAttrIntr = 0x03
)

// interfaceDescriptor mirrors struct usb_interface_descriptor.
type interfaceDescriptor struct {
	Length            uint8
	DescriptorType    uint8
	InterfaceNumber   uint8
	AlternateSetting  uint8
	NumEndpoints      uint8
	InterfaceClass    uint8
	InterfaceSubClass uint8
	InterfaceProtocol uint8
	IInterface        uint8
}

// endpointDescriptor mirrors struct usb_endpoint_descriptor (without the
// audio-only refresh/synch fields, unused for interrupt endpoints).
type endpointDescriptor struct {
	Length          uint8
	DescriptorType  uint8
	EndpointAddress uint8
	Attributes      uint8
	MaxPacketSize   uint16
	Interval        uint8
}

func (d interfaceDescriptor) marshal(buf *bytes.Buffer) {
	_ = binary.Write(buf, binary.LittleEndian, d)
}

func (d endpointDescriptor) marshal(buf *bytes.Buffer) {
	_ = binary.Write(buf, binary.LittleEndian, d)
}

// descriptorSet builds the three descriptors (interface, ep-in, ep-out)
// shared by both the full- and high-speed descriptor sets; only the
// endpoint max-packet-size semantics ever differ between speeds in
// principle, but this adapter uses the same 64-byte interrupt packets at
// both speeds.
func descriptorSet() []byte {
	var buf bytes.Buffer

	iface := interfaceDescriptor{
		Length:            9,
		DescriptorType:    descTypeInterface,
		InterfaceNumber:   0,
		AlternateSetting:  0,
		NumEndpoints:      2,
		InterfaceClass:    classHID,
		InterfaceSubClass: subclassNone,
		InterfaceProtocol: protocolNone,
		IInterface:        1, // "DS3 Input", langid 0x0409
	}
	iface.marshal(&buf)

	epIn := endpointDescriptor{
		Length:          7,
		DescriptorType:  descTypeEndpoint,
		EndpointAddress: 0x01 | epDirIn,
		Attributes:      epAttrIntr,
		MaxPacketSize:   64,
		Interval:        1,
	}
	epIn.marshal(&buf)

	epOut := endpointDescriptor{
		Length:          7,
		DescriptorType:  descTypeEndpoint,
		EndpointAddress: 0x02,
		Attributes:      epAttrIntr,
		MaxPacketSize:   64,
		Interval:        1,
	}
	epOut.marshal(&buf)

	return buf.Bytes()
}

// BuildDescriptorBlob assembles the single-block FunctionFS descriptor
// payload: a v2 header (magic, flags, length) followed by the full- and
// high-speed descriptor counts and the descriptor triples themselves.
func BuildDescriptorBlob() []byte {
	fs := descriptorSet()
	hs := descriptorSet()

	var body bytes.Buffer
	binary.Write(&body, binary.LittleEndian, uint32(3)) // fs_count
	binary.Write(&body, binary.LittleEndian, uint32(3)) // hs_count
	body.Write(fs)
	body.Write(hs)

	var out bytes.Buffer
	binary.Write(&out, binary.LittleEndian, ffsDescriptorsMagicV2)
	binary.Write(&out, binary.LittleEndian, ffsHasFSDesc|ffsHasHSDesc)
	binary.Write(&out, binary.LittleEndian, uint32(12+body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

// BuildStringsBlob assembles the FunctionFS strings payload carrying the
// single interface string "DS3 Input" at US English langid 0x0409.
func BuildStringsBlob() []byte {
	const magic uint32 = 2
	const langid uint16 = 0x0409
	str := "DS3 Input\x00"

	var body bytes.Buffer
	binary.Write(&body, binary.LittleEndian, langid)
	body.WriteString(str)

	var out bytes.Buffer
	binary.Write(&out, binary.LittleEndian, magic)
	binary.Write(&out, binary.LittleEndian, uint32(16+body.Len()))
	binary.Write(&out, binary.LittleEndian, uint32(1)) // str_count
	binary.Write(&out, binary.LittleEndian, uint32(1)) // lang_count
	out.Write(body.Bytes())
	return out.Bytes()
}
