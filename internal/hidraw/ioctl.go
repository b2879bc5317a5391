// Package hidraw wraps the small slice of Linux hidraw ioctls this
// adapter needs to identify a DualSense among /dev/hidraw* nodes.
package hidraw

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Any performs an ioctl system call on fd, sending req and the address of
// arg. If arg is nil a zero pointer is passed, valid for no-data ioctls.
func Any[T any](fd uintptr, req uint, arg *T) error {
	var errno syscall.Errno

	_, _, errno = unix.Syscall(unix.SYS_IOCTL, fd, uintptr(req), uintptr(unsafe.Pointer(arg)))
	if errno != 0 {
		return errno
	}
	return nil
}

// hidiocgrawinfo is _IOR('H', 0x03, struct hidraw_devinfo).
const hidiocgrawinfo = 0x80084803

// DevInfo mirrors struct hidraw_devinfo: bus type followed by the
// vendor/product identifiers reported by the underlying transport.
type DevInfo struct {
	Bustype int32
	Vendor  int16
	Product int16
}

// Info issues HIDIOCGRAWINFO against an already-open hidraw file
// descriptor.
func Info(fd uintptr) (DevInfo, error) {
	var info DevInfo
	err := Any(fd, hidiocgrawinfo, &info)
	return info, err
}
