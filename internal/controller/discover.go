// Package controller implements the DualSense Plant (C6): hidraw
// discovery, a reconnecting reader, a periodic writer with change
// detection, and lightbar IPC polling.
package controller

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rosettapad/rosettapad/internal/hidraw"
)

// VendorID and ProductID identify a DualSense over USB/Bluetooth HID.
const (
	VendorID  = 0x054C
	ProductID = 0x0CE6
)

// Discover scans /dev/hidraw* and returns the path of the first node
// reporting (VendorID, ProductID), or an error if none match.
func Discover() (string, error) {
	paths, err := filepath.Glob("/dev/hidraw*")
	if err != nil {
		return "", fmt.Errorf("glob hidraw nodes: %w", err)
	}

	for _, path := range paths {
		f, err := os.OpenFile(path, os.O_RDWR, 0)
		if err != nil {
			continue
		}
		info, err := hidraw.Info(f.Fd())
		f.Close()
		if err != nil {
			continue
		}
		if info.Vendor == VendorID && info.Product == ProductID {
			return path, nil
		}
	}
	return "", fmt.Errorf("no DualSense hidraw node found")
}
