package orchestrator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rosettapad/rosettapad/internal/pairing"
)

// FunctionFSMount is the directory where the gadget's FunctionFS instance
// is mounted, exposing ep0/ep1/ep2 as plain files. Getting a FunctionFS
// mount to this path is the "opaque USB attach" step spec.md treats as an
// external collaborator; this package only ever opens the resulting
// files.
const FunctionFSMount = "/dev/rosettapad-gadget"

// gadgetUDCAttr is the ConfigFS attribute that binds/unbinds the gadget
// to a UDC.
const gadgetUDCAttr = "/sys/kernel/config/usb_gadget/rosettapad/UDC"

// localBTMACPath is where the kernel publishes the adapter's own
// Bluetooth controller address.
const localBTMACPath = "/sys/class/bluetooth/hci0/address"

func openFunctionFSEndpoints() (ep0, ep1, ep2 *os.File, err error) {
	ep0, err = os.OpenFile(filepath.Join(FunctionFSMount, "ep0"), os.O_RDWR, 0)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("orchestrator: open ep0: %w", err)
	}
	ep1, err = os.OpenFile(filepath.Join(FunctionFSMount, "ep1"), os.O_RDWR, 0)
	if err != nil {
		ep0.Close()
		return nil, nil, nil, fmt.Errorf("orchestrator: open ep1: %w", err)
	}
	ep2, err = os.OpenFile(filepath.Join(FunctionFSMount, "ep2"), os.O_RDWR, 0)
	if err != nil {
		ep0.Close()
		ep1.Close()
		return nil, nil, nil, fmt.Errorf("orchestrator: open ep2: %w", err)
	}
	return ep0, ep1, ep2, nil
}

// discoverUDC returns the name of the first UDC on the system, the
// target of the gadget's ConfigFS bind attribute.
func discoverUDC() (string, error) {
	entries, err := os.ReadDir("/sys/class/udc")
	if err != nil {
		return "", fmt.Errorf("orchestrator: list udc: %w", err)
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("orchestrator: no UDC present")
	}
	return entries[0].Name(), nil
}

func bindUDC(name string) error {
	if err := os.WriteFile(gadgetUDCAttr, []byte(name), 0o644); err != nil {
		return fmt.Errorf("orchestrator: bind udc: %w", err)
	}
	return nil
}

func unbindUDC() error {
	if err := os.WriteFile(gadgetUDCAttr, []byte("\n"), 0o644); err != nil {
		return fmt.Errorf("orchestrator: unbind udc: %w", err)
	}
	return nil
}

// readLocalBTMAC reads and parses the adapter's own Bluetooth address
// from path (normally localBTMACPath).
func readLocalBTMAC(path string) ([6]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return [6]byte{}, fmt.Errorf("orchestrator: read local bluetooth mac: %w", err)
	}
	mac, err := pairing.ParseMAC(strings.TrimSpace(string(raw)))
	if err != nil {
		return [6]byte{}, fmt.Errorf("orchestrator: parse local bluetooth mac: %w", err)
	}
	return mac, nil
}
