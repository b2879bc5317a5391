// Package pairing persists the console's Bluetooth MAC address, handed
// to the controller during the feature-report 0xF5 handshake, and the
// adapter's own local address.
package pairing

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rosettapad/rosettapad/internal/configpaths"
)

// DefaultPath is the on-disk location of the pairing record.
const DefaultPath = "/etc/rosettapad/pairing.conf"

// Record holds the two MAC addresses the pairing file carries, each
// formatted as six uppercase hex octets separated by colons.
type Record struct {
	PS3MAC   string
	LocalMAC string
}

// FormatMAC renders a 6-byte address as "AA:BB:CC:DD:EE:FF".
func FormatMAC(mac [6]byte) string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", mac[0], mac[1], mac[2], mac[3], mac[4], mac[5])
}

// ParseMAC parses a colon-separated hex MAC string (either letter case)
// back into six bytes.
func ParseMAC(s string) ([6]byte, error) {
	var mac [6]byte
	parts := strings.Split(s, ":")
	if len(parts) != 6 {
		return mac, fmt.Errorf("pairing: malformed MAC %q", s)
	}
	for i, p := range parts {
		var b int
		if _, err := fmt.Sscanf(p, "%02X", &b); err != nil {
			return mac, fmt.Errorf("pairing: malformed MAC octet %q: %w", p, err)
		}
		mac[i] = byte(b)
	}
	return mac, nil
}

// Load reads the pairing record at path. A missing file yields a zero
// Record and no error, matching "pairing absent" being a normal startup
// state rather than a fault in adapter mode.
func Load(path string) (Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, nil
		}
		return Record{}, err
	}
	defer f.Close()

	var rec Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "PS3_MAC":
			rec.PS3MAC = strings.TrimSpace(val)
		case "LOCAL_MAC":
			rec.LocalMAC = strings.TrimSpace(val)
		}
	}
	return rec, scanner.Err()
}

// Save writes rec to path, creating its parent directory if needed.
func Save(path string, rec Record) error {
	if err := configpaths.EnsureDir(path); err != nil {
		return err
	}
	var b strings.Builder
	b.WriteString("# RosettaPad pairing record\n")
	if rec.PS3MAC != "" {
		fmt.Fprintf(&b, "PS3_MAC=%s\n", rec.PS3MAC)
	}
	if rec.LocalMAC != "" {
		fmt.Fprintf(&b, "LOCAL_MAC=%s\n", rec.LocalMAC)
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}
