// Package lightbar reads the lightbar IPC file: a small, tolerant JSON
// contract that lets an out-of-process tool drive the DualSense's LED
// bar without going through the USB side of the bridge.
package lightbar

import (
	"encoding/json"
	"os"
	"sync"
)

// DefaultPath is where the orchestrator looks for lightbar state unless
// overridden by configuration.
const DefaultPath = "/tmp/rosettapad/lightbar_state.json"

// State is the flat, key-order-independent JSON contract. Unknown keys
// are ignored; missing keys keep their zero value.
type State struct {
	R                   uint8   `json:"r"`
	G                   uint8   `json:"g"`
	B                   uint8   `json:"b"`
	PlayerLEDs          uint8   `json:"player_leds"`
	PlayerLEDBrightness float64 `json:"player_led_brightness"`
}

// Load reads and parses the lightbar file at path. A missing file is not
// an error; it returns the zero State so pollers can treat "no file yet"
// the same as "all off".
func Load(path string) (State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return State{}, nil
		}
		return State{}, err
	}
	return Parse(data)
}

// Parse decodes raw into a State, tolerating unknown fields.
func Parse(raw []byte) (State, error) {
	var s State
	if len(raw) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return State{}, err
	}
	return s, nil
}

// Cell is a single-writer, single-reader lightbar slot. The poller
// writes it every ~500ms; the DualSense writer reads a copy each cycle.
type Cell struct {
	mu      sync.Mutex
	current State
}

// Set stores a freshly-loaded state.
func (c *Cell) Set(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = s
}

// Get returns the most recently stored state.
func (c *Cell) Get() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}
