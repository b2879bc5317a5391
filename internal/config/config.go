// Package config defines RosettaPad's kong command-line structure: the
// two mutually exclusive run modes plus shared logging flags.
package config

import (
	"log/slog"

	"github.com/rosettapad/rosettapad/internal/log"
	"github.com/rosettapad/rosettapad/internal/orchestrator"
)

// CLI is the top-level command structure. Kong requires selecting
// exactly one of Usb or Relay.
type CLI struct {
	Usb   UsbCommand   `cmd:"" help:"Bridge a DualSense over Bluetooth to the console as a wired DS3 (adapter mode)."`
	Relay RelayCommand `cmd:"" help:"Tunnel the console's L2CAP HID channels to a remote peer holding a genuine DS3 (debug relay mode)."`

	Log struct {
		Level   string `help:"Log level: trace, debug, info, warn, error" default:"info" enum:"trace,debug,info,warn,error"`
		File    string `help:"Write structured logs to this file instead of stdout/stderr"`
		RawFile string `help:"Write raw wire-frame hex dumps to this file"`
	} `embed:"" prefix:"log."`

	Debug string `help:"Comma-separated debug categories" default:""`
}

// UsbCommand runs the adapter (spec §2 adapter mode, C8).
type UsbCommand struct {
	TouchpadAsRightStick bool `help:"Map the DualSense touchpad drag to the DS3 right stick instead of Select" default:"false"`
}

// Run is invoked by kong when the usb command is selected.
func (c *UsbCommand) Run(logger *slog.Logger, raw log.RawLogger) error {
	return orchestrator.RunAdapter(orchestrator.AdapterConfig{
		TouchpadAsRightStick: c.TouchpadAsRightStick,
	}, logger, raw)
}

// RelayCommand runs the debug relay (spec §4.7, C7).
type RelayCommand struct {
	Host string `arg:"" help:"Remote peer host to relay DS3 traffic to/from"`
	Port int    `help:"Remote peer TCP port" default:"5555" env:"ROSETTAPAD_PORT"`
}

// Run is invoked by kong when the relay command is selected.
func (c *RelayCommand) Run(logger *slog.Logger, raw log.RawLogger) error {
	return orchestrator.RunRelay(orchestrator.RelayConfig{
		Host: c.Host,
		Port: c.Port,
	}, logger, raw)
}
