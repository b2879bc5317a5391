// Package gadget implements the USB HID gadget plant (C5): FunctionFS
// descriptor publication and the three cooperating endpoint loops that
// make the bridge appear on the bus as a DualShock 3.
package gadget

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"

	"github.com/rosettapad/rosettapad/internal/ds3"
	"github.com/rosettapad/rosettapad/internal/log"
	"github.com/rosettapad/rosettapad/internal/translate"
)

// InputPumpInterval is the ep1 write cadence, ~250 Hz.
const InputPumpInterval = 4 * time.Millisecond

// Plant owns the three FunctionFS endpoint files and drives their
// cooperating loops. Each loop is a dedicated goroutine; they share only
// the Report Store, the feature table, and the atomic enabled/running
// flags, none of which requires holding more than one lock at a time.
type Plant struct {
	ep0, ep1, ep2 int

	report   *ds3.Report
	features *ds3.FeatureTable
	log      *slog.Logger

	enabled         atomic.Bool
	running         atomic.Bool
	pairingComplete atomic.Bool

	// OnRumble is invoked from the ep2 loop whenever the console writes
	// a new rumble command, translated from its wire format.
	OnRumble func(translate.Rumble)
	// OnControllerEnabled fires on each valid SET_REPORT(0xF4) enable
	// write. The ep1 input pump is gated by the ENABLE event, not by this.
	OnControllerEnabled func()
	// OnHostMAC fires once SET_REPORT(0xF5) delivers the console's
	// Bluetooth MAC, for pairing persistence and Bluetooth plant handoff.
	OnHostMAC func(mac [6]byte)
	// OnUnbind fires on every UNBIND event, requesting shutdown.
	OnUnbind func()

	// Raw, if set, records every ep1 input report and ep2 output report
	// as a timestamped hex dump alongside the structured log.
	Raw log.RawLogger
}

// New constructs a Plant bound to already-opened FunctionFS endpoint file
// descriptors (ep0 control, ep1 IN, ep2 OUT).
func New(ep0, ep1, ep2 int, report *ds3.Report, features *ds3.FeatureTable, log *slog.Logger) *Plant {
	return &Plant{ep0: ep0, ep1: ep1, ep2: ep2, report: report, features: features, log: log}
}

// Enabled reports whether the console has most recently sent ENABLE.
func (p *Plant) Enabled() bool { return p.enabled.Load() }

// PairingComplete reports the process-wide pairing_complete flag: it
// latches true the first time SET_REPORT(0xF5) delivers the console's
// host MAC and never clears for the life of the plant.
func (p *Plant) PairingComplete() bool { return p.pairingComplete.Load() }

// Start launches the control loop, input pump, and output sink as
// separate goroutines and marks the plant running. It returns
// immediately; callers stop the plant with Stop.
func (p *Plant) Start() {
	p.running.Store(true)
	go p.controlLoop()
	go p.inputPump()
	go p.outputSink()
}

// Stop requests all three loops exit. Blocking reads on ep0/ep2 only
// unblock on their next I/O or error, matching the cooperative
// cancellation model: callers close the endpoint fds shortly after Stop
// to force that unblock.
func (p *Plant) Stop() {
	p.running.Store(false)
}

func (p *Plant) controlLoop() {
	buf := make([]byte, 4096)
	for p.running.Load() {
		n, err := unix.Read(p.ep0, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			p.log.Debug("ep0 read ended", "error", err)
			return
		}
		if n < ffsEventSize {
			continue
		}
		p.handleEvent(parseEvent(buf[:n]))
	}
}

func (p *Plant) handleEvent(ev UsbEvent) {
	switch ev.Kind {
	case EventEnable:
		p.enabled.Store(true)
	case EventDisable:
		p.enabled.Store(false)
		if p.OnRumble != nil {
			p.OnRumble(translate.Rumble{})
		}
	case EventUnbind:
		if p.OnUnbind != nil {
			p.OnUnbind()
		}
	case EventSetup:
		p.handleSetup(ev.Setup)
	}
}

func (p *Plant) handleSetup(sp SetupPacket) {
	req := decodeHidRequest(sp)
	switch req.Kind {
	case HidGetReport:
		data, ok := p.features.Get(req.ReportID)
		if !ok {
			// Stall the stage: a zero-length read tells FunctionFS
			// there is nothing to send.
			unix.Read(p.ep0, nil)
			return
		}
		n := len(data)
		if req.WLength > 0 && req.WLength < n {
			n = req.WLength
		}
		unix.Write(p.ep0, data[:n])

	case HidSetReport:
		n := req.WLength
		if n > 64 {
			n = 64
		}
		payload := make([]byte, n)
		if n > 0 {
			read, err := unix.Read(p.ep0, payload)
			if err != nil {
				return
			}
			payload = payload[:read]
		}
		p.dispatchSetReport(req.ReportID, payload)
		unix.Write(p.ep0, nil)

	case HidSetIdle:
		unix.Read(p.ep0, nil)

	default:
		unix.Read(p.ep0, nil)
	}
}

func (p *Plant) dispatchSetReport(id byte, payload []byte) {
	outcome := p.features.HandleSetReport(id, payload)
	if outcome.Enabled && p.OnControllerEnabled != nil {
		p.OnControllerEnabled()
	}
	if outcome.GotHostMAC {
		p.pairingComplete.Store(true)
		if p.OnHostMAC != nil {
			p.OnHostMAC(outcome.HostMAC)
		}
	}
}

func (p *Plant) inputPump() {
	buf := make([]byte, ds3.InputReportSize)
	for p.running.Load() {
		if !p.enabled.Load() {
			time.Sleep(InputPumpInterval)
			continue
		}
		p.report.Snapshot(buf)
		if p.Raw != nil {
			p.Raw.Log(false, buf)
		}
		if _, err := unix.Write(p.ep1, buf); err != nil && err != unix.EAGAIN {
			p.log.Debug("ep1 write error", "error", err)
		}
		time.Sleep(InputPumpInterval)
	}
}

func (p *Plant) outputSink() {
	buf := make([]byte, 64)
	for p.running.Load() {
		n, err := unix.Read(p.ep2, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			p.log.Debug("ep2 read ended", "error", err)
			return
		}
		if n < 6 {
			continue
		}
		if p.Raw != nil {
			p.Raw.Log(true, buf[:n])
		}
		r, ok := translate.RumbleFromConsoleReport(buf[:n])
		if ok && p.OnRumble != nil {
			p.OnRumble(r)
		}
	}
}

// PublishDescriptors writes the descriptor blob followed by the strings
// blob to ep0, the one-time handshake FunctionFS requires before a
// gadget's endpoints can be used.
func PublishDescriptors(ep0 int) error {
	if _, err := unix.Write(ep0, BuildDescriptorBlob()); err != nil {
		return fmt.Errorf("write descriptors: %w", err)
	}
	if _, err := unix.Write(ep0, BuildStringsBlob()); err != nil {
		return fmt.Errorf("write strings: %w", err)
	}
	return nil
}
