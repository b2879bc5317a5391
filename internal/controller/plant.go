package controller

import (
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/rosettapad/rosettapad/internal/ds3"
	"github.com/rosettapad/rosettapad/internal/dualsense"
	"github.com/rosettapad/rosettapad/internal/lightbar"
	"github.com/rosettapad/rosettapad/internal/log"
	"github.com/rosettapad/rosettapad/internal/translate"
)

// ReaderBackoff is how long the reader waits after losing the
// controller before retrying discovery.
const ReaderBackoff = 1 * time.Second

// WriterInterval is the DualSense writer's polling cadence.
const WriterInterval = 10 * time.Millisecond

// LightbarPollInterval is how often the writer refreshes the lightbar
// cell from the IPC file.
const LightbarPollInterval = 500 * time.Millisecond

// Plant owns the DualSense hidraw connection and drives the reader and
// writer loops. A lost connection triggers rediscovery; the reader and
// writer can be running against different physical file descriptors
// across a reconnect, so each owns its own fd reference.
type Plant struct {
	report    *ds3.Report
	rumble    *translate.RumbleCell
	light     *lightbar.Cell
	lightPath string
	log       *slog.Logger

	touchpadAsStick atomic.Bool
	running         atomic.Bool

	encoder dualsense.Encoder

	dev atomic.Pointer[os.File]

	// Raw, if set, records every DualSense frame read or written as a
	// timestamped hex dump alongside the structured log.
	Raw log.RawLogger
}

// New constructs a controller plant wired to the shared Report Store,
// rumble cell, and lightbar cell.
func New(report *ds3.Report, rumble *translate.RumbleCell, light *lightbar.Cell, lightPath string, log *slog.Logger) *Plant {
	return &Plant{report: report, rumble: rumble, light: light, lightPath: lightPath, log: log}
}

// SetTouchpadAsRightStick toggles the optional touchpad-as-right-stick
// translation mode.
func (p *Plant) SetTouchpadAsRightStick(on bool) { p.touchpadAsStick.Store(on) }

// Start launches the reader and writer loops. It returns immediately.
func (p *Plant) Start() {
	p.running.Store(true)
	go p.readerLoop()
	go p.writerLoop()
}

// Stop requests both loops exit; in-flight blocking reads unblock on
// their next I/O event or on the device being closed.
func (p *Plant) Stop() {
	p.running.Store(false)
}

func (p *Plant) openDevice() *os.File {
	for p.running.Load() {
		path, err := Discover()
		if err != nil {
			time.Sleep(ReaderBackoff)
			continue
		}
		f, err := os.OpenFile(path, os.O_RDWR, 0)
		if err != nil {
			time.Sleep(ReaderBackoff)
			continue
		}
		p.dev.Store(f)
		return f
	}
	return nil
}

func (p *Plant) readerLoop() {
	var touch translate.TouchOrigin
	for p.running.Load() {
		f := p.openDevice()
		if f == nil {
			return
		}

		const minReadLen = 10

		buf := make([]byte, dualsense.InputFrameSize)
		for p.running.Load() {
			n, err := f.Read(buf)
			if err != nil {
				if os.IsTimeout(err) {
					continue
				}
				p.log.Debug("dualsense disconnected", "error", err)
				break
			}
			if n < minReadLen {
				p.log.Debug("dualsense short read, treating as disconnect", "bytes", n)
				break
			}
			if p.Raw != nil {
				p.Raw.Log(true, buf[:n])
			}
			frame, ok := dualsense.Decode(buf[:n])
			if !ok {
				continue
			}
			p.applyFrame(frame, &touch)
		}
		f.Close()
	}
}

func (p *Plant) applyFrame(frame dualsense.InputFrame, touch *translate.TouchOrigin) {
	stickMode := p.touchpadAsStick.Load()

	b1, b2, ps := translate.Buttons(frame, stickMode)
	p.report.SetButtons(b1, b2, ps)

	lx, ly := frame.LX, frame.LY
	rx, ry := frame.RX, frame.RY
	if stickMode {
		if tx, ty, ok := translate.RightStickFromTouch(touch, frame); ok {
			rx, ry = tx, ty
		}
	}
	p.report.SetSticks(lx, ly, rx, ry)

	p.report.SetFacePressures(translate.FacePressures(frame))

	if motion, ok := translate.Motion(frame); ok {
		p.report.SetMotion(motion)
	}

	if frame.HasBattery {
		plug, level, conn := translate.Battery(frame.BatteryByte, p.rumble.Get().NonZero())
		p.report.SetBattery(plug == ds3.PlugPlugged, level, conn)
	}
}

func (p *Plant) writerLoop() {
	var lastRumble translate.Rumble
	var lastLight lightbar.State
	lastPoll := time.Time{}

	for p.running.Load() {
		now := time.Now()
		if now.Sub(lastPoll) >= LightbarPollInterval {
			if s, err := lightbar.Load(p.lightPath); err == nil {
				p.light.Set(s)
			}
			lastPoll = now
		}

		rumble := p.rumble.Get()
		light := p.light.Get()

		changed := rumble != lastRumble || light != lastLight
		if changed || rumble.NonZero() {
			f := p.dev.Load()
			if f != nil {
				out := p.encoder.Encode(translate.ToOutputFrame(rumble, light))
				if p.Raw != nil {
					p.Raw.Log(false, out[:])
				}
				_, _ = f.Write(out[:])
			}
			lastRumble = rumble
			lastLight = light
		}

		time.Sleep(WriterInterval)
	}
}
