// Package orchestrator implements the bridge's lifecycle (C8): startup
// sequencing, mode selection between adapter and debug-relay, and a
// signal- or UNBIND-driven shutdown that drains the running plants before
// closing their endpoints.
package orchestrator

import (
	"context"
	"log/slog"
	"net"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rosettapad/rosettapad/internal/controller"
	"github.com/rosettapad/rosettapad/internal/ds3"
	"github.com/rosettapad/rosettapad/internal/gadget"
	"github.com/rosettapad/rosettapad/internal/lightbar"
	"github.com/rosettapad/rosettapad/internal/log"
	"github.com/rosettapad/rosettapad/internal/pairing"
	"github.com/rosettapad/rosettapad/internal/relay"
	"github.com/rosettapad/rosettapad/internal/translate"
)

// ShutdownDrain bounds how long plant loops get to notice `running` has
// gone false before the orchestrator closes their file descriptors out
// from under them (spec §5).
const ShutdownDrain = 1 * time.Second

// AdapterConfig configures RunAdapter.
type AdapterConfig struct {
	TouchpadAsRightStick bool
}

// RunAdapter wires the Report Store, Feature Report Table, DualSense
// Plant, and USB Gadget Plant together and blocks until a signal or an
// UNBIND event requests shutdown (C8, adapter mode).
func RunAdapter(cfg AdapterConfig, logger *slog.Logger, raw log.RawLogger) error {
	features := ds3.NewFeatureTable()
	if localMAC, err := readLocalBTMAC(localBTMACPath); err != nil {
		logger.Warn("could not read local bluetooth mac; 0xF2 slot left at its captured default", "error", err)
	} else {
		features.PatchPairing(localMAC)
	}

	report := ds3.NewReport()
	rumble := &translate.RumbleCell{}
	light := &lightbar.Cell{}

	ctrl := controller.New(report, rumble, light, lightbar.DefaultPath, logger)
	ctrl.SetTouchpadAsRightStick(cfg.TouchpadAsRightStick)
	ctrl.Raw = raw

	ep0, ep1, ep2, err := openFunctionFSEndpoints()
	if err != nil {
		return err
	}
	defer ep0.Close()
	defer ep1.Close()
	defer ep2.Close()

	if err := gadget.PublishDescriptors(int(ep0.Fd())); err != nil {
		return err
	}

	udc, err := discoverUDC()
	if err != nil {
		return err
	}
	if err := bindUDC(udc); err != nil {
		return err
	}

	gp := gadget.New(int(ep0.Fd()), int(ep1.Fd()), int(ep2.Fd()), report, features, logger)
	gp.Raw = raw

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown := make(chan struct{}, 1)
	requestShutdown := func() {
		select {
		case shutdown <- struct{}{}:
		default:
		}
	}

	gp.OnRumble = rumble.Set
	gp.OnControllerEnabled = func() { logger.Info("controller enabled by host") }
	gp.OnUnbind = requestShutdown
	gp.OnHostMAC = func(mac [6]byte) {
		rec := pairing.Record{PS3MAC: pairing.FormatMAC(mac)}
		if existing, err := pairing.Load(pairing.DefaultPath); err == nil {
			rec.LocalMAC = existing.LocalMAC
		}
		if err := pairing.Save(pairing.DefaultPath, rec); err != nil {
			logger.Error("failed to store ps3 mac", "error", err)
			return
		}
		logger.Info("pairing complete", "ps3_mac", rec.PS3MAC)
	}

	gp.Start()
	ctrl.Start()

	select {
	case <-ctx.Done():
	case <-shutdown:
	}

	logger.Info("shutting down adapter")
	gp.Stop()
	ctrl.Stop()
	time.Sleep(ShutdownDrain)

	rumble.Set(translate.Rumble{})
	if err := unbindUDC(); err != nil {
		logger.Warn("unbind udc failed", "error", err)
	}
	return nil
}

// RelayConfig configures RunRelay.
type RelayConfig struct {
	// Host and Port name the remote peer that holds a genuine DS3 and
	// speaks the debug-relay TCP frame protocol.
	Host string
	Port int
}

// RunRelay wires the USB Gadget Plant (for the console's USB pairing
// handshake and feature-report probing) to the Bluetooth HID Plant (for
// the L2CAP tunnel carrying actual HID traffic to the remote peer), per
// spec §4.7/§4.8. The console's SET_REPORT(0xF5) hands the learned MAC
// straight to the relay plant, which then dials the peer and connects.
func RunRelay(cfg RelayConfig, logger *slog.Logger, raw log.RawLogger) error {
	features := ds3.NewFeatureTable()
	report := ds3.NewReport()

	relayPlant := relay.New(pairing.DefaultPath, logger)
	if err := relayPlant.LoadPairing(); err != nil {
		return err
	}

	ep0, ep1, ep2, err := openFunctionFSEndpoints()
	if err != nil {
		return err
	}
	defer ep0.Close()
	defer ep1.Close()
	defer ep2.Close()

	if err := gadget.PublishDescriptors(int(ep0.Fd())); err != nil {
		return err
	}

	udc, err := discoverUDC()
	if err != nil {
		return err
	}
	if err := bindUDC(udc); err != nil {
		return err
	}

	gp := gadget.New(int(ep0.Fd()), int(ep1.Fd()), int(ep2.Fd()), report, features, logger)
	gp.Raw = raw

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown := make(chan struct{}, 1)
	requestShutdown := func() {
		select {
		case shutdown <- struct{}{}:
		default:
		}
	}

	connectAndServe := func() {
		if err := relayPlant.Connect(); err != nil {
			logger.Error("relay connect failed", "error", err)
			return
		}
		peer, err := net.Dial("tcp", net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)))
		if err != nil {
			logger.Error("relay dial peer failed", "error", err)
			return
		}
		go relayPlant.Serve(peer)
	}

	gp.OnUnbind = requestShutdown
	gp.OnHostMAC = func(mac [6]byte) {
		if err := relayPlant.StorePS3MAC(mac); err != nil {
			logger.Error("failed to store ps3 mac", "error", err)
			return
		}
		connectAndServe()
	}

	gp.Start()
	relayPlant.Start()

	if relayPlant.State() == relay.StateReady {
		connectAndServe()
	}

	select {
	case <-ctx.Done():
	case <-shutdown:
	}

	logger.Info("shutting down relay")
	relayPlant.Stop()
	gp.Stop()
	time.Sleep(ShutdownDrain)

	if err := unbindUDC(); err != nil {
		logger.Warn("unbind udc failed", "error", err)
	}
	return nil
}
