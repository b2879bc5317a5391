// Package relay implements the Bluetooth HID Plant (C7): the debug-relay
// mode that tunnels the console's two L2CAP HID channels to a remote peer
// holding a genuine DS3, over a framed TCP session.
package relay

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"

	"github.com/rosettapad/rosettapad/internal/pairing"
)

// PollInterval is how often the input loop polls both L2CAP sockets for
// console traffic while no peer frame has arrived.
const PollInterval = 100 * time.Millisecond

// Plant owns the relay's state machine, pairing record, and the pair of
// L2CAP sockets for one connected session. A single goroutine pair (input
// and output loop) owns the L2CAP file descriptors for the lifetime of a
// session; no other component touches them once CONNECTED.
type Plant struct {
	pairingPath string
	log         *slog.Logger

	machine Machine

	mu      sync.Mutex
	ps3MAC  [6]byte
	haveMAC bool

	control   int
	interrupt int

	running atomic.Bool
}

// New constructs a relay Plant backed by the pairing record at path.
func New(pairingPath string, log *slog.Logger) *Plant {
	return &Plant{pairingPath: pairingPath, log: log, control: -1, interrupt: -1}
}

// State returns the plant's current lifecycle state.
func (p *Plant) State() State { return p.machine.Load() }

// LoadPairing reads the persisted PS3 MAC at startup, transitioning
// WAITING_FOR_MAC -> READY when one is present.
func (p *Plant) LoadPairing() error {
	rec, err := pairing.Load(p.pairingPath)
	if err != nil {
		p.machine.Store(StateError)
		return fmt.Errorf("relay: load pairing: %w", err)
	}
	if rec.PS3MAC == "" {
		p.machine.Store(StateWaitingForMAC)
		return nil
	}
	mac, err := pairing.ParseMAC(rec.PS3MAC)
	if err != nil {
		p.machine.Store(StateError)
		return fmt.Errorf("relay: parse pairing ps3 mac: %w", err)
	}
	p.mu.Lock()
	p.ps3MAC, p.haveMAC = mac, true
	p.mu.Unlock()
	p.machine.Store(StateReady)
	return nil
}

// StorePS3MAC persists a newly learned console MAC (handed over from the
// feature table's SET_REPORT(0xF5) handler) and arms the plant to connect
// to it, transitioning WAITING_FOR_MAC -> READY.
func (p *Plant) StorePS3MAC(mac [6]byte) error {
	rec := pairing.Record{PS3MAC: pairing.FormatMAC(mac)}
	if existing, err := pairing.Load(p.pairingPath); err == nil {
		rec.LocalMAC = existing.LocalMAC
	}
	if err := pairing.Save(p.pairingPath, rec); err != nil {
		return fmt.Errorf("relay: store ps3 mac: %w", err)
	}
	p.mu.Lock()
	p.ps3MAC, p.haveMAC = mac, true
	p.mu.Unlock()
	p.machine.Store(StateReady)
	return nil
}

// Start marks the plant running; the caller still drives Connect and
// Serve explicitly once a peer session is available.
func (p *Plant) Start() { p.running.Store(true) }

// Stop requests the relay loops exit at their next poll or frame read.
func (p *Plant) Stop() { p.running.Store(false) }

// Connect opens both L2CAP channels to the console's paired MAC, only
// valid from READY. Failure transitions the plant to ERROR.
func (p *Plant) Connect() error {
	if p.machine.Load() != StateReady {
		return fmt.Errorf("relay: connect requires state ready, got %s", p.machine.Load())
	}
	p.mu.Lock()
	mac, have := p.ps3MAC, p.haveMAC
	p.mu.Unlock()
	if !have {
		return errors.New("relay: no ps3 mac on file")
	}

	p.machine.Store(StateConnecting)

	control, err := dialL2CAP(mac, PSMControl)
	if err != nil {
		p.machine.Store(StateError)
		return err
	}
	time.Sleep(l2capConnectPause)

	interrupt, err := dialL2CAP(mac, PSMInterrupt)
	if err != nil {
		unix.Close(control)
		p.machine.Store(StateError)
		return err
	}

	p.control, p.interrupt = control, interrupt
	p.machine.Store(StateConnected)
	return nil
}

// Serve runs the bidirectional relay over conn until the session ends or
// the plant stops, then closes the L2CAP sockets and falls back to READY.
// It blocks; callers invoke it in its own goroutine per peer connection.
func (p *Plant) Serve(conn net.Conn) {
	defer p.disconnect()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		p.inputLoop(conn)
	}()
	go func() {
		defer wg.Done()
		p.outputLoop(conn)
	}()
	wg.Wait()
}

// inputLoop polls both L2CAP sockets and forwards whatever the console
// sends to the peer as a framed message.
func (p *Plant) inputLoop(conn net.Conn) {
	buf := make([]byte, 1024)
	for p.running.Load() && p.machine.Load() == StateConnected {
		pfds := []unix.PollFd{
			{Fd: int32(p.control), Events: unix.POLLIN},
			{Fd: int32(p.interrupt), Events: unix.POLLIN},
		}
		n, err := unix.Poll(pfds, int(PollInterval.Milliseconds()))
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			p.log.Debug("relay l2cap poll error", "error", err)
			return
		}
		if n == 0 {
			continue
		}
		if pfds[0].Revents&unix.POLLIN != 0 && !p.forwardToPeer(conn, p.control, channelControl, buf) {
			return
		}
		if pfds[1].Revents&unix.POLLIN != 0 && !p.forwardToPeer(conn, p.interrupt, channelInterrupt, buf) {
			return
		}
		if pfds[0].Revents&(unix.POLLHUP|unix.POLLERR) != 0 || pfds[1].Revents&(unix.POLLHUP|unix.POLLERR) != 0 {
			return
		}
	}
}

func (p *Plant) forwardToPeer(conn net.Conn, fd int, channel byte, buf []byte) bool {
	n, err := unix.Read(fd, buf)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EINTR {
			return true
		}
		p.log.Debug("relay l2cap read ended", "channel", channel, "error", err)
		return false
	}
	if n == 0 {
		return false
	}
	if err := WriteFrame(conn, channel, buf[:n]); err != nil {
		p.log.Debug("relay peer write error", "error", err)
		return false
	}
	return true
}

// outputLoop reads framed messages from the peer and writes each payload
// to the matching L2CAP socket.
func (p *Plant) outputLoop(conn net.Conn) {
	r := bufio.NewReader(conn)
	for p.running.Load() && p.machine.Load() == StateConnected {
		channel, payload, err := ReadFrame(r)
		if err != nil {
			if !isExpectedDisconnect(err) {
				p.log.Debug("relay peer read error", "error", err)
			}
			return
		}
		fd := p.fdForChannel(channel)
		if fd < 0 {
			continue
		}
		if _, err := unix.Write(fd, payload); err != nil {
			p.log.Debug("relay l2cap write error", "channel", channel, "error", err)
			return
		}
	}
}

func (p *Plant) fdForChannel(channel byte) int {
	switch channel {
	case channelControl:
		return p.control
	case channelInterrupt:
		return p.interrupt
	default:
		return -1
	}
}

func (p *Plant) disconnect() {
	if p.control >= 0 {
		unix.Close(p.control)
		p.control = -1
	}
	if p.interrupt >= 0 {
		unix.Close(p.interrupt)
		p.interrupt = -1
	}
	if p.machine.Load() != StateError {
		p.machine.Store(StateReady)
	}
}

func isExpectedDisconnect(err error) bool {
	if err == nil || err == io.EOF {
		return true
	}
	e := strings.ToLower(err.Error())
	return strings.Contains(e, "connection reset") ||
		strings.Contains(e, "broken pipe") ||
		strings.Contains(e, "forcibly closed") ||
		strings.Contains(e, "use of closed network connection")
}
