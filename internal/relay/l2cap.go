package relay

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// L2CAP PSMs for the DS3's two HID channels (spec §4.7/§6).
const (
	PSMControl   = 0x11
	PSMInterrupt = 0x13
)

// l2capConnectTimeout bounds how long a single PSM connect may take
// before the plant gives up and transitions to ERROR.
const l2capConnectTimeout = 10 * time.Second

// l2capConnectPause separates the two PSM connects that make up one
// relay session, per spec §4.7.
const l2capConnectPause = 100 * time.Millisecond

// dialL2CAP opens a non-blocking SOCK_SEQPACKET L2CAP socket to mac on
// the given PSM, polling for connect completion up to
// l2capConnectTimeout.
func dialL2CAP(mac [6]byte, psm int) (int, error) {
	fd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_SEQPACKET, unix.BTPROTO_L2CAP)
	if err != nil {
		return -1, fmt.Errorf("relay: l2cap socket: %w", err)
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("relay: l2cap set nonblocking: %w", err)
	}

	sa := &unix.SockaddrL2{PSM: uint16(psm), Addr: mac}
	err = unix.Connect(fd, sa)
	if err == nil {
		return fd, nil
	}
	if err != unix.EINPROGRESS {
		unix.Close(fd)
		return -1, fmt.Errorf("relay: l2cap connect psm %#x: %w", psm, err)
	}

	if err := waitWritable(fd, l2capConnectTimeout); err != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("relay: l2cap connect psm %#x: %w", psm, err)
	}

	soErr, gerr := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_ERROR)
	if gerr != nil {
		unix.Close(fd)
		return -1, fmt.Errorf("relay: l2cap getsockopt psm %#x: %w", psm, gerr)
	}
	if soErr != 0 {
		unix.Close(fd)
		return -1, fmt.Errorf("relay: l2cap connect psm %#x: %w", psm, unix.Errno(soErr))
	}

	return fd, nil
}

// waitWritable polls fd for write-readiness, the standard way to observe
// completion of a non-blocking connect(2).
func waitWritable(fd int, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return fmt.Errorf("timed out")
		}
		pfd := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLOUT}}
		n, err := unix.Poll(pfd, int(remaining.Milliseconds())+1)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return err
		}
		if n == 0 {
			return fmt.Errorf("timed out")
		}
		if pfd[0].Revents&unix.POLLOUT != 0 {
			return nil
		}
	}
}
