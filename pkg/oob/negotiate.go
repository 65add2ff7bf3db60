package oob

import (
	"errors"
	"io"
	"net"
	"time"

	"go.uber.org/zap"
)

// Negotiate offers GMCP and MSSP to a telnet client and waits up to timeout
// for its answers. Clients that do not speak telnet options simply never
// answer.
func Negotiate(conn net.Conn, timeout time.Duration, log *zap.Logger) *Capabilities {
	caps := &Capabilities{}

	conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	conn.Write([]byte{IAC, WILL, TeloptGMCP, IAC, WILL, TeloptMSSP})

	conn.SetReadDeadline(time.Now().Add(timeout))
	buf := make([]byte, 256)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			var netErr net.Error
			if !(errors.As(err, &netErr) && netErr.Timeout()) && !errors.Is(err, io.EOF) {
				log.Debug("oob negotiate read error", zap.Error(err))
			}
			break
		}
		parseReplies(buf[:n], caps)
		if caps.GMCP && caps.MSSP {
			break
		}
	}

	conn.SetReadDeadline(time.Time{})
	conn.SetWriteDeadline(time.Time{})
	return caps
}

// parseReplies records DO answers to the options offered.
func parseReplies(b []byte, caps *Capabilities) {
	for i := 0; i+2 < len(b); i++ {
		if b[i] != IAC {
			continue
		}
		if b[i+1] == DO {
			switch b[i+2] {
			case TeloptGMCP:
				caps.GMCP = true
			case TeloptMSSP:
				caps.MSSP = true
			}
		}
		i += 2
	}
}
