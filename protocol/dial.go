package protocol

import (
	"context"
	"net"
	"time"

	"github.com/0xkowalskidev/mcstatus/mcerr"
)

// Timeouts mirrors the caller-configurable socket tuning knobs from
// mcstatus.SocketConf, kept as a plain struct here so this package
// doesn't need to import the root package (which imports protocol).
type Timeouts struct {
	Read  time.Duration
	Write time.Duration
}

// dialTCP opens a TCP connection bound by ctx and the configured
// timeouts.
func dialTCP(ctx context.Context, addr string, t Timeouts) (net.Conn, error) {
	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, mcerr.Wrap(mcerr.NetworkIO, err, "dial tcp")
	}
	if err := applyDeadline(conn, ctx, t); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// dialUDP opens a "connected" UDP socket: writes go to addr, reads only
// accept datagrams from addr. Every Query/RakNet call gets its own
// socket and closes it on every exit path.
func dialUDP(ctx context.Context, addr string, t Timeouts) (net.Conn, error) {
	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "udp", addr)
	if err != nil {
		return nil, mcerr.Wrap(mcerr.NetworkIO, err, "dial udp")
	}
	if err := applyDeadline(conn, ctx, t); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func applyDeadline(conn net.Conn, ctx context.Context, t Timeouts) error {
	now := time.Now()
	var readDL, writeDL time.Time
	if t.Read > 0 {
		readDL = now.Add(t.Read)
	}
	if t.Write > 0 {
		writeDL = now.Add(t.Write)
	}
	if deadline, ok := ctx.Deadline(); ok {
		if readDL.IsZero() || deadline.Before(readDL) {
			readDL = deadline
		}
		if writeDL.IsZero() || deadline.Before(writeDL) {
			writeDL = deadline
		}
	}
	if !readDL.IsZero() {
		if err := conn.SetReadDeadline(readDL); err != nil {
			return mcerr.Wrap(mcerr.NetworkIO, err, "set read deadline")
		}
	}
	if !writeDL.IsZero() {
		if err := conn.SetWriteDeadline(writeDL); err != nil {
			return mcerr.Wrap(mcerr.NetworkIO, err, "set write deadline")
		}
	}
	return nil
}

// classifyIOError maps a raw net error to NetworkTimeout when it was a
// deadline expiry, NetworkIO otherwise.
func classifyIOError(err error) error {
	if err == nil {
		return nil
	}
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return mcerr.Wrap(mcerr.NetworkTimeout, err, "network timeout")
	}
	return mcerr.Wrap(mcerr.NetworkIO, err, "network io")
}
