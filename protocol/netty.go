package protocol

import (
	"bufio"
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/0xkowalskidev/mcstatus/mcerr"
)

// nettyPingPayload is the fixed "MC|PingHost" plugin-channel payload that
// prefixes the 1.6 ping packet.
var nettyPingPayload = []byte{0xFE, 0x01, 0xFA, 0x00, 0x0B,
	0, 'M', 0, 'C', 0, '|', 0, 'P', 0, 'i', 0, 'n', 0, 'g', 0, 'H', 0, 'o', 0, 's', 0, 't',
}

// NettyPing performs the 1.6 ping: a fixed plugin-message payload followed
// by the hostname and port (no protocol version is sent), answered by a
// kick packet (0xFF) whose UTF-16BE string body is six NUL-separated fields.
func NettyPing(ctx context.Context, addr string, host string, port uint16, t Timeouts) (LegacyServer, error) {
	start := time.Now()

	conn, err := dialTCP(ctx, addr, t)
	if err != nil {
		return LegacyServer{}, err
	}
	defer conn.Close()

	var body []byte
	body = append(body, nettyPingPayload...)
	hostUTF16 := encodeUTF16BE(host)
	hostUnits := len(hostUTF16) / 2
	body = append(body, byte(hostUnits>>8), byte(hostUnits))
	body = append(body, hostUTF16...)
	body = append(body, byte(port>>24), byte(port>>16), byte(port>>8), byte(port))

	if _, werr := conn.Write(body); werr != nil {
		return LegacyServer{}, classifyIOError(werr)
	}

	br := bufio.NewReader(conn)
	packetID, err := readU8(br)
	if err != nil {
		return LegacyServer{}, err
	}
	if packetID != 0xFF {
		return LegacyServer{}, mcerr.New(mcerr.ProtocolMismatch, "expected kick packet id 0xFF")
	}

	payload, err := readStringUTF16BEU16(br)
	if err != nil {
		return LegacyServer{}, err
	}

	srv, err := parseNettyKickPayload(payload)
	if err != nil {
		return LegacyServer{}, err
	}
	srv.Latency = time.Since(start)
	return srv, nil
}

// parseNettyKickPayload splits "§1\x00<protocol>\x00<version>\x00<motd>\x00<online>\x00<max>".
func parseNettyKickPayload(payload string) (LegacyServer, error) {
	fields := strings.Split(payload, "\x00")
	if len(fields) != 6 || fields[0] != "§1" {
		return LegacyServer{}, mcerr.New(mcerr.ProtocolMismatch, "netty kick payload marker or field count mismatch")
	}

	protocol, err := strconv.Atoi(fields[1])
	if err != nil {
		return LegacyServer{}, mcerr.Wrap(mcerr.InvalidNumber, err, "parse netty protocol field")
	}
	online, err := strconv.Atoi(fields[4])
	if err != nil {
		return LegacyServer{}, mcerr.Wrap(mcerr.InvalidNumber, err, "parse netty online field")
	}
	max, err := strconv.Atoi(fields[5])
	if err != nil {
		return LegacyServer{}, mcerr.Wrap(mcerr.InvalidNumber, err, "parse netty max field")
	}

	return LegacyServer{
		Protocol: protocol,
		Version:  fields[2],
		MOTD:     fields[3],
		Online:   online,
		Max:      max,
	}, nil
}
