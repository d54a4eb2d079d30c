package protocol

import (
	"bufio"
	"bytes"
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/0xkowalskidev/mcstatus/mcerr"
)

// RakNet unconnected-ping/pong packet IDs and the magic byte sequence
// every RakNet packet after the ID carries, used by servers to validate
// the packet came from a real RakNet client rather than garbage traffic.
const (
	raknetUnconnectedPing = 0x01
	raknetUnconnectedPong = 0x1C
)

var raknetMagic = []byte{
	0x00, 0xFF, 0xFF, 0x00, 0xFE, 0xFE, 0xFE, 0xFE,
	0xFD, 0xFD, 0xFD, 0xFD, 0x12, 0x34, 0x56, 0x78,
}

// raknetPongFieldCount is the number of ";"-separated fields Bedrock
// packs into the pong's "extra MOTD" string: edition, line 1, protocol
// version, version name, player count, max players, server unique id,
// line 2, gamemode, gamemode numeric, IPv4 port, IPv6 port.
const raknetPongFieldCount = 12

// RaknetUnconnectedPing performs a Bedrock (RakNet) unconnected ping:
// send a ping with a client timestamp and the fixed magic, expect back a
// pong echoing the timestamp and carrying a ";"-joined MOTD string.
// Hand-rolled over UDP rather than via a RakNet client library, since the
// framing itself is what this component exists to speak.
func RaknetUnconnectedPing(ctx context.Context, addr string, clientGUID int64, t Timeouts) (BedrockServer, error) {
	start := time.Now()

	conn, err := dialUDP(ctx, addr, t)
	if err != nil {
		return BedrockServer{}, err
	}
	defer conn.Close()

	var req bytes.Buffer
	req.WriteByte(raknetUnconnectedPing)
	writeI64BE(&req, start.UnixMilli())
	req.Write(raknetMagic)
	writeI64BE(&req, clientGUID)

	if _, werr := conn.Write(req.Bytes()); werr != nil {
		return BedrockServer{}, classifyIOError(werr)
	}

	resp := make([]byte, 2048)
	n, rerr := conn.Read(resp)
	if rerr != nil {
		return BedrockServer{}, classifyIOError(rerr)
	}
	br := bufio.NewReader(bytes.NewReader(resp[:n]))

	packetID, err := readU8(br)
	if err != nil {
		return BedrockServer{}, err
	}
	if packetID != raknetUnconnectedPong {
		return BedrockServer{}, mcerr.New(mcerr.ProtocolMismatch, "expected unconnected pong packet id")
	}

	if _, err := readI64BE(br); err != nil { // echoed timestamp, unused
		return BedrockServer{}, err
	}
	serverGUID, err := readI64BE(br)
	if err != nil {
		return BedrockServer{}, err
	}
	if err := expectBytes(br, raknetMagic); err != nil {
		return BedrockServer{}, err
	}

	motdLen, err := readU16BE(br)
	if err != nil {
		return BedrockServer{}, err
	}
	motdBuf := make([]byte, motdLen)
	if _, ioErr := readFullN(br, motdBuf); ioErr != nil {
		return BedrockServer{}, mcerr.Wrap(mcerr.UnexpectedEOF, ioErr, "read pong motd body")
	}

	srv, err := parseRaknetPongFields(string(motdBuf))
	if err != nil {
		return BedrockServer{}, err
	}
	if srv.ServerUID == "" {
		srv.ServerUID = strconv.FormatInt(serverGUID, 10)
	}
	srv.Latency = time.Since(start)
	return srv, nil
}

func writeI64BE(buf *bytes.Buffer, v int64) {
	uv := uint64(v)
	var b [8]byte
	for i := 7; i >= 0; i-- {
		b[i] = byte(uv)
		uv >>= 8
	}
	buf.Write(b[:])
}

func readFullN(br *bufio.Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := br.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// parseRaknetPongFields splits Bedrock's ";"-joined MOTD string. Fields
// beyond edition/line1/protocol/version/online/max are optional: older
// server builds and some proxies truncate the string there, so only the
// first six fields are required.
func parseRaknetPongFields(s string) (BedrockServer, error) {
	fields := strings.Split(s, ";")
	if len(fields) < 6 {
		return BedrockServer{}, mcerr.New(mcerr.ProtocolMismatch, "raknet pong motd field count too short")
	}

	srv := BedrockServer{
		Edition:     fields[0],
		MOTDLine1:   fields[1],
		VersionName: fields[3],
	}
	if proto, err := strconv.Atoi(fields[2]); err == nil {
		srv.ProtocolVersion = proto
	}
	if online, err := strconv.Atoi(fields[4]); err == nil {
		srv.PlayersOnline = online
	}
	if max, err := strconv.Atoi(fields[5]); err == nil {
		srv.PlayersMax = max
	}

	if len(fields) > 6 {
		srv.ServerUID = fields[6]
	}
	if len(fields) > 7 {
		srv.MOTDLine2 = fields[7]
	}
	if len(fields) > 8 {
		srv.Gamemode = fields[8]
	}
	if len(fields) > 9 {
		if gm, err := strconv.Atoi(fields[9]); err == nil {
			srv.GamemodeNumeric = gm
		}
	}
	if len(fields) > 10 {
		if p, err := strconv.Atoi(fields[10]); err == nil {
			srv.PortV4 = p
		}
	}
	if len(fields) >= raknetPongFieldCount {
		if p, err := strconv.Atoi(fields[11]); err == nil {
			srv.PortV6 = p
		}
	}

	return srv, nil
}
