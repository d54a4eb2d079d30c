package protocol

import (
	"bufio"
	"context"
	"time"

	"github.com/0xkowalskidev/mcstatus/mcerr"
)

// legacyPingPayload is the 1.4-1.5 ping: client hello (0xFE) followed by a
// single plugin-message marker byte, no hostname/port (the server replies
// with whatever it's configured for, it can't distinguish virtual hosts).
var legacyPingPayload = []byte{0xFE, 0x01}

// LegacyPing performs the 1.4-1.5 ping. The response shares the Netty
// ping's §1-prefixed, NUL-separated six-field kick schema. A server still
// running the older Beta protocol may answer this same probe with the
// §-separated Beta schema instead; we try the modern parse first and
// fall back to Beta parsing on mismatch.
func LegacyPing(ctx context.Context, addr string, t Timeouts) (LegacyServer, error) {
	start := time.Now()

	conn, err := dialTCP(ctx, addr, t)
	if err != nil {
		return LegacyServer{}, err
	}
	defer conn.Close()

	if _, werr := conn.Write(legacyPingPayload); werr != nil {
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
		beta, betaErr := parseBetaKickFields(payload)
		if betaErr != nil {
			return LegacyServer{}, mcerr.New(mcerr.ProtocolMismatch, "legacy kick payload matched neither modern nor beta schema")
		}
		srv = LegacyServer{MOTD: beta.MOTD, Online: beta.Online, Max: beta.Max}
	}
	srv.Latency = time.Since(start)
	return srv, nil
}
