package protocol

import (
	"bufio"
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/0xkowalskidev/mcstatus/mcerr"
)

// BetaLegacyPing performs the pre-1.4 (Beta through 1.3) ping: a bare 0xFE
// client hello with no follow-up byte. The response is a kick packet
// (0xFF) whose UTF-16BE body is motd, online, and max joined by the
// legacy section-sign separator instead of NUL.
func BetaLegacyPing(ctx context.Context, addr string, t Timeouts) (BetaLegacyServer, error) {
	start := time.Now()

	conn, err := dialTCP(ctx, addr, t)
	if err != nil {
		return BetaLegacyServer{}, err
	}
	defer conn.Close()

	if _, werr := conn.Write([]byte{0xFE}); werr != nil {
		return BetaLegacyServer{}, classifyIOError(werr)
	}

	br := bufio.NewReader(conn)
	packetID, err := readU8(br)
	if err != nil {
		return BetaLegacyServer{}, err
	}
	if packetID != 0xFF {
		return BetaLegacyServer{}, mcerr.New(mcerr.ProtocolMismatch, "expected kick packet id 0xFF")
	}

	payload, err := readStringUTF16BEU16(br)
	if err != nil {
		return BetaLegacyServer{}, err
	}

	srv, err := parseBetaKickFields(payload)
	if err != nil {
		return BetaLegacyServer{}, err
	}
	srv.Latency = time.Since(start)
	return srv, nil
}

// betaKickSeparator is the legacy section sign used to join beta kick
// fields, distinct from the NUL separator the 1.4+ kick payload uses.
const betaKickSeparator = "§"

// parseBetaKickFields splits on the section sign and takes the last two
// parts as online/max; the rest is rejoined into the MOTD, since a Beta
// MOTD can itself contain "§"-prefixed color codes.
func parseBetaKickFields(payload string) (BetaLegacyServer, error) {
	fields := strings.Split(payload, betaKickSeparator)
	if len(fields) < 3 {
		return BetaLegacyServer{}, mcerr.New(mcerr.ProtocolMismatch, "beta kick payload field count too short")
	}

	last := len(fields) - 1
	online, err := strconv.Atoi(fields[last-1])
	if err != nil {
		return BetaLegacyServer{}, mcerr.Wrap(mcerr.InvalidNumber, err, "parse beta online field")
	}
	max, err := strconv.Atoi(fields[last])
	if err != nil {
		return BetaLegacyServer{}, mcerr.Wrap(mcerr.InvalidNumber, err, "parse beta max field")
	}
	if online < 0 || max < 0 {
		return BetaLegacyServer{}, mcerr.New(mcerr.InvalidNumber, "beta online/max must be non-negative")
	}

	return BetaLegacyServer{
		MOTD:   strings.Join(fields[:last-1], betaKickSeparator),
		Online: online,
		Max:    max,
	}, nil
}
