package protocol

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"time"

	"github.com/0xkowalskidev/mcstatus/mcerr"
)

// handshakeNextStateStatus is the handshake packet's next_state value that
// routes the connection into the status substate rather than login.
const handshakeNextStateStatus = int32(1)

// handshakeProtocolVersion is fixed at 47 (the lowest supported modern
// protocol number) regardless of the target server's actual version;
// servers reply with their own status document in the status substate
// even when this doesn't match, so no negotiation or guessing is needed.
const handshakeProtocolVersion = int32(47)

// ServerListPing performs the modern (1.7+) two-packet status exchange:
// handshake, then an empty status request, then a JSON status response.
func ServerListPing(ctx context.Context, addr string, host string, port uint16, t Timeouts) (Server, error) {
	start := time.Now()

	conn, err := dialTCP(ctx, addr, t)
	if err != nil {
		return Server{}, err
	}
	defer conn.Close()

	if err := sendHandshake(conn, host, port); err != nil {
		return Server{}, err
	}
	if err := sendStatusRequest(conn); err != nil {
		return Server{}, err
	}

	srv, err := readStatusResponse(conn)
	if err != nil {
		return Server{}, err
	}
	srv.Latency = time.Since(start)
	return srv, nil
}

func sendHandshake(conn net.Conn, host string, port uint16) error {
	var body bytes.Buffer
	body.WriteByte(0x00) // packet id
	body.Write(writeVarInt(handshakeProtocolVersion))
	body.Write(writeVarInt(int32(len(host))))
	body.WriteString(host)
	body.WriteByte(byte(port >> 8))
	body.WriteByte(byte(port))
	body.Write(writeVarInt(handshakeNextStateStatus))

	return writeFramedPacket(conn, body.Bytes())
}

func sendStatusRequest(conn net.Conn) error {
	var body bytes.Buffer
	body.WriteByte(0x00) // packet id, no payload
	return writeFramedPacket(conn, body.Bytes())
}

// writeFramedPacket prefixes payload with its own varint length, the
// framing every post-handshake Java packet uses.
func writeFramedPacket(conn net.Conn, payload []byte) error {
	lenPrefix := writeVarInt(int32(len(payload)))
	if _, err := conn.Write(append(lenPrefix, payload...)); err != nil {
		return classifyIOError(err)
	}
	return nil
}

func readStatusResponse(conn net.Conn) (Server, error) {
	br := bufio.NewReader(conn)

	packetLen, err := readVarInt(br)
	if err != nil {
		return Server{}, err
	}
	if packetLen < 0 {
		return Server{}, mcerr.New(mcerr.ProtocolMismatch, "negative packet length")
	}

	body := make([]byte, packetLen)
	if _, ioErr := io.ReadFull(br, body); ioErr != nil {
		return Server{}, mcerr.Wrap(mcerr.UnexpectedEOF, ioErr, "read status response body")
	}
	bodyReader := bytes.NewReader(body)

	packetID, err := readVarInt(bodyReader)
	if err != nil {
		return Server{}, err
	}
	if packetID != 0x00 {
		return Server{}, mcerr.New(mcerr.ProtocolMismatch, "unexpected status response packet id")
	}

	jsonStr, err := readStringUTF8VarInt(bodyReader)
	if err != nil {
		return Server{}, err
	}

	return decodeStatusJSON([]byte(jsonStr))
}

// statusJSONWire mirrors the modern status response's JSON shape, with
// Description left raw so it goes through DecodeChatComponent (which
// accepts both the string-leaf and object forms).
type statusJSONWire struct {
	Version struct {
		Name     string `json:"name"`
		Protocol int    `json:"protocol"`
	} `json:"version"`
	Players struct {
		Max    int `json:"max"`
		Online int `json:"online"`
		Sample []struct {
			Name string `json:"name"`
			ID   string `json:"id"`
		} `json:"sample"`
	} `json:"players"`
	Description           json.RawMessage `json:"description"`
	Favicon                string          `json:"favicon"`
	EnforcesSecureChat     *bool           `json:"enforcesSecureChat"`
	PreviewsChat           *bool           `json:"previewsChat"`
}

func decodeStatusJSON(raw []byte) (Server, error) {
	var wire statusJSONWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Server{}, mcerr.Wrap(mcerr.ChatComponentInvalid, err, "unmarshal status response json")
	}

	desc, err := DecodeChatComponent(wire.Description)
	if err != nil {
		return Server{}, err
	}

	srv := Server{
		Version: VersionInfo{
			Name:     wire.Version.Name,
			Protocol: wire.Version.Protocol,
		},
		Players: PlayersInfo{
			Max:    wire.Players.Max,
			Online: wire.Players.Online,
		},
		Description: desc,
		Favicon:     wire.Favicon,
	}
	for _, s := range wire.Players.Sample {
		srv.Players.Sample = append(srv.Players.Sample, PlayerSample{Name: s.Name, ID: s.ID})
	}
	if wire.EnforcesSecureChat != nil {
		srv.HasEnforcesSecureChat = true
		srv.EnforcesSecureChat = *wire.EnforcesSecureChat
	}
	if wire.PreviewsChat != nil {
		srv.HasPreviewsChat = true
		srv.PreviewsChat = *wire.PreviewsChat
	}
	return srv, nil
}
