package protocol

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"strconv"
	"time"

	"github.com/0xkowalskidev/mcstatus/mcerr"
)

// query packet types, per the GameSpy4 protocol Minecraft's query server
// speaks (same wire format as Unreal Tournament's UT3 query).
const (
	queryTypeHandshake = 0x09
	queryTypeStat      = 0x00
)

var queryMagic = []byte{0xFE, 0xFD}

// querySessionMask zeroes the top nibble of every session-id byte. Some
// server implementations reject session IDs whose bytes aren't masked
// this way, so every request uses it.
const querySessionMask = 0x0F0F0F0F

// QuerySession is a challenge token obtained from a handshake, reusable
// across multiple stat requests against the same server until it expires
// server-side (typically ~30s), letting a caller avoid re-handshaking.
type QuerySession struct {
	SessionID uint32
	Token     int32
}

// QueryHandshake performs the challenge handshake step, returning a
// session usable for one or more basic/full stat requests.
func QueryHandshake(ctx context.Context, addr string, sessionID uint32, t Timeouts) (QuerySession, error) {
	sessionID &= querySessionMask

	conn, err := dialUDP(ctx, addr, t)
	if err != nil {
		return QuerySession{}, err
	}
	defer conn.Close()

	var req bytes.Buffer
	req.Write(queryMagic)
	req.WriteByte(queryTypeHandshake)
	binary.Write(&req, binary.BigEndian, sessionID)
	if _, werr := conn.Write(req.Bytes()); werr != nil {
		return QuerySession{}, classifyIOError(werr)
	}

	resp := make([]byte, 1500)
	n, rerr := conn.Read(resp)
	if rerr != nil {
		return QuerySession{}, classifyIOError(rerr)
	}
	br := bufio.NewReader(bytes.NewReader(resp[:n]))

	if err := expectQueryHeader(br, queryTypeHandshake, sessionID); err != nil {
		return QuerySession{}, err
	}

	tokenStr, err := readNullTerminatedASCII(br)
	if err != nil {
		return QuerySession{}, err
	}
	token, perr := strconv.ParseInt(tokenStr, 10, 64)
	if perr != nil {
		return QuerySession{}, mcerr.Wrap(mcerr.InvalidNumber, perr, "parse challenge token")
	}

	return QuerySession{SessionID: sessionID, Token: int32(token)}, nil
}

// QueryBasicStat requests the basic stat block using an existing session.
func QueryBasicStat(ctx context.Context, addr string, sess QuerySession, t Timeouts) (QueryBasic, error) {
	start := time.Now()

	conn, err := dialUDP(ctx, addr, t)
	if err != nil {
		return QueryBasic{}, err
	}
	defer conn.Close()

	var req bytes.Buffer
	req.Write(queryMagic)
	req.WriteByte(queryTypeStat)
	binary.Write(&req, binary.BigEndian, sess.SessionID)
	binary.Write(&req, binary.BigEndian, sess.Token)
	if _, werr := conn.Write(req.Bytes()); werr != nil {
		return QueryBasic{}, classifyIOError(werr)
	}

	resp := make([]byte, 1500)
	n, rerr := conn.Read(resp)
	if rerr != nil {
		return QueryBasic{}, classifyIOError(rerr)
	}
	br := bufio.NewReader(bytes.NewReader(resp[:n]))

	if err := expectQueryHeader(br, queryTypeStat, sess.SessionID); err != nil {
		return QueryBasic{}, err
	}

	motd, err := readNullTerminatedASCII(br)
	if err != nil {
		return QueryBasic{}, err
	}
	gameType, err := readNullTerminatedASCII(br)
	if err != nil {
		return QueryBasic{}, err
	}
	mapName, err := readNullTerminatedASCII(br)
	if err != nil {
		return QueryBasic{}, err
	}
	onlineStr, err := readNullTerminatedASCII(br)
	if err != nil {
		return QueryBasic{}, err
	}
	maxStr, err := readNullTerminatedASCII(br)
	if err != nil {
		return QueryBasic{}, err
	}
	// Host port is little-endian here even though every other numeric
	// field in the query protocol is big-endian; this is a documented
	// quirk of Minecraft's GS4 implementation.
	hostPort, err := readU16LE(br)
	if err != nil {
		return QueryBasic{}, err
	}
	hostIP, err := readNullTerminatedASCII(br)
	if err != nil {
		return QueryBasic{}, err
	}

	online, oerr := strconv.Atoi(onlineStr)
	if oerr != nil {
		return QueryBasic{}, mcerr.Wrap(mcerr.InvalidNumber, oerr, "parse basic stat online count")
	}
	max, merr := strconv.Atoi(maxStr)
	if merr != nil {
		return QueryBasic{}, mcerr.Wrap(mcerr.InvalidNumber, merr, "parse basic stat max count")
	}

	return QueryBasic{
		MOTD:     motd,
		GameType: gameType,
		Map:      mapName,
		Online:   online,
		Max:      max,
		HostPort: hostPort,
		HostIP:   hostIP,
		Latency:  time.Since(start),
	}, nil
}

// queryFullStatPadding is the 4-byte padding appended to a full stat
// request to distinguish it from a basic stat request, both of which
// otherwise share packet type 0x00.
var queryFullStatPadding = []byte{0x00, 0x00, 0x00, 0x00}

// QueryFullStat requests the full stat block (KV section plus player
// list) using an existing session.
func QueryFullStat(ctx context.Context, addr string, sess QuerySession, t Timeouts) (QueryFull, error) {
	start := time.Now()

	conn, err := dialUDP(ctx, addr, t)
	if err != nil {
		return QueryFull{}, err
	}
	defer conn.Close()

	var req bytes.Buffer
	req.Write(queryMagic)
	req.WriteByte(queryTypeStat)
	binary.Write(&req, binary.BigEndian, sess.SessionID)
	binary.Write(&req, binary.BigEndian, sess.Token)
	req.Write(queryFullStatPadding)
	if _, werr := conn.Write(req.Bytes()); werr != nil {
		return QueryFull{}, classifyIOError(werr)
	}

	resp := make([]byte, 4096)
	n, rerr := conn.Read(resp)
	if rerr != nil {
		return QueryFull{}, classifyIOError(rerr)
	}
	br := bufio.NewReader(bytes.NewReader(resp[:n]))

	if err := expectQueryHeader(br, queryTypeStat, sess.SessionID); err != nil {
		return QueryFull{}, err
	}

	// 11-byte constant padding ("splitnum\x00\x80\x00") ahead of the KV
	// section.
	if err := expectBytes(br, []byte("splitnum\x00\x80\x00")); err != nil {
		return QueryFull{}, err
	}

	kv, err := readQueryKVSection(br)
	if err != nil {
		return QueryFull{}, err
	}

	// 10-byte constant padding ("\x01player_\x00\x00") ahead of the
	// player list.
	if err := expectBytes(br, []byte("\x01player_\x00\x00")); err != nil {
		return QueryFull{}, err
	}

	players, err := readQueryPlayerSection(br)
	if err != nil {
		return QueryFull{}, err
	}

	full := QueryFull{
		Hostname: kv["hostname"],
		GameType: kv["gametype"],
		GameID:   kv["game_id"],
		Version:  kv["version"],
		Plugins:  kv["plugins"],
		Map:      kv["map"],
		Players:  players,
		Latency:  time.Since(start),
	}
	if n, perr := strconv.Atoi(kv["numplayers"]); perr == nil {
		full.NumPlayers = n
	}
	if m, merr := strconv.Atoi(kv["maxplayers"]); merr == nil {
		full.MaxPlayers = m
	}
	if p, perr := strconv.Atoi(kv["hostport"]); perr == nil {
		full.HostPort = uint16(p)
	}
	full.HostIP = kv["hostip"]

	return full, nil
}

func readQueryKVSection(br *bufio.Reader) (map[string]string, error) {
	kv := make(map[string]string)
	for {
		key, err := readNullTerminatedASCII(br)
		if err != nil {
			return nil, err
		}
		if key == "" {
			return kv, nil
		}
		value, err := readNullTerminatedASCII(br)
		if err != nil {
			return nil, err
		}
		kv[key] = value
	}
}

func readQueryPlayerSection(br *bufio.Reader) ([]string, error) {
	var players []string
	for {
		name, err := readNullTerminatedASCII(br)
		if err != nil {
			return nil, err
		}
		if name == "" {
			return players, nil
		}
		players = append(players, name)
	}
}

func expectQueryHeader(br *bufio.Reader, wantType byte, wantSessionID uint32) error {
	gotType, err := readU8(br)
	if err != nil {
		return err
	}
	if gotType != wantType {
		return mcerr.New(mcerr.ProtocolMismatch, "unexpected query response type")
	}
	gotSessionID, err := readU32BE(br)
	if err != nil {
		return err
	}
	if gotSessionID != wantSessionID {
		return mcerr.New(mcerr.ProtocolMismatch, "query response session id mismatch")
	}
	return nil
}

func readU32BE(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, mcerr.Wrap(mcerr.UnexpectedEOF, err, "read u32be")
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}
