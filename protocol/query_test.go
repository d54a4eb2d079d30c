package protocol

import (
	"bytes"
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xkowalskidev/mcstatus/mcerr"
)

// mockQueryServer answers one handshake and any number of stat requests
// over UDP, mirroring the real GS4 challenge-response exchange.
func mockQueryServer(t *testing.T, token int32, basic *QueryBasic, full *QueryFull) (addr string, stop func()) {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0})
	require.NoError(t, err)

	stopCh := make(chan struct{})
	go func() {
		buf := make([]byte, 2048)
		for {
			conn.SetReadDeadline(time.Now().Add(2 * time.Second))
			n, remote, err := conn.ReadFromUDP(buf)
			select {
			case <-stopCh:
				return
			default:
			}
			if err != nil {
				return
			}
			handleQueryRequest(conn, remote, buf[:n], token, basic, full)
		}
	}()
	return conn.LocalAddr().String(), func() { close(stopCh); conn.Close() }
}

func handleQueryRequest(conn *net.UDPConn, remote *net.UDPAddr, req []byte, token int32, basic *QueryBasic, full *QueryFull) {
	if len(req) < 7 {
		return
	}
	reqType := req[2]
	sessionID := req[3:7]

	switch reqType {
	case queryTypeHandshake:
		var out bytes.Buffer
		out.WriteByte(queryTypeHandshake)
		out.Write(sessionID)
		out.WriteString(strconv.FormatInt(int64(token), 10))
		out.WriteByte(0x00)
		conn.WriteToUDP(out.Bytes(), remote)
	case queryTypeStat:
		if len(req) > 11 && basic == nil && full != nil {
			writeFullStatResponse(conn, remote, sessionID, full)
		} else if basic != nil {
			writeBasicStatResponse(conn, remote, sessionID, basic)
		}
	}
}

func writeBasicStatResponse(conn *net.UDPConn, remote *net.UDPAddr, sessionID []byte, basic *QueryBasic) {
	var out bytes.Buffer
	out.WriteByte(queryTypeStat)
	out.Write(sessionID)
	out.WriteString(basic.MOTD)
	out.WriteByte(0)
	out.WriteString(basic.GameType)
	out.WriteByte(0)
	out.WriteString(basic.Map)
	out.WriteByte(0)
	out.WriteString(strconv.Itoa(basic.Online))
	out.WriteByte(0)
	out.WriteString(strconv.Itoa(basic.Max))
	out.WriteByte(0)
	out.WriteByte(byte(basic.HostPort)) // LE
	out.WriteByte(byte(basic.HostPort >> 8))
	out.WriteString(basic.HostIP)
	out.WriteByte(0)
	conn.WriteToUDP(out.Bytes(), remote)
}

func writeFullStatResponse(conn *net.UDPConn, remote *net.UDPAddr, sessionID []byte, full *QueryFull) {
	var out bytes.Buffer
	out.WriteByte(queryTypeStat)
	out.Write(sessionID)
	out.WriteString("splitnum")
	out.WriteByte(0)
	out.WriteByte(0x80)
	out.WriteByte(0)

	kv := map[string]string{
		"hostname":   full.Hostname,
		"gametype":   full.GameType,
		"game_id":    full.GameID,
		"version":    full.Version,
		"plugins":    full.Plugins,
		"map":        full.Map,
		"numplayers": strconv.Itoa(full.NumPlayers),
		"maxplayers": strconv.Itoa(full.MaxPlayers),
		"hostport":   strconv.Itoa(int(full.HostPort)),
		"hostip":     full.HostIP,
	}
	for k, v := range kv {
		out.WriteString(k)
		out.WriteByte(0)
		out.WriteString(v)
		out.WriteByte(0)
	}
	out.WriteByte(0) // terminate kv section

	out.WriteByte(0x01)
	out.WriteString("player_")
	out.WriteByte(0)
	out.WriteByte(0)

	for _, p := range full.Players {
		out.WriteString(p)
		out.WriteByte(0)
	}
	out.WriteByte(0) // terminate player section

	conn.WriteToUDP(out.Bytes(), remote)
}

func TestQueryHandshakeAndBasicStat(t *testing.T) {
	basic := &QueryBasic{MOTD: "MySrv", GameType: "SMP", Map: "world", Online: 2, Max: 9, HostPort: 25565, HostIP: "10.0.0.5"}
	addr, stop := mockQueryServer(t, 9513307, basic, nil)
	defer stop()

	ctx := context.Background()
	sess, err := QueryHandshake(ctx, addr, 0x01010101, Timeouts{Read: 2 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, int32(9513307), sess.Token)

	stat, err := QueryBasicStat(ctx, addr, sess, Timeouts{Read: 2 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, "MySrv", stat.MOTD)
	assert.Equal(t, "SMP", stat.GameType)
	assert.Equal(t, 2, stat.Online)
	assert.Equal(t, 9, stat.Max)
	assert.Equal(t, uint16(25565), stat.HostPort) // catches a BE/LE regression: 0x63DD swapped is 0xDD63
	assert.Equal(t, "10.0.0.5", stat.HostIP)
}

func TestQueryFullStatRejectsCorruptPadding(t *testing.T) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0})
	require.NoError(t, err)
	defer conn.Close()

	stopCh := make(chan struct{})
	go func() {
		buf := make([]byte, 2048)
		for {
			conn.SetReadDeadline(time.Now().Add(2 * time.Second))
			n, remote, err := conn.ReadFromUDP(buf)
			select {
			case <-stopCh:
				return
			default:
			}
			if err != nil {
				return
			}
			req := buf[:n]
			if len(req) < 7 {
				continue
			}
			sessionID := req[3:7]
			switch req[2] {
			case queryTypeHandshake:
				var out bytes.Buffer
				out.WriteByte(queryTypeHandshake)
				out.Write(sessionID)
				out.WriteString("9513307")
				out.WriteByte(0)
				conn.WriteToUDP(out.Bytes(), remote)
			case queryTypeStat:
				var out bytes.Buffer
				out.WriteByte(queryTypeStat)
				out.Write(sessionID)
				out.WriteString("corruptpad") // wrong padding, wrong length too
				conn.WriteToUDP(out.Bytes(), remote)
			}
		}
	}()
	defer close(stopCh)

	addr := conn.LocalAddr().String()
	ctx := context.Background()
	sess, err := QueryHandshake(ctx, addr, 0x01010101, Timeouts{Read: 2 * time.Second})
	require.NoError(t, err)

	_, err = QueryFullStat(ctx, addr, sess, Timeouts{Read: 2 * time.Second})
	require.Error(t, err)
	assert.True(t, mcerr.Is(err, mcerr.ProtocolMismatch) || mcerr.Is(err, mcerr.UnexpectedEOF))
}

func TestQueryFullStatStitching(t *testing.T) {
	full := &QueryFull{
		Hostname: "MySrv", GameType: "SMP", GameID: "MINECRAFT", Version: "1.19.4",
		Map: "world", NumPlayers: 2, MaxPlayers: 9, HostPort: 25565, HostIP: "10.0.0.5",
		Players: []string{"alice", "bob"},
	}
	addr, stop := mockQueryServer(t, 9513307, nil, full)
	defer stop()

	ctx := context.Background()
	sess, err := QueryHandshake(ctx, addr, 0x01010101, Timeouts{Read: 2 * time.Second})
	require.NoError(t, err)

	got, err := QueryFullStat(ctx, addr, sess, Timeouts{Read: 2 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, "MySrv", got.Hostname)
	assert.Equal(t, "MINECRAFT", got.GameID)
	assert.Equal(t, 2, got.NumPlayers)
	assert.Equal(t, []string{"alice", "bob"}, got.Players)
}
