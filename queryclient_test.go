package mcstatus

import (
	"bytes"
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockQueryServer answers handshakes and basic-stat requests, counting
// how many handshakes it received so tests can assert session reuse.
type mockQueryServer struct {
	conn        *net.UDPConn
	handshakes  int
	stopCh      chan struct{}
}

func newMockQueryServer(t *testing.T) *mockQueryServer {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0})
	require.NoError(t, err)
	s := &mockQueryServer{conn: conn, stopCh: make(chan struct{})}
	go s.serve()
	return s
}

func (s *mockQueryServer) addr() string { return s.conn.LocalAddr().String() }

func (s *mockQueryServer) stop() { close(s.stopCh); s.conn.Close() }

func (s *mockQueryServer) serve() {
	buf := make([]byte, 2048)
	for {
		s.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		n, remote, err := s.conn.ReadFromUDP(buf)
		select {
		case <-s.stopCh:
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
		reqType := req[2]
		sessionID := req[3:7]

		switch reqType {
		case 0x09:
			s.handshakes++
			var out bytes.Buffer
			out.WriteByte(0x09)
			out.Write(sessionID)
			out.WriteString("100")
			out.WriteByte(0)
			s.conn.WriteToUDP(out.Bytes(), remote)
		case 0x00:
			var out bytes.Buffer
			out.WriteByte(0x00)
			out.Write(sessionID)
			for _, field := range []string{"MySrv", "SMP", "world", "1", "9"} {
				out.WriteString(field)
				out.WriteByte(0)
			}
			out.WriteByte(byte(25565))
			out.WriteByte(byte(25565 >> 8))
			out.WriteString("10.0.0.5")
			out.WriteByte(0)
			s.conn.WriteToUDP(out.Bytes(), remote)
		}
	}
}

func TestQueryClientReusesSession(t *testing.T) {
	srv := newMockQueryServer(t)
	defer srv.stop()

	host, portStr, err := net.SplitHostPort(srv.addr())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	conf := NewConfWithPort(host, uint16(port)).WithSocketConf(SocketConf{ReadTimeout: 2 * time.Second})
	qc := conf.NewQueryClient()

	_, err = qc.Basic(context.TODO())
	require.NoError(t, err)
	_, err = qc.Basic(context.TODO())
	require.NoError(t, err)

	assert.Equal(t, 1, srv.handshakes, "second call should reuse the cached session")
}
