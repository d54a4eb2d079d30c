// Package mcstatus queries the status of Minecraft game servers across
// every dialect the game has spoken since Beta: modern Server List Ping,
// the 1.6 Netty ping, the 1.4-1.5 and Beta legacy pings, Query/GS4
// basic and full stat, and Bedrock's RakNet unconnected ping. It also
// discovers servers advertised on the local network via multicast.
package mcstatus

import (
	"net"
	"strconv"
	"time"

	"github.com/creasty/defaults"
)

// DefaultJavaPort is used when Conf is constructed without an explicit port.
const DefaultJavaPort = 25565

// DefaultBedrockPort is the conventional Bedrock listen port, for callers
// that construct a Conf specifically to call GetBedrockRaknetStatus.
const DefaultBedrockPort = 19132

// Conf is immutable connection configuration: a host and port to query.
// Construct it with NewConf or NewConfWithPort; its fields are
// unexported so a caller can't mutate it after construction.
type Conf struct {
	host string
	port uint16
	sock SocketConf
}

// SocketConf tunes the socket-level timeouts every dialect call uses.
type SocketConf struct {
	ReadTimeout  time.Duration `default:"0s"`
	WriteTimeout time.Duration `default:"0s"`
}

// NewConf builds a Conf for host, defaulting the port to 25565.
func NewConf(host string) Conf {
	return NewConfWithPort(host, DefaultJavaPort)
}

// NewConfWithPort builds a Conf for an explicit host and port.
func NewConfWithPort(host string, port uint16) Conf {
	sock := SocketConf{}
	if err := defaults.Set(&sock); err != nil {
		// struct tags are fixed at compile time; Set can only fail on a
		// malformed tag, which would be a bug in this package, not a
		// runtime condition a caller needs to react to.
		panic(err)
	}
	return Conf{host: host, port: port, sock: sock}
}

// WithSocketConf returns a copy of c with its socket timeouts replaced.
func (c Conf) WithSocketConf(sock SocketConf) Conf {
	c.sock = sock
	return c
}

// Host returns the configured host.
func (c Conf) Host() string { return c.host }

// Port returns the configured port.
func (c Conf) Port() uint16 { return c.port }

func (c Conf) addr() string {
	return net.JoinHostPort(c.host, strconv.Itoa(int(c.port)))
}
