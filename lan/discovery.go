// Package lan listens for the LAN broadcasts Minecraft servers send so
// they show up in a client's "Multiplayer" screen without the player
// having to type an address: a UDP multicast datagram on 224.0.2.60:4445
// every 1.5s, carrying a "[MOTD]...[/MOTD][AD]port[/AD]" payload.
package lan

import (
	"bytes"
	"context"
	"net"
	"regexp"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/0xkowalskidev/mcstatus/mcerr"
)

// Address is the multicast group and port Minecraft servers broadcast on.
const Address = "224.0.2.60:4445"

// dedupeTTL suppresses repeat emissions from the same address for 10s,
// since a broadcasting server repeats its advertisement roughly every
// 1.5s.
const dedupeTTL = 10 * time.Second

// Server is one LAN broadcast observation.
type Server struct {
	MOTD    string
	Address string // "<sender_ip>:<port>"
}

var motdPattern = regexp.MustCompile(`\[MOTD\](.*)\[/MOTD\]`)
var adPattern = regexp.MustCompile(`\[AD\](\d+)\[/AD\]`)

// Handle controls a running discovery session.
type Handle struct {
	cancel  context.CancelFunc
	stopped *atomic.Bool
	group   *errgroup.Group
}

// Stop ends the discovery session and waits for its goroutine to exit.
func (h *Handle) Stop() error {
	h.stopped.Store(true)
	h.cancel()
	return h.group.Wait()
}

// Discover starts listening for LAN broadcasts in the background and
// returns a channel of observations plus a Handle to stop the scan. The
// channel has capacity bufSize; once full, the oldest buffered event is
// dropped to make room rather than blocking the receive loop, since a
// discovery feed favors freshness over completeness.
func Discover(ctx context.Context, bufSize int, log *zap.Logger) (<-chan Server, *Handle, error) {
	conn, err := joinMulticast()
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	out := make(chan Server, bufSize)
	stopped := atomic.NewBool(false)

	group, gctx := errgroup.WithContext(ctx)
	seen := gocache.New(dedupeTTL, dedupeTTL*2)

	group.Go(func() error {
		defer conn.Close()
		<-gctx.Done()
		return nil
	})
	group.Go(func() error {
		return receiveLoop(gctx, conn, out, seen, stopped, log)
	})

	return out, &Handle{cancel: cancel, stopped: stopped, group: group}, nil
}

func joinMulticast() (*net.UDPConn, error) {
	groupAddr, err := net.ResolveUDPAddr("udp4", Address)
	if err != nil {
		return nil, mcerr.Wrap(mcerr.InvalidAddress, err, "resolve lan multicast address")
	}
	conn, err := net.ListenMulticastUDP("udp4", nil, groupAddr)
	if err != nil {
		return nil, mcerr.Wrap(mcerr.NetworkIO, err, "join lan multicast group")
	}
	conn.SetReadBuffer(8192)
	return conn, nil
}

func receiveLoop(ctx context.Context, conn *net.UDPConn, out chan<- Server, seen *gocache.Cache, stopped *atomic.Bool, log *zap.Logger) error {
	buf := make([]byte, 2048)
	for {
		if stopped.Load() {
			return nil
		}
		conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
		n, remote, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				select {
				case <-ctx.Done():
					return nil
				default:
					continue
				}
			}
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			if log != nil {
				log.Warn("lan discovery read failed", zap.Error(err))
			}
			continue
		}

		srv, ok := parseBroadcast(buf[:n], remote.IP)
		if !ok {
			continue
		}

		if _, dup := seen.Get(srv.Address); dup {
			continue
		}
		seen.Set(srv.Address, struct{}{}, gocache.DefaultExpiration)

		select {
		case out <- srv:
		default:
			// Drop the oldest buffered event to make room for this one.
			select {
			case <-out:
			default:
			}
			select {
			case out <- srv:
			default:
			}
		}
	}
}

func parseBroadcast(payload []byte, remoteIP net.IP) (Server, bool) {
	payload = bytes.TrimSpace(payload)

	motdMatch := motdPattern.FindSubmatch(payload)
	adMatch := adPattern.FindSubmatch(payload)
	if motdMatch == nil || adMatch == nil {
		return Server{}, false
	}

	port := string(adMatch[1])

	return Server{
		MOTD:    string(motdMatch[1]),
		Address: net.JoinHostPort(remoteIP.String(), port),
	}, true
}
