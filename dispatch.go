package mcstatus

import (
	"context"

	"github.com/0xkowalskidev/mcstatus/protocol"
)

func (c Conf) timeouts() protocol.Timeouts {
	return protocol.Timeouts{Read: c.sock.ReadTimeout, Write: c.sock.WriteTimeout}
}

// GetServerStatus performs the modern (1.7+) Server List Ping. No other
// dialect is attempted automatically: a legacy server may misinterpret
// the modern handshake's first byte, so downgrading is never silent.
func (c Conf) GetServerStatus(ctx context.Context) (Server, error) {
	return protocol.ServerListPing(ctx, c.addr(), c.host, c.port, c.timeouts())
}

// GetNettyServerStatus performs the 1.6 Netty ping.
func (c Conf) GetNettyServerStatus(ctx context.Context) (LegacyServer, error) {
	return protocol.NettyPing(ctx, c.addr(), c.host, c.port, c.timeouts())
}

// GetLegacyServerStatus performs the 1.4-1.5 legacy ping, falling back to
// Beta-style response parsing on schema mismatch.
func (c Conf) GetLegacyServerStatus(ctx context.Context) (LegacyServer, error) {
	return protocol.LegacyPing(ctx, c.addr(), c.timeouts())
}

// GetBetaLegacyServerStatus performs the pre-1.4 Beta ping.
func (c Conf) GetBetaLegacyServerStatus(ctx context.Context) (BetaLegacyServer, error) {
	return protocol.BetaLegacyPing(ctx, c.addr(), c.timeouts())
}

// QueryBasic performs a GS4 basic stat request, handshaking fresh every
// call. Callers issuing many stat requests in a short window should use
// NewQueryClient instead to reuse one challenge token.
func (c Conf) QueryBasic(ctx context.Context) (QueryBasic, error) {
	sess, err := protocol.QueryHandshake(ctx, c.addr(), 0x01, c.timeouts())
	if err != nil {
		return QueryBasic{}, err
	}
	return protocol.QueryBasicStat(ctx, c.addr(), sess, c.timeouts())
}

// QueryFull performs a GS4 full stat request, handshaking fresh every call.
func (c Conf) QueryFull(ctx context.Context) (QueryFull, error) {
	sess, err := protocol.QueryHandshake(ctx, c.addr(), 0x01, c.timeouts())
	if err != nil {
		return QueryFull{}, err
	}
	return protocol.QueryFullStat(ctx, c.addr(), sess, c.timeouts())
}

// GetBedrockRaknetStatus performs a Bedrock RakNet unconnected ping. The
// client GUID is arbitrary; a random one avoids colliding with a GUID a
// concurrent caller on the same host might pick.
func (c Conf) GetBedrockRaknetStatus(ctx context.Context) (BedrockServer, error) {
	guid, err := randomClientGUID()
	if err != nil {
		return BedrockServer{}, err
	}
	return protocol.RaknetUnconnectedPing(ctx, c.addr(), guid, c.timeouts())
}
