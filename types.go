package mcstatus

import (
	"github.com/0xkowalskidev/mcstatus/lan"
	"github.com/0xkowalskidev/mcstatus/protocol"
)

// Result and value types are defined once in protocol and re-exported
// here so callers only ever import the root package.
type (
	VersionInfo       = protocol.VersionInfo
	PlayerSample      = protocol.PlayerSample
	PlayersInfo       = protocol.PlayersInfo
	Server            = protocol.Server
	LegacyServer      = protocol.LegacyServer
	BetaLegacyServer  = protocol.BetaLegacyServer
	QueryBasic        = protocol.QueryBasic
	QueryFull         = protocol.QueryFull
	BedrockServer     = protocol.BedrockServer
	ChatComponent     = protocol.ChatComponent
	LanServer         = lan.Server
)
