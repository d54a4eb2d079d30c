package protocol

import (
	"time"

	"github.com/google/uuid"
)

// VersionInfo is the modern ping's version.{name,protocol} pair.
type VersionInfo struct {
	Name     string
	Protocol int
}

// PlayerSample is one entry of players.sample in a modern ping response.
type PlayerSample struct {
	Name string
	ID   string
}

// UUID parses Name's companion ID as a canonical hyphenated UUID.
func (p PlayerSample) UUID() (uuid.UUID, error) {
	return uuid.Parse(p.ID)
}

// PlayersInfo is the modern ping's players.{max,online,sample} block.
type PlayersInfo struct {
	Max    int
	Online int
	Sample []PlayerSample
}

// Server is the result of the modern (1.7+) Server List Ping.
type Server struct {
	Version             VersionInfo
	Players             PlayersInfo
	Description         ChatComponent
	Favicon             string
	EnforcesSecureChat  bool
	HasEnforcesSecureChat bool
	PreviewsChat        bool
	HasPreviewsChat     bool
	Latency             time.Duration
}

// LegacyServer is the result of the Netty (1.6) and Legacy (1.4-1.5)
// pings, which share one response schema.
type LegacyServer struct {
	MOTD     string
	Protocol int
	Version  string
	Online   int
	Max      int
	Latency  time.Duration
}

// BetaLegacyServer is the result of the Beta (B1.8-1.3) ping, which
// carries no protocol/version fields.
type BetaLegacyServer struct {
	MOTD    string
	Online  int
	Max     int
	Latency time.Duration
}

// QueryBasic is the result of a GS4 basic stat request.
type QueryBasic struct {
	MOTD     string
	GameType string
	Map      string
	Online   int
	Max      int
	HostPort uint16
	HostIP   string
	Latency  time.Duration
}

// QueryFull is the result of a GS4 full stat request.
type QueryFull struct {
	Hostname   string
	GameType   string
	GameID     string
	Version    string
	Plugins    string
	Map        string
	NumPlayers int
	MaxPlayers int
	HostPort   uint16
	HostIP     string
	Players    []string
	Latency    time.Duration
}

// BedrockServer is the result of a RakNet unconnected ping.
type BedrockServer struct {
	Edition          string
	MOTDLine1        string
	ProtocolVersion  int
	VersionName      string
	PlayersOnline    int
	PlayersMax       int
	ServerUID        string
	MOTDLine2        string
	Gamemode         string
	GamemodeNumeric  int
	PortV4           int
	PortV6           int
	Latency          time.Duration
}
