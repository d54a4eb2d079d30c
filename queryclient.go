package mcstatus

import (
	"context"
	"sync"

	"github.com/0xkowalskidev/mcstatus/mcerr"
	"github.com/0xkowalskidev/mcstatus/protocol"
)

// queryClientSessionID is the fixed session id every QueryClient request
// uses; servers don't require variety within a process.
const queryClientSessionID = 0x01

// QueryClient reuses one GS4 challenge token across multiple stat calls
// instead of re-handshaking every time, within the server's token window
// (~30s). A stat call that fails with ProtocolMismatch or NetworkTimeout
// triggers one re-handshake and retry before giving up; other errors are
// returned as they are.
type QueryClient struct {
	conf Conf

	mu   sync.Mutex
	sess *protocol.QuerySession
}

// NewQueryClient returns a QueryClient bound to conf's host and port.
func (c Conf) NewQueryClient() *QueryClient {
	return &QueryClient{conf: c}
}

// Basic requests the basic stat block, handshaking only if no session is
// cached yet or the cached one was rejected.
func (q *QueryClient) Basic(ctx context.Context) (QueryBasic, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	sess, err := q.sessionLocked(ctx)
	if err != nil {
		return QueryBasic{}, err
	}
	stat, err := protocol.QueryBasicStat(ctx, q.conf.addr(), sess, q.conf.timeouts())
	if err == nil {
		return stat, nil
	}
	if !isStaleSessionError(err) {
		return QueryBasic{}, err
	}
	sess, err = q.handshakeLocked(ctx)
	if err != nil {
		return QueryBasic{}, err
	}
	return protocol.QueryBasicStat(ctx, q.conf.addr(), sess, q.conf.timeouts())
}

// Full requests the full stat block, with the same reuse/re-handshake
// behavior as Basic.
func (q *QueryClient) Full(ctx context.Context) (QueryFull, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	sess, err := q.sessionLocked(ctx)
	if err != nil {
		return QueryFull{}, err
	}
	stat, err := protocol.QueryFullStat(ctx, q.conf.addr(), sess, q.conf.timeouts())
	if err == nil {
		return stat, nil
	}
	if !isStaleSessionError(err) {
		return QueryFull{}, err
	}
	sess, err = q.handshakeLocked(ctx)
	if err != nil {
		return QueryFull{}, err
	}
	return protocol.QueryFullStat(ctx, q.conf.addr(), sess, q.conf.timeouts())
}

func (q *QueryClient) sessionLocked(ctx context.Context) (protocol.QuerySession, error) {
	if q.sess != nil {
		return *q.sess, nil
	}
	return q.handshakeLocked(ctx)
}

func (q *QueryClient) handshakeLocked(ctx context.Context) (protocol.QuerySession, error) {
	sess, err := protocol.QueryHandshake(ctx, q.conf.addr(), queryClientSessionID, q.conf.timeouts())
	if err != nil {
		return protocol.QuerySession{}, err
	}
	q.sess = &sess
	return sess, nil
}

func isStaleSessionError(err error) bool {
	return mcerr.Is(err, mcerr.ProtocolMismatch) || mcerr.Is(err, mcerr.NetworkTimeout)
}
