package mcstatus

import (
	"context"

	"go.uber.org/zap"

	"github.com/0xkowalskidev/mcstatus/lan"
)

// lanChannelBuffer bounds the LanServer channel GetLanServerStatus
// returns; a discovery feed is meant to be drained promptly, and a small
// buffer is enough to absorb a burst without the producer blocking.
const lanChannelBuffer = 16

// LanHandle cancels a running LAN discovery scan.
type LanHandle struct {
	inner *lan.Handle
}

// Stop cancels the scan and waits for its background goroutine to exit.
func (h *LanHandle) Stop() error {
	return h.inner.Stop()
}

// GetLanServerStatus joins the LAN multicast group and streams distinct
// server advertisements to the returned channel until the handle is
// stopped or ctx is cancelled. Logger may be nil, in which case
// discovery runs silently.
func GetLanServerStatus(ctx context.Context, logger *zap.Logger) (<-chan LanServer, *LanHandle, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	out, handle, err := lan.Discover(ctx, lanChannelBuffer, logger)
	if err != nil {
		return nil, nil, err
	}
	return out, &LanHandle{inner: handle}, nil
}
