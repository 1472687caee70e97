package ai

import (
	"context"
	"errors"
	"net"
	"time"
)

// ErrOffline indicates the environment has no network; generation and
// suggestion calls are refused before any request is attempted so the
// caller can surface "you are offline" instead of a generic provider error.
var ErrOffline = errors.New("offline: connect to a network to plan trips or get suggestions")

// probeConnectivity checks for a usable network with a quick TCP dial to a
// public resolver. The providers' own errors still cover the case where the
// network is up but the service is not.
func probeConnectivity(ctx context.Context) error {
	d := net.Dialer{Timeout: 3 * time.Second}
	conn, err := d.DialContext(ctx, "tcp", "1.1.1.1:443")
	if err != nil {
		return ErrOffline
	}
	conn.Close()
	return nil
}
