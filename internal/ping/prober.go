package ping

import (
	"context"
	"time"
)

// Prober pings one fixed target with a fixed timeout.
type Prober struct {
	Pinger  Pinger
	Target  string
	Timeout time.Duration
}

// Probe performs one reachability check. It never returns an error: any
// failure is reported as Success=false, with the cause kept in Error for logs.
func (p Prober) Probe(ctx context.Context) Result {
	probeCtx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	result := p.Pinger.Ping(probeCtx, p.Target, p.Timeout)
	if !result.Success {
		result.RTT = 0
	}
	return result
}
