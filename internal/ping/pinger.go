package ping

import (
	"context"
	"fmt"
	"time"
)

// Result captures a single ping result. RTT is only meaningful on success.
type Result struct {
	RTT     time.Duration
	Success bool
	Error   error
}

// Pinger sends a single echo request and returns the result.
type Pinger interface {
	Ping(ctx context.Context, addr string, timeout time.Duration) Result
}

// Method names accepted by New.
const (
	MethodAuto     = "auto"
	MethodICMP     = "icmp"
	MethodExternal = "external"
	MethodParallel = "parallel"
)

// New builds the pinger for method. privileged selects raw sockets for the
// ICMP and parallel pingers; nil keeps each backend's default.
func New(method string, privileged *bool) (Pinger, error) {
	switch method {
	case "", MethodAuto:
		icmpPinger := NewICMPPinger(privileged)
		return NewFallbackPinger(icmpPinger, NewExternalPinger()), nil
	case MethodICMP:
		return NewICMPPinger(privileged), nil
	case MethodExternal:
		return NewExternalPinger(), nil
	case MethodParallel:
		return NewParallelPinger(privileged), nil
	default:
		return nil, fmt.Errorf("unknown ping method: %q", method)
	}
}
