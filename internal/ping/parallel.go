package ping

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	pinger "github.com/macrat/go-parallel-pinger"
)

// ParallelPinger uses go-parallel-pinger, which keeps one long-lived socket
// per address family instead of opening a socket for every probe.
type ParallelPinger struct {
	mu         sync.Mutex
	privileged *bool
	v4         *pinger.Pinger
	v6         *pinger.Pinger
	stop       context.CancelFunc
}

// NewParallelPinger returns a pinger that starts its sockets on first use.
func NewParallelPinger(privileged *bool) *ParallelPinger {
	return &ParallelPinger{privileged: privileged}
}

// Ping sends one echo request and waits up to timeout for the reply.
func (p *ParallelPinger) Ping(ctx context.Context, addr string, timeout time.Duration) Result {
	if err := ctx.Err(); err != nil {
		return Result{Success: false, Error: err}
	}

	target, ip, err := resolveIP(addr)
	if err != nil {
		return Result{Success: false, Error: err}
	}

	v4, v6, err := p.start()
	if err != nil {
		return Result{Success: false, Error: err}
	}
	pg := v6
	if ip.To4() != nil {
		pg = v4
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := pg.Ping(pingCtx, target, 1, timeout)
	if err != nil {
		return Result{Success: false, Error: err}
	}
	if result.Recv == 0 {
		if ctxErr := pingCtx.Err(); ctxErr != nil {
			return Result{Success: false, Error: fmt.Errorf("ping timeout: %w", ctxErr)}
		}
		return Result{Success: false, Error: errors.New("no echo reply received")}
	}
	return Result{Success: true, RTT: result.AvgRTT}
}

// Close stops the underlying sockets.
func (p *ParallelPinger) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stop != nil {
		p.stop()
		p.stop = nil
		p.v4 = nil
		p.v6 = nil
	}
}

func (p *ParallelPinger) start() (*pinger.Pinger, *pinger.Pinger, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stop != nil {
		return p.v4, p.v6, nil
	}

	v4 := pinger.NewIPv4()
	v6 := pinger.NewIPv6()
	if p.privileged != nil {
		v4.SetPrivileged(*p.privileged)
		v6.SetPrivileged(*p.privileged)
	}

	ctx, stop := context.WithCancel(context.Background())
	if err := v4.Start(ctx); err != nil {
		if p.privileged != nil {
			stop()
			return nil, nil, fmt.Errorf("start ipv4 pinger: %w", err)
		}
		// Retry with the other socket kind, like ping(8) falling back to raw sockets.
		v4.SetPrivileged(!pinger.DEFAULT_PRIVILEGED)
		v6.SetPrivileged(!pinger.DEFAULT_PRIVILEGED)
		if err := v4.Start(ctx); err != nil {
			stop()
			return nil, nil, fmt.Errorf("start ipv4 pinger: %w", err)
		}
	}
	if err := v6.Start(ctx); err != nil {
		stop()
		return nil, nil, fmt.Errorf("start ipv6 pinger: %w", err)
	}

	p.v4, p.v6, p.stop = v4, v6, stop
	return v4, v6, nil
}
