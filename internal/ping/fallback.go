package ping

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync/atomic"
	"syscall"
	"time"
)

// FallbackPinger delegates to primary, then secondary when permission errors occur.
// Once a permission error is seen the primary is skipped for the rest of the run.
type FallbackPinger struct {
	primary   Pinger
	secondary Pinger
	denied    atomic.Bool
}

// NewFallbackPinger wraps primary with a secondary fallback.
func NewFallbackPinger(primary, secondary Pinger) *FallbackPinger {
	return &FallbackPinger{primary: primary, secondary: secondary}
}

// Ping uses the primary pinger and falls back on permission-related errors.
func (p *FallbackPinger) Ping(ctx context.Context, addr string, timeout time.Duration) Result {
	if p.denied.Load() {
		return p.secondary.Ping(ctx, addr, timeout)
	}
	result := p.primary.Ping(ctx, addr, timeout)
	if result.Success || !isPermissionError(result.Error) {
		return result
	}
	p.denied.Store(true)
	return p.secondary.Ping(ctx, addr, timeout)
}

func isPermissionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, os.ErrPermission) || errors.Is(err, syscall.EPERM) || errors.Is(err, syscall.EACCES) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "operation not permitted") || strings.Contains(msg, "permission denied")
}
