package ping

import (
	"context"
	"errors"
	"net"
	"os"
	"reflect"
	"syscall"
	"testing"
	"time"
)

type stubPinger struct {
	result Result
	calls  int
	addr   string
	ctxErr error
}

func (s *stubPinger) Ping(ctx context.Context, addr string, timeout time.Duration) Result {
	s.calls++
	s.addr = addr
	if _, ok := ctx.Deadline(); !ok {
		s.ctxErr = errors.New("missing deadline")
	}
	return s.result
}

func TestResolveIPValid(t *testing.T) {
	ipAddr, ip, err := resolveIP("127.0.0.1")
	if err != nil {
		t.Fatalf("expected valid IP, got error: %v", err)
	}
	if ipAddr == nil || ip == nil {
		t.Fatalf("expected resolved IP address, got nil")
	}
	if ip.To4() == nil {
		t.Fatalf("expected IPv4 address, got %v", ip)
	}
}

func TestResolveIPInvalid(t *testing.T) {
	if _, _, err := resolveIP("invalid@@"); err == nil {
		t.Fatalf("expected error for invalid address")
	}
}

func TestICMPSettings(t *testing.T) {
	cases := []struct {
		ip         string
		privileged bool
		want       string
	}{
		{ip: "127.0.0.1", privileged: true, want: "ip4:icmp"},
		{ip: "127.0.0.1", privileged: false, want: "udp4"},
		{ip: "2001:db8::1", privileged: true, want: "ip6:ipv6-icmp"},
		{ip: "2001:db8::1", privileged: false, want: "udp6"},
	}
	for _, tc := range cases {
		network, _, _, _ := icmpSettings(net.ParseIP(tc.ip), tc.privileged)
		if network != tc.want {
			t.Fatalf("icmpSettings(%s, %v) network = %q, want %q", tc.ip, tc.privileged, network, tc.want)
		}
	}
}

func TestNewICMPPingerPrivilegeDefault(t *testing.T) {
	if p := NewICMPPinger(nil); !p.privileged {
		t.Fatalf("expected raw sockets by default")
	}
	off := false
	if p := NewICMPPinger(&off); p.privileged {
		t.Fatalf("expected datagram sockets when privileged=false")
	}
}

func TestICMPPingerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := NewICMPPinger(nil).Ping(ctx, "127.0.0.1", time.Second)
	if result.Success || result.Error == nil {
		t.Fatalf("expected failure with error for cancelled context, got %+v", result)
	}
}

func TestEffectiveDeadlineUsesContextDeadline(t *testing.T) {
	ctxDeadline := time.Now().Add(50 * time.Millisecond)
	ctx, cancel := context.WithDeadline(context.Background(), ctxDeadline)
	defer cancel()

	if deadline := effectiveDeadline(ctx, time.Second); !deadline.Equal(ctxDeadline) {
		t.Fatalf("expected context deadline %v, got %v", ctxDeadline, deadline)
	}
}

func TestEffectiveDeadlineUsesTimeout(t *testing.T) {
	start := time.Now()
	deadline := effectiveDeadline(context.Background(), 25*time.Millisecond)
	if deadline.Before(start) || deadline.After(start.Add(75*time.Millisecond)) {
		t.Fatalf("expected deadline within timeout window, got %v", deadline)
	}
}

func TestIsPermissionError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{err: nil, want: false},
		{err: os.ErrPermission, want: true},
		{err: syscall.EPERM, want: true},
		{err: syscall.EACCES, want: true},
		{err: errors.New("socket: operation not permitted"), want: true},
		{err: errors.New("permission denied"), want: true},
		{err: errors.New("other failure"), want: false},
	}

	for _, tc := range cases {
		if got := isPermissionError(tc.err); got != tc.want {
			t.Fatalf("isPermissionError(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestFallbackPingerUsesPrimaryOnSuccess(t *testing.T) {
	primary := &stubPinger{result: Result{Success: true}}
	secondary := &stubPinger{result: Result{Success: true}}
	pinger := NewFallbackPinger(primary, secondary)

	if result := pinger.Ping(context.Background(), "127.0.0.1", time.Second); !result.Success {
		t.Fatalf("expected success result")
	}
	if primary.calls != 1 || secondary.calls != 0 {
		t.Fatalf("expected primary called once and secondary not called, got %d/%d", primary.calls, secondary.calls)
	}
}

func TestFallbackPingerSticksToSecondaryAfterPermissionError(t *testing.T) {
	primary := &stubPinger{result: Result{Success: false, Error: os.ErrPermission}}
	secondary := &stubPinger{result: Result{Success: true}}
	pinger := NewFallbackPinger(primary, secondary)

	for i := 0; i < 3; i++ {
		if result := pinger.Ping(context.Background(), "127.0.0.1", time.Second); !result.Success {
			t.Fatalf("expected fallback success result")
		}
	}
	if primary.calls != 1 || secondary.calls != 3 {
		t.Fatalf("expected primary once and secondary three times, got %d/%d", primary.calls, secondary.calls)
	}
}

func TestFallbackPingerSkipsFallbackOnOtherErrors(t *testing.T) {
	primary := &stubPinger{result: Result{Success: false, Error: errors.New("network down")}}
	secondary := &stubPinger{result: Result{Success: true}}
	pinger := NewFallbackPinger(primary, secondary)

	if result := pinger.Ping(context.Background(), "127.0.0.1", time.Second); result.Success {
		t.Fatalf("expected primary error result")
	}
	if primary.calls != 1 || secondary.calls != 0 {
		t.Fatalf("expected only primary called, got %d/%d", primary.calls, secondary.calls)
	}
}

func TestPingArgs(t *testing.T) {
	cases := []struct {
		goos    string
		timeout time.Duration
		want    []string
	}{
		{goos: "linux", timeout: 1500 * time.Millisecond, want: []string{"-n", "-c", "1", "-W", "2", "example.com"}},
		{goos: "linux", timeout: 10 * time.Millisecond, want: []string{"-n", "-c", "1", "-W", "1", "example.com"}},
		{goos: "darwin", timeout: 1500 * time.Millisecond, want: []string{"-n", "-c", "1", "-W", "1500", "example.com"}},
		{goos: "darwin", timeout: 10 * time.Millisecond, want: []string{"-n", "-c", "1", "-W", "100", "example.com"}},
		{goos: "windows", timeout: 750 * time.Millisecond, want: []string{"-n", "1", "-w", "750", "example.com"}},
	}
	for _, tc := range cases {
		if got := pingArgs(tc.goos, "example.com", tc.timeout); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("pingArgs(%s, %v) = %v, want %v", tc.goos, tc.timeout, got, tc.want)
		}
	}
}

func TestParseRTT(t *testing.T) {
	cases := []struct {
		output string
		want   time.Duration
	}{
		{"64 bytes from 8.8.8.8: icmp_seq=1 ttl=58 time=12.5 ms\n", time.Duration(12.5 * float64(time.Millisecond))},
		{"64 bytes from 127.0.0.1: icmp_seq=1 ttl=64 time=0.045 ms", time.Duration(0.045 * float64(time.Millisecond))},
		{"Reply from 10.0.0.1: bytes=32 time<1ms TTL=64", time.Millisecond},
		{"Reply from 10.0.0.1: bytes=32 time=14ms TTL=117", 14 * time.Millisecond},
		{"no time information here", 0},
		{"", 0},
	}
	for _, tc := range cases {
		if got := parseRTT([]byte(tc.output)); got != tc.want {
			t.Fatalf("parseRTT(%q) = %v, want %v", tc.output, got, tc.want)
		}
	}
}

func TestExternalPingerMissingCommand(t *testing.T) {
	p := &ExternalPinger{command: "definitely-not-a-ping-binary"}
	result := p.Ping(context.Background(), "127.0.0.1", 100*time.Millisecond)
	if result.Success || result.Error == nil {
		t.Fatalf("expected failure with error, got %+v", result)
	}
}

func TestProberCollapsesFailureAndSetsDeadline(t *testing.T) {
	stub := &stubPinger{result: Result{Success: false, RTT: 5 * time.Millisecond, Error: errors.New("unreachable")}}
	prober := Prober{Pinger: stub, Target: "192.0.2.1", Timeout: 50 * time.Millisecond}

	result := prober.Probe(context.Background())
	if result.Success {
		t.Fatalf("expected failure")
	}
	if result.RTT != 0 {
		t.Fatalf("expected RTT to be cleared on failure, got %v", result.RTT)
	}
	if stub.addr != "192.0.2.1" {
		t.Fatalf("expected probe of configured target, got %q", stub.addr)
	}
	if stub.ctxErr != nil {
		t.Fatalf("expected probe context with deadline: %v", stub.ctxErr)
	}
}

func TestNewSelectsMethod(t *testing.T) {
	cases := []struct {
		method string
		want   reflect.Type
	}{
		{method: "", want: reflect.TypeOf(&FallbackPinger{})},
		{method: MethodAuto, want: reflect.TypeOf(&FallbackPinger{})},
		{method: MethodICMP, want: reflect.TypeOf(&ICMPPinger{})},
		{method: MethodExternal, want: reflect.TypeOf(&ExternalPinger{})},
		{method: MethodParallel, want: reflect.TypeOf(&ParallelPinger{})},
	}
	for _, tc := range cases {
		p, err := New(tc.method, nil)
		if err != nil {
			t.Fatalf("New(%q) error: %v", tc.method, err)
		}
		if got := reflect.TypeOf(p); got != tc.want {
			t.Fatalf("New(%q) = %v, want %v", tc.method, got, tc.want)
		}
	}
	if _, err := New("carrier-pigeon", nil); err == nil {
		t.Fatalf("expected error for unknown method")
	}
}
