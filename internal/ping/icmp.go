package ping

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

const echoData = "uptime-go"

// ICMPPinger sends ICMP echo requests with golang.org/x/net/icmp.
// Privileged mode uses raw sockets; otherwise datagram ping sockets are used,
// where the kernel rewrites the echo identifier.
type ICMPPinger struct {
	id         int
	seq        uint32
	privileged bool
}

// NewICMPPinger initializes a pinger with a process-scoped identifier.
// Raw sockets are used unless privileged is explicitly false.
func NewICMPPinger(privileged *bool) *ICMPPinger {
	p := &ICMPPinger{id: os.Getpid() & 0xffff, privileged: true}
	if privileged != nil {
		p.privileged = *privileged
	}
	return p
}

// Ping sends one ICMP echo request and waits for the matching reply.
func (p *ICMPPinger) Ping(ctx context.Context, addr string, timeout time.Duration) Result {
	if err := ctx.Err(); err != nil {
		return Result{Success: false, Error: err}
	}

	ipAddr, ip, err := resolveIP(addr)
	if err != nil {
		return Result{Success: false, Error: err}
	}

	network, protocol, requestType, replyType := icmpSettings(ip, p.privileged)
	conn, err := icmp.ListenPacket(network, "")
	if err != nil {
		return Result{Success: false, Error: err}
	}
	defer conn.Close()

	seq := int(atomic.AddUint32(&p.seq, 1) & 0xffff)
	msg := icmp.Message{
		Type: requestType,
		Code: 0,
		Body: &icmp.Echo{
			ID:   p.id,
			Seq:  seq,
			Data: []byte(echoData),
		},
	}

	payload, err := msg.Marshal(nil)
	if err != nil {
		return Result{Success: false, Error: err}
	}

	if err := conn.SetDeadline(effectiveDeadline(ctx, timeout)); err != nil {
		return Result{Success: false, Error: err}
	}

	var dst net.Addr = ipAddr
	if !p.privileged {
		dst = &net.UDPAddr{IP: ip, Zone: ipAddr.Zone}
	}

	start := time.Now()
	if _, err := conn.WriteTo(payload, dst); err != nil {
		return Result{Success: false, Error: err}
	}

	buf := make([]byte, 1500)
	for {
		if err := ctx.Err(); err != nil {
			return Result{Success: false, Error: err}
		}

		n, peer, err := conn.ReadFrom(buf)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				return Result{Success: false, Error: fmt.Errorf("ping timeout: %w", err)}
			}
			return Result{Success: false, Error: err}
		}
		if peer == nil {
			continue
		}

		reply, err := icmp.ParseMessage(protocol, buf[:n])
		if err != nil || reply.Type != replyType {
			continue
		}
		body, ok := reply.Body.(*icmp.Echo)
		if !ok || body.Seq != seq {
			continue
		}
		if p.privileged && body.ID != p.id {
			continue
		}

		return Result{Success: true, RTT: time.Since(start)}
	}
}

func resolveIP(addr string) (*net.IPAddr, net.IP, error) {
	ipAddr, err := net.ResolveIPAddr("ip", addr)
	if err != nil {
		return nil, nil, err
	}
	if ipAddr.IP == nil {
		return nil, nil, fmt.Errorf("invalid IP address: %s", addr)
	}
	return ipAddr, ipAddr.IP, nil
}

func icmpSettings(ip net.IP, privileged bool) (network string, protocol int, requestType icmp.Type, replyType icmp.Type) {
	if ip.To4() != nil {
		network = "udp4"
		if privileged {
			network = "ip4:icmp"
		}
		return network, ipv4.ICMPTypeEcho.Protocol(), ipv4.ICMPTypeEcho, ipv4.ICMPTypeEchoReply
	}
	network = "udp6"
	if privileged {
		network = "ip6:ipv6-icmp"
	}
	return network, ipv6.ICMPTypeEchoRequest.Protocol(), ipv6.ICMPTypeEchoRequest, ipv6.ICMPTypeEchoReply
}

func effectiveDeadline(ctx context.Context, timeout time.Duration) time.Time {
	deadline := time.Now().Add(timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		return ctxDeadline
	}
	return deadline
}
