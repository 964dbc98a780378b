/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package network

import (
	"context"
	"net"
	"time"

	libdns "github.com/miekg/dns"

	liberr "github.com/nabbar/golib/errors"
	libedp "github.com/sabouaram/goaio/endpoint"
)

// DefaultDNSServer is the fallback transport target when the system
// resolver path fails and no server is configured.
const DefaultDNSServer = "8.8.8.8:53"

// NameToAddr resolves a host name into endpoints carrying the given port.
//
// Literal addresses short-circuit. The system resolver runs first (the
// getaddrinfo analogue); on failure a direct DNS query is sent to the given
// server (the gethostbyname fallback), DefaultDNSServer when empty.
func NameToAddr(ctx context.Context, host string, port uint16, server string) ([]libedp.Endpoint, liberr.Error) {
	if host == "" {
		return nil, ErrorParamEmpty.Error(nil)
	}

	if e := libedp.ParseIP(host, port); e.Kind() != libedp.KindUnspec {
		return []libedp.Endpoint{e}, nil
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if ips, err := net.DefaultResolver.LookupIP(ctx, "ip", host); err == nil && len(ips) > 0 {
		res := make([]libedp.Endpoint, 0, len(ips))

		for _, ip := range ips {
			if e := libedp.ParseIP(ip.String(), port); e.Kind() != libedp.KindUnspec {
				res = append(res, e)
			}
		}

		if len(res) > 0 {
			return res, nil
		}
	}

	return queryDNS(ctx, host, port, server)
}

// AddrToName resolves an endpoint back to host names through the system
// resolver.
func AddrToName(ctx context.Context, e libedp.Endpoint) ([]string, liberr.Error) {
	if e.Kind() == libedp.KindUnspec {
		return nil, ErrorParamEmpty.Error(nil)
	}

	if ctx == nil {
		ctx = context.Background()
	}

	nms, err := net.DefaultResolver.LookupAddr(ctx, e.IP().String())
	if err != nil {
		return nil, ErrorLookupFailed.Error(err)
	}

	return nms, nil
}

// queryDNS sends direct A and AAAA queries to the server.
func queryDNS(ctx context.Context, host string, port uint16, server string) ([]libedp.Endpoint, liberr.Error) {
	if server == "" {
		server = DefaultDNSServer
	}

	cli := &libdns.Client{
		Timeout: 5 * time.Second,
	}

	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 && d < cli.Timeout {
			cli.Timeout = d
		}
	}

	var res []libedp.Endpoint

	for _, typ := range []uint16{libdns.TypeA, libdns.TypeAAAA} {
		msg := new(libdns.Msg)
		msg.SetQuestion(libdns.Fqdn(host), typ)

		rsp, _, err := cli.ExchangeContext(ctx, msg, server)
		if err != nil || rsp == nil {
			continue
		}

		for _, ans := range rsp.Answer {
			switch v := ans.(type) {
			case *libdns.A:
				if e := libedp.ParseIP(v.A.String(), port); e.Kind() == libedp.KindIPv4 {
					res = append(res, e)
				}
			case *libdns.AAAA:
				if e := libedp.ParseIP(v.AAAA.String(), port); e.Kind() == libedp.KindIPv6 {
					res = append(res, e)
				}
			}
		}
	}

	if len(res) == 0 {
		return nil, ErrorLookupFailed.Error(nil)
	}

	return res, nil
}
