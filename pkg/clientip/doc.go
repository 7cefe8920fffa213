// Package clientip extracts the client IP address of HTTP requests served
// behind proxies, load balancers or CDNs.
//
// Headers are checked in this order, and the first one holding a valid
// address wins:
//  1. CF-Connecting-IP (Cloudflare)
//  2. DO-Connecting-IP (DigitalOcean)
//  3. X-Forwarded-For (leftmost entry)
//  4. X-Real-IP
//  5. RemoteAddr
//
// Addresses are normalized with net.IP.String, so IPv4-mapped and
// compressed IPv6 forms compare equal. The unspecified address 0.0.0.0 is
// never returned from a header.
//
//	ip := clientip.GetIP(r)
//	log.InfoContext(ctx, "login attempt", slog.String("ip", ip))
//
// Proxy headers are trusted as-is. Only deploy behind proxies that
// overwrite them.
package clientip
