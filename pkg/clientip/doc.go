// Package clientip resolves the originating client address of a request
// served behind reverse proxies.
//
// Resolve checks proxy headers in priority order and falls back to the TCP
// peer:
//
//  1. CF-Connecting-IP
//  2. DO-Connecting-IP
//  3. X-Forwarded-For (first valid address of the chain)
//  4. X-Real-IP
//  5. RemoteAddr
//
// Headers are client-controlled unless a trusted proxy overwrites them, so
// the ambient Reader only consults them when Config.TrustProxy is set and
// otherwise reports Peer as SERVER["REMOTE_ADDR"].
package clientip
