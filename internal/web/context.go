package web

import (
	"context"
	"net"
	"net/http"

	"github.com/JonMunkholm/printvault/internal/core"
)

// WithRequestMetadata tags the context with the client address and the
// "web" source for service logging.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	ip := r.RemoteAddr // already rewritten by TrustedRealIP
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	ctx = core.ContextWithClientIP(ctx, ip)
	return core.ContextWithSource(ctx, "web")
}
