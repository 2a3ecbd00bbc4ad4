package activity

import (
	"net/http"

	"github.com/swiftcart/swiftcart/internal/web"
)

// Audit wraps an authenticated handler and appends an audit event for
// every request that reaches it. It must sit inside the auth wrapper
// so the principal is already on the context. Recording is
// best-effort and never affects the wrapped handler.
func Audit(recorder Recorder) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if p, err := web.PrincipalFromContext(r.Context()); err == nil {
				recorder.RecordAudit(AuditEvent{
					UserID:    p.UserID,
					Action:    r.Method + " " + r.URL.Path,
					IPAddress: r.RemoteAddr,
					Details:   "role=" + p.Role(),
				})
			}
			next.ServeHTTP(w, r)
		}
	}
}
