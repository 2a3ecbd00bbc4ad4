package auth

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/swiftcart/swiftcart/internal/activity"
	"github.com/swiftcart/swiftcart/internal/config"
)

func newTestLogger(t *testing.T) *zap.Logger {
	logger, err := zap.NewDevelopment()
	assert.NoError(t, err)
	return logger
}

func newTestConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:        "test-secret-key",
		TokenExpiration:  time.Hour,
		MaxLoginFailures: 5,
		LockoutDuration:  time.Minute,
		PasswordHistory:  5,
	}
}

// capturingRecorder collects activity events synchronously for
// assertions.
type capturingRecorder struct {
	mu     sync.Mutex
	logins []activity.LoginEvent
	audits []activity.AuditEvent
}

func (r *capturingRecorder) RecordLogin(e activity.LoginEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logins = append(r.logins, e)
}

func (r *capturingRecorder) RecordAudit(e activity.AuditEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.audits = append(r.audits, e)
}

func (r *capturingRecorder) loginEvents() []activity.LoginEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]activity.LoginEvent(nil), r.logins...)
}

// channelMailer exposes deliveries for tests. Send runs on a
// goroutine in the service, so assertions read from the channel.
type channelMailer struct {
	sent chan string
}

func newChannelMailer() *channelMailer {
	return &channelMailer{sent: make(chan string, 8)}
}

func (m *channelMailer) Send(to, subject, body string) error {
	m.sent <- body
	return nil
}

func newTestService(t *testing.T) (*Service, *mockRepository, *capturingRecorder) {
	repo := newMockRepository()
	recorder := &capturingRecorder{}
	svc := NewService(newTestConfig(), newTestLogger(t), repo, recorder, newChannelMailer())
	return svc, repo, recorder
}

func registerTestUser(t *testing.T, svc *Service, email, password string) *User {
	t.Helper()
	user, err := svc.Register(RegisterInput{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  password,
	})
	assert.NoError(t, err)
	return user
}
