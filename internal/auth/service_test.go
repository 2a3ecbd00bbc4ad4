package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testPassword = "Str0ng@Pass"

var testRequest = RequestInfo{Endpoint: "/api/user/login", Details: "{}"}

func TestService_Register(t *testing.T) {
	t.Run("creates user with hashed password", func(t *testing.T) {
		svc, repo, _ := newTestService(t)

		user := registerTestUser(t, svc, "alice@example.com", testPassword)

		assert.NotZero(t, user.ID)
		assert.NotEqual(t, testPassword, user.PasswordHash)
		assert.True(t, svc.CheckPasswordHash(testPassword, user.PasswordHash))

		stored, err := repo.GetUserByEmail("alice@example.com")
		assert.NoError(t, err)
		assert.Equal(t, user.ID, stored.ID)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		registerTestUser(t, svc, "alice@example.com", testPassword)

		_, err := svc.Register(RegisterInput{
			FirstName: "Other",
			LastName:  "User",
			Email:     "alice@example.com",
			Password:  testPassword,
		})
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("rejects weak password", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.Register(RegisterInput{
			FirstName: "Alice",
			LastName:  "User",
			Email:     "alice@example.com",
			Password:  "short",
		})
		assert.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("generates and mails a password when omitted", func(t *testing.T) {
		repo := newMockRepository()
		mailer := newChannelMailer()
		svc := NewService(newTestConfig(), newTestLogger(t), repo, &capturingRecorder{}, mailer)

		user, err := svc.Register(RegisterInput{
			FirstName: "Alice",
			LastName:  "User",
			Email:     "alice@example.com",
		})
		assert.NoError(t, err)

		select {
		case body := <-mailer.sent:
			assert.Contains(t, body, "temporary password")
		case <-time.After(2 * time.Second):
			t.Fatal("expected a registration mail")
		}
		assert.NotEmpty(t, user.PasswordHash)
	})
}

func TestService_Login_Success(t *testing.T) {
	svc, _, recorder := newTestService(t)
	registerTestUser(t, svc, "alice@example.com", testPassword)

	token, user, err := svc.Login("alice@example.com", testPassword, testRequest)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice@example.com", user.Email)

	claims, err := svc.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	events := recorder.loginEvents()
	assert.NotEmpty(t, events)
	assert.True(t, events[len(events)-1].Success)
}

func TestService_Login_UnknownUser(t *testing.T) {
	svc, _, recorder := newTestService(t)

	_, _, err := svc.Login("ghost@example.com", testPassword, testRequest)
	assert.ErrorIs(t, err, ErrUserNotFound)

	events := recorder.loginEvents()
	assert.Len(t, events, 1)
	assert.False(t, events[0].Success)
	assert.Equal(t, "User not found", events[0].Message)
}

func TestService_Login_LockoutSequence(t *testing.T) {
	svc, repo, recorder := newTestService(t)
	registerTestUser(t, svc, "alice@example.com", testPassword)

	// Four failures count down the remaining attempts.
	for i := 1; i <= 4; i++ {
		_, _, err := svc.Login("alice@example.com", "Wr0ng@Pass1", testRequest)
		var invalid *InvalidCredentialsError
		assert.ErrorAs(t, err, &invalid)
		assert.Equal(t, 5-i, invalid.RemainingAttempts)
		assert.False(t, invalid.LockImposed)
	}

	// The fifth failure imposes the lock and resets the counter.
	_, _, err := svc.Login("alice@example.com", "Wr0ng@Pass1", testRequest)
	var invalid *InvalidCredentialsError
	assert.ErrorAs(t, err, &invalid)
	assert.True(t, invalid.LockImposed)

	user, err := repo.GetUserByEmail("alice@example.com")
	assert.NoError(t, err)
	assert.Zero(t, user.FailedLoginAttempts)
	assert.NotNil(t, user.LockedUntil)

	// While locked even the correct password is rejected, and the
	// stored state does not change.
	_, _, err = svc.Login("alice@example.com", testPassword, testRequest)
	var locked *AccountLockedError
	assert.ErrorAs(t, err, &locked)
	assert.Greater(t, locked.RetryAfterSeconds, 0)
	assert.LessOrEqual(t, locked.RetryAfterSeconds, 60)

	after, err := repo.GetUserByEmail("alice@example.com")
	assert.NoError(t, err)
	assert.Zero(t, after.FailedLoginAttempts)
	assert.Equal(t, user.LockedUntil.Unix(), after.LockedUntil.Unix())

	// Every attempt left a trace.
	assert.Len(t, recorder.loginEvents(), 6)
}

func TestService_Login_ExpiredLock(t *testing.T) {
	svc, repo, _ := newTestService(t)
	user := registerTestUser(t, svc, "alice@example.com", testPassword)

	past := time.Now().Add(-time.Second)
	user.LockedUntil = &past
	assert.NoError(t, repo.SaveLoginState(user))

	// An expired lock no longer gates the attempt; a successful
	// login clears the stale lock.
	token, _, err := svc.Login("alice@example.com", testPassword, testRequest)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	stored, err := repo.GetUserByEmail("alice@example.com")
	assert.NoError(t, err)
	assert.Nil(t, stored.LockedUntil)
}

func TestService_Login_SuccessResetsCounter(t *testing.T) {
	svc, repo, _ := newTestService(t)
	registerTestUser(t, svc, "alice@example.com", testPassword)

	for i := 0; i < 3; i++ {
		_, _, err := svc.Login("alice@example.com", "Wr0ng@Pass1", testRequest)
		assert.Error(t, err)
	}

	_, _, err := svc.Login("alice@example.com", testPassword, testRequest)
	assert.NoError(t, err)

	stored, err := repo.GetUserByEmail("alice@example.com")
	assert.NoError(t, err)
	assert.Zero(t, stored.FailedLoginAttempts)
	assert.Nil(t, stored.LockedUntil)
}

func TestService_ChangePassword(t *testing.T) {
	t.Run("rejects wrong current password", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		user := registerTestUser(t, svc, "alice@example.com", testPassword)

		err := svc.ChangePassword(user.ID, "Wr0ng@Pass1", "N3w@Passwd")
		assert.ErrorIs(t, err, ErrWrongPassword)
	})

	t.Run("rejects weak replacement", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		user := registerTestUser(t, svc, "alice@example.com", testPassword)

		err := svc.ChangePassword(user.ID, testPassword, "weak")
		assert.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("rejects reuse of a recent password", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		user := registerTestUser(t, svc, "alice@example.com", testPassword)

		assert.NoError(t, svc.ChangePassword(user.ID, testPassword, "N3w@Passwd"))

		// The original password now sits in history.
		err := svc.ChangePassword(user.ID, "N3w@Passwd", testPassword)
		assert.ErrorIs(t, err, ErrPasswordReused)
	})

	t.Run("accepts a password evicted from history", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		user := registerTestUser(t, svc, "alice@example.com", testPassword)

		passwords := []string{
			"R0tate@One1", "R0tate@Two2", "R0tate@Thr3",
			"R0tate@Fou4", "R0tate@Fiv5", "R0tate@Six6",
		}
		current := testPassword
		for _, next := range passwords {
			assert.NoError(t, svc.ChangePassword(user.ID, current, next))
			current = next
		}

		// Six rotations pushed the original hash out of the
		// five-entry history, so it may be used again.
		assert.NoError(t, svc.ChangePassword(user.ID, current, testPassword))
	})

	t.Run("rotation updates the stored hash", func(t *testing.T) {
		svc, repo, _ := newTestService(t)
		user := registerTestUser(t, svc, "alice@example.com", testPassword)

		assert.NoError(t, svc.ChangePassword(user.ID, testPassword, "N3w@Passwd"))

		stored, err := repo.GetUserByID(user.ID)
		assert.NoError(t, err)
		assert.True(t, svc.CheckPasswordHash("N3w@Passwd", stored.PasswordHash))
		assert.False(t, svc.CheckPasswordHash(testPassword, stored.PasswordHash))
	})
}
