package auth

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/swiftcart/swiftcart/internal/activity"
	"github.com/swiftcart/swiftcart/internal/config"
	"github.com/swiftcart/swiftcart/internal/mail"
)

const (
	defaultMaxLoginFailures = 5
	defaultLockoutDuration  = time.Minute
	defaultPasswordHistory  = 5
	defaultTokenExpiration  = 6 * time.Hour
)

type Service struct {
	config     *config.AuthConfig
	log        *zap.Logger
	repository Repository
	recorder   activity.Recorder
	mailer     mail.Sender
}

type Claims struct {
	UserID uint   `json:"uid"`
	Email  string `json:"email"`
	Admin  bool   `json:"admin"`
	jwt.RegisteredClaims
}

// RequestInfo carries the transport context that login activity
// records are stamped with. Details must already be redacted; it is
// stored verbatim.
type RequestInfo struct {
	Endpoint string
	Details  string
}

func NewService(config *config.AuthConfig, log *zap.Logger, repo Repository, recorder activity.Recorder, mailer mail.Sender) *Service {
	return &Service{
		config:     config,
		log:        log,
		repository: repo,
		recorder:   recorder,
		mailer:     mailer,
	}
}

func (s *Service) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func (s *Service) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func (s *Service) GenerateToken(user *User) (string, error) {
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Admin:  user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenExpiration())),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.JWTSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Image     string
}

// Register creates a credential record. When the password is omitted a
// random one satisfying the policy is generated and mailed to the new
// account, fire-and-forget.
func (s *Service) Register(in RegisterInput) (*User, error) {
	password := in.Password
	generated := false
	if password == "" {
		p, err := GeneratePassword()
		if err != nil {
			return nil, err
		}
		password = p
		generated = true
	}

	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	if _, err := s.repository.GetUserByEmail(in.Email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
		Image:        in.Image,
	}
	if err := s.repository.CreateUser(user); err != nil {
		return nil, err
	}

	if generated {
		go s.sendTemporaryPassword(user, password)
	}

	return user, nil
}

func (s *Service) sendTemporaryPassword(user *User, password string) {
	body := fmt.Sprintf(
		"<h2>Hello %s,</h2>"+
			"<p>Your account has been created successfully. Here is your temporary password: <strong>%s</strong></p>"+
			"<p>Please use this password to log in and update it after logging in.</p>",
		user.FirstName, password)

	if err := s.mailer.Send(user.Email, "Account Verification & Password", body); err != nil {
		s.log.Warn("failed to send registration mail",
			zap.String("email", user.Email),
			zap.Error(err))
	}
}

// Login evaluates a login attempt against the lockout policy.
//
// A lock that has not expired rejects the attempt without mutating the
// record. A failed comparison increments the attempt counter and, on
// crossing the threshold, imposes a fresh lock and zeroes the counter.
// A successful comparison zeroes the counter and clears the lock.
// The mutated counters are persisted before the decision is returned;
// the activity record for each branch is best-effort.
func (s *Service) Login(email, password string, req RequestInfo) (string, *User, error) {
	user, err := s.repository.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.HashPassword("dummy") // Prevent timing attacks
			s.recordLogin(email, "user", false, "User not found", req)
			return "", nil, ErrUserNotFound
		}
		return "", nil, err
	}

	now := time.Now()
	if user.Locked(now) {
		retry := int(math.Ceil(user.LockedUntil.Sub(now).Seconds()))
		s.recordLogin(user.Email, user.Role(), false,
			"Account is locked due to too many failed login attempts. Please try again later.", req)
		return "", nil, &AccountLockedError{RetryAfterSeconds: retry}
	}

	if !s.CheckPasswordHash(password, user.PasswordHash) {
		user.FailedLoginAttempts++
		lockImposed := false
		if user.FailedLoginAttempts >= s.maxLoginFailures() {
			until := now.Add(s.lockoutDuration())
			user.LockedUntil = &until
			user.FailedLoginAttempts = 0
			lockImposed = true
		}

		// Counter writes are last-writer-wins; concurrent failures
		// can shift the lock boundary by at most one attempt.
		if err := s.repository.SaveLoginState(user); err != nil {
			s.log.Error("failed to persist login attempts", zap.Error(err))
			return "", nil, fmt.Errorf("failed to persist login attempts: %w", err)
		}

		s.recordLogin(user.Email, user.Role(), false, "Incorrect password.", req)
		return "", nil, &InvalidCredentialsError{
			RemainingAttempts: s.maxLoginFailures() - user.FailedLoginAttempts,
			LockImposed:       lockImposed,
		}
	}

	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	if err := s.repository.SaveLoginState(user); err != nil {
		s.log.Error("failed to reset login attempts", zap.Error(err))
		return "", nil, fmt.Errorf("failed to reset login attempts: %w", err)
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return "", nil, err
	}

	s.recordLogin(user.Email, user.Role(), true, "Login successful", req)
	return token, user, nil
}

// ChangePassword rotates the user's password. The current hash moves
// into history (bounded FIFO) and the new password must not match any
// surviving history entry.
func (s *Service) ChangePassword(userID uint, currentPassword, newPassword string) error {
	user, err := s.repository.GetUserByID(userID)
	if err != nil {
		return err
	}

	if !s.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return ErrWrongPassword
	}

	history, err := s.repository.GetPasswordHistory(userID, s.passwordHistory())
	if err != nil {
		return err
	}
	for _, entry := range history {
		if s.CheckPasswordHash(newPassword, entry.Hash) {
			return ErrPasswordReused
		}
	}

	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.repository.RotatePassword(user, hash, s.passwordHistory())
}

type ProfileUpdate struct {
	FirstName string
	LastName  string
	Email     string
	Image     string
}

func (s *Service) UpdateProfile(userID uint, in ProfileUpdate) (*User, error) {
	user, err := s.repository.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if in.FirstName != "" {
		user.FirstName = in.FirstName
	}
	if in.LastName != "" {
		user.LastName = in.LastName
	}
	if in.Email != "" && in.Email != user.Email {
		if _, err := s.repository.GetUserByEmail(in.Email); err == nil {
			return nil, ErrUserExists
		} else if !errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		user.Email = in.Email
	}
	if in.Image != "" {
		user.Image = in.Image
	}

	if err := s.repository.UpdateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) GetProfile(userID uint) (*User, error) {
	return s.repository.GetUserByID(userID)
}

func (s *Service) ListUsers() ([]User, error) {
	return s.repository.ListUsers()
}

func (s *Service) recordLogin(email, role string, success bool, message string, req RequestInfo) {
	s.recorder.RecordLogin(activity.LoginEvent{
		Email:          email,
		Role:           role,
		Success:        success,
		Message:        message,
		Endpoint:       req.Endpoint,
		RequestDetails: req.Details,
	})
}

func (s *Service) maxLoginFailures() int {
	if s.config.MaxLoginFailures > 0 {
		return s.config.MaxLoginFailures
	}
	return defaultMaxLoginFailures
}

func (s *Service) lockoutDuration() time.Duration {
	if s.config.LockoutDuration > 0 {
		return s.config.LockoutDuration
	}
	return defaultLockoutDuration
}

func (s *Service) passwordHistory() int {
	if s.config.PasswordHistory > 0 {
		return s.config.PasswordHistory
	}
	return defaultPasswordHistory
}

func (s *Service) tokenExpiration() time.Duration {
	if s.config.TokenExpiration > 0 {
		return s.config.TokenExpiration
	}
	return defaultTokenExpiration
}
