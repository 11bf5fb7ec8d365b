package service

import (
	"strings"
	"time"

	"github.com/concreteguy/homepage/internal/config"
	"github.com/concreteguy/homepage/internal/domain"
	"github.com/concreteguy/homepage/internal/errors"
	"github.com/concreteguy/homepage/internal/logger"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(creds domain.Credentials) (domain.Session, error)
	Logout(id domain.SessionId) error
	CurrentUser(id domain.SessionId) (*domain.User, error)
	CreateUser(creds domain.Credentials, admin bool) (domain.UserId, error)
}

type AuthStorage interface {
	SaveUser(user domain.User) (domain.UserId, error)
	User(username domain.Username) (domain.User, error)
	SaveSession(session domain.Session) error
	SessionUser(id domain.SessionId) (domain.Session, domain.User, error)
	DeleteSession(id domain.SessionId) error
}

type Auth struct {
	storage AuthStorage
	cfg     *config.Public
	now     func() time.Time
}

// compared against when the username is unknown so both failure paths cost one bcrypt run
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy password"), bcrypt.DefaultCost)

func NewAuth(storage AuthStorage, cfg *config.Public) *Auth {
	return &Auth{
		storage: storage,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Login verifies the credentials and opens a new session.
// Unknown usernames and wrong passwords return the same InvalidCredentials error.
func (a *Auth) Login(creds domain.Credentials) (domain.Session, error) {
	user, err := a.storage.User(creds.Username)
	if err != nil {
		if errors.IsNotFound(err) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(creds.Password))
			return domain.Session{}, errors.InvalidCredentials
		}
		return domain.Session{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(creds.Password)); err != nil {
		logger.Log.Info("password verification failed", "user_id", user.Id)
		return domain.Session{}, errors.InvalidCredentials
	}

	now := a.now().UTC()
	session := domain.Session{
		Id:        uuid.New(),
		UserId:    user.Id,
		CreatedAt: now,
		ExpiresAt: now.Add(a.cfg.SessionTTL),
	}
	if err := a.storage.SaveSession(session); err != nil {
		logger.Log.Error("failed to save session", "user_id", user.Id, "error", err)
		return domain.Session{}, err
	}

	logger.Log.Info("user logged in", "user_id", user.Id)
	return session, nil
}

// Logout removes the session. Calling it for an unknown session is a no-op.
func (a *Auth) Logout(id domain.SessionId) error {
	if err := a.storage.DeleteSession(id); err != nil && !errors.IsNotFound(err) {
		return err
	}
	return nil
}

// CurrentUser resolves a session to its user. Missing or expired sessions
// resolve to nil without an error.
func (a *Auth) CurrentUser(id domain.SessionId) (*domain.User, error) {
	session, user, err := a.storage.SessionUser(id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if session.Expired(a.now()) {
		return nil, nil
	}
	return &user, nil
}

// CreateUser hashes the password and stores a new account.
// There is no sign-up route; this backs the create-user tool.
func (a *Auth) CreateUser(creds domain.Credentials, admin bool) (domain.UserId, error) {
	username := strings.TrimSpace(creds.Username)
	if username == "" {
		return -1, errors.ValidationError("Username is required.")
	}
	if creds.Password == "" {
		return -1, errors.ValidationError("Password is required.")
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return -1, err
	}
	return a.storage.SaveUser(domain.User{Username: username, PassHash: string(passHash), Admin: admin})
}
