package valutatrade

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const sessionIssuer = "vtrade"

// Session is the login state of the command line, kept between invocations.
type Session struct {
	UserID     int       `json:"user_id"`
	Username   string    `json:"username"`
	LoggedInAt time.Time `json:"logged_in_at"`
	Token      string    `json:"token"`
}

// SessionRepository persists the single open session.
type SessionRepository interface {
	ReadSession() (*Session, error)
	WriteSession(s Session) error
	ClearSession() error
}

// Sessions opens and checks sessions. A session carries a signed token, so
// an edited session file is rejected.
type Sessions struct {
	store    SessionRepository
	accounts *Accounts
	secret   []byte
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewSessions returns a session manager signing tokens with secret. Tokens
// expire after ttl.
func NewSessions(store SessionRepository, accounts *Accounts, secret string, ttl time.Duration, logger *slog.Logger) *Sessions {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Sessions{store: store, accounts: accounts, secret: []byte(secret), ttl: ttl, logger: logger, now: time.Now}
}

// Login authenticates the user and opens a session, replacing any previous one.
func (s *Sessions) Login(username, password string) (User, error) {
	u, err := s.accounts.Authenticate(username, password)
	if err != nil {
		return User{}, err
	}
	now := s.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    sessionIssuer,
		Subject:   strconv.Itoa(u.ID),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return User{}, err
	}
	sess := Session{UserID: u.ID, Username: u.Username, LoggedInAt: Stamp(now), Token: token}
	if err := s.store.WriteSession(sess); err != nil {
		return User{}, err
	}
	return u, nil
}

// Logout closes the open session, if any.
func (s *Sessions) Logout() error {
	sess, err := s.store.ReadSession()
	if err != nil {
		return err
	}
	if sess != nil {
		s.logger.Info("logout", "user", sess.Username, "user_id", sess.UserID, "result", "OK")
	}
	return s.store.ClearSession()
}

// CurrentUser returns the user of the open session.
//
// It fails with KindUnauthenticated if there is no session, if its token is
// invalid or expired, or if its user no longer exists.
func (s *Sessions) CurrentUser() (User, error) {
	sess, err := s.store.ReadSession()
	if err != nil {
		return User{}, err
	}
	if sess == nil {
		return User{}, &Error{Kind: KindUnauthenticated, Reason: "log in first"}
	}
	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(sess.Token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return User{}, &Error{Kind: KindUnauthenticated, Reason: "session is no longer valid, log in again", Err: err}
	}
	if claims.Subject != strconv.Itoa(sess.UserID) {
		return User{}, &Error{Kind: KindUnauthenticated, Reason: "session does not match its token, log in again"}
	}
	u, err := s.accounts.ByID(sess.UserID)
	if err != nil {
		return User{}, &Error{Kind: KindUnauthenticated, Reason: "session user no longer exists", Err: err}
	}
	return u, nil
}
