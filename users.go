package valutatrade

import (
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 4

// User is a registered user.
type User struct {
	ID               int       `json:"user_id"`
	Username         string    `json:"username"`
	HashedPassword   string    `json:"hashed_password"`
	RegistrationDate time.Time `json:"registration_date"`
}

// CheckPassword reports whether password matches the stored hash.
func (u User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password)) == nil
}

// UserRepository loads and saves the user list wholesale.
type UserRepository interface {
	Users() ([]User, error)
	SaveUsers(users []User) error
}

// Accounts manages user registration and authentication.
type Accounts struct {
	users      UserRepository
	portfolios PortfolioRepository
	logger     *slog.Logger
	now        func() time.Time
}

// NewAccounts returns an Accounts service.
func NewAccounts(users UserRepository, portfolios PortfolioRepository, logger *slog.Logger) *Accounts {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Accounts{users: users, portfolios: portfolios, logger: logger, now: time.Now}
}

// Register creates a user with an empty portfolio.
//
// The username is trimmed and must be unique. The new user's ID is one more
// than the highest existing ID.
func (a *Accounts) Register(username, password string) (User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return User{}, validationError("username cannot be empty")
	}
	if len(password) < MinPasswordLength {
		return User{}, validationError("password must be at least %d characters", MinPasswordLength)
	}
	users, err := a.users.Users()
	if err != nil {
		return User{}, err
	}
	maxID := 0
	for _, u := range users {
		if u.Username == username {
			return User{}, &Error{Kind: KindDuplicate, Reason: "username " + username + " is already taken"}
		}
		maxID = max(maxID, u.ID)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	u := User{
		ID:               maxID + 1,
		Username:         username,
		HashedPassword:   string(hash),
		RegistrationDate: Stamp(a.now()),
	}
	if err := a.users.SaveUsers(append(users, u)); err != nil {
		return User{}, err
	}
	if err := a.portfolios.SavePortfolio(NewPortfolio(u.ID)); err != nil {
		return User{}, err
	}
	a.logger.Info("register", "user", u.Username, "user_id", u.ID, "result", "OK")
	return u, nil
}

// Authenticate returns the user matching username and password.
func (a *Accounts) Authenticate(username, password string) (User, error) {
	u, err := a.ByName(strings.TrimSpace(username))
	if err != nil {
		a.logger.Error("login", "user", username, "result", "ERROR", "error", err)
		return User{}, err
	}
	if !u.CheckPassword(password) {
		err := &Error{Kind: KindUnauthenticated, Reason: "wrong password"}
		a.logger.Error("login", "user", username, "result", "ERROR", "error", err)
		return User{}, err
	}
	a.logger.Info("login", "user", u.Username, "user_id", u.ID, "result", "OK")
	return u, nil
}

// ByName returns the user called username.
func (a *Accounts) ByName(username string) (User, error) {
	return a.find(func(u User) bool { return u.Username == username }, "user "+username)
}

// ByID returns the user with id.
func (a *Accounts) ByID(id int) (User, error) {
	return a.find(func(u User) bool { return u.ID == id }, "")
}

func (a *Accounts) find(match func(User) bool, reason string) (User, error) {
	users, err := a.users.Users()
	if err != nil {
		return User{}, err
	}
	for _, u := range users {
		if match(u) {
			return u, nil
		}
	}
	return User{}, &Error{Kind: KindUserNotFound, Reason: reason}
}
