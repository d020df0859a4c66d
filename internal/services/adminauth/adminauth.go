package adminauth

import (
	"crypto/subtle"
	"errors"
	"log/slog"

	"drift_inc/internal/lib/logger/sl"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Auth проверяет единственную админскую учётку из конфигурации.
// Это не пользовательская система: одна пара логин/bcrypt-хэш,
// сессия ставится на HTTP-слое.
type Auth struct {
	log          *slog.Logger
	username     string
	passwordHash []byte
}

func New(log *slog.Logger, username, passwordHash string) *Auth {
	return &Auth{
		log:          log,
		username:     username,
		passwordHash: []byte(passwordHash),
	}
}

// Login сверяет логин и пароль с настроенной учёткой
func (a *Auth) Login(username, password string) error {
	const op = "adminauth.Auth.Login"

	log := a.log.With(slog.String("op", op), slog.String("username", username))

	if subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) != 1 {
		log.Warn("unknown admin username")
		return ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)); err != nil {
		log.Warn("admin password mismatch", sl.Err(err))
		return ErrInvalidCredentials
	}

	log.Info("admin logged in")

	return nil
}
