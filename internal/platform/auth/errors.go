package auth

import (
	"errors"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrEmailInUse         = errors.New("user already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrWeakPassword       = errors.New("password should be at least 6 characters")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
)

// userMessages maps known auth failures to the message shown to the user.
var userMessages = map[error]string{
	ErrInvalidCredentials: "E-mail ou senha incorretos",
	ErrEmailInUse:         "Este e-mail já está cadastrado",
	ErrUserNotFound:       "Usuário não encontrado",
	ErrWeakPassword:       "A senha deve ter pelo menos 6 caracteres",
	ErrEmailNotConfirmed:  "Confirme seu e-mail antes de entrar",
}

const fallbackMessage = "Ocorreu um erro. Tente novamente."

// UserMessage translates an auth error into a localized user-facing message.
// Unknown errors get a generic fallback; the original error is never shown.
func UserMessage(err error) string {
	for known, msg := range userMessages {
		if errors.Is(err, known) {
			return msg
		}
	}
	// Token failures from the jwt library all read as an expired session.
	if err != nil && strings.Contains(err.Error(), "token") {
		return "Sessão expirada. Entre novamente."
	}
	return fallbackMessage
}
