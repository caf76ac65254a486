package services

import (
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrValidation — некорректные входные данные.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials — неверное имя пользователя или пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated — сессия отсутствует, истекла или отозвана.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// validationError создает ошибку валидации с сообщением для пользователя
func validationError(message string) error {
	return errors.WithHint(errors.Wrap(ErrValidation, message), message)
}

// notFoundError создает ошибку отсутствия записи с сообщением для пользователя
func notFoundError(entity string, id uint) error {
	return errors.WithHint(
		errors.Wrapf(ErrNotFound, "%s %d", entity, id),
		entity+" not found",
	)
}

// UserMessage возвращает сообщение, которое можно показать пользователю,
// или fallback, если у ошибки нет подсказки.
func UserMessage(err error, fallback string) string {
	for _, hint := range errors.GetAllHints(err) {
		if hint = strings.TrimSpace(hint); hint != "" {
			return hint
		}
	}
	return fallback
}
