package apperrors

import "errors"

// Ошибки уровня бизнес-логики. Обработчики HTTP переводят их в
// стабильные коды ответов; дальше границы API они не распространяются.
var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyClaimed   = errors.New("invite code already claimed")
	ErrValidation       = errors.New("validation error")
	ErrPermissionDenied = errors.New("permission denied")
)
