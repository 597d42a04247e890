package models

import "ctchen222/flaskblog/internal/validator"

// Form is implemented by every submitted form that carries field constraints.
type Form interface {
	Validate() validator.Errors
}

var (
	_ Form = (*RegistrationForm)(nil)
	_ Form = (*ArticleForm)(nil)
)
