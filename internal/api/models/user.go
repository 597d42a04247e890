package models

import "ctchen222/flaskblog/internal/validator"

// User represents a user in the database.
type User struct {
	ID           int64  `db:"id"`
	Name         string `db:"name"`
	Username     string `db:"username"`
	Email        string `db:"email"`
	PasswordHash string `db:"password"`
}

// RegistrationForm is the sign-up form.
type RegistrationForm struct {
	Name     string `form:"name" validate:"min=1,max=100"`
	Username string `form:"username" validate:"min=4,max=25"`
	Email    string `form:"email" validate:"min=6,max=50"`
	Password string `form:"password" validate:"required,min=6,max=50,eqfield=Confirm"`
	Confirm  string `form:"confirm"`
}

func (f *RegistrationForm) Validate() validator.Errors {
	return validator.Struct(f)
}

func (f *RegistrationForm) Messages() map[string]string {
	return map[string]string{
		"password.eqfield": "Password does not match",
	}
}

// LoginForm carries the submitted credentials. It has no constraints; an
// empty username simply matches no user.
type LoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}
