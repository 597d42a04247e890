package models

import "ctchen222/flaskblog/internal/validator"

// Article represents an article in the database.
type Article struct {
	ID     int64  `db:"id"`
	Author string `db:"author"`
	Title  string `db:"title"`
	Body   string `db:"body"`
}

// ArticleForm is shared by the add and edit pages.
type ArticleForm struct {
	Title string `form:"title" validate:"min=4,max=100"`
	Body  string `form:"body" validate:"min=30"`
}

func (f *ArticleForm) Validate() validator.Errors {
	return validator.Struct(f)
}
