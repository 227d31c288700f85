package repository

import "errors"

var (
	// ErrDuplicateURL is returned by ArticleRepository.Create when the URL unique constraint rejects the insert.
	ErrDuplicateURL = errors.New("article url already exists")

	// ErrDuplicateEmail is returned by UserRepository.Create when the email is taken.
	ErrDuplicateEmail = errors.New("email already exists")
)
