package services

import "errors"

// ErrNotFound covers both a record that does not exist and one owned by
// another teacher. The two cases map to a single user-facing message so a
// teacher cannot probe for other teachers' resources.
var (
	ErrNotFound         = errors.New("record not found or not owned by requester")
	ErrQuestionNotFound = errors.New("question not found in quiz")
	ErrBlankTitle       = errors.New("title must not be blank")
	ErrInvalidLogin     = errors.New("invalid email or password")
)
