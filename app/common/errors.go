package common

import "fmt"

type ClientSideError struct {
	Title string `json:"title"`
}

func NewClientSideError(title string) error {
	return &ClientSideError{
		title,
	}
}

func (cse *ClientSideError) Error() string {
	return cse.Title
}

func (cse *ClientSideError) Is(tgt error) bool {
	//nolint:errorlint
	_, ok := tgt.(*ClientSideError)
	return ok
}

type ValidationError struct {
	Title  string   `json:"title"`
	Errors []string `json:"errors"`
}

func NewValidationError(title string, errors []string) error {
	return &ValidationError{
		Title:  title,
		Errors: errors,
	}
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("%s, Errors: %v", ve.Title, ve.Errors)
}

type NotFoundError struct {
	Title string `json:"title"`
}

func NewNotFoundError(title string) error {
	return &NotFoundError{
		Title: title,
	}
}

func (nfe *NotFoundError) Error() string {
	return nfe.Title
}

type UnauthorizedError struct {
	Title string `json:"title"`
}

func NewUnauthorizedError(title string) error {
	return &UnauthorizedError{
		Title: title,
	}
}

func (ue *UnauthorizedError) Error() string {
	return ue.Title
}

type ForbiddenError struct {
	Title string `json:"title"`
}

func NewForbiddenError(title string) error {
	return &ForbiddenError{
		Title: title,
	}
}

func (fe *ForbiddenError) Error() string {
	return fe.Title
}

type ServerSideError struct {
	Title string `json:"title"`
}

func NewServerSideError(title string) error {
	return &ServerSideError{
		Title: title,
	}
}

func (sse *ServerSideError) Error() string {
	return sse.Title
}

type TooManyRequestsError struct {
	Title string `json:"title"`
}

func NewTooManyRequestsError(title string) error {
	return &TooManyRequestsError{
		Title: title,
	}
}

func (tmre *TooManyRequestsError) Error() string {
	return tmre.Title
}
