package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/concreteguy/homepage/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type loginForm struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type postForm struct {
	Title   string `validate:"required"`
	Content string `validate:"required"`
}

type messageForm struct {
	Name    string `validate:"required"`
	Email   string `validate:"required"`
	Message string `validate:"required"`
}

func parseLoginForm(r *http.Request) loginForm {
	return loginForm{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
}

func parsePostForm(r *http.Request) postForm {
	return postForm{
		Title:   r.PostFormValue("title"),
		Content: r.PostFormValue("content"),
	}
}

func parseMessageForm(r *http.Request) messageForm {
	return messageForm{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Message: r.PostFormValue("message"),
	}
}

func messageFormFrom(m domain.Message) messageForm {
	return messageForm{Name: m.Name, Email: m.Email, Message: string(m.Text)}
}

// overlay replaces the loaded values with the fields present in the
// submitted form. Fields left out of the request keep their stored value.
func (f *messageForm) overlay(r *http.Request) {
	if _, ok := r.PostForm["name"]; ok {
		f.Name = r.PostFormValue("name")
	}
	if _, ok := r.PostForm["email"]; ok {
		f.Email = r.PostFormValue("email")
	}
	if _, ok := r.PostForm["message"]; ok {
		f.Message = r.PostFormValue("message")
	}
}

// validateForm returns a user-facing message for the first failing field,
// or "" when the form is valid.
func validateForm(form any) string {
	err := validate.Struct(form)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Sprintf("%s is required.", verrs[0].Field())
	}
	return "Invalid form data."
}

func parseIntParam(param string, paramName string) (int64, error) {
	val, err := strconv.ParseInt(param, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: must be an integer", paramName)
	}
	return val, nil
}

func idParam(r *http.Request) (int64, error) {
	return parseIntParam(chi.URLParam(r, "id"), "id")
}
