package validation_test

import (
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"

	"github.com/pratsy91/todo-backend/pkg/validation"
)

type signup struct {
	Name     string  `json:"name" binding:"required,notblank"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,pwd"`
	Text     *string `json:"text" binding:"omitempty,notblank"`
}

func TestIsEmail(t *testing.T) {
	for _, s := range []string{"a@example.com", "first.last+tag@sub.example.org"} {
		if !validation.IsEmail(s) {
			t.Fatalf("expected %q to be valid", s)
		}
	}
	for _, s := range []string{"", "plain", "a@", "@example.com"} {
		if validation.IsEmail(s) {
			t.Fatalf("expected %q to be invalid", s)
		}
	}
}

func TestIsBlank(t *testing.T) {
	if !validation.IsBlank("  \t\n") || !validation.IsBlank("") {
		t.Fatal("expected whitespace to be blank")
	}
	if validation.IsBlank(" x ") {
		t.Fatal("expected text not to be blank")
	}
}

func TestToDetails_FieldErrors(t *testing.T) {
	validation.Init()
	blank := "   "
	err := binding.Validator.ValidateStruct(&signup{Name: "  ", Email: "nope", Password: "12345", Text: &blank})
	if err == nil {
		t.Fatal("expected validation error")
	}

	details := validation.ToDetails(err)
	want := map[string]string{
		"name":     "must not be blank",
		"email":    "must be a valid email",
		"password": "must be at least 6 characters long",
		"text":     "must not be blank",
	}
	for field, msg := range want {
		if details[field] != msg {
			t.Fatalf("%s: expected %q, got %q (all: %v)", field, msg, details[field], details)
		}
	}
}

func TestToDetails_PasswordTooLong(t *testing.T) {
	validation.Init()
	err := binding.Validator.ValidateStruct(&signup{Name: "Ann", Email: "ann@example.com", Password: strings.Repeat("x", 73)})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if got := validation.ToDetails(err)["password"]; got != "must be at most 72 characters long" {
		t.Fatalf("unexpected password detail %q", got)
	}
	if err := binding.Validator.ValidateStruct(&signup{Name: "Ann", Email: "ann@example.com", Password: strings.Repeat("x", 72)}); err != nil {
		t.Fatalf("expected 72-character password to pass, got %v", err)
	}
}

func TestToDetails_Valid(t *testing.T) {
	validation.Init()
	err := binding.Validator.ValidateStruct(&signup{Name: "Ann", Email: "ann@example.com", Password: "123456"})
	if err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}
	if validation.ToDetails(nil) != nil {
		t.Fatal("expected nil details for nil error")
	}
}

func TestToDetails_Payload(t *testing.T) {
	var v map[string]any
	syntaxErr := json.Unmarshal([]byte("{"), &v)
	if got := validation.ToDetails(syntaxErr)["payload"]; got != "invalid json" {
		t.Fatalf("expected invalid json, got %q", got)
	}
	if got := validation.ToDetails(io.EOF)["payload"]; got != "empty body" {
		t.Fatalf("expected empty body, got %q", got)
	}
}
