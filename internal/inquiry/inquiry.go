// Package inquiry stores the contact-form submissions posted by visitors.
package inquiry

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var ErrMissingContact = errors.New("inquiry needs a name and an email or phone")

// Inquiry fields are stored as submitted; dates and phone numbers are not
// reformatted.
type Inquiry struct {
	ID         uuid.UUID `json:"id"`
	ParentName string    `json:"parent_name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	ChildDOB   string    `json:"child_dob"`
	Location   string    `json:"location"`
	Program    string    `json:"program"`
	Message    string    `json:"message"`
	ClientIP   string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

type Store interface {
	Create(ctx context.Context, in Inquiry) (Inquiry, error)
	List(ctx context.Context, limit int) ([]Inquiry, error)
}

const maxField = 2000

// FromForm collects the contact form fields.
func FromForm(form url.Values) (Inquiry, error) {
	field := func(name string) string {
		return truncate(strings.ToValidUTF8(strings.TrimSpace(form.Get(name)), ""), maxField)
	}
	in := Inquiry{
		ParentName: field("parent_name"),
		Email:      field("email"),
		Phone:      field("phone"),
		ChildDOB:   field("child_dob"),
		Location:   field("location"),
		Program:    field("program"),
		Message:    field("message"),
	}
	if in.ParentName == "" || (in.Email == "" && in.Phone == "") {
		return in, ErrMissingContact
	}
	return in, nil
}

// truncate cuts s to at most n bytes without splitting a character.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// Summary is the one-line admin notification for a new inquiry.
func (in Inquiry) Summary() string {
	var b strings.Builder
	b.WriteString("New inquiry from ")
	b.WriteString(in.ParentName)
	if in.Location != "" {
		b.WriteString(" for ")
		b.WriteString(in.Location)
	}
	if in.Program != "" {
		b.WriteString(" (")
		b.WriteString(in.Program)
		b.WriteString(")")
	}
	contact := in.Email
	if contact == "" {
		contact = in.Phone
	}
	b.WriteString(" - ")
	b.WriteString(contact)
	return b.String()
}
