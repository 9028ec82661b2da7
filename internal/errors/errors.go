package errors

import (
	"encoding/json"
)

// BusinessErr is an expected domain rule violation tied to a single field,
// answered with 400. Target tells which field broke the rule.
type BusinessErr struct {
	target  string
	message string
}

func (e *BusinessErr) Error() string {
	return e.message
}

func (e *BusinessErr) Target() string {
	return e.target
}

func (e *BusinessErr) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Target  string `json:"target"`
		Message string `json:"message"`
	}{Target: e.target, Message: e.message})
}

func NewBusinessErr(target string, msg string) *BusinessErr {
	return &BusinessErr{
		target:  target,
		message: msg,
	}
}

// NewDuplicateEmailErr reports a customer email already taken by another customer
func NewDuplicateEmailErr() *BusinessErr {
	return NewBusinessErr("email", "a customer with this email already exists")
}

// NewReferenceMissingErr reports a contact/opportunity pointing at a non-existent customer
func NewReferenceMissingErr() *BusinessErr {
	return NewBusinessErr("customerId", "customer not found")
}

// NewIDMismatchErr reports an update whose path id differs from the body id
func NewIDMismatchErr() *BusinessErr {
	return NewBusinessErr("id", "id in path does not match id in payload")
}

// EntryNotFoundErr is raised when the requested entity does not exist, answered with 404
type EntryNotFoundErr struct {
	message string
}

func (e *EntryNotFoundErr) Error() string {
	return e.message
}

func NewEntryNotFoundErr(msg string) *EntryNotFoundErr {
	return &EntryNotFoundErr{message: msg}
}

// ConflictErr is raised when a persist-time write race is detected and the
// entity still exists. It is never retried, answered with 409.
type ConflictErr struct {
	message string
}

func (e *ConflictErr) Error() string {
	return e.message
}

func NewConflictErr(msg string) *ConflictErr {
	return &ConflictErr{message: msg}
}
