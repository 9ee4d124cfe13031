package booking

import "fmt"

// PMS failure codes.
const (
	CodePmsTimeout     = "pmsTimeout"
	CodePmsUnavailable = "pmsUnavailable"
	CodePmsRejected    = "pmsRejected"
)

// PmsError is a structured failure from the booking API.
type PmsError struct {
	Code    string
	Message string
}

func (e *PmsError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewPmsError(code, msg string) error {
	return &PmsError{Code: code, Message: msg}
}

// ValidationError reports a bad slot value. It is recovered locally by
// re-prompting the same slot.
type ValidationError struct {
	Slot    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Slot, e.Message)
}
