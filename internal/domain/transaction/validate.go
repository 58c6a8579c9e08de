package transaction

import (
	"errors"
	"strings"
	"time"
)

// ValidationError is recoverable: the message is surfaced to the caller as-is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

const dateLayout = "2006-01-02"

func ValidAmount(amount float64) bool {
	return amount > 0
}

func ValidType(ttype string) bool {
	return ttype == TypeIncome || ttype == TypeExpense
}

func ValidDate(date string) bool {
	_, err := time.Parse(dateLayout, date)
	return err == nil
}

// checkFields validates the shared create/update payload shape. Direction is
// carried by the type discriminator, so the amount must be strictly positive.
func checkFields(date string, amount float64, category, ttype string) error {
	if !ValidDate(date) {
		return &ValidationError{Message: "Invalid date format. Use YYYY-MM-DD."}
	}

	if !ValidAmount(amount) {
		return &ValidationError{Message: "Amount must be greater than zero."}
	}

	if !ValidType(ttype) {
		return &ValidationError{Message: "Type must be 'income' or 'expense'."}
	}

	if strings.TrimSpace(category) == "" {
		return &ValidationError{Message: "Category is required."}
	}

	return nil
}

func (r CreateRequest) Validate() error {
	return checkFields(r.Date, r.Amount, r.Category, r.Type)
}

func (r UpdateRequest) Validate() error {
	return checkFields(r.Date, r.Amount, r.Category, r.Type)
}

// Normalize trims the category in place after a successful Validate.
func (r *CreateRequest) Normalize() {
	r.Category = strings.TrimSpace(r.Category)
}

func (r *UpdateRequest) Normalize() {
	r.Category = strings.TrimSpace(r.Category)
}
