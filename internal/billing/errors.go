package billing

import "errors"

// ErrInvalidDate is returned when a date-bearing field cannot be parsed.
var ErrInvalidDate = errors.New("invalid date")
