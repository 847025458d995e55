package dataset

import "errors"

// ErrNotFound is returned by a Backend that does not know the data set
var ErrNotFound = errors.New("data set not found")

// ClientError is a lookup failure with a message fit for the user
type ClientError struct {
	Message string
	Err     error
}

func (e *ClientError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error { return e.Err }

// ErrorMessage extracts the user-facing message of err
func ErrorMessage(err error) string {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Message
	}
	return err.Error()
}
