package seller

import "errors"

var (
	ErrSellerNotFound       = errors.New("seller not found")
	ErrDuplicateSellerEmail = errors.New("seller email already registered")
	ErrDailyMailsIncomplete = errors.New("some daily mails could not be queued")
)
