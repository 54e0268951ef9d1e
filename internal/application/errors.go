package application

import "errors"

// Business failure kinds. Handlers map these to status codes; anything
// else coming out of a service is an internal or upstream failure and
// is never shown to the client verbatim.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotAllowed     = errors.New("role must be either buyer or seller")
	ErrProductNotFound    = errors.New("product not found")
	ErrNotProductOwner    = errors.New("not the product owner")
	ErrPaymentFailed      = errors.New("payment initialization failed")
	ErrNotificationFailed = errors.New("notification handling failed")
)
