package domain

import "errors"

// Auth and session errors
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already exists")
	ErrMissingToken       = errors.New("please login to continue")
	ErrInvalidToken       = errors.New("invalid token")
	ErrSessionExpired     = errors.New("please login to access this resource")
	ErrInvalidActivation  = errors.New("invalid activation code")
	ErrMailDelivery       = errors.New("could not send activation mail")
)

// Resource errors
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrJobOfferNotFound = errors.New("job offer not found")
	ErrPostNotFound     = errors.New("post not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrAlreadyApplied   = errors.New("you have already applied to this job offer")
	ErrForbidden        = errors.New("you are not authorized to perform this action")
	ErrMissingFields    = errors.New("please fill all the fields")
)
