package user

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUserEmailExists       = errors.New("email already registered")
	ErrActorMissing          = errors.New("authenticated user missing from context")
	ErrOfficerAccessRequired = errors.New("attendance officer access required")
	ErrManagerAccessRequired = errors.New("attendance manager access required")
	ErrPermissionDenied      = errors.New("you do not have permission to perform this action")
)
