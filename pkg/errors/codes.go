package errors

// Application error codes shared by every layer of the service.
const (
	ErrInternal        = "INTERNAL"
	ErrNotFound        = "NOT_FOUND"
	ErrInvalidArgument = "INVALID_ARGUMENT"
	ErrUnauthenticated = "UNAUTHENTICATED"
	ErrUnauthorized    = "UNAUTHORIZED"
	ErrConflict        = "CONFLICT"
	ErrUnavailable     = "UNAVAILABLE"
	ErrTimeout         = "TIMEOUT"
)

var httpStatusByCode = map[string]int{
	ErrInternal:        500,
	ErrNotFound:        404,
	ErrInvalidArgument: 400,
	ErrUnauthenticated: 401,
	ErrUnauthorized:    403,
	ErrConflict:        409,
	ErrUnavailable:     503,
	ErrTimeout:         504,
}
