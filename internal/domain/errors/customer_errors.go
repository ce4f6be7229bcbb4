package errors

import "errors"

var (
	// ErrCustomerConflict means another writer already holds the unique key.
	// The insert produced no row and the caller should re-read.
	ErrCustomerConflict = errors.New("customer already exists")

	// ErrCustomerNotFound indicates that no customer matches the given key
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrEmptyUserID indicates a provisioning call without a user id
	ErrEmptyUserID = errors.New("user id is required")

	// ErrProvisioningFailed indicates that no customer could be created or found
	ErrProvisioningFailed = errors.New("customer provisioning failed")
)
