package store

import (
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/taskcollab/taskcollab/errors"
)

// IsNotFound checks if the error is a GORM record-not-found error.
func IsNotFound(err error) bool {
	return stderrors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate checks if the error is a duplicate-key violation.
func IsDuplicate(err error) bool {
	return stderrors.Is(err, gorm.ErrDuplicatedKey)
}

// FromDatabase converts a database error to an AppError for the named
// resource. Unknown errors become a generic database error so driver
// detail never reaches the client.
func FromDatabase(err error, resource string) *errors.AppError {
	if err == nil {
		return nil
	}
	if IsNotFound(err) {
		return errors.NotFound(resource)
	}
	if IsDuplicate(err) {
		return errors.AlreadyExists(resource).WithCause(err)
	}
	return errors.DatabaseError(err)
}
