package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// IsNotFound reports whether err means the requested row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateKey reports whether err is a unique-constraint violation,
// which is how a concurrent duplicate submission surfaces from the
// storage layer.
func IsDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
