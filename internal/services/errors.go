package services

import (
	"fmt"

	"colabora/pkg/utils"
)

// dbError tags a repository failure so the HTTP layer reports an opaque 500
// while the cause stays in the logs.
func dbError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, utils.ErrDatabaseError, err)
}
