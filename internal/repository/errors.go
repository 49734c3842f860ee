package repository

import (
	"errors"

	"github.com/mediaportal/portal-backend/internal/common"
	"gorm.io/gorm"
)

// translate maps gorm errors onto the business errors the services understand
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return common.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return common.ErrConflict
	default:
		return err
	}
}
