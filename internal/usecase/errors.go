package usecase

import (
	"jobs-admin-backend/pkg/apperror"
	"jobs-admin-backend/pkg/logger"
)

// storageFailure logs the underlying error with its operation context and
// hides it behind a generic 500.
func storageFailure(op string, err error, attrs ...any) error {
	logger.Log.Error("Storage failure", append([]any{"op", op, "error", err}, attrs...)...)
	return apperror.Internal(err)
}
