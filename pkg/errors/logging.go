package errors

import (
	"go.uber.org/zap"
)

// LogError writes err as a structured log entry. Business rule and not found
// errors are logged at warn level; everything else at error level.
func LogError(logger *zap.Logger, err error, msg string, fields ...zap.Field) {
	if err == nil {
		return
	}

	allFields := make([]zap.Field, 0, len(fields)+3)
	allFields = append(allFields, zap.Error(err))

	var appErr *AppError
	if As(err, &appErr) {
		allFields = append(allFields,
			zap.String("error_code", appErr.Code()),
			zap.String("error_reason", appErr.Reason()),
		)
	}

	allFields = append(allFields, fields...)

	switch CodeOf(err) {
	case ErrBusinessRule, ErrNotFound, ErrForbidden, ErrInvalidArgument:
		logger.Warn(msg, allFields...)
	default:
		logger.Error(msg, allFields...)
	}
}
