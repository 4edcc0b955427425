package auth

import (
	"context"

	"github.com/ivankudzin/estate-backoffice/internal/domain/model"
)

type identityContextKey string

const (
	operatorKey identityContextKey = "auth_operator"
	reporterKey identityContextKey = "auth_reporter"
)

func WithOperator(ctx context.Context, operator model.Operator) context.Context {
	return context.WithValue(ctx, operatorKey, operator)
}

func OperatorFromContext(ctx context.Context) (model.Operator, bool) {
	operator, ok := ctx.Value(operatorKey).(model.Operator)
	return operator, ok
}

// WithReporter marks a public request as made by a signed-in marketplace user.
func WithReporter(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, reporterKey, userID)
}

func ReporterFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(reporterKey).(int64)
	return userID, ok && userID > 0
}
