package services_test

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lingodeck/internal/errors"
)

var now = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

func requireAppError(t *testing.T, err error, code string) *errors.AppError {
	t.Helper()
	var appErr *errors.AppError
	require.True(t, stderrors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
	return appErr
}
