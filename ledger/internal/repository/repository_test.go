package repository

import (
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestIsPgErrCode(t *testing.T) {
	t.Parallel()

	unique := &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	require.True(t, isPgErrCode(unique, pgerrcode.UniqueViolation))
	require.True(t, isPgErrCode(errors.Wrap(unique, "insert loan"), pgerrcode.UniqueViolation))
	require.False(t, isPgErrCode(unique, pgerrcode.CheckViolation))
	require.False(t, isPgErrCode(errors.New("plain"), pgerrcode.UniqueViolation))
	require.False(t, isPgErrCode(nil, pgerrcode.UniqueViolation))
}
