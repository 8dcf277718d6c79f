package db

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS parts")).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectExec(regexp.QuoteMeta("parts_demo_name_key ON parts (name) WHERE is_demo")).
		WillReturnResult(pgxmock.NewResult("CREATE INDEX", 0))
	mock.ExpectExec(regexp.QuoteMeta("parts_name_key ON parts (name) WHERE NOT is_demo")).
		WillReturnResult(pgxmock.NewResult("CREATE INDEX", 0))

	require.NoError(t, (&Postgres{Pool: mock}).EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureSchema_StopsOnError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("permission denied"))

	err = (&Postgres{Pool: mock}).EnsureSchema(context.Background())
	require.ErrorContains(t, err, "schema statement 1")
	assert.NoError(t, mock.ExpectationsWereMet())
}
