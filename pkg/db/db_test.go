package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDialectRejectsUnknownType(t *testing.T) {
	_, err := Dialect(Config{Type: "oracle"})
	assert.Error(t, err)
}

func TestDialectNames(t *testing.T) {
	for _, typ := range []string{TypePostgres, TypeMySQL, TypeSQLite, TypeSQLitePure} {
		d, err := Dialect(Config{Type: typ})
		require.NoError(t, err, typ)
		assert.NotNil(t, d)
	}
}

func TestForUpdateIsEmptyOnSQLite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	assert.Equal(t, "", ForUpdate(conn))
	assert.Equal(t, "", ForUpdate(nil))
}

func TestIsDuplicateKeyErr(t *testing.T) {
	assert.False(t, IsDuplicateKeyErr(nil))
	assert.True(t, IsDuplicateKeyErr(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKeyErr(errors.New("UNIQUE constraint failed: parts.part_number")))
	assert.True(t, IsDuplicateKeyErr(errors.New(`duplicate key value violates unique constraint "parts_pkey"`)))
	assert.False(t, IsDuplicateKeyErr(errors.New("connection refused")))
}

func TestIsDuplicateKeyErrDriverTypes(t *testing.T) {
	unique := fmt.Errorf("insert part: %w", &pgconn.PgError{Code: "23505"})
	assert.True(t, IsDuplicateKeyErr(unique))
	assert.False(t, IsDuplicateKeyErr(&pgconn.PgError{Code: "23503"}))

	assert.True(t, IsDuplicateKeyErr(&mysql.MySQLError{Number: 1062}))
	assert.False(t, IsDuplicateKeyErr(&mysql.MySQLError{Number: 1452}))
}
