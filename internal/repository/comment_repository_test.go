package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogcms/internal/domain"
)

func TestClassify(t *testing.T) {
	assert.NoError(t, classify(nil, "get comment"))

	assert.ErrorIs(t, classify(sql.ErrNoRows, "get comment"), domain.ErrCommentNotFound)

	transient := []error{
		context.DeadlineExceeded,
		driver.ErrBadConn,
		sql.ErrConnDone,
		&net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")},
	}
	for _, err := range transient {
		classified := classify(err, "list comments")
		assert.ErrorIs(t, classified, domain.ErrStoreUnavailable, err.Error())
		assert.Contains(t, classified.Error(), "list comments")
	}

	other := errors.New("syntax error at or near")
	classified := classify(other, "create comment")
	assert.ErrorIs(t, classified, other)
	assert.NotErrorIs(t, classified, domain.ErrStoreUnavailable)
}

func TestMigrationFiles(t *testing.T) {
	files, err := MigrationFiles(filepath.Join("..", "..", "migrations"))
	require.NoError(t, err)

	require.NotEmpty(t, files)
	assert.Equal(t, "001_comments.up.sql", filepath.Base(files[0]))
	for _, f := range files {
		assert.NotContains(t, f, ".down.sql")
	}

	_, err = MigrationFiles(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
