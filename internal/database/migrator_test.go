package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	req := require.New(t)

	files, err := fs.Glob(migrations, "migrations/*.sql")
	req.NoError(err)
	req.NotEmpty(files)

	setup, err := fs.ReadFile(migrations, "migrations/001_setup.sql")
	req.NoError(err)

	schema := string(setup)
	for _, constraint := range []string{"users_username_key", "users_email_key", "ON DELETE CASCADE"} {
		req.True(strings.Contains(schema, constraint), "schema is missing %s", constraint)
	}
	req.Contains(schema, "---- create above / drop below ----")
}
