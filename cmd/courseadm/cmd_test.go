package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-service/internal/auth"
	"course-service/internal/db"
	"course-service/internal/models"
	"course-service/internal/repositories"
)

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	t.Helper()
	database, err := db.Connect(db.DriverSQLite, filepath.Join(t.TempDir(), "admin.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	out := &bytes.Buffer{}
	return &commandLine{db: database, users: repositories.NewUserRepo(database), out: out}, out
}

func withPassword(t *testing.T, pwd string, err error) {
	t.Helper()
	prev := readPasswordFunc
	readPasswordFunc = func(int) ([]byte, error) { return []byte(pwd), err }
	t.Cleanup(func() { readPasswordFunc = prev })
}

func TestRunUsage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no subcommand", args: []string{"courseadm"}},
		{name: "unknown subcommand", args: []string{"courseadm", "lol"}},
		{name: "adduser without name", args: []string{"courseadm", "adduser", "-email", "a@b.co"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli, out := setup(t)
			assert.ErrorIs(t, cli.run(tt.args), errHelp)
			assert.NotEmpty(t, out.String())
		})
	}
}

func TestMigrate(t *testing.T) {
	cli, out := setup(t)
	require.NoError(t, cli.run([]string{"courseadm", "migrate"}))
	assert.Contains(t, out.String(), "schema is up to date")
}

func TestAddUserCreatesThenUpdates(t *testing.T) {
	cli, _ := setup(t)
	ctx := context.Background()

	withPassword(t, "first-pass", nil)
	require.NoError(t, cli.run([]string{"courseadm", "adduser", "-name", "carol", "-email", "Carol@Example.com", "-role", "teacher"}))

	usr, err := cli.users.GetUserByLogin(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", usr.Email)
	assert.Equal(t, models.RoleTeacher, usr.Role)
	require.NoError(t, auth.CheckPassword(usr.PasswordHash, "first-pass"))

	withPassword(t, "second-pass", nil)
	require.NoError(t, cli.run([]string{"courseadm", "adduser", "-name", "carol", "-email", "carol@example.com", "-admin"}))

	updated, err := cli.users.GetUserByLogin(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, usr.ID, updated.ID)
	assert.Equal(t, models.RoleAdmin, updated.Role)
	assert.NoError(t, auth.CheckPassword(updated.PasswordHash, "second-pass"))
	assert.Error(t, auth.CheckPassword(updated.PasswordHash, "first-pass"))
}

func TestAddUserRejectsInput(t *testing.T) {
	cli, _ := setup(t)

	withPassword(t, "", nil)
	assert.ErrorIs(t, cli.run([]string{"courseadm", "adduser", "-name", "dave", "-email", "dave@example.com"}), errHelp)

	withPassword(t, "secret123", nil)
	assert.EqualError(t, cli.run([]string{"courseadm", "adduser", "-name", "dave", "-email", "dave@example.com", "-role", "owner"}), `unknown role "owner"`)

	readErr := errors.New("no tty")
	withPassword(t, "", readErr)
	assert.ErrorIs(t, cli.run([]string{"courseadm", "adduser", "-name", "dave", "-email", "dave@example.com"}), readErr)
}

func TestSeedAndListUsers(t *testing.T) {
	cli, out := setup(t)

	require.NoError(t, cli.run([]string{"courseadm", "seed"}))
	// seeding twice resets the accounts instead of failing on duplicates
	require.NoError(t, cli.run([]string{"courseadm", "seed"}))

	users, err := cli.users.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, len(demoAccounts))

	out.Reset()
	require.NoError(t, cli.run([]string{"courseadm", "listusers", "-role", "student"}))
	assert.Contains(t, out.String(), "student@example.com")
	assert.NotContains(t, out.String(), "teacher@example.com")
}
