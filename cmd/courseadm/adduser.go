package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/gookit/color"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"course-service/internal/auth"
	"course-service/internal/db"
	"course-service/internal/models"
	"course-service/internal/repositories"
)

var validRoles = []string{models.RoleAdmin, models.RoleTeacher, models.RoleStudent}

func (cli *commandLine) migrate() error {
	if err := db.Migrate(cli.db); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, color.Green.Render("schema is up to date"))
	return nil
}

// addUser updates or creates a user matched by name or email.
func (cli *commandLine) addUser(name, email, role, pwd string) error {
	ctx := context.Background()
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if !lo.Contains(validRoles, role) {
		return fmt.Errorf("unknown role %q", role)
	}
	if len(pwd) < 6 {
		return errors.New("password must be at least 6 characters")
	}

	hash, err := auth.HashPassword(pwd)
	if err != nil {
		return err
	}

	usr, err := cli.users.GetUserByLogin(ctx, name)
	if errors.Is(err, repositories.ErrUserNotFound) {
		usr, err = cli.users.GetUserByLogin(ctx, email)
	}
	switch {
	case errors.Is(err, repositories.ErrUserNotFound):
		created, err := cli.users.CreateUser(ctx, models.User{
			Name:         name,
			Email:        email,
			Role:         role,
			Status:       models.StatusActive,
			PasswordHash: hash,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "%s %s (id %d)\n", color.Green.Render("created"), created.Name, created.ID)
		return nil
	case err != nil:
		return err
	}

	usr.Name = name
	usr.Email = email
	usr.Role = role
	usr.Status = models.StatusActive
	usr.PasswordHash = hash
	updated, err := cli.users.UpdateUser(ctx, usr)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s %s (id %d)\n", color.Yellow.Render("updated"), updated.Name, updated.ID)
	return nil
}
