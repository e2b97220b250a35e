package main

import (
	"fmt"

	"github.com/gookit/color"

	"course-service/internal/models"
)

type seedAccount struct {
	name, email, role, password string
}

var demoAccounts = []seedAccount{
	{name: "teacher", email: "teacher@example.com", role: models.RoleTeacher, password: "teacher123"},
	{name: "student", email: "student@example.com", role: models.RoleStudent, password: "student123"},
}

// seed creates (or resets) the demo accounts.
func (cli *commandLine) seed() error {
	for _, a := range demoAccounts {
		if err := cli.addUser(a.name, a.email, a.role, a.password); err != nil {
			return fmt.Errorf("seed %s: %w", a.name, err)
		}
	}
	fmt.Fprintln(cli.out, color.Cyan.Render("demo accounts ready"))
	return nil
}
