package main

import (
	"context"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

func (cli *commandLine) listUsers(role string) error {
	ctx := context.Background()
	users, err := cli.users.ListUsers(ctx)
	if role != "" {
		users, err = cli.users.ListUsersByRole(ctx, role)
	}
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(cli.out)
	table.SetHeader([]string{"ID", "Name", "Email", "Role", "Status", "Created"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for _, u := range users {
		table.Append([]string{
			strconv.Itoa(u.ID),
			u.Name,
			u.Email,
			u.Role,
			u.Status,
			u.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	table.Render()
	return nil
}
