package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/noah-isme/bioscizone-api/internal/dashboard"
	"github.com/noah-isme/bioscizone-api/internal/dto"
)

func (a *app) adminsCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "admins", Short: "Manage dashboard accounts (superadmin)"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			d, err := a.dashboard(ctx, dashboard.TabAdmins)
			if err != nil {
				return err
			}
			admins := d.Snapshot().Admins
			rows := make([][]string, 0, len(admins))
			for _, item := range admins {
				rows = append(rows, []string{item.ID, item.Username, item.Role})
			}
			return a.render(admins, []string{"ID", "USERNAME", "ROLE"}, rows)
		},
	}

	var create dto.AdminCreateRequest
	add := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			d, err := a.dashboard(ctx, dashboard.TabAdmins)
			if err != nil {
				return err
			}
			if err := d.CreateAdmin(ctx, create); err != nil {
				return err
			}
			a.say("Admin %s created.", create.Username)
			return nil
		},
	}
	add.Flags().StringVarP(&create.Username, "username", "u", "", "username")
	add.Flags().StringVarP(&create.Password, "password", "p", "", "password")
	add.Flags().StringVar(&create.Role, "role", "admin", "admin or superadmin")
	_ = add.MarkFlagRequired("username")
	_ = add.MarkFlagRequired("password")

	var username, password, role string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change an account's username, password or role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dto.AdminUpdateRequest{
				Username: optional(cmd, "username", username),
				Password: optional(cmd, "password", password),
				Role:     optional(cmd, "role", role),
			}
			if req.Username == nil && req.Password == nil && req.Role == nil {
				return errors.New("nothing to update")
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			d, err := a.dashboard(ctx, dashboard.TabAdmins)
			if err != nil {
				return err
			}
			if err := d.UpdateAdmin(ctx, args[0], req); err != nil {
				return err
			}
			a.say("Admin updated.")
			return nil
		},
	}
	update.Flags().StringVarP(&username, "username", "u", "", "new username")
	update.Flags().StringVarP(&password, "password", "p", "", "new password")
	update.Flags().StringVar(&role, "role", "", "new role")

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			d, err := a.dashboard(ctx, dashboard.TabAdmins)
			if err != nil {
				return err
			}
			if err := d.DeleteAdmin(ctx, args[0]); err != nil {
				return err
			}
			a.say("Admin deleted.")
			return nil
		},
	}

	cmd.AddCommand(list, add, update, remove)
	return cmd
}

func (a *app) settingsCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "settings", Short: "View and change system settings (superadmin)"}

	render := func(items []dto.SettingResponse) error {
		rows := make([][]string, 0, len(items))
		for _, item := range items {
			updated := "-"
			if item.UpdatedAt != nil {
				updated = stamp(*item.UpdatedAt)
			}
			rows = append(rows, []string{item.Key, item.Value, updated, deref(item.UpdatedBy)})
		}
		return a.render(items, []string{"KEY", "VALUE", "UPDATED", "BY"}, rows)
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			d, err := a.dashboard(ctx, dashboard.TabSettings)
			if err != nil {
				return err
			}
			return render(d.Snapshot().Settings)
		},
	}

	get := &cobra.Command{
		Use:   "get <key>",
		Short: "Show one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			setting, err := a.admin.Setting(ctx, args[0])
			if err != nil {
				return err
			}
			return render([]dto.SettingResponse{setting})
		},
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a setting value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			message, err := a.admin.UpdateSetting(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			a.say("%s", message)
			return nil
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle <key>",
		Short: "Flip a boolean setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			d, err := a.dashboard(ctx, dashboard.TabSettings)
			if err != nil {
				return err
			}
			value, err := d.ToggleSetting(ctx, args[0])
			if err != nil {
				return err
			}
			a.say("%s = %s", args[0], value)
			return nil
		},
	}

	cmd.AddCommand(list, get, set, toggle)
	return cmd
}

func (a *app) auditLogsCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "audit-logs",
		Short: "Show recent audit entries (superadmin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			entries, err := a.admin.AuditLogs(ctx, limit)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{itoa(entry.ID), stamp(entry.CreatedAt), entry.AdminUsername, entry.Action, entry.EntityType, deref(entry.EntityID)})
			}
			return a.render(entries, []string{"ID", "AT", "ADMIN", "ACTION", "ENTITY", "ENTITY ID"}, rows)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "number of entries")
	return cmd
}

func (a *app) uploadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload an image or document and print its URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			ctx, cancel := a.context(cmd)
			defer cancel()
			result, err := a.admin.UploadFile(ctx, filepath.Base(args[0]), file)
			if err != nil {
				return err
			}
			return a.render(result, []string{"URL", "TYPE", "SIZE"},
				[][]string{{result.URL, result.MimeType, strconv.FormatInt(result.SizeBytes, 10)}})
		},
	}
}
