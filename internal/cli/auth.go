package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/noah-isme/bioscizone-api/internal/dto"
)

func (a *app) loginCommand() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if username == "" {
				if username, err = a.prompt("Username"); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = a.prompt("Password"); err != nil {
					return err
				}
			}
			if username == "" || password == "" {
				return errors.New("username and password are required")
			}

			ctx, cancel := a.context(cmd)
			defer cancel()
			if err := a.admin.Login(ctx, username, password); err != nil {
				return err
			}
			role, _ := a.session.Role()
			a.logger.Debug().Str("username", username).Str("role", role).Msg("logged in")
			a.say("Logged in as %s (%s).", username, role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "admin username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "admin password")
	return cmd
}

func (a *app) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.admin.Logout(); err != nil {
				return err
			}
			a.say("Logged out.")
			return nil
		},
	}
}

func (a *app) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "whoami",
		Aliases: []string{"me"},
		Short:   "Show the signed-in admin",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			me, err := a.admin.Me(ctx)
			if err != nil {
				return err
			}
			return a.render(me, []string{"USERNAME", "ROLE"}, [][]string{{me.Username, me.Role}})
		},
	}
}

func (a *app) registerCommand() *cobra.Command {
	var req dto.RegisterRequest
	var status bool
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account through self-registration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			if status {
				enabled, err := a.public.RegistrationStatus(ctx)
				if err != nil {
					return err
				}
				return a.render(dto.RegistrationStatusResponse{Enabled: enabled},
					[]string{"REGISTRATION"}, [][]string{{openClosed(enabled)}})
			}
			if req.Username == "" || req.Password == "" {
				return errors.New("--username and --password are required")
			}
			message, err := a.public.Register(ctx, req.Username, req.Password, req.Role)
			if err != nil {
				return err
			}
			a.say("%s", message)
			return nil
		},
	}
	cmd.Flags().BoolVar(&status, "status", false, "only report whether registration is open")
	cmd.Flags().StringVarP(&req.Username, "username", "u", "", "new username")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "new password")
	cmd.Flags().StringVar(&req.Role, "role", "", "requested role (admin or superadmin)")
	return cmd
}

func openClosed(enabled bool) string {
	if enabled {
		return "open"
	}
	return "closed"
}
