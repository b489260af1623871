package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/investdesk/desk/internal/admin"
	"github.com/investdesk/desk/internal/session"
	"github.com/investdesk/desk/internal/validate"
)

func newLoginCommand(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as an administrator",
		Long:  "Sign in as an administrator. The password may also be given in DESK_PASSWORD.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = a.getenv("DESK_PASSWORD")
			}
			f := admin.NewLoginForm(a.svc)
			f.Update(validate.Values{"email": email, "password": password})
			if err := submitOnce(cmd, f); err != nil {
				return err
			}
			s, err := a.store.Get()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", displayName(s))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "administrator email")
	cmd.Flags().StringVar(&password, "password", "", "administrator password")
	return noAuth(cmd)
}

func newLogoutCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.svc.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
	return noAuth(cmd)
}

func newWhoamiCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in administrator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.store.Get()
			if err != nil {
				return err
			}
			if !s.SignedIn() {
				return errNotSignedIn
			}
			claims, err := session.Inspect(s.AccessToken)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			view := struct {
				Name      string    `json:"name"`
				Email     string    `json:"email,omitempty"`
				Role      string    `json:"role,omitempty"`
				Subject   string    `json:"subject,omitempty"`
				ExpiresAt time.Time `json:"expiresAt,omitzero"`
				Expired   bool      `json:"expired"`
			}{
				Name:      displayName(s),
				Role:      claims.Role,
				Subject:   claims.Subject,
				ExpiresAt: claims.ExpiresAt,
				Expired:   claims.Expired(time.Now()),
			}
			if s.User != nil {
				view.Email = s.User.Email
				if view.Role == "" {
					view.Role = s.User.Role
				}
			}
			return a.render(out, view, func() error {
				fmt.Fprintf(out, "%s <%s>\n", view.Name, orDash(view.Email))
				fmt.Fprintf(out, "Role: %s\n", orDash(view.Role))
				if !view.ExpiresAt.IsZero() {
					fmt.Fprintf(out, "Token expires: %s\n", stamp(view.ExpiresAt))
				}
				if view.Expired {
					fmt.Fprintln(out, "The token has expired; sign in again with 'desk login'.")
				}
				return nil
			})
		},
	}
	return noAuth(cmd)
}

func displayName(s session.Session) string {
	if s.User == nil {
		return "unknown"
	}
	if s.User.Name != "" {
		return s.User.Name
	}
	return s.User.Email
}

func newSessionCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Administrator session controls",
	}
	cmd.AddCommand(newSessionTerminateCommand(a))
	return cmd
}

func newSessionTerminateCommand(a *app) *cobra.Command {
	var userID string
	var yes bool

	cmd := &cobra.Command{
		Use:   "terminate",
		Short: "Sign out other administrator sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "all other administrator sessions"
			if userID != "" {
				target = "every session of " + userID
			}
			if !yes {
				ok, err := a.ask(cmd, "Terminate sessions", "Sign out "+target+"?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			n, err := a.svc.TerminateSessions(cmd.Context(), userID)
			if err != nil {
				return userError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Terminated %d sessions.\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "only this administrator's sessions")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
