package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/investdesk/desk/internal/admin"
	"github.com/investdesk/desk/internal/form"
	"github.com/investdesk/desk/internal/model"
	"github.com/investdesk/desk/internal/ui"
	"github.com/investdesk/desk/internal/validate"
)

func newAppVersionCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "appversion",
		Aliases: []string{"app-version"},
		Short:   "Manage mobile app version requirements",
	}
	cmd.AddCommand(newAppVersionListCommand(a))
	cmd.AddCommand(newAppVersionSaveCommand(a, false))
	cmd.AddCommand(newAppVersionSaveCommand(a, true))
	cmd.AddCommand(newAppVersionDeleteCommand(a))
	return cmd
}

func newAppVersionListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List app versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAppVersionList(cmd, a)
		},
	}
}

func runAppVersionList(cmd *cobra.Command, a *app) error {
	versions, err := a.svc.ListAppVersions(cmd.Context())
	if err != nil {
		return userError(err)
	}
	out := cmd.OutOrStdout()
	return a.render(out, versions, func() error {
		if len(versions) == 0 {
			fmt.Fprintln(out, ui.Empty("app versions"))
			return nil
		}
		rows := make([][]string, len(versions))
		for i, v := range versions {
			rows[i] = []string{
				v.ID, v.LatestVersion, v.MinimumVersion,
				strconv.FormatBool(v.AndroidForceUpdate), strconv.FormatBool(v.IOSForceUpdate),
				stamp(v.UpdatedAt),
			}
		}
		fmt.Fprintln(out, ui.Table([]string{"ID", "Latest", "Minimum", "Android force", "iOS force", "Updated"}, rows))
		return nil
	})
}

func newAppVersionSaveCommand(a *app, update bool) *cobra.Command {
	ff := newFieldFlags()

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a new app version requirement",
		Args:  cobra.NoArgs,
	}
	if update {
		cmd.Use = "update <id>"
		cmd.Short = "Edit an app version requirement"
		cmd.Args = cobra.ExactArgs(1)
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		values := ff.collect(cmd, update)
		id := ""
		if update {
			id = args[0]
			current, err := a.findAppVersion(cmd, id)
			if err != nil {
				return err
			}
			values = appVersionValues(current, values)
		}

		out := cmd.OutOrStdout()
		build := func(opts ...form.Option) *form.Form {
			return admin.NewAppVersionForm(a.svc, id, func(v model.AppVersion) {
				fmt.Fprintf(out, "App version %s saved: latest %s, minimum %s.\n", v.ID, v.LatestVersion, v.MinimumVersion)
			}, opts...)
		}
		if err := a.submit(cmd, build, values); err != nil {
			return err
		}
		return runAppVersionList(cmd, a)
	}

	ff.add(cmd, "latest", "latestVersion", "latest version, e.g. 2.4.0")
	ff.add(cmd, "minimum", "minimumVersion", "minimum supported version")
	ff.add(cmd, "android-force", "androidForceUpdate", "force Android users to update (true/false)")
	ff.add(cmd, "ios-force", "iosForceUpdate", "force iOS users to update (true/false)")
	ff.add(cmd, "play-store-url", "playStoreUrl", "Play Store link")
	ff.add(cmd, "app-store-url", "appStoreUrl", "App Store link")
	ff.add(cmd, "message", "updateMessage", "message shown to users who must update")
	return cmd
}

func (a *app) findAppVersion(cmd *cobra.Command, id string) (model.AppVersion, error) {
	versions, err := a.svc.ListAppVersions(cmd.Context())
	if err != nil {
		return model.AppVersion{}, userError(err)
	}
	for _, v := range versions {
		if v.ID == id {
			return v, nil
		}
	}
	return model.AppVersion{}, fmt.Errorf("app version %s not found", id)
}

// appVersionValues prefills the edit form with current and overlays changed.
func appVersionValues(current model.AppVersion, changed validate.Values) validate.Values {
	values := validate.Values{
		"latestVersion":      current.LatestVersion,
		"minimumVersion":     current.MinimumVersion,
		"androidForceUpdate": strconv.FormatBool(current.AndroidForceUpdate),
		"iosForceUpdate":     strconv.FormatBool(current.IOSForceUpdate),
		"playStoreUrl":       current.PlayStoreURL,
		"appStoreUrl":        current.AppStoreURL,
		"updateMessage":      current.UpdateMessage,
	}
	for k, v := range changed {
		values[k] = v
	}
	return values
}

func newAppVersionDeleteCommand(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an app version requirement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				ok, err := a.ask(cmd, "Delete app version", "Delete app version "+args[0]+"?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			if err := a.svc.DeleteAppVersion(cmd.Context(), args[0]); err != nil {
				return userError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "App version %s deleted.\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
