package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/folio-cms/folio/internal/auth"
	"github.com/folio-cms/folio/internal/daemon"
	"github.com/folio-cms/folio/internal/db/controller/adminuser"
	"github.com/folio-cms/folio/internal/mail"
	"github.com/folio-cms/folio/internal/web/session"
)

func init() { //nolint: gochecknoinits
	adminCreateCmd.Flags().StringVar(&adminEmail, "email", "", "email of the new admin")
	adminCreateCmd.Flags().StringVar(&adminPassword, "password", "", "password of the new admin")
	_ = adminCreateCmd.MarkFlagRequired("email")
	_ = adminCreateCmd.MarkFlagRequired("password")

	for _, c := range []*cobra.Command{totpEnrollCmd, totpDisableCmd} {
		c.Flags().StringVar(&adminEmail, "email", "", "email of the admin")
		_ = c.MarkFlagRequired("email")
	}

	adminTOTPCmd.AddCommand(totpEnrollCmd, totpDisableCmd)
	adminCmd.AddCommand(adminCreateCmd, adminTOTPCmd)
	rootCmd.AddCommand(adminCmd)
}

var (
	adminEmail    string
	adminPassword string

	adminCmd = &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}

	adminCreateCmd = &cobra.Command{
		Use:     "create",
		Short:   "Create an admin account",
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := authService(cmd.Context())
			if err != nil {
				return err
			}

			user, err := svc.CreateAdmin(cmd.Context(), adminEmail, adminPassword)
			if err != nil {
				return err //nolint:wrapcheck
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (id %d)\n", user.Email, user.ID)

			return nil
		},
	}

	adminTOTPCmd = &cobra.Command{
		Use:   "totp",
		Short: "Manage the second factor of an admin account",
	}

	totpEnrollCmd = &cobra.Command{
		Use:     "enroll",
		Short:   "Generate a new TOTP secret and print its otpauth url",
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := authService(cmd.Context())
			if err != nil {
				return err
			}

			key, err := svc.EnrollTOTP(cmd.Context(), adminEmail)
			if err != nil {
				return err //nolint:wrapcheck
			}

			fmt.Fprintf(cmd.OutOrStdout(), "secret: %s\nurl:    %s\n", key.Secret(), key.URL())

			return nil
		},
	}

	totpDisableCmd = &cobra.Command{
		Use:     "disable",
		Short:   "Remove the TOTP secret of an admin account",
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := authService(cmd.Context())
			if err != nil {
				return err
			}

			if err = svc.DisableTOTP(cmd.Context(), adminEmail); err != nil {
				return err //nolint:wrapcheck
			}

			fmt.Fprintf(cmd.OutOrStdout(), "second factor disabled for %s\n", adminEmail)

			return nil
		},
	}
)

// authService builds the auth service against the configured database.
func authService(ctx context.Context) (*auth.Service, error) {
	db, err := daemon.OpenDB(&cfg)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	users, err := adminuser.New(db)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	secret, err := daemon.SigningSecret(ctx, &cfg, db)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	sessions, err := session.NewStorage(&cfg)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return auth.NewService(users, sessions, mail.New(cfg.Mail), auth.Config{ //nolint:wrapcheck
		Secret:            secret,
		SessionTTL:        cfg.Webserver.Session.ExpiryTime,
		ResetTTL:          cfg.Auth.ResetTokenTTL,
		MinPasswordLength: cfg.Auth.MinPasswordLength,
		SiteURL:           cfg.Webserver.URL,
		SiteTitle:         cfg.Title,
	})
}
