package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/folio-cms/folio/internal/daemon"
)

func init() { //nolint: gochecknoinits
	seedCmd.Flags().StringVar(&seedPage, "page", "", "page key to seed (default Site.PageKey)")

	rootCmd.AddCommand(seedCmd)
}

var (
	seedPage string

	seedCmd = &cobra.Command{
		Use:     "seed",
		Short:   "Insert the default sections into an empty page",
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := daemon.OpenDB(&cfg)
			if err != nil {
				return err //nolint:wrapcheck
			}

			page := seedPage
			if page == "" {
				page = cfg.Site.PageKey
			}

			n, err := daemon.Seed(cmd.Context(), db, page)
			if err != nil {
				return err //nolint:wrapcheck
			}

			if n == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "page %q already has sections, nothing seeded\n", page)

				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d sections into page %q\n", n, page)

			return nil
		},
	}
)
