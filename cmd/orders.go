package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YelzhanWeb/cafebot/internal/app/admin"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Print the five most recent orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, lgr, err := loadConfig()
		if err != nil {
			return err
		}

		st, err := openStorage(cmd.Context(), cfg, lgr, false)
		if err != nil {
			return err
		}
		defer st.Close()

		text, err := admin.NewService(st.orders, cfg.Telegram.AdminIDs, lgr).RecentOrdersText(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}
