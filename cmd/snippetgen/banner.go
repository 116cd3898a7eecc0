package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-snippetgen/internal/logging"
	"github.com/goliatone/go-snippetgen/pkg/quota"
)

var bannerPlain bool

var bannerCmd = &cobra.Command{
	Use:   "banner",
	Short: "Print the storage quota banner when it applies",
	Long: `Print the "1 / 2 GB left" upgrade banner. Whether it shows depends on the
quota_gate setting: "legacy-root" shows it to root users, "free-plan" only to
root users on the free plan.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		gate, err := cfg.Gate()
		if err != nil {
			return err
		}
		if gate.Legacy() {
			logging.Warn("quota banner uses the legacy root-user gate", zap.String("gate", string(gate)))
		}
		if !gate.Visible(cfg.UserState()) {
			return nil
		}

		banner := quota.DefaultBanner()
		if bannerPlain {
			fmt.Fprintln(cmd.OutOrStdout(), banner.Plain())
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), banner.Text())
		return nil
	},
}

func init() {
	bannerCmd.Flags().BoolVar(&bannerPlain, "plain", false, "Print without box styling")
	rootCmd.AddCommand(bannerCmd)
}
