package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-snippetgen/internal/config"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Read and change persisted settings",
	Long: `Settings describe the broker deployment examples target: deployment mode,
hosts, account id and authentication style. They are stored in the file given
by --config; SNIPPETGEN_* environment variables override them at runtime.`,
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show every setting with its effective value",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		for _, key := range config.Keys() {
			value, err := cfg.Get(key)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%s\n", key, value)
		}
		return w.Flush()
	},
}

var settingsGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print the effective value of a setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := cfg.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Change a setting and save the settings file",
	Example: `  snippetgen settings set env docker
  snippetgen settings set user_pass_based_auth true
  snippetgen settings set station orders`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Environment overrides must not leak into the saved file.
		fileCfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := fileCfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := fileCfg.Save(configPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s to %s\n", args[0], configPath)
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsListCmd, settingsGetCmd, settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}
