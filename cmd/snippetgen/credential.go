package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-snippetgen/internal/credentials"
	"github.com/goliatone/go-snippetgen/pkg/prompt"
)

var credentialUser string

var credentialCmd = &cobra.Command{
	Use:   "credential",
	Short: "Manage the stored connection token or password",
	Long: `The stored credential is filled into every example in place of the
<broker-token> or <password> placeholder. It is kept in the OS keyring when one
is available.`,
}

var credentialSetCmd = &cobra.Command{
	Use:   "set [SECRET]",
	Short: "Store a credential (prompts when SECRET is omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		secret := ""
		if len(args) == 1 {
			secret = args[0]
		} else {
			driver := prompt.NewSurveyDriver(cmd.ErrOrStderr())
			value, err := driver.Password(cmd.Context(), prompt.InputConfig{Message: "Connection token or password"})
			if err != nil {
				return err
			}
			secret = value
		}
		if strings.TrimSpace(secret) == "" {
			return fmt.Errorf("credential must not be empty")
		}

		store := credentials.NewKeyringStore(credentials.DefaultService)
		if err := store.Set(account(), secret); err != nil {
			return err
		}
		if !store.Persistent() {
			stderrf("Warning: no keyring available; the credential is kept for this process only.\n")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Stored credential for %s\n", account())
		return nil
	},
}

var credentialClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored credential",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := credentials.NewKeyringStore(credentials.DefaultService)
		if err := store.Delete(account()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared credential for %s\n", account())
		return nil
	},
}

var credentialStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether a credential is stored",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		secret := credentials.Lookup(credentials.NewKeyringStore(credentials.DefaultService), account())
		if secret == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "No credential stored for %s\n", account())
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Credential stored for %s (%d characters)\n", account(), len(secret))
		return nil
	},
}

// account defaults to the configured username so 'render' finds the secret.
func account() string {
	if strings.TrimSpace(credentialUser) != "" {
		return strings.TrimSpace(credentialUser)
	}
	if cfg != nil && cfg.Username != "" {
		return cfg.Username
	}
	return credentials.DefaultAccount
}

func init() {
	credentialCmd.PersistentFlags().StringVar(&credentialUser, "username", "", "Account the credential belongs to (defaults to the username setting)")
	credentialCmd.AddCommand(credentialSetCmd, credentialClearCmd, credentialStatusCmd)
	rootCmd.AddCommand(credentialCmd)
}
