package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-snippetgen/internal/clipboard"
	"github.com/goliatone/go-snippetgen/internal/credentials"
	"github.com/goliatone/go-snippetgen/pkg/prompt"
	"github.com/goliatone/go-snippetgen/pkg/render"
	"github.com/goliatone/go-snippetgen/pkg/session"
)

var interactiveFlags struct {
	templatesDir string
	copy         bool
	remember     bool
}

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"form"},
	Short:   "Fill the example form interactively",
	Long: `Walk through protocol, language, scenario and form fields one prompt at a
time. The example is re-rendered after every answer and printed at the end.`,
	Args: cobra.NoArgs,
	RunE: runInteractive,
}

func init() {
	addInteractiveFlags(interactiveCmd)
	addInteractiveFlags(rootCmd)
	rootCmd.AddCommand(interactiveCmd)
}

func addInteractiveFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&interactiveFlags.templatesDir, "templates-dir", "", "Load templates from this directory instead of the built-in set")
	cmd.Flags().BoolVar(&interactiveFlags.copy, "copy", false, "Copy the final example to the clipboard")
	cmd.Flags().BoolVar(&interactiveFlags.remember, "remember", false, "Store the entered credential in the keyring")
}

func runInteractive(cmd *cobra.Command, args []string) error {
	live, err := loadCatalog(templatesDir(interactiveFlags.templatesDir))
	if err != nil {
		return err
	}
	renderer, err := newRenderer(cmd.Context(), live)
	if err != nil {
		return err
	}
	sess, err := session.New(renderer, baseSessionOptions(cfg)...)
	if err != nil {
		return err
	}

	wizard := prompt.NewWizard(
		prompt.WithPromptDriver(prompt.NewSurveyDriver(cmd.ErrOrStderr())),
		prompt.WithLanguages(live),
	)
	out, err := wizard.Run(cmd.Context(), sess)
	if err != nil {
		return err
	}

	req := sess.Request()
	payload, err := render.TextRenderer{}.Render(cmd.Context(), out, render.RenderOptions{
		Language:     req.Language,
		Protocol:     string(req.Protocol),
		Scenario:     string(req.Scenario),
		Installation: true,
	})
	if err != nil {
		return err
	}
	if _, err := cmd.OutOrStdout().Write(payload); err != nil {
		return err
	}

	if interactiveFlags.remember && req.Form.Password != "" {
		account := req.Target.Username
		if account == "" {
			account = req.Form.Username
		}
		if err := credentials.NewKeyringStore(credentials.DefaultService).Set(account, req.Form.Password); err != nil {
			return err
		}
	}
	if interactiveFlags.copy {
		if err := clipboard.Copy(clipboard.System{}, out.Clipboard()); err != nil {
			return err
		}
		stderrf("Copied to clipboard.\n")
	}
	return nil
}
