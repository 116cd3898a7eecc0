package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-snippetgen/pkg/catalog"
)

var languagesFlags struct {
	protocol     string
	templatesDir string
}

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the languages examples are available for",
	Example: `  # Every protocol
  snippetgen languages

  # REST gateway only
  snippetgen languages --protocol REST`,
	Args: cobra.NoArgs,
	RunE: runLanguages,
}

func init() {
	languagesCmd.Flags().StringVar(&languagesFlags.protocol, "protocol", "", "Only list one protocol (SDK, REST)")
	languagesCmd.Flags().StringVar(&languagesFlags.templatesDir, "templates-dir", "", "Load templates from this directory instead of the built-in set")
	rootCmd.AddCommand(languagesCmd)
}

func runLanguages(cmd *cobra.Command, args []string) error {
	live, err := loadCatalog(templatesDir(languagesFlags.templatesDir))
	if err != nil {
		return err
	}
	store := live.Store()

	protocols := store.Protocols()
	if languagesFlags.protocol != "" {
		protocol, err := catalog.ParseProtocol(languagesFlags.protocol)
		if err != nil {
			return err
		}
		protocols = []catalog.Protocol{protocol}
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROTOCOL\tLANGUAGE\tCODE\tNOTES")
	for _, protocol := range protocols {
		for _, name := range store.Languages(protocol) {
			entry, _ := store.Lookup(protocol, name)
			notes := ""
			switch {
			case entry.DocsOnly() && entry.Docs != nil:
				notes = "docs: " + entry.Docs.Link
			case protocol.DefaultLanguage() == name:
				notes = "default"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", protocol, name, entry.LangCode, notes)
		}
	}
	return w.Flush()
}
