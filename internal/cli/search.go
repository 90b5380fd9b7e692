package cli

import (
	"github.com/spf13/cobra"
)

// searchCmd scans storage roots for packages outside the primary index
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Discover packages under the storage roots that are not in the index",
	Args:  cobra.NoArgs,
	RunE:  runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}

	summaries, err := store.Search(cmd.Context())
	if err != nil {
		return err
	}

	names := make([]string, 0, len(summaries))
	for _, s := range summaries {
		names = append(names, s.Name)
	}

	if outputFormat == "plain" {
		return printResult(cmd.OutOrStdout(), outputFormat, names)
	}
	return printResult(cmd.OutOrStdout(), outputFormat, summaries)
}
