package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// pathCmd resolves the storage location of a package
var pathCmd = &cobra.Command{
	Use:   "path <package>",
	Short: "Print the resolved storage location of a package",
	Args:  cobra.ExactArgs(1),
	RunE:  runPath,
}

func runPath(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}

	driver, err := store.PackageStorage(args[0])
	if err != nil {
		return err
	}
	if driver == nil {
		return fmt.Errorf("package storage unavailable for %s", args[0])
	}

	fmt.Fprintln(cmd.OutOrStdout(), driver.Location())
	return nil
}
