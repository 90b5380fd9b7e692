package cli

import (
	"github.com/spf13/cobra"
)

// listCmd lists the privately hosted package names
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List privately hosted package names",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

// addCmd marks a package name as privately hosted
var addCmd = &cobra.Command{
	Use:   "add <package>",
	Short: "Add a package name to the private index",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

// removeCmd removes a package name from the index
var removeCmd = &cobra.Command{
	Use:   "remove <package>",
	Short: "Remove a package name from the private index",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

func runList(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}

	return printResult(cmd.OutOrStdout(), outputFormat, store.List())
}

func runAdd(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}

	return store.Add(args[0])
}

func runRemove(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}

	return store.Remove(args[0])
}
