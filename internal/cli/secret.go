package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"

	"github.com/nimbler/registry-index/internal/index"
)

// keyringService is the OS keyring service name used when mirroring the
// signing secret; the account is the index file path so multiple registries
// on one machine do not collide
const keyringService = "regidx"

var mirrorToKeyring bool

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Manage the token-signing secret",
}

var secretGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the current signing secret",
	Args:  cobra.NoArgs,
	RunE:  runSecretGet,
}

var secretSetCmd = &cobra.Command{
	Use:   "set <value>",
	Short: "Set the signing secret",
	Args:  cobra.ExactArgs(1),
	RunE:  runSecretSet,
}

var secretGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate and set a new random signing secret",
	Args:  cobra.NoArgs,
	RunE:  runSecretGenerate,
}

func init() {
	secretCmd.AddCommand(secretGetCmd)
	secretCmd.AddCommand(secretSetCmd)
	secretCmd.AddCommand(secretGenerateCmd)

	secretSetCmd.Flags().BoolVar(&mirrorToKeyring, "keyring", false,
		"Also store the secret in the OS keyring")
	secretGenerateCmd.Flags().BoolVar(&mirrorToKeyring, "keyring", false,
		"Also store the secret in the OS keyring")
}

func runSecretGet(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), store.Secret())
	return nil
}

func runSecretSet(cmd *cobra.Command, args []string) error {
	store, logger, err := openStore()
	if err != nil {
		return err
	}

	return setSecret(store, args[0], logger.Warn)
}

func runSecretGenerate(cmd *cobra.Command, args []string) error {
	store, logger, err := openStore()
	if err != nil {
		return err
	}

	secret := uuid.NewString()
	if err := setSecret(store, secret, logger.Warn); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), secret)
	return nil
}

// setSecret persists the secret and optionally mirrors it to the OS keyring.
// The index file stays the source of truth; a keyring failure is reported
// but does not undo the persisted secret.
func setSecret(store *index.Store, secret string, warn func(string, ...any)) error {
	if err := store.SetSecret(secret); err != nil {
		return err
	}

	if mirrorToKeyring {
		if err := keyring.Set(keyringService, store.IndexPath(), secret); err != nil {
			warn("Failed to mirror secret to OS keyring", "error", err)
		}
	}

	return nil
}
