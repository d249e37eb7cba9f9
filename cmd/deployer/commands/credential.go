package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/altuslabsxyz/deployer/internal/domain/common"
	"github.com/altuslabsxyz/deployer/internal/domain/credential"
	infracred "github.com/altuslabsxyz/deployer/internal/infrastructure/credential"
	"github.com/altuslabsxyz/deployer/internal/output"
)

// NewCredentialCmd creates the credential command group.
func NewCredentialCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credential",
		Short: "Manage signing keys in the system keychain",
		Long: `Store and remove signing keys in the system keychain. Networks reference a
stored key as "keychain:<name>" in their accounts list:

  [networks.sepolia]
  accounts = ["keychain:sepolia"]

Storage backends:
  - macOS: Keychain Access
  - Linux: Secret Service (GNOME Keyring / KWallet)
  - Windows: Credential Manager`,
		// The keychain is managed without loading the config.
		PersistentPreRunE: configureOutput,
	}

	cmd.AddCommand(newCredentialSetCmd(), newCredentialDeleteCmd())
	return cmd
}

func newCredentialSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <name>",
		Short: "Store a private key in the system keychain",
		Long: `Store a hex private key under <name>. The key is read from a masked prompt
when stdin is a terminal, otherwise from the first line of stdin.

Examples:
  # Prompt for the key
  deployer credential set sepolia

  # Pipe it from a secret manager
  pass show sepolia-deployer | deployer credential set sepolia`,
		Args: cobra.ExactArgs(1),
		RunE: runCredentialSet,
	}
}

func newCredentialDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a private key from the system keychain",
		Args:  cobra.ExactArgs(1),
		RunE:  runCredentialDelete,
	}
}

// newKeychainStore creates the store used by credential commands. Tests replace it.
var newKeychainStore = func() credential.Store {
	return infracred.NewKeychainStore()
}

func runCredentialSet(cmd *cobra.Command, args []string) error {
	name := args[0]
	logger := output.DefaultLogger

	store := newKeychainStore()
	if !store.IsAvailable() {
		return common.WithHint(credential.ErrStorageUnavailable,
			fmt.Sprintf("export the key instead and reference it as env:%s", strings.ToUpper(name)))
	}

	value, err := readSecret(cmd.InOrStdin(), name)
	if err != nil {
		return err
	}
	if err := credential.ValidatePrivateKey(value); err != nil {
		return err
	}

	if err := store.Set(name, value); err != nil {
		return fmt.Errorf("failed to store %s in system keychain: %w", name, err)
	}

	logger.Success("Securely stored %s in %s", name, keychainDescription())
	logger.Info("Reference it in deployer.toml as: accounts = [\"keychain:%s\"]", name)
	return nil
}

func runCredentialDelete(cmd *cobra.Command, args []string) error {
	name := args[0]

	store := newKeychainStore()
	if !store.IsAvailable() {
		return credential.ErrStorageUnavailable
	}
	if err := store.Delete(name); err != nil {
		if errors.Is(err, credential.ErrCredentialNotFound) {
			return fmt.Errorf("%s: %w", name, err)
		}
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}

	output.Success("Removed %s from %s", name, keychainDescription())
	return nil
}

// readSecret prompts with masked input on a terminal and reads one line otherwise.
func readSecret(in io.Reader, name string) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		prompt := promptui.Prompt{
			Label:    fmt.Sprintf("Private key for %s", name),
			Mask:     '*',
			Validate: credential.ValidatePrivateKey,
		}
		value, err := prompt.Run()
		if err != nil {
			return "", fmt.Errorf("failed to read secret input: %w", err)
		}
		return strings.TrimSpace(value), nil
	}

	reader := bufio.NewReader(in)
	value, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("value cannot be empty")
	}
	return value, nil
}

func keychainDescription() string {
	switch runtime.GOOS {
	case "darwin":
		return "macOS Keychain Access"
	case "linux":
		return "Secret Service (GNOME Keyring / KWallet)"
	case "windows":
		return "Windows Credential Manager"
	default:
		return "system keychain"
	}
}
