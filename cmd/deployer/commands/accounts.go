package commands

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/params"
	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/deployer/internal/config"
	"github.com/altuslabsxyz/deployer/internal/infrastructure/evm"
	"github.com/altuslabsxyz/deployer/internal/output"
)

// accountsOptions holds options for the accounts command.
type accountsOptions struct {
	balances bool
}

// accountInfo is the JSON form of one account.
type accountInfo struct {
	Index   int     `json:"index"`
	Address string  `json:"address"`
	Balance string  `json:"balance_wei,omitempty"`
	Nonce   *uint64 `json:"nonce,omitempty"`
}

// NewAccountsCmd creates the accounts command.
func NewAccountsCmd() *cobra.Command {
	opts := &accountsOptions{}

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Show the addresses of the selected network's accounts",
		Long: `Resolve every account reference of the selected network and print the
derived addresses. Account 0 signs deployments.

With --balances the nonce of each account and the current gas price are
shown as well.

Examples:
  deployer accounts
  deployer accounts --network local --balances`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAccounts(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.balances, "balances", false,
		"Query each account's balance from the network")

	return cmd
}

func runAccounts(cmd *cobra.Command, opts *accountsOptions) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}
	logger := output.DefaultLogger

	network, err := cfg.Network("")
	if err != nil {
		return err
	}

	creds, err := resolveCredentials(network.Accounts, logger)
	if err != nil {
		return err
	}

	var client *evm.Client
	if opts.balances {
		client = evm.NewClient(network.URL)
		if err := client.Connect(ctx); err != nil {
			return err
		}
		defer client.Close()
	}

	infos := make([]accountInfo, 0, len(creds))
	for i, cred := range creds {
		address, err := cred.Address()
		if err != nil {
			return err
		}
		info := accountInfo{Index: i, Address: address.Hex()}
		if client != nil {
			balance, err := client.GetBalance(ctx, address)
			if err != nil {
				return err
			}
			info.Balance = balance.String()

			nonce, err := client.GetNonce(ctx, address)
			if err != nil {
				return err
			}
			info.Nonce = &nonce
		}
		infos = append(infos, info)
	}

	if logger.IsJSONMode() {
		return logger.JSON(infos)
	}

	logger.Bold("Accounts on %s:", network.Name)
	logger.Println("%s", output.CyanSeparator())
	if client != nil {
		if price, err := client.SuggestGasPrice(ctx); err == nil {
			logger.Println("  gas price: %s gwei", formatGwei(price))
		}
	}
	for _, info := range infos {
		if info.Balance == "" {
			logger.Println("  [%d] %s", info.Index, info.Address)
			continue
		}
		wei, _ := new(big.Int).SetString(info.Balance, 10)
		logger.Println("  [%d] %s  %s ETH  nonce %d", info.Index, info.Address, formatEther(wei), *info.Nonce)
	}
	return nil
}

// formatEther renders wei as ether with up to six decimals.
func formatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	ether := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(params.Ether))
	return ether.Text('f', 6)
}

// formatGwei renders wei as gwei with up to two decimals.
func formatGwei(wei *big.Int) string {
	gwei := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(params.GWei))
	return gwei.Text('f', 2)
}
