package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/deployer/internal/config"
	"github.com/altuslabsxyz/deployer/internal/output"
)

// networkInfo is the JSON form of one configured network.
type networkInfo struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Accounts int    `json:"accounts"`
	ChainID  uint64 `json:"chain_id,omitempty"`
	Default  bool   `json:"default"`
}

// NewNetworksCmd creates the networks command.
func NewNetworksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "networks",
		Short: "List configured networks",
		Long: `List the networks declared in the configuration. The default network is
marked with "*". Endpoint paths and queries are hidden unless the URL
references environment variables, since providers put API keys there.`,
		Args: cobra.NoArgs,
		RunE: runNetworks,
	}
}

func runNetworks(cmd *cobra.Command, args []string) error {
	cfg := config.FromContext(cmd.Context())
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}
	logger := output.DefaultLogger

	infos := make([]networkInfo, 0, len(cfg.NetworkNames()))
	for _, name := range cfg.NetworkNames() {
		network, err := cfg.Network(name)
		if err != nil {
			return err
		}
		infos = append(infos, networkInfo{
			Name:     name,
			URL:      config.DisplayURL(network),
			Accounts: len(network.Accounts),
			ChainID:  network.ChainID,
			Default:  name == cfg.DefaultNetwork(),
		})
	}

	if logger.IsJSONMode() {
		return logger.JSON(infos)
	}

	logger.Bold("%-2s%-16s %-8s %-10s %s", "", "NAME", "ACCOUNTS", "CHAIN ID", "URL")
	logger.Println("%s", output.CyanSeparator())
	for _, info := range infos {
		marker := ""
		if info.Default {
			marker = "*"
		}
		chainID := "-"
		if info.ChainID != 0 {
			chainID = fmt.Sprintf("%d", info.ChainID)
		}
		logger.Println("%-2s%-16s %-8d %-10s %s", marker, info.Name, info.Accounts, chainID, info.URL)
	}
	return nil
}
