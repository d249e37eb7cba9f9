package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/deployer/internal/artifact"
	"github.com/altuslabsxyz/deployer/internal/config"
	"github.com/altuslabsxyz/deployer/internal/output"
)

// NewContractsCmd creates the contracts command.
func NewContractsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contracts",
		Short: "List deployable contracts in the artifacts directory",
		Long: `List the compiled contracts found in the artifacts directory as
fully-qualified names (<source>:<contract>). Either form can be passed to
"deployer deploy".`,
		Args: cobra.NoArgs,
		RunE: runContracts,
	}
}

func runContracts(cmd *cobra.Command, args []string) error {
	cfg := config.FromContext(cmd.Context())
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}
	logger := output.DefaultLogger

	names, err := artifact.NewStore(cfg.ArtifactsDir()).List()
	if err != nil {
		return err
	}

	if logger.IsJSONMode() {
		return logger.JSON(names)
	}
	if len(names) == 0 {
		logger.Warn("No artifacts found in %s", cfg.ArtifactsDir())
		return nil
	}
	for _, name := range names {
		logger.Println("%s", name)
	}
	return nil
}
