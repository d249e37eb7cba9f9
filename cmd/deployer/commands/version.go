package commands

import (
	"fmt"

	goversion "github.com/caarlos0/go-version"
	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/deployer/internal/output"
)

// Version information - set at build time via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "version",
		Short:             "Show version information",
		Long:              "Show version information including build details.",
		Args:              cobra.NoArgs,
		PersistentPreRunE: configureOutput,
		RunE:              runVersion,
	}
}

func buildInfo() goversion.Info {
	return goversion.GetVersionInfo(
		goversion.WithAppDetails("deployer", "Deploy compiled contracts to EVM networks", "https://github.com/altuslabsxyz/deployer"),
		func(i *goversion.Info) {
			if Version != "dev" {
				i.GitVersion = Version
			}
			if GitCommit != "unknown" {
				i.GitCommit = GitCommit
			}
			if BuildDate != "unknown" {
				i.BuildDate = BuildDate
			}
		},
	)
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := buildInfo()
	logger := output.DefaultLogger

	if logger.IsJSONMode() {
		data, err := info.JSONString()
		if err != nil {
			return fmt.Errorf("failed to marshal version info: %w", err)
		}
		fmt.Fprintln(logger.Writer(), data)
		return nil
	}

	fmt.Fprint(logger.Writer(), info.String())
	return nil
}
