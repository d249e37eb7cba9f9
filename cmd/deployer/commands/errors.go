package commands

import (
	"context"
	"errors"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/deployer/internal/domain/common"
	"github.com/altuslabsxyz/deployer/internal/output"
)

// ExitError reports a failure that was already printed. Execute returns its
// code without printing anything else.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return "exit status " + strconv.Itoa(e.Code)
}

// Execute runs the root command and maps its error to a process exit code.
func Execute(ctx context.Context, root *cobra.Command) int {
	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	handleCommandError(output.DefaultLogger, err)
	return 1
}

// handleCommandError prints err with its recovery hint, if any.
func handleCommandError(logger output.LoggerInterface, err error) {
	logger.Error("%v", err)
	if hint := common.GetRecoveryHint(err); hint != "" {
		logger.Hint("%s", hint)
	}
}
