package deploy

import (
	"github.com/altuslabsxyz/deployer/internal/domain/common"
	"github.com/altuslabsxyz/deployer/internal/output"
)

// Result is the JSON form of a successful outcome.
type Result struct {
	RunID       string `json:"run_id"`
	Contract    string `json:"contract"`
	Network     string `json:"network"`
	Address     string `json:"address"`
	TxHash      string `json:"tx_hash"`
	BlockNumber uint64 `json:"block_number"`
	GasUsed     uint64 `json:"gas_used"`
}

// Reporter prints outcomes: one address line on stdout for success, the
// error on stderr for failure.
type Reporter struct {
	logger output.LoggerInterface
}

// NewReporter creates a reporter writing through logger.
func NewReporter(logger output.LoggerInterface) *Reporter {
	return &Reporter{logger: logger}
}

// Report prints o and returns its exit code.
func (r *Reporter) Report(o Outcome) int {
	if !o.Succeeded() {
		r.logger.Error("%v", o.Err)
		if hint := common.GetRecoveryHint(o.Err); hint != "" {
			r.logger.Hint("%s", hint)
		}
		return o.ExitCode()
	}

	d := o.Deployment
	if r.logger.IsJSONMode() {
		err := r.logger.JSON(Result{
			RunID:       o.RunID,
			Contract:    o.Contract,
			Network:     o.Network,
			Address:     d.Address.Hex(),
			TxHash:      d.TxHash.Hex(),
			BlockNumber: d.BlockNumber,
			GasUsed:     d.GasUsed,
		})
		if err != nil {
			r.logger.Error("%v", err)
			return 1
		}
		return o.ExitCode()
	}

	r.logger.Println("%s deployed to: %s", o.Contract, d.Address.Hex())
	r.logger.Debug("run %s: tx %s in block %d, gas used %d", o.RunID, d.TxHash.Hex(), d.BlockNumber, d.GasUsed)
	return o.ExitCode()
}
