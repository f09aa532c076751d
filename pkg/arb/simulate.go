package arb

import (
	"github.com/solana-arb/engine/pkg/arberr"
)

// defaultComputeUnits is the flat estimate used until full on-chain
// simulation is wired up.
const defaultComputeUnits = 400_000

// SimulationResult reports whether a cycle is expected to clear on-chain.
type SimulationResult struct {
	Success              bool
	ActualProfitLamports int64
	ComputeUnits         int64
	Err                  error
}

// Simulator is a placeholder pre-flight check: it reports a cycle as
// passing whenever the optimizer already estimated a positive profit.
// Replacing this with an on-chain simulation of the actual swap
// instructions is out of scope for now.
type Simulator struct{}

// NewSimulator returns a Simulator.
func NewSimulator() *Simulator {
	return &Simulator{}
}

// Simulate reports cycle as passing iff its optimizer-estimated profit is
// positive, carrying that estimate through as the "actual" profit and a
// flat compute-unit estimate.
func (s *Simulator) Simulate(cycle *ArbitrageCycle) SimulationResult {
	if cycle.EstimatedProfitLamports > 0 {
		return SimulationResult{
			Success:              true,
			ActualProfitLamports: cycle.EstimatedProfitLamports,
			ComputeUnits:         defaultComputeUnits,
		}
	}
	return SimulationResult{
		Success: false,
		Err:     arberr.Wrap(arberr.CategoryLiquidity, arberr.ErrSimulationFailed),
	}
}

// SimulateExact will build each leg's real swap instructions and run them
// through an RPC simulate call once that integration lands.
func (s *Simulator) SimulateExact(cycle *ArbitrageCycle) (SimulationResult, error) {
	return SimulationResult{}, arberr.Wrap(arberr.CategoryNotImplemented, arberr.ErrNotImplemented)
}
