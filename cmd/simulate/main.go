// Command simulate loads a UserOperation and a canned simulateValidation
// trace from a JSON fixture file and reports whether it would be admitted to
// a mempool. It exists to exercise pkg/simulation end-to-end; it is not a
// bundler process and manages no lifecycle of its own.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/quantum-warriors/uservalidator/internal/logger"
	"github.com/quantum-warriors/uservalidator/pkg/mempool"
	"github.com/quantum-warriors/uservalidator/pkg/simulation"
)

func newRootCmd() *cobra.Command {
	var fixturePath string
	var allowedKinds []string

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run simulateValidation against a canned UserOperation fixture",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(fixturePath, allowedKinds)
		},
	}
	cmd.Flags().StringVar(&fixturePath, "fixture", "", "path to a JSON fixture file (required)")
	cmd.Flags().StringSliceVar(&allowedKinds, "allow", nil, "violation kinds the single default mempool allows")
	_ = cmd.MarkFlagRequired("fixture")

	return cmd
}

func runSimulate(fixturePath string, allowedKinds []string) error {
	log := logger.NewZeroLogr().WithName("simulate")

	f, err := loadFixture(fixturePath)
	if err != nil {
		return err
	}

	op := f.toUserOp()
	entryPointAddr := common.HexToAddress("0x0000000000000000000000000000000000e9e9")
	mempoolID := common.HexToHash("0x1")
	dir := mempool.Directory{mempoolID: mempool.NewConfig(mempoolID, allowedKinds)}

	provider := &staticProvider{
		blockHash: common.HexToHash(f.BlockHash),
		codeHash:  common.HexToHash(f.CodeHash),
	}
	tr := &staticTracer{out: f.toTracerOutput()}
	entryPoint := simpleEntryPoint{addr: entryPointAddr}

	sim := simulation.NewSimulatorImpl(provider, entryPoint, tr, simulation.DefaultSettings(), dir, log)

	success, err := sim.SimulateValidation(context.Background(), op, nil, nil)
	if err != nil {
		rpcErr := simulation.RPCErrorFor(err)
		out, _ := json.MarshalIndent(rpcErr, "", "  ")
		fmt.Println(string(out))
		return nil
	}

	out, err := json.MarshalIndent(success, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

type simpleEntryPoint struct {
	addr common.Address
}

func (e simpleEntryPoint) Address() common.Address { return e.addr }

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
