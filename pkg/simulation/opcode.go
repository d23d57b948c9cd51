package simulation

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
)

// ViolationOpCode wraps an EVM opcode so violations can be sorted by its raw
// byte value, the same total order geth's own vm.OpCode gives it.
type ViolationOpCode vm.OpCode

func (o ViolationOpCode) String() string {
	return vm.OpCode(o).String()
}

// less reports whether o sorts before other, by opcode byte value.
func (o ViolationOpCode) less(other ViolationOpCode) bool {
	return o < other
}

// contractOpcode is one "<contract address>:<opcode or precompile>" entry as
// emitted by the trace's forbidden-opcode and forbidden-precompile lists.
type contractOpcode struct {
	contract common.Address
	value    string
}

// parseContractOpcodes splits the combined "address:value" strings the
// tracer emits for forbidden opcodes and precompiles into their parts.
func parseContractOpcodes(entries []string) ([]contractOpcode, error) {
	out := make([]contractOpcode, 0, len(entries))
	for _, e := range entries {
		idx := strings.LastIndexByte(e, ':')
		if idx < 0 {
			return nil, fmt.Errorf("simulation: malformed tracer entry %q", e)
		}
		addr := common.HexToAddress(e[:idx])
		out = append(out, contractOpcode{contract: addr, value: e[idx+1:]})
	}
	return out, nil
}

// opcodeFromName resolves a tracer-reported mnemonic to its ViolationOpCode,
// falling back to INVALID when the tracer reports something geth does not
// recognize as an opcode name.
func opcodeFromName(name string) ViolationOpCode {
	op, ok := vm.StringToOp(name)
	if !ok {
		return ViolationOpCode(vm.INVALID)
	}
	return ViolationOpCode(op)
}
