package simulation

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// bannedSlotKey dedupes identical (address, slot) banned accesses within a
// phase while preserving first-seen order, the same way the Rust gatherer
// collects banned slots into an IndexSet before emitting them.
type bannedSlotKey struct {
	address common.Address
	slot    string
}

// gatherContextViolations walks every validation phase in vctx's trace and
// produces the full, unsorted set of violations, the entities that needed to
// be staked to pass, and the union of every address touched in the storage
// accesses of each phase whose entity is present; phases whose entity is
// absent are skipped entirely. Call sortViolations on the violations before
// using them anywhere order matters.
func gatherContextViolations(settings Settings, entryPointAddr common.Address, vctx *ValidationContext) ([]SimulationViolation, []EntityType, []common.Address, error) {
	var violations []SimulationViolation
	var entitiesNeedingStake []EntityType
	var accessedAddresses []common.Address
	seenAccessed := make(map[common.Address]bool)

	if vctx.EntryPointOut.ReturnInfo.SigFailed {
		violations = append(violations, InvalidSignature{})
	}

	senderAddr := vctx.EntityInfos.SenderAddress()

	for phaseIdx, phase := range vctx.TracerOut.Phases {
		kind, ok := entityTypeFromPhase(phaseIdx)
		if !ok {
			continue
		}
		info := vctx.EntityInfos.Get(kind)
		if info == nil {
			continue
		}
		entity := Entity{Kind: kind, Address: info.Address}

		opcodes, err := parseContractOpcodes(phase.ForbiddenOpcodesUsed)
		if err != nil {
			return nil, nil, nil, err
		}
		for _, o := range opcodes {
			violations = append(violations, UsedForbiddenOpcode{
				Entity:   entity,
				Contract: o.contract,
				Opcode:   opcodeFromName(o.value),
			})
		}

		precompiles, err := parseContractOpcodes(phase.ForbiddenPrecompilesUsed)
		if err != nil {
			return nil, nil, nil, err
		}
		for _, p := range precompiles {
			violations = append(violations, UsedForbiddenPrecompile{
				Entity:     entity,
				Contract:   p.contract,
				Precompile: common.HexToAddress(p.value),
			})
		}

		needsStake := false
		var bannedOrder []bannedSlotKey
		seenBanned := make(map[bannedSlotKey]bool)
		for _, access := range phase.StorageAccesses {
			if !seenAccessed[access.Address] {
				seenAccessed[access.Address] = true
				accessedAddresses = append(accessedAddresses, access.Address)
			}
			for _, slot := range access.Slots {
				restriction := getStorageRestriction(storageRestrictionArgs{
					accessedAddress:  access.Address,
					slot:             slot,
					entity:           entity,
					senderAddress:    senderAddr,
					entryPointAddr:   entryPointAddr,
					associatedSlots:  vctx.TracerOut.AssociatedSlotsByAddress,
					isUnstakedWallet: vctx.IsUnstakedWallet,
				})
				switch restriction {
				case StorageNeedsStake:
					needsStake = true
				case StorageBanned:
					key := bannedSlotKey{address: access.Address, slot: slot.String()}
					if !seenBanned[key] {
						seenBanned[key] = true
						bannedOrder = append(bannedOrder, key)
					}
				}
			}
		}
		for _, key := range bannedOrder {
			slot, _ := new(big.Int).SetString(key.slot, 10)
			violations = append(violations, InvalidStorageAccess{
				Entity: entity,
				Slot:   StorageSlot{Address: key.address, Slot: slot},
			})
		}

		if needsStake {
			entitiesNeedingStake = append(entitiesNeedingStake, kind)
			if !info.IsStaked {
				violations = append(violations, NotStaked{
					Entity:          entity,
					MinStake:        settings.MinStakeValue,
					MinUnstakeDelay: new(big.Int).SetUint64(uint64(settings.MinUnstakeDelay)),
				})
			}
		}

		hadValue := phase.CalledNonEntryPointWithValue
		for _, addr := range phase.AddressesCallingWithValue {
			if addr != senderAddr {
				hadValue = true
				break
			}
		}
		if hadValue {
			violations = append(violations, CallHadValue{Entity: entity})
		}
		if phase.CalledBannedEntryPointMethod {
			violations = append(violations, CalledBannedEntryPointMethod{Entity: entity})
		}
		if phase.RanOutOfGas {
			violations = append(violations, OutOfGas{Entity: entity})
		}
		for _, addr := range phase.UndeployedContractAccesses {
			violations = append(violations, AccessedUndeployedContract{Entity: entity, Address: addr})
		}
	}

	if aggInfo := vctx.EntryPointOut.AggregatorInfo; aggInfo != nil {
		entitiesNeedingStake = append(entitiesNeedingStake, EntityTypeAggregator)
		if !isStaked(aggInfo.StakeInfo, settings) {
			violations = append(violations, NotStaked{
				Entity:          Entity{Kind: EntityTypeAggregator, Address: aggInfo.Address},
				MinStake:        settings.MinStakeValue,
				MinUnstakeDelay: new(big.Int).SetUint64(uint64(settings.MinUnstakeDelay)),
			})
		}
	}

	if vctx.TracerOut.FactoryCalledCreate2Twice {
		factoryAddr := entryPointAddr
		if vctx.EntityInfos.Factory != nil {
			factoryAddr = vctx.EntityInfos.Factory.Address
		}
		violations = append(violations, FactoryCalledCreate2Twice{Factory: factoryAddr})
	}

	return violations, entitiesNeedingStake, accessedAddresses, nil
}
