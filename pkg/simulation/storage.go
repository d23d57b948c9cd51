package simulation

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/quantum-warriors/uservalidator/pkg/tracer"
)

// StorageSlot names a single storage slot read or written during validation.
type StorageSlot struct {
	Address common.Address
	Slot    *big.Int
}

// StorageRestriction tags how a validation-time storage access is treated.
type StorageRestriction int

const (
	// StorageAllowed means the access needs no stake.
	StorageAllowed StorageRestriction = iota
	// StorageNeedsStake means the access is allowed only if the accessing
	// entity is staked.
	StorageNeedsStake
	// StorageBanned means the access is never allowed.
	StorageBanned
)

// storageRestrictionArgs bundles the inputs get StorageRestriction needs:
// the address actually touched by SLOAD/SSTORE, the slot touched, the
// entity whose validation phase is running, and context about the sender's
// own creation.
type storageRestrictionArgs struct {
	accessedAddress  common.Address
	slot             *big.Int
	entity           Entity
	senderAddress    common.Address
	entryPointAddr   common.Address
	associatedSlots  tracer.AssociatedSlotsByAddress
	isUnstakedWallet bool
}

// getStorageRestriction classifies one storage access made during a single
// entity's validation phase. It applies four rules in order:
//
//  1. the sender's own storage is always allowed;
//  2. a slot associated with the sender is allowed for everyone unless an
//     unstaked factory is creating the sender's wallet (and is always allowed
//     when the entry point itself reads it); in that case it requires the
//     *accessing* entity to be staked, since an unstaked factory could
//     otherwise grief storage on accounts it is about to create;
//  3. the entity's own storage, or a slot associated with the entity, always
//     requires the entity to be staked;
//  4. anything else is banned outright.
func getStorageRestriction(args storageRestrictionArgs) StorageRestriction {
	if args.accessedAddress == args.senderAddress {
		return StorageAllowed
	}

	if args.associatedSlots.IsAssociatedSlot(args.senderAddress, args.slot) {
		if args.accessedAddress == args.entryPointAddr || !args.isUnstakedWallet {
			return StorageAllowed
		}
		return StorageNeedsStake
	}

	if args.accessedAddress == args.entity.Address ||
		args.associatedSlots.IsAssociatedSlot(args.entity.Address, args.slot) {
		return StorageNeedsStake
	}

	return StorageBanned
}
