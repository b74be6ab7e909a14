package evm

import (
	"bytes"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ErrEventNotFound signals that a receipt carried none of the expected
// events. This means an ABI or deployment mismatch, not a transient fault,
// and is never retried.
var ErrEventNotFound = NewError(KindEventNotFound, "expected event not found in receipt logs")

// DecodedEvent is one matched log with every argument, indexed or not,
// unpacked by name.
type DecodedEvent struct {
	Name    string
	TxHash  common.Hash
	Address common.Address
	Args    map[string]interface{}
}

// FindEvent scans receipt logs for the named event emitted by the given
// contract and decodes the first match. Logs from other contracts and other
// topics are skipped. Pure over its inputs, so it is testable without a
// chain connection.
func FindEvent(logs []*types.Log, contract common.Address, contractABI abi.ABI, name string) (*DecodedEvent, error) {
	event, ok := contractABI.Events[name]
	if !ok {
		return nil, NewError(KindValidation, "abi has no event "+name)
	}
	for _, log := range logs {
		if log == nil || log.Address != contract {
			continue
		}
		if len(log.Topics) == 0 || log.Topics[0] != event.ID {
			continue
		}
		args := map[string]interface{}{}
		if err := contractABI.UnpackIntoMap(args, name, log.Data); err != nil {
			return nil, WrapError(KindEventNotFound, "unpack "+name+" data", err)
		}
		var indexed abi.Arguments
		for _, input := range event.Inputs {
			if input.Indexed {
				indexed = append(indexed, input)
			}
		}
		if len(indexed) > 0 {
			if err := abi.ParseTopicsIntoMap(args, indexed, log.Topics[1:]); err != nil {
				return nil, WrapError(KindEventNotFound, "parse "+name+" topics", err)
			}
		}
		return &DecodedEvent{
			Name:    name,
			TxHash:  log.TxHash,
			Address: log.Address,
			Args:    args,
		}, nil
	}
	return nil, ErrEventNotFound
}

// EncodeBytes32 packs a short string into a zero-padded bytes32 reference,
// mirroring the router's referenceId convention.
func EncodeBytes32(s string) ([32]byte, error) {
	var out [32]byte
	if len(s) > 31 {
		return out, NewError(KindValidation, "reference id longer than 31 bytes")
	}
	copy(out[:], s)
	return out, nil
}

// DecodeBytes32 reverses EncodeBytes32, trimming the zero padding.
func DecodeBytes32(b [32]byte) string {
	return string(bytes.TrimRight(b[:], "\x00"))
}
