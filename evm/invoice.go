package evm

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// InvoiceRecord mirrors the tuple returned by the invoice contract's
// getInvoice. Field order matches the ABI component order.
type InvoiceRecord struct {
	InvoiceId *big.Int
	Merchant  common.Address
	Payer     common.Address
	Amount    *big.Int
	Fee       *big.Int
	CreatedAt *big.Int
	PaidAt    *big.Int
	Status    uint8
	Metadata  string
}

// AsInvoiceRecord converts a raw unpacked tuple into an InvoiceRecord. The
// ABI unpacker yields an anonymous struct; fakes in tests hand over the
// typed record directly.
func AsInvoiceRecord(v interface{}) (rec InvoiceRecord, err error) {
	if typed, ok := v.(InvoiceRecord); ok {
		return typed, nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = NewError(KindNetworkError, "getInvoice returned unexpected tuple shape")
		}
	}()
	rec = *abi.ConvertType(v, new(InvoiceRecord)).(*InvoiceRecord)
	return rec, nil
}
