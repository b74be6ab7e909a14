package evm

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testRouter    = common.HexToAddress("0x3F0d70EBC91eaEA590d18e4a8dC258993581EDec")
	testPayer     = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testRecipient = common.HexToAddress("0x2222222222222222222222222222222222222222")
	testToken     = common.HexToAddress("0x2b76EC0FfFd7BB736d29931e1dd16Bf6285740eB")
)

func paymentSuccessLog(t *testing.T, contract common.Address, amountIn, amountOut *big.Int, reference string) *types.Log {
	event := RouterABI.Events["PaymentSuccess"]
	refBytes, err := EncodeBytes32(reference)
	require.NoError(t, err)
	data, err := event.Inputs.NonIndexed().Pack(amountIn, amountOut, refBytes)
	require.NoError(t, err)
	topics, err := abi.MakeTopics(
		[]interface{}{testPayer},
		[]interface{}{testRecipient},
		[]interface{}{testToken},
	)
	require.NoError(t, err)
	return &types.Log{
		Address: contract,
		Topics:  []common.Hash{event.ID, topics[0][0], topics[1][0], topics[2][0]},
		Data:    data,
		TxHash:  common.HexToHash("0xabc"),
	}
}

func TestFindEventDecodesPaymentSuccess(t *testing.T) {
	log := paymentSuccessLog(t, testRouter, big.NewInt(100000000), big.NewInt(1500000000000), "order-42")

	event, err := FindEvent([]*types.Log{log}, testRouter, RouterABI, "PaymentSuccess")
	require.NoError(t, err)
	assert.Equal(t, "PaymentSuccess", event.Name)
	assert.Equal(t, testPayer, event.Args["payer"])
	assert.Equal(t, testRecipient, event.Args["recipient"])
	assert.Equal(t, testToken, event.Args["tokenIn"])
	assert.Equal(t, big.NewInt(100000000), event.Args["amountIn"])
	assert.Equal(t, big.NewInt(1500000000000), event.Args["amountOutIDRX"])
	refBytes, ok := event.Args["referenceId"].([32]byte)
	require.True(t, ok)
	assert.Equal(t, "order-42", DecodeBytes32(refBytes))
}

func TestFindEventSkipsOtherContracts(t *testing.T) {
	other := common.HexToAddress("0x9999999999999999999999999999999999999999")
	log := paymentSuccessLog(t, other, big.NewInt(1), big.NewInt(1), "ref")

	_, err := FindEvent([]*types.Log{log}, testRouter, RouterABI, "PaymentSuccess")
	assert.Equal(t, KindEventNotFound, KindOf(err))
}

func TestFindEventSkipsOtherTopics(t *testing.T) {
	log := paymentSuccessLog(t, testRouter, big.NewInt(1), big.NewInt(1), "ref")
	log.Topics[0] = common.HexToHash("0xdeadbeef")

	_, err := FindEvent([]*types.Log{log}, testRouter, RouterABI, "PaymentSuccess")
	assert.Equal(t, KindEventNotFound, KindOf(err))
}

func TestFindEventEmptyLogs(t *testing.T) {
	_, err := FindEvent(nil, testRouter, RouterABI, "PaymentSuccess")
	assert.Equal(t, KindEventNotFound, KindOf(err))
}

func TestFindEventUnknownEventName(t *testing.T) {
	_, err := FindEvent(nil, testRouter, RouterABI, "NoSuchEvent")
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestFindEventDecodesInvoiceCreated(t *testing.T) {
	event := InvoiceABI.Events["InvoiceCreated"]
	invoiceContract := common.HexToAddress("0x3d025AF3c832f477467149739D5aEedF28C90f6C")
	merchant := common.HexToAddress("0x3333333333333333333333333333333333333333")
	data, err := event.Inputs.NonIndexed().Pack(big.NewInt(100000000), big.NewInt(1000000))
	require.NoError(t, err)
	topics, err := abi.MakeTopics(
		[]interface{}{big.NewInt(7)},
		[]interface{}{merchant},
	)
	require.NoError(t, err)
	log := &types.Log{
		Address: invoiceContract,
		Topics:  []common.Hash{event.ID, topics[0][0], topics[1][0]},
		Data:    data,
	}

	decoded, err := FindEvent([]*types.Log{log}, invoiceContract, InvoiceABI, "InvoiceCreated")
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(7), decoded.Args["invoiceId"])
	assert.Equal(t, merchant, decoded.Args["merchant"])
}

func TestEncodeBytes32RoundTrip(t *testing.T) {
	encoded, err := EncodeBytes32("payment-123")
	assert.NoError(t, err)
	assert.Equal(t, "payment-123", DecodeBytes32(encoded))
}

func TestEncodeBytes32RejectsLongReference(t *testing.T) {
	_, err := EncodeBytes32("00000000001111111111222222222233")
	assert.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}
