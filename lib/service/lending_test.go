package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deqrypt/deqrypt.go/backend"
	"github.com/deqrypt/deqrypt.go/evm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serviceWithBackend(t *testing.T, handler http.HandlerFunc) *DeqryptService {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	svc := newTestService(&fakeEvm{signer: testSigner})
	svc.Backend = backend.NewClient(&backend.Config{BackendAPIURL: server.URL, BackendAPITimeout: 5})
	svc.Config.ExplorerBaseURL = "https://sepolia.basescan.org/tx/"
	return svc
}

func TestWithdrawRequiresAmountUnlessAll(t *testing.T) {
	svc := serviceWithBackend(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be called for an invalid request")
	})

	_, err := svc.Withdraw(context.Background(), backend.WithdrawRequest{ID: 1, Token: "USDC", Amount: 0})
	assert.Equal(t, evm.KindValidation, evm.KindOf(err))

	_, err = svc.Withdraw(context.Background(), backend.WithdrawRequest{ID: 1, Token: "USDC", Amount: -3})
	assert.Equal(t, evm.KindValidation, evm.KindOf(err))
}

func TestWithdrawAllZeroesAmount(t *testing.T) {
	var received backend.WithdrawRequest
	svc := serviceWithBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		fmt.Fprint(w, `{"status":"success","protocol":"aave"}`)
	})

	_, err := svc.Withdraw(context.Background(), backend.WithdrawRequest{
		ID:          1,
		Token:       "USDC",
		Amount:      50,
		WithdrawAll: true,
	})
	require.NoError(t, err)
	assert.True(t, received.WithdrawAll)
	assert.Zero(t, received.Amount)
}

func TestUpdateUsernameRejectsShortNamesLocally(t *testing.T) {
	svc := serviceWithBackend(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be called for a short username")
	})

	err := svc.UpdateUsername(context.Background(), testSigner.Hex(), "ab")
	assert.Equal(t, evm.KindValidation, evm.KindOf(err))
}

func TestUpdateUsernameRejectsBadWallet(t *testing.T) {
	svc := serviceWithBackend(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be called for a bad wallet")
	})

	err := svc.UpdateUsername(context.Background(), "nope", "alice")
	assert.Equal(t, evm.KindValidation, evm.KindOf(err))
}

func TestRecommendValidatesBeforeCall(t *testing.T) {
	svc := serviceWithBackend(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be called for invalid input")
	})

	_, err := svc.Recommend(context.Background(), 0, "USDC")
	assert.Equal(t, evm.KindValidation, evm.KindOf(err))
	_, err = svc.Recommend(context.Background(), 100, "")
	assert.Equal(t, evm.KindValidation, evm.KindOf(err))
}

func TestTransactionHistoryFillsExplorerLinks(t *testing.T) {
	svc := serviceWithBackend(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"success","data":[
			{"id":"1","type":"OUT","amount":10,"token":"USDC","tx_hash":"0xabc"},
			{"id":"2","type":"IN","amount":5,"token":"IDRX","tx_hash":"0xdef","explorer":"https://custom/0xdef"}
		]}`)
	})

	transactions, err := svc.TransactionHistory(context.Background(), testSigner.Hex())
	require.NoError(t, err)
	require.Len(t, transactions, 2)
	assert.Equal(t, "https://sepolia.basescan.org/tx/0xabc", transactions[0].Explorer)
	// an explorer link set by the backend is left alone
	assert.Equal(t, "https://custom/0xdef", transactions[1].Explorer)
}

func TestRecordPaymentPushesReceipt(t *testing.T) {
	var received backend.AddTransactionRequest
	svc := serviceWithBackend(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/history/add", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		fmt.Fprint(w, `{"status":"success"}`)
	})

	err := svc.RecordPayment(context.Background(), &PayReceipt{
		TxHash:        "0xabc",
		Payer:         testSigner.Hex(),
		Recipient:     testRecipient.Hex(),
		TokenIn:       "USDC",
		AmountInHuman: "100.0",
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, received.Amount)
	assert.Equal(t, "0xabc", received.TxHash)
}
