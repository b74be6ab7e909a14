package backend

import "context"

type Transaction struct {
	ID           string  `json:"id"`
	Type         string  `json:"type"` // "IN" or "OUT"
	Amount       float64 `json:"amount"`
	Token        string  `json:"token"`
	Counterparty string  `json:"counterparty"`
	TxHash       string  `json:"tx_hash"`
	Explorer     string  `json:"explorer"`
	Date         string  `json:"date"`
}

type AddTransactionRequest struct {
	Sender   string  `json:"sender"`
	Receiver string  `json:"receiver"`
	Amount   float64 `json:"amount"`
	Token    string  `json:"token"`
	TxHash   string  `json:"tx_hash"`
}

type transactionsEnvelope struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Data    []Transaction `json:"data"`
}

func (c *Client) Transactions(ctx context.Context, wallet string) ([]Transaction, error) {
	var envelope transactionsEnvelope
	if err := c.post(ctx, "/api/history/transactions", walletRequest{Wallet: wallet}, &envelope); err != nil {
		return nil, err
	}
	if envelope.Status != statusSuccess {
		return nil, &Error{StatusCode: 200, Message: envelope.Message}
	}
	return envelope.Data, nil
}

func (c *Client) AddTransaction(ctx context.Context, req AddTransactionRequest) error {
	return c.post(ctx, "/api/history/add", req, nil)
}
