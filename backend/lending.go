package backend

import "context"

type Recommendation struct {
	Protocol      string  `json:"protocol"`
	Token         string  `json:"token"`
	APY           float64 `json:"apy"`
	Reason        string  `json:"reason"`
	IsSafe        bool    `json:"is_safe"`
	Amount        float64 `json:"amount"`
	Profit2Months float64 `json:"profit_2months"`
	Profit6Months float64 `json:"profit_6months"`
	Profit1Year   float64 `json:"profit_1year"`
	TVL           float64 `json:"tvl,omitempty"`
}

type Project struct {
	Protocol string  `json:"protocol"`
	APY      float64 `json:"apy"`
	TVL      float64 `json:"tvl"`
	Symbol   string  `json:"symbol"`
	PoolID   string  `json:"pool_id"`
}

type DepositRequest struct {
	Protocol      string  `json:"protocol"`
	Token         string  `json:"token"`
	Amount        float64 `json:"amount"`
	WalletAddress string  `json:"wallet_address"`
	TxHash        string  `json:"tx_hash,omitempty"`
}

type DepositResult struct {
	Status      string  `json:"status"`
	Protocol    string  `json:"protocol"`
	Amount      float64 `json:"amount"`
	TxHash      string  `json:"tx_hash,omitempty"`
	ExplorerURL string  `json:"explorer_url,omitempty"`
	Message     string  `json:"message,omitempty"`
}

type LendingInfo struct {
	WalletAddress      string   `json:"wallet_address"`
	Positions          []string `json:"positions"`
	TotalDeposited     float64  `json:"total_deposited"`
	TotalCurrentProfit float64  `json:"total_current_profit"`
}

// WithdrawRequest names a position to unwind. WithdrawAll replaces the
// legacy convention of passing a negative amount meaning "everything";
// Amount is ignored when it is set.
type WithdrawRequest struct {
	ID            int64   `json:"id"`
	Token         string  `json:"token"`
	Amount        float64 `json:"amount"`
	WithdrawAll   bool    `json:"withdraw_all"`
	TxHash        string  `json:"tx_hash,omitempty"`
	WalletAddress string  `json:"wallet_address,omitempty"`
}

type WithdrawResult struct {
	Status           string  `json:"status"`
	Protocol         string  `json:"protocol"`
	TxHash           string  `json:"tx_hash,omitempty"`
	ExplorerURL      string  `json:"explorer_url,omitempty"`
	WithdrawTime     string  `json:"withdraw_time,omitempty"`
	Principal        float64 `json:"principal,omitempty"`
	CurrentProfit    float64 `json:"current_profit,omitempty"`
	CurrentProfitPct float64 `json:"current_profit_pct,omitempty"`
	Withdrawn        float64 `json:"withdrawn,omitempty"`
	TotalReceived    float64 `json:"total_received,omitempty"`
	RemainingAmount  float64 `json:"remaining_amount,omitempty"`
	Message          string  `json:"message,omitempty"`
}

type SyncResult struct {
	Status      string      `json:"status"`
	SyncedCount int         `json:"synced_count"`
	Data        LendingInfo `json:"data"`
}

type recommendRequest struct {
	Amount float64 `json:"amount"`
	Token  string  `json:"token"`
}

type walletRequest struct {
	Wallet string `json:"wallet"`
}

func (c *Client) Recommend(ctx context.Context, amount float64, token string) (*Recommendation, error) {
	result := &Recommendation{}
	if err := c.post(ctx, "/api/lending/recommend", recommendRequest{Amount: amount, Token: token}, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.get(ctx, "/api/lending/project", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *Client) Deposit(ctx context.Context, req DepositRequest) (*DepositResult, error) {
	result := &DepositResult{}
	if err := c.post(ctx, "/api/lending/deposit", req, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) LendingInfo(ctx context.Context, wallet string) (*LendingInfo, error) {
	result := &LendingInfo{}
	if err := c.post(ctx, "/api/lending/info", walletRequest{Wallet: wallet}, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) Withdraw(ctx context.Context, req WithdrawRequest) (*WithdrawResult, error) {
	result := &WithdrawResult{}
	if err := c.post(ctx, "/api/lending/withdraw", req, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) SyncPositions(ctx context.Context, wallet string) (*SyncResult, error) {
	result := &SyncResult{}
	if err := c.post(ctx, "/api/lending/sync", walletRequest{Wallet: wallet}, result); err != nil {
		return nil, err
	}
	return result, nil
}
