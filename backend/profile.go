package backend

import "context"

type Profile struct {
	WalletAddress string `json:"wallet_address"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	IsVerified    bool   `json:"is_verified"`
}

type infoRequest struct {
	Address string `json:"address"`
}

type updateUsernameRequest struct {
	WalletAddress string `json:"wallet_address"`
	Name          string `json:"name"`
}

type verifyRequest struct {
	WalletAddress string `json:"wallet_address"`
}

type statusEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (c *Client) Profile(ctx context.Context, address string) (*Profile, error) {
	result := &Profile{}
	if err := c.post(ctx, "/api/info", infoRequest{Address: address}, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) UpdateUsername(ctx context.Context, wallet, name string) error {
	var envelope statusEnvelope
	if err := c.post(ctx, "/api/info/add", updateUsernameRequest{WalletAddress: wallet, Name: name}, &envelope); err != nil {
		return err
	}
	if envelope.Status != statusSuccess {
		return &Error{StatusCode: 200, Message: envelope.Message}
	}
	return nil
}

// VerifyWallet kicks off the backend's asynchronous wallet verification.
// Success means the verification is pending, not complete.
func (c *Client) VerifyWallet(ctx context.Context, wallet string) (string, error) {
	var envelope statusEnvelope
	if err := c.post(ctx, "/api/info/verify", verifyRequest{WalletAddress: wallet}, &envelope); err != nil {
		return "", err
	}
	if envelope.Status != "pending" {
		return "", &Error{StatusCode: 200, Message: envelope.Message}
	}
	return envelope.Message, nil
}
