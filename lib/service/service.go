package service

import (
	"strings"
	"time"

	"github.com/deqrypt/deqrypt.go/backend"
	"github.com/deqrypt/deqrypt.go/common"
	"github.com/deqrypt/deqrypt.go/evm"
	"github.com/ziflex/lecho/v3"
)

type DeqryptService struct {
	Config   *Config
	Logger   *lecho.Logger
	Evm      evm.ClientWrapper
	Registry *evm.Registry
	Backend  *backend.Client
	Rates    *RatesCache
}

func NewService(cfg *Config, logger *lecho.Logger, client evm.ClientWrapper, backendClient *backend.Client) *DeqryptService {
	svc := &DeqryptService{
		Config: cfg,
		Logger: logger,
		Evm:    client,
		Registry: evm.NewRegistry(evm.RegistryOptions{
			ChainID:        cfg.ChainID,
			Router:         cfg.RouterAddress,
			Invoice:        cfg.InvoiceContractAddress,
			USDC:           cfg.USDCAddress,
			IDRX:           cfg.IDRXAddress,
			USDCToIDRXRate: cfg.USDCToIDRXRate,
		}),
		Backend: backendClient,
	}
	svc.Rates = NewRatesCache(backendClient, svc.RateSymbols(), svc.RatesInterval(), logger)
	return svc
}

func (svc *DeqryptService) RateSymbols() []string {
	var symbols []string
	for _, s := range strings.Split(svc.Config.RateSymbols, ",") {
		if s = strings.TrimSpace(s); s != "" {
			symbols = append(symbols, strings.ToUpper(s))
		}
	}
	return symbols
}

func (svc *DeqryptService) RatesInterval() time.Duration {
	if svc.Config.RatesRefreshInterval <= 0 {
		return 60 * time.Second
	}
	return time.Duration(svc.Config.RatesRefreshInterval) * time.Second
}

func (svc *DeqryptService) PollInterval() time.Duration {
	if svc.Config.PollInterval <= 0 {
		return common.DefaultPollInterval
	}
	return time.Duration(svc.Config.PollInterval) * time.Second
}

func (svc *DeqryptService) MaxPollAttempts() int {
	if svc.Config.MaxPollAttempts <= 0 {
		return common.DefaultMaxPollAttempts
	}
	return svc.Config.MaxPollAttempts
}

func (svc *DeqryptService) RouterDeadline() time.Duration {
	if svc.Config.RouterDeadline <= 0 {
		return common.DefaultRouterDeadline
	}
	return time.Duration(svc.Config.RouterDeadline) * time.Second
}

// SlippageOrDefault resolves the per-request slippage tolerance. A request
// that omits the field arrives as zero and takes the configured default.
func (svc *DeqryptService) SlippageOrDefault(bps int64) int64 {
	if bps <= 0 {
		return svc.Config.SlippageBps
	}
	return bps
}
