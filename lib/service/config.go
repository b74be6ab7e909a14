package service

type Config struct {
	RPCURL                 string  `envconfig:"RPC_URL" required:"true"`
	ChainID                int64   `envconfig:"CHAIN_ID" default:"84532"` // Base Sepolia
	SignerPrivateKey       string  `envconfig:"SIGNER_PRIVATE_KEY"`
	RouterAddress          string  `envconfig:"ROUTER_ADDRESS"`
	InvoiceContractAddress string  `envconfig:"INVOICE_CONTRACT_ADDRESS"`
	USDCAddress            string  `envconfig:"USDC_ADDRESS"`
	IDRXAddress            string  `envconfig:"IDRX_ADDRESS"`
	USDCToIDRXRate         int64   `envconfig:"USDC_TO_IDRX_RATE" default:"15000"`
	SlippageBps            int64   `envconfig:"SLIPPAGE_BPS" default:"0"`
	RouterDeadline         int64   `envconfig:"ROUTER_DEADLINE" default:"3600"`           // in seconds
	PollInterval           int     `envconfig:"POLL_INTERVAL" default:"3"`                // in seconds
	MaxPollAttempts        int     `envconfig:"MAX_POLL_ATTEMPTS" default:"100"`          // ~5 minutes at the default interval
	RatesRefreshInterval   int     `envconfig:"RATES_REFRESH_INTERVAL" default:"60"`      // in seconds
	RateSymbols            string  `envconfig:"RATE_SYMBOLS" default:"ETH,BTC,USDC,IDRX"` // comma separated
	ExplorerBaseURL        string  `envconfig:"EXPLORER_BASE_URL" default:"https://sepolia.basescan.org/tx/"`
	SentryDSN              string  `envconfig:"SENTRY_DSN"`
	SentryTracesSampleRate float64 `envconfig:"SENTRY_TRACES_SAMPLE_RATE"`
	LogFilePath            string  `envconfig:"LOG_FILE_PATH"`
	Host                   string  `envconfig:"HOST" default:"localhost:3000"`
	Port                   int     `envconfig:"PORT" default:"3000"`
	DefaultRateLimit       int     `envconfig:"DEFAULT_RATE_LIMIT" default:"10"`
	StrictRateLimit        int     `envconfig:"STRICT_RATE_LIMIT" default:"10"`
	BurstRateLimit         int     `envconfig:"BURST_RATE_LIMIT" default:"1"`
	EnablePrometheus       bool    `envconfig:"ENABLE_PROMETHEUS" default:"false"`
	PrometheusPort         int     `envconfig:"PROMETHEUS_PORT" default:"9092"`
}
