package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/deqrypt/deqrypt.go/backend"
	"github.com/deqrypt/deqrypt.go/evm"
	"github.com/deqrypt/deqrypt.go/lib"
	"github.com/deqrypt/deqrypt.go/lib/service"
	"github.com/deqrypt/deqrypt.go/lib/transport"
	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// @title        DeQRypt
// @version      0.2.0
// @description  Payment service for QR-based crypto invoices on Base, with swap-settled payments and lending.

// @BasePath  /

// @schemes  https http
func main() {

	c := &service.Config{}

	// Load configruation from environment variables
	err := godotenv.Load(".env")
	if err != nil {
		fmt.Println("Failed to load .env file")
	}
	err = envconfig.Process("", c)
	if err != nil {
		log.Fatalf("Error loading environment variables: %v", err)
	}

	// Setup logging to STDOUT or a configrued log file
	logger := lib.Logger(c.LogFilePath)

	// Setup exception tracking with Sentry if configured
	// sentry init needs to happen before the echo middlewares are added
	if c.SentryDSN != "" {
		if err = sentry.Init(sentry.ClientOptions{
			Dsn:              c.SentryDSN,
			IgnoreErrors:     []string{"400"},
			EnableTracing:    c.SentryTracesSampleRate > 0,
			TracesSampleRate: c.SentryTracesSampleRate,
		}); err != nil {
			logger.Errorf("sentry init error: %v", err)
		}
	}

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Connect to the EVM node and check we are on the right chain
	evmClient, err := evm.NewClient(evm.Options{
		RPCURL:        c.RPCURL,
		ChainID:       c.ChainID,
		PrivateKeyHex: c.SignerPrivateKey,
	})
	if err != nil {
		logger.Fatalf("Error initializing evm client: %v", err)
	}
	if err = evmClient.VerifyChainID(startupCtx); err != nil {
		logger.Fatalf("Error verifying chain id: %v", err)
	}
	if signer, err := evmClient.SignerAddress(); err == nil {
		logger.Infof("Signing with %s on chain %d", signer.Hex(), c.ChainID)
	} else {
		logger.Info("No signing key configured, running read-only")
	}

	// Init backend API client
	backendCfg, err := backend.LoadConfig()
	if err != nil {
		logger.Fatalf("Error loading backend config: %v", err)
	}
	backendClient := backend.NewClient(backendCfg)

	svc := service.NewService(c, logger, evmClient, backendClient)

	//init echo server
	e := transport.InitEcho(c, logger)

	logMw := transport.CreateLoggingMiddleware(logger)
	// strict rate limit for requests that submit transactions
	strictRateLimitMiddleware := transport.CreateRateLimitMiddleware(c.StrictRateLimit, c.BurstRateLimit)

	transport.RegisterV2Endpoints(svc, e, strictRateLimitMiddleware, logMw, transport.CreateCacheClient())

	backGroundCtx, _ := signal.NotifyContext(context.Background(), os.Interrupt)
	// Refresh token rates in the background
	svc.Rates.Start(backGroundCtx)
	defer svc.Rates.Stop()

	//Start Prometheus server if necessary
	if svc.Config.EnablePrometheus {
		go transport.StartPrometheusEcho(logger, svc, e)
	}

	// Start server
	go func() {
		if err := e.Start(fmt.Sprintf(":%v", c.Port)); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server")
		}
	}()

	<-backGroundCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
	svc.Logger.Info("DeQRypt exiting gracefully. Goodbye.")
}
