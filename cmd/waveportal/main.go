// waveportal serves the wave portal HTTP API.
// Usage: go run ./cmd/waveportal
package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlexZinkM/wave-portal/internal/api"
	"github.com/AlexZinkM/wave-portal/internal/client"
	"github.com/AlexZinkM/wave-portal/internal/config"
	"github.com/AlexZinkM/wave-portal/internal/contract"
	"github.com/AlexZinkM/wave-portal/internal/logging"
	"github.com/AlexZinkM/wave-portal/wave"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := config.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg := config.Get()
	logger := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Fatal("wave portal stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	opts := wave.Options{
		Countries: client.NewRestCountriesClient(cfg.CountriesURL, cfg.HTTPTimeoutDuration()),
		Media:     client.NewGiphyClient(cfg.GiphyAPIKey, cfg.HTTPTimeoutDuration()),
		GifID:     cfg.GiphyGifID,
		Gateway: wave.GatewayConfig{
			GasLimit:     cfg.GasLimit,
			PollInterval: cfg.PollIntervalDuration(),
		},
		Logger: logger,
	}

	eth, err := client.DialEthereum(ctx, cfg.EthRPCURL, cfg.ChainID)
	if err != nil {
		// The portal still serves countries and media, waves stay empty
		logger.WithError(err).Warn("ethereum node unavailable")
	} else {
		defer eth.Close()
		ledger, err := contract.NewWavePortal(common.HexToAddress(cfg.ContractAddress), eth)
		if err != nil {
			return err
		}
		opts.Ledger, opts.Chain, opts.Balances = ledger, eth, eth

		provider, err := newProvider(cfg, eth.SigningChainID(), logger)
		if err != nil {
			logger.WithError(err).Warn("wallet provider unavailable")
		} else {
			opts.Provider = provider
		}
		logger.WithFields(logging.Fields{
			"rpc":      eth.URL(),
			"chain_id": eth.SigningChainID().String(),
			"contract": ledger.Address().Hex(),
		}).Info("connected to ethereum")
	}

	portal := wave.NewPortal(opts)
	portal.Start(ctx)
	defer portal.Close()

	router, err := api.SetupRouter(portal, logger)
	if err != nil {
		return fmt.Errorf("failed to set up router: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("http shutdown")
		}
	}()

	logger.WithField("port", cfg.Port).Info("listening, swagger UI at /swagger/index.html")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// newProvider builds the configured wallet provider. It returns a nil
// provider for WALLET_PROVIDER=none.
func newProvider(cfg *config.Config, chainID *big.Int, logger logrus.FieldLogger) (wave.Provider, error) {
	switch cfg.WalletProvider {
	case config.ProviderKeystore:
		ks, err := client.NewKeystoreProvider(cfg.WalletFilePath, chainID)
		if err != nil {
			return nil, err
		}
		unlockKeystore(ks, logger)
		return ks, nil
	case config.ProviderClef:
		return client.NewClefProvider(cfg.ClefURL, chainID), nil
	default:
		return nil, nil
	}
}

// unlockKeystore prompts for the key file password. A locked key file can
// still be unlocked later through POST /session/connect.
func unlockKeystore(ks *client.KeystoreProvider, logger logrus.FieldLogger) {
	log := logger.WithField("address", ks.Address().Hex())
	if err := config.PromptForPassword(); err != nil {
		log.WithError(err).Warn("key file stays locked")
		return
	}
	defer config.ClearWalletPassword()

	// Get password as []byte, use it, then zero it immediately
	password, err := config.GetWalletPasswordBytes()
	if err != nil {
		log.WithError(err).Warn("key file stays locked")
		return
	}
	defer clear(password)

	if err := ks.Unlock(password); err != nil {
		log.WithError(err).Warn("key file stays locked")
		return
	}
	log.Info("key file unlocked")
}
