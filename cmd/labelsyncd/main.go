package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/lightningnetwork/lnd/clock"

	"github.com/walletmesh/labelsync/internal/adapter"
	"github.com/walletmesh/labelsync/internal/config"
	"github.com/walletmesh/labelsync/internal/crypto"
	"github.com/walletmesh/labelsync/internal/logger"
	"github.com/walletmesh/labelsync/internal/service"
	"github.com/walletmesh/labelsync/internal/store"
	"github.com/walletmesh/labelsync/internal/vault"
	"github.com/walletmesh/labelsync/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	// Registered before config parses the command line.
	once := flag.Bool("once", false, "Run a single sync cycle and exit")

	log := logger.NewLogger("labelsyncd")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if cfg.Wallet.HardwareDerived {
		// The standalone daemon has no signer transport of its own; the
		// hardware path is reached through the wallet host process.
		log.Fatal().Msg("hardware-derived mode requires a connected signer, run sync from the wallet instead")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storages, err := store.NewStorages(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}

	keys := crypto.NewKeyService()
	clk := clock.NewDefaultClock()

	flow := service.NewAuthFlow(cfg.OAuth, clk, log)
	tokens := vault.NewTokenVault(flow, storages.Credentials, keys, cfg.Wallet.StoragePassphrase, clk, log)

	if err := ensureAuthorized(ctx, tokens, flow, log); err != nil {
		log.Fatal().Err(err).Msg("remote storage authorization")
	}

	remote := adapter.NewDropboxStore(adapter.DropboxConfig{
		ContentURL: cfg.Remote.ContentURL,
		AppFolder:  cfg.Remote.AppFolder,
		Timeout:    cfg.Remote.RequestTimeout,
	}, tokens, log)

	keyring := service.NewKeyring(keys, nil, cfg.Wallet)
	engine := service.NewSyncEngine(remote, storages.Labels, crypto.NewLabelCodec(), keyring, clk, log, cfg.Sync)

	if *once {
		_, report, err := engine.SyncAccount(ctx, cfg.Wallet.AccountIndex)
		if err != nil {
			log.Fatal().Err(err).Msg("sync cycle failed")
		}
		log.Info().
			Int("added", report.Added).
			Int("updated", report.Updated).
			Int("tombstoned", report.Tombstoned).
			Msg("sync cycle completed")
		return
	}

	syncWorker := workers.NewSyncWorker(service.NewSyncJob(engine, log), cfg.Wallet.AccountIndex, cfg.Sync.Interval)
	workers.New(syncWorker).Run(ctx)

	log.Info().
		Uint32("account", cfg.Wallet.AccountIndex).
		Dur("interval", cfg.Sync.Interval).
		Msg("label sync daemon started")

	<-ctx.Done()
	syncWorker.Stop()
	keyring.Purge()
	log.Info().Msg("label sync daemon stopped")
}

// ensureAuthorized runs the browser handshake when no stored credential
// can produce a token.
func ensureAuthorized(ctx context.Context, tokens *vault.TokenVault, flow *service.AuthFlow, log *logger.Logger) error {
	_, err := tokens.Token(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, vault.ErrReauthorizationRequired) {
		return err
	}

	authURL, err := flow.Begin()
	if err != nil {
		return err
	}
	fmt.Printf("Open this URL in your browser to authorize label sync:\n\n  %s\n\n", authURL)

	cred, err := flow.AwaitRedirect(ctx)
	if err != nil {
		return err
	}
	if err := tokens.Store(ctx, cred); err != nil {
		return err
	}
	log.Info().Msg("remote storage authorized")
	return nil
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
