package main

import (
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"

	"airdropclient/internal/config"
	"airdropclient/internal/database"
	"airdropclient/internal/notify"
	"airdropclient/internal/repositories"
	"airdropclient/internal/services"
	solclient "airdropclient/internal/solana"
)

var log = config.InitLogger()

func main() {
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to init config: %v", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

// app bundles the wired collaborators commands pull from. Optional pieces
// (audit store, notifier) stay nil when not configured.
type app struct {
	chain    *solclient.Client
	pool     *services.PoolService
	runRepo  *repositories.RunRepository
	notifier *notify.Notifier
	db       *database.Postgres
}

func buildApp() (*app, error) {
	chain, err := solclient.NewClient(config.RPC_URL, config.PROGRAM_ID)
	if err != nil {
		return nil, err
	}

	mint, err := solana.PublicKeyFromBase58(config.TOKEN_MINT)
	if err != nil {
		return nil, fmt.Errorf("token mint: %w", err)
	}
	poolState, err := chain.PoolStateAddress(mint)
	if err != nil {
		return nil, fmt.Errorf("derive pool address: %w", err)
	}

	a := &app{
		chain: chain,
		pool:  services.NewPoolService(chain, poolState),
	}

	if config.AuditEnabled() {
		db, err := database.NewPostgres(config.LoadPostgresConfig())
		if err != nil {
			return nil, fmt.Errorf("audit database: %w", err)
		}
		a.db = db
		a.runRepo = repositories.NewRunRepository(db.Db)
		log.Infoln("Audit database initialized")
	}

	if tgCfg := config.LoadTelegramConfig(); tgCfg != nil {
		redisCli, err := database.InitRedisCli()
		if err != nil {
			log.Error("Failed to init redis, notifications will not be de-duplicated: ", err)
		}
		notifier, err := notify.NewNotifier(tgCfg, redisCli)
		if err != nil {
			log.Error("Failed to init telegram notifier: ", err)
		} else {
			a.notifier = notifier
		}
	}

	return a, nil
}

func (a *app) close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Error("Failed to close database: ", err)
		}
	}
}

func (a *app) loadSigner() (solana.PrivateKey, error) {
	if config.WALLET_KEYPAIR == "" {
		return nil, fmt.Errorf("WALLET_KEYPAIR must be set for this command")
	}
	signer, err := solana.PrivateKeyFromSolanaKeygenFile(config.WALLET_KEYPAIR)
	if err != nil {
		return nil, fmt.Errorf("load keypair: %w", err)
	}
	return signer, nil
}

func (a *app) snapshotService(signer solana.PrivateKey) *services.SnapshotService {
	return services.NewSnapshotService(a.pool, a.chain, signer, a.runRepo, a.notifier)
}
