package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	nexushub "nexushub_back"
	"nexushub_back/internal/wallet"
	"nexushub_back/pkg/balance"
	"nexushub_back/pkg/chain"
	"nexushub_back/pkg/config"
	"nexushub_back/pkg/handler"
	"nexushub_back/pkg/mailer"
	"nexushub_back/pkg/notify"
	"nexushub_back/pkg/pricefeed"
	"nexushub_back/pkg/repository"
	"nexushub_back/pkg/service"
	"nexushub_back/pkg/submitter"
	"nexushub_back/pkg/tronclient"
)

type backend struct {
	fetcher chain.Fetcher
	watcher chain.Watcher
	evm     *ethclient.Client
}

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))
	if err := godotenv.Load(); err != nil {
		logrus.Infof("no .env file loaded: %s", err)
	}

	cfg, err := config.Load("configs")
	if err != nil {
		logrus.Fatalf("config: %s", err)
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logrus.SetLevel(level)
	}
	logrus.WithFields(logrus.Fields{"chain": cfg.Chain.Kind, "chain_id": cfg.Chain.ID, "tx_mode": cfg.Tx.Mode}).Info("starting nexushub backend")

	chainBackend, err := newBackend(cfg.Chain)
	if err != nil {
		logrus.Fatalf("chain backend: %s", err)
	}

	sub, err := newSubmitter(cfg, chainBackend)
	if err != nil {
		logrus.Fatalf("submitter: %s", err)
	}

	repos, db := newRepository(cfg.DB)
	if db != nil {
		defer db.Close()
	}

	queue := notify.NewQueue()
	deps := service.Deps{
		Queue:     queue,
		Notifier:  notify.NewToaster(queue, cfg.Notify.Duration),
		Balances:  balance.NewProvider(chainBackend.fetcher, cfg.Balance.Timeout, cfg.Balance.TTL),
		Submitter: sub,
		Mailer:    mailer.Nop{},
		Currency:  cfg.Price.Currency,
		ChainID:   cfg.Chain.ID,
	}
	if cfg.Price.Enabled {
		deps.Prices = pricefeed.NewClient(cfg.Price.BaseURL, cfg.Price.APIKey, cfg.Price.TTL)
	}
	if cfg.Mail.Enabled {
		deps.Mailer = mailer.NewMailjet(cfg.Mail.APIKey, cfg.Mail.SecretKey, cfg.Mail.From, cfg.Mail.To)
	}

	services := service.NewService(repos, deps)
	handlers := handler.NewHandler(services, cfg.HTTP.Origins)

	srv := new(nexushub.Server)
	go func() {
		if err := srv.Run(cfg.Port, handlers.InitRoute()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("http server: %s", err)
		}
	}()
	logrus.Infof("listening on :%s", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Info("shutting down")
	services.Transactions.CloseAll()
	queue.ClearAll()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("http shutdown: %s", err)
	}
	if chainBackend.evm != nil {
		chainBackend.evm.Close()
	}
}

func newBackend(cfg config.Chain) (backend, error) {
	switch cfg.Kind {
	case chain.KindEVM:
		client, err := ethclient.Dial(cfg.RPCURL)
		if err != nil {
			return backend{}, errors.Wrapf(err, "dial %s", cfg.RPCURL)
		}
		evm := chain.NewEVMClient(client, cfg.ID, cfg.PollInterval)
		return backend{fetcher: evm, watcher: evm, evm: client}, nil
	case chain.KindTron:
		tron := tronclient.NewClient(cfg.TronAPIURL, cfg.TronAPIKey, cfg.PollInterval)
		return backend{fetcher: tron, watcher: tron}, nil
	default:
		return backend{}, chain.ErrUnsupportedChain
	}
}

func newSubmitter(cfg config.Config, b backend) (submitter.Submitter, error) {
	if cfg.Tx.Mode != submitter.ModeEVM {
		return submitter.NewMock(cfg.Tx.SignDelay, cfg.Tx.ConfirmDelay), nil
	}
	signer, err := wallet.FromPrivateKey(cfg.Tx.SignerKey)
	if err != nil {
		return nil, errors.Wrap(err, "signer key")
	}
	evm := submitter.NewEVM(b.evm, signer, cfg.Chain.ID, b.watcher)
	logrus.WithFields(logrus.Fields{"signer": evm.Payer(), "tron": signer.TronAddress}).Info("evm submitter ready")
	return evm, nil
}

func newRepository(cfg config.DB) (*repository.Repository, *sqlx.DB) {
	if !cfg.Enabled {
		logrus.Info("database disabled, keeping transaction history in memory")
		return repository.NewMemoryRepository(), nil
	}
	db, err := repository.NewPostgresDB(repository.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		DBName:   cfg.DBName,
		SSLMode:  cfg.SSLMode,
	})
	if err != nil {
		logrus.Fatalf("database: %s", err)
	}
	logrus.Info("database connected")
	return repository.NewRepository(db), db
}
