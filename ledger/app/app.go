package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Astemirdum/lending-ledger/ledger/config"
	"github.com/Astemirdum/lending-ledger/ledger/internal/handler"
	"github.com/Astemirdum/lending-ledger/ledger/internal/repository"
	"github.com/Astemirdum/lending-ledger/ledger/internal/server"
	"github.com/Astemirdum/lending-ledger/ledger/internal/service"
	"github.com/Astemirdum/lending-ledger/ledger/internal/service/users"
	"github.com/Astemirdum/lending-ledger/ledger/migrations"
	"github.com/Astemirdum/lending-ledger/pkg/kafka"
	"github.com/Astemirdum/lending-ledger/pkg/logger"
	"github.com/Astemirdum/lending-ledger/pkg/postgres"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "ledger")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}
	usersSvc := users.NewService(log, cfg)
	svc := service.NewService(repo, usersSvc, cfg.Policy, log)

	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		log.Fatal("kafka.NewProducer", zap.Error(err))
	}

	h := handler.New(svc, handler.NewEnqueuer(producer), log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	if err = producer.Close(); err != nil {
		log.Error("producer.Close", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}
