package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/derintolu/frs-partner-network/internal/config"
	"github.com/derintolu/frs-partner-network/internal/handler"
	"github.com/derintolu/frs-partner-network/internal/pkg"
	"github.com/derintolu/frs-partner-network/internal/repository/mysql"
	"github.com/derintolu/frs-partner-network/internal/repository/redis"
	"github.com/derintolu/frs-partner-network/internal/router"
	"github.com/derintolu/frs-partner-network/internal/service"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	pkg.SetSecrets(cfg.AccessSecret, cfg.RefreshSecret)

	if err := mysql.InitDB(cfg.MySQLDSN); err != nil {
		logger.Fatal("failed to init database", zap.Error(err))
	}
	if err := redis.Init(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
		logger.Fatal("failed to init redis", zap.Error(err))
	}
	defer redis.Close()

	producer, err := pkg.NewKafkaProducer(pkg.KafkaConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTopic,
	})
	if err != nil {
		logger.Fatal("failed to init kafka producer", zap.Error(err))
	}
	defer producer.Close()

	db := mysql.DB
	notifier := service.NewSMTPNotifier(pkg.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})

	identity := service.NewIdentityService(db, logger)
	membership := service.NewMembershipService(db, logger)
	company := service.NewCompanyService(db, membership, logger)
	partnership := service.NewPartnershipService(
		db, identity, membership, notifier,
		&redis.CooldownRepository{}, cfg.InviteBaseURL, logger,
	)
	activity := service.NewActivityService(db, membership, logger)
	ingest := service.NewIngestService(db, identity, membership, logger)
	users := service.NewUserService(db)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	relayer := service.NewOutboxRelayer(db, service.KafkaSender(producer), logger)
	go relayer.Run(ctx)

	r := router.InitRouter(router.Handlers{
		User:        handler.NewUserHandler(users),
		Company:     handler.NewCompanyHandler(company),
		Membership:  handler.NewMembershipHandler(membership),
		Partnership: handler.NewPartnershipHandler(partnership),
		Activity:    handler.NewActivityHandler(activity),
		Ingest:      handler.NewIngestHandler(ingest),
	})

	logger.Info("listening", zap.String("addr", cfg.HTTPAddr))
	if err := r.Run(cfg.HTTPAddr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
