package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/IBM/sarama"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/PabloIb21/teslo-orders-api/configs"
	"github.com/PabloIb21/teslo-orders-api/internal/adapter/cache"
	apihttp "github.com/PabloIb21/teslo-orders-api/internal/adapter/http"
	"github.com/PabloIb21/teslo-orders-api/internal/adapter/http/middleware"
	"github.com/PabloIb21/teslo-orders-api/internal/adapter/kafka"
	"github.com/PabloIb21/teslo-orders-api/internal/adapter/queue"
	"github.com/PabloIb21/teslo-orders-api/internal/adapter/repo"
	"github.com/PabloIb21/teslo-orders-api/internal/logging"
	"github.com/PabloIb21/teslo-orders-api/internal/security"
	"github.com/PabloIb21/teslo-orders-api/internal/usecase"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	log := logging.Init(cfg.App.Name, cfg.App.LogFile, cfg.App.LogLevel)

	// init database
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return nil, nil, err
	}
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, nil, err
	}

	// init redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, nil, err
	}

	// init rabbitmq producer
	conn, err := amqp.Dial(cfg.Rabbit.URL)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, err
	}
	producer, err := queue.NewRabbitProducer(ch, cfg.Rabbit.Exchange)
	if err != nil {
		return nil, nil, err
	}

	// repos + caches
	orderRepo := repo.NewMySQLOrderRepo(db)
	catalogRepo := repo.NewMySQLCatalogRepo(db)
	userRepo := repo.NewMySQLUserRepo(db)
	priceCache := cache.NewRedisPriceCache(rdb, catalogRepo, cfg.Redis.PriceTTL)
	statusCache := cache.NewRedisStatusCache(rdb, cfg.Redis.StatusTTL)

	// use cases
	verifier := usecase.NewPriceVerifier(priceCache)
	createUC := usecase.NewCreateOrder(orderRepo, verifier, producer, cfg.Pricing.TaxRate)
	confirmUC := usecase.NewConfirmPayment(orderRepo, producer, statusCache, cfg.Payment.SettledStatus)
	queries := usecase.NewOrderQueries(orderRepo)
	authUC := usecase.NewAuth(userRepo)

	// webhook signature material
	signer, err := security.NewWebhookSigner(cfg.Payment.WebhookSecret)
	if err != nil {
		return nil, nil, err
	}

	// kafka listener for processor capture notifications
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	group, err := setupCaptureListener(consumerCtx, cfg, confirmUC)
	if err != nil {
		stopConsumer()
		return nil, nil, err
	}
	log.Info("orders-api wired", "http_addr", cfg.App.HTTPAddr)

	// handlers + router + middleware
	oh := apihttp.NewOrderHandler(createUC, queries)
	ph := apihttp.NewPaymentHandler(confirmUC)
	ah := apihttp.NewAuthHandler(cfg, authUC)
	catalogHandler := apihttp.NewCatalogHandler(catalogRepo)
	authn := middleware.NewAuthn(cfg)
	wv := middleware.NewWebhookVerify(signer)
	router := apihttp.NewRouter(oh, ph, ah, catalogHandler, authn, wv)

	cleanup := func() {
		stopConsumer()
		_ = group.Close()
		_ = ch.Close()
		_ = conn.Close()
		_ = rdb.Close()
		_ = db.Close()
	}

	return &App{Router: router}, cleanup, nil
}

func setupCaptureListener(ctx context.Context, cfg configs.Config, confirm *usecase.ConfirmPayment) (sarama.ConsumerGroup, error) {
	group, err := kafka.NewGroup(cfg.Kafka.Brokers, cfg.Kafka.GroupID)
	if err != nil {
		return nil, err
	}

	h := kafka.NewPaymentCapturedHandler(confirm, logging.New("kafka"))
	consumer := kafka.NewConsumer(group, []string{cfg.Kafka.CaptureTopic}, h.Handle, logging.New("kafka"))

	go func() {
		if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
			logging.New("kafka").Error("capture consumer stopped", "err", err)
		}
	}()
	return group, nil
}
