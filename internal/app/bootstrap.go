package app

import (
	"context"
	"log/slog"

	"txDashApp/config"
	"txDashApp/internal/app/dto"
	"txDashApp/internal/auth"
	"txDashApp/internal/domain/model"
	"txDashApp/internal/domain/repository"
	"txDashApp/internal/domain/service"
	ws "txDashApp/internal/handlers/websocket"
	redisrepo "txDashApp/internal/infrastructure/cache"
	"txDashApp/internal/infrastructure/queue"
	chrepo "txDashApp/internal/infrastructure/storage"
)

// Processor defines the common interface for event processors
type Processor interface {
	Run(ctx context.Context) error
}

// AppContext holds all app dependencies
type AppContext struct {
	Config         *config.Config
	Authenticator  *auth.Authenticator
	TxService      *service.StoredTransactionService
	Broadcaster    *ws.WebSocketBroadcaster
	EventProcessor Processor
	KafkaConsumer  *queue.KafkaConsumer
	KafkaProducer  *queue.KafkaProducer
	TxCh           chan *dto.TransactionDTO
	log            *slog.Logger
}

// NewApp initializes the app context with all dependencies
func NewApp(ctx context.Context, log *slog.Logger, cfg *config.Config) (*AppContext, error) {
	app := &AppContext{Config: cfg, log: log}

	// User store and token signing
	app.Authenticator = auth.NewAuthenticator(cfg.JWTSecret, cfg.TokenExpiry)
	if err := app.Authenticator.AddUser(cfg.DemoUsername, "John Doe", cfg.DemoPassword); err != nil {
		return nil, err
	}
	log.Info("authenticator initialized", "user", cfg.DemoUsername)

	// Initialize cache implementation (Redis)
	var txCache repository.TransactionCache
	txCache = redisrepo.NewRedisRepository(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	log.Info("Redis cache initialized", "addr", cfg.RedisAddr)

	// Try to initialize persistent storage implementation (ClickHouse)
	var txPersistence repository.TransactionPersistence
	chConfig := chrepo.ClickHouseConfig{
		Addr:     cfg.ClickhouseAddr,
		Username: cfg.ClickhouseUsername,
		Password: cfg.ClickhousePassword,
		Timeout:  cfg.ClickhouseTimeout,
	}
	clickhouseRepo, err := chrepo.NewClickHouseRepository(chConfig)
	if err != nil {
		log.Warn("failed to connect to ClickHouse, continuing with Redis only", "err", err)
	} else {
		txPersistence = clickhouseRepo
		log.Info("ClickHouse persistent storage initialized")
	}

	app.TxService = service.NewStoredTransactionService(txCache, txPersistence)

	// Setup broadcaster; the websocket endpoint requires a valid access token
	app.Broadcaster = ws.NewWebSocketBroadcaster(app.Authenticator.VerifyToken)

	// The consumer is plumbed into the processor so offsets are acknowledged
	// only after processing; it stays nil on the direct-channel path
	var txConsumer queue.TransactionConsumer
	if cfg.KafkaEnabled {
		log.Info("using Kafka for event transport", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)

		kafkaConfig := queue.KafkaConfig{
			Brokers:       cfg.KafkaBrokers,
			Topic:         cfg.KafkaTopic,
			ConsumerGroup: cfg.KafkaConsumerGroup,
			BatchSize:     cfg.KafkaBatchSize,
			BatchTimeout:  cfg.KafkaBatchTimeout,
		}

		app.KafkaConsumer = queue.NewKafkaConsumer(kafkaConfig)
		txChannel, err := app.KafkaConsumer.Subscribe(ctx)
		if err != nil {
			return nil, err
		}
		app.TxCh = convertTransactionChannel(txChannel, cfg.EventBufferSize)
		app.KafkaProducer = queue.NewKafkaProducer(kafkaConfig)
		txConsumer = app.KafkaConsumer
	} else {
		log.Info("Kafka disabled, using direct channel")
		app.TxCh = make(chan *dto.TransactionDTO, cfg.EventBufferSize)
	}

	app.EventProcessor = NewEventProcessor(app.TxCh, app.TxService, app.Broadcaster, txConsumer)

	return app, nil
}

// convertTransactionChannel converts a channel of domain models to a channel of DTOs
func convertTransactionChannel(modelCh <-chan *model.Transaction, bufferSize int) chan *dto.TransactionDTO {
	dtoCh := make(chan *dto.TransactionDTO, bufferSize)

	go func() {
		for tx := range modelCh {
			if tx != nil {
				dtoCh <- dto.FromModel(tx)
			}
		}
		close(dtoCh)
	}()

	return dtoCh
}

// Cleanup performs graceful shutdown of all components
func (a *AppContext) Cleanup(ctx context.Context) {
	if a.KafkaConsumer != nil {
		a.log.Info("closing Kafka consumer")
		if err := a.KafkaConsumer.Close(); err != nil {
			a.log.Error("error closing Kafka consumer", "err", err)
		}
	}

	if a.KafkaProducer != nil {
		a.log.Info("closing Kafka producer")
		if err := a.KafkaProducer.Close(); err != nil {
			a.log.Error("error closing Kafka producer", "err", err)
		}
	}

	if a.TxCh != nil && a.KafkaConsumer == nil {
		close(a.TxCh)
	}

	a.log.Info("all resources cleaned up")
}
