package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"VolSurf/internal/domain/repository"
	mid "VolSurf/internal/middleware"
	internalrepo "VolSurf/internal/repository"
	"VolSurf/internal/service/quotefeed"
	"VolSurf/internal/usecase"
	pkgcache "VolSurf/pkg/cache"
	pkgch "VolSurf/pkg/clickhouse"
	"VolSurf/pkg/config"
	pkgkafka "VolSurf/pkg/kafka"
	"VolSurf/pkg/metrics"
	"VolSurf/pkg/server"
)

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS volsurf",
		"CREATE TABLE IF NOT EXISTS volsurf.surface_points (asset String, as_of String, point_key String, level Float64, created_at DateTime) ENGINE=MergeTree ORDER BY (asset, as_of, point_key)",
	}); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideResultStore creates ClickHouse result storage.
func ProvideResultStore(chClient *pkgch.Client, cfg *config.Config) repository.ResultStore {
	return internalrepo.NewClickHouseResultStore(chClient.DB(), cfg.ClickHouse.Database+".surface_points")
}

// ProvideResultPublisher creates Kafka result publisher.
func ProvideResultPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.ResultPublisher {
	return internalrepo.NewKafkaResultPublisher(producer, cfg.Kafka.ResultsTopic)
}

// ProvideResultCache creates the per-group result cache: layered
// memory+Redis when Redis is configured, plain in-memory otherwise.
func ProvideResultCache(cfg *config.Config) (pkgcache.Service, error) {
	if !cfg.Cache.Redis.Enabled {
		return pkgcache.NewMemoryCache(), nil
	}
	host, portStr, err := net.SplitHostPort(cfg.Cache.Redis.Addr)
	if err != nil {
		return nil, fmt.Errorf("cache redis addr: %w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("cache redis port: %w", err)
	}
	c, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
		pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("cache redis: %w", err)
	}
	// Layer a small in-process cache in front of Redis so repeated
	// evaluations of the same group skip the network round trip.
	return pkgcache.NewLayeredCache(c), nil
}

// ProvideSurfaceEvaluator creates the surface evaluator use case.
func ProvideSurfaceEvaluator(
	store repository.ResultStore,
	pub repository.ResultPublisher,
	metrics repository.Metrics,
	cache pkgcache.Service,
	cfg *config.Config,
) *usecase.SurfaceEvaluator {
	ttl := cfg.Cache.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return usecase.NewSurfaceEvaluator(store, pub, metrics, cache, ttl)
}

// ProvideKafkaGroupsHandler registers the handler for the groups topic.
func ProvideKafkaGroupsHandler(evaluator *usecase.SurfaceEvaluator, metrics repository.Metrics, cfg *config.Config) *usecase.KafkaGroupsHandler {
	return usecase.NewKafkaGroupsHandler(cfg.Kafka.GroupsTopic, evaluator, metrics)
}

// ProvideQuoteStream creates the WebSocket quote feed.
func ProvideQuoteStream(cfg *config.Config) repository.QuoteStream {
	return quotefeed.New(
		cfg.QuoteFeed.APIKey,
		cfg.QuoteFeed.WebSocketURL,
		cfg.QuoteFeed.Assets,
		cfg.QuoteFeed.ReconnectDelay,
		cfg.QuoteFeed.PingInterval,
	)
}

// ProvideQuoteCollector creates the quote collector use case.
func ProvideQuoteCollector(
	stream repository.QuoteStream,
	evaluator *usecase.SurfaceEvaluator,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.QuoteCollector {
	c := usecase.NewQuoteCollector(
		stream,
		evaluator,
		metrics,
		cfg.QuoteFeed.FlushInterval,
		cfg.Queries.Deltas,
		cfg.Queries.Times,
	)
	// Buffered, rate-limited pipeline between WebSocket and the collector
	pipe := mid.NewQuotePipeline(c, metrics,
		mid.WithMaxRPS(cfg.QuoteFeed.MaxRPS),
		mid.WithBufferSize(cfg.QuoteFeed.BufferSize),
	)
	c.SetPipeline(pipe)
	return c
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	collector *usecase.QuoteCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaGroupsHandler,
	chClient *pkgch.Client,
	evaluator *usecase.SurfaceEvaluator,
	store repository.ResultStore,
	m repository.Metrics,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(consumerHook(m))
	}
	return server.New(cfg, collector, consumer, kh, chClient, evaluator, store)
}

// consumerHook threads handling latency and trace ids through the consumer
// lifecycle.
func consumerHook(m repository.Metrics) pkgkafka.ConsumerHook {
	return pkgkafka.NewHookChain(pkgkafka.HookFuncs{
		Before: func(ctx context.Context, topic string, km kafkago.Message, data []byte) (context.Context, kafkago.Message, []byte, error) {
			ctx = pkgkafka.WithStartTime(ctx, time.Now())
			ctx = pkgkafka.WithTraceID(ctx, pkgkafka.ExtractTraceID(km))
			return ctx, km, data, nil
		},
		After: func(ctx context.Context, topic string, km kafkago.Message, data []byte, err error) {
			if ts, ok := ctx.Value(pkgkafka.CtxStartTime).(time.Time); ok {
				m.RecordLatency("kafka_handle", time.Since(ts).Seconds())
			}
		},
		Err: func(ctx context.Context, topic string, km kafkago.Message, data []byte, err error) {
			m.RecordError("kafka_handle")
		},
	})
}
