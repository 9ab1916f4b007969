package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tron-PC28/TRON-HASH-PC28/internal/gameconfig"
	"github.com/tron-PC28/TRON-HASH-PC28/internal/history"
	"github.com/tron-PC28/TRON-HASH-PC28/internal/httpapi"
	"github.com/tron-PC28/TRON-HASH-PC28/internal/ledger"
	"github.com/tron-PC28/TRON-HASH-PC28/internal/settle"
	sharedcache "github.com/tron-PC28/TRON-HASH-PC28/internal/shared/cache"
	"github.com/tron-PC28/TRON-HASH-PC28/internal/shared/config"
	"github.com/tron-PC28/TRON-HASH-PC28/internal/shared/db"
	sharedkafka "github.com/tron-PC28/TRON-HASH-PC28/internal/shared/kafka"
	"github.com/tron-PC28/TRON-HASH-PC28/internal/shared/logger"
	"github.com/tron-PC28/TRON-HASH-PC28/internal/shared/metrics"
	"github.com/tron-PC28/TRON-HASH-PC28/internal/tron"
)

// topicPublisher binds one Kafka writer to the Publisher interfaces used
// across the daemon.
type topicPublisher struct{ w *sharedkafka.Writer }

func (p topicPublisher) Publish(ctx context.Context, key string, payload []byte) error {
	return sharedkafka.WriteJSON(ctx, p.w, key, payload)
}

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Dependencies: Postgres (settled history), Redis (latest-result cache).
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("postgres connect", zap.Error(err))
	}
	defer pg.Close()

	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer redisClient.Close()

	histPG := history.NewPostgres(pg)
	if err := histPG.EnsureSchema(ctx); err != nil {
		log.Fatal("ensure history schema", zap.Error(err))
	}
	histCache := history.NewCache(redisClient, 24*time.Hour)

	// Kafka writers, one per emitted event topic.
	wAdvanced := sharedkafka.NewWriter(cfg.KafkaBrokers, cfg.TopicRoundAdvanced)
	wSettled := sharedkafka.NewWriter(cfg.KafkaBrokers, cfg.TopicRoundSettled)
	wRejected := sharedkafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetRejected)
	defer wAdvanced.Close()
	defer wSettled.Close()
	defer wRejected.Close()

	// Core state: config store, ledger with opening balances.
	games := gameconfig.NewStore()

	playerBal, err := decimal.NewFromString(cfg.InitialPlayerBalance)
	if err != nil {
		log.Fatal("bad INITIAL_PLAYER_BALANCE", zap.Error(err))
	}
	houseBal, err := decimal.NewFromString(cfg.InitialHouseBalance)
	if err != nil {
		log.Fatal("bad INITIAL_HOUSE_BALANCE", zap.Error(err))
	}
	led := ledger.New(playerBal, houseBal)

	// Prometheus counters wired into the poller and engine via callbacks.
	ticks := prometheus.NewCounter(prometheus.CounterOpts{Name: "pc28_poll_ticks_total", Help: "poller cycles"})
	pollErrors := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "pc28_poll_errors_total", Help: "poller errors by stage"}, []string{"stage"})
	roundsSettled := prometheus.NewCounter(prometheus.CounterOpts{Name: "pc28_rounds_settled_total", Help: "settled rounds"})
	wagersSettled := prometheus.NewCounter(prometheus.CounterOpts{Name: "pc28_wagers_settled_total", Help: "settled wagers"})
	settleErrors := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "pc28_settle_errors_total", Help: "settlement side-effect errors by stage"}, []string{"stage"})
	prometheus.MustRegister(ticks, pollErrors, roundsSettled, wagersSettled, settleErrors)

	engine := settle.NewEngine(log, led, games,
		&history.Recorder{PG: histPG, Cache: histCache},
		topicPublisher{wSettled},
	)
	engine.OnSettled = func(n int) {
		roundsSettled.Inc()
		wagersSettled.Add(float64(n))
	}
	engine.OnError = func(stage string) { settleErrors.WithLabelValues(stage).Inc() }

	poller := &tron.Poller{
		Log:            log,
		Chain:          tron.NewClient(cfg.TronNodeURL, cfg.FetchTimeout),
		Engine:         engine,
		Publ:           topicPublisher{wAdvanced},
		Interval:       cfg.PollInterval,
		BlocksPerIssue: cfg.BlocksPerIssue,
		LockMargin:     cfg.LockMargin,
		OnTick:         func() { ticks.Inc() },
		OnError:        func(stage string) { pollErrors.WithLabelValues(stage).Inc() },
	}

	// Metrics/health side server.
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return redisClient.Ping(ctx).Err()
	})
	defer metricsSrv.Close()

	// Command API.
	api := &httpapi.Server{
		Log:     log,
		Games:   games,
		Ledger:  led,
		Clock:   poller,
		Reports: histPG,
		Publ:    topicPublisher{wRejected},
	}
	apiSrv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: api.Router()}
	go func() {
		log.Info("command api listening", zap.String("addr", apiSrv.Addr))
		if err := apiSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("command api stopped", zap.Error(err))
			cancel()
		}
	}()

	log.Info("lotteryd started",
		zap.String("node", cfg.TronNodeURL),
		zap.Int64("blocks_per_issue", cfg.BlocksPerIssue),
		zap.Int64("lock_margin", cfg.LockMargin),
	)
	if err := poller.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("poller stopped with error", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = apiSrv.Shutdown(shutdownCtx)
	log.Info("lotteryd stopped")
}
