package main

import (
	"context"
	"flag"
	stdlog "log"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/amidulanjana/smart-classroom-sub000/pkg/api"
	"github.com/amidulanjana/smart-classroom-sub000/pkg/audit"
	"github.com/amidulanjana/smart-classroom-sub000/pkg/config"
	"github.com/amidulanjana/smart-classroom-sub000/pkg/notify"
	"github.com/amidulanjana/smart-classroom-sub000/pkg/pickup"
	"github.com/amidulanjana/smart-classroom-sub000/pkg/ratelimit"
	"github.com/amidulanjana/smart-classroom-sub000/pkg/roster"
	"github.com/amidulanjana/smart-classroom-sub000/pkg/system"
)

func main() {
	debug := false
	configPath := ""
	flag.BoolVar(&debug, "debug", false, "enables debug mode")
	flag.StringVar(&configPath, "config", "", "path to the config file")
	flag.Parse()

	log := setupLogger(debug)
	log.With("version", system.Version).Info("Starting pickup escalation service")

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	cfg.Defaults()

	if debug {
		log.Infof("%#v", cfg)
	}

	responseTimeout, err := cfg.ResponseTimeout()
	if err != nil {
		log.Fatalf("Invalid escalation.responseTimeout: %v", err)
	}
	scanInterval, err := cfg.ScanInterval()
	if err != nil {
		log.Fatalf("Invalid escalation.scanInterval: %v", err)
	}

	db, err := openDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	dbRoster := roster.NewDBRoster(db, log)
	if err := dbRoster.Migrate(); err != nil {
		log.Fatalf("Error migrating roster tables: %v", err)
	}
	store := pickup.NewGormStore(db, log)
	if err := store.Migrate(); err != nil {
		log.Fatalf("Error migrating pickup tables: %v", err)
	}

	auditService, err := audit.NewService(cfg.Audit, log.Desugar())
	if err != nil {
		log.Fatalf("Error starting audit service: %v", err)
	}
	defer func() { _ = auditService.Close() }()

	notifier, closeNotify := buildNotifier(cfg, log)
	defer closeNotify()

	engine := pickup.NewEngine(store, dbRoster, notifier, auditService, log, pickup.EngineOptions{
		ResponseTimeout: responseTimeout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go pickup.ScanRoutine{
		Log:      log,
		Engine:   engine,
		Interval: scanInterval,
	}.Run(ctx)

	cache := buildSnapshotCache(cfg.Redis, log)

	limiter := ratelimit.New(ratelimit.DefaultGuardianConfig())
	defer limiter.Stop()

	server := api.NewServer(log.Desugar(), cfg, debug)
	err = server.RegisterAll([]api.APIController{
		pickup.NewController(log, engine, cache, limiter.Middleware()),
	})
	if err != nil {
		log.Fatalf("Error registering controllers: %v", err)
	}

	auditService.Record(ctx, audit.Event{
		Type:  audit.EventSystemStartup,
		Actor: audit.Actor{ID: "system", Kind: "system"},
	})

	server.Listen()
}

func openDatabase(cfg config.Database) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	if cfg.ConnMaxLifetime != "" {
		if lifetime, err := time.ParseDuration(cfg.ConnMaxLifetime); err == nil {
			sqlDB.SetConnMaxLifetime(lifetime)
		}
	}
	return db, nil
}

// buildNotifier assembles the channel fanout. Push is required; mail is
// attached when an SMTP host is configured.
func buildNotifier(cfg config.Config, log *zap.SugaredLogger) (pickup.Notifier, func()) {
	var channels []notify.Channel

	push, err := notify.NewPushChannel(cfg.Push, log)
	if err != nil {
		log.Fatalf("Error connecting to push broker: %v", err)
	}
	channels = append(channels, push)

	if cfg.Mail.Host != "" {
		sender := notify.NewMailSender(cfg.Mail, log)
		channels = append(channels, notify.NewMailChannel(sender, log))
	}

	return notify.NewFanout(log, channels...), push.Close
}

func buildSnapshotCache(cfg config.Redis, log *zap.SugaredLogger) *pickup.SnapshotCache {
	if cfg.Address == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ttl, err := time.ParseDuration(cfg.SnapshotTTL)
	if err != nil {
		ttl = 2 * time.Second
	}
	return pickup.NewSnapshotCache(client, ttl, log)
}

func setupLogger(debug bool) *zap.SugaredLogger {
	var zlog *zap.Logger
	var err error
	if debug {
		zlog, err = zap.NewDevelopment()
	} else {
		zlog, err = zap.NewProduction()
	}
	if err != nil {
		stdlog.Fatalf("failed to set up logger: %v", err)
	}
	return zlog.Sugar()
}
