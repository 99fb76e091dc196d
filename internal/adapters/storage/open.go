// Package storage assembles the record sinks selected by configuration.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/PabloGalante/callorder-agent/internal/adapters/broker"
	"github.com/PabloGalante/callorder-agent/internal/adapters/storage/file"
	firestorestore "github.com/PabloGalante/callorder-agent/internal/adapters/storage/firestore"
	memstore "github.com/PabloGalante/callorder-agent/internal/adapters/storage/memory"
	"github.com/PabloGalante/callorder-agent/internal/adapters/storage/multi"
	"github.com/PabloGalante/callorder-agent/internal/adapters/storage/sqlstore"
	"github.com/PabloGalante/callorder-agent/internal/config"
	"github.com/PabloGalante/callorder-agent/internal/domain"
	"github.com/PabloGalante/callorder-agent/internal/menu"
	"github.com/PabloGalante/callorder-agent/internal/observability"
)

// Clearer is implemented by stores that can be wiped.
type Clearer interface {
	Clear() int
}

// Backend is the set of sinks a process writes finished calls to.
type Backend struct {
	Sink    *multi.Sink
	Lister  domain.RecordLister // nil when the primary store cannot list
	Clearer Clearer             // nil when the primary store cannot be wiped
	Files   *file.Store         // set for the file backend
}

// Open builds the primary store named by cfg.StorageBackend and, when
// cfg.AMQPURL is set, an order event publisher next to it.
func Open(ctx context.Context, cfg *config.Config, src menu.Source) (*Backend, error) {
	log := observability.LoggerFromContext(ctx)
	b := &Backend{}
	var sinks []domain.RecordSink

	switch cfg.StorageBackend {
	case "memory":
		log.Info("using in-memory call storage")
		store := memstore.NewRecordStore()
		sinks = append(sinks, store)
		b.Lister, b.Clearer = store, store

	case "file":
		log.Info("using file call storage", "dir", cfg.OrdersDir)
		store, err := file.NewStore(cfg.OrdersDir, src)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, store)
		b.Lister, b.Files = store, store

	case "firestore":
		log.Info("using firestore call storage", "project", cfg.GCPProjectID)
		store, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, store)
		b.Lister = store

	case sqlstore.DriverSQLite, sqlstore.DriverPostgres:
		log.Info("using sql call storage", "driver", cfg.StorageBackend)
		store, err := sqlstore.Open(ctx, cfg.StorageBackend, cfg.SQLDSN)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, store)
		b.Lister, b.Clearer = store, store

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	if cfg.AMQPURL != "" {
		pub, err := broker.NewAMQPPublisher(cfg.AMQPURL)
		if err != nil {
			closeErr := multi.New(sinks...).Close()
			return nil, errors.Join(fmt.Errorf("connect to broker: %w", err), closeErr)
		}
		log.Info("publishing order events", "exchange", cfg.AMQPExchange)
		sinks = append(sinks, broker.NewOrderEvents(pub, cfg.AMQPExchange))
	}

	b.Sink = multi.New(sinks...)
	return b, nil
}

func (b *Backend) Close() error {
	return b.Sink.Close()
}
