package main

import (
	"fmt"

	"go.uber.org/zap"

	"dayboard/internal/config"
	"dayboard/internal/logging"
	"dayboard/internal/storage"
)

// session is the configuration, logger and store shared by every command
// that touches data.
type session struct {
	cfg     *config.Config
	dataDir string
	logger  *zap.Logger
	store   *storage.Store
}

// openSession loads the config and opens the configured slot. A recovered
// load is reported on stderr and the session is still usable.
func openSession(o *IO) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	dataDir := cfg.GetDataDir()

	logger, err := logging.New(cfg.Log, dataDir)
	if err != nil {
		return nil, fmt.Errorf("initializing log: %w", err)
	}

	slot, err := storage.NewSlot(cfg.Storage.Backend, dataDir, cfg.SlotName())
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("initializing storage: %w", err)
	}

	store := storage.Open(storage.NewCodec(slot, logger), storage.WithLogger(logger))
	if diag := store.LoadDiagnostic(); diag != nil {
		o.ErrPrintf("Warning: %v\n", diag)
	}

	logger.Debug("session opened",
		zap.String("data_dir", dataDir),
		zap.String("backend", cfg.Storage.Backend),
		zap.String("slot", store.SlotName()))

	return &session{cfg: cfg, dataDir: dataDir, logger: logger, store: store}, nil
}

// Close releases the slot and flushes the log.
func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		s.logger.Warn("closing store", zap.Error(err))
	}
	_ = s.logger.Sync()
}
