// Package session holds the dashboard's single in-memory product snapshot
// and serializes the user actions that read or replace it.
package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/sheetlink/cmd/application"
	"github.com/agentstation/sheetlink/pkg/reconciler"
	"github.com/agentstation/sheetlink/pkg/records"
)

// Session wraps a Reconciler for one dashboard process. One action runs
// at a time; the snapshot is replaced only by a successful load.
type Session struct {
	mu     sync.Mutex
	rec    application.Reconciler
	snap   *reconciler.Snapshot
	logger *zerolog.Logger
}

// New creates a Session. The snapshot is loaded on first use.
func New(rec application.Reconciler, logger *zerolog.Logger) *Session {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Session{rec: rec, logger: logger}
}

// Config returns the reconciler configuration.
func (s *Session) Config() reconciler.Config {
	return s.rec.Config()
}

// Snapshot returns the current snapshot, loading one if none is held.
func (s *Session) Snapshot(ctx context.Context) (*reconciler.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap != nil {
		return s.snap, nil
	}
	return s.load(ctx)
}

// Current returns the held snapshot without loading, or nil.
func (s *Session) Current() *reconciler.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Refresh discards the held snapshot and loads a new one. On failure the
// previous snapshot is kept.
func (s *Session) Refresh(ctx context.Context) (*reconciler.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Session) load(ctx context.Context) (*reconciler.Snapshot, error) {
	snap, err := s.rec.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.snap = snap
	return snap, nil
}

// Update writes value to productID's target attribute and keeps the
// refetched snapshot.
func (s *Session) Update(ctx context.Context, productID, value string) (*records.WriteResult, *reconciler.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, snap, err := s.rec.Update(ctx, productID, value)
	if snap != nil {
		s.snap = snap
	}
	return result, snap, err
}

// Export writes the held snapshot to the sheet, loading one first if
// none is held.
func (s *Session) Export(ctx context.Context, ref records.SheetRef) (*reconciler.ExportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snap == nil {
		if _, err := s.load(ctx); err != nil {
			return nil, err
		}
	}
	return s.rec.Export(ctx, ref, s.snap)
}

// Import writes the sheet's value for productID into the inventory and
// then reloads the snapshot. A reload failure is logged and the write
// result is still returned.
func (s *Session) Import(ctx context.Context, ref records.SheetRef, productID string) (*records.WriteResult, *reconciler.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.rec.Import(ctx, ref, productID)
	if err != nil {
		return nil, nil, err
	}
	snap, err := s.load(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Reload after import failed")
		return result, nil, nil
	}
	return result, snap, nil
}

// Sheet reads and validates a worksheet.
func (s *Session) Sheet(ctx context.Context, ref records.SheetRef) (*records.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.LoadSheet(ctx, ref)
}
