package report

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config holds configuration for the monthly report service.
type Config struct {
	// PendingRetentionDays is how long a PENDIENTE reserve may sit
	// before cleanup frees its slot. Default: 31 days.
	PendingRetentionDays int

	// ExportOnStart runs an export immediately on service start.
	ExportOnStart bool

	// OutputPath, when set, also saves each report to disk.
	OutputPath string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		PendingRetentionDays: 31,
	}
}

var reportColumns = []string{
	"Codigo", "Fecha", "Horario", "Cancha", "Cliente", "Tarifa",
	"Precio", "Sena", "Descuento", "Estado", "Creada",
}

// Service exports a monthly Excel of reserves and cleans up stale
// pending rows. Runs on the 1st of each month.
type Service struct {
	config   *Config
	source   ReserveSource
	writer   func() ExcelWriter
	notifier Notifier
	logger   zerolog.Logger
	stopCh   chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	running  bool
}

// NewService creates a new report service.
func NewService(
	config *Config,
	source ReserveSource,
	writerFactory func() ExcelWriter,
	notifier Notifier,
	logger zerolog.Logger,
) *Service {
	if config == nil {
		config = DefaultConfig()
	}
	if config.PendingRetentionDays <= 0 {
		config.PendingRetentionDays = 31
	}

	return &Service{
		config:   config,
		source:   source,
		writer:   writerFactory,
		notifier: notifier,
		logger:   logger.With().Str("component", "report").Logger(),
		stopCh:   make(chan struct{}),
	}
}

// Start begins the monthly scheduler.
func (s *Service) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	if s.config.ExportOnStart {
		go s.RunExportAndCleanup()
	}

	s.wg.Add(1)
	go s.loop()

	s.logger.Info().
		Int("pending_retention_days", s.config.PendingRetentionDays).
		Msg("Report service started")
}

// Stop gracefully stops the service.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()

	s.logger.Info().Msg("Report service stopped")
}

func (s *Service) loop() {
	defer s.wg.Done()

	nextRun := s.nextFirstOfMonth()
	timer := time.NewTimer(time.Until(nextRun))
	defer timer.Stop()

	s.logger.Info().Time("next_run", nextRun).Msg("Next report scheduled")

	for {
		select {
		case <-s.stopCh:
			return
		case <-timer.C:
			s.RunExportAndCleanup()

			nextRun = s.nextFirstOfMonth()
			timer.Reset(time.Until(nextRun))
			s.logger.Info().Time("next_run", nextRun).Msg("Next report scheduled")
		}
	}
}

func (s *Service) nextFirstOfMonth() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month()+1, 1, 0, 1, 0, 0, now.Location())
}

// RunExportAndCleanup performs the export and cleanup immediately.
func (s *Service) RunExportAndCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if err := s.exportPreviousMonth(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Failed to export monthly report")
	}

	if err := s.cleanupStalePending(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Failed to cleanup stale pending reserves")
	}
}

func (s *Service) exportPreviousMonth(ctx context.Context) error {
	prev := time.Now().AddDate(0, -1, 0)
	return s.ExportMonth(ctx, prev.Year(), prev.Month())
}

// ExportMonth builds and delivers the report for one calendar month.
func (s *Service) ExportMonth(ctx context.Context, year int, month time.Month) error {
	if s.source == nil || s.writer == nil {
		return fmt.Errorf("source or writer not configured")
	}

	reserves, err := s.source.GetReservesForMonth(ctx, year, month)
	if err != nil {
		return fmt.Errorf("get reserves: %w", err)
	}

	excel := s.writer()
	if excel == nil {
		return fmt.Errorf("failed to create excel writer")
	}

	if err := excel.AddSheet("Reservas"); err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}
	if err := excel.WriteHeader(reportColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, r := range reserves {
		row := []interface{}{
			r.Code,
			r.Date.Format("2006-01-02"),
			r.Schedule,
			r.CourtID,
			r.CustomerID,
			r.RateName,
			r.Price,
			r.Deposit,
			r.Discount,
			r.Status,
			r.CreatedAt.Format(time.RFC3339),
		}
		if err := excel.WriteRow(row); err != nil {
			s.logger.Error().Err(err).Str("code", r.Code).Msg("Failed to write report row")
		}
	}

	filename := GenerateFilename(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))

	if s.config.OutputPath != "" {
		if err := os.MkdirAll(s.config.OutputPath, 0o755); err != nil {
			s.logger.Error().Err(err).Msg("Failed to create report directory")
		} else if err := excel.SaveToFile(filepath.Join(s.config.OutputPath, filename)); err != nil {
			s.logger.Error().Err(err).Msg("Failed to save report to disk")
		}
	}

	if s.notifier != nil {
		var buf bytes.Buffer
		if err := excel.Save(&buf); err != nil {
			return fmt.Errorf("save excel: %w", err)
		}
		caption := fmt.Sprintf("Reporte mensual de reservas: %s %d (%d filas)", MonthNames[month], year, len(reserves))
		if err := s.notifier.SendDocument(ctx, filename, &buf, caption); err != nil {
			return fmt.Errorf("send document: %w", err)
		}
	}

	s.logger.Info().Str("filename", filename).Int("rows", len(reserves)).Msg("Monthly report exported")
	return nil
}

func (s *Service) cleanupStalePending(ctx context.Context) error {
	retention := time.Duration(s.config.PendingRetentionDays) * 24 * time.Hour
	deleted, err := s.source.DeleteOldPending(ctx, retention)
	if err != nil {
		return fmt.Errorf("delete old pending: %w", err)
	}

	s.logger.Info().
		Int64("deleted", deleted).
		Int("retention_days", s.config.PendingRetentionDays).
		Msg("Stale pending reserves cleaned up")

	return nil
}
