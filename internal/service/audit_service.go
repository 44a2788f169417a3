package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/clinicdesk/clinicdesk/internal/domain"
	"github.com/clinicdesk/clinicdesk/pkg/metrics"
)

type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}

// AuditService appends trail records off the caller's path. Record never
// returns an error and never blocks: a failed or dropped entry surfaces
// only as a log line and a counter.
type AuditService struct {
	repo    AuditRepository
	log     *zap.Logger
	col     *metrics.Collector
	entries chan *domain.AuditLog
	done    chan struct{}
}

const auditBufferSize = 1024

func NewAuditService(repo AuditRepository, col *metrics.Collector, log *zap.Logger) *AuditService {
	svc := &AuditService{
		repo:    repo,
		log:     log,
		col:     col,
		entries: make(chan *domain.AuditLog, auditBufferSize),
		done:    make(chan struct{}),
	}
	go svc.worker()
	return svc
}

// Record enqueues one trail entry for the acting session.
func (s *AuditService) Record(sess domain.Session, action domain.AuditAction, table string, recordID uint, details string) {
	entry := &domain.AuditLog{
		StaffID:     sess.StaffID,
		StaffRole:   sess.Role,
		Action:      action,
		TargetTable: table,
		RecordID:    recordID,
		Details:     details,
	}

	select {
	case s.entries <- entry:
	default:
		s.col.AuditBufferDropped.Inc()
		s.log.Warn("audit log buffer full, dropping entry",
			zap.String("action", string(action)),
			zap.String("table", table),
		)
	}
}

func (s *AuditService) Shutdown() {
	close(s.entries)
	select {
	case <-s.done:
	case <-time.After(10 * time.Second):
		s.log.Warn("audit service shutdown timed out; some entries may be lost")
	}
}

func (s *AuditService) worker() {
	defer close(s.done)
	for entry := range s.entries {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.repo.Create(ctx, entry); err != nil {
			s.log.Error("failed to persist audit log", zap.Error(err))
		} else {
			s.col.AuditEntriesTotal.Inc()
		}
		cancel()
	}
}
