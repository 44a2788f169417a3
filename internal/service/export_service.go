package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/clinicdesk/clinicdesk/internal/domain"
	"github.com/clinicdesk/clinicdesk/internal/export"
	"github.com/clinicdesk/clinicdesk/pkg/metrics"
)

type ExportService struct {
	exporter *export.Exporter
	auditSvc *AuditService
	col      *metrics.Collector
	log      *zap.Logger
}

func NewExportService(exporter *export.Exporter, auditSvc *AuditService, col *metrics.Collector, log *zap.Logger) *ExportService {
	return &ExportService{exporter: exporter, auditSvc: auditSvc, col: col, log: log}
}

// ExportCSV writes a CSV snapshot of one table and returns its path.
func (s *ExportService) ExportCSV(ctx context.Context, table string, sess domain.Session) (string, error) {
	ctx, span := tracer.Start(ctx, "export.csv")
	defer span.End()

	path, rowCount, err := s.exporter.CSV(ctx, table)
	if err != nil {
		s.log.Error("csv export failed", zap.String("table", table), zap.Error(err))
		return "", err
	}

	s.col.ExportsTotal.WithLabelValues("csv").Inc()
	s.auditSvc.Record(sess, domain.ActionExport, table, 0, fmt.Sprintf("csv export to %s (%d rows)", path, rowCount))
	s.log.Info("table exported",
		zap.String("table", table),
		zap.String("path", path),
		zap.Int("rows", rowCount))
	return path, nil
}

// ExportXLSX writes a spreadsheet snapshot of one table and returns its
// path.
func (s *ExportService) ExportXLSX(ctx context.Context, table string, sess domain.Session) (string, error) {
	ctx, span := tracer.Start(ctx, "export.xlsx")
	defer span.End()

	path, rowCount, err := s.exporter.XLSX(ctx, table)
	if err != nil {
		s.log.Error("xlsx export failed", zap.String("table", table), zap.Error(err))
		return "", err
	}

	s.col.ExportsTotal.WithLabelValues("xlsx").Inc()
	s.auditSvc.Record(sess, domain.ActionExport, table, 0, fmt.Sprintf("xlsx export to %s (%d rows)", path, rowCount))
	s.log.Info("table exported",
		zap.String("table", table),
		zap.String("path", path),
		zap.Int("rows", rowCount))
	return path, nil
}
