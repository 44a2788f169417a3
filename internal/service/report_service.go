package service

import (
	"context"
	"time"

	"github.com/clinicdesk/clinicdesk/internal/domain/admission"
	"github.com/clinicdesk/clinicdesk/internal/domain/appointment"
	"github.com/clinicdesk/clinicdesk/internal/domain/billing"
	"github.com/clinicdesk/clinicdesk/internal/domain/pharmacy"
)

// Thresholds for the urgent overview.
const (
	longStayDays       = 7
	urgentUnpaidAmount = 50000
)

// Overview is the day's urgent numbers, shown when the application
// opens.
type Overview struct {
	AppointmentsToday int64
	LongStays         int64
	UrgentUnpaid      int64
	LowStockMeds      int64
}

type ReportService struct {
	appointmentRepo appointment.Repository
	admissionRepo   admission.Repository
	billingRepo     billing.Repository
	pharmacyRepo    pharmacy.Repository
}

func NewReportService(
	appointmentRepo appointment.Repository,
	admissionRepo admission.Repository,
	billingRepo billing.Repository,
	pharmacyRepo pharmacy.Repository,
) *ReportService {
	return &ReportService{
		appointmentRepo: appointmentRepo,
		admissionRepo:   admissionRepo,
		billingRepo:     billingRepo,
		pharmacyRepo:    pharmacyRepo,
	}
}

// UrgentOverview gathers the counts that need attention now: today's
// scheduled appointments, stays running longer than a week, unpaid
// invoices with a large outstanding amount, and medications to restock.
func (s *ReportService) UrgentOverview(ctx context.Context) (*Overview, error) {
	ctx, span := tracer.Start(ctx, "report.urgent_overview")
	defer span.End()

	o := &Overview{}
	var err error

	today := time.Now().Format("2006-01-02")
	if o.AppointmentsToday, err = s.appointmentRepo.CountScheduledOn(ctx, today); err != nil {
		return nil, err
	}
	if o.LongStays, err = s.admissionRepo.CountOngoingLongerThan(ctx, longStayDays); err != nil {
		return nil, err
	}
	if o.UrgentUnpaid, err = s.billingRepo.CountUnpaidOver(ctx, urgentUnpaidAmount); err != nil {
		return nil, err
	}
	if o.LowStockMeds, err = s.pharmacyRepo.CountLowStock(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
