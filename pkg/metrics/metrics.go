package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Collector struct {
	PatientsRegisteredTotal prometheus.Counter
	ConsultationsTotal      prometheus.Counter
	AdmissionsTotal         *prometheus.CounterVec
	AppointmentsTotal       *prometheus.CounterVec
	InvoicesCreatedTotal    prometheus.Counter
	PaymentsTotal           prometheus.Counter
	VaccinationsTotal       prometheus.Counter
	ExportsTotal            *prometheus.CounterVec
	BackupsTotal            *prometheus.CounterVec

	AuditEntriesTotal  prometheus.Counter
	AuditBufferDropped prometheus.Counter
}

func NewCollector(serviceName string) *Collector {
	return &Collector{
		PatientsRegisteredTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "clinical",
			Name:      "patients_registered_total",
			Help:      "Total number of patient records created.",
		}),

		ConsultationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "clinical",
			Name:      "consultations_total",
			Help:      "Total consultations recorded.",
		}),

		AdmissionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "clinical",
			Name:      "admissions_total",
			Help:      "Total admission attempts by outcome.",
		}, []string{"outcome"}),

		AppointmentsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "clinical",
			Name:      "appointments_total",
			Help:      "Total appointments by final status.",
		}, []string{"status"}),

		InvoicesCreatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "billing",
			Name:      "invoices_created_total",
			Help:      "Total invoices created.",
		}),

		PaymentsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "billing",
			Name:      "payments_total",
			Help:      "Total payments registered.",
		}),

		VaccinationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "clinical",
			Name:      "vaccinations_total",
			Help:      "Total vaccination records appended.",
		}),

		ExportsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "io",
			Name:      "exports_total",
			Help:      "Total table exports by format.",
		}, []string{"format"}),

		BackupsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "io",
			Name:      "backups_total",
			Help:      "Total database backups by outcome.",
		}, []string{"outcome"}),

		AuditEntriesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "audit",
			Name:      "entries_total",
			Help:      "Total audit log entries written.",
		}),

		AuditBufferDropped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "audit",
			Name:      "buffer_dropped_total",
			Help:      "Audit entries dropped due to full buffer. Alert if non-zero.",
		}),
	}
}
