package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/clinicdesk/clinicdesk/internal/domain"
	"github.com/clinicdesk/clinicdesk/internal/domain/admission"
	"github.com/clinicdesk/clinicdesk/internal/domain/appointment"
	"github.com/clinicdesk/clinicdesk/internal/domain/billing"
	"github.com/clinicdesk/clinicdesk/internal/domain/patient"
	"github.com/clinicdesk/clinicdesk/internal/domain/vaccination"
	"github.com/clinicdesk/clinicdesk/pkg/metrics"
)

// The prometheus default registry rejects duplicate metric names, so
// the whole test binary shares one collector.
var testCollector = metrics.NewCollector("clinicdesk_test")

func newTestAudit() *AuditService {
	return NewAuditService(&fakeAuditRepo{}, testCollector, zap.NewNop())
}

func staffSession() domain.Session {
	return domain.Session{StaffID: 2, Email: "nurse@clinic.local", Role: domain.RoleStaff, Name: "Test Nurse",
		ExpiresAt: time.Now().Add(time.Hour)}
}

func adminSession() domain.Session {
	s := staffSession()
	s.StaffID = 1
	s.Role = domain.RoleAdmin
	return s
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
	err     error
}

func (f *fakeAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepo) all() []*domain.AuditLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*domain.AuditLog(nil), f.entries...)
}

// fakePatientRepo keeps patients in a slice and assigns file numbers
// the way the real store does, from the row sequence.
type fakePatientRepo struct {
	patients []*patient.Patient
	err      error
}

func (f *fakePatientRepo) Create(ctx context.Context, p *patient.Patient) error {
	if f.err != nil {
		return f.err
	}
	p.ID = uint(len(f.patients) + 1)
	p.FileNumber = patient.FileNumberFor(p.Category, time.Now(), p.ID)
	p.CreatedAt = time.Now()
	f.patients = append(f.patients, p)
	return nil
}

func (f *fakePatientRepo) GetByID(ctx context.Context, id uint) (*patient.Patient, error) {
	for _, p := range f.patients {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, patient.ErrPatientNotFound
}

func (f *fakePatientRepo) GetByFileNumber(ctx context.Context, fileNumber string) (*patient.Patient, error) {
	for _, p := range f.patients {
		if p.FileNumber == fileNumber {
			return p, nil
		}
	}
	return nil, patient.ErrPatientNotFound
}

func (f *fakePatientRepo) Update(ctx context.Context, id uint, cmd *patient.UpdatePatientCommand) (*patient.Patient, error) {
	p, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cmd.Phone != nil {
		p.Phone = *cmd.Phone
	}
	if cmd.Address != nil {
		p.Address = *cmd.Address
	}
	return p, nil
}

func (f *fakePatientRepo) Search(ctx context.Context, q *patient.SearchQuery) ([]*patient.Patient, error) {
	return f.patients, nil
}

type fakeAdmissionRepo struct {
	stays []*admission.Stay
	rooms []*admission.Room
}

func (f *fakeAdmissionRepo) Admit(ctx context.Context, stay *admission.Stay) error {
	for _, s := range f.stays {
		if s.PatientID == stay.PatientID && s.Status == admission.StatusOngoing {
			return admission.ErrAlreadyAdmitted
		}
	}
	if stay.RoomID != nil {
		room := f.roomByID(*stay.RoomID)
		if room == nil {
			return admission.ErrRoomNotFound
		}
		if room.AvailableBeds == 0 {
			return admission.ErrNoBedsAvailable
		}
		room.AvailableBeds--
	}
	stay.ID = uint(len(f.stays) + 1)
	f.stays = append(f.stays, stay)
	return nil
}

func (f *fakeAdmissionRepo) Discharge(ctx context.Context, patientID uint) (*admission.Stay, error) {
	for _, s := range f.stays {
		if s.PatientID == patientID && s.Status == admission.StatusOngoing {
			now := time.Now()
			s.Status = admission.StatusDischarged
			s.DischargedAt = &now
			if s.RoomID != nil {
				if room := f.roomByID(*s.RoomID); room != nil {
					room.AvailableBeds++
				}
			}
			return s, nil
		}
	}
	return nil, admission.ErrStayNotFound
}

func (f *fakeAdmissionRepo) GetOngoingByPatient(ctx context.Context, patientID uint) (*admission.Stay, error) {
	for _, s := range f.stays {
		if s.PatientID == patientID && s.Status == admission.StatusOngoing {
			return s, nil
		}
	}
	return nil, admission.ErrStayNotFound
}

func (f *fakeAdmissionRepo) ListOngoing(ctx context.Context) ([]*admission.Stay, error) {
	var out []*admission.Stay
	for _, s := range f.stays {
		if s.Status == admission.StatusOngoing {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeAdmissionRepo) CountOngoingLongerThan(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	var n int64
	for _, s := range f.stays {
		if s.Status == admission.StatusOngoing && s.AdmittedAt.Before(cutoff) {
			n++
		}
	}
	return n, nil
}

func (f *fakeAdmissionRepo) CreateRoom(ctx context.Context, room *admission.Room) error {
	for _, r := range f.rooms {
		if r.Number == room.Number {
			return admission.ErrDuplicateRoom
		}
	}
	room.ID = uint(len(f.rooms) + 1)
	f.rooms = append(f.rooms, room)
	return nil
}

func (f *fakeAdmissionRepo) GetRoomByNumber(ctx context.Context, number string) (*admission.Room, error) {
	for _, r := range f.rooms {
		if r.Number == number {
			return r, nil
		}
	}
	return nil, admission.ErrRoomNotFound
}

func (f *fakeAdmissionRepo) ListRooms(ctx context.Context) ([]*admission.Room, error) {
	return f.rooms, nil
}

func (f *fakeAdmissionRepo) CreateDepartment(ctx context.Context, d *admission.Department) error {
	return nil
}

func (f *fakeAdmissionRepo) ListDepartments(ctx context.Context) ([]*admission.Department, error) {
	return nil, nil
}

func (f *fakeAdmissionRepo) roomByID(id uint) *admission.Room {
	for _, r := range f.rooms {
		if r.ID == id {
			return r
		}
	}
	return nil
}

type fakeAppointmentRepo struct {
	appointments []*appointment.Appointment
}

func (f *fakeAppointmentRepo) Create(ctx context.Context, a *appointment.Appointment) error {
	for _, x := range f.appointments {
		if x.Date == a.Date && x.Time == a.Time && x.Status == appointment.StatusScheduled {
			return appointment.ErrSlotTaken
		}
	}
	a.ID = uint(len(f.appointments) + 1)
	f.appointments = append(f.appointments, a)
	return nil
}

func (f *fakeAppointmentRepo) GetByID(ctx context.Context, id uint) (*appointment.Appointment, error) {
	for _, a := range f.appointments {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, appointment.ErrAppointmentNotFound
}

func (f *fakeAppointmentRepo) UpdateStatus(ctx context.Context, a *appointment.Appointment) error {
	stored, err := f.GetByID(ctx, a.ID)
	if err != nil {
		return err
	}
	stored.Status = a.Status
	return nil
}

func (f *fakeAppointmentRepo) ListByDate(ctx context.Context, date string) ([]*appointment.Appointment, error) {
	var out []*appointment.Appointment
	for _, a := range f.appointments {
		if a.Date == date {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) CountScheduledOn(ctx context.Context, date string) (int64, error) {
	var n int64
	for _, a := range f.appointments {
		if a.Date == date && a.Status == appointment.StatusScheduled {
			n++
		}
	}
	return n, nil
}

type fakeBillingRepo struct {
	invoices []*billing.Invoice
}

func (f *fakeBillingRepo) Create(ctx context.Context, inv *billing.Invoice) error {
	inv.ID = uint(len(f.invoices) + 1)
	inv.Number = billing.InvoiceNumberFor(time.Now(), inv.ID)
	inv.CreatedAt = time.Now()
	f.invoices = append(f.invoices, inv)
	return nil
}

func (f *fakeBillingRepo) GetByNumber(ctx context.Context, number string) (*billing.Invoice, error) {
	for _, inv := range f.invoices {
		if inv.Number == number {
			return inv, nil
		}
	}
	return nil, billing.ErrInvoiceNotFound
}

func (f *fakeBillingRepo) RegisterPayment(ctx context.Context, number string, fn func(*billing.Invoice) error) (*billing.Invoice, error) {
	inv, err := f.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if err := fn(inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (f *fakeBillingRepo) ListUnpaid(ctx context.Context) ([]*billing.Invoice, error) {
	var out []*billing.Invoice
	for _, inv := range f.invoices {
		if inv.Status != billing.StatusPaid {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeBillingRepo) CountUnpaidOver(ctx context.Context, amount float64) (int64, error) {
	var n int64
	for _, inv := range f.invoices {
		if inv.Status != billing.StatusPaid && inv.Remaining > amount {
			n++
		}
	}
	return n, nil
}

type fakeSettingsRepo struct {
	values map[string]string
}

func (f *fakeSettingsRepo) Get(ctx context.Context, key string) (string, error) {
	return f.values[key], nil
}

func (f *fakeSettingsRepo) Set(ctx context.Context, key, value string) error {
	if f.values == nil {
		f.values = map[string]string{}
	}
	f.values[key] = value
	return nil
}

func (f *fakeSettingsRepo) All(ctx context.Context) ([]*domain.Setting, error) {
	var out []*domain.Setting
	for k, v := range f.values {
		out = append(out, &domain.Setting{Key: k, Value: v})
	}
	return out, nil
}

type fakeVaccinationRepo struct {
	records []*vaccination.Record
}

func (f *fakeVaccinationRepo) Create(ctx context.Context, r *vaccination.Record) error {
	r.ID = uint(len(f.records) + 1)
	f.records = append(f.records, r)
	return nil
}

func (f *fakeVaccinationRepo) ListByPatient(ctx context.Context, patientID uint) ([]*vaccination.Record, error) {
	var out []*vaccination.Record
	for _, r := range f.records {
		if r.PatientID == patientID {
			out = append(out, r)
		}
	}
	return out, nil
}
