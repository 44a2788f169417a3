package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/clinicdesk/clinicdesk/internal/domain/patient"
	"github.com/clinicdesk/clinicdesk/internal/domain/vaccination"
)

func vaccinationFixture(t *testing.T, category patient.Category) (*VaccinationService, *patient.Patient) {
	t.Helper()

	patients := &fakePatientRepo{}
	cmd := validAdultCommand()
	if category == patient.CategoryChild {
		cmd.Category = patient.CategoryChild
		cmd.NationalID = ""
		cmd.GuardianID = "210987654321"
		cmd.BirthDate = "01/06/2022"
	}
	p, err := newPatientService(patients).Register(context.Background(), cmd, staffSession())
	if err != nil {
		t.Fatalf("registering fixture patient: %v", err)
	}

	svc := NewVaccinationService(&fakeVaccinationRepo{}, patients, newTestAudit(), testCollector, zap.NewNop())
	return svc, p
}

func TestRecordVaccinationForChild(t *testing.T) {
	svc, p := vaccinationFixture(t, patient.CategoryChild)

	r, err := svc.Record(context.Background(), &vaccination.RecordCommand{
		PatientFileNumber: p.FileNumber,
		Vaccine:           "BCG",
		Dose:              "1",
	}, staffSession())
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if r.PatientID != p.ID {
		t.Errorf("record bound to patient %d, want %d", r.PatientID, p.ID)
	}
}

func TestPediatricVaccineForAdult(t *testing.T) {
	svc, p := vaccinationFixture(t, patient.CategoryAdult)
	ctx := context.Background()

	_, err := svc.Record(ctx, &vaccination.RecordCommand{
		PatientFileNumber: p.FileNumber,
		Vaccine:           "BCG",
	}, staffSession())
	if !errors.Is(err, vaccination.ErrPediatricVaccineForAdult) {
		t.Fatalf("err = %v, want ErrPediatricVaccineForAdult", err)
	}

	// The override lets it through.
	if _, err := svc.Record(ctx, &vaccination.RecordCommand{
		PatientFileNumber: p.FileNumber,
		Vaccine:           "BCG",
		AllowAdult:        true,
	}, staffSession()); err != nil {
		t.Fatalf("overridden Record: %v", err)
	}

	// Non-pediatric vaccines never need it.
	if _, err := svc.Record(ctx, &vaccination.RecordCommand{
		PatientFileNumber: p.FileNumber,
		Vaccine:           "Tetanus",
	}, staffSession()); err != nil {
		t.Fatalf("adult vaccine: %v", err)
	}
}

func TestVaccinationHistory(t *testing.T) {
	svc, p := vaccinationFixture(t, patient.CategoryChild)
	ctx := context.Background()

	for _, v := range []string{"BCG", "Penta 1", "Penta 2"} {
		if _, err := svc.Record(ctx, &vaccination.RecordCommand{
			PatientFileNumber: p.FileNumber,
			Vaccine:           v,
		}, staffSession()); err != nil {
			t.Fatalf("Record(%s): %v", v, err)
		}
	}

	history, err := svc.History(ctx, p.FileNumber)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 3 {
		t.Errorf("history has %d records, want 3", len(history))
	}
}
