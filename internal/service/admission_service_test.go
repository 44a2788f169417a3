package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/clinicdesk/clinicdesk/internal/domain/admission"
	"github.com/clinicdesk/clinicdesk/internal/domain/patient"
)

func admissionFixture(t *testing.T) (*AdmissionService, *fakeAdmissionRepo, *patient.Patient) {
	t.Helper()

	patients := &fakePatientRepo{}
	psvc := newPatientService(patients)
	p, err := psvc.Register(context.Background(), validAdultCommand(), staffSession())
	if err != nil {
		t.Fatalf("registering fixture patient: %v", err)
	}

	repo := &fakeAdmissionRepo{}
	svc := NewAdmissionService(repo, patients, newTestAudit(), testCollector, zap.NewNop())
	return svc, repo, p
}

func TestAdmitAndDischarge(t *testing.T) {
	svc, repo, p := admissionFixture(t)
	repo.rooms = []*admission.Room{{ID: 1, Number: "101", TotalBeds: 2, AvailableBeds: 2}}

	stay, err := svc.Admit(context.Background(), &admission.AdmitCommand{
		PatientFileNumber: p.FileNumber,
		RoomNumber:        "101",
		Bed:               "A",
		Reason:            "observation",
	}, staffSession())
	if err != nil {
		t.Fatalf("Admit: %v", err)
	}
	if !stay.IsOngoing() {
		t.Errorf("stay status = %v, want ongoing", stay.Status)
	}
	if repo.rooms[0].AvailableBeds != 1 {
		t.Errorf("available beds = %d, want 1", repo.rooms[0].AvailableBeds)
	}

	closed, err := svc.Discharge(context.Background(), p.FileNumber, staffSession())
	if err != nil {
		t.Fatalf("Discharge: %v", err)
	}
	if closed.Status != admission.StatusDischarged || closed.DischargedAt == nil {
		t.Errorf("discharge left stay as %v", closed.Status)
	}
	if repo.rooms[0].AvailableBeds != 2 {
		t.Errorf("available beds after discharge = %d, want 2", repo.rooms[0].AvailableBeds)
	}
}

func TestAdmitTwiceRefused(t *testing.T) {
	svc, _, p := admissionFixture(t)

	cmd := &admission.AdmitCommand{PatientFileNumber: p.FileNumber, Reason: "fever"}
	if _, err := svc.Admit(context.Background(), cmd, staffSession()); err != nil {
		t.Fatalf("first Admit: %v", err)
	}
	if _, err := svc.Admit(context.Background(), cmd, staffSession()); !errors.Is(err, admission.ErrAlreadyAdmitted) {
		t.Errorf("second Admit err = %v, want ErrAlreadyAdmitted", err)
	}
}

func TestAdmitNoBeds(t *testing.T) {
	svc, repo, p := admissionFixture(t)
	repo.rooms = []*admission.Room{{ID: 1, Number: "101", TotalBeds: 1, AvailableBeds: 0}}

	_, err := svc.Admit(context.Background(), &admission.AdmitCommand{
		PatientFileNumber: p.FileNumber,
		RoomNumber:        "101",
		Reason:            "fracture",
	}, staffSession())
	if !errors.Is(err, admission.ErrNoBedsAvailable) {
		t.Fatalf("err = %v, want ErrNoBedsAvailable", err)
	}
	if len(repo.stays) != 0 {
		t.Error("a refused admission wrote a stay")
	}
}

func TestAdmitUnknownPatient(t *testing.T) {
	svc, _, _ := admissionFixture(t)
	_, err := svc.Admit(context.Background(), &admission.AdmitCommand{
		PatientFileNumber: "ADT999912310000",
		Reason:            "fever",
	}, staffSession())
	if !errors.Is(err, patient.ErrPatientNotFound) {
		t.Errorf("err = %v, want ErrPatientNotFound", err)
	}
}

func TestDischargeWithoutStay(t *testing.T) {
	svc, _, p := admissionFixture(t)
	if _, err := svc.Discharge(context.Background(), p.FileNumber, staffSession()); !errors.Is(err, admission.ErrStayNotFound) {
		t.Errorf("err = %v, want ErrStayNotFound", err)
	}
}

func TestCreateRoomRequiresAdmin(t *testing.T) {
	svc, repo, _ := admissionFixture(t)

	room := &admission.Room{Number: "201", TotalBeds: 4}
	if err := svc.CreateRoom(context.Background(), room, staffSession()); !errors.Is(err, ErrForbidden) {
		t.Fatalf("staff created a room: %v", err)
	}
	if err := svc.CreateRoom(context.Background(), room, adminSession()); err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if room.AvailableBeds != 4 {
		t.Errorf("AvailableBeds = %d, want defaulted to TotalBeds", room.AvailableBeds)
	}
	if len(repo.rooms) != 1 {
		t.Errorf("rooms stored = %d, want 1", len(repo.rooms))
	}
}
