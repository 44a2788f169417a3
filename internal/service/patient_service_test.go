package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/clinicdesk/clinicdesk/internal/domain/patient"
)

func newPatientService(repo patient.Repository) *PatientService {
	return NewPatientService(repo, newTestAudit(), testCollector, zap.NewNop())
}

func validAdultCommand() *patient.CreatePatientCommand {
	return &patient.CreatePatientCommand{
		LastName:   "nguema",
		FirstName:  "marie claire",
		BirthDate:  "15/03/1990",
		Sex:        patient.SexFemale,
		Phone:      "6 77 12 34 56",
		Category:   patient.CategoryAdult,
		NationalID: "123456789012",
	}
}

func TestRegisterAdult(t *testing.T) {
	repo := &fakePatientRepo{}
	svc := newPatientService(repo)

	p, err := svc.Register(context.Background(), validAdultCommand(), staffSession())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if !strings.HasPrefix(p.FileNumber, "ADT") {
		t.Errorf("file number %q does not carry the adult prefix", p.FileNumber)
	}
	if p.LastName != "NGUEMA" {
		t.Errorf("LastName = %q, want NGUEMA", p.LastName)
	}
	if p.FirstName != "Marie Claire" {
		t.Errorf("FirstName = %q, want Marie Claire", p.FirstName)
	}
	if p.Phone != "677123456" {
		t.Errorf("Phone = %q, want normalized 677123456", p.Phone)
	}
	if p.NationalID != "123456789012" {
		t.Errorf("NationalID = %q", p.NationalID)
	}
}

func TestRegisterChildPrefixAndGuardian(t *testing.T) {
	repo := &fakePatientRepo{}
	svc := newPatientService(repo)

	cmd := validAdultCommand()
	cmd.Category = patient.CategoryChild
	cmd.NationalID = ""
	cmd.GuardianID = "210987654321"
	cmd.BirthDate = "01/06/2018"

	p, err := svc.Register(context.Background(), cmd, staffSession())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !strings.HasPrefix(p.FileNumber, "ENF") {
		t.Errorf("file number %q does not carry the child prefix", p.FileNumber)
	}
	if p.GuardianID != "210987654321" {
		t.Errorf("GuardianID = %q", p.GuardianID)
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*patient.CreatePatientCommand)
	}{
		{"missing last name", func(c *patient.CreatePatientCommand) { c.LastName = " " }},
		{"missing first name", func(c *patient.CreatePatientCommand) { c.FirstName = "" }},
		{"missing phone", func(c *patient.CreatePatientCommand) { c.Phone = "" }},
		{"bad phone prefix", func(c *patient.CreatePatientCommand) { c.Phone = "512345678" }},
		{"bad national id", func(c *patient.CreatePatientCommand) { c.NationalID = "12345" }},
		{"bad category", func(c *patient.CreatePatientCommand) { c.Category = "senior" }},
		{"bad sex", func(c *patient.CreatePatientCommand) { c.Sex = "X" }},
		{"bad birth date", func(c *patient.CreatePatientCommand) { c.BirthDate = "1990-03-15" }},
		{"child without guardian", func(c *patient.CreatePatientCommand) {
			c.Category = patient.CategoryChild
			c.GuardianID = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakePatientRepo{}
			svc := newPatientService(repo)

			cmd := validAdultCommand()
			tt.mutate(cmd)

			_, err := svc.Register(context.Background(), cmd, staffSession())
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if len(repo.patients) != 0 {
				t.Error("a rejected registration reached the store")
			}
		})
	}
}

func TestRegisterOptionalNationalID(t *testing.T) {
	svc := newPatientService(&fakePatientRepo{})

	cmd := validAdultCommand()
	cmd.NationalID = ""
	if _, err := svc.Register(context.Background(), cmd, staffSession()); err != nil {
		t.Fatalf("adult without national ID should register: %v", err)
	}
}

func TestUpdatePhone(t *testing.T) {
	repo := &fakePatientRepo{}
	svc := newPatientService(repo)

	p, err := svc.Register(context.Background(), validAdultCommand(), staffSession())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	bad := "123"
	if _, err := svc.Update(context.Background(), p.FileNumber, &patient.UpdatePatientCommand{Phone: &bad}, staffSession()); err == nil {
		t.Error("expected rejection of invalid phone")
	}

	good := "9 12 34 56 78"
	updated, err := svc.Update(context.Background(), p.FileNumber, &patient.UpdatePatientCommand{Phone: &good}, staffSession())
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Phone != "912345678" {
		t.Errorf("Phone = %q, want normalized 912345678", updated.Phone)
	}
}

func TestGetByFileNumberMissing(t *testing.T) {
	svc := newPatientService(&fakePatientRepo{})
	if _, err := svc.GetByFileNumber(context.Background(), "ADT000000000000"); !errors.Is(err, patient.ErrPatientNotFound) {
		t.Errorf("err = %v, want ErrPatientNotFound", err)
	}
}
