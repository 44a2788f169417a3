package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/clinicdesk/clinicdesk/internal/domain"
	"github.com/clinicdesk/clinicdesk/internal/domain/patient"
	"github.com/clinicdesk/clinicdesk/internal/validate"
	"github.com/clinicdesk/clinicdesk/pkg/metrics"
)

var tracer = otel.Tracer("clinicdesk/service")

type PatientService struct {
	repo     patient.Repository
	auditSvc *AuditService
	col      *metrics.Collector
	log      *zap.Logger
}

func NewPatientService(repo patient.Repository, auditSvc *AuditService, col *metrics.Collector, log *zap.Logger) *PatientService {
	return &PatientService{repo: repo, auditSvc: auditSvc, col: col, log: log}
}

// Register validates the submission, creates the record and has the
// store assign the file number inside the creation transaction. On any
// validation failure nothing is written.
func (s *PatientService) Register(ctx context.Context, cmd *patient.CreatePatientCommand, sess domain.Session) (*patient.Patient, error) {
	ctx, span := tracer.Start(ctx, "patient.register")
	defer span.End()

	if err := validateRegisterCommand(cmd); err != nil {
		return nil, err
	}

	birthDate, err := validate.ParseDate(cmd.BirthDate)
	if err != nil {
		return nil, &ValidationError{Fields: []string{"birth_date must be DD/MM/YYYY"}}
	}

	p := &patient.Patient{
		LastName:   strings.ToUpper(strings.TrimSpace(cmd.LastName)),
		FirstName:  titleCase(cmd.FirstName),
		BirthDate:  birthDate,
		Sex:        cmd.Sex,
		Phone:      validate.NormalizePhone(cmd.Phone),
		Address:    cmd.Address,
		Category:   cmd.Category,
		FatherName: cmd.FatherName,
		MotherName: cmd.MotherName,
		BloodGroup: cmd.BloodGroup,
		Allergies:  cmd.Allergies,
		History:    cmd.History,
		Profession: cmd.Profession,
		Email:      strings.ToLower(strings.TrimSpace(cmd.Email)),
	}

	// The category decides which identity field carries the ID number.
	if cmd.Category == patient.CategoryChild {
		p.GuardianID = cmd.GuardianID
		p.WeightKg = cmd.WeightKg
		p.HeightCm = cmd.HeightCm
	} else {
		p.NationalID = cmd.NationalID
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Error("failed to create patient", zap.Error(err))
		return nil, fmt.Errorf("creating patient: %w", err)
	}

	s.col.PatientsRegisteredTotal.Inc()
	s.auditSvc.Record(sess, domain.ActionCreate, patient.Patient{}.TableName(), p.ID,
		fmt.Sprintf("patient %s registered", p.FileNumber))

	s.log.Info("patient registered",
		zap.String("file_number", p.FileNumber),
		zap.Uint("created_by", sess.StaffID),
	)

	return p, nil
}

func (s *PatientService) GetByFileNumber(ctx context.Context, fileNumber string) (*patient.Patient, error) {
	return s.repo.GetByFileNumber(ctx, fileNumber)
}

// Update applies a partial update. The file number and category are
// immutable and not part of the command.
func (s *PatientService) Update(ctx context.Context, fileNumber string, cmd *patient.UpdatePatientCommand, sess domain.Session) (*patient.Patient, error) {
	ctx, span := tracer.Start(ctx, "patient.update")
	defer span.End()

	if cmd.Phone != nil && !validate.Phone(*cmd.Phone) {
		return nil, &ValidationError{Fields: []string{"phone must start with 6, 7 or 9 and have 8-9 digits"}}
	}

	p, err := s.repo.GetByFileNumber(ctx, fileNumber)
	if err != nil {
		return nil, err
	}

	if cmd.Phone != nil {
		normalized := validate.NormalizePhone(*cmd.Phone)
		cmd.Phone = &normalized
	}

	updated, err := s.repo.Update(ctx, p.ID, cmd)
	if err != nil {
		return nil, err
	}

	s.auditSvc.Record(sess, domain.ActionUpdate, patient.Patient{}.TableName(), p.ID,
		fmt.Sprintf("patient %s updated", fileNumber))

	return updated, nil
}

// Search matches the term against file number, name, phone and national
// ID, capped at 100 rows.
func (s *PatientService) Search(ctx context.Context, term string) ([]*patient.Patient, error) {
	return s.repo.Search(ctx, &patient.SearchQuery{Term: strings.TrimSpace(term), Limit: 100})
}

// titleCase uppercases the first letter of each name part.
func titleCase(s string) string {
	parts := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	for i, p := range parts {
		r := []rune(p)
		r[0] = unicode.ToUpper(r[0])
		parts[i] = string(r)
	}
	return strings.Join(parts, " ")
}

func validateRegisterCommand(cmd *patient.CreatePatientCommand) error {
	var errs []string

	if strings.TrimSpace(cmd.LastName) == "" {
		errs = append(errs, "last_name is required")
	}
	if strings.TrimSpace(cmd.FirstName) == "" {
		errs = append(errs, "first_name is required")
	}
	if strings.TrimSpace(cmd.BirthDate) == "" {
		errs = append(errs, "birth_date is required")
	}
	if strings.TrimSpace(cmd.Phone) == "" {
		errs = append(errs, "phone is required")
	} else if !validate.Phone(cmd.Phone) {
		errs = append(errs, "phone must start with 6, 7 or 9 and have 8-9 digits")
	}
	if !cmd.Category.IsValid() {
		errs = append(errs, "category must be adult or child")
	}
	if cmd.Sex != "" && !cmd.Sex.IsValid() {
		errs = append(errs, "sex must be M or F")
	}

	switch cmd.Category {
	case patient.CategoryAdult:
		if !validate.NationalID(cmd.NationalID) {
			errs = append(errs, "national_id must be exactly 12 digits")
		}
	case patient.CategoryChild:
		if strings.TrimSpace(cmd.GuardianID) == "" {
			errs = append(errs, "guardian_id is required for child patients")
		} else if !validate.NationalID(cmd.GuardianID) {
			errs = append(errs, "guardian_id must be exactly 12 digits")
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
