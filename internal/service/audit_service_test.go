package service

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/clinicdesk/clinicdesk/internal/domain"
)

func TestAuditRecordAndFlush(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := NewAuditService(repo, testCollector, zap.NewNop())

	sess := staffSession()
	svc.Record(sess, domain.ActionCreate, "patients", 1, "patient ADT202501010001 registered")
	svc.Record(sess, domain.ActionPayment, "invoices", 7, "payment of 4000")
	svc.Shutdown()

	entries := repo.all()
	if len(entries) != 2 {
		t.Fatalf("persisted %d entries, want 2", len(entries))
	}
	if entries[0].StaffID != sess.StaffID || entries[0].StaffRole != sess.Role {
		t.Errorf("actor not carried: %+v", entries[0])
	}
	if entries[0].TargetTable != "patients" {
		t.Errorf("TargetTable = %q, want patients", entries[0].TargetTable)
	}
	if entries[1].Action != domain.ActionPayment || entries[1].RecordID != 7 {
		t.Errorf("entry = %+v", entries[1])
	}
}

func TestAuditWriteFailureIsSwallowed(t *testing.T) {
	repo := &fakeAuditRepo{err: errors.New("disk full")}
	svc := NewAuditService(repo, testCollector, zap.NewNop())

	// Must not panic, block or surface the error anywhere.
	svc.Record(staffSession(), domain.ActionCreate, "patients", 1, "x")
	svc.Shutdown()

	if got := repo.all(); len(got) != 0 {
		t.Errorf("failing repo stored %d entries", len(got))
	}
}
