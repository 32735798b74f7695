package services

import (
	"errors"
	"testing"

	"github.com/enrudae/TutorToolkit/internal/apperrors"
	"github.com/enrudae/TutorToolkit/internal/models"
)

func TestGenerateInviteCodeFormat(t *testing.T) {
	f := newFixture(t)
	svc := NewStudentInvitationService(f.plans)

	code, err := svc.GenerateInviteCode()
	if err != nil {
		t.Fatalf("GenerateInviteCode: %v", err)
	}
	if len(code) != 8 {
		t.Fatalf("code %q has length %d, want 8", code, len(code))
	}
	for _, r := range code {
		if !(r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			t.Fatalf("code %q contains invalid character %q", code, r)
		}
	}
}

func TestGenerateInviteCodeAvoidsExisting(t *testing.T) {
	f := newFixture(t)
	svc := NewStudentInvitationService(f.plans)
	tutor := f.seedUser(t, models.RoleTutor, "tutor@example.com")

	taken := map[string]bool{}
	for _, code := range []string{"AAAA0001", "AAAA0002", "AAAA0003"} {
		f.seedPlan(t, tutor.ID, code)
		taken[code] = true
	}

	for i := 0; i < 20; i++ {
		code, err := svc.GenerateInviteCode()
		if err != nil {
			t.Fatalf("GenerateInviteCode: %v", err)
		}
		if taken[code] {
			t.Fatalf("generated already used code %q", code)
		}
	}
}

func TestCheckInviteCode(t *testing.T) {
	f := newFixture(t)
	svc := NewStudentInvitationService(f.plans)
	tutor := f.seedUser(t, models.RoleTutor, "tutor@example.com")
	plan := f.seedPlan(t, tutor.ID, "CODE0001")

	got, err := svc.CheckInviteCode("CODE0001")
	if err != nil {
		t.Fatalf("CheckInviteCode: %v", err)
	}
	if got.ID != plan.ID {
		t.Fatalf("CheckInviteCode returned plan %s, want %s", got.ID, plan.ID)
	}

	if _, err := svc.CheckInviteCode("MISSING1"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("unknown code: got %v, want ErrNotFound", err)
	}
}

func TestAddStudentToEducationPlan(t *testing.T) {
	f := newFixture(t)
	svc := NewStudentInvitationService(f.plans)
	tutor := f.seedUser(t, models.RoleTutor, "tutor@example.com")
	student := f.seedUser(t, models.RoleStudent, "student@example.com")
	f.seedPlan(t, tutor.ID, "CODE0001")

	plan, err := svc.AddStudentToEducationPlan("CODE0001", student.ID)
	if err != nil {
		t.Fatalf("AddStudentToEducationPlan: %v", err)
	}
	if plan.StudentID == nil || *plan.StudentID != student.ID {
		t.Fatal("plan student was not set")
	}
	if plan.Status != models.PlanStatusActive {
		t.Fatalf("plan status %q, want %q", plan.Status, models.PlanStatusActive)
	}
}

func TestAddStudentSecondClaimRejected(t *testing.T) {
	f := newFixture(t)
	svc := NewStudentInvitationService(f.plans)
	tutor := f.seedUser(t, models.RoleTutor, "tutor@example.com")
	first := f.seedUser(t, models.RoleStudent, "first@example.com")
	second := f.seedUser(t, models.RoleStudent, "second@example.com")
	f.seedPlan(t, tutor.ID, "CODE0001")

	if _, err := svc.AddStudentToEducationPlan("CODE0001", first.ID); err != nil {
		t.Fatalf("first claim: %v", err)
	}

	_, err := svc.AddStudentToEducationPlan("CODE0001", second.ID)
	if !errors.Is(err, apperrors.ErrAlreadyClaimed) {
		t.Fatalf("second claim: got %v, want ErrAlreadyClaimed", err)
	}

	// Первый ученик остался подключенным
	plan, err := f.plans.GetByInviteCode("CODE0001")
	if err != nil {
		t.Fatalf("GetByInviteCode: %v", err)
	}
	if plan.StudentID == nil || *plan.StudentID != first.ID {
		t.Fatal("second claim overwrote the first student")
	}
}

func TestClaimRaceLoserGetsZeroRows(t *testing.T) {
	f := newFixture(t)
	tutor := f.seedUser(t, models.RoleTutor, "tutor@example.com")
	first := f.seedUser(t, models.RoleStudent, "first@example.com")
	second := f.seedUser(t, models.RoleStudent, "second@example.com")
	f.seedPlan(t, tutor.ID, "CODE0001")

	// Оба конкурента прошли проверку кода до первой записи: победителя
	// определяет условное обновление
	rows, err := f.plans.Claim("CODE0001", first.ID)
	if err != nil {
		t.Fatalf("first Claim: %v", err)
	}
	if rows != 1 {
		t.Fatalf("first Claim affected %d rows, want 1", rows)
	}

	rows, err = f.plans.Claim("CODE0001", second.ID)
	if err != nil {
		t.Fatalf("second Claim: %v", err)
	}
	if rows != 0 {
		t.Fatalf("second Claim affected %d rows, want 0", rows)
	}
}
