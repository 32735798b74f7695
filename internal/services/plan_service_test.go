package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/enrudae/TutorToolkit/internal/apperrors"
	"github.com/enrudae/TutorToolkit/internal/models"
)

type planEnv struct {
	f   *fixture
	svc EducationPlanService
	snd *fakeSender
}

func newPlanEnv(t *testing.T) *planEnv {
	t.Helper()
	f := newFixture(t)
	snd := &fakeSender{}
	notifications := NewNotificationService(
		f.notifs, f.lessons, f.cards, f.modules, f.plans, f.users,
		newFakeScheduler(), snd, 3*time.Hour,
	)
	invitations := NewStudentInvitationService(f.plans)
	svc := NewEducationPlanService(f.plans, invitations, notifications)
	return &planEnv{f: f, svc: svc, snd: snd}
}

func TestCreatePlanGeneratesInviteCode(t *testing.T) {
	e := newPlanEnv(t)
	tutor := e.f.seedUser(t, models.RoleTutor, "tutor@example.com")

	plan, err := e.svc.CreatePlan(tutor.ID, PlanInput{
		Title:      "Алгебра 9 класс",
		Discipline: "Математика",
	})
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	if len(plan.InviteCode) != 8 {
		t.Fatalf("invite code %q, want 8 characters", plan.InviteCode)
	}
	if plan.Status != models.PlanStatusInactive {
		t.Fatalf("new plan status %q, want inactive", plan.Status)
	}
	if plan.StudentID != nil {
		t.Fatal("new plan already has a student")
	}
}

func TestCreatePlanInvitesRegisteredStudent(t *testing.T) {
	e := newPlanEnv(t)
	tutor := e.f.seedUser(t, models.RoleTutor, "tutor@example.com")
	e.f.seedUser(t, models.RoleStudent, "student@example.com")

	plan, err := e.svc.CreatePlan(tutor.ID, PlanInput{
		Discipline:   "Математика",
		StudentEmail: "student@example.com",
	})
	if err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}

	messages := e.snd.messages()
	if len(messages) != 1 {
		t.Fatalf("sent %d messages, want 1 invite", len(messages))
	}
	if !strings.Contains(messages[0], plan.Discipline) {
		t.Fatalf("invite text: %q", messages[0])
	}
}

func TestCreatePlanWithoutDiscipline(t *testing.T) {
	e := newPlanEnv(t)
	tutor := e.f.seedUser(t, models.RoleTutor, "tutor@example.com")

	_, err := e.svc.CreatePlan(tutor.ID, PlanInput{Title: "Без дисциплины"})
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("plan without discipline: got %v, want ErrValidation", err)
	}
}

func TestGetPlanTreeReturnsOrderedBoard(t *testing.T) {
	e := newPlanEnv(t)
	tutor := e.f.seedUser(t, models.RoleTutor, "tutor@example.com")
	plan := e.f.seedPlan(t, tutor.ID, "CODE0001")

	second := e.f.seedModule(t, plan.ID, "Второй", 1)
	first := e.f.seedModule(t, plan.ID, "Первый", 0)
	e.f.seedCard(t, tutor.ID, first.ID, "b", 1)
	e.f.seedCard(t, tutor.ID, first.ID, "a", 0)
	e.f.seedCard(t, tutor.ID, second.ID, "c", 0)

	tree, err := e.svc.GetPlanTree(tutor.ID, plan.ID)
	if err != nil {
		t.Fatalf("GetPlanTree: %v", err)
	}

	if len(tree.Modules) != 2 {
		t.Fatalf("tree has %d modules, want 2", len(tree.Modules))
	}
	if tree.Modules[0].Title != "Первый" || tree.Modules[1].Title != "Второй" {
		t.Fatalf("module order: %q, %q", tree.Modules[0].Title, tree.Modules[1].Title)
	}
	if len(tree.Modules[0].Cards) != 2 {
		t.Fatalf("first module has %d cards, want 2", len(tree.Modules[0].Cards))
	}
	if tree.Modules[0].Cards[0].Title != "a" || tree.Modules[0].Cards[1].Title != "b" {
		t.Fatalf("card order: %q, %q", tree.Modules[0].Cards[0].Title, tree.Modules[0].Cards[1].Title)
	}
}

func TestGetPlanTreeHiddenFromStrangers(t *testing.T) {
	e := newPlanEnv(t)
	tutor := e.f.seedUser(t, models.RoleTutor, "tutor@example.com")
	stranger := e.f.seedUser(t, models.RoleStudent, "stranger@example.com")
	plan := e.f.seedPlan(t, tutor.ID, "CODE0001")

	_, err := e.svc.GetPlanTree(stranger.ID, plan.ID)
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("stranger access: got %v, want ErrNotFound", err)
	}
}

func TestDeletePlanRemovesBoard(t *testing.T) {
	e := newPlanEnv(t)
	tutor := e.f.seedUser(t, models.RoleTutor, "tutor@example.com")
	plan := e.f.seedPlan(t, tutor.ID, "CODE0001")
	module := e.f.seedModule(t, plan.ID, "Дроби", 0)
	e.f.seedCard(t, tutor.ID, module.ID, "a", 0)

	if err := e.svc.DeletePlan(tutor.ID, plan.ID); err != nil {
		t.Fatalf("DeletePlan: %v", err)
	}

	if _, err := e.f.plans.GetByID(plan.ID); err == nil {
		t.Fatal("plan still exists after delete")
	}
	if _, err := e.f.modules.GetByID(module.ID); err == nil {
		t.Fatal("module still exists after plan delete")
	}
}
