package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/enrudae/TutorToolkit/internal/apperrors"
	"github.com/enrudae/TutorToolkit/internal/models"
)

type cardEnv struct {
	f     *fixture
	svc   CardService
	tasks *fakeScheduler
}

func newCardEnv(t *testing.T) *cardEnv {
	t.Helper()
	f := newFixture(t)
	tasks := newFakeScheduler()
	notifications := NewNotificationService(
		f.notifs, f.lessons, f.cards, f.modules, f.plans, f.users,
		tasks, &fakeSender{}, 3*time.Hour,
	)
	svc := NewCardService(f.cards, f.modules, f.plans, f.labels, notifications)
	return &cardEnv{f: f, svc: svc, tasks: tasks}
}

func TestCreateCardAppendsToEnd(t *testing.T) {
	e := newCardEnv(t)
	tutor := e.f.seedUser(t, models.RoleTutor, "tutor@example.com")
	plan := e.f.seedPlan(t, tutor.ID, "CODE0001")
	module := e.f.seedModule(t, plan.ID, "Дроби", 0)

	for i, title := range []string{"a", "b", "c"} {
		card, err := e.svc.CreateCard(tutor.ID, module.ID, CardInput{Title: title})
		if err != nil {
			t.Fatalf("CreateCard(%q): %v", title, err)
		}
		if card.Index == nil || *card.Index != i {
			t.Fatalf("card %q got index %v, want %d", title, card.Index, i)
		}
	}
	e.f.requireDense(t, module.ID)
}

func TestCreateCardWithRepetitionDateSchedulesTask(t *testing.T) {
	e := newCardEnv(t)
	tutor := e.f.seedUser(t, models.RoleTutor, "tutor@example.com")
	plan := e.f.seedPlan(t, tutor.ID, "CODE0001")
	module := e.f.seedModule(t, plan.ID, "Дроби", 0)

	date := time.Now().Add(24 * time.Hour)
	card, err := e.svc.CreateCard(tutor.ID, module.ID, CardInput{Title: "Тема", RepetitionDate: &date})
	if err != nil {
		t.Fatalf("CreateCard: %v", err)
	}

	runAt, ok := e.tasks.runAt("repetition-" + card.ID.String())
	if !ok {
		t.Fatal("no repetition task scheduled")
	}
	if !runAt.Equal(date) {
		t.Fatalf("repetition scheduled at %v, want %v", runAt, date)
	}
}

func TestUpdateCardRepetitionDateReschedules(t *testing.T) {
	e := newCardEnv(t)
	tutor := e.f.seedUser(t, models.RoleTutor, "tutor@example.com")
	plan := e.f.seedPlan(t, tutor.ID, "CODE0001")
	module := e.f.seedModule(t, plan.ID, "Дроби", 0)

	first := time.Now().Add(24 * time.Hour)
	card, err := e.svc.CreateCard(tutor.ID, module.ID, CardInput{Title: "Тема", RepetitionDate: &first})
	if err != nil {
		t.Fatalf("CreateCard: %v", err)
	}

	second := time.Now().Add(72 * time.Hour)
	if _, err := e.svc.UpdateCard(tutor.ID, card.ID, CardInput{RepetitionDate: &second}); err != nil {
		t.Fatalf("UpdateCard: %v", err)
	}

	key := "repetition-" + card.ID.String()
	pending := e.tasks.pendingKeys()
	if len(pending) != 1 || pending[0] != key {
		t.Fatalf("pending tasks %v, want exactly [%s]", pending, key)
	}
	runAt, _ := e.tasks.runAt(key)
	if !runAt.Equal(second) {
		t.Fatalf("repetition scheduled at %v, want %v", runAt, second)
	}
}

func TestUpdateCardInvalidStatusRejected(t *testing.T) {
	e := newCardEnv(t)
	tutor := e.f.seedUser(t, models.RoleTutor, "tutor@example.com")
	plan := e.f.seedPlan(t, tutor.ID, "CODE0001")
	module := e.f.seedModule(t, plan.ID, "Дроби", 0)
	card := e.f.seedCard(t, tutor.ID, module.ID, "Тема", 0)

	_, err := e.svc.UpdateCard(tutor.ID, card.ID, CardInput{Status: "paused"})
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("invalid status: got %v, want ErrValidation", err)
	}
}

func TestDeleteCardClosesGap(t *testing.T) {
	e := newCardEnv(t)
	tutor := e.f.seedUser(t, models.RoleTutor, "tutor@example.com")
	plan := e.f.seedPlan(t, tutor.ID, "CODE0001")
	module := e.f.seedModule(t, plan.ID, "Дроби", 0)

	e.f.seedCard(t, tutor.ID, module.ID, "a", 0)
	b := e.f.seedCard(t, tutor.ID, module.ID, "b", 1)
	e.f.seedCard(t, tutor.ID, module.ID, "c", 2)

	if err := e.svc.DeleteCard(tutor.ID, b.ID); err != nil {
		t.Fatalf("DeleteCard: %v", err)
	}

	got := e.f.cardTitles(t, module.ID)
	want := []string{"a", "c"}
	if !equalStrings(got, want) {
		t.Fatalf("card order %v, want %v", got, want)
	}
	e.f.requireDense(t, module.ID)
}

func TestCreateTemplateHasNoPlacement(t *testing.T) {
	e := newCardEnv(t)
	tutor := e.f.seedUser(t, models.RoleTutor, "tutor@example.com")

	template, err := e.svc.CreateTemplate(tutor.ID, CardInput{
		Title: "Квадратные уравнения",
		Sections: []SectionInput{
			{Title: "Теория", Content: "Дискриминант"},
		},
	})
	if err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}
	if !template.IsTemplate {
		t.Fatal("template is not marked as template")
	}
	if template.ModuleID != nil || template.Index != nil {
		t.Fatal("template has board placement")
	}

	templates, err := e.svc.ListTemplates(tutor.ID)
	if err != nil {
		t.Fatalf("ListTemplates: %v", err)
	}
	if len(templates) != 1 {
		t.Fatalf("listed %d templates, want 1", len(templates))
	}
}

func TestCreateCardFromTemplateDeepCopiesSections(t *testing.T) {
	e := newCardEnv(t)
	tutor := e.f.seedUser(t, models.RoleTutor, "tutor@example.com")
	plan := e.f.seedPlan(t, tutor.ID, "CODE0001")
	module := e.f.seedModule(t, plan.ID, "Уравнения", 0)
	e.f.seedCard(t, tutor.ID, module.ID, "существующая", 0)

	template, err := e.svc.CreateTemplate(tutor.ID, CardInput{
		Title:      "Квадратные уравнения",
		Difficulty: 3,
		Sections: []SectionInput{
			{Title: "Теория", Content: "Дискриминант"},
			{Title: "Практика", Content: "Задачи 1-10"},
		},
	})
	if err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}

	card, err := e.svc.CreateCardFromTemplate(tutor.ID, template.ID, module.ID)
	if err != nil {
		t.Fatalf("CreateCardFromTemplate: %v", err)
	}

	if card.ID == template.ID {
		t.Fatal("clone shares id with template")
	}
	if card.IsTemplate {
		t.Fatal("clone is marked as template")
	}
	if card.Index == nil || *card.Index != 1 {
		t.Fatalf("clone index %v, want 1 (end of module)", card.Index)
	}
	if card.Difficulty != template.Difficulty {
		t.Fatalf("clone difficulty %d, want %d", card.Difficulty, template.Difficulty)
	}

	if len(card.Sections) != 2 {
		t.Fatalf("clone has %d sections, want 2", len(card.Sections))
	}
	for i, section := range card.Sections {
		if section.ID == template.Sections[i].ID {
			t.Fatalf("section %d shares id with template section", i)
		}
		if section.Title != template.Sections[i].Title || section.Content != template.Sections[i].Content {
			t.Fatalf("section %d content differs from template", i)
		}
	}

	// Шаблон остался нетронутым источником
	kept, err := e.svc.GetCard(tutor.ID, template.ID)
	if err != nil {
		t.Fatalf("GetCard(template): %v", err)
	}
	if !kept.IsTemplate || len(kept.Sections) != 2 {
		t.Fatal("template was modified by cloning")
	}
}

func TestCreateCardFromRegularCardRejected(t *testing.T) {
	e := newCardEnv(t)
	tutor := e.f.seedUser(t, models.RoleTutor, "tutor@example.com")
	plan := e.f.seedPlan(t, tutor.ID, "CODE0001")
	module := e.f.seedModule(t, plan.ID, "Дроби", 0)
	card := e.f.seedCard(t, tutor.ID, module.ID, "обычная", 0)

	_, err := e.svc.CreateCardFromTemplate(tutor.ID, card.ID, module.ID)
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("clone of regular card: got %v, want ErrValidation", err)
	}
}

func TestGetCardWithoutModuleRejected(t *testing.T) {
	e := newCardEnv(t)
	tutor := e.f.seedUser(t, models.RoleTutor, "tutor@example.com")

	// Обычная карточка без модуля в базе быть не должна, но такая
	// строка не должна ронять сервис
	orphan := &models.Card{
		ID:      uuid.New(),
		Title:   "без модуля",
		TutorID: tutor.ID,
	}
	if err := e.f.db.Create(orphan).Error; err != nil {
		t.Fatalf("create orphan card: %v", err)
	}

	_, err := e.svc.GetCard(tutor.ID, orphan.ID)
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("GetCard(orphan): got %v, want ErrValidation", err)
	}
}

func TestSetLabels(t *testing.T) {
	e := newCardEnv(t)
	tutor := e.f.seedUser(t, models.RoleTutor, "tutor@example.com")
	plan := e.f.seedPlan(t, tutor.ID, "CODE0001")
	module := e.f.seedModule(t, plan.ID, "Дроби", 0)
	card := e.f.seedCard(t, tutor.ID, module.ID, "Тема", 0)

	labelSvc := NewLabelService(e.f.labels)
	exam, err := labelSvc.CreateLabel(tutor.ID, "Экзамен", "#ff0000")
	if err != nil {
		t.Fatalf("CreateLabel: %v", err)
	}

	updated, err := e.svc.SetLabels(tutor.ID, card.ID, []uuid.UUID{exam.ID})
	if err != nil {
		t.Fatalf("SetLabels: %v", err)
	}
	if len(updated.Labels) != 1 || updated.Labels[0].Title != "Экзамен" {
		t.Fatalf("card labels: %+v", updated.Labels)
	}
}

func TestSetLabelsOfAnotherTutorDenied(t *testing.T) {
	e := newCardEnv(t)
	tutor := e.f.seedUser(t, models.RoleTutor, "tutor@example.com")
	other := e.f.seedUser(t, models.RoleTutor, "other@example.com")
	plan := e.f.seedPlan(t, tutor.ID, "CODE0001")
	module := e.f.seedModule(t, plan.ID, "Дроби", 0)
	card := e.f.seedCard(t, tutor.ID, module.ID, "Тема", 0)

	labelSvc := NewLabelService(e.f.labels)
	foreign, err := labelSvc.CreateLabel(other.ID, "Чужая", "#00ff00")
	if err != nil {
		t.Fatalf("CreateLabel: %v", err)
	}

	_, err = e.svc.SetLabels(tutor.ID, card.ID, []uuid.UUID{foreign.ID})
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("SetLabels with foreign label: got %v, want ErrPermissionDenied", err)
	}
}
