package services

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/enrudae/TutorToolkit/internal/models"
	"github.com/enrudae/TutorToolkit/internal/repository"
	"github.com/enrudae/TutorToolkit/internal/testutil"
)

type fixture struct {
	db      *gorm.DB
	users   repository.UserRepository
	plans   repository.EducationPlanRepository
	modules repository.ModuleRepository
	cards   repository.CardRepository
	lessons repository.LessonRepository
	notifs  repository.NotificationRepository
	labels  repository.LabelRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return &fixture{
		db:      db,
		users:   repository.NewUserRepository(db),
		plans:   repository.NewEducationPlanRepository(db),
		modules: repository.NewModuleRepository(db),
		cards:   repository.NewCardRepository(db),
		lessons: repository.NewLessonRepository(db),
		notifs:  repository.NewNotificationRepository(db),
		labels:  repository.NewLabelRepository(db),
	}
}

func (f *fixture) seedUser(t *testing.T, role models.UserRole, email string) *models.User {
	t.Helper()
	user := &models.User{
		ID:        uuid.New(),
		Email:     email,
		Role:      role,
		FirstName: "Иван",
		LastName:  "Петров",
	}
	if err := f.users.Create(user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func (f *fixture) seedPlan(t *testing.T, tutorID uuid.UUID, inviteCode string) *models.EducationPlan {
	t.Helper()
	plan := &models.EducationPlan{
		ID:         uuid.New(),
		Title:      "Алгебра 9 класс",
		Discipline: "Математика",
		TutorID:    tutorID,
		InviteCode: inviteCode,
		Status:     models.PlanStatusInactive,
	}
	if err := f.plans.Create(plan); err != nil {
		t.Fatalf("failed to create plan: %v", err)
	}
	return plan
}

func (f *fixture) seedModule(t *testing.T, planID uuid.UUID, title string, index int) *models.Module {
	t.Helper()
	module := &models.Module{
		ID:     uuid.New(),
		PlanID: planID,
		Title:  title,
		Index:  index,
	}
	if err := f.modules.Create(module); err != nil {
		t.Fatalf("failed to create module: %v", err)
	}
	return module
}

func (f *fixture) seedCard(t *testing.T, tutorID, moduleID uuid.UUID, title string, index int) *models.Card {
	t.Helper()
	idx := index
	card := &models.Card{
		ID:       uuid.New(),
		ModuleID: &moduleID,
		Index:    &idx,
		Title:    title,
		Status:   models.CardStatusNotStarted,
		TutorID:  tutorID,
	}
	if err := f.cards.Create(card); err != nil {
		t.Fatalf("failed to create card: %v", err)
	}
	return card
}

// cardTitles возвращает заголовки карточек модуля в порядке индексов
func (f *fixture) cardTitles(t *testing.T, moduleID uuid.UUID) []string {
	t.Helper()
	cards, err := f.cards.ListByModule(moduleID)
	if err != nil {
		t.Fatalf("failed to list cards: %v", err)
	}
	titles := make([]string, 0, len(cards))
	for _, card := range cards {
		titles = append(titles, card.Title)
	}
	return titles
}

func (f *fixture) moduleTitles(t *testing.T, planID uuid.UUID) []string {
	t.Helper()
	modules, err := f.modules.ListByPlan(planID)
	if err != nil {
		t.Fatalf("failed to list modules: %v", err)
	}
	titles := make([]string, 0, len(modules))
	for _, module := range modules {
		titles = append(titles, module.Title)
	}
	return titles
}

// requireDense проверяет, что индексы карточек модуля — ровно 0..N-1
func (f *fixture) requireDense(t *testing.T, moduleID uuid.UUID) {
	t.Helper()
	cards, err := f.cards.ListByModule(moduleID)
	if err != nil {
		t.Fatalf("failed to list cards: %v", err)
	}
	for i, card := range cards {
		if card.Index == nil || *card.Index != i {
			t.Fatalf("card %q has index %v, want %d", card.Title, card.Index, i)
		}
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
