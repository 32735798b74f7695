package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/enrudae/TutorToolkit/internal/models"
)

var errCardNotPlaced = errors.New("card has no module or index")

type CardRepository interface {
	Create(card *models.Card) error
	GetByID(id uuid.UUID) (*models.Card, error)
	ListByModule(moduleID uuid.UUID) ([]*models.Card, error)
	CountByModule(moduleID uuid.UUID) (int64, error)
	ListTemplatesByTutor(tutorID uuid.UUID) ([]*models.Card, error)
	Update(card *models.Card) error
	UpdateStatus(cardID uuid.UUID, status models.CardStatus) error
	ReplaceLabels(card *models.Card, labels []models.Label) error

	// Move переставляет карточку на destIndex в модуле destModuleID,
	// сдвигая соседей в исходном и целевом модулях так, чтобы нумерация
	// в обоих осталась плотной. Все записи — одна транзакция.
	Move(cardID, destModuleID uuid.UUID, destIndex int) error

	// Remove удаляет карточку и закрывает дыру в нумерации модуля
	Remove(cardID uuid.UUID) error
}

type cardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Create(card *models.Card) error {
	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	for i := range card.Sections {
		if card.Sections[i].ID == uuid.Nil {
			card.Sections[i].ID = uuid.New()
		}
	}
	return r.db.Create(card).Error
}

func (r *cardRepository) GetByID(id uuid.UUID) (*models.Card, error) {
	var card models.Card
	err := r.db.
		Preload("Sections", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Labels").
		First(&card, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *cardRepository) ListByModule(moduleID uuid.UUID) ([]*models.Card, error) {
	var cards []*models.Card
	err := r.db.Where("module_id = ?", moduleID).Order(`"index"`).Find(&cards).Error
	return cards, err
}

func (r *cardRepository) CountByModule(moduleID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Card{}).Where("module_id = ?", moduleID).Count(&count).Error
	return count, err
}

func (r *cardRepository) ListTemplatesByTutor(tutorID uuid.UUID) ([]*models.Card, error) {
	var cards []*models.Card
	err := r.db.
		Preload("Sections", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("tutor_id = ? AND is_template = ?", tutorID, true).
		Order("created_at DESC").
		Find(&cards).Error
	return cards, err
}

func (r *cardRepository) Update(card *models.Card) error {
	return r.db.Save(card).Error
}

func (r *cardRepository) UpdateStatus(cardID uuid.UUID, status models.CardStatus) error {
	return r.db.Model(&models.Card{}).Where("id = ?", cardID).
		UpdateColumn("status", status).Error
}

func (r *cardRepository) ReplaceLabels(card *models.Card, labels []models.Label) error {
	return r.db.Model(card).Association("Labels").Replace(labels)
}

func (r *cardRepository) Move(cardID, destModuleID uuid.UUID, destIndex int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var card models.Card
		if err := tx.First(&card, "id = ?", cardID).Error; err != nil {
			return err
		}
		if card.ModuleID == nil || card.Index == nil {
			return errCardNotPlaced
		}
		srcModuleID := *card.ModuleID
		srcIndex := *card.Index

		if srcModuleID == destModuleID {
			var count int64
			if err := tx.Model(&models.Card{}).Where("module_id = ?", srcModuleID).Count(&count).Error; err != nil {
				return err
			}
			if destIndex > int(count)-1 {
				destIndex = int(count) - 1
			}
			if destIndex < 0 {
				destIndex = 0
			}
			if destIndex == srcIndex {
				return nil
			}

			if srcIndex > destIndex {
				// Перенос влево: освобождаем место, сдвигая соседей вправо
				err := tx.Model(&models.Card{}).
					Where(`module_id = ? AND "index" >= ? AND "index" < ?`, srcModuleID, destIndex, srcIndex).
					UpdateColumn("index", gorm.Expr(`"index" + ?`, 1)).Error
				if err != nil {
					return err
				}
			} else {
				// Перенос вправо: закрываем оставленную дыру сдвигом влево
				err := tx.Model(&models.Card{}).
					Where(`module_id = ? AND "index" > ? AND "index" <= ?`, srcModuleID, srcIndex, destIndex).
					UpdateColumn("index", gorm.Expr(`"index" - ?`, 1)).Error
				if err != nil {
					return err
				}
			}

			return tx.Model(&models.Card{}).Where("id = ?", cardID).
				UpdateColumn("index", destIndex).Error
		}

		// Перенос между модулями: закрываем дыру в исходном,
		// открываем слот в целевом, затем переписываем карточку
		var destCount int64
		if err := tx.Model(&models.Card{}).Where("module_id = ?", destModuleID).Count(&destCount).Error; err != nil {
			return err
		}
		if destIndex > int(destCount) {
			destIndex = int(destCount)
		}
		if destIndex < 0 {
			destIndex = 0
		}

		err := tx.Model(&models.Card{}).
			Where(`module_id = ? AND "index" > ?`, srcModuleID, srcIndex).
			UpdateColumn("index", gorm.Expr(`"index" - ?`, 1)).Error
		if err != nil {
			return err
		}

		err = tx.Model(&models.Card{}).
			Where(`module_id = ? AND "index" >= ?`, destModuleID, destIndex).
			UpdateColumn("index", gorm.Expr(`"index" + ?`, 1)).Error
		if err != nil {
			return err
		}

		return tx.Model(&models.Card{}).Where("id = ?", cardID).
			UpdateColumns(map[string]interface{}{
				"module_id": destModuleID,
				"index":     destIndex,
			}).Error
	})
}

func (r *cardRepository) Remove(cardID uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var card models.Card
		if err := tx.First(&card, "id = ?", cardID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Card{}, "id = ?", cardID).Error; err != nil {
			return err
		}
		if card.ModuleID == nil || card.Index == nil {
			return nil
		}
		return tx.Model(&models.Card{}).
			Where(`module_id = ? AND "index" > ?`, *card.ModuleID, *card.Index).
			UpdateColumn("index", gorm.Expr(`"index" - ?`, 1)).Error
	})
}
