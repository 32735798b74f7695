package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/enrudae/TutorToolkit/internal/models"
)

type ModuleRepository interface {
	Create(module *models.Module) error
	GetByID(id uuid.UUID) (*models.Module, error)
	ListByPlan(planID uuid.UUID) ([]*models.Module, error)
	CountByPlan(planID uuid.UUID) (int64, error)
	Update(module *models.Module) error

	// Move переставляет модуль на destIndex внутри его плана, сдвигая
	// соседей так, чтобы нумерация осталась плотной. Все записи — одна
	// транзакция.
	Move(moduleID uuid.UUID, destIndex int) error

	// Remove удаляет модуль с его карточками и закрывает дыру в нумерации
	Remove(moduleID uuid.UUID) error
}

type moduleRepository struct {
	db *gorm.DB
}

func NewModuleRepository(db *gorm.DB) ModuleRepository {
	return &moduleRepository{db: db}
}

func (r *moduleRepository) Create(module *models.Module) error {
	if module.ID == uuid.Nil {
		module.ID = uuid.New()
	}
	return r.db.Create(module).Error
}

func (r *moduleRepository) GetByID(id uuid.UUID) (*models.Module, error) {
	var module models.Module
	err := r.db.First(&module, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *moduleRepository) ListByPlan(planID uuid.UUID) ([]*models.Module, error) {
	var modules []*models.Module
	err := r.db.Where("plan_id = ?", planID).Order(`"index"`).Find(&modules).Error
	return modules, err
}

func (r *moduleRepository) CountByPlan(planID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Module{}).Where("plan_id = ?", planID).Count(&count).Error
	return count, err
}

func (r *moduleRepository) Update(module *models.Module) error {
	return r.db.Save(module).Error
}

func (r *moduleRepository) Move(moduleID uuid.UUID, destIndex int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var module models.Module
		if err := tx.First(&module, "id = ?", moduleID).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Module{}).Where("plan_id = ?", module.PlanID).Count(&count).Error; err != nil {
			return err
		}
		if destIndex > int(count)-1 {
			destIndex = int(count) - 1
		}
		if destIndex < 0 {
			destIndex = 0
		}
		if destIndex == module.Index {
			return nil
		}

		// Сдвигаем соседей условным массовым обновлением: каждый UPDATE
		// атомарен, частичного состояния снаружи транзакции не видно
		if module.Index > destIndex {
			err := tx.Model(&models.Module{}).
				Where(`plan_id = ? AND "index" >= ? AND "index" < ?`, module.PlanID, destIndex, module.Index).
				UpdateColumn("index", gorm.Expr(`"index" + ?`, 1)).Error
			if err != nil {
				return err
			}
		} else {
			err := tx.Model(&models.Module{}).
				Where(`plan_id = ? AND "index" > ? AND "index" <= ?`, module.PlanID, module.Index, destIndex).
				UpdateColumn("index", gorm.Expr(`"index" - ?`, 1)).Error
			if err != nil {
				return err
			}
		}

		return tx.Model(&models.Module{}).Where("id = ?", moduleID).
			UpdateColumn("index", destIndex).Error
	})
}

func (r *moduleRepository) Remove(moduleID uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var module models.Module
		if err := tx.First(&module, "id = ?", moduleID).Error; err != nil {
			return err
		}
		if err := tx.Where("module_id = ?", moduleID).Delete(&models.Card{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Module{}, "id = ?", moduleID).Error; err != nil {
			return err
		}
		return tx.Model(&models.Module{}).
			Where(`plan_id = ? AND "index" > ?`, module.PlanID, module.Index).
			UpdateColumn("index", gorm.Expr(`"index" - ?`, 1)).Error
	})
}
