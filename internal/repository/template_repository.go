// internal/repository/template_repository.go
package repository

import (
	"context"
	"errors"

	"innerpath/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TemplateRepository interface {
	FindByID(ctx context.Context, db *gorm.DB, templateID uuid.UUID) (*model.JourneyTemplate, error)
	List(ctx context.Context, db *gorm.DB) ([]*model.JourneyTemplate, error)
}

type gormTemplateRepository struct{}

func NewGormTemplateRepository() TemplateRepository {
	return &gormTemplateRepository{}
}

func (r *gormTemplateRepository) FindByID(ctx context.Context, db *gorm.DB, templateID uuid.UUID) (*model.JourneyTemplate, error) {
	var tpl model.JourneyTemplate
	result := db.WithContext(ctx).Preload("Blueprints").First(&tpl, "template_id = ?", templateID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, result.Error
	}
	return &tpl, nil
}

func (r *gormTemplateRepository) List(ctx context.Context, db *gorm.DB) ([]*model.JourneyTemplate, error) {
	var tpls []*model.JourneyTemplate
	result := db.WithContext(ctx).Order("theme ASC, difficulty ASC").Find(&tpls)
	if result.Error != nil {
		return nil, result.Error
	}
	return tpls, nil
}
