// internal/services/category_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cellcare/pos-backend/internal/models"
	"github.com/cellcare/pos-backend/internal/utils"
)

// CategoryService manages the three-level category tree per owner.
type CategoryService struct {
	db *gorm.DB
}

type CreateCategoryRequest struct {
	Name     string     `json:"name" validate:"required,max=100"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
	Level    int        `json:"level" validate:"required,min=1,max=3"`
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

func (s *CategoryService) CreateCategory(ownerID uuid.UUID, req *CreateCategoryRequest) (*models.Category, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.Level == 1 && req.ParentID != nil {
		return nil, errors.New("main categories cannot have a parent")
	}

	if req.Level > 1 {
		if req.ParentID == nil {
			return nil, errors.New("parent category is required for subcategories")
		}

		var parent models.Category
		if err := s.db.Where("id = ? AND owner_id = ?", *req.ParentID, ownerID).
			First(&parent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, fmt.Errorf("database error: %w", err)
		}

		if parent.Level != req.Level-1 {
			return nil, fmt.Errorf("parent category must be level %d", req.Level-1)
		}
	}

	category := &models.Category{
		Name:     req.Name,
		ParentID: req.ParentID,
		Level:    req.Level,
		OwnerID:  ownerID,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// GetCategoryTree returns the owner's top-level categories with sub- and
// sub-sub-categories populated.
func (s *CategoryService) GetCategoryTree(ownerID uuid.UUID) ([]models.Category, error) {
	var roots []models.Category
	if err := s.db.Where("owner_id = ? AND level = ?", ownerID, 1).
		Preload("SubCategories").
		Preload("SubCategories.SubCategories").
		Order("name ASC").
		Find(&roots).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return roots, nil
}

func (s *CategoryService) DeleteCategory(id, ownerID uuid.UUID) error {
	var category models.Category
	if err := s.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	var children int64
	if err := s.db.Model(&models.Category{}).
		Where("parent_id = ?", id).Count(&children).Error; err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	if children > 0 {
		return errors.New("cannot delete category with subcategories")
	}

	if err := s.db.Delete(&category).Error; err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}
