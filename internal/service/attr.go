package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/types"
	"gorm.io/gorm"
)

// attrPtr is satisfied by *models.Tag and *models.Ingredient.
type attrPtr[T any] interface {
	*T
	models.Attribute
}

const msgAttrNameTaken = "You already have one with this name."

// AttrService manages one kind of owner-scoped attribute (tags or
// ingredients).
type AttrService[T any, PT attrPtr[T]] struct {
	db   *gorm.DB
	kind models.AttributeKind
}

var (
	_ IAttrService[models.Tag]        = (*AttrService[models.Tag, *models.Tag])(nil)
	_ IAttrService[models.Ingredient] = (*AttrService[models.Ingredient, *models.Ingredient])(nil)
)

func NewAttrService[T any, PT attrPtr[T]](db *gorm.DB) *AttrService[T, PT] {
	return &AttrService[T, PT]{db: db, kind: PT(new(T)).AttributeKind()}
}

func NewTagService(db *gorm.DB) *AttrService[models.Tag, *models.Tag] {
	return NewAttrService[models.Tag](db)
}

func NewIngredientService(db *gorm.DB) *AttrService[models.Ingredient, *models.Ingredient] {
	return NewAttrService[models.Ingredient](db)
}

func (s *AttrService[T, PT]) List(ctx context.Context, owner uint, f AttrFilter) ([]T, error) {
	var out []T
	q := s.db.WithContext(ctx).Model(new(T))
	if err := f.Apply(q, owner, s.kind).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.kind.Table, err)
	}
	return out, nil
}

func (s *AttrService[T, PT]) Get(ctx context.Context, owner, id uint) (*T, error) {
	rec := new(T)
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, owner).First(rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s %d: %w", s.kind.Table, id, err)
	}
	return rec, nil
}

func (s *AttrService[T, PT]) Create(ctx context.Context, owner uint, req *types.AttrRequest) (*T, error) {
	name, err := checkAttrName(req)
	if err != nil {
		return nil, err
	}

	rec := new(T)
	PT(rec).SetOwner(owner)
	PT(rec).SetName(name)
	err = s.db.WithContext(ctx).Create(rec).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, NewValidationError("name", msgAttrNameTaken)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", s.kind.Table, err)
	}
	return rec, nil
}

// Update renames the record. An absent name is accepted for partial updates
// and leaves the record unchanged.
func (s *AttrService[T, PT]) Update(ctx context.Context, owner, id uint, req *types.AttrRequest, partial bool) (*T, error) {
	rec, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if partial && req.Name == nil {
		return rec, nil
	}
	name, err := checkAttrName(req)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(rec).Update("name", name).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, NewValidationError("name", msgAttrNameTaken)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update %s %d: %w", s.kind.Table, id, err)
	}
	PT(rec).SetName(name)
	return rec, nil
}

// Delete removes the record and detaches it from every recipe.
func (s *AttrService[T, PT]) Delete(ctx context.Context, owner, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		detach := fmt.Sprintf("DELETE FROM %s WHERE %s IN (SELECT id FROM %s WHERE id = ? AND user_id = ?)",
			s.kind.JoinTable, s.kind.JoinColumn, s.kind.Table)
		if err := tx.Exec(detach, id, owner).Error; err != nil {
			return fmt.Errorf("failed to detach %s %d: %w", s.kind.Table, id, err)
		}
		res := tx.Where("id = ? AND user_id = ?", id, owner).Delete(new(T))
		if res.Error != nil {
			return fmt.Errorf("failed to delete %s %d: %w", s.kind.Table, id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func checkAttrName(req *types.AttrRequest) (string, error) {
	if req.Name == nil {
		return "", NewValidationError("name", MsgRequired)
	}
	name := strings.TrimSpace(*req.Name)
	if name == "" {
		return "", NewValidationError("name", MsgBlank)
	}
	return name, nil
}
