package service

import (
	"fmt"
	"strings"

	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// upsertRelations points recipe's tag or ingredient set (selected by PT) at
// exactly the requested names. Each name is resolved to the owner's existing
// record or created; duplicates collapse to one entry in first-seen order.
// An empty request clears the set. Must run inside a transaction.
func upsertRelations[T any, PT attrPtr[T]](tx *gorm.DB, owner uint, recipe *models.Recipe, requested []types.NamePayload) error {
	if recipe.UserID != owner {
		return ErrForbidden
	}

	resolved := make([]T, 0, len(requested))
	seen := make(map[uint]struct{}, len(requested))
	for _, p := range requested {
		rec, err := getOrCreateAttr[T, PT](tx, owner, p.Name)
		if err != nil {
			return err
		}
		id := PT(rec).GetID()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		resolved = append(resolved, *rec)
	}

	field := PT(new(T)).AttributeKind().RecipeField
	assoc := tx.Model(recipe).Association(field)
	var err error
	if len(resolved) == 0 {
		err = assoc.Clear()
	} else {
		err = assoc.Replace(resolved)
	}
	if err != nil {
		return fmt.Errorf("failed to replace %s: %w", strings.ToLower(field), err)
	}
	return nil
}

// getOrCreateAttr returns the owner's record named name, inserting it when
// absent. The insert ignores unique conflicts and re-reads, so concurrent
// callers converge on one row.
func getOrCreateAttr[T any, PT attrPtr[T]](tx *gorm.DB, owner uint, name string) (*T, error) {
	rec := new(T)
	err := tx.Where("user_id = ? AND name = ?", owner, name).Limit(1).Find(rec).Error
	if err != nil {
		return nil, fmt.Errorf("failed to look up %q: %w", name, err)
	}
	if PT(rec).GetID() != 0 {
		return rec, nil
	}

	PT(rec).SetOwner(owner)
	PT(rec).SetName(name)
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(rec).Error; err != nil {
		return nil, fmt.Errorf("failed to create %q: %w", name, err)
	}
	if PT(rec).GetID() != 0 {
		return rec, nil
	}

	rec = new(T)
	if err := tx.Where("user_id = ? AND name = ?", owner, name).First(rec).Error; err != nil {
		return nil, fmt.Errorf("failed to re-read %q: %w", name, err)
	}
	return rec, nil
}

func validateNames(verr *ValidationError, field string, names *[]types.NamePayload) {
	if names == nil {
		return
	}
	for i := range *names {
		n := strings.TrimSpace((*names)[i].Name)
		switch {
		case n == "":
			verr.Add(field, "name: "+MsgBlank)
		case len([]rune(n)) > 255:
			verr.Add(field, "name: Ensure this field has no more than 255 characters.")
		}
		(*names)[i].Name = n
	}
}
