package service

import (
	"context"

	"unimarket/internal/models"
	"unimarket/internal/observability"
	"unimarket/internal/repository"
)

type SavedItemService struct {
	savedRepo   repository.SavedItemRepository
	productRepo repository.ProductRepository
}

func NewSavedItemService(
	savedRepo repository.SavedItemRepository,
	productRepo repository.ProductRepository,
) *SavedItemService {
	return &SavedItemService{savedRepo: savedRepo, productRepo: productRepo}
}

// Toggle flips the saved state of a product for a user and returns the
// resulting state. Two concurrent first-time saves both observe "not saved";
// the duplicate insert lands as a no-op against the unique pair index, so
// both callers correctly see isSaved=true and exactly one row exists.
func (s *SavedItemService) Toggle(ctx context.Context, userID, productID uint) (bool, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return false, err
	}
	if product.DeletedAt.Valid {
		return false, models.NewNotFoundError("Product", productID)
	}

	saved, err := s.savedRepo.IsSaved(ctx, userID, productID)
	if err != nil {
		return false, err
	}

	if saved {
		if err := s.savedRepo.Unsave(ctx, userID, productID); err != nil {
			return false, err
		}
		observability.SavedItemTogglesTotal.WithLabelValues("unsaved").Inc()
		return false, nil
	}

	if err := s.savedRepo.Save(ctx, userID, productID); err != nil {
		return false, err
	}
	observability.SavedItemTogglesTotal.WithLabelValues("saved").Inc()
	return true, nil
}

func (s *SavedItemService) ListSaved(ctx context.Context, userID uint) ([]models.SavedItem, error) {
	return s.savedRepo.ListByUser(ctx, userID)
}

// SavedProductIDs reports which of the given products the user has saved,
// used to decorate listing responses for authenticated callers.
func (s *SavedItemService) SavedProductIDs(ctx context.Context, userID uint, productIDs []uint) (map[uint]bool, error) {
	ids, err := s.savedRepo.GetSavedProductIDs(ctx, userID, productIDs)
	if err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
