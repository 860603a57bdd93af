package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "centsible/internal/errors"
	"centsible/internal/models"
)

// accountService handles money-account business logic.
type accountService struct {
	db *gorm.DB
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db}
}

// CreateAccount creates a new money account for the user.
func (s *accountService) CreateAccount(userID, name string, accountType models.AccountType, color string) (*models.Account, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}

	var maxOrder int
	if err := s.db.Model(&models.Account{}).Where("user_id = ?", userID).
		Select("COALESCE(MAX(sort_order), 0)").Scan(&maxOrder).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	account := &models.Account{
		UserID:    userID,
		Name:      name,
		Type:      accountType,
		Color:     color,
		SortOrder: maxOrder + 1,
		IsActive:  true,
	}

	if err := s.db.Create(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return account, nil
}

// GetUserAccounts returns all accounts for the user ordered by sort order.
func (s *accountService) GetUserAccounts(userID string) ([]models.Account, error) {
	var accounts []models.Account
	if err := s.db.Where("user_id = ?", userID).Order("sort_order").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return accounts, nil
}

// GetAccountByID returns an account by ID if it belongs to the user.
func (s *accountService) GetAccountByID(userID, accountID string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// UpdateAccount updates an account's name and color.
func (s *accountService) UpdateAccount(userID, accountID, name, color string) (*models.Account, error) {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if color != "" {
		updates["color"] = color
	}

	if len(updates) > 0 {
		if err := s.db.Model(account).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return account, nil
}

// DeleteAccount soft-deletes an account. Existing expenses keep their
// account_id reference for historical records.
func (s *accountService) DeleteAccount(userID, accountID string) error {
	account, err := s.GetAccountByID(userID, accountID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(account).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ReorderAccounts applies a drag-reorder of the user's accounts.
// orderedIDs must name every account exactly once.
func (s *accountService) ReorderAccounts(userID string, orderedIDs []string) ([]models.Account, error) {
	accounts, err := s.GetUserAccounts(userID)
	if err != nil {
		return nil, err
	}

	if len(orderedIDs) != len(accounts) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "reorder must include every account")
	}

	byID := make(map[string]models.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}

	ordered := make([]models.Account, 0, len(orderedIDs))
	for i, id := range orderedIDs {
		a, ok := byID[id]
		if !ok {
			return nil, apperrors.WithMessage(apperrors.ErrAccountNotFound, "account not found: "+id)
		}
		delete(byID, id)
		a.SortOrder = i + 1
		ordered = append(ordered, a)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, a := range ordered {
			if err := tx.Model(&models.Account{}).Where("id = ?", a.ID).Update("sort_order", a.SortOrder).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return ordered, nil
}
