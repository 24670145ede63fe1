package ledger

import (
	"context"
	"strings"

	"finance-ledger/internal/models"
	"finance-ledger/internal/util"

	"github.com/shopspring/decimal"
)

// AssetInput creates or replaces an asset.
type AssetInput struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
	Type  string          `json:"type"`
}

func (in AssetInput) validate() (AssetInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := util.ValidateName(in.Name, 64); err != nil {
		return in, invalidf("%v", err)
	}
	in.Type = strings.ToLower(strings.TrimSpace(in.Type))
	if in.Type == "" {
		in.Type = "other"
	}
	if len(in.Type) > 32 {
		return in, invalidf("asset type too long")
	}
	if err := util.ValidateScale(in.Value); err != nil {
		return in, invalidf("value: %v", err)
	}
	return in, nil
}

// ListAssets returns the owner's assets, newest first.
func (s *Service) ListAssets(ctx context.Context, userID uint) ([]models.Asset, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	assets := make([]models.Asset, 0)
	if err := s.db(ctx).Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&assets).Error; err != nil {
		return nil, storageErr("list assets", err)
	}
	return assets, nil
}

// CreateAsset records an asset.
func (s *Service) CreateAsset(ctx context.Context, userID uint, in AssetInput) (*models.Asset, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	in, err := in.validate()
	if err != nil {
		return nil, err
	}
	asset := &models.Asset{UserID: userID, Name: in.Name, Value: in.Value, Type: in.Type}
	if err := s.db(ctx).Create(asset).Error; err != nil {
		return nil, storageErr("create asset", err)
	}
	return asset, nil
}

// UpdateAsset replaces name, value and type of an asset.
func (s *Service) UpdateAsset(ctx context.Context, userID, id uint, in AssetInput) (*models.Asset, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	in, err := in.validate()
	if err != nil {
		return nil, err
	}

	var asset models.Asset
	if err := s.db(ctx).Where("id = ? AND user_id = ?", id, userID).First(&asset).Error; err != nil {
		return nil, lookupErr("asset", id, err)
	}
	asset.Name, asset.Value, asset.Type = in.Name, in.Value, in.Type
	if err := s.db(ctx).Save(&asset).Error; err != nil {
		return nil, storageErr("update asset", err)
	}
	return &asset, nil
}

// DeleteAsset removes an asset.
func (s *Service) DeleteAsset(ctx context.Context, userID, id uint) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	res := s.db(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Asset{})
	if res.Error != nil {
		return storageErr("delete asset", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFoundf("asset %d", id)
	}
	return nil
}
