package vault

//go:generate mockgen -source=interfaces.go -destination=../mock/refresher_mock.go -package=mock

import (
	"context"

	"github.com/walletmesh/labelsync/models"
)

// Refresher exchanges a refresh token for a fresh credential at the
// provider's token endpoint. The OAuth client implements it; the vault
// only decides when a refresh is due and serializes concurrent callers.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (models.Credential, error)
}
