package domain

import (
	"errors"
	"time"
)

// AssetStatus is the operational condition of an asset.
type AssetStatus string

const (
	AssetOperating   AssetStatus = "operating"
	AssetDegraded    AssetStatus = "degraded"
	AssetStopped     AssetStatus = "stopped"
	AssetMaintenance AssetStatus = "maintenance"
)

var ErrAssetNotFound = errors.New("asset not found")
var ErrInvalidStatus = errors.New("invalid status")

// Asset is a piece of equipment owned by a Client.
type Asset struct {
	ID        string      `json:"id"`
	ClientID  string      `json:"client_id"`
	Name      string      `json:"name"`
	AssetType string      `json:"asset_type,omitempty"`
	Location  string      `json:"location,omitempty"`
	Status    AssetStatus `json:"status"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
}

// ValidAssetStatus reports whether s is a known asset status.
func ValidAssetStatus(s AssetStatus) bool {
	switch s {
	case AssetOperating, AssetDegraded, AssetStopped, AssetMaintenance:
		return true
	}
	return false
}
