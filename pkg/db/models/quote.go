package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/luisaguirre/cartquotes-backend/pkg/enums"
	"github.com/luisaguirre/cartquotes-backend/pkg/types"
)

// Quote is the persisted saved-cart aggregate. Items and update history are
// stored as jsonb documents; the scalar columns are indexed for search.
type Quote struct {
	ID             uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ReferenceName  string             `gorm:"column:reference_name;not null"`
	CreatorEmail   string             `gorm:"column:creator_email;not null"`
	CreatorRole    enums.ActorRole    `gorm:"column:creator_role;not null"`
	Organization   *string            `gorm:"column:organization"`
	CostCenter     *string            `gorm:"column:cost_center"`
	Status         enums.QuoteStatus  `gorm:"column:status;not null;default:'pending'"`
	Items          types.QuoteItems   `gorm:"column:items;type:jsonb;serializer:json"`
	UpdateHistory  types.QuoteUpdates `gorm:"column:update_history;type:jsonb;serializer:json"`
	CustomData     *types.CustomData  `gorm:"column:custom_data;type:jsonb;serializer:json"`
	SubtotalCents  int64              `gorm:"column:subtotal_cents;not null;default:0"`
	ViewedBySales  bool               `gorm:"column:viewed_by_sales;not null;default:false"`
	ViewedByCust   bool               `gorm:"column:viewed_by_customer;not null;default:false"`
	CreationDate   time.Time          `gorm:"column:creation_date;not null"`
	ExpirationDate time.Time          `gorm:"column:expiration_date;not null"`
	LastUpdate     time.Time          `gorm:"column:last_update;not null"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the legacy entity name used by the storefront.
func (Quote) TableName() string {
	return "quotes"
}

// AppSettings is the single-row settings document consulted by the setup
// guard before lifecycle operations.
type AppSettings struct {
	ID               int       `gorm:"column:id;primaryKey"`
	HasSchema        bool      `gorm:"column:has_schema;not null;default:false"`
	SchemaVersion    string    `gorm:"column:schema_version;not null;default:''"`
	AllowManualPrice bool      `gorm:"column:allow_manual_price;not null;default:false"`
	CartLifeSpan     int       `gorm:"column:cart_life_span;not null;default:30"`
	StoreLogoURL     string    `gorm:"column:store_logo_url;not null;default:''"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the settings table name.
func (AppSettings) TableName() string {
	return "app_settings"
}
