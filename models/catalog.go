package models

import (
	"gorm.io/gorm"
)

// Product structure constants
const (
	ProductStructureStandalone = "standalone"
	ProductStructureParent     = "parent"
	ProductStructureChild      = "child"
)

// ProductClass groups products that share stock-tracking behavior
type ProductClass struct {
	gorm.Model
	Title      string `json:"title"`
	TrackStock bool   `json:"track_stock" gorm:"default:true"`
}

// TableName keeps the original schema name
func (ProductClass) TableName() string {
	return "product_class"
}

// Product is a catalog entry. A parent product carries child variants;
// its stock record mirrors the cheapest available child.
type Product struct {
	gorm.Model
	Title          string        `json:"title"`
	Slug           string        `gorm:"uniqueIndex" json:"slug"`
	Structure      string        `json:"structure" gorm:"default:'standalone'"`
	IsPublic       bool          `json:"is_public" gorm:"default:true"`
	ParentID       *uint         `json:"parent_id"`
	Parent         *Product      `json:"-" gorm:"foreignKey:ParentID"`
	Children       []Product     `json:"-" gorm:"foreignKey:ParentID"`
	ProductClassID *uint         `json:"product_class_id"`
	ProductClass   *ProductClass `json:"product_class,omitempty" gorm:"foreignKey:ProductClassID"`
	StockRecord    *StockRecord  `json:"stockrecord,omitempty" gorm:"foreignKey:ProductID"`
}

// TableName keeps the original schema name
func (Product) TableName() string {
	return "product"
}

// TracksStock reports whether purchases of this product decrement stock.
// Child variants inherit the behavior from their parent's product class.
func (p *Product) TracksStock() bool {
	if p.Structure == ProductStructureChild && p.Parent != nil && p.Parent.ProductClass != nil {
		return p.Parent.ProductClass.TrackStock
	}
	if p.ProductClass != nil {
		return p.ProductClass.TrackStock
	}
	return true
}
