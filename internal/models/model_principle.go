package models

import "gorm.io/datatypes"

// Principle is one of the ten static karmic laws.
type Principle struct {
	Number      int                         `gorm:"column:number;primary_key;autoIncrement:false" json:"number"`
	Title       string                      `gorm:"column:title;type:varchar(128);not null" json:"title"`
	Description string                      `gorm:"column:description;type:text" json:"description"`
	Reflections datatypes.JSONSlice[string] `gorm:"column:reflections;type:jsonb;default:'[]'" json:"reflections"`
}

func (Principle) TableName() string { return "principles" }
