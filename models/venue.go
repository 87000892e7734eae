package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Journal struct {
	Base
	Name        string     `gorm:"column:name;type:varchar(255);not null;uniqueIndex" json:"name"`
	ISSN        *string    `gorm:"column:issn;type:varchar(20);uniqueIndex" json:"issn"`
	HIndex      *int       `gorm:"column:h_index" json:"h_index"`
	Quartile    *string    `gorm:"column:quartile;type:varchar(2)" json:"quartile"`
	Description *string    `gorm:"column:description;type:text" json:"description"`
	Publisher   *string    `gorm:"column:publisher;type:varchar(255)" json:"publisher"`
	Website     *string    `gorm:"column:website;type:varchar(255)" json:"website"`
	CountryID   *uuid.UUID `gorm:"column:country_id;type:char(36);index" json:"country_id"`

	Country *Country `gorm:"foreignKey:CountryID" json:"country,omitempty"`
}

func (Journal) TableName() string { return "journals" }

// Conference identity is (name, year).
type Conference struct {
	Base
	Name        string          `gorm:"column:name;type:varchar(255);not null;uniqueIndex:idx_conference_name_year" json:"name"`
	Year        int             `gorm:"column:year;not null;uniqueIndex:idx_conference_name_year" json:"year"`
	Location    *string         `gorm:"column:location;type:varchar(255)" json:"location"`
	HIndex      *int            `gorm:"column:h_index" json:"h_index"`
	Description *string         `gorm:"column:description;type:text" json:"description"`
	StartDate   *datatypes.Date `gorm:"column:start_date" json:"start_date"`
	EndDate     *datatypes.Date `gorm:"column:end_date" json:"end_date"`
	Website     *string         `gorm:"column:website;type:varchar(255)" json:"website"`
	CountryID   *uuid.UUID      `gorm:"column:country_id;type:char(36);index" json:"country_id"`

	Country *Country `gorm:"foreignKey:CountryID" json:"country,omitempty"`
}

func (Conference) TableName() string { return "conferences" }
