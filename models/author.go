package models

import "strings"

type Author struct {
	Base
	FirstName   string  `gorm:"column:first_name;type:varchar(100);not null" json:"first_name"`
	LastName    string  `gorm:"column:last_name;type:varchar(100);not null" json:"last_name"`
	Email       *string `gorm:"column:email;type:varchar(120);uniqueIndex" json:"email"`
	Institution *string `gorm:"column:institution;type:varchar(200)" json:"institution"`
	OrcidID     *string `gorm:"column:orcid_id;type:varchar(19);uniqueIndex" json:"orcid_id"`
}

func (Author) TableName() string { return "authors" }

// FullName joins the first and last name.
func (a *Author) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}
