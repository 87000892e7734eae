package models

// Country is referenced by journals and conferences.
type Country struct {
	Base
	Name string `gorm:"column:name;type:varchar(100);not null" json:"name"`
	Code string `gorm:"column:code;type:varchar(2);not null;uniqueIndex" json:"code"`
}

func (Country) TableName() string { return "countries" }
