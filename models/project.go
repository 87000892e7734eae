package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ProjectRoleLeader  = "leader"
	ProjectRoleManager = "manager"
	ProjectRoleMember  = "member"
)

type Project struct {
	Base
	Name        string          `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description *string         `gorm:"column:description;type:text" json:"description"`
	StartDate   datatypes.Date  `gorm:"column:start_date;not null" json:"start_date"`
	EndDate     *datatypes.Date `gorm:"column:end_date" json:"end_date"`
	Budget      *float64        `gorm:"column:budget" json:"budget"`
	Status      string          `gorm:"column:status;type:varchar(50);not null;default:'planning'" json:"status"`

	Members []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
}

func (Project) TableName() string { return "projects" }

type ProjectMember struct {
	Base
	ProjectID uuid.UUID `gorm:"column:project_id;type:char(36);not null;uniqueIndex:idx_project_member" json:"project_id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:char(36);not null;uniqueIndex:idx_project_member" json:"user_id"`
	Role      string    `gorm:"column:role;type:varchar(50);not null" json:"role"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (ProjectMember) TableName() string { return "project_members" }

type Milestone struct {
	Base
	ProjectID      uuid.UUID       `gorm:"column:project_id;type:char(36);not null;index" json:"project_id"`
	Name           string          `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description    *string         `gorm:"column:description;type:text" json:"description"`
	DueDate        datatypes.Date  `gorm:"column:due_date;not null" json:"due_date"`
	CompletionDate *datatypes.Date `gorm:"column:completion_date" json:"completion_date"`
	Status         string          `gorm:"column:status;type:varchar(50);not null;default:'pending'" json:"status"`
}

func (Milestone) TableName() string { return "milestones" }

type Deliverable struct {
	Base
	MilestoneID uuid.UUID      `gorm:"column:milestone_id;type:char(36);not null;index" json:"milestone_id"`
	Name        string         `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description *string        `gorm:"column:description;type:text" json:"description"`
	DueDate     datatypes.Date `gorm:"column:due_date;not null" json:"due_date"`
	FileURL     *string        `gorm:"column:file_url;type:varchar(500)" json:"file_url"`
	Status      string         `gorm:"column:status;type:varchar(50);not null;default:'pending'" json:"status"`

	Milestone *Milestone `gorm:"foreignKey:MilestoneID" json:"-"`
}

func (Deliverable) TableName() string { return "deliverables" }

// Acquisition is a procurement record charged to a project.
type Acquisition struct {
	Base
	ProjectID     uuid.UUID       `gorm:"column:project_id;type:char(36);not null;index" json:"project_id"`
	Name          string          `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description   *string         `gorm:"column:description;type:text" json:"description"`
	Amount        float64         `gorm:"column:amount;not null" json:"amount"`
	PurchaseDate  *datatypes.Date `gorm:"column:purchase_date" json:"purchase_date"`
	Category      *string         `gorm:"column:category;type:varchar(100)" json:"category"`
	Supplier      *string         `gorm:"column:supplier;type:varchar(255)" json:"supplier"`
	InvoiceNumber *string         `gorm:"column:invoice_number;type:varchar(100)" json:"invoice_number"`
}

func (Acquisition) TableName() string { return "acquisitions" }
