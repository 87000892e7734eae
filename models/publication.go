package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	PublicationTypeArticle         = "article"
	PublicationTypeConferencePaper = "conference-paper"
)

type PublicationType struct {
	Base
	Name        string  `gorm:"column:name;type:varchar(50);not null;uniqueIndex" json:"name"`
	Description *string `gorm:"column:description;type:text" json:"description"`
}

func (PublicationType) TableName() string { return "publication_types" }

type Keyword struct {
	Base
	Name string `gorm:"column:name;type:varchar(100);not null;uniqueIndex" json:"name"`
}

func (Keyword) TableName() string { return "keywords" }

// Publication is linked to at most one venue: a journal or a conference.
type Publication struct {
	Base
	Title             string          `gorm:"column:title;type:varchar(500);not null" json:"title"`
	Abstract          *string         `gorm:"column:abstract;type:text" json:"abstract"`
	DOI               *string         `gorm:"column:doi;type:varchar(255);uniqueIndex" json:"doi"`
	ExternalID        *string         `gorm:"column:external_id;type:varchar(600);uniqueIndex" json:"external_id"`
	PublicationDate   *datatypes.Date `gorm:"column:publication_date" json:"publication_date"`
	PDFURL            *string         `gorm:"column:pdf_url;type:varchar(500)" json:"pdf_url"`
	URL               *string         `gorm:"column:url;type:varchar(500)" json:"url"`
	Year              *int            `gorm:"column:year" json:"year"`
	Month             *int            `gorm:"column:month" json:"month"`
	Day               *int            `gorm:"column:day" json:"day"`
	CitationCount     int             `gorm:"column:citation_count;not null;default:0" json:"citation_count"`
	PublicationTypeID uuid.UUID       `gorm:"column:publication_type_id;type:char(36);not null;index" json:"publication_type_id"`
	JournalID         *uuid.UUID      `gorm:"column:journal_id;type:char(36);index" json:"journal_id"`
	ConferenceID      *uuid.UUID      `gorm:"column:conference_id;type:char(36);index" json:"conference_id"`
	ProjectID         *uuid.UUID      `gorm:"column:project_id;type:char(36);index" json:"project_id"`

	PublicationType *PublicationType     `gorm:"foreignKey:PublicationTypeID" json:"publication_type,omitempty"`
	Journal         *Journal             `gorm:"foreignKey:JournalID" json:"journal,omitempty"`
	Conference      *Conference          `gorm:"foreignKey:ConferenceID" json:"conference,omitempty"`
	Authors         []PublicationAuthor  `gorm:"foreignKey:PublicationID" json:"authors,omitempty"`
	Keywords        []PublicationKeyword `gorm:"foreignKey:PublicationID" json:"keywords,omitempty"`
}

func (Publication) TableName() string { return "publications" }

// PublicationAuthor is unique per (publication, author). AuthorOrder is
// assigned once at link time.
type PublicationAuthor struct {
	Base
	PublicationID   uuid.UUID `gorm:"column:publication_id;type:char(36);not null;uniqueIndex:idx_publication_author" json:"publication_id"`
	AuthorID        uuid.UUID `gorm:"column:author_id;type:char(36);not null;uniqueIndex:idx_publication_author" json:"author_id"`
	IsCorresponding bool      `gorm:"column:is_corresponding;not null;default:false" json:"is_corresponding"`
	AuthorOrder     int       `gorm:"column:author_order;not null" json:"author_order"`

	Author *Author `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (PublicationAuthor) TableName() string { return "publication_authors" }

type PublicationKeyword struct {
	Base
	PublicationID uuid.UUID `gorm:"column:publication_id;type:char(36);not null;uniqueIndex:idx_publication_keyword" json:"publication_id"`
	KeywordID     uuid.UUID `gorm:"column:keyword_id;type:char(36);not null;uniqueIndex:idx_publication_keyword" json:"keyword_id"`

	Keyword *Keyword `gorm:"foreignKey:KeywordID" json:"keyword,omitempty"`
}

func (PublicationKeyword) TableName() string { return "publication_keywords" }

// PublicationReference is either free text or a pointer at another publication.
type PublicationReference struct {
	Base
	CitingPublicationID     uuid.UUID  `gorm:"column:citing_publication_id;type:char(36);not null;index" json:"citing_publication_id"`
	ReferencedPublicationID *uuid.UUID `gorm:"column:referenced_publication_id;type:char(36);index" json:"referenced_publication_id"`
	ReferenceText           *string    `gorm:"column:reference_text;type:text" json:"reference_text"`
	ReferenceOrder          int        `gorm:"column:reference_order;not null" json:"reference_order"`
	DOI                     *string    `gorm:"column:doi;type:varchar(255)" json:"doi"`
	URL                     *string    `gorm:"column:url;type:varchar(500)" json:"url"`

	ReferencedPublication *Publication `gorm:"foreignKey:ReferencedPublicationID" json:"referenced_publication,omitempty"`
}

func (PublicationReference) TableName() string { return "publication_references" }
