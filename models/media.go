package models

import (
	"strconv"
	"strings"
	"time"
)

// Media is one uploaded family memory. This is the canonical superset of the
// schema revisions that accumulated in the old deployment; the legacy
// name/relationship/memory/year columns are gone and the native payload is
// derived from these fields instead.
//
// Filename is unique by construction (random storage names). Text-only
// legacy entries leave it empty, which is why there is no DB unique index.
type Media struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Title            string    `gorm:"size:200" json:"title"`
	Description      string    `gorm:"type:text" json:"description"`
	Filename         string    `gorm:"size:300;index" json:"filename"`
	OriginalFilename string    `gorm:"size:300" json:"original_filename"`
	FileType         string    `gorm:"size:50" json:"filetype"`
	Thumbnail        string    `gorm:"size:300" json:"thumbnail,omitempty"`
	UploadDate       time.Time `json:"upload_date"`
	CreatedAt        time.Time `json:"created_at"`
	UploadedBy       string    `gorm:"size:100" json:"uploaded_by"`
	Tags             string    `gorm:"size:500" json:"tags"`
	FamilyGroupID    *uint     `json:"family_group_id,omitempty"`
}

// TableName keeps the table the old deployments already created.
func (Media) TableName() string {
	return "circle_table"
}

// MediaPayload is the response shape the current frontend expects.
type MediaPayload struct {
	ID               uint   `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Filename         string `json:"filename"`
	OriginalFilename string `json:"original_filename"`
	FileType         string `json:"filetype"`
	Thumbnail        string `json:"thumbnail,omitempty"`
	UploadDate       string `json:"upload_date"`
	UploadedBy       string `json:"uploaded_by"`
	Tags             string `json:"tags"`
}

// EntryPayload is the legacy "circle entry" shape. The first clients were
// built against these field names and still get them.
type EntryPayload struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Memory       string `json:"memory"`
	Year         int    `json:"year"`
	PhotoURL     string `json:"photo_url,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// MemoryPayload is the shape the memories screen renders.
type MemoryPayload struct {
	ID         uint   `json:"id"`
	Title      string `json:"title"`
	Story      string `json:"story"`
	Filename   string `json:"filename,omitempty"`
	FileType   string `json:"filetype"`
	Thumbnail  string `json:"thumbnail,omitempty"`
	UploadedBy string `json:"uploaded_by"`
	Tags       string `json:"tags"`
	UploadDate string `json:"upload_date"`
}

func (m *Media) Payload() MediaPayload {
	return MediaPayload{
		ID:               m.ID,
		Title:            m.Title,
		Description:      m.Description,
		Filename:         m.Filename,
		OriginalFilename: m.OriginalFilename,
		FileType:         m.FileType,
		Thumbnail:        m.Thumbnail,
		UploadDate:       m.UploadDate.Format(time.RFC3339),
		UploadedBy:       m.UploadedBy,
		Tags:             m.Tags,
	}
}

// Entry maps the record onto the legacy field names: name<-title,
// relationship<-uploaded_by, memory<-description, year<-first numeric tag,
// photo_url<-the served file (thumbnail when there is one).
func (m *Media) Entry(photoURL string) EntryPayload {
	return EntryPayload{
		ID:           m.ID,
		Name:         m.Title,
		Relationship: m.UploadedBy,
		Memory:       m.Description,
		Year:         m.Year(),
		PhotoURL:     photoURL,
		CreatedAt:    m.CreatedAt.Format(time.RFC3339),
	}
}

// Memory renders the record for the memories screen, where the
// description doubles as the story text.
func (m *Media) Memory(thumbURL string) MemoryPayload {
	return MemoryPayload{
		ID:         m.ID,
		Title:      m.Title,
		Story:      m.Description,
		Filename:   m.Filename,
		FileType:   m.FileType,
		Thumbnail:  thumbURL,
		UploadedBy: m.UploadedBy,
		Tags:       m.Tags,
		UploadDate: m.UploadDate.Format(time.RFC3339),
	}
}

// Year returns the first tag that parses as a year, 0 when none does.
func (m *Media) Year() int {
	for _, tag := range strings.Split(m.Tags, ",") {
		if y, err := strconv.Atoi(strings.TrimSpace(tag)); err == nil {
			return y
		}
	}
	return 0
}
