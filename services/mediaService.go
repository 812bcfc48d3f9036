package services

import (
	"bytes"
	"io"
	"log"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/circlehq/circle-api/db"
	errs "github.com/circlehq/circle-api/errors"
	"github.com/circlehq/circle-api/models"
	"github.com/leebenson/conform"
)

// MediaService is the upload pipeline plus record access on top of it.
type MediaService interface {
	Upload(fileHeader *multipart.FileHeader, form *UploadForm) (*UploadResult, error)
	CreateEntry(entry *EntryInput) (*models.Media, error)
	List() ([]models.Media, error)
	GetByID(id uint) (*models.Media, error)
	Delete(id uint) (*DeleteOutcome, error)
	Count() (int64, error)
	PhotoURL(m *models.Media) string
	ThumbURL(m *models.Media) string
	TableCounts() (map[string]int64, error)
}

// UploadForm carries the metadata fields that ride along with the file part.
// Both the current frontend names and the legacy names are accepted; the
// handler maps whichever set arrived into this one.
type UploadForm struct {
	Title         string `conform:"trim"`
	Description   string `conform:"trim"`
	UploadedBy    string `conform:"trim"`
	Tags          string `conform:"trim"`
	FamilyGroupID *uint
}

// UploadResult reports what the pipeline managed to do. ThumbnailErr is
// informational; thumbnail generation never fails an upload.
type UploadResult struct {
	Media        *models.Media
	StorageName  string
	ThumbnailErr error
}

// EntryInput is the legacy JSON create body. PhotoURL optionally points at a
// file a previous upload call stored.
type EntryInput struct {
	Name         string `json:"name" conform:"trim"`
	Relationship string `json:"relationship" conform:"trim"`
	Memory       string `json:"memory" conform:"trim"`
	Year         int    `json:"year"`
	PhotoURL     string `json:"photo_url" conform:"trim"`
}

// DeleteOutcome records the blob cleanup results after the row is gone.
// Cleanup failures are logged, never surfaced; the record delete already
// succeeded.
type DeleteOutcome struct {
	FileErr  error
	ThumbErr error
}

type mediaService struct {
	repo          db.MediaRepository
	store         BlobStore
	maxUploadSize int64
}

func NewMediaService(repo db.MediaRepository, store BlobStore, maxUploadSize int64) MediaService {
	return &mediaService{repo: repo, store: store, maxUploadSize: maxUploadSize}
}

// Upload runs the whole pipeline: validate the file part, write the blob
// under a fresh random name, attempt a thumbnail, then persist the record.
// Validation failures happen before any side effect. A failed record insert
// after a successful write returns the result together with
// ErrMetadataPersist so the handler can report the stored filename.
func (s *mediaService) Upload(fileHeader *multipart.FileHeader, form *UploadForm) (*UploadResult, error) {
	if fileHeader == nil {
		return nil, errs.ErrNoFilePart
	}
	if strings.TrimSpace(fileHeader.Filename) == "" {
		return nil, errs.ErrEmptyFilename
	}
	if s.maxUploadSize > 0 && fileHeader.Size > s.maxUploadSize {
		return nil, errs.ErrFileTooLarge
	}

	ext, ok := CheckAllowedFile(fileHeader.Filename)
	if !ok {
		return nil, errs.ErrInvalidFileType
	}

	if err := conform.Strings(form); err != nil {
		log.Printf("conforming upload form: %v", err)
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("opening upload part: %v", err)
		return nil, errs.ErrStorageWrite
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Printf("reading upload part: %v", err)
		return nil, errs.ErrStorageWrite
	}

	storageName := generateStorageName(ext)
	if err := s.store.Save(storageName, bytes.NewReader(data)); err != nil {
		log.Printf("storing %s: %v", storageName, err)
		return nil, errs.ErrStorageWrite
	}

	result := &UploadResult{StorageName: storageName}

	category := FileCategory(ext)
	thumbName := ""
	if category == "image" {
		thumbName, result.ThumbnailErr = s.makeThumbnail(data, storageName)
	}

	original := sanitizeFilename(fileHeader.Filename)
	title := form.Title
	if title == "" {
		title = titleFromFilename(original)
	}

	media := &models.Media{
		Title:            title,
		Description:      form.Description,
		Filename:         storageName,
		OriginalFilename: original,
		FileType:         category,
		Thumbnail:        thumbName,
		UploadedBy:       form.UploadedBy,
		Tags:             form.Tags,
		FamilyGroupID:    form.FamilyGroupID,
	}
	if err := s.repo.Create(media); err != nil {
		log.Printf("persisting record for %s: %v", storageName, err)
		return result, errs.ErrMetadataPersist
	}

	result.Media = media
	return result, nil
}

// makeThumbnail is best effort. The returned error rides along in the
// result for logging.
func (s *mediaService) makeThumbnail(data []byte, storageName string) (string, error) {
	thumb, err := GenerateThumbnail(data, storageName)
	if err != nil {
		log.Printf("thumbnail for %s: %v", storageName, err)
		return "", err
	}
	name := ThumbName(storageName)
	if err := s.store.SaveThumb(name, bytes.NewReader(thumb)); err != nil {
		log.Printf("storing thumbnail %s: %v", name, err)
		return "", err
	}
	return name, nil
}

// CreateEntry persists a legacy JSON entry. When photo_url points back at a
// file this service stored, the record the upload call already created is
// adopted and enriched rather than duplicated, so every storage name keeps
// exactly one owning row. Text-only memories are allowed and keep an empty
// filename.
func (s *mediaService) CreateEntry(entry *EntryInput) (*models.Media, error) {
	if err := conform.Strings(entry); err != nil {
		log.Printf("conforming entry input: %v", err)
	}

	filename := storageNameFromURL(entry.PhotoURL)
	if filename != "" {
		existing, err := s.repo.GetByFilename(filename)
		if err == nil {
			return s.mergeEntry(existing, entry)
		}
		if !errs.Is(err, errs.ErrNotFound) {
			return nil, err
		}
		// No record: an earlier insert failed after the blob was written.
		// The entry becomes the file's owner.
	}

	name := entry.Name
	if name == "" {
		name = "Anonymous"
	}
	relationship := entry.Relationship
	if relationship == "" {
		relationship = "Family"
	}

	media := &models.Media{
		Title:       name,
		Description: entry.Memory,
		UploadedBy:  relationship,
		FileType:    "file",
	}
	if entry.Year > 0 {
		media.Tags = strconv.Itoa(entry.Year)
	}
	if filename != "" {
		media.Filename = filename
		if ext, ok := CheckAllowedFile(filename); ok {
			media.FileType = FileCategory(ext)
		}
	}

	if err := s.repo.Create(media); err != nil {
		return nil, err
	}
	return media, nil
}

// mergeEntry folds the entry fields into the record its upload created.
// Fields the entry leaves blank keep what the upload set.
func (s *mediaService) mergeEntry(existing *models.Media, entry *EntryInput) (*models.Media, error) {
	if entry.Name != "" {
		existing.Title = entry.Name
	}
	if entry.Relationship != "" {
		existing.UploadedBy = entry.Relationship
	}
	if entry.Memory != "" {
		existing.Description = entry.Memory
	}
	if entry.Year > 0 {
		existing.Tags = strconv.Itoa(entry.Year)
	}
	if err := s.repo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// storageNameFromURL recovers the blob name from a photo_url a previous
// upload call handed out. Anything not under an uploads path is ignored.
func storageNameFromURL(photoURL string) string {
	if photoURL == "" || !strings.Contains(photoURL, "uploads/") {
		return ""
	}
	parts := strings.Split(photoURL, "uploads/")
	name := parts[len(parts)-1]
	if name == "" || strings.ContainsAny(name, "/\\?#") {
		return ""
	}
	return name
}

func (s *mediaService) List() ([]models.Media, error) {
	records, err := s.repo.List()
	if err != nil {
		log.Printf("listing records: %v", err)
		return nil, errs.ErrDatabaseUnavailable
	}
	return records, nil
}

func (s *mediaService) GetByID(id uint) (*models.Media, error) {
	return s.repo.GetByID(id)
}

// Delete removes the record first, then cleans up the blobs. Once the row is
// gone the delete has succeeded; file cleanup problems are reported in the
// outcome and logged by the caller.
func (s *mediaService) Delete(id uint) (*DeleteOutcome, error) {
	media, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(id); err != nil {
		return nil, err
	}

	outcome := &DeleteOutcome{}
	if media.Filename != "" {
		outcome.FileErr = s.store.Remove(media.Filename)
	}
	if media.Thumbnail != "" {
		outcome.ThumbErr = s.store.RemoveThumb(media.Thumbnail)
	}
	return outcome, nil
}

// PhotoURL is where the stored file is served from, empty for text-only
// entries.
func (s *mediaService) PhotoURL(m *models.Media) string {
	if m.Filename == "" {
		return ""
	}
	return s.store.URL(m.Filename)
}

// ThumbURL prefers the thumbnail and falls back to the full file.
func (s *mediaService) ThumbURL(m *models.Media) string {
	if m.Thumbnail != "" {
		return s.store.ThumbURL(m.Thumbnail)
	}
	return s.PhotoURL(m)
}

func (s *mediaService) Count() (int64, error) {
	return s.repo.Count()
}

func (s *mediaService) TableCounts() (map[string]int64, error) {
	return s.repo.TableCounts()
}
