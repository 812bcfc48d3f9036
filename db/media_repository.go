package db

import (
	"time"

	errs "github.com/circlehq/circle-api/errors"
	"github.com/circlehq/circle-api/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type MediaRepository interface {
	Create(media *models.Media) error
	Update(media *models.Media) error
	List() ([]models.Media, error)
	GetByID(id uint) (*models.Media, error)
	GetByFilename(filename string) (*models.Media, error)
	Delete(id uint) error
	Count() (int64, error)
	TableCounts() (map[string]int64, error)
}

type mediaRepo struct {
	DB *gorm.DB
}

func NewMediaRepo(db *GormDB) MediaRepository {
	return &mediaRepo{db.DB}
}

// Create inserts the record and stamps upload_date once; it is never touched
// again after this.
func (m *mediaRepo) Create(media *models.Media) error {
	now := time.Now().UTC()
	if media.UploadDate.IsZero() {
		media.UploadDate = now
	}
	if err := m.DB.Create(media).Error; err != nil {
		return errors.Wrap(err, "inserting media record")
	}
	return nil
}

func (m *mediaRepo) Update(media *models.Media) error {
	if err := m.DB.Save(media).Error; err != nil {
		return errors.Wrap(err, "updating media record")
	}
	return nil
}

func (m *mediaRepo) List() ([]models.Media, error) {
	var records []models.Media
	if err := m.DB.Order("created_at DESC, id DESC").Find(&records).Error; err != nil {
		return nil, errors.Wrap(err, "listing media records")
	}
	return records, nil
}

func (m *mediaRepo) GetByID(id uint) (*models.Media, error) {
	var media models.Media
	err := m.DB.First(&media, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, errors.Wrap(err, "fetching media record")
	}
	return &media, nil
}

// GetByFilename finds the record owning a storage name. At most one row
// references any given name.
func (m *mediaRepo) GetByFilename(filename string) (*models.Media, error) {
	var media models.Media
	err := m.DB.Where("filename = ?", filename).First(&media).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, errors.Wrap(err, "fetching media record by filename")
	}
	return &media, nil
}

func (m *mediaRepo) Delete(id uint) error {
	result := m.DB.Delete(&models.Media{}, id)
	if result.Error != nil {
		return errors.Wrap(result.Error, "deleting media record")
	}
	if result.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (m *mediaRepo) Count() (int64, error) {
	var count int64
	if err := m.DB.Model(&models.Media{}).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "counting media records")
	}
	return count, nil
}

// TableCounts backs the debug surface: every table the migrator knows about,
// with its row count.
func (m *mediaRepo) TableCounts() (map[string]int64, error) {
	tables, err := m.DB.Migrator().GetTables()
	if err != nil {
		return nil, errors.Wrap(err, "listing tables")
	}

	counts := make(map[string]int64, len(tables))
	for _, table := range tables {
		var count int64
		if err := m.DB.Table(table).Count(&count).Error; err != nil {
			return nil, errors.Wrapf(err, "counting rows in %s", table)
		}
		counts[table] = count
	}
	return counts, nil
}
