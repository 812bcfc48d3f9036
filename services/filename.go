package services

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Extension allow-list, lowercased, mapped to the coarse category the
// frontend filters on. The stored filetype is the category, not the raw
// extension; the extension stays recoverable from the storage name.
var allowedExtensions = map[string]string{
	"png":  "image",
	"jpg":  "image",
	"jpeg": "image",
	"gif":  "image",
	"mp4":  "video",
	"mov":  "video",
	"avi":  "video",
	"mkv":  "video",
	"pdf":  "document",
	"doc":  "document",
	"docx": "document",
	"txt":  "document",
}

// CheckAllowedFile validates a client-supplied filename against the
// allow-list and returns the lowercased extension (without the dot).
func CheckAllowedFile(filename string) (string, bool) {
	if !strings.Contains(filename, ".") {
		return "", false
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return "", false
	}
	_, ok := allowedExtensions[ext]
	return ext, ok
}

// FileCategory maps an extension to image/video/document, defaulting to
// "file" for anything outside the known sets.
func FileCategory(ext string) string {
	if category, ok := allowedExtensions[strings.ToLower(ext)]; ok {
		return category
	}
	return "file"
}

// generateStorageName derives a collision-free name for the stored blob:
// 32 hex characters plus the original extension. Uniqueness is by random
// generation only; nothing checks the database.
func generateStorageName(ext string) string {
	return strings.ReplaceAll(uuid.New().String(), "-", "") + "." + strings.ToLower(ext)
}

// sanitizeFilename strips any path components from the client-supplied name
// before it is kept for display.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	replacer := strings.NewReplacer("..", "_", "/", "_", "\\", "_")
	return replacer.Replace(name)
}

// titleFromFilename is the default title: the original name without its
// extension, or "Untitled" when nothing usable remains.
func titleFromFilename(name string) string {
	name = sanitizeFilename(name)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	stem = strings.TrimSpace(stem)
	if stem == "" {
		return "Untitled"
	}
	return stem
}
