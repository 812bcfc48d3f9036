package server

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/circlehq/circle-api/db"
	errs "github.com/circlehq/circle-api/errors"
	"github.com/circlehq/circle-api/models"
	"github.com/circlehq/circle-api/server/response"
	"github.com/circlehq/circle-api/services"
	"github.com/gin-gonic/gin"
)

// handleUploadMedia serves every multipart upload route. The payload key
// differs per surface ("media" for the CRUD routes, "memory" for the
// memories screen) but the pipeline behind them is the same.
func (s *Server) handleUploadMedia(payloadKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			// The first clients sent the part as "photo".
			fileHeader, err = c.FormFile("photo")
		}
		if err != nil {
			respondAndAbort(c, "", http.StatusBadRequest, nil, errs.ErrNoFilePart)
			return
		}

		form := uploadFormFromRequest(c)
		result, err := s.MediaService.Upload(fileHeader, form)
		if err != nil {
			if errs.Is(err, errs.ErrMetadataPersist) {
				// The bytes are on disk; tell the client which name they
				// landed under even though no record exists.
				response.JSON(c, err.Error(), http.StatusMultiStatus, gin.H{
					"filename": result.StorageName,
				}, nil)
				return
			}
			respondAndAbort(c, "", errs.StatusOf(err), nil, err)
			return
		}
		if result.ThumbnailErr != nil {
			log.Printf("upload %s stored without thumbnail: %v", result.StorageName, result.ThumbnailErr)
		}

		media := result.Media
		data := gin.H{
			"filename":  media.Filename,
			"photo_url": s.MediaService.PhotoURL(media),
		}
		if payloadKey == "memory" {
			data[payloadKey] = media.Memory(s.MediaService.ThumbURL(media))
		} else {
			data[payloadKey] = media.Payload()
		}
		response.JSON(c, "upload successful", http.StatusCreated, data, nil)
	}
}

// uploadFormFromRequest accepts both the current field names and the legacy
// ones (name/relationship/memory/story/year) in the same request.
func uploadFormFromRequest(c *gin.Context) *services.UploadForm {
	form := &services.UploadForm{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		UploadedBy:  c.PostForm("uploaded_by"),
		Tags:        c.PostForm("tags"),
	}
	if form.Title == "" {
		form.Title = c.PostForm("name")
	}
	if form.Description == "" {
		form.Description = c.PostForm("story")
	}
	if form.Description == "" {
		form.Description = c.PostForm("memory")
	}
	if form.UploadedBy == "" {
		form.UploadedBy = c.PostForm("relationship")
	}
	if form.Tags == "" {
		form.Tags = c.PostForm("year")
	}
	if raw := c.PostForm("family_group_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			groupID := uint(id)
			form.FamilyGroupID = &groupID
		}
	}
	return form
}

// handleListMedia returns every record, newest first. A database failure
// degrades to an empty list so the gallery still renders.
func (s *Server) handleListMedia() gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := s.MediaService.List()
		if err != nil {
			log.Printf("listing media: %v", err)
			response.JSON(c, "", http.StatusOK, gin.H{"media": []models.MediaPayload{}}, nil)
			return
		}
		payloads := make([]models.MediaPayload, 0, len(records))
		for i := range records {
			payloads = append(payloads, records[i].Payload())
		}
		response.JSON(c, "", http.StatusOK, gin.H{"media": payloads}, nil)
	}
}

func (s *Server) handleGetMedia() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			respondAndAbort(c, "invalid id", http.StatusBadRequest, nil, err)
			return
		}
		media, err := s.MediaService.GetByID(uint(id))
		if err != nil {
			respondAndAbort(c, "", errs.StatusOf(err), nil, err)
			return
		}
		response.JSON(c, "", http.StatusOK, gin.H{"media": media.Payload()}, nil)
	}
}

func (s *Server) handleDeleteMedia() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			respondAndAbort(c, "invalid id", http.StatusBadRequest, nil, err)
			return
		}
		outcome, err := s.MediaService.Delete(uint(id))
		if err != nil {
			respondAndAbort(c, "", errs.StatusOf(err), nil, err)
			return
		}
		if outcome.FileErr != nil {
			log.Printf("deleting file for record %d: %v", id, outcome.FileErr)
		}
		if outcome.ThumbErr != nil {
			log.Printf("deleting thumbnail for record %d: %v", id, outcome.ThumbErr)
		}
		response.JSON(c, "deleted", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleListMemories() gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := s.MediaService.List()
		if err != nil {
			log.Printf("listing memories: %v", err)
			response.JSON(c, "", http.StatusOK, gin.H{"memories": []models.MemoryPayload{}}, nil)
			return
		}
		payloads := make([]models.MemoryPayload, 0, len(records))
		for i := range records {
			payloads = append(payloads, records[i].Memory(s.MediaService.ThumbURL(&records[i])))
		}
		response.JSON(c, "", http.StatusOK, gin.H{"memories": payloads}, nil)
	}
}

// handleListEntries is the legacy list: same records, legacy field names.
func (s *Server) handleListEntries() gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := s.MediaService.List()
		if err != nil {
			log.Printf("listing entries: %v", err)
			response.JSON(c, "", http.StatusOK, gin.H{"entries": []models.EntryPayload{}}, nil)
			return
		}
		payloads := make([]models.EntryPayload, 0, len(records))
		for i := range records {
			payloads = append(payloads, records[i].Entry(s.MediaService.PhotoURL(&records[i])))
		}
		response.JSON(c, "", http.StatusOK, gin.H{"entries": payloads}, nil)
	}
}

// handleCreateEntry is the legacy JSON create. The file, when there is one,
// was stored by a prior call to the upload endpoint and arrives here as
// photo_url.
func (s *Server) handleCreateEntry() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.EntryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respondAndAbort(c, "invalid request body", http.StatusBadRequest, nil, err)
			return
		}
		media, err := s.MediaService.CreateEntry(&input)
		if err != nil {
			respondAndAbort(c, "", errs.StatusOf(err), nil, err)
			return
		}
		response.JSON(c, "entry created", http.StatusCreated, gin.H{
			"entry": media.Entry(s.MediaService.PhotoURL(media)),
		}, nil)
	}
}

func (s *Server) handleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		kind := "sqlite"
		if s.Config.UsePostgres() {
			kind = "postgres"
		}
		count, err := s.MediaService.Count()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":   "unhealthy",
				"database": kind,
				"error":    err.Error(),
				"time":     time.Now().UTC().Format(time.RFC3339),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"database": kind,
			"table":    models.Media{}.TableName(),
			"entries":  count,
			"time":     time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// handleDebugTables lists every table with its row count.
func (s *Server) handleDebugTables() gin.HandlerFunc {
	return func(c *gin.Context) {
		counts, err := s.MediaService.TableCounts()
		if err != nil {
			respondAndAbort(c, "", errs.StatusOf(err), nil, err)
			return
		}
		response.JSON(c, "", http.StatusOK, gin.H{"tables": counts}, nil)
	}
}

// handleDebugCreateTable re-runs the migrations. Harmless when the schema
// already exists; kept for recovering a fresh database without a deploy.
func (s *Server) handleDebugCreateTable() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Migrate(s.DB.DB); err != nil {
			respondAndAbort(c, "migration failed", http.StatusInternalServerError, nil, err)
			return
		}
		response.JSON(c, "tables created", http.StatusOK, nil, nil)
	}
}
