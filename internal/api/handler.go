package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xzeggaedu/fica-academic-sub002/internal/config"
	"github.com/xzeggaedu/fica-academic-sub002/internal/db"
	"github.com/xzeggaedu/fica-academic-sub002/internal/listing"
	"github.com/xzeggaedu/fica-academic-sub002/internal/logger"
	"github.com/xzeggaedu/fica-academic-sub002/internal/model"
	"github.com/xzeggaedu/fica-academic-sub002/internal/queue"
	"github.com/xzeggaedu/fica-academic-sub002/internal/storage"
	apperrors "github.com/xzeggaedu/fica-academic-sub002/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Enqueuer is the queue surface the handler needs; satisfied by
// queue.Producer.
type Enqueuer interface {
	EnqueueIngestionJob(ctx context.Context, job model.IngestionJob) error
	PublishFileUploaded(ctx context.Context, fileID int64) error
}

var _ Enqueuer = (*queue.Producer)(nil)

type Handler struct {
	repo     db.Repository
	producer Enqueuer
	storage  storage.Storage
	cfg      *config.Config
	log      zerolog.Logger
}

func NewHandler(
	repo db.Repository,
	producer Enqueuer,
	store storage.Storage,
	cfg *config.Config,
) *Handler {
	return &Handler{
		repo:     repo,
		producer: producer,
		storage:  store,
		cfg:      cfg,
		log:      logger.Component("api"),
	}
}

func (h *Handler) ListFiles(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))

	files, total, err := h.repo.ListFiles(c.Request.Context(), page, pageSize)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list load files")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if files == nil {
		files = []model.AcademicLoadFile{}
	}
	c.JSON(http.StatusOK, model.ListResponse{Data: files, Total: total})
}

// ViewRow is a flat-view row plus the viewer's action flag.
type ViewRow struct {
	listing.Row
	CanManage bool `json:"can_manage"`
}

func (h *Handler) FlatView(c *gin.Context) {
	viewer := ViewerFromRequest(c)

	files, _, err := h.repo.ListFiles(c.Request.Context(), 0, 0)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list load files")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	rows := listing.FlatView(files, c.Query("q"))
	out := make([]ViewRow, len(rows))
	for i, row := range rows {
		out[i] = ViewRow{Row: row, CanManage: viewer.CanManage(row.File)}
	}

	c.JSON(http.StatusOK, gin.H{"data": out, "total": len(out)})
}

func (h *Handler) TermView(c *gin.Context) {
	viewer := ViewerFromRequest(c)
	if !viewer.Privileged() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Grouped view requires an elevated role"})
		return
	}

	files, _, err := h.repo.ListFiles(c.Request.Context(), 0, 0)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list load files")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	reportIDs, err := h.repo.BillingReportFileIDs(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load billing report associations")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	for _, f := range listing.Dropped(files) {
		h.log.Debug().Int64("file_id", f.ID).Int64("term_id", f.TermID).
			Msg("Load file excluded from grouped view, term metadata incomplete")
	}

	buckets := listing.TermView(files, reportIDs)
	if buckets == nil {
		buckets = []listing.Bucket{}
	}
	c.JSON(http.StatusOK, gin.H{"data": buckets, "total": len(buckets)})
}

func (h *Handler) UploadFile(c *gin.Context) {
	viewer := ViewerFromRequest(c)
	if viewer.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing X-User header"})
		return
	}

	facultyID, err1 := strconv.ParseInt(c.PostForm("faculty_id"), 10, 64)
	schoolID, err2 := strconv.ParseInt(c.PostForm("school_id"), 10, 64)
	termID, err3 := strconv.ParseInt(c.PostForm("term_id"), 10, 64)
	if err1 != nil || err2 != nil || err3 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "faculty_id, school_id and term_id are required"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file"})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".xlsx" && ext != ".xlsm" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only Excel workbooks are accepted"})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to open uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to read uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	key := storage.ObjectKey(facultyID, schoolID, termID, fileHeader.Filename)
	if err := h.storage.Upload(c.Request.Context(), key, bytes.NewReader(data)); err != nil {
		h.log.Error().Err(err).Str("key", key).Msg("Failed to store uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	file := &model.AcademicLoadFile{
		FacultyID:        facultyID,
		SchoolID:         schoolID,
		TermID:           termID,
		S3Path:           key,
		OriginalFilename: fileHeader.Filename,
		UserName:         viewer.Name,
	}

	if err := h.repo.CreateFile(c.Request.Context(), file); err != nil {
		h.log.Error().Err(err).Msg("Failed to create load file record")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create record"})
		return
	}

	job := model.IngestionJob{FileID: file.ID, S3Path: key}
	if err := h.producer.EnqueueIngestionJob(c.Request.Context(), job); err != nil {
		h.log.Error().Err(err).Int64("file_id", file.ID).Msg("Failed to enqueue ingestion job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue ingestion"})
		return
	}

	if err := h.producer.PublishFileUploaded(c.Request.Context(), file.ID); err != nil {
		// The watch worker's idle re-check still picks the record up; the
		// wake signal only shortens the wait.
		h.log.Warn().Err(err).Int64("file_id", file.ID).Msg("Failed to publish upload event")
	}

	h.log.Info().
		Int64("file_id", file.ID).
		Int64("faculty_id", facultyID).
		Int64("school_id", schoolID).
		Int64("term_id", termID).
		Int("version", file.Version).
		Msg("Load file uploaded")

	c.JSON(http.StatusCreated, model.UploadResponse{
		File:    *file,
		Message: "File uploaded, ingestion queued",
	})
}

func (h *Handler) DeleteFile(c *gin.Context) {
	viewer := ViewerFromRequest(c)

	fileID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file ID"})
		return
	}

	file, err := h.repo.GetFile(c.Request.Context(), fileID)
	if err != nil {
		if errors.Is(err, apperrors.ErrFileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		h.log.Error().Err(err).Int64("file_id", fileID).Msg("Failed to load file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !viewer.CanManage(*file) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to delete this record"})
		return
	}

	promoted, wasActive, err := h.repo.DeleteFile(c.Request.Context(), fileID)
	if err != nil {
		h.log.Error().Err(err).Int64("file_id", fileID).Msg("Failed to delete load file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete record"})
		return
	}

	if err := h.storage.Delete(c.Request.Context(), file.S3Path); err != nil {
		h.log.Warn().Err(err).Str("key", file.S3Path).Msg("Failed to delete stored object")
	}

	resp := model.DeleteResponse{Message: "Record deleted"}
	if wasActive && promoted != nil {
		resp.Note = "The previous version became the active version automatically"
	}

	h.log.Info().Int64("file_id", fileID).Bool("was_active", wasActive).Msg("Load file deleted")
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetFileStatus(c *gin.Context) {
	fileID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file ID"})
		return
	}

	status, err := h.repo.GetFileStatus(c.Request.Context(), fileID)
	if err != nil {
		if errors.Is(err, apperrors.ErrFileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		h.log.Error().Err(err).Int64("file_id", fileID).Msg("Failed to get file status")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *Handler) ListBillingReports(c *gin.Context) {
	reports, err := h.repo.ListBillingReports(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list billing reports")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if reports == nil {
		reports = []model.BillingReport{}
	}
	c.JSON(http.StatusOK, gin.H{"data": reports, "total": len(reports)})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.cfg.App.Name,
		"version": h.cfg.App.Version,
	})
}
