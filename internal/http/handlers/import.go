package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/netinv-backend/internal/domain"
	"github.com/yungbote/netinv-backend/internal/domain/imports"
	"github.com/yungbote/netinv-backend/internal/http/response"
	"github.com/yungbote/netinv-backend/internal/jobs/orchestrator"
	"github.com/yungbote/netinv-backend/internal/pkg/ctxutil"
	"github.com/yungbote/netinv-backend/internal/platform/storage"
)

const DefaultMaxUploadBytes int64 = 64 << 20

type Importer interface {
	Start(ctx context.Context, sub orchestrator.Submission) (uuid.UUID, error)
	Status(ctx context.Context, id uuid.UUID) (orchestrator.StatusView, error)
	Report(ctx context.Context, id uuid.UUID) (io.ReadCloser, *types.ImportReport, error)
	LatestReport(ctx context.Context, entity types.Entity) (io.ReadCloser, *types.ImportReport, error)
}

type ImportHandler struct {
	imports        Importer
	maxUploadBytes int64
}

func NewImportHandler(imp Importer, maxUploadBytes int64) *ImportHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &ImportHandler{imports: imp, maxUploadBytes: maxUploadBytes}
}

// POST /api/imports/:entity
func (h *ImportHandler) StartImport(c *gin.Context) {
	entity, ok := imports.ParseEntity(c.Param("entity"))
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "invalid_entity", fmt.Errorf("unknown entity %q", c.Param("entity")))
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large", err)
			return
		}
		response.RespondError(c, http.StatusBadRequest, "missing_file", errors.New("multipart field \"file\" is required"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_file", err)
		return
	}
	defer f.Close()

	id, err := h.imports.Start(c.Request.Context(), orchestrator.Submission{
		Entity:   entity,
		Filename: fh.Filename,
		Body:     f,
		Actor:    ctxutil.Actor(c.Request.Context()),
	})
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"job_id": id, "status": imports.JobQueued})
}

// GET /api/imports/:id
func (h *ImportHandler) GetStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_job_id", err)
		return
	}
	view, err := h.imports.Status(c.Request.Context(), id)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, view)
}

// GET /api/imports/:id/report
func (h *ImportHandler) GetReport(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_job_id", err)
		return
	}
	rc, rep, err := h.imports.Report(c.Request.Context(), id)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	defer rc.Close()
	serveReport(c, rc, rep)
}

// GET /api/reports/latest/:entity
func (h *ImportHandler) GetLatestReport(c *gin.Context) {
	entity, ok := imports.ParseEntity(c.Param("entity"))
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "invalid_entity", fmt.Errorf("unknown entity %q", c.Param("entity")))
		return
	}
	rc, rep, err := h.imports.LatestReport(c.Request.Context(), entity)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	defer rc.Close()
	serveReport(c, rc, rep)
}

func serveReport(c *gin.Context, rc io.Reader, rep *types.ImportReport) {
	name := fmt.Sprintf("import_report_%s_%s.xlsx", rep.Entity, strings.ReplaceAll(rep.JobID.String(), "-", ""))
	c.DataFromReader(http.StatusOK, -1, storage.ContentType(rep.ArtifactKey), rc, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", name),
		"X-Import-Job-Id":     rep.JobID.String(),
	})
}
