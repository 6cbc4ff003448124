package httpapi

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"github.com/example/certbatch/internal/adapters/csvinput"
	"github.com/example/certbatch/internal/app"
	"github.com/example/certbatch/internal/ports/primary"
)

// Form fields of the issuance request.
const (
	fieldCSV       = "csv"
	fieldTemplates = "templates"
	fieldFolderURL = "driveFolderUrl"
)

// handleIssue runs a batch from a multipart form. Checks run in a fixed
// order: templates, CSV presence, folder URL, CSV content.
func (s *Server) handleIssue(c *gin.Context) {
	req := primary.IssueBatchRequest{
		TemplatesJSON:  c.PostForm(fieldTemplates),
		DestinationURL: c.PostForm(fieldFolderURL),
	}

	file, fileErr := c.FormFile(fieldCSV)
	if fileErr == nil {
		req.Recipients = []primary.Recipient{}
	}

	if err := s.issuance.ValidateBatch(c.Request.Context(), req); err != nil {
		s.fail(c, err)
		return
	}

	recipients, err := readRecipients(file)
	if err != nil {
		if errors.Is(err, csvinput.ErrInvalidFormat) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   csvinput.ErrInvalidFormat.Error(),
				"details": err.Error(),
			})
			return
		}
		s.fail(c, err)
		return
	}
	req.Recipients = recipients

	// A started batch runs to completion even if the client goes away.
	ctx := context.WithoutCancel(c.Request.Context())
	outcome, err := s.issuance.IssueBatch(ctx, req)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, outcome)
}

func (s *Server) handleTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, s.issuance.ListTemplates(c.Request.Context()))
}

// handleUpload stores the "csv" form file in the transient upload store.
func (s *Server) handleUpload(c *gin.Context) {
	file, err := c.FormFile(fieldCSV)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": app.ErrMissingFile.Error()})
		return
	}

	content, err := readAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	blob, err := s.blobs.Upload(c.Request.Context(), primary.UploadBlobRequest{
		FileName:    file.Filename,
		ContentType: mimetype.Detect(content).String(),
		Content:     content,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if app.IsValidationError(err) {
			status = http.StatusBadRequest
		}
		s.logger.Error("upload failed", "file", file.Filename, "error", err)
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"url":      blob.URL,
		"filename": blob.Pathname,
	})
}

func (s *Server) handleListBlobs(c *gin.Context) {
	blobs, err := s.blobs.ListBlobs(c.Request.Context())
	if err != nil {
		s.logger.Error("listing blobs failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list blobs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"blobs": blobs})
}

// handleDeleteBlobs purges by age when "cleanup" is given, otherwise
// deletes the blob named by "url".
func (s *Server) handleDeleteBlobs(c *gin.Context) {
	if cleanup := c.Query("cleanup"); cleanup != "" {
		days, err := strconv.Atoi(cleanup)
		if err != nil {
			days = primary.DefaultPurgeDays
		}
		result, err := s.blobs.PurgeOlderThan(c.Request.Context(), days)
		if err != nil {
			s.logger.Error("purging blobs failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete blob"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"deletedCount": result.DeletedCount,
			"deletedBlobs": result.DeletedBlobs,
		})
		return
	}

	err := s.blobs.DeleteBlob(c.Request.Context(), c.Query("url"))
	if err != nil {
		if app.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.logger.Error("deleting blob failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete blob"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// fail maps validation errors to 400 and everything else to 500.
func (s *Server) fail(c *gin.Context, err error) {
	if app.IsValidationError(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.logger.Error("batch processing error", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Server error",
		"details": err.Error(),
	})
}

func readRecipients(file *multipart.FileHeader) ([]primary.Recipient, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return csvinput.ReadRecipients(f)
}

func readAll(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
