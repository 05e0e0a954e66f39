package controllers

import (
	"net/http"

	"amora_server/apperrors"
	"amora_server/middleware"
	"amora_server/services"
)

// PhotoController issues presigned S3 URLs for profile photos.
type PhotoController struct {
	S3 *services.S3Service
}

func NewPhotoController(s3 *services.S3Service) *PhotoController {
	return &PhotoController{S3: s3}
}

// HandleUploadURL returns a presigned PUT URL for a new photo.
func (c *PhotoController) HandleUploadURL(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		apperrors.Write(w, apperrors.Unauthorized("NO_TOKEN", "not authenticated"))
		return
	}

	var req struct {
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.FileName == "" || req.FileType == "" {
		apperrors.Write(w, apperrors.Validation("MISSING_FIELDS", "fileName and fileType are required"))
		return
	}

	url, key, err := c.S3.GenerateUploadURL(r.Context(), userID, req.FileName, req.FileType)
	if err != nil {
		apperrors.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url, "key": key})
}

// HandleReadURL returns a presigned GET URL for a stored photo.
func (c *PhotoController) HandleReadURL(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserID(r.Context()); !ok {
		apperrors.Write(w, apperrors.Unauthorized("NO_TOKEN", "not authenticated"))
		return
	}

	var req struct {
		Key string `json:"key"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Key == "" {
		apperrors.Write(w, apperrors.Validation("MISSING_FIELDS", "key is required"))
		return
	}

	url, err := c.S3.GenerateReadURL(r.Context(), req.Key)
	if err != nil {
		apperrors.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
