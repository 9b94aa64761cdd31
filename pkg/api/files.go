package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/ysegev/wealth-tracker/pkg/models"
)

// maxUploadSize caps file uploads at 10 MB
const maxUploadSize = 10 << 20

func (s *Server) handleUploadFile(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	locationID := mux.Vars(r)["id"]

	location, err := s.fetchOwnedLocation(w, claims, locationID)
	if location == nil || err != nil {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid upload")
		return
	}

	upload, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer upload.Close()

	data, err := io.ReadAll(upload)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read upload")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	file := &models.FileAttachment{
		FileID:          uuid.NewString(),
		UserID:          claims.UserID,
		MoneyLocationID: locationID,
		OriginalName:    header.Filename,
		FileName:        header.Filename,
		Size:            int64(len(data)),
		MimeType:        mimeType,
		Data:            data,
		UploadedAt:      time.Now().UTC(),
	}

	if err := s.store.SaveFile(file); err != nil {
		log.Error().Err(err).Str("locationId", locationID).Msg("Failed to save file")
		writeError(w, http.StatusInternalServerError, "Failed to save file")
		return
	}

	// Data is excluded from serialization, only metadata goes back
	writeJSON(w, http.StatusCreated, file)
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	locationID := mux.Vars(r)["id"]

	location, err := s.fetchOwnedLocation(w, claims, locationID)
	if location == nil || err != nil {
		return
	}

	files, err := s.store.GetFiles(claims.UserID, locationID)
	if err != nil {
		log.Error().Err(err).Str("locationId", locationID).Msg("Failed to list files")
		writeError(w, http.StatusInternalServerError, "Failed to list files")
		return
	}
	if files == nil {
		files = []models.FileAttachment{}
	}

	writeJSON(w, http.StatusOK, files)
}

func (s *Server) handleDownloadFile(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	fileID := mux.Vars(r)["fileId"]

	file, err := s.store.GetFile(claims.UserID, fileID)
	if err != nil {
		log.Error().Err(err).Str("fileId", fileID).Msg("Failed to get file")
		writeError(w, http.StatusInternalServerError, "Failed to get file")
		return
	}
	if file == nil {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}

	w.Header().Set("Content-Type", file.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(file.Data)))
	if _, err := w.Write(file.Data); err != nil {
		log.Warn().Err(err).Str("fileId", fileID).Msg("Failed to write file response")
	}
}

type renameFileRequest struct {
	FileName string `json:"file_name"`
}

func (s *Server) handleRenameFile(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	fileID := mux.Vars(r)["fileId"]

	var req renameFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FileName == "" {
		writeError(w, http.StatusBadRequest, "File name required")
		return
	}

	if err := s.store.RenameFile(claims.UserID, fileID, req.FileName); err != nil {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"file_id": fileID, "file_name": req.FileName})
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	fileID := mux.Vars(r)["fileId"]

	if err := s.store.RemoveFile(claims.UserID, fileID); err != nil {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"file_id": fileID})
}
