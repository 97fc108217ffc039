// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CropSense Contributors

package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/cropsense-dev/cropsense/internal/imaging"
	cserr "github.com/cropsense-dev/cropsense/pkg/errors"
)

// allowedUploadTypes is the content-type whitelist for crop uploads.
var allowedUploadTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// registerUploadRoute registers the multipart crop upload endpoint
// directly on the chi router. Multipart bodies don't fit huma's typed
// JSON operations, so this route handles its own decoding and error
// envelope, same as the huma error shape would not apply here anyway.
func (s *Server) registerUploadRoute() {
	s.router.Post("/farmer/upload-crop-image", s.handleUploadCropImage)
}

func (s *Server) handleUploadCropImage(w http.ResponseWriter, r *http.Request) {
	// Cap the request body so an oversized upload fails fast. The +1
	// lets the size check below distinguish "exactly at limit" from over.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxImageBytes+1)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeUploadError(w, http.StatusBadRequest, "Missing or unreadable 'file' form field.")
		return
	}
	defer func() { _ = file.Close() }()

	contentType := header.Header.Get("Content-Type")
	if !allowedUploadTypes[contentType] {
		writeUploadError(w, http.StatusBadRequest, fmt.Sprintf(
			"Unsupported file type: %s. Allowed types: [image/jpeg image/png image/webp]", contentType))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeUploadError(w, http.StatusBadRequest, "Reading uploaded file failed.")
		return
	}
	if int64(len(data)) > s.cfg.MaxImageBytes {
		writeUploadError(w, http.StatusBadRequest, fmt.Sprintf(
			"File too large. Max size is %d MB.", s.cfg.MaxImageBytes/(1024*1024)))
		return
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		writeUploadError(w, http.StatusBadRequest, fmt.Sprintf("Invalid image file. Error: %v", err))
		return
	}

	result, err := s.services.Score().ScoreImage(r.Context(), img)
	if err != nil {
		writeUploadError(w, cserr.HTTPStatus(err), err.Error())
		return
	}

	// farmer_id is accepted for score/farmer linkage by callers that
	// want it; the service itself stores nothing.
	if farmerID := r.FormValue("farmer_id"); farmerID != "" {
		slog.Info("scored crop upload", "farmer_id", farmerID,
			"request_id", result.RequestID, "score", result.Score)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		slog.Warn("encoding upload response", "error", err)
	}
}

// writeUploadError writes the {"detail": ...} error envelope the upload
// clients expect.
func writeUploadError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
