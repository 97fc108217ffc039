// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CropSense Contributors

package server_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cropsense-dev/cropsense/internal/scorer"
	"github.com/cropsense-dev/cropsense/internal/server"
)

// buildUpload assembles a multipart body with an explicit part content type.
func buildUpload(t *testing.T, fieldName, fileName, contentType string, data []byte, extra map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="`+fieldName+`"; filename="`+fileName+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)

	for key, value := range extra {
		require.NoError(t, mw.WriteField(key, value))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func greenPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 24, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 24; x++ {
			img.Set(x, y, color.RGBA{G: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func postUpload(srv *server.Server, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/farmer/upload-crop-image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Detail
}

func TestUploadCropImage(t *testing.T) {
	srv := newTestServer(t, server.Config{}, echoChatService(), heuristicScoreService{})

	body, contentType := buildUpload(t, "file", "crop.png", "image/png", greenPNG(t), nil)
	rec := postUpload(srv, body, contentType)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result scorer.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotEmpty(t, result.RequestID)
	assert.InDelta(t, 100.0, result.Score, 0.01)
	assert.Equal(t, scorer.LabelExcellent, result.QualityLabel)
	assert.Equal(t, "heuristic", result.Details.Method)
}

func TestUploadCropImage_WithFarmerID(t *testing.T) {
	srv := newTestServer(t, server.Config{}, echoChatService(), heuristicScoreService{})

	body, contentType := buildUpload(t, "file", "crop.png", "image/png", greenPNG(t),
		map[string]string{"farmer_id": "farmer-17"})
	rec := postUpload(srv, body, contentType)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestUploadCropImage_UnsupportedType(t *testing.T) {
	srv := newTestServer(t, server.Config{}, echoChatService(), heuristicScoreService{})

	body, contentType := buildUpload(t, "file", "crop.bin", "application/octet-stream", greenPNG(t), nil)
	rec := postUpload(srv, body, contentType)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeDetail(t, rec), "Unsupported file type: application/octet-stream")
}

func TestUploadCropImage_MissingFileField(t *testing.T) {
	srv := newTestServer(t, server.Config{}, echoChatService(), heuristicScoreService{})

	body, contentType := buildUpload(t, "attachment", "crop.png", "image/png", greenPNG(t), nil)
	rec := postUpload(srv, body, contentType)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeDetail(t, rec), "'file' form field")
}

func TestUploadCropImage_CorruptImage(t *testing.T) {
	srv := newTestServer(t, server.Config{}, echoChatService(), heuristicScoreService{})

	body, contentType := buildUpload(t, "file", "crop.png", "image/png", []byte("not a png"), nil)
	rec := postUpload(srv, body, contentType)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeDetail(t, rec), "Invalid image file.")
}

func TestUploadCropImage_TooLarge(t *testing.T) {
	srv := newTestServer(t, server.Config{MaxImageBytes: 32}, echoChatService(), heuristicScoreService{})

	body, contentType := buildUpload(t, "file", "crop.png", "image/png", greenPNG(t), nil)
	rec := postUpload(srv, body, contentType)

	// The body cap rejects the oversized payload before or after the
	// form parse depending on buffering; either way it is a 400.
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, decodeDetail(t, rec))
}
