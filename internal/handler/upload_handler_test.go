package handler_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/bioscizone-api/internal/dto"
	"github.com/noah-isme/bioscizone-api/internal/handler"
	"github.com/noah-isme/bioscizone-api/internal/service"
)

type mockUploadService struct {
	lastActor service.Actor
	response  dto.UploadResponse
	err       error
}

func (m *mockUploadService) Upload(_ context.Context, actor service.Actor, file *multipart.FileHeader) (dto.UploadResponse, error) {
	m.lastActor = actor
	if m.err != nil {
		return dto.UploadResponse{}, m.err
	}
	return m.response, nil
}

func multipartRequest(t *testing.T, path, filename string, content []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadHandler_Success(t *testing.T) {
	svc := &mockUploadService{response: dto.UploadResponse{URL: "https://cdn.example.com/file.png", SizeBytes: 123, MimeType: "image/png", Checksum: "abc", FileName: "file.png"}}
	app, group := newActorApp("lan", "admin")
	handler.NewUploadHandler(svc, testLogger()).Register(group)

	resp, err := app.Test(multipartRequest(t, "/api/admin/uploads", "photo.png", []byte("png")))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response dto.UploadResponse
	decodeResponse(t, resp, &response)

	require.Equal(t, "lan", svc.lastActor.Username)
	require.Equal(t, svc.response.URL, response.URL)
}

func TestUploadHandler_MissingFile(t *testing.T) {
	app, group := newActorApp("lan", "admin")
	handler.NewUploadHandler(&mockUploadService{}, testLogger()).Register(group)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/admin/uploads", nil))
	require.NoError(t, err)
	requireDetail(t, resp, fiber.StatusBadRequest, "File is required")
}

func TestUploadHandler_ServiceErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		statusCode int
	}{
		{name: "too_large", err: service.ErrUploadTooLarge, statusCode: fiber.StatusRequestEntityTooLarge},
		{name: "type", err: service.ErrUploadTypeNotAllowed, statusCode: fiber.StatusBadRequest},
		{name: "scan", err: service.ErrUploadScanFailed, statusCode: fiber.StatusBadRequest},
		{name: "storage", err: service.ErrUploadStorageUnavailable, statusCode: fiber.StatusServiceUnavailable},
		{name: "generic", err: errors.New("boom"), statusCode: fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockUploadService{err: tc.err}
			app, group := newActorApp("lan", "admin")
			handler.NewUploadHandler(svc, testLogger()).Register(group)

			resp, err := app.Test(multipartRequest(t, "/api/admin/uploads", "doc.pdf", []byte("pdf")))
			require.NoError(t, err)
			require.Equal(t, tc.statusCode, resp.StatusCode)
		})
	}
}
