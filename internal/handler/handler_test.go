package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pixhost/internal/domain"
	"pixhost/internal/preview"
	"pixhost/internal/service"
)

type fakeService struct {
	uploadResult *domain.UploadResult
	uploadErr    error
	deleteErr    error
	exists       bool
	existsErr    error
}

func (f *fakeService) Upload(context.Context, domain.UploadInput) (*domain.UploadResult, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return f.uploadResult, nil
}

func (f *fakeService) Delete(context.Context, string) error { return f.deleteErr }

func (f *fakeService) Exists(context.Context, string) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeService) StorageURL(id string) string {
	return "https://cdn.example.com/" + service.WithExt(id)
}

func (f *fakeService) PageURL(key string) string {
	return "https://img.example.com/i/" + key
}

const viewerTemplate = `<!DOCTYPE html><html><head>
<meta property="og:image" content="">
<meta property="og:url" content="">
<meta name="twitter:image" content="">
</head><body><img id="display-image" src=""></body></html>`

func newTestRouter(t *testing.T, svc service.UploadService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rw, err := preview.NewRewriter([]byte(viewerTemplate))
	require.NoError(t, err)

	h := NewHandler(svc, rw, zap.NewNop())

	router := gin.New()
	router.GET("/i/:id", h.ViewImage)
	router.GET("/api/health", h.HealthCheck)
	router.POST("/api/upload", h.UploadImage)
	router.GET("/api/images/:id", h.CheckImage)
	router.DELETE("/api/images/:id", h.DeleteImage)
	return router
}

func multipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func TestUploadImageSuccess(t *testing.T) {
	svc := &fakeService{uploadResult: &domain.UploadResult{
		URL:           "https://img.example.com/i/abc.webp",
		ID:            "abc",
		Key:           "abc.webp",
		OriginalSize:  1000,
		ProcessedSize: 300,
	}}
	router := newTestRouter(t, svc)

	body, contentType := multipartUpload(t, "image", "photo.jpg", []byte("jpeg-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, true, resp["success"])
	require.Equal(t, "https://img.example.com/i/abc.webp", resp["url"])
	require.Equal(t, "abc", resp["imageId"])
	require.Equal(t, float64(1000), resp["originalSize"])
	require.Equal(t, float64(300), resp["processedSize"])
}

func TestUploadImageWithoutFileIsValidationError(t *testing.T) {
	router := newTestRouter(t, &fakeService{})

	req := httptest.NewRequest(http.MethodPost, "/api/upload", bytes.NewBufferString(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=empty")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, false, resp["success"])
	require.Equal(t, string(domain.ErrKindValidation), resp["kind"])
}

func TestUploadImageErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   domain.ErrorKind
	}{
		{"validation", domain.ValidationError("bad type"), http.StatusBadRequest, domain.ErrKindValidation},
		{"processing", domain.ProcessingError("corrupt", errors.New("decode")), http.StatusUnprocessableEntity, domain.ErrKindProcessing},
		{"upstream", domain.UpstreamError("store down", errors.New("dial")), http.StatusBadGateway, domain.ErrKindUpstream},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(t, &fakeService{uploadErr: tc.err})

			body, contentType := multipartUpload(t, "image", "photo.jpg", []byte("x"))
			req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
			req.Header.Set("Content-Type", contentType)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tc.wantStatus, rec.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.Equal(t, string(tc.wantKind), resp["kind"])
		})
	}
}

func TestCheckImage(t *testing.T) {
	router := newTestRouter(t, &fakeService{exists: true})

	req := httptest.NewRequest(http.MethodGet, "/api/images/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "https://cdn.example.com/abc.webp")
}

func TestCheckImageMissing(t *testing.T) {
	router := newTestRouter(t, &fakeService{exists: false})

	req := httptest.NewRequest(http.MethodGet, "/api/images/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteImageIdempotent(t *testing.T) {
	router := newTestRouter(t, &fakeService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/images/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDeleteImageUpstreamFailure(t *testing.T) {
	router := newTestRouter(t, &fakeService{
		deleteErr: domain.UpstreamError("cannot delete image", errors.New("dial")),
	})

	req := httptest.NewRequest(http.MethodDelete, "/api/images/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestViewImageRewritesPreview(t *testing.T) {
	router := newTestRouter(t, &fakeService{})

	req := httptest.NewRequest(http.MethodGet, "/i/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "https://cdn.example.com/abc.webp", rec.Header().Get("X-Image-URL"))
	require.Contains(t, rec.Body.String(), `content="https://cdn.example.com/abc.webp"`)
	require.Contains(t, rec.Body.String(), `content="https://img.example.com/i/abc.webp"`)
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t, &fakeService{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ok")
}
