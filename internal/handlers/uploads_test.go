package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafehub/internal/logger"
	"cafehub/internal/middleware"
	"cafehub/internal/models"
	"cafehub/internal/services"
	"cafehub/internal/storage"
)

func newUploadHandlerForTest(t *testing.T, store storage.Store) *UploadHandler {
	t.Helper()
	log := logger.NewLogger()
	t.Cleanup(log.Close)
	uploadService := services.NewUploadService(t.TempDir(), "/static", log)
	cafeService := services.NewCafeService(store, log)
	return NewUploadHandler(uploadService, cafeService)
}

func logoRequest(t *testing.T) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "logo.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("not a real png, but the extension is checked"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cafes/cafe_1/logo", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func logoContext(t *testing.T, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = logoRequest(t)
	c.Params = gin.Params{{Key: "id", Value: "cafe_1"}}
	c.Set(middleware.ContextUserKey, user)
	return c, w
}

func TestUploadCafeLogoRequiresCafeAccess(t *testing.T) {
	store := storage.NewInMemoryStore()
	handler := newUploadHandlerForTest(t, store)
	require.NoError(t, store.SaveCafe(&models.Cafe{ID: "cafe_1", OwnerID: "usr_owner", Name: "Test Cafe", IsActive: true}))

	outsider := &models.User{ID: "usr_other", Role: models.RoleOperator, CafeIDs: models.StringList{"cafe_2"}}
	c, w := logoContext(t, outsider)
	handler.UploadCafeLogo(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	cafe, err := store.GetCafe("cafe_1")
	require.NoError(t, err)
	assert.Empty(t, cafe.LogoURL, "a denied request must not touch the cafe")
}

func TestUploadCafeLogoSetsLogoForAssignedStaff(t *testing.T) {
	store := storage.NewInMemoryStore()
	handler := newUploadHandlerForTest(t, store)
	require.NoError(t, store.SaveCafe(&models.Cafe{ID: "cafe_1", OwnerID: "usr_owner", Name: "Test Cafe", IsActive: true}))

	operator := &models.User{ID: "usr_owner", Role: models.RoleOperator, CafeIDs: models.StringList{"cafe_1"}}
	c, w := logoContext(t, operator)
	handler.UploadCafeLogo(c)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	cafe, err := store.GetCafe("cafe_1")
	require.NoError(t, err)
	assert.NotEmpty(t, cafe.LogoURL)
}
