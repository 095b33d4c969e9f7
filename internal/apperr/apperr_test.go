package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func respond(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	Respond(c, zap.NewNop(), err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestKindStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:      http.StatusBadRequest,
		KindUnauthorized:    http.StatusUnauthorized,
		KindForbidden:       http.StatusForbidden,
		KindNotFound:        http.StatusNotFound,
		KindConflict:        http.StatusConflict,
		KindDatabase:        http.StatusInternalServerError,
		KindExternalService: http.StatusBadGateway,
		KindInternal:        http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, kind.Status(), kind.String())
	}
}

func TestRespond_NotFound(t *testing.T) {
	w, body := respond(t, NotFound("Restaurant not found"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Restaurant not found", body["error"])
	assert.NotContains(t, body, "details")
}

func TestRespond_WrappedKeepsKind(t *testing.T) {
	err := fmt.Errorf("handler: %w", Database("failed to fetch menus", errors.New("conn reset")))
	w, body := respond(t, err)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "failed to fetch menus", body["error"])
}

func TestRespond_ExternalPrefixesService(t *testing.T) {
	w, body := respond(t, External("storage", "upload failed", errors.New("timeout")))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "storage: upload failed", body["error"])
}

func TestRespond_UnknownErrorIsInternal(t *testing.T) {
	w, body := respond(t, errors.New("secret detail"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", body["error"])
}

func TestFromValidation(t *testing.T) {
	type req struct {
		Name string `validate:"required"`
	}
	err := validator.New().Struct(req{})

	w, body := respond(t, FromValidation("invalid request", err))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	details, ok := body["details"].([]any)
	require.True(t, ok)
	require.Len(t, details, 1)
	assert.Equal(t, "Name", details[0].(map[string]any)["field"])
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindConflict, KindOf(fmt.Errorf("x: %w", Conflict("exists"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}
