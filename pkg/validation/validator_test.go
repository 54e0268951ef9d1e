package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupPayload struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Role     string `json:"role" binding:"omitempty,userrole"`
}

func bindDetails(t *testing.T, body string) map[string]string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	Init()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	var p signupPayload
	err := c.ShouldBindJSON(&p)
	if err == nil {
		return nil
	}
	return ToDetails(err)
}

func TestToDetails_FieldMessages(t *testing.T) {
	details := bindDetails(t, `{"email":"not-an-email","password":"short","role":"admin"}`)
	require.NotNil(t, details)

	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be at least 6 characters long", details["password"])
	assert.Equal(t, "must be either buyer or seller", details["role"])
}

func TestToDetails_UsesJSONFieldNames(t *testing.T) {
	details := bindDetails(t, `{}`)
	require.NotNil(t, details)

	_, hasEmail := details["email"]
	_, hasGoName := details["Email"]
	assert.True(t, hasEmail)
	assert.False(t, hasGoName)
}

func TestToDetails_InvalidJSON(t *testing.T) {
	details := bindDetails(t, `{broken`)
	require.NotNil(t, details)
	assert.Equal(t, "invalid json", details["payload"])
}

func TestToDetails_ValidPayload(t *testing.T) {
	details := bindDetails(t, `{"email":"a@example.com","password":"secret123","role":"seller"}`)
	assert.Nil(t, details)
}
