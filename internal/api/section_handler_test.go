package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeStudio/internal/database"
	"resumeStudio/internal/section"
)

func newSectionRouter(t *testing.T) *gin.Engine {
	t.Helper()
	h := NewSectionHandler(newSQLiteDB(t), "modern-teal")
	router := newTestRouter()
	router.POST("/sections", h.CreateSection)
	router.GET("/sections", h.ListSections)
	router.GET("/sections/fields/:type", h.GetFields)
	router.POST("/sections/fields/:type/validate", h.ValidateFields)
	return router
}

func TestCreateSection_RequiredFields(t *testing.T) {
	router := newSectionRouter(t)

	cases := []struct {
		name string
		body string
		want string
	}{
		{"missing resume", `{"type":"experience"}`, "Resume ID is required"},
		{"blank resume", `{"resumeId":"  ","type":"experience"}`, "Resume ID is required"},
		{"missing type", `{"resumeId":"r1"}`, "Section type is required"},
		{"unknown type", `{"resumeId":"r1","type":"hobbies"}`, "Unknown section type"},
		{"bad date", `{"resumeId":"r1","type":"experience","startDate":"yesterday"}`, "startDate must be an ISO date"},
	}
	for _, tc := range cases {
		w := doRequest(router, http.MethodPost, "/sections", []byte(tc.body))
		assert.Equal(t, http.StatusBadRequest, w.Code, tc.name)
		assert.Equal(t, tc.want, errorMessage(t, w), tc.name)
	}
}

func TestCreateSection_AssignsOrderAndColumn(t *testing.T) {
	router := newSectionRouter(t)

	body := `{"resumeId":"r1","type":"experience","jobTitle":"Engineer","company":"Acme","startDate":"2020-01-01","endDate":null}`
	w := doRequest(router, http.MethodPost, "/sections", []byte(body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	first := decodeBody[database.Section](t, w)
	assert.Equal(t, 0, first.Order)
	assert.Equal(t, 2, first.Column)
	assert.Equal(t, "Experience", first.Title)
	assert.Equal(t, "Engineer", first.JobTitle)
	require.NotNil(t, first.StartDate)
	assert.Equal(t, 2020, first.StartDate.Year())
	assert.Nil(t, first.EndDate)

	w = doRequest(router, http.MethodPost, "/sections", []byte(`{"resumeId":"r1","type":"skills","title":"Tools"}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	second := decodeBody[database.Section](t, w)
	assert.Equal(t, 1, second.Order)
	assert.Equal(t, 1, second.Column)
	assert.Equal(t, "Tools", second.Title)
	assert.NotEqual(t, first.ID, second.ID)

	w = doRequest(router, http.MethodPost, "/sections", []byte(`{"resumeId":"r2","type":"summary"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, decodeBody[database.Section](t, w).Order)
}

func TestListSections(t *testing.T) {
	router := newSectionRouter(t)

	w := doRequest(router, http.MethodGet, "/sections", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Resume ID is required", errorMessage(t, w))

	w = doRequest(router, http.MethodGet, "/sections?resumeId=empty", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	for _, typ := range []string{"summary", "education", "skills"} {
		w := doRequest(router, http.MethodPost, "/sections", mustJSON(t, map[string]string{"resumeId": "r1", "type": typ}))
		require.Equal(t, http.StatusOK, w.Code)
	}
	doRequest(router, http.MethodPost, "/sections", []byte(`{"resumeId":"other","type":"summary"}`))

	w = doRequest(router, http.MethodGet, "/sections?resumeId=r1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeBody[[]database.Section](t, w)
	require.Len(t, list, 3)
	for i, s := range list {
		assert.Equal(t, i, s.Order)
		assert.Equal(t, "r1", s.ResumeID)
	}
	assert.Equal(t, "summary", list[0].Type)
	assert.Equal(t, "skills", list[2].Type)
}

func TestSectionFields(t *testing.T) {
	router := newSectionRouter(t)

	w := doRequest(router, http.MethodGet, "/sections/fields/experience", nil)
	require.Equal(t, http.StatusOK, w.Code)
	def := decodeBody[section.Definition](t, w)
	assert.Equal(t, section.TypeExperience, def.Type)
	assert.NotEmpty(t, def.Fields)

	w = doRequest(router, http.MethodGet, "/sections/fields/hobbies", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestValidateSectionFields(t *testing.T) {
	router := newSectionRouter(t)

	w := doRequest(router, http.MethodPost, "/sections/fields/languages/validate", []byte(`{}`))
	require.Equal(t, http.StatusOK, w.Code)
	res := decodeBody[struct {
		Valid  bool                 `json:"valid"`
		Errors []section.FieldError `json:"errors"`
	}](t, w)
	assert.False(t, res.Valid)
	require.NotEmpty(t, res.Errors)
	assert.Equal(t, "language", res.Errors[0].Field)

	w = doRequest(router, http.MethodPost, "/sections/fields/summary/validate", []byte(`{"summary":"Ten years of Go."}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"valid":true,"errors":[]}`, w.Body.String())
}
