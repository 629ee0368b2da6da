package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeStudio/internal/arrangement"
	"resumeStudio/internal/layout"
)

type applyResponse struct {
	Sections arrangement.Arrangement `json:"sections"`
	Applied  string                  `json:"applied"`
	Changed  bool                    `json:"changed"`
	Orphans  []arrangement.Orphan    `json:"orphans"`
}

func newArrangementRouter() *gin.Engine {
	h := NewArrangementHandler("modern-teal")
	router := newTestRouter()
	router.GET("/layouts/:templateId", h.GetLayout)
	router.GET("/arrangements/seed", h.Seed)
	router.POST("/arrangements/apply", h.Apply)
	router.POST("/arrangements/check", h.Check)
	router.POST("/pagination/estimate", h.EstimatePages)
	return router
}

func applyOp(t *testing.T, router *gin.Engine, templateID string, a arrangement.Arrangement, op map[string]any) applyResponse {
	t.Helper()
	body := mustJSON(t, map[string]any{"templateId": templateID, "sections": a, "op": op})
	w := doRequest(router, http.MethodPost, "/arrangements/apply", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decodeBody[applyResponse](t, w)
}

func TestGetLayout(t *testing.T) {
	router := newArrangementRouter()

	w := doRequest(router, http.MethodGet, "/layouts/modern-teal", nil)
	require.Equal(t, http.StatusOK, w.Code)
	res := decodeBody[struct {
		Layout          layout.Descriptor `json:"layout"`
		DeclaredColumns []int             `json:"declaredColumns"`
		Styles          layout.Styles     `json:"styles"`
	}](t, w)
	assert.Equal(t, 2, res.Layout.Columns)
	assert.Equal(t, []int{1, 2}, res.DeclaredColumns)
	assert.Equal(t, layout.DefaultStyles(layout.ModernTeal), res.Styles)

	w = doRequest(router, http.MethodGet, "/layouts/nope", nil)
	require.Equal(t, http.StatusOK, w.Code)
	unknown := decodeBody[struct {
		DeclaredColumns []int `json:"declaredColumns"`
	}](t, w)
	assert.Equal(t, []int{1}, unknown.DeclaredColumns)
}

func TestSeed(t *testing.T) {
	router := newArrangementRouter()

	w := doRequest(router, http.MethodGet, "/arrangements/seed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	res := decodeBody[applyResponse](t, w)
	assert.True(t, arrangement.Equal(arrangement.Seed(), res.Sections))
	assert.Empty(t, res.Orphans)
}

func TestApply_Move(t *testing.T) {
	router := newArrangementRouter()
	seed := arrangement.Seed()

	res := applyOp(t, router, "", seed, map[string]any{"kind": "move", "id": "skills", "column": 2})
	assert.True(t, res.Changed)
	skills, ok := res.Sections.Find("skills")
	require.True(t, ok)
	assert.Equal(t, 2, skills.Column)

	res = applyOp(t, router, "", seed, map[string]any{"kind": "move", "id": "header", "column": 1})
	assert.False(t, res.Changed)

	res = applyOp(t, router, "", seed, map[string]any{"kind": "move", "id": "ghost", "column": 1})
	assert.False(t, res.Changed)
}

func TestApply_Drop(t *testing.T) {
	router := newArrangementRouter()
	seed := arrangement.Seed()

	res := applyOp(t, router, "", seed, map[string]any{"kind": "drop", "id": "summary", "overId": "column-1"})
	assert.Equal(t, string(arrangement.DropMove), res.Applied)
	summary, _ := res.Sections.Find("summary")
	assert.Equal(t, 1, summary.Column)

	res = applyOp(t, router, "", seed, map[string]any{"kind": "drop", "id": "experience", "overId": "summary"})
	assert.Equal(t, string(arrangement.DropReorder), res.Applied)
	assert.True(t, res.Changed)
	assert.Less(t, res.Sections.Index("experience"), res.Sections.Index("summary"))

	res = applyOp(t, router, "", seed, map[string]any{"kind": "drop", "id": "strengths", "overId": "courses"})
	assert.Equal(t, string(arrangement.DropReorder), res.Applied)
	assert.Greater(t, res.Sections.Index("strengths"), res.Sections.Index("courses"))

	res = applyOp(t, router, "", seed, map[string]any{"kind": "reorder", "id": "summary", "overId": "experience"})
	assert.True(t, res.Changed)
	assert.Equal(t, res.Sections.Index("experience")+1, res.Sections.Index("summary"))

	res = applyOp(t, router, "", seed, map[string]any{"kind": "drop", "id": "summary", "overId": "column-9"})
	assert.Equal(t, string(arrangement.DropNone), res.Applied)
	assert.False(t, res.Changed)
}

func TestApply_AddRemoveUpdate(t *testing.T) {
	router := newArrangementRouter()
	seed := arrangement.Seed()

	res := applyOp(t, router, "", seed, map[string]any{"kind": "add", "type": "skills", "data": map[string]string{"category": "Go"}})
	require.Len(t, res.Sections, len(seed)+1)
	added := res.Sections[len(res.Sections)-1]
	assert.Equal(t, 1, added.Column)
	assert.Equal(t, "Go", added.Data["category"])

	res = applyOp(t, router, "", res.Sections, map[string]any{"kind": "remove", "id": added.ID})
	assert.Len(t, res.Sections, len(seed))

	res = applyOp(t, router, "", seed, map[string]any{"kind": "remove", "id": "header"})
	assert.False(t, res.Changed)

	res = applyOp(t, router, "", seed, map[string]any{"kind": "update", "id": "header", "data": map[string]string{"fullName": "Ada"}})
	assert.True(t, res.Changed)
	header, _ := res.Sections.Header()
	assert.Equal(t, "Ada", header.Data["fullName"])
}

func TestApply_Recolumn(t *testing.T) {
	router := newArrangementRouter()

	res := applyOp(t, router, "modern-navy", arrangement.Seed(), map[string]any{"kind": "recolumn"})
	assert.True(t, res.Changed)
	for _, s := range res.Sections {
		if s.IsLocked {
			continue
		}
		assert.Equal(t, 1, s.Column, s.ID)
	}
}

func TestApply_BadRequests(t *testing.T) {
	router := newArrangementRouter()

	w := doRequest(router, http.MethodPost, "/arrangements/apply", []byte(`{"op":{"kind":"explode"}}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodPost, "/arrangements/apply", []byte(`{"op":{"kind":"add","type":"hobbies"}}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Unknown section type", errorMessage(t, w))

	w = doRequest(router, http.MethodPost, "/arrangements/apply", []byte(`{"op":{}}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheck(t *testing.T) {
	router := newArrangementRouter()

	w := doRequest(router, http.MethodPost, "/arrangements/check", mustJSON(t, map[string]any{"sections": arrangement.Seed()}))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"valid":true,"problems":[],"orphans":[]}`, w.Body.String())

	broken := append(arrangement.Seed(), arrangement.Seed()[1])
	broken[2].Column = 7
	w = doRequest(router, http.MethodPost, "/arrangements/check", mustJSON(t, map[string]any{"sections": broken}))
	require.Equal(t, http.StatusOK, w.Code)
	res := decodeBody[struct {
		Valid    bool                  `json:"valid"`
		Problems []arrangement.Problem `json:"problems"`
		Orphans  []arrangement.Orphan  `json:"orphans"`
	}](t, w)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Problems, arrangement.Problem{SectionID: "summary", Message: "duplicate section id"})
	assert.Equal(t, []arrangement.Orphan{{SectionID: broken[2].ID, Column: 7}}, res.Orphans)
}

func TestEstimatePages(t *testing.T) {
	router := newArrangementRouter()

	w := doRequest(router, http.MethodPost, "/pagination/estimate", []byte(`{"heightPx":2000,"pageHeightPx":1000}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"pages":2,"pageHeightPx":1000,"pageNumbers":[1,2]}`, w.Body.String())

	w = doRequest(router, http.MethodPost, "/pagination/estimate", []byte(`{"heightPx":2500,"templateId":"modern-navy"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), decodeBody[map[string]any](t, w)["pages"])

	w = doRequest(router, http.MethodPost, "/pagination/estimate", []byte(`{"heightPx":10}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeBody[map[string]any](t, w)["pages"])

	w = doRequest(router, http.MethodPost, "/pagination/estimate", []byte(`{"heightPx":10,"pageHeightPx":0}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for _, height := range []string{"1e13", "1e30"} {
		w = doRequest(router, http.MethodPost, "/pagination/estimate", []byte(`{"heightPx":`+height+`}`))
		assert.Equal(t, http.StatusBadRequest, w.Code, height)
	}

	w = doRequest(router, http.MethodPost, "/pagination/estimate", []byte(`{"heightPx":500000,"pageHeightPx":1000}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody[struct {
		PageNumbers []int `json:"pageNumbers"`
	}](t, w).PageNumbers, 500)
}
