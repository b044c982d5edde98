package recipe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fridge-recipe/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecommender struct {
	got  *common.RecommendRequest
	resp *common.RecommendResponse
	err  error
}

func (f *fakeRecommender) Recommend(_ context.Context, req common.RecommendRequest) (*common.RecommendResponse, error) {
	f.got = &req
	return f.resp, f.err
}

type fakeDetails struct {
	got    *int64
	detail *common.RecipeDetailDto
	err    error
}

func (f *fakeDetails) GetDetail(_ context.Context, id *int64) (*common.RecipeDetailDto, error) {
	f.got = id
	return f.detail, f.err
}

func newRouter(rec Recommender, det DetailResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(rec, det)
	r := gin.New()
	r.POST("/api/recipes/recommend", h.Recommend)
	r.GET("/api/recipes/:id/detail", h.Detail)
	return r
}

func serve(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp common.ErrorResponse
	require.NoError(t, common.ParseJSONBytes(w.Body.Bytes(), &resp))
	return resp.Code
}

func TestRecommend(t *testing.T) {
	rec := &fakeRecommender{resp: &common.RecommendResponse{
		YoutubeRecommendations: []common.YoutubeRecommendationDto{{VideoID: "v1", Title: "t"}},
		RecipeRecommendations:  []common.RecipeDto{{ID: 3, Name: "달걀찜", IngredientNames: []string{"egg"}}},
	}}
	r := newRouter(rec, &fakeDetails{})

	w := serve(r, http.MethodPost, "/api/recipes/recommend", `{"ingredientIds":[1,2],"ingredientNames":["egg"],"strictOnly":true}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, rec.got)
	assert.Equal(t, []int64{1, 2}, rec.got.IngredientIDs)
	assert.Equal(t, []string{"egg"}, rec.got.IngredientNames)
	assert.True(t, rec.got.Strict())

	var resp common.RecommendResponse
	require.NoError(t, common.ParseJSONBytes(w.Body.Bytes(), &resp))
	assert.Equal(t, "v1", resp.YoutubeRecommendations[0].VideoID)
	assert.Nil(t, resp.YoutubeErrorReason)
	assert.Equal(t, int64(3), resp.RecipeRecommendations[0].ID)
	assert.Contains(t, w.Body.String(), `"youtubeErrorReason":null`)
}

func TestRecommendEmptyBody(t *testing.T) {
	rec := &fakeRecommender{resp: &common.RecommendResponse{
		YoutubeRecommendations: []common.YoutubeRecommendationDto{},
		RecipeRecommendations:  []common.RecipeDto{},
	}}
	r := newRouter(rec, &fakeDetails{})

	w := serve(r, http.MethodPost, "/api/recipes/recommend", "")

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, rec.got)
	assert.False(t, rec.got.Strict())
	assert.Empty(t, rec.got.IngredientIDs)
}

func TestRecommendChunkedEmptyBody(t *testing.T) {
	rec := &fakeRecommender{resp: &common.RecommendResponse{
		YoutubeRecommendations: []common.YoutubeRecommendationDto{},
		RecipeRecommendations:  []common.RecipeDto{},
	}}
	r := newRouter(rec, &fakeDetails{})

	req := httptest.NewRequest(http.MethodPost, "/api/recipes/recommend", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/json")
	req.ContentLength = -1
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, rec.got)
	assert.Empty(t, rec.got.IngredientIDs)
	assert.False(t, rec.got.Strict())
}

func TestRecommendErrors(t *testing.T) {
	t.Run("malformed json", func(t *testing.T) {
		rec := &fakeRecommender{}
		w := serve(newRouter(rec, &fakeDetails{}), http.MethodPost, "/api/recipes/recommend", `{"ingredientIds":"x"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, common.ErrCodeInvalidRequest, errorCode(t, w))
		assert.Nil(t, rec.got)
	})

	t.Run("service failure", func(t *testing.T) {
		rec := &fakeRecommender{err: assert.AnError}
		w := serve(newRouter(rec, &fakeDetails{}), http.MethodPost, "/api/recipes/recommend", `{}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, common.ErrCodeInternalError, errorCode(t, w))
	})
}

func TestDetail(t *testing.T) {
	det := &fakeDetails{detail: &common.RecipeDetailDto{
		ID:                    -42,
		Name:                  "Kimchi Stew",
		IngredientsWithAmount: []string{"1 cup kimchi"},
		Steps:                 []string{"Boil."},
	}}
	r := newRouter(&fakeRecommender{}, det)

	w := serve(r, http.MethodGet, "/api/recipes/-42/detail", "")

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, det.got)
	assert.Equal(t, int64(-42), *det.got)
	assert.Contains(t, w.Body.String(), `"youtubeVideoId":null`)

	var got common.RecipeDetailDto
	require.NoError(t, common.ParseJSONBytes(w.Body.Bytes(), &got))
	assert.Equal(t, "Kimchi Stew", got.Name)
	assert.Equal(t, []string{"Boil."}, got.Steps)
}

func TestDetailErrors(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		det := &fakeDetails{}
		w := serve(newRouter(&fakeRecommender{}, det), http.MethodGet, "/api/recipes/abc/detail", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_RECIPE_ID", errorCode(t, w))
		assert.Nil(t, det.got)
	})

	t.Run("not found", func(t *testing.T) {
		w := serve(newRouter(&fakeRecommender{}, &fakeDetails{}), http.MethodGet, "/api/recipes/999/detail", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "RECIPE_NOT_FOUND", errorCode(t, w))
	})

	t.Run("store failure", func(t *testing.T) {
		w := serve(newRouter(&fakeRecommender{}, &fakeDetails{err: assert.AnError}), http.MethodGet, "/api/recipes/1/detail", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
