package recipe

import (
	"context"
	"testing"

	"fridge-recipe/internal/core/catalog"
	"fridge-recipe/internal/core/youtube"
	"fridge-recipe/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecipeRef(t *testing.T) {
	assert.Equal(t, Local(5), ParseRecipeRef(5))
	assert.Equal(t, External(5), ParseRecipeRef(-5))
	assert.Equal(t, Local(0), ParseRecipeRef(0))

	assert.True(t, ParseRecipeRef(-7).IsExternal())
	assert.Equal(t, int64(-7), ParseRecipeRef(-7).PublicID())
	assert.Equal(t, int64(7), ParseRecipeRef(7).PublicID())
	assert.Equal(t, "external:7", External(7).String())
}

func saveRecipeWithDetails(t *testing.T, f *fixture) int64 {
	t.Helper()
	r := &catalog.Recipe{
		Name:         "계란 두부 부침",
		Description:  "간단한 반찬",
		MainCategory: "한식",
		SubCategory:  "반찬",
		Ingredients: []catalog.RecipeIngredient{
			{IngredientID: f.ids["egg"], Amount: "2개"},
			{IngredientID: f.ids["tofu"]},
		},
		Steps: []catalog.RecipeStep{
			{StepOrder: 2, StepText: "두부를 부친다."},
			{StepOrder: 1, StepText: "달걀을 푼다."},
		},
	}
	require.NoError(t, f.repo.SaveRecipesBatch(context.Background(), []*catalog.Recipe{r}))
	return r.ID
}

func TestGetDetailLocal(t *testing.T) {
	f := newFixture(t)
	id := saveRecipeWithDetails(t, f)
	videos := &fakeVideos{top: &youtube.Video{ID: "top1", Title: "best"}}
	external := &fakeExternal{}
	svc := NewDetailService(f.repo, videos, external)

	got, err := svc.GetDetail(context.Background(), &id)

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "계란 두부 부침", got.Name)
	assert.Equal(t, []string{"egg 2개", "tofu"}, got.IngredientsWithAmount)
	assert.Equal(t, []string{"달걀을 푼다.", "두부를 부친다."}, got.Steps)
	require.NotNil(t, got.YoutubeVideoID)
	assert.Equal(t, "top1", *got.YoutubeVideoID)
	assert.Equal(t, "best", *got.YoutubeTitle)
	assert.Equal(t, []string{"계란 두부 부침"}, videos.topQuery)
	assert.Empty(t, external.detailIDs)
}

func TestGetDetailLocalWithoutVideo(t *testing.T) {
	f := newFixture(t)
	id := saveRecipeWithDetails(t, f)

	got, err := NewDetailService(f.repo, &fakeVideos{}, nil).GetDetail(context.Background(), &id)

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.YoutubeVideoID)
	assert.Nil(t, got.YoutubeTitle)
}

func TestGetDetailRouting(t *testing.T) {
	f := newFixture(t)
	videos := &fakeVideos{top: &youtube.Video{ID: "v", Title: "t"}}
	external := &fakeExternal{detail: &common.RecipeDetailDto{ID: -5, Name: "Bruschetta", Steps: []string{"Slice."}}}
	svc := NewDetailService(f.repo, videos, external)
	ctx := context.Background()

	local := int64(5)
	got, err := svc.GetDetail(ctx, &local)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(5), got.ID)
	assert.Empty(t, external.detailIDs)

	remote := int64(-5)
	got, err = svc.GetDetail(ctx, &remote)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []int64{5}, external.detailIDs)
	assert.Equal(t, int64(-5), got.ID)
	require.NotNil(t, got.YoutubeVideoID)
	assert.Equal(t, "v", *got.YoutubeVideoID)
	assert.Equal(t, []string{got.Name}, videos.topQuery[len(videos.topQuery)-1:])

	hits := len(videos.topQuery)
	got, err = svc.GetDetail(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, []int64{5}, external.detailIDs)
	assert.Len(t, videos.topQuery, hits)
}

func TestGetDetailNotFound(t *testing.T) {
	f := newFixture(t)
	videos := &fakeVideos{}
	svc := NewDetailService(f.repo, videos, &fakeExternal{})

	missing := int64(999999)
	got, err := svc.GetDetail(context.Background(), &missing)
	require.NoError(t, err)
	assert.Nil(t, got)

	external := int64(-42)
	got, err = svc.GetDetail(context.Background(), &external)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Empty(t, videos.topQuery)

	got, err = NewDetailService(f.repo, videos, nil).Resolve(context.Background(), External(1))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetDetailRepositoryError(t *testing.T) {
	f := newFixture(t)
	repo := failingRepo{Repository: f.repo, err: assert.AnError}
	id := int64(1)

	got, err := NewDetailService(repo, &fakeVideos{}, nil).GetDetail(context.Background(), &id)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, assert.AnError)
}
