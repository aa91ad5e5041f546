package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub-storefront-api/models"
)

func TestLoadFixtures(t *testing.T) {
	svc := NewService(1)

	err := svc.LoadFixtures("../../data/courses.json", "../../data/products.json")
	require.NoError(t, err, "shipped fixtures must parse")

	assert.NotEmpty(t, svc.CourseItems())
	assert.NotEmpty(t, svc.ProductItems())
	assert.Len(t, svc.Items(), len(svc.CourseItems())+len(svc.ProductItems()))

	t.Run("course projections are always purchasable", func(t *testing.T) {
		for _, item := range svc.CourseItems() {
			assert.Equal(t, models.KindCourse, item.Kind)
			assert.True(t, item.IsInStock)
			assert.Equal(t, models.CourseStock, item.Stock)
		}
	})

	t.Run("product projections keep their stock state", func(t *testing.T) {
		product, ok := svc.ItemByID(models.KindProduct, 4)
		require.True(t, ok)
		assert.False(t, product.IsInStock, "sold-out fixture must project as unavailable")
	})

	t.Run("missing file is an error", func(t *testing.T) {
		err := NewService(1).LoadFixtures("../../data/missing.json", "../../data/products.json")
		assert.Error(t, err)
	})
}

func TestItemLookups(t *testing.T) {
	svc := NewService(1)
	svc.SetCatalog(
		[]models.Course{{ID: 1, Title: "처음 시작하는 리액트"}},
		[]models.Product{{ID: 1, Name: "개발자 키보드 스티커 세트"}},
	)

	t.Run("course and product ids live in separate namespaces", func(t *testing.T) {
		course, ok := svc.ItemByID(models.KindCourse, 1)
		require.True(t, ok)
		assert.Equal(t, "처음 시작하는 리액트", course.Title)

		product, ok := svc.ItemByID(models.KindProduct, 1)
		require.True(t, ok)
		assert.Equal(t, "개발자 키보드 스티커 세트", product.Title)
	})

	t.Run("unknown lookups report absence", func(t *testing.T) {
		_, ok := svc.CourseByID(42)
		assert.False(t, ok)
		_, ok = svc.ProductByID(42)
		assert.False(t, ok)
		_, ok = svc.ItemByID("gadget", 1)
		assert.False(t, ok)
	})
}

func TestRecommendIsSeeded(t *testing.T) {
	courses := []models.Course{
		{ID: 1, Rating: 4.8, ReviewCount: 300, EnrollCount: 5000},
		{ID: 2, Rating: 4.9, ReviewCount: 200, EnrollCount: 3000},
		{ID: 3, Rating: 4.2, ReviewCount: 90, EnrollCount: 1800},
	}

	a := NewService(7)
	a.SetCatalog(courses, nil)
	b := NewService(7)
	b.SetCatalog(courses, nil)

	assert.Equal(t, ids(a.Recommend()), ids(b.Recommend()),
		"same seed must produce the same homepage ranking")
}
