package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ymm/catalog/internal/domain"
)

var treeColumns = []string{
	"c.id", "c.shop", "c.name", "c.description", "c.sort_order", "c.created_at", "c.updated_at",
	"s.id", "s.name", "s.description", "s.sort_order", "s.created_at", "s.updated_at",
	"p.id", "p.name", "p.description", "p.terminology_id", "p.sort_order", "p.created_at", "p.updated_at",
}

func TestCategoryCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCategoryRepository(db)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO categories").
		WithArgs("shop.example", "Brakes", "", 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(1, now, now))

	c, err := repo.Create(context.Background(), domain.CategoryInput{Shop: "shop.example", Name: "Brakes"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.ID)
	assert.Equal(t, "Brakes", c.Name)
	assert.NotNil(t, c.Subcategories)
}

func TestCategoryCreateDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCategoryRepository(db)

	mock.ExpectQuery("INSERT INTO categories").
		WithArgs("", "Brakes", "", 0).
		WillReturnError(uniqueViolation("categories_shop_name_key"))

	c, err := repo.Create(context.Background(), domain.CategoryInput{Name: "Brakes"})
	require.Error(t, err)
	assert.Nil(t, c)
	assert.True(t, domain.IsDuplicate(err))
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Contains(t, err.Error(), "already exists")
}

func TestCategoryUpdateMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCategoryRepository(db)

	mock.ExpectQuery("UPDATE categories").
		WithArgs("Engine", nil, int64(2), int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "shop", "name", "description", "sort_order", "created_at", "updated_at"}))

	name, order := "Engine", 2
	_, err := repo.Update(context.Background(), 99, domain.CategoryUpdate{Name: &name, Order: &order})
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestCategoryDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCategoryRepository(db)

	mock.ExpectExec("DELETE FROM categories WHERE id = \\$1").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM categories WHERE id = \\$1").
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), 1))

	err := repo.Delete(context.Background(), 2)
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
}

func TestCategoryDeleteDatabaseError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCategoryRepository(db)

	mock.ExpectExec("DELETE FROM categories").
		WithArgs(int64(1)).
		WillReturnError(errors.New("connection refused"))

	err := repo.Delete(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, domain.KindUnknown, domain.KindOf(err))
}

func TestCategoryListTree(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCategoryRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows(treeColumns).
		AddRow(1, "", "Brakes", "", 0, now, now, 10, "Pads", "", 0, now, now, 100, "Disc Brake Pad", "", 1684, 0, now, now).
		AddRow(1, "", "Brakes", "", 0, now, now, 10, "Pads", "", 0, now, now, 101, "Shim", "", nil, 0, now, now).
		AddRow(1, "", "Brakes", "", 0, now, now, 11, "Rotors", "", 0, now, now, nil, nil, nil, nil, nil, nil, nil).
		AddRow(2, "", "Engine", "", 1, now, now, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil)

	mock.ExpectQuery("SELECT c.id, c.shop").WithArgs("").WillReturnRows(rows)

	tree, err := repo.ListTree(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, tree, 2)

	brakes := tree[0]
	require.Len(t, brakes.Subcategories, 2)
	assert.Equal(t, "Pads", brakes.Subcategories[0].Name)
	require.Len(t, brakes.Subcategories[0].PartTypes, 2)
	require.NotNil(t, brakes.Subcategories[0].PartTypes[0].TerminologyID)
	assert.Equal(t, int64(1684), *brakes.Subcategories[0].PartTypes[0].TerminologyID)
	assert.Nil(t, brakes.Subcategories[0].PartTypes[1].TerminologyID)
	assert.Empty(t, brakes.Subcategories[1].PartTypes)

	assert.Equal(t, "Engine", tree[1].Name)
	assert.Empty(t, tree[1].Subcategories)
	assert.Equal(t, 2, tree.PartTypeCount())
}

func TestCategoryGet(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCategoryRepository(db)
	now := time.Now()

	mock.ExpectQuery("SELECT id, shop, name").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "shop", "name", "description", "sort_order", "created_at", "updated_at"}).
			AddRow(5, "shop.example", "Lighting", "", 3, now, now))
	mock.ExpectQuery("SELECT id, shop, name").
		WithArgs(int64(6)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "shop", "name", "description", "sort_order", "created_at", "updated_at"}))

	c, err := repo.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Lighting", c.Name)
	assert.Equal(t, 3, c.Order)

	_, err = repo.Get(context.Background(), 6)
	assert.True(t, domain.IsNotFound(err))
}
