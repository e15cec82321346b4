package repository

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/haythemsaa/boxnew-sub008/internal/constants"
	"github.com/haythemsaa/boxnew-sub008/internal/models"
)

func setupBoxRepositoryTest(t *testing.T) (*GormBoxRepository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Box{}); err != nil {
		t.Fatalf("migrate boxes failed: %v", err)
	}
	return NewBoxRepository(db), db
}

func createBox(t *testing.T, repo *GormBoxRepository, siteID uint, number, status string) *models.Box {
	t.Helper()
	box := &models.Box{
		TenantID:     1,
		SiteID:       siteID,
		Number:       number,
		SizeCategory: constants.BoxSizeMedium,
		BasePrice:    models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
		CurrentPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
		Status:       status,
	}
	if err := repo.Create(box); err != nil {
		t.Fatalf("create box failed: %v", err)
	}
	return box
}

func TestCountOccupancy(t *testing.T) {
	repo, _ := setupBoxRepositoryTest(t)

	createBox(t, repo, 1, "A-01", constants.BoxStatusOccupied)
	createBox(t, repo, 1, "A-02", constants.BoxStatusReserved)
	createBox(t, repo, 1, "A-03", constants.BoxStatusAvailable)
	createBox(t, repo, 1, "A-04", constants.BoxStatusMaintenance)
	createBox(t, repo, 2, "B-01", constants.BoxStatusOccupied)

	count, err := repo.CountOccupancy(1)
	if err != nil {
		t.Fatalf("count occupancy failed: %v", err)
	}
	if count.Total != 4 {
		t.Fatalf("expected 4 boxes on site 1, got %d", count.Total)
	}
	// 预订中计入占用，维护中不计
	if count.Occupied != 2 {
		t.Fatalf("expected 2 occupied boxes, got %d", count.Occupied)
	}
}

func TestUpdateCurrentPrice(t *testing.T) {
	repo, _ := setupBoxRepositoryTest(t)
	box := createBox(t, repo, 1, "A-01", constants.BoxStatusAvailable)

	next := models.NewMoneyFromDecimal(decimal.NewFromFloat(92.50))
	if err := repo.UpdateCurrentPrice(box.ID, next); err != nil {
		t.Fatalf("update current price failed: %v", err)
	}

	reloaded, err := repo.GetByID(box.ID)
	if err != nil {
		t.Fatalf("reload box failed: %v", err)
	}
	if reloaded == nil || reloaded.CurrentPrice.String() != "92.50" {
		t.Fatalf("price not persisted: %+v", reloaded)
	}
}

func TestGetByIDReturnsNilWhenMissing(t *testing.T) {
	repo, _ := setupBoxRepositoryTest(t)
	box, err := repo.GetByID(12345)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if box != nil {
		t.Fatalf("expected nil for missing box, got %+v", box)
	}
}
