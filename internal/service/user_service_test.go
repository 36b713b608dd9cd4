package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fulfill-next/internal/config"
	"github.com/fulfill-next/internal/constants"
	"github.com/fulfill-next/internal/models"
	"github.com/fulfill-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupUserServiceTest(t *testing.T) (*UserService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:user_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Merchant{},
		&models.Warehouse{},
		&models.User{},
		&models.Subscription{},
		&models.SubscriptionPlan{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	cfg := &config.Config{}
	cfg.JWT.SecretKey = "user-service-test-secret"
	cfg.JWT.ExpireHours = 1
	userRepo := repository.NewUserRepository(db)
	svc := NewUserService(
		userRepo,
		repository.NewMerchantRepository(db),
		repository.NewWarehouseRepository(db),
		repository.NewSubscriptionRepository(db),
		NewAuthService(cfg, userRepo),
	)
	return svc, db
}

func TestCreateUserRoleScoping(t *testing.T) {
	svc, db := setupUserServiceTest(t)
	merchant := createOrderTestMerchant(t, db, "u-scope", constants.MerchantStatusActive)
	admin := merchantAdminActor(merchant.ID)

	if _, err := svc.CreateUser(admin, CreateUserInput{
		Email:    "root@platform.test",
		Password: "password-123",
		Role:     constants.RolePlatformAdmin,
	}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for merchant admin creating platform admin, got %v", err)
	}

	if _, err := svc.CreateUser(admin, CreateUserInput{
		Email:      "who@merchant.test",
		Password:   "password-123",
		Role:       "superuser",
		MerchantID: merchant.ID,
	}); !errors.Is(err, ErrRoleInvalid) {
		t.Fatalf("expected ErrRoleInvalid for unknown role, got %v", err)
	}

	user, err := svc.CreateUser(admin, CreateUserInput{
		Email:      "Staff@Merchant.Test",
		Password:   "password-123",
		Role:       constants.RoleMerchantStaff,
		MerchantID: merchant.ID,
	})
	if err != nil {
		t.Fatalf("create staff failed: %v", err)
	}
	if user.Email != "staff@merchant.test" {
		t.Fatalf("expected normalized email, got %s", user.Email)
	}
	if user.Status != constants.UserStatusActive {
		t.Fatalf("expected active status, got %s", user.Status)
	}

	if _, err := svc.CreateUser(admin, CreateUserInput{
		Email:      "staff@merchant.test",
		Password:   "password-123",
		Role:       constants.RoleMerchantStaff,
		MerchantID: merchant.ID,
	}); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestCreateUserWeakPassword(t *testing.T) {
	svc, db := setupUserServiceTest(t)
	merchant := createOrderTestMerchant(t, db, "u-weak", constants.MerchantStatusActive)

	if _, err := svc.CreateUser(merchantAdminActor(merchant.ID), CreateUserInput{
		Email:      "weak@merchant.test",
		Password:   "short",
		Role:       constants.RoleMerchantStaff,
		MerchantID: merchant.ID,
	}); !errors.Is(err, ErrPasswordTooWeak) {
		t.Fatalf("expected ErrPasswordTooWeak, got %v", err)
	}
}

func TestCreateUserWarehouseValidation(t *testing.T) {
	svc, db := setupUserServiceTest(t)
	merchant := createOrderTestMerchant(t, db, "u-wh", constants.MerchantStatusActive)
	other := createOrderTestMerchant(t, db, "u-wh-other", constants.MerchantStatusActive)
	foreignWarehouse := createOrderTestWarehouse(t, db, other.ID, "wh-foreign")

	if _, err := svc.CreateUser(merchantAdminActor(merchant.ID), CreateUserInput{
		Email:       "picker@merchant.test",
		Password:    "password-123",
		Role:        constants.RoleWarehouseStaff,
		MerchantID:  merchant.ID,
		WarehouseID: foreignWarehouse.ID,
	}); !errors.Is(err, ErrWarehouseNotFound) {
		t.Fatalf("expected ErrWarehouseNotFound for foreign warehouse, got %v", err)
	}
}

func TestCreateUserSubscriptionLimit(t *testing.T) {
	svc, db := setupUserServiceTest(t)
	merchant := createOrderTestMerchant(t, db, "u-limit", constants.MerchantStatusActive)

	plan := &models.SubscriptionPlan{Code: "tiny", Name: "Tiny", MaxUsers: 1, Active: true}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("create plan failed: %v", err)
	}
	subscription := &models.Subscription{
		MerchantID: merchant.ID,
		PlanID:     plan.ID,
		Status:     "active",
		StartsAt:   time.Now(),
	}
	if err := db.Create(subscription).Error; err != nil {
		t.Fatalf("create subscription failed: %v", err)
	}

	admin := merchantAdminActor(merchant.ID)
	if _, err := svc.CreateUser(admin, CreateUserInput{
		Email:      "first@limit.test",
		Password:   "password-123",
		Role:       constants.RoleMerchantStaff,
		MerchantID: merchant.ID,
	}); err != nil {
		t.Fatalf("create first user failed: %v", err)
	}

	if _, err := svc.CreateUser(admin, CreateUserInput{
		Email:      "second@limit.test",
		Password:   "password-123",
		Role:       constants.RoleMerchantStaff,
		MerchantID: merchant.ID,
	}); !errors.Is(err, ErrUserLimitReached) {
		t.Fatalf("expected ErrUserLimitReached, got %v", err)
	}
}

func TestDisableUserInvalidatesTokens(t *testing.T) {
	svc, db := setupUserServiceTest(t)
	merchant := createOrderTestMerchant(t, db, "u-dis", constants.MerchantStatusActive)
	admin := merchantAdminActor(merchant.ID)

	user, err := svc.CreateUser(admin, CreateUserInput{
		Email:      "target@merchant.test",
		Password:   "password-123",
		Role:       constants.RoleMerchantStaff,
		MerchantID: merchant.ID,
	})
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	if err := svc.DisableUser(admin, user.ID); err != nil {
		t.Fatalf("disable user failed: %v", err)
	}

	var reloaded models.User
	if err := db.First(&reloaded, user.ID).Error; err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if reloaded.Status != constants.UserStatusDisabled {
		t.Fatalf("expected disabled status, got %s", reloaded.Status)
	}
	if reloaded.TokenInvalidBefore == nil {
		t.Fatalf("expected token_invalid_before to be stamped")
	}
}
