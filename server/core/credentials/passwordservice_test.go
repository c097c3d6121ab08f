package credentials

import (
	"context"
	"strings"
	"testing"

	"github.com/yeti47/vidfolio/server/core/ccc/db"
	"github.com/yeti47/vidfolio/server/core/kvstore"
	"golang.org/x/crypto/bcrypt"
)

func setupPasswordService(t *testing.T) (*passwordService, kvstore.Store, func()) {
	testDB, err := db.NewInMemoryDB()
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	store, err := kvstore.NewSQLiteStore(testDB)
	if err != nil {
		testDB.Close()
		t.Fatalf("Failed to create kv store: %v", err)
	}

	service := NewPasswordService(nil, store)
	service.cost = bcrypt.MinCost
	return service, store, func() { testDB.Close() }
}

func TestPasswordService_CreateAndVerify(t *testing.T) {
	service, store, cleanup := setupPasswordService(t)
	defer cleanup()
	ctx := context.Background()

	configured, err := service.IsConfigured(ctx)
	if err != nil || configured {
		t.Fatalf("Expected no password initially: configured=%v err=%v", configured, err)
	}
	if err := service.Verify(ctx, "anything"); !IsPasswordNotSetError(err) {
		t.Errorf("Expected PasswordNotSetError, got %v", err)
	}

	if err := service.CreatePassword(ctx, "correct horse"); err != nil {
		t.Fatalf("CreatePassword failed: %v", err)
	}

	hash, ok, _ := store.Get(ctx, PasswordHashKey)
	if !ok || !strings.HasPrefix(hash, "$2") {
		t.Errorf("Expected bcrypt hash under %s, got %q", PasswordHashKey, hash)
	}

	if err := service.Verify(ctx, "correct horse"); err != nil {
		t.Errorf("Expected password to verify, got %v", err)
	}
	if err := service.Verify(ctx, "wrong horse"); !IsInvalidPasswordError(err) {
		t.Errorf("Expected InvalidPasswordError, got %v", err)
	}
}

func TestPasswordService_CreateTwiceFails(t *testing.T) {
	service, _, cleanup := setupPasswordService(t)
	defer cleanup()
	ctx := context.Background()

	if err := service.CreatePassword(ctx, "first password"); err != nil {
		t.Fatalf("CreatePassword failed: %v", err)
	}
	if err := service.CreatePassword(ctx, "second password"); !IsPasswordAlreadySetError(err) {
		t.Errorf("Expected PasswordAlreadySetError, got %v", err)
	}
	if err := service.Verify(ctx, "first password"); err != nil {
		t.Error("Original password must remain valid")
	}
}

func TestPasswordService_ChangeAndSet(t *testing.T) {
	service, _, cleanup := setupPasswordService(t)
	defer cleanup()
	ctx := context.Background()

	service.CreatePassword(ctx, "original password")

	if err := service.ChangePassword(ctx, "not the password", "new password"); !IsInvalidPasswordError(err) {
		t.Errorf("Expected InvalidPasswordError, got %v", err)
	}
	if err := service.ChangePassword(ctx, "original password", "new password"); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}
	if err := service.Verify(ctx, "new password"); err != nil {
		t.Errorf("New password should verify: %v", err)
	}

	if err := service.SetPassword(ctx, "reset by operator"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	if err := service.Verify(ctx, "reset by operator"); err != nil {
		t.Errorf("Reset password should verify: %v", err)
	}
}

func TestPasswordService_RejectsShortPasswords(t *testing.T) {
	service, _, cleanup := setupPasswordService(t)
	defer cleanup()

	if err := service.CreatePassword(context.Background(), "short"); !IsWeakPasswordError(err) {
		t.Errorf("Expected WeakPasswordError, got %v", err)
	}
}
