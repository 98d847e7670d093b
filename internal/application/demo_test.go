package application_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/example/resama/internal/application"
	"github.com/example/resama/internal/domain"
	"github.com/example/resama/internal/testfixtures"
)

func TestDemoDirectoryAuthenticate(t *testing.T) {
	t.Parallel()

	directory, err := application.NewDemoDirectory(testfixtures.FastArgon2idParams)
	if err != nil {
		t.Fatalf("NewDemoDirectory returned error: %v", err)
	}

	user, err := directory.Authenticate(" Enseignant@univ.fr ", "password123")
	if err != nil {
		t.Fatalf("expected demo teacher to authenticate, got %v", err)
	}
	if user.Role != domain.RoleTeacher || user.DisplayName != "Marie Dubois" {
		t.Fatalf("unexpected demo user: %+v", user)
	}

	if _, err := directory.Authenticate("responsable@univ.fr", "password"); !errors.Is(err, application.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong secret, got %v", err)
	}
	if _, err := directory.Authenticate("admin@univ.fr", "password123"); !errors.Is(err, application.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
	if got := len(directory.Emails()); got != 2 {
		t.Fatalf("expected 2 demo accounts, got %d", got)
	}
}

func TestNilDemoDirectoryRejectsEverything(t *testing.T) {
	t.Parallel()

	var directory *application.DemoDirectory
	if _, err := directory.Authenticate("responsable@univ.fr", "password123"); !errors.Is(err, application.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestHashAndVerifySecret(t *testing.T) {
	t.Parallel()

	hash, err := application.HashSecret("password123", testfixtures.FastArgon2idParams)
	if err != nil {
		t.Fatalf("HashSecret returned error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash encoding %q", hash)
	}
	if err := application.VerifySecret(hash, "password123"); err != nil {
		t.Fatalf("expected secret to verify, got %v", err)
	}
	if err := application.VerifySecret(hash, "password124"); err == nil {
		t.Fatalf("expected mismatch to fail")
	}
	if err := application.VerifySecret("plain", "password123"); !errors.Is(err, application.ErrInvalidSecretHash) {
		t.Fatalf("expected ErrInvalidSecretHash, got %v", err)
	}
}
