package application

import (
	"fmt"
	"strings"

	"github.com/example/resama/internal/domain"
)

// DemoToken is persisted as the bearer token of demo sessions.
const DemoToken = "demo-token"

const demoSecret = "password123"

type demoAccount struct {
	user       domain.User
	secretHash string
}

// DemoDirectory holds the fixed demo accounts accepted before any remote login.
// It only exists when demo mode is enabled.
type DemoDirectory struct {
	accounts  map[string]demoAccount
	decoyHash string
}

// NewDemoDirectory hashes the demo secrets with params.
func NewDemoDirectory(params Argon2idParams) (*DemoDirectory, error) {
	users := []domain.User{
		{
			PersonID:    1,
			LastName:    "Martin",
			FirstName:   "Jean",
			DisplayName: "Jean Martin",
			Role:        domain.RoleResponsable,
			Email:       "responsable@univ.fr",
			Phone:       "01.23.45.67.89",
			Specialty:   "Informatique",
		},
		{
			PersonID:    2,
			LastName:    "Dubois",
			FirstName:   "Marie",
			DisplayName: "Marie Dubois",
			Role:        domain.RoleTeacher,
			Email:       "enseignant@univ.fr",
			Phone:       "01.23.45.67.90",
			Specialty:   "Mathématiques",
		},
	}

	directory := &DemoDirectory{accounts: make(map[string]demoAccount, len(users))}
	for _, user := range users {
		hash, err := HashSecret(demoSecret, params)
		if err != nil {
			return nil, fmt.Errorf("hash demo secret for %s: %w", user.Email, err)
		}
		directory.accounts[user.Email] = demoAccount{user: user, secretHash: hash}
	}

	decoy, err := HashSecret("decoy", params)
	if err != nil {
		return nil, fmt.Errorf("hash decoy secret: %w", err)
	}
	directory.decoyHash = decoy
	return directory, nil
}

// Authenticate returns the demo user matching the credentials or ErrInvalidCredentials.
func (d *DemoDirectory) Authenticate(email, secret string) (domain.User, error) {
	if d == nil {
		return domain.User{}, ErrInvalidCredentials
	}
	account, ok := d.accounts[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		// Unknown emails still pay for a hash comparison.
		_ = VerifySecret(d.decoyHash, secret)
		return domain.User{}, ErrInvalidCredentials
	}
	if err := VerifySecret(account.secretHash, secret); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return account.user, nil
}

// Emails lists the demo account identifiers.
func (d *DemoDirectory) Emails() []string {
	if d == nil {
		return nil
	}
	emails := make([]string, 0, len(d.accounts))
	for email := range d.accounts {
		emails = append(emails, email)
	}
	return emails
}
