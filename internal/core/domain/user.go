package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	UsernameMinLen = 3
	UsernameMaxLen = 20
	PasswordMinLen = 6
)

// Même règle que le formulaire d'inscription : quelque chose@domaine.tld
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var usernameStripRe = regexp.MustCompile(`[^a-z0-9_]`)

// --- ENTITÉ ---

// User regroupe le compte et le profil public (table users).
// Username reste vide tant que l'onboarding n'est pas terminé.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Username     string
	DisplayName  string
	AvatarURL    string
	Bio          string
	Region       string
	Timezone     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// --- FACTORY ---

// NewUser est le seul moyen de créer un compte valide (ID + validation).
func NewUser(email, displayName, passwordHash string) (*User, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if strings.TrimSpace(displayName) == "" {
		return nil, ErrDisplayNameMissing
	}

	now := time.Now().UTC()
	return &User{
		ID:           uuid.NewString(),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		DisplayName:  strings.TrimSpace(displayName),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// --- COMPORTEMENTS ---

// Onboarded : display name et username posés = onboarding terminé.
func (u *User) Onboarded() bool {
	return u.DisplayName != "" && u.Username != ""
}

func (u *User) UpdatePassword(newHash string) {
	u.PasswordHash = newHash
	u.touch()
}

// ApplyProfile copie les champs publics du profil.
func (u *User) ApplyProfile(p Profile) {
	u.DisplayName = strings.TrimSpace(p.DisplayName)
	u.Username = p.Username
	u.Bio = strings.TrimSpace(p.Bio)
	u.Region = p.Region
	u.Timezone = p.Timezone
	if p.AvatarURL != "" {
		u.AvatarURL = p.AvatarURL
	}
	u.touch()
}

// Location renvoie le fuseau du profil, UTC si absent ou inconnu.
func (u *User) Location() *time.Location {
	if u.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (u *User) touch() {
	u.UpdatedAt = time.Now().UTC()
}

// --- VALIDATEURS ---

func ValidateEmail(email string) error {
	if !emailRe.MatchString(strings.TrimSpace(email)) {
		return ErrInvalidEmail
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < PasswordMinLen {
		return ErrWeakPassword
	}
	return nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeUsername applique le nettoyage de saisie : minuscules, [a-z0-9_] uniquement.
func NormalizeUsername(raw string) string {
	return usernameStripRe.ReplaceAllString(strings.ToLower(raw), "")
}

func ValidateUsername(username string) error {
	if len(username) < UsernameMinLen || len(username) > UsernameMaxLen {
		return ErrInvalidUsername
	}
	if NormalizeUsername(username) != username {
		return ErrInvalidUsername
	}
	return nil
}

// UsernameStatus est l'état affiché à côté du champ username.
type UsernameStatus string

const (
	UsernameIdle      UsernameStatus = "idle"
	UsernameInvalid   UsernameStatus = "invalid"
	UsernameTaken     UsernameStatus = "taken"
	UsernameAvailable UsernameStatus = "available"
)
