package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/set-night/chatexport/internal/config"
	"github.com/set-night/chatexport/internal/domain"
)

type licenseClaims struct {
	Plan string `json:"plan"`
	jwt.RegisteredClaims
}

// LicenseService issues and verifies license keys and tracks free usage.
// A key is an HS256 JWT whose subject is the Telegram user id.
type LicenseService struct {
	store     KVStore
	secret    []byte
	freeLimit int64
	now       func() time.Time
}

func NewLicenseService(store KVStore, secret string, freeLimit int64) *LicenseService {
	return &LicenseService{
		store:     store,
		secret:    []byte(secret),
		freeLimit: freeLimit,
		now:       time.Now,
	}
}

func (s *LicenseService) FreeLimit() int64 { return s.freeLimit }

func (s *LicenseService) IssueKey(userID int64) (string, error) {
	if len(s.secret) == 0 {
		return "", domain.ErrLicensingDisabled
	}
	now := s.now()
	claims := licenseClaims{
		Plan: config.LicensePlan,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(config.LicenseTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign license: %w", err)
	}
	return signed, nil
}

// Activate verifies key for userID and marks the user licensed.
func (s *LicenseService) Activate(ctx context.Context, userID int64, key string) error {
	if len(s.secret) == 0 {
		return domain.ErrLicensingDisabled
	}

	claims := &licenseClaims{}
	_, err := jwt.ParseWithClaims(key, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject(strconv.FormatInt(userID, 10)),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidLicense, err)
	}
	if claims.Plan != config.LicensePlan {
		return fmt.Errorf("%w: unknown plan %q", domain.ErrInvalidLicense, claims.Plan)
	}

	return s.store.Set(ctx, userID, KeyLicenseStatus, licenseActive)
}

func (s *LicenseService) IsLicensed(ctx context.Context, userID int64) (bool, error) {
	v, _, err := s.store.Get(ctx, userID, KeyLicenseStatus)
	if err != nil {
		return false, err
	}
	return v == licenseActive, nil
}

func (s *LicenseService) IncrementUsage(ctx context.Context, userID int64) (int64, error) {
	return s.store.Increment(ctx, userID, KeyUsageCount, 1)
}

func (s *LicenseService) Usage(ctx context.Context, userID int64) (int64, error) {
	v, ok, err := s.store.Get(ctx, userID, KeyUsageCount)
	if err != nil || !ok {
		return 0, err
	}
	n, _ := strconv.ParseInt(v, 10, 64)
	return n, nil
}

// ReserveExport counts one export for userID before the export runs, so
// concurrent exports cannot overrun the free limit. Unlicensed users past the
// limit get domain.ErrFreeLimitReached. The returned release gives the slot
// back and must be called when the export does not complete.
func (s *LicenseService) ReserveExport(ctx context.Context, userID int64) (release func(), err error) {
	licensed, err := s.IsLicensed(ctx, userID)
	if err != nil {
		return nil, err
	}

	n, err := s.IncrementUsage(ctx, userID)
	if err != nil {
		return nil, err
	}
	release = func() {
		if _, err := s.store.Increment(context.WithoutCancel(ctx), userID, KeyUsageCount, -1); err != nil {
			slog.Error("release export slot", "user_id", userID, "error", err)
		}
	}

	if !licensed && n > s.freeLimit {
		release()
		return nil, domain.ErrFreeLimitReached
	}
	return release, nil
}
