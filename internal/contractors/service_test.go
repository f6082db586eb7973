package contractors

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dmorales-dev/tradeflow-backend/pkg/config"
	"github.com/dmorales-dev/tradeflow-backend/pkg/enums"
	pkgerrors "github.com/dmorales-dev/tradeflow-backend/pkg/errors"
)

func setupContractorsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS contractors (
  id TEXT PRIMARY KEY,
  business_name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  phone TEXT,
  default_sales_tax_rate REAL NOT NULL DEFAULT 0,
  default_tax_mode TEXT NOT NULL DEFAULT 'uniform',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo: NewRepository(db),
		Tax:  config.TaxConfig{DefaultSalesTaxRate: 8.25, DefaultMode: "uniform"},
	})
	require.NoError(t, err)
	return svc
}

func TestCreateProfileSeedsTaxDefaultsFromConfig(t *testing.T) {
	db := setupContractorsTestDB(t)
	svc := newTestService(t, db)

	profile, err := svc.CreateProfile(context.Background(), CreateProfileInput{
		BusinessName: "Morales Remodeling",
		Email:        "Dan@MoralesRemodeling.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "dan@moralesremodeling.com", profile.Email)
	assert.Equal(t, 8.25, profile.DefaultTaxRate)
	assert.Equal(t, enums.TaxModeUniform, profile.DefaultTaxMode)
	assert.NotEqual(t, uuid.Nil, profile.ID)
}

func TestCreateProfileOverridesDefaults(t *testing.T) {
	db := setupContractorsTestDB(t)
	svc := newTestService(t, db)

	rate := 7.5
	mode := "per_item"
	profile, err := svc.CreateProfile(context.Background(), CreateProfileInput{
		BusinessName:   "Castillo Electric",
		Email:          "info@castilloelectric.com",
		DefaultTaxRate: &rate,
		DefaultTaxMode: &mode,
	})
	require.NoError(t, err)

	assert.Equal(t, 7.5, profile.DefaultTaxRate)
	assert.Equal(t, enums.TaxModePerItem, profile.DefaultTaxMode)
}

func TestCreateProfileRejectsBadInput(t *testing.T) {
	db := setupContractorsTestDB(t)
	svc := newTestService(t, db)

	badRate := 101.0
	cases := []struct {
		name  string
		input CreateProfileInput
	}{
		{"missing name", CreateProfileInput{Email: "a@b.com"}},
		{"missing email", CreateProfileInput{BusinessName: "A"}},
		{"rate out of range", CreateProfileInput{BusinessName: "A", Email: "a@b.com", DefaultTaxRate: &badRate}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProfile(context.Background(), tc.input)
			require.Error(t, err)
			appErr := pkgerrors.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
		})
	}
}

func TestUpdateProfileChangesTaxDefaults(t *testing.T) {
	db := setupContractorsTestDB(t)
	svc := newTestService(t, db)

	profile, err := svc.CreateProfile(context.Background(), CreateProfileInput{
		BusinessName: "Morales Remodeling",
		Email:        "dan@moralesremodeling.com",
	})
	require.NoError(t, err)

	rate := 6.0
	mode := "per_item"
	updated, err := svc.UpdateProfile(context.Background(), profile.ID, UpdateProfileInput{
		DefaultTaxRate: &rate,
		DefaultTaxMode: &mode,
	})
	require.NoError(t, err)

	assert.Equal(t, 6.0, updated.DefaultTaxRate)
	assert.Equal(t, enums.TaxModePerItem, updated.DefaultTaxMode)

	reloaded, err := svc.GetProfile(context.Background(), profile.ID)
	require.NoError(t, err)
	assert.Equal(t, 6.0, reloaded.DefaultTaxRate)
}

func TestGetProfileNotFound(t *testing.T) {
	db := setupContractorsTestDB(t)
	svc := newTestService(t, db)

	_, err := svc.GetProfile(context.Background(), uuid.New())
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}
