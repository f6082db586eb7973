package leads

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dmorales-dev/tradeflow-backend/internal/clients"
	"github.com/dmorales-dev/tradeflow-backend/pkg/enums"
	pkgerrors "github.com/dmorales-dev/tradeflow-backend/pkg/errors"
)

type testTxRunner struct {
	db *gorm.DB
}

func (r *testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupLeadsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	leadDDL := `
CREATE TABLE IF NOT EXISTS leads (
  id TEXT PRIMARY KEY,
  contractor_id TEXT NOT NULL,
  client_id TEXT,
  name TEXT NOT NULL,
  email TEXT,
  phone TEXT,
  source TEXT NOT NULL DEFAULT 'manual',
  project_type TEXT,
  description TEXT,
  status TEXT NOT NULL DEFAULT 'new',
  created_at DATETIME,
  updated_at DATETIME
);`
	clientDDL := `
CREATE TABLE IF NOT EXISTS clients (
  id TEXT PRIMARY KEY,
  contractor_id TEXT NOT NULL,
  name TEXT NOT NULL,
  email TEXT,
  phone TEXT,
  address_line1 TEXT,
  address_line2 TEXT,
  city TEXT,
  state TEXT,
  postal_code TEXT,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(leadDDL).Error)
	require.NoError(t, db.Exec(clientDDL).Error)
	return db
}

func newTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:       NewRepository(db),
		ClientRepo: clients.NewRepository(db),
		Tx:         &testTxRunner{db: db},
	})
	require.NoError(t, err)
	return svc
}

func ptr[T any](v T) *T { return &v }

func TestCreateLeadDefaultsSourceAndStatus(t *testing.T) {
	db := setupLeadsTestDB(t)
	svc := newTestService(t, db)

	lead, err := svc.Create(context.Background(), uuid.New(), CreateLeadInput{
		Name:        "Mike Rivera",
		Phone:       ptr("512-555-0188"),
		Description: ptr("Kitchen remodel, wants quote this week"),
	})
	require.NoError(t, err)

	assert.Equal(t, DefaultSource, lead.Source)
	assert.Equal(t, enums.LeadStatusNew, lead.Status)
}

func TestUpdateStatusMovesThroughFunnel(t *testing.T) {
	db := setupLeadsTestDB(t)
	svc := newTestService(t, db)
	contractorID := uuid.New()

	lead, err := svc.Create(context.Background(), contractorID, CreateLeadInput{Name: "Funnel Lead"})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), contractorID, lead.ID, enums.LeadStatusContacted)
	require.NoError(t, err)
	assert.Equal(t, enums.LeadStatusContacted, updated.Status)

	updated, err = svc.UpdateStatus(context.Background(), contractorID, lead.ID, enums.LeadStatusQuoted)
	require.NoError(t, err)
	assert.Equal(t, enums.LeadStatusQuoted, updated.Status)
}

func TestUpdateStatusRejectsDirectConversion(t *testing.T) {
	db := setupLeadsTestDB(t)
	svc := newTestService(t, db)
	contractorID := uuid.New()

	lead, err := svc.Create(context.Background(), contractorID, CreateLeadInput{Name: "Lead"})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), contractorID, lead.ID, enums.LeadStatusConverted)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestConvertToClientCreatesClientAndMarksLead(t *testing.T) {
	db := setupLeadsTestDB(t)
	svc := newTestService(t, db)
	contractorID := uuid.New()

	lead, err := svc.Create(context.Background(), contractorID, CreateLeadInput{
		Name:        "Dana White",
		Email:       ptr("dana@example.com"),
		Description: ptr("Bathroom tile work"),
	})
	require.NoError(t, err)

	client, err := svc.ConvertToClient(context.Background(), contractorID, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dana White", client.Name)
	require.NotNil(t, client.Email)
	assert.Equal(t, "dana@example.com", *client.Email)

	reloaded, err := svc.Get(context.Background(), contractorID, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.LeadStatusConverted, reloaded.Status)
	require.NotNil(t, reloaded.ClientID)
	assert.Equal(t, client.ID, *reloaded.ClientID)

	// second conversion must fail, and must not create another client
	_, err = svc.ConvertToClient(context.Background(), contractorID, lead.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())

	clientSvc, err := clients.NewService(clients.NewRepository(db))
	require.NoError(t, err)
	list, err := clientSvc.List(context.Background(), contractorID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestConvertLostLeadFails(t *testing.T) {
	db := setupLeadsTestDB(t)
	svc := newTestService(t, db)
	contractorID := uuid.New()

	lead, err := svc.Create(context.Background(), contractorID, CreateLeadInput{Name: "Cold Lead"})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), contractorID, lead.ID, enums.LeadStatusLost)
	require.NoError(t, err)

	_, err = svc.ConvertToClient(context.Background(), contractorID, lead.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}
