package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proposal-service/internal/common/database"
	commonerrors "proposal-service/internal/common/errors"
	"proposal-service/internal/common/logger"
)

func newMockStore(t *testing.T) (*ProposalStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewProposalStore(&database.PostgresClient{DB: db}, logger.NewTestLogger(t)), mock
}

func proposalRows(created time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "subtotal", "tax", "tax_rate", "total",
		"currency", "created_at", "payment_link", "acceptance_link",
		"name", "email", "phone", "website", "logo_url",
	}).AddRow(
		"prop_1", "Website Redesign Proposal", 2000.0, 160.0, 0.08, 2160.0,
		"USD", created, "https://pay.test/prop_1", nil,
		"Acme Inc", "hello@acme.test", "", "", "",
	)
}

func TestGetProposalDocumentData(t *testing.T) {
	store, mock := newMockStore(t)
	created := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM proposals p").
		WithArgs("prop_1").
		WillReturnRows(proposalRows(created))
	mock.ExpectQuery("FROM proposal_line_items").
		WithArgs("prop_1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "description", "quantity", "unit_price", "total",
		}).
			AddRow("li_1", "Website Design", "", 1.0, 2000.0, 2000.0))
	mock.ExpectQuery("FROM contacts").
		WithArgs("prop_1").
		WillReturnRows(sqlmock.NewRows([]string{
			"first_name", "last_name", "email", "title",
		}).AddRow("Dana", "Reyes", "dana@client.test", "CTO"))

	data, err := store.GetProposalDocumentData(context.Background(), "prop_1")
	require.NoError(t, err)

	assert.Equal(t, "prop_1", data.Proposal.ID)
	assert.Equal(t, "Website Redesign Proposal", data.Proposal.Title)
	assert.Equal(t, 2160.0, data.Proposal.Total)
	assert.Equal(t, created, data.Proposal.CreatedAt)
	assert.Equal(t, "https://pay.test/prop_1", data.PaymentLink)
	assert.Empty(t, data.AcceptanceLink)
	assert.Equal(t, "Acme Inc", data.Company.Name)
	require.Len(t, data.Proposal.LineItems, 1)
	assert.Equal(t, "Website Design", data.Proposal.LineItems[0].Name)
	require.NotNil(t, data.Contact)
	assert.Equal(t, "Dana", data.Contact.FirstName)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProposalDocumentDataNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("FROM proposals p").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := store.GetProposalDocumentData(context.Background(), "missing")
	require.Error(t, err)

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeProposalNotFound, stdErr.Code)
}

func TestGetProposalDocumentDataNoContact(t *testing.T) {
	store, mock := newMockStore(t)
	created := time.Now()

	mock.ExpectQuery("FROM proposals p").
		WithArgs("prop_1").
		WillReturnRows(proposalRows(created))
	mock.ExpectQuery("FROM proposal_line_items").
		WithArgs("prop_1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "description", "quantity", "unit_price", "total",
		}))
	mock.ExpectQuery("FROM contacts").
		WithArgs("prop_1").
		WillReturnError(sql.ErrNoRows)

	data, err := store.GetProposalDocumentData(context.Background(), "prop_1")
	require.NoError(t, err)
	assert.Nil(t, data.Contact)
	assert.Empty(t, data.Proposal.LineItems)
}

func TestGetProposalDocumentDataQueryFailure(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("FROM proposals p").
		WithArgs("prop_1").
		WillReturnError(errors.New("connection reset"))

	_, err := store.GetProposalDocumentData(context.Background(), "prop_1")
	require.Error(t, err)

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeQueryExecutionFailed, stdErr.Code)
	assert.True(t, commonerrors.IsRetryableErrorCode(stdErr.Code))
}
