// Package store loads proposal document payloads from PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"proposal-service/internal/common/database"
	commonerrors "proposal-service/internal/common/errors"
	"proposal-service/internal/common/logger"
	"proposal-service/internal/proposal/document"
)

// ProposalStore assembles a ProposalDocumentData payload from the CRM
// tables. It is read-only: the generation pipeline never writes proposals.
type ProposalStore struct {
	db     *database.PostgresClient
	logger logger.Logger
}

func NewProposalStore(db *database.PostgresClient, log logger.Logger) *ProposalStore {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &ProposalStore{db: db, logger: log}
}

const proposalQuery = `
SELECT p.id, p.title, p.subtotal, p.tax, p.tax_rate, p.total,
       COALESCE(p.currency, 'USD'), p.created_at,
       p.payment_link, p.acceptance_link,
       c.name, COALESCE(c.email, ''), COALESCE(c.phone, ''),
       COALESCE(c.website, ''), COALESCE(c.logo_url, '')
FROM proposals p
JOIN companies c ON c.id = p.company_id
WHERE p.id = $1`

const lineItemsQuery = `
SELECT id, name, COALESCE(description, ''), quantity, unit_price, total
FROM proposal_line_items
WHERE proposal_id = $1
ORDER BY position, id`

const contactQuery = `
SELECT first_name, last_name, COALESCE(email, ''), COALESCE(title, '')
FROM contacts
WHERE id = (SELECT contact_id FROM proposals WHERE id = $1)`

// GetProposalDocumentData loads the proposal, its line items, the owning
// company, and the optional primary contact in one call.
func (s *ProposalStore) GetProposalDocumentData(ctx context.Context, proposalID string) (*document.ProposalDocumentData, error) {
	var (
		data        document.ProposalDocumentData
		paymentLink sql.NullString
		acceptLink  sql.NullString
		createdAt   time.Time
	)

	err := s.db.QueryRow(ctx, proposalQuery, proposalID).Scan(
		&data.Proposal.ID, &data.Proposal.Title,
		&data.Proposal.Subtotal, &data.Proposal.Tax,
		&data.Proposal.TaxRate, &data.Proposal.Total,
		&data.Proposal.Currency, &createdAt,
		&paymentLink, &acceptLink,
		&data.Company.Name, &data.Company.Email, &data.Company.Phone,
		&data.Company.Website, &data.Company.LogoURL,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, commonerrors.NewProposalNotFoundError(proposalID)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, commonerrors.NewQueryTimeoutError("proposal", err)
		}
		s.logger.Error("proposal lookup failed", map[string]interface{}{
			"proposal_id": proposalID,
			"error":       err.Error(),
		})
		return nil, commonerrors.NewQueryExecutionFailedError("proposal", err)
	}
	data.Proposal.CreatedAt = createdAt
	data.PaymentLink = paymentLink.String
	data.AcceptanceLink = acceptLink.String

	items, err := s.lineItems(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	data.Proposal.LineItems = items

	contact, err := s.contact(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	data.Contact = contact

	return &data, nil
}

func (s *ProposalStore) lineItems(ctx context.Context, proposalID string) ([]document.LineItem, error) {
	rows, err := s.db.Query(ctx, lineItemsQuery, proposalID)
	if err != nil {
		return nil, commonerrors.NewQueryExecutionFailedError("line items", err)
	}
	defer rows.Close()

	var items []document.LineItem
	for rows.Next() {
		var item document.LineItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Description,
			&item.Quantity, &item.UnitPrice, &item.Total); err != nil {
			return nil, commonerrors.NewQueryExecutionFailedError("line items", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, commonerrors.NewQueryExecutionFailedError("line items", err)
	}
	return items, nil
}

// contact returns nil without error when the proposal has no contact.
func (s *ProposalStore) contact(ctx context.Context, proposalID string) (*document.Contact, error) {
	var contact document.Contact
	err := s.db.QueryRow(ctx, contactQuery, proposalID).Scan(
		&contact.FirstName, &contact.LastName, &contact.Email, &contact.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, commonerrors.NewQueryExecutionFailedError("contact", err)
	}
	return &contact, nil
}
