// Package ingest parses uploaded bank CSV files of unknown column layout into
// normalized transactions, rejecting duplicates against both persisted data
// and earlier rows of the same upload.
package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"financetrack/internal/apperror"
	"financetrack/internal/currencyutils"
	"financetrack/internal/dateutils"
	"financetrack/internal/logging"
	"financetrack/internal/models"
)

// TransactionStore is the persistence surface the ingestor needs.
type TransactionStore interface {
	// ExistingDedupKeys returns the dedup keys of all persisted transactions
	// for the account.
	ExistingDedupKeys(ctx context.Context, accountID int64) (map[string]struct{}, error)

	// InsertBatch persists all candidates atomically: either every candidate
	// is inserted or none are.
	InsertBatch(ctx context.Context, userID, accountID int64, candidates []models.CandidateTransaction) ([]models.Transaction, error)
}

// Ingestor turns raw CSV bytes into persisted transactions.
type Ingestor struct {
	store  TransactionStore
	logger logging.Logger
}

// NewIngestor creates an Ingestor backed by the given store.
func NewIngestor(store TransactionStore, logger logging.Logger) *Ingestor {
	return &Ingestor{store: store, logger: logger}
}

// Ingest parses the CSV stream and persists every valid, non-duplicate row
// for the account. It returns the counts and the created records.
//
// A missing required column aborts the whole upload before any row is
// processed. Rows that fail validation are skipped and counted, never fatal.
// A store write error aborts the batch with nothing persisted.
func (i *Ingestor) Ingest(ctx context.Context, userID, accountID int64, r io.Reader) (models.UploadResult, []models.Transaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return models.UploadResult{}, nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	mapping, err := detectColumns(headers)
	if err != nil {
		return models.UploadResult{}, nil, err
	}

	existing, err := i.store.ExistingDedupKeys(ctx, accountID)
	if err != nil {
		return models.UploadResult{}, nil, fmt.Errorf("failed to load existing transactions: %w", err)
	}

	var result models.UploadResult
	var accepted []models.CandidateTransaction
	seen := make(map[string]struct{}, len(existing))
	line := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				// Malformed line; skip it and keep going
				result.RowsInvalid++
				i.logger.WithError(err).WithField("line", line).Debug("Skipping malformed csv line")
				continue
			}
			return models.UploadResult{}, nil, fmt.Errorf("failed to read csv: %w", err)
		}

		candidate, rowErr := i.parseRow(record, mapping, line)
		if rowErr != nil {
			result.RowsInvalid++
			i.logger.WithError(rowErr).WithField("line", line).Debug("Skipping invalid row")
			continue
		}

		key := candidate.DedupKey()
		if _, dup := existing[key]; dup {
			result.DuplicatesSkipped++
			continue
		}
		if _, dup := seen[key]; dup {
			// In-batch duplicate; the first occurrence wins
			result.DuplicatesSkipped++
			continue
		}
		seen[key] = struct{}{}
		accepted = append(accepted, candidate)
	}

	created, err := i.store.InsertBatch(ctx, userID, accountID, accepted)
	if err != nil {
		return models.UploadResult{}, nil, err
	}
	result.TransactionsCreated = len(created)

	i.logger.WithFields(
		logging.F("account_id", accountID),
		logging.F("created", result.TransactionsCreated),
		logging.F("duplicates", result.DuplicatesSkipped),
		logging.F("invalid", result.RowsInvalid),
	).Info("CSV upload ingested")

	return result, created, nil
}

// parseRow extracts and validates the mapped cells of one record.
func (i *Ingestor) parseRow(record []string, mapping map[string]int, line int) (models.CandidateTransaction, error) {
	cell := func(field string) string {
		idx := mapping[field]
		if idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	date, err := dateutils.ParseDate(cell(FieldDate))
	if err != nil {
		return models.CandidateTransaction{}, &apperror.RowValidationError{
			Line: line, Field: FieldDate, Value: cell(FieldDate), Reason: err.Error(),
		}
	}

	description := strings.TrimSpace(cell(FieldDescription))
	if description == "" {
		return models.CandidateTransaction{}, &apperror.RowValidationError{
			Line: line, Field: FieldDescription, Value: "", Reason: "empty description",
		}
	}

	amount, err := currencyutils.ParseAmount(cell(FieldAmount))
	if err != nil {
		return models.CandidateTransaction{}, &apperror.RowValidationError{
			Line: line, Field: FieldAmount, Value: cell(FieldAmount), Reason: err.Error(),
		}
	}

	return models.NewCandidate(date, description, amount), nil
}
