package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"financetrack/internal/dateutils"
	"financetrack/internal/export"
	"financetrack/internal/logging"
	"financetrack/internal/models"
	"financetrack/internal/store"
)

type transactionResponse struct {
	ID              int64           `json:"id"`
	AccountID       int64           `json:"account_id"`
	CategoryID      *int64          `json:"category_id"`
	Date            string          `json:"date"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionType string          `json:"transaction_type"`
	IsCategorized   bool            `json:"is_categorized"`
}

func toTransactionResponse(t models.Transaction) transactionResponse {
	return transactionResponse{
		ID:              t.ID,
		AccountID:       t.AccountID,
		CategoryID:      t.CategoryID,
		Date:            t.Date.Format(dateutils.LayoutISO),
		Description:     t.Description,
		Amount:          t.Amount,
		TransactionType: t.TransactionType,
		IsCategorized:   t.IsCategorized,
	}
}

type uploadResponse struct {
	models.UploadResult
	Categorization *models.CategorizeResult `json:"categorization,omitempty"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		writeError(w, s.logger, badRequestf("invalid multipart upload: %v", err))
		return
	}

	accountID, err := strconv.ParseInt(r.FormValue("account_id"), 10, 64)
	if err != nil {
		writeError(w, s.logger, badRequestf("account_id must be an integer"))
		return
	}
	if _, err := s.store.AccountOwnedBy(r.Context(), session.UserID, accountID); err != nil {
		writeError(w, s.logger, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, s.logger, badRequestf("missing 'file' upload field"))
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		writeError(w, s.logger, badRequestf("only .csv files are accepted"))
		return
	}

	result, created, err := s.ingestor.Ingest(r.Context(), session.UserID, accountID, file)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	resp := uploadResponse{UploadResult: result}
	if parseBool(r.FormValue("auto_categorize")) && len(created) > 0 {
		ids := make([]int64, len(created))
		for i, t := range created {
			ids[i] = t.ID
		}
		catResult, err := s.categorizer.CategorizeBatch(r.Context(), session.UserID, ids, true)
		if err != nil {
			s.logger.WithError(err).Warn("Auto-categorization after upload failed")
		} else {
			resp.Categorization = &catResult
		}
	}

	s.logger.WithFields(
		logging.F("user_id", session.UserID),
		logging.F("account_id", accountID),
		logging.F("file", header.Filename),
		logging.F("created", result.TransactionsCreated),
	).Info("Statement uploaded")

	writeJSON(w, http.StatusOK, resp)
}

type categorizeRequest struct {
	TransactionIDs []int64 `json:"transaction_ids"`
	UseAI          *bool   `json:"use_ai"`
}

func (s *Server) handleCategorize(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)

	var req categorizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, badRequestf("invalid JSON body: %v", err))
		return
	}
	// The AI tier is opt-in: an absent use_ai behaves as false
	useAI := req.UseAI != nil && *req.UseAI

	result, err := s.categorizer.CategorizeBatch(r.Context(), session.UserID, req.TransactionIDs, useAI)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)

	filter, err := filterFromQuery(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	transactions, err := s.store.ListTransactions(r.Context(), session.UserID, filter)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	out := make([]transactionResponse, 0, len(transactions))
	for _, t := range transactions {
		out = append(out, toTransactionResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

type createTransactionRequest struct {
	AccountID   int64  `json:"account_id"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	CategoryID  *int64 `json:"category_id"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, badRequestf("invalid JSON body: %v", err))
		return
	}
	if _, err := s.store.AccountOwnedBy(r.Context(), session.UserID, req.AccountID); err != nil {
		writeError(w, s.logger, err)
		return
	}

	date, err := dateutils.ParseDate(req.Date)
	if err != nil {
		writeError(w, s.logger, badRequestf("invalid date '%s'", req.Date))
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		writeError(w, s.logger, badRequestf("description is required"))
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, s.logger, badRequestf("invalid amount '%s'", req.Amount))
		return
	}

	transactionType := models.TransactionTypeIncome
	if amount.IsNegative() {
		transactionType = models.TransactionTypeExpense
	}

	t := models.Transaction{
		UserID:          session.UserID,
		AccountID:       req.AccountID,
		CategoryID:      req.CategoryID,
		Date:            date,
		Description:     strings.TrimSpace(req.Description),
		Amount:          amount,
		TransactionType: transactionType,
		IsCategorized:   req.CategoryID != nil,
	}
	created, err := s.store.CreateTransaction(r.Context(), t)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionResponse(created))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	id := pathID(r)

	t, err := s.store.GetTransaction(r.Context(), session.UserID, id)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(t))
}

type updateTransactionRequest struct {
	CategoryID  *int64  `json:"category_id"`
	Description *string `json:"description"`
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	id := pathID(r)

	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, badRequestf("invalid JSON body: %v", err))
		return
	}
	if req.Description != nil && strings.TrimSpace(*req.Description) == "" {
		writeError(w, s.logger, badRequestf("description cannot be empty"))
		return
	}

	t, err := s.store.UpdateTransaction(r.Context(), session.UserID, id, req.CategoryID, req.Description)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponse(t))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)
	id := pathID(r)

	if err := s.store.DeleteTransaction(r.Context(), session.UserID, id); err != nil {
		writeError(w, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)

	filter, err := filterFromQuery(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	transactions, err := s.store.ListTransactions(r.Context(), session.UserID, filter)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	categories, err := s.store.Categories(r.Context())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
	if err := export.WriteCSV(w, transactions, categories); err != nil {
		s.logger.WithError(err).Error("CSV export failed")
	}
}

// filterFromQuery parses the shared list/export query parameters.
func filterFromQuery(r *http.Request) (store.TransactionFilter, error) {
	var filter store.TransactionFilter
	q := r.URL.Query()

	for name, dst := range map[string]*int64{
		"account_id":  &filter.AccountID,
		"category_id": &filter.CategoryID,
	} {
		if raw := q.Get(name); raw != "" {
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return filter, badRequestf("%s must be an integer", name)
			}
			*dst = v
		}
	}

	for name, dst := range map[string]*time.Time{
		"start_date": &filter.StartDate,
		"end_date":   &filter.EndDate,
	} {
		if raw := q.Get(name); raw != "" {
			v, err := time.Parse(dateutils.LayoutISO, raw)
			if err != nil {
				return filter, badRequestf("%s must be YYYY-MM-DD", name)
			}
			*dst = v
		}
	}

	for name, dst := range map[string]*int{
		"limit":  &filter.Limit,
		"offset": &filter.Offset,
	} {
		if raw := q.Get(name); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil || v < 0 {
				return filter, badRequestf("%s must be a non-negative integer", name)
			}
			*dst = v
		}
	}

	return filter, nil
}

// pathID reads the {id} route variable. The route pattern guarantees digits.
func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func parseBool(raw string) bool {
	v, err := strconv.ParseBool(raw)
	return err == nil && v
}
