package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"financetrack/internal/models"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.Categories(r.Context())
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

type ruleResponse struct {
	ID          int64  `json:"id"`
	CategoryID  int64  `json:"category_id"`
	Pattern     string `json:"pattern"`
	PatternType string `json:"pattern_type"`
	Priority    int    `json:"priority"`
	IsActive    bool   `json:"is_active"`
}

func toRuleResponse(rule models.Rule) ruleResponse {
	return ruleResponse{
		ID:          rule.ID,
		CategoryID:  rule.CategoryID,
		Pattern:     rule.Pattern,
		PatternType: rule.PatternType,
		Priority:    rule.Priority,
		IsActive:    rule.IsActive,
	}
}

func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)

	rules, err := s.store.ListRules(r.Context(), session.UserID)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	out := make([]ruleResponse, 0, len(rules))
	for _, rule := range rules {
		out = append(out, toRuleResponse(rule))
	}
	writeJSON(w, http.StatusOK, out)
}

type createRuleRequest struct {
	CategoryID  int64  `json:"category_id"`
	Pattern     string `json:"pattern"`
	PatternType string `json:"pattern_type"`
	Priority    int    `json:"priority"`
}

func (s *Server) handleCreateRule(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)

	var req createRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, badRequestf("invalid JSON body: %v", err))
		return
	}
	if strings.TrimSpace(req.Pattern) == "" {
		writeError(w, s.logger, badRequestf("pattern is required"))
		return
	}
	switch req.PatternType {
	case models.PatternTypeContains, models.PatternTypeStartsWith,
		models.PatternTypeExact, models.PatternTypeRegex:
	case "":
		req.PatternType = models.PatternTypeContains
	default:
		writeError(w, s.logger, badRequestf("unknown pattern_type '%s'", req.PatternType))
		return
	}

	rule, err := s.store.CreateRule(r.Context(), models.Rule{
		UserID:      session.UserID,
		CategoryID:  req.CategoryID,
		Pattern:     req.Pattern,
		PatternType: req.PatternType,
		Priority:    req.Priority,
		IsActive:    true,
	})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRuleResponse(rule))
}

func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)

	if err := s.store.DeleteRule(r.Context(), session.UserID, pathID(r)); err != nil {
		writeError(w, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type accountResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	AccountType string          `json:"account_type"`
	Balance     decimal.Decimal `json:"balance"`
}

func toAccountResponse(a models.Account) accountResponse {
	return accountResponse{ID: a.ID, Name: a.Name, AccountType: a.AccountType, Balance: a.Balance}
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)

	accounts, err := s.store.ListAccounts(r.Context(), session.UserID)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

type createAccountRequest struct {
	Name        string `json:"name"`
	AccountType string `json:"account_type"`
	Balance     string `json:"balance"`
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)

	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, badRequestf("invalid JSON body: %v", err))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, s.logger, badRequestf("name is required"))
		return
	}

	balance := decimal.Zero
	if req.Balance != "" {
		var err error
		if balance, err = decimal.NewFromString(req.Balance); err != nil {
			writeError(w, s.logger, badRequestf("invalid balance '%s'", req.Balance))
			return
		}
	}
	accountType := req.AccountType
	if accountType == "" {
		accountType = "checking"
	}

	account, err := s.store.CreateAccount(r.Context(), models.Account{
		UserID:      session.UserID,
		Name:        strings.TrimSpace(req.Name),
		AccountType: accountType,
		Balance:     balance,
	})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountResponse(account))
}

func (s *Server) handleMonthlyInsights(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r)

	q := r.URL.Query()
	now := time.Now()

	month := int(now.Month())
	if raw := q.Get("month"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 12 {
			writeError(w, s.logger, badRequestf("month must be 1-12"))
			return
		}
		month = v
	}
	year := now.Year()
	if raw := q.Get("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1970 {
			writeError(w, s.logger, badRequestf("year must be a valid year"))
			return
		}
		year = v
	}

	report, err := s.insights.MonthlyReport(r.Context(), session.UserID, month, year)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
