package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/ysegev/wealth-tracker/pkg/auth"
	"github.com/ysegev/wealth-tracker/pkg/models"
)

type registerRequest struct {
	FullName string `json:"full_name"`
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.FullName == "" || req.UserName == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	if existing, err := s.store.GetUserByUserName(req.UserName); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to check existing users")
		return
	} else if existing != nil {
		writeError(w, http.StatusConflict, "Username already taken")
		return
	}

	if existing, err := s.store.GetUserByEmail(req.Email); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to check existing users")
		return
	} else if existing != nil {
		writeError(w, http.StatusConflict, "Email already registered")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user := &models.User{
		ID:           uuid.NewString(),
		FullName:     req.FullName,
		UserName:     req.UserName,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.CreateUser(user); err != nil {
		log.Error().Err(err).Str("userName", req.UserName).Msg("Failed to create user")
		writeError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	token, err := s.authn.IssueToken(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

type loginRequest struct {
	UserName string `json:"user_name"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := s.store.GetUserByUserName(req.UserName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to look up user")
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := s.authn.IssueToken(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

func (s *Server) handleListLocations(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	locations, err := s.store.GetMoneyLocations(claims.UserID)
	if err != nil {
		log.Error().Err(err).Str("userId", claims.UserID).Msg("Failed to list money locations")
		writeError(w, http.StatusInternalServerError, "Failed to list money locations")
		return
	}
	if locations == nil {
		locations = []models.MoneyLocation{}
	}

	writeJSON(w, http.StatusOK, locations)
}

func (s *Server) handleCreateLocation(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var location models.MoneyLocation
	if err := json.NewDecoder(r.Body).Decode(&location); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	location.ID = uuid.NewString()
	location.UserID = claims.UserID
	if location.LastChecked.IsZero() {
		location.LastChecked = time.Now().UTC()
	}

	if err := location.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.SaveMoneyLocation(&location); err != nil {
		log.Error().Err(err).Str("userId", claims.UserID).Msg("Failed to save money location")
		writeError(w, http.StatusInternalServerError, "Failed to save money location")
		return
	}

	writeJSON(w, http.StatusCreated, location)
}

type updateLocationRequest struct {
	Name            *string  `json:"location_name"`
	Amount          *float64 `json:"amount"`
	Currency        *string  `json:"currency"`
	AccountType     *string  `json:"account_type"`
	PropertyAddress *string  `json:"property_address"`
	PurchaseDate    *string  `json:"purchase_date"`
	PurchasePrice   *float64 `json:"purchase_price"`
	Notes           *string  `json:"notes"`
}

func (s *Server) handleUpdateLocation(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id := mux.Vars(r)["id"]

	location, err := s.fetchOwnedLocation(w, claims, id)
	if location == nil || err != nil {
		return
	}

	var req updateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name != nil {
		location.Name = *req.Name
	}
	if req.Amount != nil {
		location.Amount = *req.Amount
		location.LastChecked = time.Now().UTC()
	}
	if req.Currency != nil {
		currency, err := models.ParseCurrency(*req.Currency)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		location.Currency = currency
	}
	if req.AccountType != nil {
		accountType, err := models.ParseAccountType(*req.AccountType)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		location.AccountType = accountType
	}
	if req.PropertyAddress != nil {
		location.PropertyAddress = *req.PropertyAddress
	}
	if req.PurchaseDate != nil {
		purchased, err := time.Parse(time.RFC3339, *req.PurchaseDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid purchase date")
			return
		}
		location.PurchaseDate = &purchased
	}
	if req.PurchasePrice != nil {
		location.PurchasePrice = *req.PurchasePrice
	}
	if req.Notes != nil {
		location.Notes = *req.Notes
	}

	if err := location.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.UpdateMoneyLocation(location); err != nil {
		log.Error().Err(err).Str("locationId", id).Msg("Failed to update money location")
		writeError(w, http.StatusInternalServerError, "Failed to update money location")
		return
	}

	writeJSON(w, http.StatusOK, location)
}

func (s *Server) handleDeleteLocation(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id := mux.Vars(r)["id"]

	location, err := s.fetchOwnedLocation(w, claims, id)
	if location == nil || err != nil {
		return
	}

	if err := s.store.RemoveMoneyLocation(id); err != nil {
		log.Error().Err(err).Str("locationId", id).Msg("Failed to remove money location")
		writeError(w, http.StatusInternalServerError, "Failed to remove money location")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"money_location_id": id})
}

// fetchOwnedLocation loads a location and verifies it belongs to the caller,
// writing the error response itself when it returns nil
func (s *Server) fetchOwnedLocation(w http.ResponseWriter, claims *auth.Claims, id string) (*models.MoneyLocation, error) {
	location, err := s.store.GetMoneyLocation(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get money location")
		return nil, err
	}
	if location == nil || location.UserID != claims.UserID {
		writeError(w, http.StatusNotFound, "Money location not found")
		return nil, nil
	}
	return location, nil
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	goals, err := s.store.GetGoals(claims.UserID)
	if err != nil {
		log.Error().Err(err).Str("userId", claims.UserID).Msg("Failed to list goals")
		writeError(w, http.StatusInternalServerError, "Failed to list goals")
		return
	}

	locations, err := s.store.GetMoneyLocations(claims.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list money locations")
		return
	}

	synced, err := s.syncer.Sync(r.Context(), goals, locations)
	if err != nil {
		log.Error().Err(err).Str("userId", claims.UserID).Msg("Failed to sync goals")
		writeError(w, http.StatusInternalServerError, "Failed to sync goals")
		return
	}
	if synced == nil {
		synced = []models.Goal{}
	}

	writeJSON(w, http.StatusOK, synced)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	var goal models.Goal
	if err := json.NewDecoder(r.Body).Decode(&goal); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	now := time.Now().UTC()
	goal.ID = uuid.NewString()
	goal.UserID = claims.UserID
	goal.CreatedAt = now
	goal.UpdatedAt = now

	if goal.Linked() {
		location, err := s.fetchOwnedLocation(w, claims, goal.MoneyLocationID)
		if location == nil || err != nil {
			return
		}
		goal.MoneyLocationName = location.Name
	}

	if err := goal.Validate(now); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.SaveGoal(&goal); err != nil {
		log.Error().Err(err).Str("userId", claims.UserID).Msg("Failed to save goal")
		writeError(w, http.StatusInternalServerError, "Failed to save goal")
		return
	}

	writeJSON(w, http.StatusCreated, goal)
}

type updateGoalRequest struct {
	Name            *string  `json:"name"`
	TargetAmount    *float64 `json:"target_amount"`
	CurrentAmount   *float64 `json:"current_amount"`
	Deadline        *string  `json:"deadline"`
	Category        *string  `json:"category"`
	Currency        *string  `json:"currency"`
	Description     *string  `json:"description"`
	MoneyLocationID *string  `json:"money_location_id"`
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id := mux.Vars(r)["id"]

	goal, err := s.store.GetGoal(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get goal")
		return
	}
	if goal == nil || goal.UserID != claims.UserID {
		writeError(w, http.StatusNotFound, "Goal not found")
		return
	}

	var req updateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name != nil {
		goal.Name = *req.Name
	}
	if req.TargetAmount != nil {
		goal.TargetAmount = *req.TargetAmount
	}
	if req.CurrentAmount != nil {
		if goal.Linked() {
			writeError(w, http.StatusBadRequest, "Current amount is derived from the linked money location")
			return
		}
		goal.CurrentAmount = *req.CurrentAmount
	}
	if req.Deadline != nil {
		deadline, err := time.Parse(time.RFC3339, *req.Deadline)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid deadline")
			return
		}
		goal.Deadline = deadline
	}
	if req.Category != nil {
		goal.Category = *req.Category
	}
	if req.Currency != nil {
		currency, err := models.ParseCurrency(*req.Currency)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		goal.Currency = currency
	}
	if req.Description != nil {
		goal.Description = *req.Description
	}
	if req.MoneyLocationID != nil {
		if *req.MoneyLocationID == "" {
			goal.MoneyLocationID = ""
			goal.MoneyLocationName = ""
		} else {
			location, err := s.fetchOwnedLocation(w, claims, *req.MoneyLocationID)
			if location == nil || err != nil {
				return
			}
			goal.MoneyLocationID = location.ID
			goal.MoneyLocationName = location.Name
		}
	}

	goal.UpdatedAt = time.Now().UTC()

	if err := goal.Validate(goal.CreatedAt); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.UpdateGoal(goal); err != nil {
		log.Error().Err(err).Str("goalId", id).Msg("Failed to update goal")
		writeError(w, http.StatusInternalServerError, "Failed to update goal")
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

type goalProgressRequest struct {
	CurrentAmount float64 `json:"current_amount"`
}

// handleGoalProgress records a synced balance for a goal, bypassing the
// linked-goal edit restriction of handleUpdateGoal
func (s *Server) handleGoalProgress(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id := mux.Vars(r)["id"]

	goal, err := s.store.GetGoal(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get goal")
		return
	}
	if goal == nil || goal.UserID != claims.UserID {
		writeError(w, http.StatusNotFound, "Goal not found")
		return
	}

	var req goalProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updatedAt := time.Now().UTC()
	if err := s.store.UpdateGoalProgress(r.Context(), id, req.CurrentAmount, updatedAt); err != nil {
		log.Error().Err(err).Str("goalId", id).Msg("Failed to update goal progress")
		writeError(w, http.StatusInternalServerError, "Failed to update goal progress")
		return
	}

	goal.CurrentAmount = req.CurrentAmount
	goal.UpdatedAt = updatedAt
	writeJSON(w, http.StatusOK, goal)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id := mux.Vars(r)["id"]

	goal, err := s.store.GetGoal(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get goal")
		return
	}
	if goal == nil || goal.UserID != claims.UserID {
		writeError(w, http.StatusNotFound, "Goal not found")
		return
	}

	if err := s.store.RemoveGoal(id); err != nil {
		log.Error().Err(err).Str("goalId", id).Msg("Failed to remove goal")
		writeError(w, http.StatusInternalServerError, "Failed to remove goal")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"goal_id": id})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)

	target := r.URL.Query().Get("currency")
	if target == "" {
		target = string(models.USD)
	}
	currency, err := models.ParseCurrency(target)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	locations, err := s.store.GetMoneyLocations(claims.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list money locations")
		return
	}

	// Bring linked goals up to date before summarizing
	goals, err := s.store.GetGoals(claims.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list goals")
		return
	}
	if _, err := s.syncer.Sync(r.Context(), goals, locations); err != nil {
		log.Error().Err(err).Str("userId", claims.UserID).Msg("Failed to sync goals")
		writeError(w, http.StatusInternalServerError, "Failed to sync goals")
		return
	}

	summary, err := s.aggregator.Summarize(r.Context(), locations, currency)
	if err != nil {
		var unsupported *models.UnsupportedCurrencyError
		if errors.As(err, &unsupported) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Str("userId", claims.UserID).Msg("Failed to summarize wealth")
		writeError(w, http.StatusInternalServerError, "Failed to summarize wealth")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
