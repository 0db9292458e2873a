package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/salesmatrix/sales-matrix/internal/errs"
	"github.com/salesmatrix/sales-matrix/internal/model"
	"github.com/salesmatrix/sales-matrix/internal/presence"
	"github.com/salesmatrix/sales-matrix/internal/service"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	userID, err := s.dir.Register(r.Context(), req.Username, req.Email, req.Password)
	switch {
	case errors.Is(err, errs.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "username already exists")
	case err != nil:
		s.log.Error("register", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "registration failed")
	default:
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "userId": userID})
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
		Password   string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	token, user, err := s.dir.Login(r.Context(), req.Identifier, req.Password)
	switch {
	case errors.Is(err, errs.ErrValidation):
		writeError(w, http.StatusBadRequest, "missing identifier or password")
	case errors.Is(err, errs.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "invalid username or password")
	case err != nil:
		s.log.Error("login", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "login failed")
	default:
		writeJSON(w, http.StatusOK, map[string]any{"token": token, "user": user})
	}
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		s.log.Error("list users", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list failed")
		return
	}
	if users == nil {
		users = []model.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleSaveUser(w http.ResponseWriter, r *http.Request) {
	var u model.User
	if err := decode(r, &u); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	u.Username = chi.URLParam(r, "username")
	if u.Username == "" {
		writeError(w, http.StatusBadRequest, "missing username")
		return
	}
	if err := s.users.Upsert(r.Context(), &u); err != nil {
		s.log.Error("save user", zap.String("user", u.Username), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "save failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.products.List(r.Context())
	if err != nil {
		s.log.Error("list products", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list failed")
		return
	}
	if products == nil {
		products = []model.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *Server) handleSaveProduct(w http.ResponseWriter, r *http.Request) {
	var p model.Product
	if err := decode(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	p.ID = id
	if err := s.products.Upsert(r.Context(), &p); err != nil {
		s.log.Error("save product", zap.Int("id", p.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "save failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleSetPresence(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		writeError(w, http.StatusBadRequest, "missing username")
		return
	}
	if err := s.presence.Set(r.Context(), username, time.Now()); err != nil {
		s.log.Error("set presence", zap.String("user", username), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "presence write failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleGetPresence(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	lastSeen, err := s.presence.Get(r.Context(), username)
	if errors.Is(err, errs.ErrNotFound) {
		writeJSON(w, http.StatusOK, map[string]any{"username": username, "online": false})
		return
	}
	if err != nil {
		s.log.Error("get presence", zap.String("user", username), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "presence read failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"username": username,
		"lastSeen": lastSeen.UnixMilli(),
		"online":   time.Since(lastSeen) < presence.OnlineThreshold,
	})
}

func (s *Server) handleSendOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	var err error
	if req.OTP != "" {
		// Serverless-style delivery: the client already generated the code.
		err = s.codes.Store(r.Context(), req.Email, req.OTP)
	} else {
		err = s.codes.Send(r.Context(), req.Email)
	}
	switch {
	case errors.Is(err, errs.ErrValidation):
		writeError(w, http.StatusBadRequest, "invalid email or code")
	case err != nil:
		s.log.Error("send otp", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to send OTP")
	default:
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	err := s.codes.Verify(r.Context(), req.Email, req.OTP)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		writeError(w, http.StatusNotFound, "OTP not found. Please request a new code.")
	case errors.Is(err, errs.ErrCodeExpired):
		writeError(w, http.StatusBadRequest, "OTP expired. Please request a new code.")
	case errors.Is(err, errs.ErrCodeMismatch):
		writeError(w, http.StatusBadRequest, "Invalid OTP. Please try again.")
	case err != nil:
		s.log.Error("verify otp", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "verification failed")
	default:
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

func (s *Server) handleAI(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	reply, err := s.ai.Query(r.Context(), req.Message)
	switch {
	case errors.Is(err, service.ErrAINotConfigured):
		writeError(w, http.StatusServiceUnavailable, "AI is not configured on this server")
	case err != nil:
		s.log.Warn("ai query", zap.Error(err))
		writeError(w, http.StatusBadGateway, "AI request failed")
	default:
		writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
	}
}
