package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/campuslink/internal/account"
	"github.com/hitoshi/campuslink/internal/middleware"
	"github.com/hitoshi/campuslink/internal/model"
)

// AccountServiceInterface はアカウントハンドラーが必要とするサービスインターフェース。
type AccountServiceInterface interface {
	// SignUp はアカウントを登録する。
	SignUp(ctx context.Context, input account.SignUpInput) (*model.Account, error)
	// Withdraw はアカウントの退会処理を実行する。
	Withdraw(ctx context.Context, username string) error
}

// AccountHandler はアカウント管理のHTTPハンドラー。
type AccountHandler struct {
	service    AccountServiceInterface
	authConfig AuthHandlerConfig
}

// NewAccountHandler はAccountHandlerを生成する。
func NewAccountHandler(service AccountServiceInterface, authConfig AuthHandlerConfig) *AccountHandler {
	return &AccountHandler{
		service:    service,
		authConfig: authConfig,
	}
}

// signUpRequest はアカウント登録リクエストのボディ。
type signUpRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	University string `json:"university"`
	Major      string `json:"major"`
}

// SignUp はアカウント登録を処理する。
// POST /api/accounts
func (h *AccountHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestResponse(w)
		return
	}

	if req.Username == "" || req.Password == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "ユーザー名とパスワードは必須です。",
			Category: "validation",
			Action:   "ユーザー名とパスワードを入力してください。",
		})
		return
	}

	created, err := h.service.SignUp(r.Context(), account.SignUpInput{
		Username:   req.Username,
		Password:   req.Password,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		University: req.University,
		Major:      req.Major,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toAccountResponse(created))
}

// Withdraw は自分のアカウントの退会処理を実行する。
// DELETE /api/accounts/me
func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	username, err := middleware.UsernameFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	if err := h.service.Withdraw(r.Context(), username); err != nil {
		handleServiceError(w, err)
		return
	}

	// 退会済みアカウントのセッションCookieをクリア
	clearSessionCookie(w, h.authConfig)

	w.WriteHeader(http.StatusNoContent)
}
