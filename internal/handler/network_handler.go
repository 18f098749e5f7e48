package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/campuslink/internal/middleware"
	"github.com/hitoshi/campuslink/internal/model"
)

// NetworkServiceInterface は友達ネットワークハンドラーが必要とするサービスインターフェース。
type NetworkServiceInterface interface {
	// SendRequest はrequesterからrecipientへの友達リクエストを送信する。
	SendRequest(ctx context.Context, requester, recipient string) error
	// PendingFor は指定ユーザー宛ての保留中リクエスト送信者一覧を返す。
	PendingFor(ctx context.Context, recipient string) ([]string, error)
	// Accept は保留中リクエストを承認し、友達関係を成立させる。
	Accept(ctx context.Context, recipient, requester string) error
	// Reject は保留中リクエストを拒否する。
	Reject(ctx context.Context, recipient, requester string) error
	// Disconnect は友達関係を解除する。
	Disconnect(ctx context.Context, userA, userB string) error
	// FriendsOf は指定ユーザーの友達のユーザー名一覧を返す。
	FriendsOf(ctx context.Context, username string) ([]string, error)
}

// NetworkHandler は友達リクエストと友達関係のHTTPハンドラー。
type NetworkHandler struct {
	service NetworkServiceInterface
}

// NewNetworkHandler はNetworkHandlerを生成する。
func NewNetworkHandler(service NetworkServiceInterface) *NetworkHandler {
	return &NetworkHandler{service: service}
}

// sendRequestRequest は友達リクエスト送信のボディ。
type sendRequestRequest struct {
	Recipient string `json:"recipient"`
}

// SendRequest は友達リクエストを送信する。
// POST /api/friends/requests
func (h *NetworkHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	requester, err := middleware.UsernameFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	var req sendRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestResponse(w)
		return
	}

	if req.Recipient == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "宛先ユーザー名が指定されていません。",
			Category: "validation",
			Action:   "recipientを指定してください。",
		})
		return
	}

	if err := h.service.SendRequest(r.Context(), requester, req.Recipient); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// ListPending は自分宛ての保留中リクエスト送信者一覧を返す。
// GET /api/friends/requests
func (h *NetworkHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	recipient, err := middleware.UsernameFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	requesters, err := h.service.PendingFor(r.Context(), recipient)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]string{"requesters": requesters})
}

// Accept は保留中リクエストを承認する。
// POST /api/friends/requests/{requester}/accept
func (h *NetworkHandler) Accept(w http.ResponseWriter, r *http.Request) {
	recipient, err := middleware.UsernameFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	requester := chi.URLParam(r, "requester")

	if err := h.service.Accept(r.Context(), recipient, requester); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Reject は保留中リクエストを拒否する。
// POST /api/friends/requests/{requester}/reject
func (h *NetworkHandler) Reject(w http.ResponseWriter, r *http.Request) {
	recipient, err := middleware.UsernameFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	requester := chi.URLParam(r, "requester")

	if err := h.service.Reject(r.Context(), recipient, requester); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListFriends は自分の友達一覧を返す。
// GET /api/friends
func (h *NetworkHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	username, err := middleware.UsernameFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	friends, err := h.service.FriendsOf(r.Context(), username)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]string{"friends": friends})
}

// Disconnect は友達関係を解除する。
// DELETE /api/friends/{username}
func (h *NetworkHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	username, err := middleware.UsernameFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	friend := chi.URLParam(r, "username")

	if err := h.service.Disconnect(r.Context(), username, friend); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
