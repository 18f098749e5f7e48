package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/campuslink/internal/model"
)

// SearchServiceInterface は検索ハンドラーが必要とするサービスインターフェース。
type SearchServiceInterface interface {
	// FindByLastName は姓の完全一致でユーザー名一覧を返す。
	FindByLastName(ctx context.Context, lastName string) ([]string, error)
	// FindByUniversity は大学名の完全一致でユーザー名一覧を返す。
	FindByUniversity(ctx context.Context, university string) ([]string, error)
	// FindByMajor は専攻の完全一致でユーザー名一覧を返す。
	FindByMajor(ctx context.Context, major string) ([]string, error)
	// FindByFullName は姓名の完全一致でアカウントの存在を確認する。
	FindByFullName(ctx context.Context, firstName, lastName string) (bool, error)
}

// SearchHandler はアカウント検索のHTTPハンドラー。
type SearchHandler struct {
	service SearchServiceInterface
}

// NewSearchHandler はSearchHandlerを生成する。
func NewSearchHandler(service SearchServiceInterface) *SearchHandler {
	return &SearchHandler{service: service}
}

// searchResultResponse は検索結果のAPIレスポンス。
type searchResultResponse struct {
	Usernames []string `json:"usernames"`
}

// SearchAccounts はクエリパラメータに応じたディレクトリ検索を処理する。
// GET /api/search/accounts?last_name=xxx
// GET /api/search/accounts?university=xxx
// GET /api/search/accounts?major=xxx
// 検索キーは1つだけ指定する。該当なしは空配列。
func (h *SearchHandler) SearchAccounts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		usernames []string
		err       error
	)

	switch {
	case q.Get("last_name") != "":
		usernames, err = h.service.FindByLastName(r.Context(), q.Get("last_name"))
	case q.Get("university") != "":
		usernames, err = h.service.FindByUniversity(r.Context(), q.Get("university"))
	case q.Get("major") != "":
		usernames, err = h.service.FindByMajor(r.Context(), q.Get("major"))
	default:
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "検索キーが指定されていません。",
			Category: "validation",
			Action:   "last_name、university、majorのいずれかを指定してください。",
		})
		return
	}

	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(searchResultResponse{Usernames: usernames})
}

// LookupByFullName は姓名の完全一致でアカウントの存在を確認する。
// GET /api/search/lookup?first_name=xxx&last_name=yyy
func (h *SearchHandler) LookupByFullName(w http.ResponseWriter, r *http.Request) {
	firstName := r.URL.Query().Get("first_name")
	lastName := r.URL.Query().Get("last_name")

	if firstName == "" || lastName == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "姓と名の両方を指定してください。",
			Category: "validation",
			Action:   "first_nameとlast_nameを指定してください。",
		})
		return
	}

	exists, err := h.service.FindByFullName(r.Context(), firstName, lastName)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"exists": exists})
}
