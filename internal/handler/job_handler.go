package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/campuslink/internal/job"
	"github.com/hitoshi/campuslink/internal/middleware"
	"github.com/hitoshi/campuslink/internal/model"
)

// JobServiceInterface は求人ハンドラーが必要とするサービスインターフェース。
type JobServiceInterface interface {
	// Post は指定ユーザー名義で求人を掲載する。
	Post(ctx context.Context, username string, input job.PostInput) (*model.Job, error)
	// List は掲載中の求人一覧を返す。
	List(ctx context.Context) ([]*model.Job, error)
	// Delete は指定IDの求人を削除する。
	Delete(ctx context.Context, id string) error
}

// JobHandler は求人掲示板のHTTPハンドラー。
type JobHandler struct {
	service JobServiceInterface
}

// NewJobHandler はJobHandlerを生成する。
func NewJobHandler(service JobServiceInterface) *JobHandler {
	return &JobHandler{service: service}
}

// postJobRequest は求人掲載リクエストのボディ。
type postJobRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Employer    string `json:"employer"`
	Location    string `json:"location"`
	Salary      string `json:"salary"`
}

// jobResponse は求人のAPIレスポンス。
type jobResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Employer    string    `json:"employer"`
	Location    string    `json:"location"`
	Salary      string    `json:"salary"`
	PosterFirst string    `json:"poster_first"`
	PosterLast  string    `json:"poster_last"`
	CreatedAt   time.Time `json:"created_at"`
}

// Post は求人を掲載する。
// POST /api/jobs
func (h *JobHandler) Post(w http.ResponseWriter, r *http.Request) {
	username, err := middleware.UsernameFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	var req postJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestResponse(w)
		return
	}

	if req.Title == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "求人タイトルは必須です。",
			Category: "validation",
			Action:   "titleを指定してください。",
		})
		return
	}

	created, err := h.service.Post(r.Context(), username, job.PostInput{
		Title:       req.Title,
		Description: req.Description,
		Employer:    req.Employer,
		Location:    req.Location,
		Salary:      req.Salary,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toJobResponse(created))
}

// List は掲載中の求人一覧を返す。
// GET /api/jobs
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]jobResponse, 0, len(jobs))
	for _, j := range jobs {
		responses = append(responses, toJobResponse(j))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]jobResponse{"jobs": responses})
}

// Delete は指定IDの求人を削除する。
// DELETE /api/jobs/{id}
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.UsernameFromContext(r.Context()); err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toJobResponse はmodel.JobからAPIレスポンスに変換する。
func toJobResponse(j *model.Job) jobResponse {
	return jobResponse{
		ID:          j.ID,
		Title:       j.Title,
		Description: j.Description,
		Employer:    j.Employer,
		Location:    j.Location,
		Salary:      j.Salary,
		PosterFirst: j.PosterFirst,
		PosterLast:  j.PosterLast,
		CreatedAt:   j.CreatedAt,
	}
}
