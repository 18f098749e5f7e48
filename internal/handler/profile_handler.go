package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/campuslink/internal/middleware"
	"github.com/hitoshi/campuslink/internal/model"
	"github.com/hitoshi/campuslink/internal/profile"
)

// ProfileServiceInterface はプロフィールハンドラーが必要とするサービスインターフェース。
type ProfileServiceInterface interface {
	// Upsert はプロフィール・学歴・職歴をまとめてcreate-or-merge保存する。
	Upsert(ctx context.Context, username string, input profile.UpsertInput) (*profile.UpsertResult, error)
	// Get は結合済みの読み取りビューを返す。
	Get(ctx context.Context, username string) (*profile.View, error)
	// AddExperience は職歴エントリを1件追加する。
	AddExperience(ctx context.Context, username string, input profile.ExperienceInput) (*model.Experience, error)
	// DeleteProfile はプロフィールを削除する。
	DeleteProfile(ctx context.Context, username string) error
	// DeleteEducation は学歴を削除する。
	DeleteEducation(ctx context.Context, username string) error
	// DeleteExperience は指定IDの職歴を削除する。
	DeleteExperience(ctx context.Context, username, id string) error
}

// ProfileHandler はプロフィール管理のHTTPハンドラー。
type ProfileHandler struct {
	service ProfileServiceInterface
}

// NewProfileHandler はProfileHandlerを生成する。
func NewProfileHandler(service ProfileServiceInterface) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// experienceRequest は職歴エントリの入力ボディ。
type experienceRequest struct {
	Title       string `json:"title"`
	Employer    string `json:"employer"`
	DateStarted string `json:"date_started"`
	DateEnded   string `json:"date_ended"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// upsertProfileRequest はプロフィールupsertのボディ。
// 空のフィールドは更新時に「変更しない」を意味する。
type upsertProfileRequest struct {
	University    string              `json:"university"`
	Major         string              `json:"major"`
	Title         string              `json:"title"`
	AboutMe       string              `json:"about_me"`
	Degree        string              `json:"degree"`
	YearsAttended string              `json:"years_attended"`
	Experiences   []experienceRequest `json:"experiences"`
}

// upsertProfileResponse はupsert結果のAPIレスポンス。
type upsertProfileResponse struct {
	ProfileCreated         bool `json:"profile_created"`
	EducationCreated       bool `json:"education_created"`
	ExperiencesAdded       int  `json:"experiences_added"`
	ExperienceLimitReached bool `json:"experience_limit_reached"`
}

// profileResponse はプロフィール本体のAPIレスポンス。
type profileResponse struct {
	University string `json:"university"`
	Major      string `json:"major"`
	Title      string `json:"title"`
	AboutMe    string `json:"about_me"`
}

// educationResponse は学歴のAPIレスポンス。
type educationResponse struct {
	SchoolName    string `json:"school_name"`
	Degree        string `json:"degree"`
	YearsAttended string `json:"years_attended"`
}

// experienceResponse は職歴エントリのAPIレスポンス。
type experienceResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Employer    string `json:"employer"`
	DateStarted string `json:"date_started"`
	DateEnded   string `json:"date_ended"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// profileViewResponse は結合済み読み取りビューのAPIレスポンス。
type profileViewResponse struct {
	Username    string               `json:"username"`
	Profile     profileResponse      `json:"profile"`
	Education   *educationResponse   `json:"education"`
	Experiences []experienceResponse `json:"experiences"`
}

// Upsert は自分のプロフィールをcreate-or-merge保存する。
// PUT /api/profiles/me
func (h *ProfileHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	username, err := middleware.UsernameFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	var req upsertProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestResponse(w)
		return
	}

	input := profile.UpsertInput{
		University:    req.University,
		Major:         req.Major,
		Title:         req.Title,
		AboutMe:       req.AboutMe,
		Degree:        req.Degree,
		YearsAttended: req.YearsAttended,
	}
	for _, exp := range req.Experiences {
		input.Experiences = append(input.Experiences, toExperienceInput(exp))
	}

	result, err := h.service.Upsert(r.Context(), username, input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	statusCode := http.StatusOK
	if result.ProfileCreated {
		statusCode = http.StatusCreated
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(upsertProfileResponse{
		ProfileCreated:         result.ProfileCreated,
		EducationCreated:       result.EducationCreated,
		ExperiencesAdded:       result.ExperiencesAdded,
		ExperienceLimitReached: result.ExperienceLimitReached,
	})
}

// Get は指定ユーザーのプロフィールビューを返す。
// GET /api/profiles/{username}
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	view, err := h.service.Get(r.Context(), username)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toProfileViewResponse(view))
}

// AddExperience は職歴エントリを1件追加する。
// POST /api/profiles/me/experiences
func (h *ProfileHandler) AddExperience(w http.ResponseWriter, r *http.Request) {
	username, err := middleware.UsernameFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	var req experienceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestResponse(w)
		return
	}

	created, err := h.service.AddExperience(r.Context(), username, toExperienceInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toExperienceResponse(created))
}

// DeleteProfile は自分のプロフィールを削除する。学歴・職歴には影響しない。
// DELETE /api/profiles/me
func (h *ProfileHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	username, err := middleware.UsernameFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	if err := h.service.DeleteProfile(r.Context(), username); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteEducation は自分の学歴を削除する。
// DELETE /api/profiles/me/education
func (h *ProfileHandler) DeleteEducation(w http.ResponseWriter, r *http.Request) {
	username, err := middleware.UsernameFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	if err := h.service.DeleteEducation(r.Context(), username); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteExperience は自分の指定IDの職歴を削除する。
// DELETE /api/profiles/me/experiences/{id}
func (h *ProfileHandler) DeleteExperience(w http.ResponseWriter, r *http.Request) {
	username, err := middleware.UsernameFromContext(r.Context())
	if err != nil {
		writeUnauthorizedResponse(w)
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.service.DeleteExperience(r.Context(), username, id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- ヘルパー関数 ---

// toExperienceInput はリクエストボディからドメイン入力に変換する。
func toExperienceInput(req experienceRequest) profile.ExperienceInput {
	return profile.ExperienceInput{
		Title:       req.Title,
		Employer:    req.Employer,
		DateStarted: req.DateStarted,
		DateEnded:   req.DateEnded,
		Location:    req.Location,
		Description: req.Description,
	}
}

// toExperienceResponse はmodel.ExperienceからAPIレスポンスに変換する。
func toExperienceResponse(exp *model.Experience) experienceResponse {
	return experienceResponse{
		ID:          exp.ID,
		Title:       exp.Title,
		Employer:    exp.Employer,
		DateStarted: exp.DateStarted,
		DateEnded:   exp.DateEnded,
		Location:    exp.Location,
		Description: exp.Description,
	}
}

// toProfileViewResponse はprofile.ViewからAPIレスポンスに変換する。
func toProfileViewResponse(view *profile.View) profileViewResponse {
	resp := profileViewResponse{
		Username: view.Username,
		Profile: profileResponse{
			University: view.Profile.University,
			Major:      view.Profile.Major,
			Title:      view.Profile.Title,
			AboutMe:    view.Profile.AboutMe,
		},
		Experiences: make([]experienceResponse, 0, len(view.Experiences)),
	}

	if view.Education != nil {
		resp.Education = &educationResponse{
			SchoolName:    view.Education.SchoolName,
			Degree:        view.Education.Degree,
			YearsAttended: view.Education.YearsAttended,
		}
	}

	for _, exp := range view.Experiences {
		resp.Experiences = append(resp.Experiences, toExperienceResponse(exp))
	}

	return resp
}
