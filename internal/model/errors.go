// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, network, profile, capacity, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUsernameTaken          = "USERNAME_TAKEN"
	ErrCodeAccountNotFound        = "ACCOUNT_NOT_FOUND"
	ErrCodeSignupLimit            = "SIGNUP_LIMIT"
	ErrCodeLoginFailed            = "LOGIN_FAILED"
	ErrCodeWeakPassword           = "WEAK_PASSWORD"
	ErrCodeDuplicateFriendRequest = "DUPLICATE_FRIEND_REQUEST"
	ErrCodeFriendRequestNotFound  = "FRIEND_REQUEST_NOT_FOUND"
	ErrCodeAlreadyFriends         = "ALREADY_FRIENDS"
	ErrCodeFriendshipNotFound     = "FRIENDSHIP_NOT_FOUND"
	ErrCodeProfileNotFound        = "PROFILE_NOT_FOUND"
	ErrCodeExperienceLimit        = "EXPERIENCE_LIMIT"
	ErrCodeJobNotFound            = "JOB_NOT_FOUND"
	ErrCodeJobLimit               = "JOB_LIMIT"
	ErrCodeCSRFTokenInvalid       = "CSRF_TOKEN_INVALID"
)

// NewUsernameTakenError はユーザー名重複エラーを生成する。
func NewUsernameTakenError(username string) *APIError {
	return &APIError{
		Code:     ErrCodeUsernameTaken,
		Message:  fmt.Sprintf("このユーザー名は既に使用されています: %s", username),
		Category: "validation",
		Action:   "別のユーザー名を入力してください。",
	}
}

// NewAccountNotFoundError はアカウント未検出エラーを生成する。
func NewAccountNotFoundError(username string) *APIError {
	return &APIError{
		Code:     ErrCodeAccountNotFound,
		Message:  fmt.Sprintf("指定されたアカウントが見つかりません: %s", username),
		Category: "auth",
		Action:   "ユーザー名を確認してください。",
	}
}

// NewSignupLimitError はアカウント数上限エラーを生成する。
// 上限到達は恒久的な失敗ではなく、空きが出れば再登録できる。
func NewSignupLimitError(limit int) *APIError {
	return &APIError{
		Code:     ErrCodeSignupLimit,
		Message:  fmt.Sprintf("アカウント数が上限（%d件）に達しています。", limit),
		Category: "capacity",
		Action:   "登録可能枠が空くまでお待ちください。",
	}
}

// NewLoginFailedError はログイン失敗エラーを生成する。
// ユーザー名不存在とパスワード不一致を区別しない。
func NewLoginFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeLoginFailed,
		Message:  "ユーザー名またはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewWeakPasswordError はパスワードポリシー違反エラーを生成する。
func NewWeakPasswordError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeWeakPassword,
		Message:  fmt.Sprintf("パスワードが要件を満たしていません: %s", reason),
		Category: "validation",
		Action:   "8〜12文字で、大文字・数字・特殊文字を各1文字以上含めてください。",
	}
}

// NewDuplicateFriendRequestError は友達リクエスト重複エラーを生成する。
func NewDuplicateFriendRequestError(recipient string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateFriendRequest,
		Message:  fmt.Sprintf("このユーザーへのリクエストは既に送信済みです: %s", recipient),
		Category: "network",
		Action:   "相手の承認をお待ちください。",
	}
}

// NewFriendRequestNotFoundError は友達リクエスト未検出エラーを生成する。
func NewFriendRequestNotFoundError(requester string) *APIError {
	return &APIError{
		Code:     ErrCodeFriendRequestNotFound,
		Message:  fmt.Sprintf("指定されたユーザーからの友達リクエストが見つかりません: %s", requester),
		Category: "network",
		Action:   "保留中のリクエスト一覧を確認してください。",
	}
}

// NewAlreadyFriendsError は友達関係重複エラーを生成する。
func NewAlreadyFriendsError(friend string) *APIError {
	return &APIError{
		Code:     ErrCodeAlreadyFriends,
		Message:  fmt.Sprintf("このユーザーとは既に友達です: %s", friend),
		Category: "network",
		Action:   "友達一覧を確認してください。",
	}
}

// NewFriendshipNotFoundError は友達関係未検出エラーを生成する。
func NewFriendshipNotFoundError(friend string) *APIError {
	return &APIError{
		Code:     ErrCodeFriendshipNotFound,
		Message:  fmt.Sprintf("このユーザーとの友達関係が見つかりません: %s", friend),
		Category: "network",
		Action:   "友達一覧を確認してください。",
	}
}

// NewProfileNotFoundError はプロフィール未検出エラーを生成する。
func NewProfileNotFoundError(username string) *APIError {
	return &APIError{
		Code:     ErrCodeProfileNotFound,
		Message:  fmt.Sprintf("指定されたユーザーのプロフィールが見つかりません: %s", username),
		Category: "profile",
		Action:   "プロフィールを作成してください。",
	}
}

// NewExperienceLimitError は職歴エントリ数上限エラーを生成する。
// 登録済みエントリはコミット済みのまま残る。致命的エラーではない。
func NewExperienceLimitError(limit int) *APIError {
	return &APIError{
		Code:     ErrCodeExperienceLimit,
		Message:  fmt.Sprintf("職歴の登録数が上限（%d件）に達しています。", limit),
		Category: "capacity",
		Action:   "不要な職歴を削除してから新しい職歴を登録してください。",
	}
}

// NewJobNotFoundError は求人未検出エラーを生成する。
func NewJobNotFoundError(jobID string) *APIError {
	return &APIError{
		Code:     ErrCodeJobNotFound,
		Message:  fmt.Sprintf("指定された求人が見つかりません: %s", jobID),
		Category: "validation",
		Action:   "求人IDを確認してください。",
	}
}

// NewCSRFTokenInvalidError はCSRFトークン検証失敗エラーを生成する。
// 欠落・不一致の詳細はログのみに記録し、クライアントには区別を伝えない。
func NewCSRFTokenInvalidError() *APIError {
	return &APIError{
		Code:     ErrCodeCSRFTokenInvalid,
		Message:  "CSRFトークンの検証に失敗しました。",
		Category: "auth",
		Action:   "ページを再読み込みして再度お試しください。",
	}
}

// NewJobLimitError は求人数上限エラーを生成する。
func NewJobLimitError(limit int) *APIError {
	return &APIError{
		Code:     ErrCodeJobLimit,
		Message:  fmt.Sprintf("求人の掲載数が上限（%d件）に達しています。", limit),
		Category: "capacity",
		Action:   "掲載枠が空くまでお待ちください。",
	}
}
