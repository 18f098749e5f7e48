// Package validation は入力値の検証ルールを提供する。
package validation

import "unicode"

// パスワードポリシーの境界値。
const (
	passwordMinLength = 8
	passwordMaxLength = 12
)

// ValidatePassword はパスワードがポリシーを満たすかを検証する。
// ポリシー: 8〜12文字、大文字・数字・特殊文字を各1文字以上含むこと。
// 違反がある場合は理由を表す文字列とfalseを返す。
func ValidatePassword(password string) (string, bool) {
	runes := []rune(password)
	if len(runes) < passwordMinLength || len(runes) > passwordMaxLength {
		return "文字数は8〜12文字である必要があります", false
	}

	var hasUpper, hasDigit, hasSpecial bool
	for _, r := range runes {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if !hasUpper {
		return "大文字が含まれていません", false
	}
	if !hasDigit {
		return "数字が含まれていません", false
	}
	if !hasSpecial {
		return "特殊文字が含まれていません", false
	}

	return "", true
}
