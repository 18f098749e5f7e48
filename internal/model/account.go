// Package model はドメインモデルを定義する。
package model

import "time"

// Account は大学ネットワークの利用者アカウントを表す。
// usernameが一意キー。作成後は削除以外の変更を行わない。
type Account struct {
	Username   string
	Secret     string
	FirstName  string
	LastName   string
	University string
	Major      string
	CreatedAt  time.Time
}

// Session はログインセッションを表す。
type Session struct {
	ID        string
	Username  string
	ExpiresAt time.Time
	CreatedAt time.Time
}
