// Package model はドメインモデルを定義する。
package model

import "time"

// Profile はアカウントごとのプロフィールを表す。usernameにつき1件。
type Profile struct {
	Username   string
	University string
	Major      string
	Title      string
	AboutMe    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Education はアカウントごとの学歴を表す。usernameにつき1件（create-or-replace）。
type Education struct {
	Username      string
	SchoolName    string
	Degree        string
	YearsAttended string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Experience は職歴エントリを表す。usernameにつき0〜N件。
// 件数はEXPERIENCE_LIMITで上限が課される。
type Experience struct {
	ID          string
	Username    string
	Title       string
	Employer    string
	DateStarted string
	DateEnded   string
	Location    string
	Description string
	CreatedAt   time.Time
}
