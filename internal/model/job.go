// Package model はドメインモデルを定義する。
package model

import "time"

// Job は求人情報を表す。件数はJOB_LIMITで上限が課される。
type Job struct {
	ID          string
	Title       string
	Description string
	Employer    string
	Location    string
	Salary      string
	PosterFirst string
	PosterLast  string
	CreatedAt   time.Time
}
