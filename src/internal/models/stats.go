package models

type Stats struct {
	Admins       int64   `json:"admins"`
	Users        int64   `json:"users"`
	Records      int64   `json:"records"`
	TotalSeconds float64 `json:"totalSeconds"`
}
