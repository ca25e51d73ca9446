package model

import "time"

type UserSettings struct {
	UserID        string
	CanvasURL     *string
	CanvasToken   *string
	TokenLabel    *string
	SyncEnabled   bool
	NotifyOnGrade bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Profile struct {
	UserID      string
	DisplayName *string
	Bio         *string
	AvatarURL   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
