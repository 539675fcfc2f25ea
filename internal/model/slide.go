package model

import "time"

// Slide is an admin-managed slideshow image shown on the public homepage.
// UploadedBy is a soft reference to the uploading admin's ID; deleting that
// admin leaves the slide in place.
type Slide struct {
	ID         int64     `json:"id" db:"id"`
	ImageURL   string    `json:"image_url" db:"image_url"`
	Caption    string    `json:"caption" db:"caption"`
	UploadedBy int64     `json:"uploaded_by" db:"uploaded_by"`
	IsActive   bool      `json:"is_active" db:"is_active"`
	UploadedAt time.Time `json:"uploaded_at" db:"uploaded_at"`
}

// HeroImage is the single banner image on the public landing page. The portal
// keeps at most one row; POST /api/hero replaces it.
type HeroImage struct {
	ID       int64  `json:"id" db:"id"`
	ImageURL string `json:"image_url" db:"image_url"`
}
