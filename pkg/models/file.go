package models

import "time"

// FileAttachment is a file stored against a money location. Data holds the
// raw payload; listings omit it and only download loads it back.
type FileAttachment struct {
	FileID          string    `json:"file_id"`
	UserID          string    `json:"user_id"`
	MoneyLocationID string    `json:"money_location_id"`
	OriginalName    string    `json:"original_name"`
	FileName        string    `json:"file_name"`
	Size            int64     `json:"file_size"`
	MimeType        string    `json:"mime_type"`
	UploadedAt      time.Time `json:"uploaded_at"`
	Data            []byte    `json:"-"`
}
