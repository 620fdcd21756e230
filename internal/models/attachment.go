package models

import "time"

// Attachment is an uploaded file record belonging to a complaint. The row
// points at the stored file on disk; both are removed when the owning
// complaint is deleted.
type Attachment struct {
	ID           string    `bson:"_id" json:"id"`
	ComplaintID  string    `bson:"complaint_id" json:"complaint_id"`
	Filename     string    `bson:"filename" json:"filename"`
	OriginalName string    `bson:"original_name" json:"original_name"`
	MimeType     string    `bson:"mimetype" json:"mimetype"`
	Size         int64     `bson:"size" json:"size"`
	Path         string    `bson:"path" json:"path"`
	UploadedBy   uint      `bson:"uploaded_by" json:"uploaded_by"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}
