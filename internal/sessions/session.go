package sessions

import "time"

// Session represents a persistent refresh session stored in MongoDB
type Session struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	RefreshToken string    `bson:"refresh_token" json:"refresh_token"`
	EditorID     string    `bson:"editor_id" json:"editor_id"`
	ExpiresAt    time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}
