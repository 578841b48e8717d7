package users

import (
	"time"

	"github.com/google/uuid"
)

// User carries the display fields standings rows are rendered with. Account
// management lives elsewhere; this service only reads these rows.
type User struct {
	ID          uuid.UUID `db:"id"`
	DisplayName string    `db:"display_name"`
	AvatarURL   *string   `db:"avatar_url"`
	CreatedAt   time.Time `db:"created_at"`
}
