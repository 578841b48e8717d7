package bracket

import (
	"time"

	"github.com/google/uuid"
)

type Tournament struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	Season    string    `db:"season"`
	Sport     string    `db:"sport"`
	CreatedAt time.Time `db:"created_at"`
}
