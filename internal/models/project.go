package models

// Project groups a user's stored prompts. Prompts are append-only and keep
// insertion order; only the owner may add to them.
type Project struct {
	ID      int64    `json:"id"`
	OwnerID int64    `json:"ownerId"`
	Name    string   `json:"name"`
	Prompts []string `json:"prompts"`
}
