package domain

import (
	"errors"
	"time"
)

var ErrClientNotFound = errors.New("client not found")

// Client is a customer organization. Records are never hard-deleted;
// deactivation flips IsActive instead.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Document  string    `json:"document,omitempty"`
	Address   string    `json:"address,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
