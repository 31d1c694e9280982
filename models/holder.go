package models

import "time"

// Holder representa um cotista habilitado a receber repasses de renda.
type Holder struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	SolanaPubKey string    `json:"solana_pub_key" db:"solana_pub_key"` // Chave pública para onde os repasses são enviados
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
