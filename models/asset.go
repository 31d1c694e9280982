package models

import "time"

// Asset representa um imóvel tokenizado em cotas de propriedade fracionada.
type Asset struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`                       // Ex: "Ed. Solar da Praia, unidade 402"
	OracleRef      string    `json:"oracle_ref" db:"oracle_ref"`           // Endereço (Base58) da conta do feed de preço na Solana
	Valuation      int64     `json:"valuation" db:"valuation"`             // Avaliação corrente; sempre substituída por inteiro, nunca derivada
	IncomeReceived int64     `json:"income_received" db:"income_received"` // Acumulador monotônico de toda renda já creditada
	Escrowed       int64     `json:"escrowed" db:"escrowed"`               // Parcela da renda creditada ainda não entregue aos cotistas
	TotalShares    int64     `json:"total_shares" db:"total_shares"`       // Quantidade total de cotas, fixada na tokenização
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
