package models

import "time"

// OracleSample é uma amostra de avaliação lida de um feed de preço externo.
type OracleSample struct {
	Value      int64     `json:"value"`
	ObservedAt time.Time `json:"observed_at"`
	Confidence uint64    `json:"confidence"`
}
