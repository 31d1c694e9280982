package models

// Holding representa as cotas de um ativo em posse de um cotista.
// Registros com Shares == 0 nunca são armazenados; são removidos pelo
// colaborador externo de transferência.
type Holding struct {
	AssetID  string `json:"asset_id" db:"asset_id"`
	HolderID string `json:"holder_id" db:"holder_id"`
	Shares   int64  `json:"shares" db:"shares"`
}
