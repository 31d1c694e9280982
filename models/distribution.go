package models

// PendingPayout é uma parcela de repasse ainda devida a um cotista após
// uma distribuição parcialmente falha.
type PendingPayout struct {
	AssetID  string `json:"asset_id" db:"asset_id"`
	HolderID string `json:"holder_id" db:"holder_id"`
	Amount   int64  `json:"amount" db:"amount"`
}

// PendingDistribution guarda o estado de uma distribuição interrompida por
// falhas de repasse: o valor original e as parcelas ainda devidas. Uma nova
// chamada de distribuição com o mesmo valor retoma exatamente estas parcelas.
type PendingDistribution struct {
	AssetID string          `json:"asset_id" db:"asset_id"`
	Amount  int64           `json:"amount" db:"amount"` // Valor original da distribuição interrompida
	Owed    []PendingPayout `json:"owed"`
}
