package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/ferreirogomes/imotok/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
)

// DB representa a conexão com o banco de dados PostgreSQL.
type DB struct {
	*sqlx.DB
}

// NewDB conecta-se ao PostgreSQL e executa as migrações.
func NewDB(dataSourceName string) (*DB, error) {
	db, err := sqlx.Connect("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar ao banco de dados: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("falha ao pingar o banco de dados: %w", err)
	}
	log.Println("Conexão com PostgreSQL estabelecida com sucesso.")

	if err := runMigrations(db.DB); err != nil {
		return nil, fmt.Errorf("falha ao executar migrações: %w", err)
	}

	return &DB{db}, nil
}

// runMigrations executa as migrações usando sql-migrate.
func runMigrations(db *sql.DB) error {
	migrations := &migrate.FileMigrationSource{
		Dir: "./storage/migrations",
	}

	n, err := migrate.Exec(db, "postgres", migrations, migrate.Up)
	if err != nil {
		return fmt.Errorf("erro ao aplicar migrações: %w", err)
	}
	if n > 0 {
		log.Printf("Aplicadas %d migrações ao banco de dados.", n)
	} else {
		log.Println("Nenhuma migração nova para aplicar.")
	}
	return nil
}

// SaveAsset insere um ativo; o id é imutável, então conflitos atualizam
// apenas os campos mutáveis de escrituração.
func (d *DB) SaveAsset(asset models.Asset) error {
	query := `INSERT INTO assets (id, name, oracle_ref, valuation, income_received, escrowed, total_shares, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          ON CONFLICT (id) DO UPDATE SET valuation = $4, income_received = $5, escrowed = $6`
	_, err := d.Exec(query, asset.ID, asset.Name, asset.OracleRef, asset.Valuation,
		asset.IncomeReceived, asset.Escrowed, asset.TotalShares, asset.CreatedAt)
	if err != nil {
		return fmt.Errorf("falha ao salvar ativo: %w", err)
	}
	return nil
}

// GetAsset busca um ativo pelo ID.
func (d *DB) GetAsset(id string) (models.Asset, bool, error) {
	var asset models.Asset
	err := d.Get(&asset, `SELECT * FROM assets WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Asset{}, false, nil
	}
	if err != nil {
		return models.Asset{}, false, fmt.Errorf("falha ao buscar ativo: %w", err)
	}
	return asset, true, nil
}

// UpdateAsset atualiza os campos de escrituração de um ativo existente.
func (d *DB) UpdateAsset(asset models.Asset) error {
	query := `UPDATE assets SET valuation = $1, income_received = $2, escrowed = $3 WHERE id = $4`
	res, err := d.Exec(query, asset.Valuation, asset.IncomeReceived, asset.Escrowed, asset.ID)
	if err != nil {
		return fmt.Errorf("falha ao atualizar ativo: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("falha ao atualizar ativo %s: %w", asset.ID, models.ErrUnknownAsset)
	}
	return nil
}

// ListAssets retorna todos os ativos em ordem de ID.
func (d *DB) ListAssets() ([]models.Asset, error) {
	var assets []models.Asset
	if err := d.Select(&assets, `SELECT * FROM assets ORDER BY id ASC`); err != nil {
		return nil, fmt.Errorf("falha ao listar ativos: %w", err)
	}
	return assets, nil
}

// SaveHolding grava as cotas de um cotista. Registros zerados são removidos,
// nunca armazenados.
func (d *DB) SaveHolding(holding models.Holding) error {
	if holding.Shares == 0 {
		_, err := d.Exec(`DELETE FROM holdings WHERE asset_id = $1 AND holder_id = $2`,
			holding.AssetID, holding.HolderID)
		if err != nil {
			return fmt.Errorf("falha ao remover posição zerada: %w", err)
		}
		return nil
	}
	query := `INSERT INTO holdings (asset_id, holder_id, shares)
	          VALUES ($1, $2, $3)
	          ON CONFLICT (asset_id, holder_id) DO UPDATE SET shares = $3`
	_, err := d.Exec(query, holding.AssetID, holding.HolderID, holding.Shares)
	if err != nil {
		return fmt.Errorf("falha ao salvar posição: %w", err)
	}
	return nil
}

// GetHoldingsByAssetID retorna as posições de um ativo em ordem de cotista,
// garantindo ordem de pagamento reprodutível.
func (d *DB) GetHoldingsByAssetID(assetID string) ([]models.Holding, error) {
	var holdings []models.Holding
	err := d.Select(&holdings, `SELECT * FROM holdings WHERE asset_id = $1 ORDER BY holder_id ASC`, assetID)
	if err != nil {
		return nil, fmt.Errorf("falha ao buscar posições: %w", err)
	}
	return holdings, nil
}

// SaveHolder insere ou atualiza um cotista.
func (d *DB) SaveHolder(holder models.Holder) error {
	query := `INSERT INTO holders (id, name, email, solana_pub_key, created_at)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (id) DO UPDATE SET name = $2, email = $3, solana_pub_key = $4`
	_, err := d.Exec(query, holder.ID, holder.Name, holder.Email, holder.SolanaPubKey, holder.CreatedAt)
	if err != nil {
		return fmt.Errorf("falha ao salvar cotista: %w", err)
	}
	return nil
}

// GetHolder busca um cotista pelo ID.
func (d *DB) GetHolder(id string) (models.Holder, bool, error) {
	var holder models.Holder
	err := d.Get(&holder, `SELECT * FROM holders WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Holder{}, false, nil
	}
	if err != nil {
		return models.Holder{}, false, fmt.Errorf("falha ao buscar cotista: %w", err)
	}
	return holder, true, nil
}

// SavePendingDistribution substitui o estado pendente de distribuição de um
// ativo de forma transacional: cabeçalho e parcelas devidas sempre coerentes.
func (d *DB) SavePendingDistribution(pending models.PendingDistribution) error {
	tx, err := d.Beginx()
	if err != nil {
		return fmt.Errorf("falha ao abrir transação: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`DELETE FROM pending_payouts WHERE asset_id = $1`, pending.AssetID)
	if err != nil {
		return fmt.Errorf("falha ao limpar parcelas pendentes: %w", err)
	}
	_, err = tx.Exec(`INSERT INTO pending_distributions (asset_id, amount) VALUES ($1, $2)
	                  ON CONFLICT (asset_id) DO UPDATE SET amount = $2`,
		pending.AssetID, pending.Amount)
	if err != nil {
		return fmt.Errorf("falha ao salvar distribuição pendente: %w", err)
	}
	for _, owed := range pending.Owed {
		_, err = tx.Exec(`INSERT INTO pending_payouts (asset_id, holder_id, amount) VALUES ($1, $2, $3)`,
			pending.AssetID, owed.HolderID, owed.Amount)
		if err != nil {
			return fmt.Errorf("falha ao salvar parcela pendente: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("falha ao confirmar transação: %w", err)
	}
	return nil
}

// GetPendingDistribution busca a distribuição pendente de um ativo, com as
// parcelas devidas em ordem de cotista.
func (d *DB) GetPendingDistribution(assetID string) (models.PendingDistribution, bool, error) {
	var pending models.PendingDistribution
	err := d.Get(&pending, `SELECT asset_id, amount FROM pending_distributions WHERE asset_id = $1`, assetID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.PendingDistribution{}, false, nil
	}
	if err != nil {
		return models.PendingDistribution{}, false, fmt.Errorf("falha ao buscar distribuição pendente: %w", err)
	}
	err = d.Select(&pending.Owed,
		`SELECT * FROM pending_payouts WHERE asset_id = $1 ORDER BY holder_id ASC`, assetID)
	if err != nil {
		return models.PendingDistribution{}, false, fmt.Errorf("falha ao buscar parcelas pendentes: %w", err)
	}
	return pending, true, nil
}

// DeletePendingDistribution remove o estado pendente após a quitação total.
func (d *DB) DeletePendingDistribution(assetID string) error {
	tx, err := d.Beginx()
	if err != nil {
		return fmt.Errorf("falha ao abrir transação: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM pending_payouts WHERE asset_id = $1`, assetID); err != nil {
		return fmt.Errorf("falha ao remover parcelas pendentes: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM pending_distributions WHERE asset_id = $1`, assetID); err != nil {
		return fmt.Errorf("falha ao remover distribuição pendente: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("falha ao confirmar transação: %w", err)
	}
	return nil
}
