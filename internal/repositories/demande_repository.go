package repositories

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"etatcivil/internal/models"
)

type DemandeRepository interface {
	Create(d *models.Demande) error
	GetByID(id int) (*models.Demande, error)
	GetByNumero(numero string) (*models.Demande, error)
	List(filter models.DemandeFilter, limit, offset int) ([]*models.Demande, error)
	Update(d *models.Demande) error
	UpdateStatus(id int, status models.StatusDemande, motif *string, centreID *int) error
	// AssignAgent sets agent_id on every demande in ids and returns the
	// updated rows. Unknown ids are skipped.
	AssignAgent(agentID int, ids []int) ([]*models.Demande, error)
	// LastNumeroForPrefix returns the highest numero_demande matching
	// prefix+"%", or "" when none exists. Fixed-width zero-padded suffixes
	// make lexicographic and numeric ordering agree.
	LastNumeroForPrefix(prefix string) (string, error)
	Delete(id int) error
}

type demandeRepository struct {
	DB *sql.DB
}

func NewDemandeRepository(db *sql.DB) DemandeRepository {
	return &demandeRepository{DB: db}
}

const demandeColumns = `
	id, client_id, numero_demande, type_document, raison_demande,
	status, centre_id, agent_id, motif_rejet, details, created_at, updated_at`

func (r *demandeRepository) Create(d *models.Demande) error {
	const q = `
		INSERT INTO demandes (
			client_id, numero_demande, type_document, raison_demande,
			status, centre_id, details, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	if err := r.DB.QueryRow(q,
		d.ClientID, d.NumeroDemande, d.TypeDocument, d.RaisonDemande,
		d.Status, d.CentreID, d.Details,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return fmt.Errorf("create demande: %w", err)
	}
	return nil
}

func (r *demandeRepository) scanOne(row *sql.Row) (*models.Demande, error) {
	var d models.Demande
	if err := row.Scan(
		&d.ID, &d.ClientID, &d.NumeroDemande, &d.TypeDocument, &d.RaisonDemande,
		&d.Status, &d.CentreID, &d.AgentID, &d.MotifRejet, &d.Details, &d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get demande: %w", err)
	}
	return &d, nil
}

func (r *demandeRepository) GetByID(id int) (*models.Demande, error) {
	q := `SELECT` + demandeColumns + ` FROM demandes WHERE id = $1`
	return r.scanOne(r.DB.QueryRow(q, id))
}

func (r *demandeRepository) GetByNumero(numero string) (*models.Demande, error) {
	q := `SELECT` + demandeColumns + ` FROM demandes WHERE numero_demande = $1`
	return r.scanOne(r.DB.QueryRow(q, numero))
}

func (r *demandeRepository) List(filter models.DemandeFilter, limit, offset int) ([]*models.Demande, error) {
	q := `SELECT` + demandeColumns + ` FROM demandes WHERE 1=1`
	args := []interface{}{}
	add := func(cond string, v interface{}) {
		args = append(args, v)
		q += fmt.Sprintf(" AND %s = $%d", cond, len(args))
	}
	if filter.ClientID != nil {
		add("client_id", *filter.ClientID)
	}
	if filter.Status != nil {
		add("status", *filter.Status)
	}
	if filter.TypeDocument != nil {
		add("type_document", *filter.TypeDocument)
	}
	if len(filter.TypesDocuments) > 0 {
		types := make([]string, len(filter.TypesDocuments))
		for i, t := range filter.TypesDocuments {
			types[i] = string(t)
		}
		args = append(args, pq.Array(types))
		q += fmt.Sprintf(" AND type_document = ANY($%d)", len(args))
	}
	if filter.CentreID != nil {
		add("centre_id", *filter.CentreID)
	}
	if filter.AgentID != nil {
		add("agent_id", *filter.AgentID)
	}
	args = append(args, limit, offset)
	q += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list demandes: %w", err)
	}
	defer rows.Close()

	return scanDemandes(rows)
}

func scanDemandes(rows *sql.Rows) ([]*models.Demande, error) {
	var res []*models.Demande
	for rows.Next() {
		var d models.Demande
		if err := rows.Scan(
			&d.ID, &d.ClientID, &d.NumeroDemande, &d.TypeDocument, &d.RaisonDemande,
			&d.Status, &d.CentreID, &d.AgentID, &d.MotifRejet, &d.Details, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, err
		}
		res = append(res, &d)
	}
	return res, rows.Err()
}

func (r *demandeRepository) Update(d *models.Demande) error {
	const q = `
		UPDATE demandes
		SET raison_demande = $1, details = $2, updated_at = NOW()
		WHERE id = $3
	`
	if _, err := r.DB.Exec(q, d.RaisonDemande, d.Details, d.ID); err != nil {
		return fmt.Errorf("update demande: %w", err)
	}
	return nil
}

func (r *demandeRepository) UpdateStatus(id int, status models.StatusDemande, motif *string, centreID *int) error {
	const q = `
		UPDATE demandes
		SET status = $2,
		    motif_rejet = COALESCE($3, motif_rejet),
		    centre_id = COALESCE($4, centre_id),
		    updated_at = NOW()
		WHERE id = $1
	`
	if _, err := r.DB.Exec(q, id, status, motif, centreID); err != nil {
		return fmt.Errorf("update demande status: %w", err)
	}
	return nil
}

func (r *demandeRepository) AssignAgent(agentID int, ids []int) ([]*models.Demande, error) {
	q := `
		UPDATE demandes
		SET agent_id = $1, updated_at = NOW()
		WHERE id = ANY($2)
		RETURNING` + demandeColumns
	rows, err := r.DB.Query(q, agentID, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("assign agent: %w", err)
	}
	defer rows.Close()
	return scanDemandes(rows)
}

func (r *demandeRepository) LastNumeroForPrefix(prefix string) (string, error) {
	const q = `
		SELECT numero_demande
		FROM demandes
		WHERE numero_demande LIKE $1
		ORDER BY numero_demande DESC
		LIMIT 1
	`
	var numero string
	if err := r.DB.QueryRow(q, prefix+"%").Scan(&numero); err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("last numero: %w", err)
	}
	return numero, nil
}

func (r *demandeRepository) Delete(id int) error {
	if _, err := r.DB.Exec(`DELETE FROM demandes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete demande: %w", err)
	}
	return nil
}
