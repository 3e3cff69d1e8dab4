package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/kianfelka-ship-it/D-ngerechner-Resp/internal/domain"
)

// Store persists the product catalog and user-saved recipes in SQLite.
type Store struct {
	db *sqlx.DB
}

func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys=ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
CREATE TABLE IF NOT EXISTS products (
  name TEXT PRIMARY KEY,
  unit TEXT NOT NULL DEFAULT 'ml',
  ec_per_unit REAL NOT NULL DEFAULT 0,
  composition_json TEXT NOT NULL DEFAULT '{}'
);
CREATE TABLE IF NOT EXISTS recipes (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  doses_json TEXT NOT NULL DEFAULT '[]',
  created_at TEXT NOT NULL
);
`
	_, err := s.db.Exec(schema)
	return err
}

type productRow struct {
	Name            string  `db:"name"`
	Unit            string  `db:"unit"`
	ECPerUnit       float64 `db:"ec_per_unit"`
	CompositionJSON string  `db:"composition_json"`
}

func (r productRow) fertilizer() domain.Fertilizer {
	f := domain.Fertilizer{Name: r.Name, Unit: r.Unit, ECPerUnit: r.ECPerUnit}
	_ = json.Unmarshal([]byte(r.CompositionJSON), &f.Composition)
	return f
}

func (s *Store) CountProducts() (int, error) {
	var n int
	err := s.db.Get(&n, `SELECT COUNT(*) FROM products`)
	return n, err
}

// SeedProducts inserts the initial catalog without duplicating by name.
func (s *Store) SeedProducts(items domain.Catalog) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, f := range items {
		comp, _ := json.Marshal(f.Composition)
		if _, err := tx.Exec(`
INSERT OR IGNORE INTO products (name, unit, ec_per_unit, composition_json)
VALUES (?, ?, ?, ?)
`, f.Name, f.Unit, f.ECPerUnit, string(comp)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) CreateProduct(f domain.Fertilizer) error {
	comp, _ := json.Marshal(f.Composition)
	_, err := s.db.Exec(`
INSERT INTO products (name, unit, ec_per_unit, composition_json)
VALUES (?, ?, ?, ?)
`, f.Name, f.Unit, f.ECPerUnit, string(comp))
	return err
}

func (s *Store) GetProduct(name string) (domain.Fertilizer, bool, error) {
	var row productRow
	err := s.db.Get(&row, `SELECT name, unit, ec_per_unit, composition_json FROM products WHERE name = ?`, name)
	if err == sql.ErrNoRows {
		return domain.Fertilizer{}, false, nil
	}
	if err != nil {
		return domain.Fertilizer{}, false, err
	}
	return row.fertilizer(), true, nil
}

func (s *Store) DeleteProduct(name string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM products WHERE name = ?`, name)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

// Catalog returns all products in insertion order, which the engine treats as
// the canonical catalog order.
func (s *Store) Catalog() (domain.Catalog, error) {
	var rows []productRow
	if err := s.db.Select(&rows, `SELECT name, unit, ec_per_unit, composition_json FROM products ORDER BY rowid`); err != nil {
		return nil, err
	}
	out := make(domain.Catalog, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.fertilizer())
	}
	return out, nil
}

type recipeRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	DosesJSON string `db:"doses_json"`
	CreatedAt string `db:"created_at"`
}

func (r recipeRow) recipe() domain.Recipe {
	rec := domain.Recipe{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt}
	_ = json.Unmarshal([]byte(r.DosesJSON), &rec.Doses)
	return rec
}

func (s *Store) SaveRecipe(name string, doses []domain.ProductDose) (domain.Recipe, error) {
	rec := domain.Recipe{
		ID:        uuid.NewString(),
		Name:      name,
		Doses:     doses,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	dj, _ := json.Marshal(doses)
	_, err := s.db.Exec(`
INSERT INTO recipes (id, name, doses_json, created_at) VALUES (?, ?, ?, ?)
`, rec.ID, rec.Name, string(dj), rec.CreatedAt)
	return rec, err
}

func (s *Store) ListRecipes() ([]domain.Recipe, error) {
	var rows []recipeRow
	if err := s.db.Select(&rows, `SELECT id, name, doses_json, created_at FROM recipes ORDER BY created_at, id`); err != nil {
		return nil, err
	}
	out := make([]domain.Recipe, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.recipe())
	}
	return out, nil
}

func (s *Store) GetRecipe(id string) (domain.Recipe, bool, error) {
	var row recipeRow
	err := s.db.Get(&row, `SELECT id, name, doses_json, created_at FROM recipes WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return domain.Recipe{}, false, nil
	}
	if err != nil {
		return domain.Recipe{}, false, err
	}
	return row.recipe(), true, nil
}

func (s *Store) DeleteRecipe(id string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}
