package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/autlan/recolecta/internal/core/domain"
)

// ArticleRepo implements ports.ArticleRepository.
type ArticleRepo struct {
	db *DB
}

func NewArticleRepo(db *DB) *ArticleRepo { return &ArticleRepo{db: db} }

const articleColumns = `id, titulo, resumen, contenido, autor, categoria, fecha_publicacion,
	COALESCE(imagen, ''), published, created_at, updated_at`

func scanArticle(row pgx.Row) (domain.Article, error) {
	var a domain.Article
	err := row.Scan(&a.ID, &a.Title, &a.Summary, &a.Body, &a.Author, &a.Category,
		&a.PublishedAt, &a.Image, &a.Published, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *ArticleRepo) List(ctx context.Context, publishedOnly bool) ([]domain.Article, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+articleColumns+` FROM articulos
		WHERE published OR NOT $1
		ORDER BY COALESCE(fecha_publicacion, created_at) DESC
	`, publishedOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *ArticleRepo) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	a, err := scanArticle(r.db.Pool.QueryRow(ctx, `SELECT `+articleColumns+` FROM articulos WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *ArticleRepo) Create(ctx context.Context, a *domain.Article) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO articulos (titulo, resumen, contenido, autor, categoria, fecha_publicacion, imagen, published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, a.Title, a.Summary, a.Body, a.Author, a.Category, a.PublishedAt, nullIfEmpty(a.Image), a.Published,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return translate(err)
}

func (r *ArticleRepo) Update(ctx context.Context, a *domain.Article) error {
	err := r.db.Pool.QueryRow(ctx, `
		UPDATE articulos
		SET titulo = $2, resumen = $3, contenido = $4, autor = $5, categoria = $6,
		    fecha_publicacion = $7, imagen = $8, published = $9, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, a.ID, a.Title, a.Summary, a.Body, a.Author, a.Category, a.PublishedAt, nullIfEmpty(a.Image), a.Published,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	return translate(err)
}

func (r *ArticleRepo) Delete(ctx context.Context, id string) error {
	return affected(r.db.Pool.Exec(ctx, `DELETE FROM articulos WHERE id = $1`, id))
}
