package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/repository/ports"
)

const blogColumns = `id, title, excerpt, thumb, date, author, content, created_at, updated_at`

type BlogRepository struct {
	db *sqlx.DB
}

var _ ports.BlogRepository = (*BlogRepository)(nil)

func NewBlogRepo(db *sqlx.DB) *BlogRepository {
	return &BlogRepository{db: db}
}

func (r *BlogRepository) Create(ctx context.Context, blog *domain.Blog) (*domain.Blog, error) {
	query := `
		INSERT INTO blog (title, excerpt, thumb, date, author, content)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + blogColumns
	var stored domain.Blog
	err := r.db.QueryRowxContext(ctx, query, blog.Title, blog.Excerpt, blog.Thumb, blog.Date, blog.Author, blog.Content).StructScan(&stored)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *BlogRepository) Update(ctx context.Context, blog *domain.Blog) (*domain.Blog, error) {
	query := `
		UPDATE blog SET
			title = $2, excerpt = $3, thumb = $4, date = $5, author = $6, content = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + blogColumns
	var stored domain.Blog
	err := r.db.QueryRowxContext(ctx, query, blog.ID, blog.Title, blog.Excerpt, blog.Thumb, blog.Date, blog.Author, blog.Content).StructScan(&stored)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *BlogRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Blog, error) {
	var blog domain.Blog
	if err := r.db.GetContext(ctx, &blog, `SELECT `+blogColumns+` FROM blog WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *BlogRepository) List(ctx context.Context) ([]domain.Blog, error) {
	var blogs []domain.Blog
	if err := r.db.SelectContext(ctx, &blogs, `SELECT `+blogColumns+` FROM blog ORDER BY created_at DESC`); err != nil {
		return nil, err
	}
	return blogs, nil
}

func (r *BlogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blog WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

const galleryColumns = `id, path, object_key, caption, created_at, updated_at`

type GalleryRepository struct {
	db *sqlx.DB
}

var _ ports.GalleryRepository = (*GalleryRepository)(nil)

func NewGalleryRepo(db *sqlx.DB) *GalleryRepository {
	return &GalleryRepository{db: db}
}

func (r *GalleryRepository) Create(ctx context.Context, item *domain.GalleryItem) (*domain.GalleryItem, error) {
	query := `
		INSERT INTO gallery_item (path, object_key, caption)
		VALUES ($1, $2, $3)
		RETURNING ` + galleryColumns
	var stored domain.GalleryItem
	if err := r.db.QueryRowxContext(ctx, query, item.Path, item.ObjectKey, item.Caption).StructScan(&stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *GalleryRepository) UpdateCaption(ctx context.Context, id uuid.UUID, caption string) (*domain.GalleryItem, error) {
	query := `
		UPDATE gallery_item SET caption = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + galleryColumns
	var stored domain.GalleryItem
	if err := r.db.QueryRowxContext(ctx, query, id, caption).StructScan(&stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *GalleryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.GalleryItem, error) {
	var item domain.GalleryItem
	if err := r.db.GetContext(ctx, &item, `SELECT `+galleryColumns+` FROM gallery_item WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GalleryRepository) List(ctx context.Context) ([]domain.GalleryItem, error) {
	var items []domain.GalleryItem
	if err := r.db.SelectContext(ctx, &items, `SELECT `+galleryColumns+` FROM gallery_item ORDER BY created_at DESC`); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GalleryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM gallery_item WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
