package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/batuwa-travels/travel-api/internal/domain"
	"github.com/batuwa-travels/travel-api/internal/repository/ports"
)

var (
	ErrBlogValidation = errors.New("blog validation failed")
	ErrBlogNotFound   = errors.New("blog not found")
)

type BlogInput struct {
	Title   string
	Excerpt string
	Thumb   string
	Date    string
	Author  string
	Content string
}

type BlogService struct {
	blogs    ports.BlogRepository
	activity *ActivityRecorder
}

func NewBlogService(blogs ports.BlogRepository, activity *ActivityRecorder) *BlogService {
	return &BlogService{blogs: blogs, activity: activity}
}

func (s *BlogService) List(ctx context.Context) ([]domain.Blog, error) {
	blogs, err := s.blogs.List(ctx)
	if err != nil {
		return nil, err
	}
	if blogs == nil {
		blogs = []domain.Blog{}
	}
	return blogs, nil
}

func (s *BlogService) Get(ctx context.Context, id uuid.UUID) (*domain.Blog, error) {
	blog, err := s.blogs.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return blog, nil
}

func (s *BlogService) Create(ctx context.Context, input BlogInput) (*domain.Blog, error) {
	blog := blogFromInput(input)
	if blog.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrBlogValidation)
	}
	stored, err := s.blogs.Create(ctx, blog)
	if err != nil {
		return nil, err
	}
	s.activity.Record(ctx, ActivityEntry{
		Action:     domain.ActionCreate,
		Resource:   domain.ResourceBlog,
		ResourceID: stored.ID.String(),
		Details:    fmt.Sprintf("Created blog %q", stored.Title),
	})
	return stored, nil
}

func (s *BlogService) Update(ctx context.Context, id uuid.UUID, input BlogInput) (*domain.Blog, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next := blogFromInput(input)
	if next.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrBlogValidation)
	}
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt

	changes := domain.ChangeSet{}
	if next.Title != current.Title {
		changes["title"] = domain.FieldChange{From: current.Title, To: next.Title}
	}

	stored, err := s.blogs.Update(ctx, next)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	s.activity.Record(ctx, ActivityEntry{
		Action:     domain.ActionUpdate,
		Resource:   domain.ResourceBlog,
		ResourceID: stored.ID.String(),
		Details:    fmt.Sprintf("Updated blog %q", stored.Title),
		Changes:    changes,
	})
	return stored, nil
}

func (s *BlogService) Delete(ctx context.Context, id uuid.UUID) error {
	blog, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.blogs.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrBlogNotFound
		}
		return err
	}
	s.activity.Record(ctx, ActivityEntry{
		Action:     domain.ActionDelete,
		Resource:   domain.ResourceBlog,
		ResourceID: id.String(),
		Details:    fmt.Sprintf("Deleted blog %q", blog.Title),
	})
	return nil
}

func blogFromInput(in BlogInput) *domain.Blog {
	return &domain.Blog{
		Title:   strings.TrimSpace(in.Title),
		Excerpt: strings.TrimSpace(in.Excerpt),
		Thumb:   strings.TrimSpace(in.Thumb),
		Date:    strings.TrimSpace(in.Date),
		Author:  strings.TrimSpace(in.Author),
		Content: in.Content,
	}
}
