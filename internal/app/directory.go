package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kezar0001-cpu/Mawjood/internal/domain"
)

const (
	businessPageSize  = 20
	categoryListLimit = 50
)

// BusinessInput is the submitted form state for create and edit. Optional
// text arrives as plain strings, list fields as comma-separated text.
type BusinessInput struct {
	Name        string   `json:"name" validate:"required"`
	CategoryID  string   `json:"category_id"`
	Description string   `json:"description"`
	City        string   `json:"city"`
	Address     string   `json:"address"`
	Phone       string   `json:"phone"`
	Rating      *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Features    string   `json:"features"`
	Images      string   `json:"images"`
}

type CategoryInput struct {
	NameAr string `json:"name_ar" validate:"required"`
	NameEn string `json:"name_en"`
	Icon   string `json:"icon"`
}

type DirectoryService struct {
	repo     domain.DirectoryRepository
	validate *validator.Validate
}

func NewDirectoryService(repo domain.DirectoryRepository) *DirectoryService {
	return &DirectoryService{repo: repo, validate: validator.New()}
}

// ---- Businesses ----

func (s *DirectoryService) ListBusinesses(ctx context.Context, q domain.BusinessQuery) (domain.BusinessPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	q.PageSize = businessPageSize

	items, total, err := s.repo.ListBusinesses(ctx, q)
	if err != nil {
		return domain.BusinessPage{}, err
	}
	return domain.BusinessPage{
		Items:      items,
		Total:      total,
		Page:       q.Page,
		TotalPages: totalPages(total, q.PageSize),
	}, nil
}

func (s *DirectoryService) GetBusiness(ctx context.Context, id string) (domain.BusinessView, error) {
	return s.repo.GetBusiness(ctx, id)
}

func (s *DirectoryService) CreateBusiness(ctx context.Context, in BusinessInput) (domain.Business, error) {
	b, err := s.businessFromInput(uuid.NewString(), in)
	if err != nil {
		return domain.Business{}, err
	}
	if err := s.repo.CreateBusiness(ctx, b); err != nil {
		return domain.Business{}, err
	}
	return b, nil
}

func (s *DirectoryService) UpdateBusiness(ctx context.Context, id string, in BusinessInput) (domain.Business, error) {
	b, err := s.businessFromInput(id, in)
	if err != nil {
		return domain.Business{}, err
	}
	if err := s.repo.UpdateBusiness(ctx, b); err != nil {
		return domain.Business{}, err
	}
	return b, nil
}

func (s *DirectoryService) DeleteBusiness(ctx context.Context, id string) error {
	return s.repo.DeleteBusiness(ctx, id)
}

// businessFromInput normalizes submitted form state: optional text
// becomes NULL, comma lists are split, trimmed and stripped of empty
// segments. Resubmitting an unmodified form yields an identical row.
func (s *DirectoryService) businessFromInput(id string, in BusinessInput) (domain.Business, error) {
	if err := s.validate.Struct(in); err != nil {
		return domain.Business{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return domain.Business{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		CategoryID:  optStr(in.CategoryID),
		Description: optStr(in.Description),
		City:        optStr(in.City),
		Address:     optStr(in.Address),
		Phone:       optStr(in.Phone),
		Rating:      in.Rating,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Features:    splitList(in.Features),
		Images:      splitList(in.Images),
	}, nil
}

// ---- Categories ----

func (s *DirectoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.repo.ListCategories(ctx, categoryListLimit)
}

func (s *DirectoryService) GetCategory(ctx context.Context, id string) (domain.Category, error) {
	return s.repo.GetCategory(ctx, id)
}

func (s *DirectoryService) CreateCategory(ctx context.Context, in CategoryInput) (domain.Category, error) {
	c, err := s.categoryFromInput(uuid.NewString(), in)
	if err != nil {
		return domain.Category{}, err
	}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return domain.Category{}, err
	}
	return c, nil
}

func (s *DirectoryService) UpdateCategory(ctx context.Context, id string, in CategoryInput) (domain.Category, error) {
	c, err := s.categoryFromInput(id, in)
	if err != nil {
		return domain.Category{}, err
	}
	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return domain.Category{}, err
	}
	return c, nil
}

// DeleteCategory removes the category only. Businesses referencing it
// keep their stored category_id; the reference is soft and resolves to
// nothing afterwards.
func (s *DirectoryService) DeleteCategory(ctx context.Context, id string) error {
	return s.repo.DeleteCategory(ctx, id)
}

func (s *DirectoryService) categoryFromInput(id string, in CategoryInput) (domain.Category, error) {
	if err := s.validate.Struct(in); err != nil {
		return domain.Category{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return domain.Category{
		ID:     id,
		NameAr: strings.TrimSpace(in.NameAr),
		NameEn: optStr(in.NameEn),
		Icon:   optStr(in.Icon),
	}, nil
}

// ---- Overview ----

// Overview gathers the dashboard cards. The three reads are independent,
// so they run concurrently and the first failure cancels the rest.
func (s *DirectoryService) Overview(ctx context.Context) (domain.Overview, error) {
	var ov domain.Overview

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.repo.CountBusinesses(ctx)
		ov.Businesses = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountCategories(ctx)
		ov.Categories = n
		return err
	})
	g.Go(func() error {
		byCity, err := s.repo.BusinessesByCity(ctx)
		ov.ByCity = byCity
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Overview{}, err
	}
	ov.Cities = len(ov.ByCity)
	return ov, nil
}

// ---- helpers ----

func optStr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func totalPages(total, pageSize int) int {
	if total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}
