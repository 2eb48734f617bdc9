package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"restaurant_ordering/internal/models"
	"restaurant_ordering/internal/repository"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	cacheKeyCategories = "menu:categories"
	cacheKeyFeatured   = "menu:featured"
	cacheKeyFullMenu   = "menu:all"
)

type MenuItemInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable *bool           `json:"is_available"`
	IsFeatured  bool            `json:"is_featured"`
	CategoryID  *uint           `json:"category_id"`
}

type NutritionInput struct {
	Calories int             `json:"calories"`
	Protein  decimal.Decimal `json:"protein"`
	Carbs    decimal.Decimal `json:"carbs"`
	Fat      decimal.Decimal `json:"fat"`
}

type ItemDetailsInput struct {
	Nutrition   *NutritionInput `json:"nutrition"`
	Ingredients []string        `json:"ingredients"`
}

type SpecialInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Available   *bool           `json:"available"`
}

type MenuService interface {
	ListCategories(ctx context.Context) ([]models.MenuCategory, error)
	CreateCategory(ctx context.Context, name string) (*models.MenuCategory, error)
	ListItems(ctx context.Context, categoryID *uint) ([]models.MenuItem, error)
	FeaturedItems(ctx context.Context) ([]models.MenuItem, error)
	Search(ctx context.Context, query string, page Pagination) ([]models.MenuItem, int64, error)
	GetItem(ctx context.Context, id uint) (*models.MenuItem, error)
	CreateItem(ctx context.Context, in MenuItemInput) (*models.MenuItem, error)
	UpdateItem(ctx context.Context, id uint, in MenuItemInput) (*models.MenuItem, error)
	DeleteItem(ctx context.Context, id uint) error
	SetItemDetails(ctx context.Context, id uint, in ItemDetailsInput) (*models.MenuItem, error)
	TodaySpecial(ctx context.Context) (*models.DailySpecial, error)
	CreateSpecial(ctx context.Context, in SpecialInput) (*models.DailySpecial, error)
}

type menuService struct {
	menuRepo repository.MenuRepository
	cache    Cache
	cacheTTL time.Duration
	pick     func(n int) int
}

func NewMenuService(menuRepo repository.MenuRepository, cache Cache, cacheTTL time.Duration) MenuService {
	return &menuService{menuRepo: menuRepo, cache: cache, cacheTTL: cacheTTL, pick: rand.Intn}
}

// cached serves key from the cache, falling back to load on a miss or a
// cache failure. Cache errors never fail the read.
func cached[T any](ctx context.Context, s *menuService, key string, load func() (T, error)) (T, error) {
	var value T
	if s.cache != nil {
		if hit, err := s.cache.Get(ctx, key, &value); err == nil && hit {
			return value, nil
		}
	}
	value, err := load()
	if err != nil {
		return value, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, value, s.cacheTTL)
	}
	return value, nil
}

func (s *menuService) invalidate(ctx context.Context, keys ...string) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, keys...)
	}
}

func (s *menuService) ListCategories(ctx context.Context) ([]models.MenuCategory, error) {
	return cached(ctx, s, cacheKeyCategories, func() ([]models.MenuCategory, error) {
		return s.menuRepo.ListCategories(ctx)
	})
}

func (s *menuService) CreateCategory(ctx context.Context, name string) (*models.MenuCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "this field is required")
	}
	category := &models.MenuCategory{Name: name}
	if err := s.menuRepo.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, invalid("name", "category with this name already exists")
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	s.invalidate(ctx, cacheKeyCategories)
	return category, nil
}

func (s *menuService) ListItems(ctx context.Context, categoryID *uint) ([]models.MenuItem, error) {
	if categoryID != nil {
		items, _, err := s.menuRepo.ListItems(ctx, repository.MenuFilter{CategoryID: categoryID}, repository.Page{})
		return items, err
	}
	return cached(ctx, s, cacheKeyFullMenu, func() ([]models.MenuItem, error) {
		items, _, err := s.menuRepo.ListItems(ctx, repository.MenuFilter{}, repository.Page{})
		return items, err
	})
}

func (s *menuService) FeaturedItems(ctx context.Context) ([]models.MenuItem, error) {
	return cached(ctx, s, cacheKeyFeatured, func() ([]models.MenuItem, error) {
		items, _, err := s.menuRepo.ListItems(ctx, repository.MenuFilter{FeaturedOnly: true}, repository.Page{})
		return items, err
	})
}

// Search matches item names case-insensitively. An empty query matches everything.
func (s *menuService) Search(ctx context.Context, query string, page Pagination) ([]models.MenuItem, int64, error) {
	filter := repository.MenuFilter{Query: strings.TrimSpace(query)}
	return s.menuRepo.ListItems(ctx, filter, page.repositoryPage())
}

func (s *menuService) GetItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	item, err := s.menuRepo.GetItem(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return item, nil
}

func (s *menuService) validateItem(ctx context.Context, in MenuItemInput) error {
	fields := fieldErrors{}
	if strings.TrimSpace(in.Name) == "" {
		fields.add("name", "this field is required")
	} else if len(in.Name) > 150 {
		fields.add("name", "ensure this field has no more than 150 characters")
	}
	if in.Price.IsNegative() {
		fields.add("price", "price cannot be negative")
	}
	if in.CategoryID != nil {
		ok, err := s.menuRepo.CategoryExists(ctx, *in.CategoryID)
		if err != nil {
			return err
		}
		if !ok {
			fields.add("category_id", "category does not exist")
		}
	}
	return fields.err()
}

func (s *menuService) CreateItem(ctx context.Context, in MenuItemInput) (*models.MenuItem, error) {
	if err := s.validateItem(ctx, in); err != nil {
		return nil, err
	}
	item := &models.MenuItem{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price.Round(2),
		IsAvailable: in.IsAvailable == nil || *in.IsAvailable,
		IsFeatured:  in.IsFeatured,
		CategoryID:  in.CategoryID,
	}
	if err := s.menuRepo.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}
	s.invalidate(ctx, cacheKeyFullMenu, cacheKeyFeatured)
	return item, nil
}

func (s *menuService) UpdateItem(ctx context.Context, id uint, in MenuItemInput) (*models.MenuItem, error) {
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateItem(ctx, in); err != nil {
		return nil, err
	}

	item.Name = strings.TrimSpace(in.Name)
	item.Description = in.Description
	item.Price = in.Price.Round(2)
	if in.IsAvailable != nil {
		item.IsAvailable = *in.IsAvailable
	}
	item.IsFeatured = in.IsFeatured
	item.CategoryID = in.CategoryID
	item.Category = nil
	if err := s.menuRepo.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update menu item: %w", err)
	}
	s.invalidate(ctx, cacheKeyFullMenu, cacheKeyFeatured)
	return item, nil
}

// maxMacro is the largest gram value a numeric(5,2) column holds.
var maxMacro = decimal.RequireFromString("999.99")

// SetItemDetails replaces the nutrition facts and ingredients shown on an
// item's detail view.
func (s *menuService) SetItemDetails(ctx context.Context, id uint, in ItemDetailsInput) (*models.MenuItem, error) {
	if _, err := s.GetItem(ctx, id); err != nil {
		return nil, err
	}

	fields := fieldErrors{}
	var nutrition *models.NutritionalInfo
	if n := in.Nutrition; n != nil {
		if n.Calories < 0 {
			fields.add("calories", "calories cannot be negative")
		}
		for name, v := range map[string]decimal.Decimal{"protein": n.Protein, "carbs": n.Carbs, "fat": n.Fat} {
			if v.IsNegative() || v.GreaterThan(maxMacro) {
				fields.add(name, "ensure this value is between 0 and 999.99")
			}
		}
		nutrition = &models.NutritionalInfo{
			Calories: n.Calories,
			Protein:  n.Protein.Round(2),
			Carbs:    n.Carbs.Round(2),
			Fat:      n.Fat.Round(2),
		}
	}
	ingredients := make([]models.Ingredient, 0, len(in.Ingredients))
	for _, name := range in.Ingredients {
		name = strings.TrimSpace(name)
		if name == "" || len(name) > 100 {
			fields.add("ingredients", "ingredient names must be 1 to 100 characters")
			break
		}
		ingredients = append(ingredients, models.Ingredient{Name: name})
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	if err := s.menuRepo.ReplaceDetails(ctx, id, nutrition, ingredients); err != nil {
		return nil, notFound(err)
	}
	return s.GetItem(ctx, id)
}

func (s *menuService) DeleteItem(ctx context.Context, id uint) error {
	if err := s.menuRepo.DeleteItem(ctx, id); err != nil {
		return notFound(err)
	}
	s.invalidate(ctx, cacheKeyFullMenu, cacheKeyFeatured)
	return nil
}

// TodaySpecial picks one available special at random.
func (s *menuService) TodaySpecial(ctx context.Context) (*models.DailySpecial, error) {
	specials, err := s.menuRepo.ListAvailableSpecials(ctx)
	if err != nil {
		return nil, err
	}
	if len(specials) == 0 {
		return nil, ErrNotFound
	}
	return &specials[s.pick(len(specials))], nil
}

func (s *menuService) CreateSpecial(ctx context.Context, in SpecialInput) (*models.DailySpecial, error) {
	fields := fieldErrors{}
	if strings.TrimSpace(in.Name) == "" {
		fields.add("name", "this field is required")
	}
	if in.Price.IsNegative() {
		fields.add("price", "price cannot be negative")
	}
	if err := fields.err(); err != nil {
		return nil, err
	}
	special := &models.DailySpecial{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price.Round(2),
		Available:   in.Available == nil || *in.Available,
	}
	if err := s.menuRepo.CreateSpecial(ctx, special); err != nil {
		return nil, fmt.Errorf("failed to create special: %w", err)
	}
	return special, nil
}
