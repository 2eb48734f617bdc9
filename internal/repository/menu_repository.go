package repository

import (
	"context"
	"restaurant_ordering/internal/models"
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in user input match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

type MenuFilter struct {
	Query         string
	CategoryID    *uint
	AvailableOnly bool
	FeaturedOnly  bool
}

type MenuRepository interface {
	ListCategories(ctx context.Context) ([]models.MenuCategory, error)
	CreateCategory(ctx context.Context, category *models.MenuCategory) error
	CategoryExists(ctx context.Context, id uint) (bool, error)

	ListItems(ctx context.Context, filter MenuFilter, page Page) ([]models.MenuItem, int64, error)
	GetItem(ctx context.Context, id uint) (*models.MenuItem, error)
	GetItemsByIDs(ctx context.Context, ids []uint) ([]models.MenuItem, error)
	CreateItem(ctx context.Context, item *models.MenuItem) error
	UpdateItem(ctx context.Context, item *models.MenuItem) error
	DeleteItem(ctx context.Context, id uint) error
	// ReplaceDetails swaps the item's nutrition facts and ingredient list.
	// A nil nutrition clears it.
	ReplaceDetails(ctx context.Context, itemID uint, nutrition *models.NutritionalInfo, ingredients []models.Ingredient) error

	ListAvailableSpecials(ctx context.Context) ([]models.DailySpecial, error)
	CreateSpecial(ctx context.Context, special *models.DailySpecial) error
}

type menuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) ListCategories(ctx context.Context) ([]models.MenuCategory, error) {
	var categories []models.MenuCategory
	err := r.db.WithContext(ctx).Order("name").Find(&categories).Error
	return categories, err
}

func (r *menuRepository) CreateCategory(ctx context.Context, category *models.MenuCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *menuRepository) CategoryExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.MenuCategory{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *menuRepository) ListItems(ctx context.Context, filter MenuFilter, page Page) ([]models.MenuItem, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.MenuItem{})
	if filter.Query != "" {
		q = q.Where(`name ILIKE ? ESCAPE '\'`, "%"+escapeLike(filter.Query)+"%")
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.AvailableOnly {
		q = q.Where("is_available = ?", true)
	}
	if filter.FeaturedOnly {
		q = q.Where("is_featured = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.MenuItem
	err := q.Preload("Category").Order("id").Scopes(paginate(page)).Find(&items).Error
	return items, total, err
}

func (r *menuRepository) GetItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Nutrition").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *menuRepository) GetItemsByIDs(ctx context.Context, ids []uint) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if len(ids) == 0 {
		return items, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error
	return items, err
}

func (r *menuRepository) CreateItem(ctx context.Context, item *models.MenuItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *menuRepository) UpdateItem(ctx context.Context, item *models.MenuItem) error {
	return r.db.WithContext(ctx).Omit("Category", "Nutrition", "Ingredients").Save(item).Error
}

func (r *menuRepository) DeleteItem(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.MenuItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *menuRepository) ReplaceDetails(ctx context.Context, itemID uint, nutrition *models.NutritionalInfo, ingredients []models.Ingredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("menu_item_id = ?", itemID).Delete(&models.NutritionalInfo{}).Error; err != nil {
			return err
		}
		if err := tx.Where("menu_item_id = ?", itemID).Delete(&models.Ingredient{}).Error; err != nil {
			return err
		}
		if nutrition != nil {
			nutrition.MenuItemID = itemID
			if err := tx.Create(nutrition).Error; err != nil {
				return err
			}
		}
		for i := range ingredients {
			ingredients[i].MenuItemID = itemID
		}
		if len(ingredients) > 0 {
			return tx.Create(&ingredients).Error
		}
		return nil
	})
}

func (r *menuRepository) ListAvailableSpecials(ctx context.Context) ([]models.DailySpecial, error) {
	var specials []models.DailySpecial
	err := r.db.WithContext(ctx).Where("available = ?", true).Order("id").Find(&specials).Error
	return specials, err
}

func (r *menuRepository) CreateSpecial(ctx context.Context, special *models.DailySpecial) error {
	return r.db.WithContext(ctx).Create(special).Error
}
