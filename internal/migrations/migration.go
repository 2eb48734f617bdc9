package migrations

import (
	"context"
	"errors"
	"fmt"
	"log"
	"restaurant_ordering/internal/database"
	"restaurant_ordering/internal/models"
	"restaurant_ordering/internal/repository"
	"restaurant_ordering/internal/services"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RunMigrations migrates the schema and creates default data. With reset set
// every table is dropped first.
func RunMigrations(ctx context.Context, db *gorm.DB, reset bool) error {
	log.Println("Running database migrations...")

	if reset {
		// Drop in reverse so dependents go first.
		log.Println("Dropping existing tables...")
		all := database.Models()
		for i := len(all) - 1; i >= 0; i-- {
			if err := db.Migrator().DropTable(all[i]); err != nil {
				log.Printf("Warning: Error dropping tables: %v", err)
			}
		}
	}

	log.Println("Creating tables...")
	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	if err := SeedDefaultData(ctx, db); err != nil {
		log.Printf("Warning: Failed to create default data: %v", err)
	}

	log.Println("Database migrations completed successfully!")
	return nil
}

type seedMenuItem struct {
	name     string
	category string
	price    string
	featured bool
}

var defaultMenu = []seedMenuItem{
	{"Spring Rolls", "Appetizers", "120.00", true},
	{"Chicken Wings", "Appetizers", "180.00", false},
	{"Caesar Salad", "Appetizers", "150.00", false},
	{"Grilled Chicken", "Main Course", "250.00", true},
	{"Paneer Butter Masala", "Main Course", "220.00", false},
	{"Fish Curry", "Main Course", "280.00", false},
	{"Chocolate Brownie", "Desserts", "100.00", true},
	{"Ice Cream", "Desserts", "80.00", false},
	{"Coffee", "Beverages", "50.00", false},
	{"Juice", "Beverages", "60.00", true},
}

type seedStaff struct {
	username, role, firstName, lastName, email, phone string
	salary                                            int64
}

var defaultStaff = []seedStaff{
	{"chef1", "chef", "John", "Smith", "john@restaurant.com", "+1234567890", 30000},
	{"waiter1", "waiter", "Sarah", "Johnson", "sarah@restaurant.com", "+1234567891", 20000},
	{"manager1", "manager", "Mike", "Davis", "mike@restaurant.com", "+1234567892", 25000},
}

type seedInventory struct {
	name, category string
	quantity       string
	unit           string
	threshold      string
	supplier       string
}

var defaultInventory = []seedInventory{
	{"Chicken Breast", "ingredients", "25", "kg", "10", "Local Supplier"},
	{"Rice", "ingredients", "100", "kg", "20", "Bulk Supplier"},
	{"Tomatoes", "ingredients", "15", "kg", "5", "Farm Fresh"},
	{"Cheese", "ingredients", "8", "kg", "3", "Dairy Corp"},
	{"Coffee Beans", "beverages", "12", "kg", "4", "Premium Beans Co"},
	{"Cleaning Supplies", "supplies", "50", "pieces", "10", "Clean Corp"},
	{"Plates", "supplies", "200", "pieces", "20", "Dishware Inc"},
	{"Oven", "equipment", "2", "pieces", "0", "Kitchen Equip Co"},
}

// SeedDefaultData is idempotent: rows matched by their natural key are left alone.
func SeedDefaultData(ctx context.Context, db *gorm.DB) error {
	log.Println("Creating default data...")
	db = db.WithContext(ctx)

	for _, name := range []string{"Cash", "Credit Card", "Debit Card", "UPI", "Wallet"} {
		method := models.PaymentMethod{Name: name, IsActive: true}
		if err := db.Where(models.PaymentMethod{Name: name}).FirstOrCreate(&method).Error; err != nil {
			return fmt.Errorf("payment method %s: %w", name, err)
		}
	}

	categories := map[string]uint{}
	for _, name := range []string{"Appetizers", "Main Course", "Desserts", "Beverages"} {
		category := models.MenuCategory{Name: name}
		if err := db.Where(models.MenuCategory{Name: name}).FirstOrCreate(&category).Error; err != nil {
			return fmt.Errorf("category %s: %w", name, err)
		}
		categories[name] = category.ID
	}

	for _, m := range defaultMenu {
		categoryID := categories[m.category]
		item := models.MenuItem{
			Name:        m.name,
			Price:       decimal.RequireFromString(m.price),
			IsAvailable: true,
			IsFeatured:  m.featured,
			CategoryID:  &categoryID,
		}
		if err := db.Where(models.MenuItem{Name: m.name}).FirstOrCreate(&item).Error; err != nil {
			return fmt.Errorf("menu item %s: %w", m.name, err)
		}
	}

	for i := 1; i <= 10; i++ {
		capacity := 4
		if i > 5 {
			capacity = 6
		}
		table := models.DiningTable{Number: i, Capacity: capacity, IsAvailable: true}
		if err := db.Where(models.DiningTable{Number: i}).FirstOrCreate(&table).Error; err != nil {
			return fmt.Errorf("table %d: %w", i, err)
		}
	}

	restaurant := models.Restaurant{
		Name:        "Sample Restaurant",
		Address:     "123 Main Street, City, State",
		Phone:       "1234567890",
		HasDelivery: true,
		OpeningDays: "Mon-Sun",
	}
	if err := db.Where(models.Restaurant{Name: restaurant.Name}).FirstOrCreate(&restaurant).Error; err != nil {
		return fmt.Errorf("restaurant: %w", err)
	}

	if err := seedUsers(ctx, db); err != nil {
		return err
	}

	for _, inv := range defaultInventory {
		item := models.InventoryItem{
			Name:             inv.name,
			Category:         inv.category,
			Quantity:         decimal.RequireFromString(inv.quantity),
			Unit:             inv.unit,
			MinimumThreshold: decimal.RequireFromString(inv.threshold),
			Supplier:         inv.supplier,
		}
		if err := db.Where(models.InventoryItem{Name: inv.name}).FirstOrCreate(&item).Error; err != nil {
			return fmt.Errorf("inventory %s: %w", inv.name, err)
		}
	}

	if err := seedChefShift(db); err != nil {
		return err
	}

	log.Println("Default data created")
	return nil
}

func seedUsers(ctx context.Context, db *gorm.DB) error {
	userRepo := repository.NewUserRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	userService := services.NewUserService(userRepo, nil, 0)

	if _, err := userRepo.GetByUsername(ctx, "admin"); errors.Is(err, gorm.ErrRecordNotFound) {
		admin := &models.User{
			Username:  "admin",
			Email:     "admin@example.com",
			FirstName: "Admin",
			LastName:  "User",
			Role:      string(models.Admin),
		}
		if err := userService.CreateUser(ctx, admin, "admin123"); err != nil {
			return fmt.Errorf("admin user: %w", err)
		}
		log.Println("Created superuser: admin/admin123")
	} else if err != nil {
		return err
	}

	for _, s := range defaultStaff {
		if _, err := userRepo.GetByUsername(ctx, s.username); err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		user := &models.User{
			Username:  s.username,
			Email:     s.email,
			FirstName: s.firstName,
			LastName:  s.lastName,
			Role:      string(models.Staff),
		}
		if err := services.PrepareAccount(user, "staff123"); err != nil {
			return fmt.Errorf("staff user %s: %w", s.username, err)
		}

		count, err := userRepo.Count(ctx)
		if err != nil {
			return err
		}
		salary := decimal.NewFromInt(s.salary)
		member := &models.StaffMember{
			EmployeeID: fmt.Sprintf("EMP%03d", count+1),
			Role:       s.role,
			Phone:      s.phone,
			HireDate:   time.Now(),
			IsActive:   true,
			Salary:     &salary,
		}
		if err := staffRepo.CreateWithUser(ctx, user, member); err != nil {
			return fmt.Errorf("staff member %s: %w", s.username, err)
		}
		log.Printf("Created staff member: %s %s (%s)", s.firstName, s.lastName, s.role)
	}
	return nil
}

func seedChefShift(db *gorm.DB) error {
	var chef models.StaffMember
	err := db.Joins("JOIN users ON users.id = staff.user_id").Where("users.username = ?", "chef1").First(&chef).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	} else if err != nil {
		return err
	}

	today := time.Now().Truncate(24 * time.Hour)
	shift := models.Shift{StaffID: chef.ID, Date: today, StartTime: "09:00", EndTime: "17:00", Role: "chef"}
	if err := db.Where(models.Shift{StaffID: chef.ID, Date: today}).FirstOrCreate(&shift).Error; err != nil {
		return fmt.Errorf("chef shift: %w", err)
	}
	log.Println("Created sample shift for chef")
	return nil
}
