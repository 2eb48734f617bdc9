package services

import (
	"context"
	"errors"
	"fmt"
	"restaurant_ordering/internal/models"
	"restaurant_ordering/internal/repository"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StaffInput struct {
	Username  string           `json:"username"`
	Email     string           `json:"email"`
	Password  string           `json:"password"`
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	Role      string           `json:"role"`
	Phone     string           `json:"phone"`
	HireDate  string           `json:"hire_date"`
	Salary    *decimal.Decimal `json:"salary"`
}

const clockLayout = "15:04"

type ShiftInput struct {
	StaffID   uint   `json:"staff_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Role      string `json:"role"`
}

type InventoryInput struct {
	Name             string          `json:"name"`
	Category         string          `json:"category"`
	Quantity         decimal.Decimal `json:"quantity"`
	Unit             string          `json:"unit"`
	MinimumThreshold decimal.Decimal `json:"minimum_threshold"`
	Supplier         string          `json:"supplier"`
}

type StaffService interface {
	ListStaff(ctx context.Context, actor *Session, role string) ([]models.StaffMember, error)
	CreateStaff(ctx context.Context, actor *Session, in StaffInput) (*models.StaffMember, error)

	ListShifts(ctx context.Context, actor *Session, staffID uint, date string) ([]models.Shift, error)
	CreateShift(ctx context.Context, actor *Session, in ShiftInput) (*models.Shift, error)

	ListInventory(ctx context.Context, actor *Session, category string) ([]models.InventoryItem, error)
	LowStock(ctx context.Context, actor *Session) ([]models.InventoryItem, error)
	CreateInventoryItem(ctx context.Context, actor *Session, in InventoryInput) (*models.InventoryItem, error)
	AdjustInventory(ctx context.Context, actor *Session, id uint, delta decimal.Decimal) (*models.InventoryItem, error)
}

type staffService struct {
	staffRepo     repository.StaffRepository
	inventoryRepo repository.InventoryRepository
	shiftRepo     repository.ShiftRepository
	users         repository.UserRepository
	notifier      NotificationService
	now           func() time.Time
}

func NewStaffService(
	staffRepo repository.StaffRepository,
	inventoryRepo repository.InventoryRepository,
	shiftRepo repository.ShiftRepository,
	users repository.UserRepository,
	notifier NotificationService,
) StaffService {
	return &staffService{
		staffRepo:     staffRepo,
		inventoryRepo: inventoryRepo,
		shiftRepo:     shiftRepo,
		users:         users,
		notifier:      notifier,
		now:           time.Now,
	}
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func (s *staffService) ListStaff(ctx context.Context, actor *Session, role string) ([]models.StaffMember, error) {
	if !isStaff(actor) {
		return nil, ErrForbidden
	}
	if role != "" && !contains(models.StaffRoles, role) {
		return nil, invalid("role", "unknown staff role")
	}
	return s.staffRepo.List(ctx, role)
}

// CreateStaff registers a login and a directory entry. Only admins may hire.
func (s *staffService) CreateStaff(ctx context.Context, actor *Session, in StaffInput) (*models.StaffMember, error) {
	if actor == nil || actor.Role != string(models.Admin) {
		return nil, ErrForbidden
	}

	fields := fieldErrors{}
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if !contains(models.StaffRoles, role) {
		fields.add("role", "role must be one of "+strings.Join(models.StaffRoles, ", "))
	}
	if len(in.Phone) > 15 {
		fields.add("phone", "ensure this field has no more than 15 characters")
	}
	hireDate := s.now()
	if in.HireDate != "" {
		parsed, err := time.Parse(dateLayout, in.HireDate)
		if err != nil {
			fields.add("hire_date", "date has wrong format, use YYYY-MM-DD")
		}
		hireDate = parsed
	}
	if in.Salary != nil && in.Salary.IsNegative() {
		fields.add("salary", "salary cannot be negative")
	}
	if strings.TrimSpace(in.Username) == "" {
		fields.add("username", "this field is required")
	}
	if !validEmail(strings.TrimSpace(in.Email)) {
		fields.add("email", "enter a valid email address")
	}
	if len(in.Password) < 8 {
		fields.add("password", "password must contain at least 8 characters")
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	username, email := strings.TrimSpace(in.Username), strings.TrimSpace(in.Email)
	if taken, err := s.users.UsernameTaken(ctx, username); err != nil {
		return nil, err
	} else if taken {
		fields.add("username", "a user with that username already exists")
	}
	if taken, err := s.users.EmailTaken(ctx, email, 0); err != nil {
		return nil, err
	} else if taken {
		fields.add("email", "this email is already in use")
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	user := &models.User{
		Username:  username,
		Email:     email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      string(models.Staff),
	}
	if err := PrepareAccount(user, in.Password); err != nil {
		return nil, err
	}

	// A concurrent hire can claim the employee id between lookup and insert.
	// The transaction rolls the login back, so retrying is safe.
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		employeeID, err := s.nextEmployeeID(ctx)
		if err != nil {
			return nil, err
		}
		user.ID = 0
		member := &models.StaffMember{
			EmployeeID: employeeID,
			Role:       role,
			Phone:      in.Phone,
			HireDate:   hireDate,
			IsActive:   true,
			Salary:     in.Salary,
		}
		err = s.staffRepo.CreateWithUser(ctx, user, member)
		if err == nil {
			member.User = user
			return member, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("failed to create staff member: %w", err)
		}
		if taken, lookupErr := s.staffRepo.EmployeeIDExists(ctx, employeeID); lookupErr != nil {
			return nil, lookupErr
		} else if !taken {
			return nil, invalid("username", "a user with that username or email already exists")
		}
	}
	return nil, ErrCodeSpaceExhausted
}

// nextEmployeeID numbers staff sequentially as EMP001, EMP002 and so on,
// skipping ids already in use.
func (s *staffService) nextEmployeeID(ctx context.Context) (string, error) {
	count, err := s.staffRepo.Count(ctx)
	if err != nil {
		return "", err
	}
	for i := int64(1); i <= maxCodeAttempts; i++ {
		id := fmt.Sprintf("EMP%03d", count+i)
		taken, err := s.staffRepo.EmployeeIDExists(ctx, id)
		if err != nil {
			return "", err
		}
		if !taken {
			return id, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}

func (s *staffService) ListShifts(ctx context.Context, actor *Session, staffID uint, date string) ([]models.Shift, error) {
	if !isStaff(actor) {
		return nil, ErrForbidden
	}
	var day *time.Time
	if date != "" {
		parsed, err := time.Parse(dateLayout, date)
		if err != nil {
			return nil, invalid("date", "date has wrong format, use YYYY-MM-DD")
		}
		day = &parsed
	}
	return s.shiftRepo.List(ctx, staffID, day)
}

// CreateShift schedules an existing staff member. The role defaults to the
// member's own role.
func (s *staffService) CreateShift(ctx context.Context, actor *Session, in ShiftInput) (*models.Shift, error) {
	if !isStaff(actor) {
		return nil, ErrForbidden
	}

	fields := fieldErrors{}
	date, err := time.Parse(dateLayout, in.Date)
	if err != nil {
		fields.add("date", "date has wrong format, use YYYY-MM-DD")
	}
	start, startErr := time.Parse(clockLayout, in.StartTime)
	if startErr != nil {
		fields.add("start_time", "time has wrong format, use HH:MM")
	}
	end, endErr := time.Parse(clockLayout, in.EndTime)
	if endErr != nil {
		fields.add("end_time", "time has wrong format, use HH:MM")
	}
	if startErr == nil && endErr == nil && !end.After(start) {
		fields.add("end_time", "shift must end after it starts")
	}
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if role != "" && !contains(models.StaffRoles, role) {
		fields.add("role", "role must be one of "+strings.Join(models.StaffRoles, ", "))
	}
	if in.StaffID == 0 {
		fields.add("staff_id", "this field is required")
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	member, err := s.staffRepo.GetByID(ctx, in.StaffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid("staff_id", "staff member does not exist")
		}
		return nil, err
	}
	if role == "" {
		role = member.Role
	}

	shift := &models.Shift{
		StaffID:   member.ID,
		Date:      date,
		StartTime: start.Format(clockLayout),
		EndTime:   end.Format(clockLayout),
		Role:      role,
	}
	if err := s.shiftRepo.Create(ctx, shift); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, invalid("start_time", "staff member already has a shift starting then")
		}
		return nil, fmt.Errorf("failed to create shift: %w", err)
	}
	shift.Staff = member
	return shift, nil
}

func (s *staffService) ListInventory(ctx context.Context, actor *Session, category string) ([]models.InventoryItem, error) {
	if !isStaff(actor) {
		return nil, ErrForbidden
	}
	if category != "" && !contains(models.InventoryCategories, category) {
		return nil, invalid("category", "unknown inventory category")
	}
	return s.inventoryRepo.List(ctx, category)
}

func (s *staffService) LowStock(ctx context.Context, actor *Session) ([]models.InventoryItem, error) {
	if !isStaff(actor) {
		return nil, ErrForbidden
	}
	return s.inventoryRepo.ListLowStock(ctx)
}

func (s *staffService) CreateInventoryItem(ctx context.Context, actor *Session, in InventoryInput) (*models.InventoryItem, error) {
	if !isStaff(actor) {
		return nil, ErrForbidden
	}
	fields := fieldErrors{}
	if strings.TrimSpace(in.Name) == "" {
		fields.add("name", "this field is required")
	}
	if !contains(models.InventoryCategories, in.Category) {
		fields.add("category", "category must be one of "+strings.Join(models.InventoryCategories, ", "))
	}
	if !contains(models.InventoryUnits, in.Unit) {
		fields.add("unit", "unit must be one of "+strings.Join(models.InventoryUnits, ", "))
	}
	if in.Quantity.IsNegative() {
		fields.add("quantity", "quantity cannot be negative")
	}
	if in.MinimumThreshold.IsNegative() {
		fields.add("minimum_threshold", "threshold cannot be negative")
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	item := &models.InventoryItem{
		Name:             strings.TrimSpace(in.Name),
		Category:         in.Category,
		Quantity:         in.Quantity.Round(2),
		Unit:             in.Unit,
		MinimumThreshold: in.MinimumThreshold.Round(2),
		Supplier:         in.Supplier,
	}
	if err := s.inventoryRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}
	return item, nil
}

// AdjustInventory applies delta atomically and alerts staff when the item
// ends at or below its threshold.
func (s *staffService) AdjustInventory(ctx context.Context, actor *Session, id uint, delta decimal.Decimal) (*models.InventoryItem, error) {
	if !isStaff(actor) {
		return nil, ErrForbidden
	}
	if delta.IsZero() {
		return nil, invalid("delta", "adjustment must not be zero")
	}

	item, applied, err := s.inventoryRepo.Adjust(ctx, id, delta.Round(2))
	if err != nil {
		return nil, notFound(err)
	}
	if !applied {
		return nil, ErrInsufficientStock
	}
	if item.IsLowStock() && s.notifier != nil {
		s.notifier.LowStock(ctx, item)
	}
	return item, nil
}
