package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"carparts/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "carparts/contexts/identity-access/authorization-service/domain/errors"
	"carparts/contexts/identity-access/authorization-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Repository is the gorm-backed user directory.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// AutoMigrate creates or updates the users table.
func (r *Repository) AutoMigrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&userModel{})
}

func (r *Repository) FindUserByID(ctx context.Context, userID int64) (entities.User, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Where("id = ?", userID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, domainerrors.ErrUserNotFound
		}
		return entities.User{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) FindUserByExternalID(ctx context.Context, externalID string) (entities.User, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Where("external_id = ?", externalID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, domainerrors.ErrUserNotFound
		}
		return entities.User{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListUsers(ctx context.Context) ([]entities.User, error) {
	var rows []userModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.User, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) CreateUser(ctx context.Context, input ports.CreateUserInput) (entities.User, error) {
	row := userModel{
		Name:      input.Name,
		Email:     input.Email,
		Role:      input.Role,
		CreatedAt: input.CreatedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return entities.User{}, domainerrors.ErrEmailTaken
		}
		return entities.User{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateUserRole(ctx context.Context, userID int64, role string) (entities.User, error) {
	var updated userModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&userModel{}).
			Where("id = ?", userID).
			Update("role", role)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrUserNotFound
		}
		return tx.Where("id = ?", userID).First(&updated).Error
	})
	if err != nil {
		return entities.User{}, err
	}
	return updated.toEntity(), nil
}

func (r *Repository) DeleteUser(ctx context.Context, userID int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", userID).
		Delete(&userModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUserNotFound
	}
	return nil
}

type userModel struct {
	UserID     int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name       string    `gorm:"column:name;not null"`
	Email      string    `gorm:"column:email;not null;uniqueIndex:ux_users_email"`
	Role       string    `gorm:"column:role;not null;default:'customer'"`
	ExternalID *string   `gorm:"column:external_id;uniqueIndex:ux_users_external_id"`
	Phone      *string   `gorm:"column:phone"`
	CreatedAt  time.Time `gorm:"column:created_at;not null"`
}

func (userModel) TableName() string {
	return "users"
}

func (m userModel) toEntity() entities.User {
	user := entities.User{
		UserID:    m.UserID,
		Name:      m.Name,
		Email:     m.Email,
		Role:      strings.ToLower(m.Role),
		CreatedAt: m.CreatedAt.UTC(),
	}
	if m.ExternalID != nil {
		user.ExternalID = *m.ExternalID
	}
	if m.Phone != nil {
		user.Phone = *m.Phone
	}
	return user
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
