package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"carparts/contexts/identity-access/profile-service/domain/entities"
	domainerrors "carparts/contexts/identity-access/profile-service/domain/errors"
	"carparts/contexts/identity-access/profile-service/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

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

// AutoMigrate creates the addresses table. The phone column lives on the
// users table owned by the authorization module.
func (r *Repository) AutoMigrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&addressModel{})
}

func (r *Repository) GetProfile(ctx context.Context, userID int64) (entities.Profile, error) {
	return getProfile(r.db.WithContext(ctx), userID, false)
}

func (r *Repository) SaveContact(ctx context.Context, input ports.SaveContactInput) (entities.Profile, *entities.Address, error) {
	var (
		profile entities.Profile
		saved   *entities.Address
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Locking the user row serialises concurrent appends so the limit
		// check and insert cannot interleave.
		current, err := getProfile(tx, input.UserID, true)
		if err != nil {
			return err
		}
		if input.Address != "" {
			var count int64
			if err := tx.Model(&addressModel{}).Where("user_id = ?", input.UserID).Count(&count).Error; err != nil {
				return err
			}
			if int(count) >= input.MaxAddresses {
				return domainerrors.ErrAddressLimitReached
			}
			row := addressModel{
				UserID:    input.UserID,
				Address:   input.Address,
				CreatedAt: input.SavedAt.UTC(),
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			address := row.toEntity()
			saved = &address
		}
		if err := tx.Model(&profileModel{}).
			Where("id = ?", input.UserID).
			Update("phone", input.PhoneNumber).
			Error; err != nil {
			return err
		}
		current.PhoneNumber = input.PhoneNumber
		profile = current
		return nil
	})
	if err != nil {
		return entities.Profile{}, nil, err
	}
	return profile, saved, nil
}

func (r *Repository) ListAddresses(ctx context.Context, userID int64) ([]entities.Address, error) {
	var rows []addressModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]entities.Address, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) DeleteAddress(ctx context.Context, userID int64, addressID int64) (entities.Address, error) {
	var row addressModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", addressID, userID).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrAddressNotFound
			}
			return err
		}
		return tx.Delete(&row).Error
	})
	if err != nil {
		return entities.Address{}, err
	}
	return row.toEntity(), nil
}

func getProfile(db *gorm.DB, userID int64, forUpdate bool) (entities.Profile, error) {
	query := db.Where("id = ?", userID)
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row profileModel
	if err := query.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Profile{}, domainerrors.ErrProfileNotFound
		}
		return entities.Profile{}, err
	}
	return row.toEntity(), nil
}

// profileModel is the subset of the users table this module reads and writes.
type profileModel struct {
	ID    int64   `gorm:"column:id;primaryKey"`
	Name  string  `gorm:"column:name"`
	Email string  `gorm:"column:email"`
	Role  string  `gorm:"column:role"`
	Phone *string `gorm:"column:phone"`
}

func (profileModel) TableName() string {
	return "users"
}

func (m profileModel) toEntity() entities.Profile {
	profile := entities.Profile{
		UserID: m.ID,
		Name:   m.Name,
		Email:  m.Email,
		Role:   m.Role,
	}
	if m.Phone != nil {
		profile.PhoneNumber = *m.Phone
	}
	return profile
}

type addressModel struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int64     `gorm:"column:user_id;not null;index"`
	Address   string    `gorm:"column:address;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (addressModel) TableName() string {
	return "addresses"
}

func (m addressModel) toEntity() entities.Address {
	return entities.Address{
		AddressID: m.ID,
		UserID:    m.UserID,
		Value:     m.Address,
		CreatedAt: m.CreatedAt.UTC(),
	}
}
