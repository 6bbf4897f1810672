package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"carparts/contexts/marketplace/parts-service/application"
	"carparts/contexts/marketplace/parts-service/domain/entities"
	domainerrors "carparts/contexts/marketplace/parts-service/domain/errors"
	"carparts/contexts/marketplace/parts-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	outboxStatusPending = "pending"
	outboxStatusSent    = "sent"
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

func (r *Repository) AutoMigrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&partModel{}, &outboxModel{})
}

func (r *Repository) ListParts(ctx context.Context, filter ports.PartFilter) ([]entities.Part, error) {
	tx := r.db.WithContext(ctx).Model(&partModel{})
	if filter.CarName != "" {
		tx = tx.Where("car_name ILIKE ?", likePattern(filter.CarName))
	}
	if filter.Model != "" {
		tx = tx.Where("model ILIKE ?", likePattern(filter.Model))
	}
	if filter.Category != "" {
		tx = tx.Where("category ILIKE ?", likePattern(filter.Category))
	}
	if filter.Year != 0 {
		tx = tx.Where("year = ?", filter.Year)
	}
	var rows []partModel
	if err := tx.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

func (r *Repository) ListPartsBySeller(ctx context.Context, sellerID int64) ([]entities.Part, error) {
	var rows []partModel
	if err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

func (r *Repository) GetPart(ctx context.Context, partID int64) (entities.Part, error) {
	var row partModel
	if err := r.db.WithContext(ctx).Where("id = ?", partID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Part{}, domainerrors.ErrPartNotFound
		}
		return entities.Part{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) CreatePart(ctx context.Context, part entities.Part, event ports.PartChangedEvent) (entities.Part, error) {
	row := partModelFromEntity(part)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return insertOutbox(tx, row.toEntity(), event)
	})
	if err != nil {
		return entities.Part{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdatePart(ctx context.Context, part entities.Part, event ports.PartChangedEvent) (entities.Part, error) {
	row := partModelFromEntity(part)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&partModel{}).
			Where("id = ?", part.PartID).
			Updates(map[string]any{
				"name":        row.Name,
				"description": row.Description,
				"price":       row.Price,
				"category":    row.Category,
				"car_name":    row.CarName,
				"model":       row.Model,
				"year":        row.Year,
				"in_stock":    row.InStock,
				"image_url":   row.ImageURL,
				"updated_at":  row.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrPartNotFound
		}
		return insertOutbox(tx, part, event)
	})
	if err != nil {
		return entities.Part{}, err
	}
	return part, nil
}

// DeletePart leaves order items pointing at the removed id; order reads
// render such items without part details.
func (r *Repository) DeletePart(ctx context.Context, part entities.Part, event ports.PartChangedEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", part.PartID).Delete(&partModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrPartNotFound
		}
		return insertOutbox(tx, part, event)
	})
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      row.Payload,
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{
			"status":  outboxStatusSent,
			"sent_at": sentAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRepository
	}
	return nil
}

func insertOutbox(tx *gorm.DB, part entities.Part, event ports.PartChangedEvent) error {
	envelope, err := application.BuildPartEnvelope(part, event)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     event.EventID,
		EventType:    event.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    event.OccurredAt.UTC(),
	}
	if err := tx.Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrRepository
		}
		return err
	}
	return nil
}

func likePattern(value string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
	return "%" + escaped + "%"
}

func toEntities(rows []partModel) []entities.Part {
	items := make([]entities.Part, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

type partModel struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	SellerID    int64           `gorm:"column:seller_id;not null;index"`
	Name        string          `gorm:"column:name;not null"`
	Description string          `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Category    string          `gorm:"column:category;not null;index"`
	CarName     string          `gorm:"column:car_name;not null"`
	Model       string          `gorm:"column:model;not null"`
	Year        int             `gorm:"column:year;not null"`
	InStock     bool            `gorm:"column:in_stock;not null;default:true"`
	ImageURL    string          `gorm:"column:image_url"`
	CreatedAt   time.Time       `gorm:"column:created_at;not null;index"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (partModel) TableName() string {
	return "parts"
}

func partModelFromEntity(part entities.Part) partModel {
	return partModel{
		ID:          part.PartID,
		SellerID:    part.SellerID,
		Name:        part.Name,
		Description: part.Description,
		Price:       part.Price,
		Category:    part.Category,
		CarName:     part.CarName,
		Model:       part.Model,
		Year:        part.Year,
		InStock:     part.InStock,
		ImageURL:    part.ImageURL,
		CreatedAt:   part.CreatedAt.UTC(),
		UpdatedAt:   part.UpdatedAt.UTC(),
	}
}

func (m partModel) toEntity() entities.Part {
	return entities.Part{
		PartID:      m.ID,
		SellerID:    m.SellerID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Category:    m.Category,
		CarName:     m.CarName,
		Model:       m.Model,
		Year:        m.Year,
		InStock:     m.InStock,
		ImageURL:    m.ImageURL,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status;index"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	SentAt       *time.Time `gorm:"column:sent_at"`
}

func (outboxModel) TableName() string {
	return "part_outbox"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
