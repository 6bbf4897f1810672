package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	application "carparts/contexts/marketplace/order-service/application"
	"carparts/contexts/marketplace/order-service/domain/entities"
	domainerrors "carparts/contexts/marketplace/order-service/domain/errors"
	"carparts/contexts/marketplace/order-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending = "pending"
	outboxStatusSent    = "sent"

	idempotencyConstraint = "ux_orders_user_idempotency"
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

// AutoMigrate creates the tables this module owns. The parts and users
// tables are owned by their catalog and directory modules.
func (r *Repository) AutoMigrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&orderModel{}, &orderItemModel{}, &outboxModel{})
}

func (r *Repository) FindAvailablePartsByIDs(ctx context.Context, partIDs []int64) ([]entities.PartSnapshot, error) {
	if len(partIDs) == 0 {
		return nil, nil
	}
	var rows []partReadModel
	if err := r.db.WithContext(ctx).
		Where("id IN ? AND in_stock = ?", partIDs, true).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	parts := make([]entities.PartSnapshot, 0, len(rows))
	for _, row := range rows {
		parts = append(parts, row.toEntity())
	}
	return parts, nil
}

func (r *Repository) FindOrderByUserAndIdempotencyKey(ctx context.Context, userID int64, key string) (entities.Order, bool, error) {
	var row orderModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND idempotency_key = ?", userID, key).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Order{}, false, nil
		}
		return entities.Order{}, false, err
	}
	orders, err := loadOrders(r.db.WithContext(ctx), []orderModel{row}, false)
	if err != nil {
		return entities.Order{}, false, err
	}
	return orders[0], true, nil
}

func (r *Repository) FindOrderByID(ctx context.Context, orderID int64) (entities.Order, error) {
	return findOrderByID(r.db.WithContext(ctx), orderID)
}

func (r *Repository) CreateOrderWithItems(ctx context.Context, input ports.NewOrder, event ports.OrderEvent) (entities.Order, error) {
	var orderID int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		partIDs := distinctPartIDs(input.Items)

		// Share-lock the parts so a concurrent stock flip waits for this
		// commit instead of racing it.
		var parts []partReadModel
		if err := tx.Clauses(clause.Locking{Strength: "SHARE"}).
			Where("id IN ? AND in_stock = ?", partIDs, true).
			Find(&parts).
			Error; err != nil {
			return err
		}
		if len(parts) != len(partIDs) {
			return fmt.Errorf("%w: parts changed availability during commit", domainerrors.ErrCommitFailed)
		}

		row := orderModel{
			UserID:      input.UserID,
			Status:      string(entities.OrderStatusPlaced),
			Address:     input.Address,
			PhoneNumber: input.PhoneNumber,
			CreatedAt:   input.CreatedAt.UTC(),
		}
		if input.IdempotencyKey != "" {
			key := input.IdempotencyKey
			row.IdempotencyKey = &key
		}
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) && constraintName(err) == idempotencyConstraint {
				return domainerrors.ErrDuplicateIdempotencyKey
			}
			return err
		}
		orderID = row.ID

		items := make([]orderItemModel, 0, len(input.Items))
		for _, item := range input.Items {
			items = append(items, orderItemModel{
				OrderID:  row.ID,
				PartID:   item.PartID,
				Quantity: item.Quantity,
			})
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		orders, err := loadOrders(tx, []orderModel{row}, false)
		if err != nil {
			return err
		}
		return insertOutbox(tx, orders[0], event)
	})
	if err != nil {
		switch {
		case errors.Is(err, domainerrors.ErrDuplicateIdempotencyKey), errors.Is(err, domainerrors.ErrCommitFailed):
			return entities.Order{}, err
		case isForeignKeyViolation(err):
			return entities.Order{}, fmt.Errorf("%w: %v", domainerrors.ErrCommitFailed, err)
		}
		r.logger.Error("order transaction failed",
			"event", "postgres_create_order_failed",
			"module", "marketplace/order-service",
			"layer", "adapter",
			"user_id", input.UserID,
			"error", err.Error(),
		)
		return entities.Order{}, err
	}

	r.logger.Info("order and outbox persisted",
		"event", "postgres_create_order_with_items",
		"module", "marketplace/order-service",
		"layer", "adapter",
		"order_id", orderID,
		"user_id", input.UserID,
		"outbox_event_id", event.EventID,
	)
	return r.FindOrderByID(ctx, orderID)
}

func (r *Repository) ListOrdersByUser(ctx context.Context, userID int64) ([]entities.Order, error) {
	var rows []orderModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	return loadOrders(r.db.WithContext(ctx), rows, false)
}

func (r *Repository) ListAllOrders(ctx context.Context, filter ports.OrderListFilter) ([]entities.Order, error) {
	tx := r.db.WithContext(ctx).Model(&orderModel{})
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}
	var rows []orderModel
	if err := tx.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return loadOrders(r.db.WithContext(ctx), rows, true)
}

func (r *Repository) UpdateOrderStatus(ctx context.Context, orderID int64, status entities.OrderStatus, event ports.OrderEvent) (entities.Order, error) {
	var updated entities.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&orderModel{}).
			Where("id = ?", orderID).
			Update("status", string(status))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrOrderNotFound
		}
		order, err := findOrderByID(tx, orderID)
		if err != nil {
			return err
		}
		updated = order
		return insertOutbox(tx, order, event)
	})
	if err != nil {
		return entities.Order{}, err
	}
	return updated, nil
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
		items = append(items, row.toPort())
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
		return domainerrors.ErrRepositoryInvariant
	}
	return nil
}

func findOrderByID(db *gorm.DB, orderID int64) (entities.Order, error) {
	var row orderModel
	if err := db.Where("id = ?", orderID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Order{}, domainerrors.ErrOrderNotFound
		}
		return entities.Order{}, err
	}
	orders, err := loadOrders(db, []orderModel{row}, false)
	if err != nil {
		return entities.Order{}, err
	}
	return orders[0], nil
}

// loadOrders attaches items, their current part details and optionally the
// customer summary, preserving the row order.
func loadOrders(db *gorm.DB, rows []orderModel, withCustomer bool) ([]entities.Order, error) {
	if len(rows) == 0 {
		return []entities.Order{}, nil
	}
	orderIDs := make([]int64, 0, len(rows))
	userIDs := make([]int64, 0, len(rows))
	for _, row := range rows {
		orderIDs = append(orderIDs, row.ID)
		userIDs = append(userIDs, row.UserID)
	}

	var items []orderItemModel
	if err := db.Where("order_id IN ?", orderIDs).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	partIDs := make([]int64, 0, len(items))
	for _, item := range items {
		partIDs = append(partIDs, item.PartID)
	}
	parts := make(map[int64]entities.PartSnapshot)
	if len(partIDs) > 0 {
		var partRows []partReadModel
		if err := db.Where("id IN ?", partIDs).Find(&partRows).Error; err != nil {
			return nil, err
		}
		for _, part := range partRows {
			parts[part.ID] = part.toEntity()
		}
	}

	customers := make(map[int64]entities.Customer)
	if withCustomer {
		var users []userReadModel
		if err := db.Select("id", "name", "email").Where("id IN ?", userIDs).Find(&users).Error; err != nil {
			return nil, err
		}
		for _, user := range users {
			customers[user.ID] = entities.Customer{UserID: user.ID, Name: user.Name, Email: user.Email}
		}
	}

	itemsByOrder := make(map[int64][]entities.OrderItem, len(rows))
	for _, item := range items {
		entity := entities.OrderItem{
			ItemID:   item.ID,
			OrderID:  item.OrderID,
			PartID:   item.PartID,
			Quantity: item.Quantity,
		}
		if part, ok := parts[item.PartID]; ok {
			entity.Part = &part
		}
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], entity)
	}

	orders := make([]entities.Order, 0, len(rows))
	for _, row := range rows {
		order := row.toEntity()
		order.Items = itemsByOrder[row.ID]
		if customer, ok := customers[row.UserID]; ok {
			order.Customer = &customer
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func insertOutbox(tx *gorm.DB, order entities.Order, event ports.OrderEvent) error {
	envelope, err := application.BuildOrderEnvelope(order, event)
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
			return domainerrors.ErrRepositoryInvariant
		}
		return err
	}
	return nil
}

func distinctPartIDs(items []ports.NewOrderItem) []int64 {
	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.PartID]; ok {
			continue
		}
		seen[item.PartID] = struct{}{}
		ids = append(ids, item.PartID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

type orderModel struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID         int64     `gorm:"column:user_id;not null;index;uniqueIndex:ux_orders_user_idempotency,priority:1"`
	Status         string    `gorm:"column:status;not null;default:'Placed'"`
	Address        string    `gorm:"column:address;not null"`
	PhoneNumber    string    `gorm:"column:phone_number;not null"`
	IdempotencyKey *string   `gorm:"column:idempotency_key;size:255;uniqueIndex:ux_orders_user_idempotency,priority:2"`
	CreatedAt      time.Time `gorm:"column:created_at;not null"`

	Items []orderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (orderModel) TableName() string {
	return "orders"
}

func (m orderModel) toEntity() entities.Order {
	order := entities.Order{
		OrderID:     m.ID,
		UserID:      m.UserID,
		Status:      entities.OrderStatus(m.Status),
		Address:     m.Address,
		PhoneNumber: m.PhoneNumber,
		CreatedAt:   m.CreatedAt.UTC(),
	}
	if m.IdempotencyKey != nil {
		order.IdempotencyKey = *m.IdempotencyKey
	}
	return order
}

type orderItemModel struct {
	ID       int64 `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID  int64 `gorm:"column:order_id;not null;index"`
	PartID   int64 `gorm:"column:part_id;not null;index"`
	Quantity int   `gorm:"column:quantity;not null;check:quantity >= 1"`
}

func (orderItemModel) TableName() string {
	return "order_items"
}

// partReadModel maps the catalog table read-only.
type partReadModel struct {
	ID       int64           `gorm:"column:id;primaryKey"`
	SellerID int64           `gorm:"column:seller_id"`
	Name     string          `gorm:"column:name"`
	Price    decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	InStock  bool            `gorm:"column:in_stock"`
	ImageURL string          `gorm:"column:image_url"`
}

func (partReadModel) TableName() string {
	return "parts"
}

func (m partReadModel) toEntity() entities.PartSnapshot {
	return entities.PartSnapshot{
		PartID:   m.ID,
		SellerID: m.SellerID,
		Name:     m.Name,
		Price:    m.Price,
		InStock:  m.InStock,
		ImageURL: m.ImageURL,
	}
}

type userReadModel struct {
	ID    int64  `gorm:"column:id;primaryKey"`
	Name  string `gorm:"column:name"`
	Email string `gorm:"column:email"`
}

func (userReadModel) TableName() string {
	return "users"
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
	return "order_outbox"
}

func (m outboxModel) toPort() ports.OutboxMessage {
	return ports.OutboxMessage{
		OutboxID:     m.OutboxID,
		EventType:    m.EventType,
		PartitionKey: m.PartitionKey,
		Payload:      m.Payload,
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
