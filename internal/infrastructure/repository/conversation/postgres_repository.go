package conversation

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "chat-server/internal/domain/conversation"
	"chat-server/internal/infrastructure/database/entities"
	"chat-server/internal/utils/platformerrors"
)

// Repository persists conversations and their messages in PostgreSQL.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a conversation repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// scoped narrows a conversation query to rows the scope may touch.
// Superusers see every row.
func scoped(query *gorm.DB, scope domain.Scope) *gorm.DB {
	if scope.Superuser {
		return query
	}
	return query.Where("user_id = ?", scope.UserID)
}

// Create inserts the conversation record, provisioning the owner's user
// row on first use so the ownership reference always resolves.
func (r *Repository) Create(ctx context.Context, conv *domain.Conversation) error {
	entity := entities.NewSchemaConversation(conv)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owner := entities.User{ID: conv.UserID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&owner).Error; err != nil {
			return err
		}
		return tx.Create(entity).Error
	})
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create conversation",
			err,
			"conversation-create",
		)
	}

	conv.ID = entity.ID
	conv.CreatedAt = entity.CreatedAt
	conv.UpdatedAt = entity.UpdatedAt
	return nil
}

// FindByID fetches a conversation visible to the scope together with its
// messages in append order, or nil when no such row exists.
func (r *Repository) FindByID(ctx context.Context, id uint, scope domain.Scope) (*domain.Conversation, error) {
	var entity entities.Conversation
	err := scoped(r.db.WithContext(ctx), scope).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		First(&entity, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch conversation",
			err,
			"conversation-find",
		)
	}
	return entity.EtoD(), nil
}

// List returns conversation summaries visible to the scope, most recently
// updated first, each with its latest message when one exists.
func (r *Repository) List(ctx context.Context, scope domain.Scope, skip, limit int) ([]domain.Summary, error) {
	var rows []entities.Conversation
	err := scoped(r.db.WithContext(ctx), scope).
		Order("updated_at DESC").
		Offset(skip).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list conversations",
			err,
			"conversation-list",
		)
	}

	summaries := make([]domain.Summary, 0, len(rows))
	for _, row := range rows {
		summary := domain.Summary{
			ID:        row.ID,
			Title:     row.Title,
			UpdatedAt: row.UpdatedAt,
		}

		var last entities.Message
		err := r.db.WithContext(ctx).
			Where("conversation_id = ?", row.ID).
			Order("sequence DESC").
			First(&last).Error
		if err == nil {
			summary.LastMessage = &last.Content
			summary.LastMessageTime = &last.CreatedAt
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeDatabaseError,
				"failed to fetch latest message",
				err,
				"conversation-list-last-message",
			)
		}

		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// UpdateTitle sets the title of a conversation visible to the scope and
// returns the updated conversation, or nil when no such row exists.
func (r *Repository) UpdateTitle(ctx context.Context, id uint, scope domain.Scope, title string) (*domain.Conversation, error) {
	var entity entities.Conversation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := scoped(tx, scope).First(&entity, id).Error; err != nil {
			return err
		}
		return tx.Model(&entity).Updates(map[string]any{
			"title":      title,
			"updated_at": time.Now().UTC(),
		}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update conversation title",
			err,
			"conversation-update-title",
		)
	}
	return entity.EtoD(), nil
}

// Delete removes a conversation and all of its messages. It reports
// whether a row was deleted; deleting an absent row is not an error.
func (r *Repository) Delete(ctx context.Context, id uint, scope domain.Scope) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entity entities.Conversation
		if err := scoped(tx, scope).First(&entity, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if err := tx.Where("conversation_id = ?", entity.ID).Delete(&entities.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&entity).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete conversation",
			err,
			"conversation-delete",
		)
	}
	return deleted, nil
}

// AddMessage appends a message to a conversation visible to the scope.
// The sequence number is assigned under a row lock on the conversation,
// so concurrent appends to one conversation serialize and the ordering
// never depends on clock resolution. Returns nil when the conversation
// does not exist for the scope.
func (r *Repository) AddMessage(ctx context.Context, conversationID uint, scope domain.Scope, msg *domain.Message) (*domain.Message, error) {
	var entity *entities.Message
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conv entities.Conversation
		if err := scoped(tx.Clauses(clause.Locking{Strength: "UPDATE"}), scope).
			First(&conv, conversationID).Error; err != nil {
			return err
		}

		var next int64
		if err := tx.Model(&entities.Message{}).
			Where("conversation_id = ?", conv.ID).
			Select("COALESCE(MAX(sequence), 0) + 1").
			Scan(&next).Error; err != nil {
			return err
		}

		msg.ConversationID = conv.ID
		msg.Sequence = next

		var convErr error
		entity, convErr = entities.NewSchemaMessage(msg)
		if convErr != nil {
			return convErr
		}
		if err := tx.Create(entity).Error; err != nil {
			return err
		}

		return tx.Model(&conv).Update("updated_at", time.Now().UTC()).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to append message",
			err,
			"message-append",
		)
	}
	return entity.EtoD(), nil
}

// ListMessages returns a conversation's messages in append order. An
// absent conversation yields an empty list.
func (r *Repository) ListMessages(ctx context.Context, conversationID uint, scope domain.Scope, skip, limit int) ([]domain.Message, error) {
	var visible int64
	err := scoped(r.db.WithContext(ctx).Model(&entities.Conversation{}), scope).
		Where("id = ?", conversationID).
		Count(&visible).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to check conversation",
			err,
			"message-list-check",
		)
	}
	if visible == 0 {
		return []domain.Message{}, nil
	}

	var rows []entities.Message
	err = r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("sequence ASC").
		Offset(skip).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list messages",
			err,
			"message-list",
		)
	}

	messages := make([]domain.Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, *row.EtoD())
	}
	return messages, nil
}
