package usecases

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rpupo63/chantier-backend/database"
	"github.com/rpupo63/chantier-backend/errs"
	"github.com/rpupo63/chantier-backend/models"
	"github.com/rpupo63/chantier-backend/services"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
)

const (
	NoticeBudgetOverrun     = "budget_overrun"
	NoticeIncidentReported  = "incident_reported"
	NoticeValidationRequest = "validation_requested"
	NoticeDecisionLogged    = "decision_logged"
	NoticeTeamMemberInvited = "team_member_invited"
)

var allChannels = []string{services.ChannelMail, services.ChannelDatabase, services.ChannelBroadcast}

// dispatcher splits a notification in two: the in-app rows are written with
// the caller's transaction, everything else goes out once it has committed.
type dispatcher struct {
	deliverer      Deliverer
	deliveryLogger zerolog.Logger
}

type pendingNotice struct {
	recipients []services.Recipient
	notice     services.Notice
}

// persist writes the database channel for every user of the account and
// returns what remains to be delivered.
func (d dispatcher) persist(ctx context.Context, tx database.Database, accountID uuid.UUID, notice services.Notice) (pendingNotice, error) {
	users, err := tx.UserRepo().FindByAccount(ctx, accountID)
	if err != nil {
		return pendingNotice{}, errs.NewDatabaseError("find", "account users", err)
	}

	recipients := make([]services.Recipient, 0, len(users))
	for _, u := range users {
		recipients = append(recipients, services.Recipient{UserID: u.ID, Name: u.Name, Email: u.Email})
	}

	if notice.Has(services.ChannelDatabase) {
		raw, err := json.Marshal(notice.Data)
		if err != nil {
			return pendingNotice{}, errs.NewInternalErrorWithCause("encode notification data", err)
		}

		rows := make([]models.Notification, 0, len(users))
		for _, u := range users {
			rows = append(rows, models.Notification{UserID: u.ID, Type: notice.Type, Data: datatypes.JSON(raw)})
		}
		if err := tx.NotificationRepo().AddMany(ctx, rows); err != nil {
			return pendingNotice{}, errs.NewDatabaseError("create", "notifications", err)
		}
	}

	return pendingNotice{recipients: recipients, notice: notice}, nil
}

// deliver never fails the request. A broken mail provider or broadcast
// channel is logged and counted.
func (d dispatcher) deliver(ctx context.Context, p pendingNotice) {
	if d.deliverer == nil || len(p.recipients) == 0 {
		return
	}
	if err := d.deliverer.Deliver(context.WithoutCancel(ctx), p.recipients, p.notice); err != nil {
		d.deliveryLogger.Error().Err(err).Str("type", p.notice.Type).Int("recipients", len(p.recipients)).Msg("Notification delivery failed")
	}
}

// NotificationUseCase serves a user's in-app inbox.
type NotificationUseCase struct {
	base
}

type NotificationPage struct {
	Notifications []models.Notification `json:"notifications"`
	Total         int64                 `json:"total"`
	Unread        int64                 `json:"unread"`
	Page          int                   `json:"page"`
	PageSize      int                   `json:"page_size"`
}

func (uc *NotificationUseCase) List(ctx context.Context, a Actor, page int) (*NotificationPage, error) {
	if page < 1 {
		page = 1
	}

	notifications, total, err := uc.db.NotificationRepo().FindByUser(ctx, a.UserID, page)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "notifications", err)
	}
	unread, err := uc.db.NotificationRepo().CountUnread(ctx, a.UserID)
	if err != nil {
		return nil, errs.NewDatabaseError("count", "notifications", err)
	}

	return &NotificationPage{
		Notifications: notifications,
		Total:         total,
		Unread:        unread,
		Page:          page,
		PageSize:      database.NotificationPageSize,
	}, nil
}

// MarkRead refuses notifications addressed to someone else.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, a Actor, id uuid.UUID) error {
	notification, err := uc.db.NotificationRepo().FindByID(ctx, id)
	if err != nil {
		return errs.NewDatabaseError("find", "notification", err)
	}
	if notification.UserID != a.UserID {
		return errs.NewForbiddenError("notification belongs to another user")
	}
	if err := uc.db.NotificationRepo().MarkRead(ctx, id, uc.now()); err != nil {
		return errs.NewDatabaseError("update", "notification", err)
	}
	return nil
}

func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, a Actor) (int64, error) {
	n, err := uc.db.NotificationRepo().MarkAllRead(ctx, a.UserID, uc.now())
	if err != nil {
		return 0, errs.NewDatabaseError("update", "notifications", err)
	}
	return n, nil
}
