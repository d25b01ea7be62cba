// Package notify creates in-app notifications and, when Twilio is
// configured, delivers world invites by SMS as well.
package notify

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"

	"github.com/paracosm-app/backend/internal/config"
	"github.com/paracosm-app/backend/internal/models"
)

type Notifier struct {
	db   *gorm.DB
	sms  *twilio.RestClient
	from string
}

func New(db *gorm.DB, cfg *config.Config) *Notifier {
	n := &Notifier{db: db}
	if cfg.Twilio.AccountSID != "" && cfg.Twilio.AuthToken != "" {
		n.sms = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.Twilio.AccountSID,
			Password: cfg.Twilio.AuthToken,
		})
		n.from = cfg.Twilio.FromNumber
	}
	return n
}

// Notify stores an in-app notification for the user.
func (n *Notifier) Notify(userID int, kind, message string, worldID *int) error {
	notification := models.Notification{
		UserID:  userID,
		Kind:    kind,
		Message: message,
		WorldID: worldID,
	}
	if err := n.db.Create(&notification).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// Invite notifies the user of a world invite and sends an SMS when both
// Twilio and the user's phone number are available. SMS failure is logged
// and swallowed; the in-app notification is the authoritative record.
func (n *Notifier) Invite(user models.User, world models.World, invitedBy string) error {
	message := fmt.Sprintf("%s invited you to inhabit %s", invitedBy, world.Name)
	if err := n.Notify(user.ID, models.NotifyInvite, message, &world.ID); err != nil {
		return err
	}

	if n.sms == nil || user.Phone == "" {
		return nil
	}

	params := &twilioapi.CreateMessageParams{}
	params.SetTo(user.Phone)
	params.SetFrom(n.from)
	params.SetBody(message + ". Join at paracosm.app/w/" + world.ShareToken)
	if _, err := n.sms.Api.CreateMessage(params); err != nil {
		log.Warn().Err(err).Int("user_id", user.ID).Msg("invite SMS failed")
	}
	return nil
}
