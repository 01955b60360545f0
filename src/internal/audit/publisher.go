package audit

import (
	"encoding/json"
	"time"

	"pctracer-svc/src/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Publisher records security-relevant dashboard events. Implementations must not
// fail the calling request: errors are logged and dropped.
type Publisher interface {
	Publish(msg models.AuditMessage)
}

// Transport is the broker side of a publisher; clients.RabbitMQ satisfies it.
type Transport interface {
	Publish(body []byte) error
}

type brokerPublisher struct {
	transport Transport
	now       func() time.Time
}

func NewPublisher(transport Transport) Publisher {
	if transport == nil {
		return NoopPublisher{}
	}
	return &brokerPublisher{transport: transport, now: time.Now}
}

func (p *brokerPublisher) Publish(msg models.AuditMessage) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = p.now()
	}

	body, err := json.Marshal(msg)
	if err != nil {
		logrus.WithError(err).WithField("action", msg.Action).Error("Failed to marshal audit message")
		return
	}

	if err := p.transport.Publish(body); err != nil {
		logrus.WithError(err).WithField("action", msg.Action).Error("Failed to publish audit message")
		return
	}

	logrus.WithFields(logrus.Fields{
		"action":    msg.Action,
		"actor_id":  msg.ActorID,
		"target_id": msg.TargetID,
	}).Debug("Audit message published")
}

// NoopPublisher only logs; used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(msg models.AuditMessage) {
	logrus.WithFields(logrus.Fields{
		"action":    msg.Action,
		"actor_id":  msg.ActorID,
		"target_id": msg.TargetID,
	}).Debug("Audit event (broker disabled)")
}

// FromRequest builds a message attributed to the logged-in admin, when there is one.
func FromRequest(c *gin.Context, action, targetID string, metadata map[string]string) models.AuditMessage {
	return models.AuditMessage{
		Action:    action,
		ActorID:   c.GetString("user_id"),
		ActorName: c.GetString("user_name"),
		TargetID:  targetID,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Metadata:  metadata,
	}
}
