package consumer

import (
	"github.com/Wendyzhou/eventkit/internal/domain"
)

// MessageParser turns a queued message body back into an insertable row
type MessageParser interface {
	Parse(body []byte) (domain.Row, error)
}
