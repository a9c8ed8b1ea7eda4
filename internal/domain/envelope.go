package domain

import "encoding/json"

// Message type discriminants. The envelope set is deliberately closed: the
// live channel carries auth handshakes inbound and notification pushes
// outbound, nothing else.
const (
	MessageTypeAuth         = "auth"
	MessageTypeNotification = "notification"
)

// ClientMessage is a decoded inbound envelope. Exactly one concrete variant
// exists today; the sealed interface keeps the decoder the single place new
// discriminants get added.
type ClientMessage interface {
	clientMessage()
}

// AuthMessage is the handshake a client sends immediately after opening the
// connection: {"type":"auth","token":"<credential>"}.
type AuthMessage struct {
	Token string
}

func (AuthMessage) clientMessage() {}

type clientEnvelope struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// DecodeClientMessage parses an inbound frame into a typed variant. Unparseable
// JSON yields ErrMalformedMessage, a recognised envelope with missing fields
// likewise, and anything with an unhandled type yields ErrUnknownMessageType.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var env clientEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, ErrMalformedMessage
	}

	switch env.Type {
	case MessageTypeAuth:
		if env.Token == "" {
			return nil, ErrMalformedMessage
		}
		return AuthMessage{Token: env.Token}, nil
	default:
		return nil, ErrUnknownMessageType
	}
}

// PushEnvelope is the server-to-client envelope wrapping a notification record.
type PushEnvelope struct {
	Type string        `json:"type"`
	Data *Notification `json:"data"`
}

// EncodePush serializes a notification into its push envelope.
func EncodePush(n *Notification) ([]byte, error) {
	return json.Marshal(PushEnvelope{Type: MessageTypeNotification, Data: n})
}
