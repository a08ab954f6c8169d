package contracts

import "context"

// PushMessage is one notification handed to the delivery provider.
type PushMessage struct {
	Title string
	Body  string
	Data  map[string]string
	Token string
}

// Push is the external notification provider. Send returns the
// provider's delivery id on success.
type Push interface {
	Send(ctx context.Context, msg PushMessage) (string, error)
}
