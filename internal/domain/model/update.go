package model

// IncomingUpdate is the read-only view of one provider update the dispatcher needs.
// It is never stored.
type IncomingUpdate struct {
	UpdateID  int
	ChatID    int64
	MessageID int
	FromID    int64
	Username  string

	Text string
	// Command is set when the provider marked the text as a bot command.
	Command string

	CallbackQueryID string
	CallbackData    string
}

func (u IncomingUpdate) IsCallback() bool { return u.CallbackQueryID != "" }
