package model

// LinkButton is one inline button. Exactly one of URL or Data is set:
// URL opens a link, Data is sent back to the bot as callback data.
type LinkButton struct {
	Label string
	URL   string
	Data  string
}

func (b LinkButton) IsCallback() bool { return b.URL == "" && b.Data != "" }

// Response is the rendered reply for one command.
type Response struct {
	Text      string
	Buttons   []LinkButton
	ParseMode string
	// ReplaceSource asks the sender to edit the message whose button was
	// pressed instead of posting a new one.
	ReplaceSource bool
}

// Clone returns a copy that does not share the button slice.
func (r Response) Clone() Response {
	out := r
	if r.Buttons != nil {
		out.Buttons = make([]LinkButton, len(r.Buttons))
		copy(out.Buttons, r.Buttons)
	}
	return out
}

// Reply is the instruction handed to the outbound sender.
type Reply struct {
	ChatID   int64
	Command  Command
	Response Response

	// CallbackQueryID must be acknowledged by the sender whenever it is set.
	CallbackQueryID string
	// EditMessageID, when non-zero, is the message to edit in place.
	EditMessageID int
}

// HasCallback reports whether the reply carries a callback query to acknowledge.
func (r Reply) HasCallback() bool { return r.CallbackQueryID != "" }
