package application

import (
	"strings"
	"time"

	"xeyronox-link-bot/internal/catalog"
	"xeyronox-link-bot/internal/domain/model"
	"xeyronox-link-bot/internal/infra/metrics"
)

const TimeLayout = "2006-01-02 15:04:05"

// Dispatcher turns an incoming update into a reply. It does no I/O; the
// clock is read only for the status and wisdom texts.
type Dispatcher struct {
	cat    *catalog.Catalog
	status model.ProcessStatus
	now    func() time.Time
}

func NewDispatcher(cat *catalog.Catalog, status model.ProcessStatus, clock func() time.Time) *Dispatcher {
	if clock == nil {
		clock = time.Now
	}
	return &Dispatcher{cat: cat, status: status, now: clock}
}

// Dispatch never fails: anything it cannot place becomes the unknown reply.
func (d *Dispatcher) Dispatch(u model.IncomingUpdate) model.Reply {
	cmd := d.cat.Resolve(extractToken(u))

	var resp model.Response
	switch cmd {
	case model.CmdStatus:
		now := d.now().UTC()
		resp = d.cat.Render(cmd,
			now.Format(TimeLayout),
			d.status.Environment,
			model.FormatUptime(d.status.Uptime(now)),
			d.status.Version,
		)
	case model.CmdWisdom:
		resp = d.Wisdom()
	default:
		resp = d.cat.Lookup(cmd)
	}

	reply := model.Reply{
		ChatID:          u.ChatID,
		Command:         cmd,
		Response:        resp,
		CallbackQueryID: u.CallbackQueryID,
	}
	if resp.ReplaceSource && u.IsCallback() && u.MessageID != 0 {
		reply.EditMessageID = u.MessageID
	}
	metrics.IncTelegramCommand(cmd.String())
	return reply
}

// Wisdom renders today's quote. The broadcaster uses it directly.
func (d *Dispatcher) Wisdom() model.Response {
	now := d.now().UTC()
	return d.cat.Render(model.CmdWisdom, d.cat.QuoteOfDay(now), now.Format(TimeLayout))
}

func (d *Dispatcher) Status() model.ProcessStatus { return d.status }

func (d *Dispatcher) Catalog() *catalog.Catalog { return d.cat }

func extractToken(u model.IncomingUpdate) string {
	if u.Command != "" {
		return u.Command
	}
	if t := strings.TrimSpace(u.Text); strings.HasPrefix(t, "/") {
		if f := strings.Fields(t); len(f) > 0 {
			return f[0]
		}
	}
	return u.CallbackData
}
