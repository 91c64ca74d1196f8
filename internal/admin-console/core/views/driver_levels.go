package views

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"nolsaf-admin/internal/admin-console/core/domain/dto"
	"nolsaf-admin/internal/admin-console/core/domain/model"
	"nolsaf-admin/internal/admin-console/core/ports"
	"nolsaf-admin/internal/mylogger"
)

type DriverLevelsTab string

const (
	TabDrivers  DriverLevelsTab = "drivers"
	TabMessages DriverLevelsTab = "messages"
)

// DriverLevelsView backs the driver levels page: a drivers tab, a support
// messages tab and the live notification feed.
type DriverLevelsView struct {
	gateway ports.IDriverLevelsGateway
	auth    ports.IAuth
	journal ports.IActionJournal
	mylog   mylogger.Logger

	tabMu sync.Mutex
	tab   DriverLevelsTab

	Drivers  *ListState[model.DriverWithLevel]
	Driver   *Detail[model.DriverWithLevel]
	Messages *ListState[model.DriverLevelMessage]
	Toast    Toast

	messageBtn busyFlag
	ActionErr  actionError
}

func NewDriverLevelsView(gateway ports.IDriverLevelsGateway, auth ports.IAuth, journal ports.IActionJournal, mylog mylogger.Logger) *DriverLevelsView {
	mylog = mylog.With("view", "driver_levels")
	return &DriverLevelsView{
		gateway:  gateway,
		auth:     auth,
		journal:  journalOrNop(journal),
		mylog:    mylog,
		tab:      TabDrivers,
		Drivers:  NewListState("driver_levels", gateway.ListDrivers, auth, mylog),
		Driver:   NewDetail(gateway.GetDriver, mylog),
		Messages: NewListState("driver_level_messages", gateway.ListMessages, auth, mylog),
	}
}

// Mount loads the active tab. A driverId parameter in query opens that driver's
// detail right away.
func (v *DriverLevelsView) Mount(ctx context.Context, query url.Values) error {
	if v.auth != nil {
		v.auth.ApplyAuth()
	}
	if err := v.loadTab(ctx); err != nil {
		return err
	}
	if raw := strings.TrimSpace(query.Get("driverId")); raw != "" {
		return v.Driver.Open(ctx, raw)
	}
	return nil
}

func (v *DriverLevelsView) Tab() DriverLevelsTab {
	v.tabMu.Lock()
	defer v.tabMu.Unlock()
	return v.tab
}

func (v *DriverLevelsView) SetTab(ctx context.Context, tab DriverLevelsTab) error {
	if tab != TabDrivers && tab != TabMessages {
		return fmt.Errorf("%w: tab %q", ErrInvalidFilter, tab)
	}
	v.tabMu.Lock()
	v.tab = tab
	v.tabMu.Unlock()
	return v.loadTab(ctx)
}

func (v *DriverLevelsView) loadTab(ctx context.Context) error {
	if v.Tab() == TabMessages {
		return v.Messages.Load(ctx)
	}
	return v.Drivers.Load(ctx)
}

func (v *DriverLevelsView) SetMessageStatus(ctx context.Context, status string) error {
	status = strings.ToUpper(strings.TrimSpace(status))
	switch model.MessageStatus(status) {
	case "", model.MessagePending, model.MessageResponded, model.MessageResolved:
	default:
		return fmt.Errorf("%w: status %q", ErrInvalidFilter, status)
	}
	if !v.Messages.SetFilter("status", status) {
		return nil
	}
	return v.Messages.Load(ctx)
}

func (v *DriverLevelsView) SearchDrivers(ctx context.Context, q string) error {
	if !v.Drivers.SetFilter("q", strings.TrimSpace(q)) {
		return nil
	}
	return v.Drivers.Load(ctx)
}

func (v *DriverLevelsView) ViewDriver(ctx context.Context, rawID string) error {
	return v.Driver.Open(ctx, rawID)
}

// Respond posts an admin reply to a driver message.
func (v *DriverLevelsView) Respond(ctx context.Context, id int64, response string) error {
	response, err := ValidateReason(response, 1)
	if err != nil {
		return err
	}
	return v.messageAction(ctx, "driver_message.respond", id, response, func() error {
		return v.gateway.RespondMessage(ctx, id, dto.RespondMessageRequest{Response: response})
	})
}

// Resolve closes a driver message with a note.
func (v *DriverLevelsView) Resolve(ctx context.Context, id int64, note string) error {
	note, err := ValidateReason(note, 1)
	if err != nil {
		return err
	}
	return v.messageAction(ctx, "driver_message.resolve", id, note, func() error {
		return v.gateway.ResolveMessage(ctx, id, dto.ResolveMessageRequest{Note: note})
	})
}

func (v *DriverLevelsView) messageAction(ctx context.Context, action string, id int64, text string, call func() error) error {
	if !v.messageBtn.acquire() {
		return ErrBusy
	}
	defer v.messageBtn.release()

	err := call()
	record(ctx, v.journal, v.mylog, model.JournalEntry{
		Action:   action,
		Entity:   "driver_level_message",
		EntityID: id,
		Reason:   text,
	}, err)
	if err != nil {
		v.mylog.Action("driver_message_action_failed").Error("driver message action failed", err, "message_id", id, "action", action)
		v.ActionErr.set(err)
		return err
	}
	v.ActionErr.set(nil)
	_ = v.Messages.Load(ctx)
	return nil
}

// Watch subscribes to the live channel and blocks until ctx is done. A new
// driver message reloads the messages list and raises a toast. Connection
// failures are logged and otherwise ignored.
func (v *DriverLevelsView) Watch(ctx context.Context, sub ports.IEventSubscriber) {
	if sub == nil {
		return
	}
	err := sub.Subscribe(ctx, func(ev dto.Event) {
		v.HandleEvent(ctx, ev)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		v.mylog.Action("live_channel_failed").Warn("live channel unavailable", "error", err.Error())
	}
}

// HandleEvent applies one live event.
func (v *DriverLevelsView) HandleEvent(ctx context.Context, ev dto.Event) {
	if ev.Type != dto.EventNewDriverMessage || v.Tab() != TabMessages {
		return
	}

	var payload dto.NewDriverMessageEvent
	if len(ev.Data) > 0 {
		if err := json.Unmarshal(ev.Data, &payload); err != nil {
			v.mylog.Action("live_event_decode_failed").Warn("bad live event payload", "error", err.Error())
		}
	}

	_ = v.Messages.Load(ctx)
	v.Toast.Show(toastText(payload), ToastTTL)
}

func toastText(p dto.NewDriverMessageEvent) string {
	switch {
	case p.DriverName != "" && p.Subject != "":
		return fmt.Sprintf("New message from %s: %s", p.DriverName, p.Subject)
	case p.DriverName != "":
		return "New message from " + p.DriverName
	}
	return "New driver level message"
}
