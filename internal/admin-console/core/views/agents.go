package views

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"nolsaf-admin/internal/admin-console/core/domain/dto"
	"nolsaf-admin/internal/admin-console/core/domain/model"
	"nolsaf-admin/internal/admin-console/core/ports"
	"nolsaf-admin/internal/mylogger"
)

// AgentsView backs the agents admin page.
type AgentsView struct {
	gateway ports.IAgentsGateway
	auth    ports.IAuth
	journal ports.IActionJournal
	mylog   mylogger.Logger

	List   *ListState[model.Agent]
	Detail *Detail[model.Agent]

	search    *Debouncer
	statusBtn busyFlag
	ActionErr actionError
}

func NewAgentsView(gateway ports.IAgentsGateway, auth ports.IAuth, journal ports.IActionJournal, mylog mylogger.Logger) *AgentsView {
	mylog = mylog.With("view", "agents")
	return &AgentsView{
		gateway: gateway,
		auth:    auth,
		journal: journalOrNop(journal),
		mylog:   mylog,
		List:    NewListState("agents", gateway.ListAgents, auth, mylog),
		Detail:  NewDetail(gateway.GetAgent, mylog),
		search:  NewDebouncer(SearchDebounce),
	}
}

// Mount installs the session token and loads the first page.
func (v *AgentsView) Mount(ctx context.Context) error {
	if v.auth != nil {
		v.auth.ApplyAuth()
	}
	return v.List.Load(ctx)
}

func (v *AgentsView) SetStatus(ctx context.Context, status string) error {
	status, err := agentStatusFilter(status)
	if err != nil {
		return err
	}
	if !v.List.SetFilter("status", status) {
		return nil
	}
	return v.List.Load(ctx)
}

// AgentFilters is the whole filter bar of the agents page.
type AgentFilters struct {
	Status         string
	Q              string
	Education      string
	Specialization string
	Available      *bool
}

// Apply validates and installs every filter, then loads once.
func (v *AgentsView) Apply(ctx context.Context, f AgentFilters) error {
	status, err := agentStatusFilter(f.Status)
	if err != nil {
		return err
	}
	v.search.Stop()
	if v.auth != nil {
		v.auth.ApplyAuth()
	}
	available := ""
	if f.Available != nil {
		available = strconv.FormatBool(*f.Available)
	}
	v.List.SetFilter("status", status)
	v.List.SetFilter("q", strings.TrimSpace(f.Q))
	v.List.SetFilter("educationLevel", strings.TrimSpace(f.Education))
	v.List.SetFilter("specialization", strings.TrimSpace(f.Specialization))
	v.List.SetFilter("isAvailable", available)
	return v.List.Load(ctx)
}

func agentStatusFilter(status string) (string, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if status != "" && !model.AgentStatus(status).Valid() {
		return "", fmt.Errorf("%w: status %q", ErrInvalidFilter, status)
	}
	return status, nil
}

func (v *AgentsView) SetEducation(ctx context.Context, level string) error {
	return v.setAndLoad(ctx, "educationLevel", level)
}

func (v *AgentsView) SetSpecialization(ctx context.Context, specialization string) error {
	return v.setAndLoad(ctx, "specialization", specialization)
}

// SetAvailable filters by availability; nil clears the filter.
func (v *AgentsView) SetAvailable(ctx context.Context, available *bool) error {
	value := ""
	if available != nil {
		value = strconv.FormatBool(*available)
	}
	return v.setAndLoad(ctx, "isAvailable", value)
}

func (v *AgentsView) setAndLoad(ctx context.Context, key, value string) error {
	if !v.List.SetFilter(key, strings.TrimSpace(value)) {
		return nil
	}
	return v.List.Load(ctx)
}

// Search schedules a debounced reload for the free-text query. Only the last call
// within SearchDebounce triggers a request; done, when set, receives its result.
func (v *AgentsView) Search(ctx context.Context, q string, done func(error)) {
	q = strings.TrimSpace(q)
	v.search.Trigger(func() {
		v.List.SetFilter("q", q)
		err := v.List.Load(ctx)
		if done != nil {
			done(err)
		}
	})
}

// SearchNow applies q immediately, dropping any pending debounced search.
func (v *AgentsView) SearchNow(ctx context.Context, q string) error {
	v.search.Stop()
	return v.setAndLoad(ctx, "q", q)
}

// ViewDetails opens the detail modal for a raw id taken from a row or a link.
func (v *AgentsView) ViewDetails(ctx context.Context, rawID string) error {
	return v.Detail.Open(ctx, rawID)
}

// ChangeStatus sets an agent's status. A reason is mandatory.
func (v *AgentsView) ChangeStatus(ctx context.Context, id int64, status model.AgentStatus, reason string) error {
	if !status.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidFilter, status)
	}
	reason, err := ValidateReason(reason, 1)
	if err != nil {
		return err
	}
	if !v.statusBtn.acquire() {
		return ErrBusy
	}
	defer v.statusBtn.release()

	err = v.gateway.UpdateAgentStatus(ctx, id, dto.AgentStatusRequest{Status: string(status), Reason: reason})
	record(ctx, v.journal, v.mylog, model.JournalEntry{
		Action:   "agent.status." + strings.ToLower(string(status)),
		Entity:   "agent",
		EntityID: id,
		Reason:   reason,
	}, err)
	if err != nil {
		v.mylog.Action("agent_status_failed").Error("failed to change agent status", err, "agent_id", id)
		v.ActionErr.set(err)
		return err
	}

	v.ActionErr.set(nil)
	v.mylog.Action("agent_status_changed").Info("agent status changed", "agent_id", id, "status", status)
	_ = v.List.Load(ctx)
	_ = v.Detail.Refresh(ctx, id)
	return nil
}

// Close stops the pending search timer.
func (v *AgentsView) Close() {
	v.search.Stop()
}
