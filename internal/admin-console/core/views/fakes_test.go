package views

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"sync"

	"nolsaf-admin/internal/admin-console/core/domain/dto"
	"nolsaf-admin/internal/admin-console/core/domain/model"
	"nolsaf-admin/internal/mylogger"
)

func testLogger() mylogger.Logger {
	return mylogger.NewWithWriter(mylogger.LevelError, io.Discard)
}

type fakeAuth struct {
	mu    sync.Mutex
	calls int
}

func (a *fakeAuth) ApplyAuth() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	return true
}

func (a *fakeAuth) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

type fakeJournal struct {
	mu      sync.Mutex
	entries []model.JournalEntry
	err     error
}

func (j *fakeJournal) Record(_ context.Context, e model.JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
	return j.err
}

func (j *fakeJournal) Entries() []model.JournalEntry {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]model.JournalEntry(nil), j.entries...)
}

// queryLog records the query of every list call.
type queryLog struct {
	mu      sync.Mutex
	queries []url.Values
}

func (q *queryLog) add(v url.Values) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.queries = append(q.queries, v)
}

func (q *queryLog) All() []url.Values {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]url.Values(nil), q.queries...)
}

func (q *queryLog) Last() url.Values {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.queries) == 0 {
		return nil
	}
	return q.queries[len(q.queries)-1]
}

func (q *queryLog) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queries)
}

func pageOf[T any](items []T, total int) dto.Page[T] {
	return dto.Page[T]{Items: items, Total: total, Page: 1, PageSize: PageSize}
}

var errBackend = errors.New("backend unavailable")

type fakeAgents struct {
	queryLog
	page       dto.Page[model.Agent]
	listErr    error
	agents     map[int64]model.Agent
	getCalls   int
	statusReqs []dto.AgentStatusRequest
	statusErr  error
}

func (f *fakeAgents) ListAgents(_ context.Context, q url.Values) (dto.Page[model.Agent], error) {
	f.add(q)
	if f.listErr != nil {
		return dto.Page[model.Agent]{}, f.listErr
	}
	return f.page, nil
}

func (f *fakeAgents) GetAgent(_ context.Context, id int64) (model.Agent, error) {
	f.getCalls++
	a, ok := f.agents[id]
	if !ok {
		return model.Agent{}, fmt.Errorf("agent %d: %w", id, errBackend)
	}
	return a, nil
}

func (f *fakeAgents) UpdateAgentStatus(_ context.Context, _ int64, req dto.AgentStatusRequest) error {
	f.statusReqs = append(f.statusReqs, req)
	return f.statusErr
}

type fakeDriverLevels struct {
	drivers     queryLog
	messages    queryLog
	driverPage  dto.Page[model.DriverWithLevel]
	messagePage dto.Page[model.DriverLevelMessage]
	byID        map[int64]model.DriverWithLevel
	responses   []dto.RespondMessageRequest
	resolves    []dto.ResolveMessageRequest
	actionErr   error
}

func (f *fakeDriverLevels) ListDrivers(_ context.Context, q url.Values) (dto.Page[model.DriverWithLevel], error) {
	f.drivers.add(q)
	return f.driverPage, nil
}

func (f *fakeDriverLevels) GetDriver(_ context.Context, id int64) (model.DriverWithLevel, error) {
	d, ok := f.byID[id]
	if !ok {
		return model.DriverWithLevel{}, errBackend
	}
	return d, nil
}

func (f *fakeDriverLevels) ListMessages(_ context.Context, q url.Values) (dto.Page[model.DriverLevelMessage], error) {
	f.messages.add(q)
	return f.messagePage, nil
}

func (f *fakeDriverLevels) RespondMessage(_ context.Context, _ int64, req dto.RespondMessageRequest) error {
	f.responses = append(f.responses, req)
	return f.actionErr
}

func (f *fakeDriverLevels) ResolveMessage(_ context.Context, _ int64, req dto.ResolveMessageRequest) error {
	f.resolves = append(f.resolves, req)
	return f.actionErr
}

type fakeTrips struct {
	queryLog
	page      dto.Page[model.TripRow]
	details   map[int64]model.TripDetailsResponse
	getCalls  int
	cancels   []dto.ReasonRequest
	unassigns []dto.ReasonRequest
	assigns   []dto.AssignTripRequest
	actionErr error
	// block, when set, holds actions until closed.
	block chan struct{}
}

func (f *fakeTrips) ListTrips(_ context.Context, q url.Values) (dto.Page[model.TripRow], error) {
	f.add(q)
	return f.page, nil
}

func (f *fakeTrips) GetTrip(_ context.Context, id int64) (model.TripDetailsResponse, error) {
	f.getCalls++
	d, ok := f.details[id]
	if !ok {
		return model.TripDetailsResponse{}, errBackend
	}
	return d, nil
}

func (f *fakeTrips) AssignTrip(_ context.Context, _ int64, req dto.AssignTripRequest) error {
	f.assigns = append(f.assigns, req)
	return f.actionErr
}

func (f *fakeTrips) UnassignTrip(_ context.Context, _ int64, req dto.ReasonRequest) error {
	f.unassigns = append(f.unassigns, req)
	return f.actionErr
}

func (f *fakeTrips) CancelTrip(_ context.Context, _ int64, req dto.ReasonRequest) error {
	if f.block != nil {
		<-f.block
	}
	f.cancels = append(f.cancels, req)
	return f.actionErr
}

type fakePassengers struct {
	queryLog
	page dto.Page[model.PassengerRow]
}

func (f *fakePassengers) ListPassengers(_ context.Context, q url.Values) (dto.Page[model.PassengerRow], error) {
	f.add(q)
	return f.page, nil
}

type fakeBookings struct {
	mu         sync.Mutex
	owner      []model.OwnerBooking
	ownerTotal int
	groups     []model.GroupStayBooking
	groupErr   error
	plans      []model.PlanRequest
	ownerCalls int
}

func slicePage[T any](items []T, total int, q url.Values) dto.Page[T] {
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("pageSize"))
	start := (page - 1) * size
	if start > len(items) {
		start = len(items)
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return dto.Page[T]{Items: items[start:end], Total: total, Page: page, PageSize: size}
}

func (f *fakeBookings) ListOwnerBookings(_ context.Context, q url.Values) (dto.Page[model.OwnerBooking], error) {
	f.mu.Lock()
	f.ownerCalls++
	f.mu.Unlock()
	total := f.ownerTotal
	if total == 0 {
		total = len(f.owner)
	}
	return slicePage(f.owner, total, q), nil
}

func (f *fakeBookings) ListGroupStayBookings(_ context.Context, q url.Values) (dto.Page[model.GroupStayBooking], error) {
	if f.groupErr != nil {
		return dto.Page[model.GroupStayBooking]{}, f.groupErr
	}
	return slicePage(f.groups, len(f.groups), q), nil
}

func (f *fakeBookings) ListPlanRequests(_ context.Context, q url.Values) (dto.Page[model.PlanRequest], error) {
	return slicePage(f.plans, len(f.plans), q), nil
}

type fakePayments struct {
	queryLog
	mu           sync.Mutex
	page         dto.Page[model.InvoicePayment]
	summary      model.PaymentSummary
	summaryCalls int
	marked       map[int64]string
	failIDs      map[int64]bool
	exportQuery  url.Values
	csv          string
	qr           []byte
	qrErr        error
}

func (f *fakePayments) ListPayments(_ context.Context, q url.Values) (dto.Page[model.InvoicePayment], error) {
	f.add(q)
	return f.page, nil
}

func (f *fakePayments) GetPayment(_ context.Context, id int64) (model.InvoicePayment, error) {
	for _, p := range f.page.Items {
		if p.ID == id {
			return p, nil
		}
	}
	return model.InvoicePayment{}, errBackend
}

func (f *fakePayments) Summary(context.Context, url.Values) (model.PaymentSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.summaryCalls++
	return f.summary, nil
}

func (f *fakePayments) MarkPaid(_ context.Context, id int64, req dto.MarkPaidRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIDs[id] {
		return errBackend
	}
	if f.marked == nil {
		f.marked = map[int64]string{}
	}
	f.marked[id] = req.Reference
	return nil
}

func (f *fakePayments) ExportCSV(_ context.Context, q url.Values) (io.ReadCloser, error) {
	f.exportQuery = q
	return io.NopCloser(bytes.NewBufferString(f.csv)), nil
}

func (f *fakePayments) ReceiptQR(context.Context, int64) ([]byte, string, error) {
	if f.qrErr != nil {
		return nil, "", f.qrErr
	}
	return f.qr, "image/png", nil
}

func (f *fakePayments) ReceiptQRURL(id int64) string {
	return fmt.Sprintf("http://api.local/api/admin/payments/%d/receipt-qr", id)
}
