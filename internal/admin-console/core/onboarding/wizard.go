package onboarding

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"nolsaf-admin/internal/admin-console/core/domain/dto"
	"nolsaf-admin/internal/admin-console/core/ports"
	"nolsaf-admin/internal/apiclient"
	"nolsaf-admin/internal/mylogger"
)

const (
	RoleDriver = "driver"

	OTPCooldown   = 60 * time.Second
	RedirectDelay = 1500 * time.Millisecond
)

var (
	ErrInvalidStep   = errors.New("step is out of range")
	ErrStepNotValid  = errors.New("current step has invalid fields")
	ErrIncomplete    = errors.New("profile is incomplete")
	ErrPhoneLocked   = errors.New("payment phone is verified and locked")
	ErrCooldown      = errors.New("wait before requesting another code")
	ErrBusy          = errors.New("submission already in progress")
	ErrUnknownField  = errors.New("unknown field")
	ErrAlreadyDone   = errors.New("profile already submitted")
	ErrRoleMismatch  = errors.New("account role does not match onboarding role")
	ErrSubmitFailed  = errors.New("profile submission failed")
	ErrOTPFailed     = errors.New("otp request failed")
	ErrFieldRequired = errors.New("field is required")
)

// Step names in display order for the driver flow.
var driverSteps = []string{"Personal", "Driving", "Payment", "Uploads", "Review"}

// Fields validated by Next on each driver step. Uploads is not gated.
var driverStepFields = map[int][]Field{
	1: {FieldName, FieldEmail},
	2: {FieldLicenseNumber, FieldVehicleType, FieldPlateNumber},
	3: {FieldPaymentPhone},
}

var allDriverFields = []Field{
	FieldName, FieldEmail,
	FieldLicenseNumber, FieldVehicleType, FieldPlateNumber,
	FieldPaymentPhone,
	FieldLicenseFile, FieldIDFile,
}

var basicFields = []Field{FieldName, FieldEmail}

var redirects = map[string]string{
	RoleDriver: "/driver",
	"owner":    "/owner",
	"customer": "/account",
}

// Clock is the time source of the OTP cooldown.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type Option func(*Wizard)

func WithClock(c Clock) Option {
	return func(w *Wizard) { w.clock = c }
}

// WithReferral attaches a referral code sent as ref on submit.
func WithReferral(code string) Option {
	return func(w *Wizard) { w.referral = strings.TrimSpace(code) }
}

// ReferralFromURL reads the ref query parameter of a page URL.
func ReferralFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(u.Query().Get("ref"))
}

// Result is the outcome of a successful submission.
type Result struct {
	Message       string
	Redirect      string
	RedirectAfter time.Duration
}

// Wizard is the role-parameterised onboarding form. Forward moves are gated
// by step validation; backward moves are free.
type Wizard struct {
	gateway  ports.IOnboardingGateway
	mylog    mylogger.Logger
	clock    Clock
	role     string
	referral string

	mu          sync.Mutex
	step        int
	reached     int
	draft       Draft
	errs        map[Field]string
	focus       Field
	otpSentAt   time.Time
	phoneLocked bool
	submitting  bool
	done        bool
	message     string
}

func New(role string, gateway ports.IOnboardingGateway, mylog mylogger.Logger, opts ...Option) *Wizard {
	role = strings.ToLower(strings.TrimSpace(role))
	w := &Wizard{
		gateway: gateway,
		mylog:   mylog.With("component", "onboarding", "role", role),
		clock:   systemClock{},
		role:    role,
		step:    1,
		reached: 1,
		errs:    map[Field]string{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Wizard) Role() string { return w.role }

func (w *Wizard) isDriver() bool { return w.role == RoleDriver }

// Steps lists the step names for the wizard's role.
func (w *Wizard) Steps() []string {
	if w.isDriver() {
		return driverSteps
	}
	return []string{"Personal", "Review"}
}

func (w *Wizard) StepCount() int { return len(w.Steps()) }

func (w *Wizard) Step() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

func (w *Wizard) StepName() string {
	return w.Steps()[w.Step()-1]
}

func (w *Wizard) Draft() Draft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

// Errors returns the messages currently shown next to fields.
func (w *Wizard) Errors() map[Field]string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(map[Field]string, len(w.errs))
	for k, v := range w.errs {
		out[k] = v
	}
	return out
}

// Focus names the field that received focus after a failed advance.
func (w *Wizard) Focus() Field {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.focus
}

func (w *Wizard) PhoneLocked() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.phoneLocked
}

func (w *Wizard) Message() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.message
}

// Set updates one text field of the draft.
func (w *Wizard) Set(f Field, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	d := &w.draft
	switch f {
	case FieldName:
		d.Name = value
	case FieldEmail:
		d.Email = value
	case FieldGender:
		d.Gender = value
	case FieldNationality:
		d.Nationality = value
	case FieldNIN:
		d.NIN = value
	case FieldLicenseNumber:
		d.LicenseNumber = value
	case FieldVehicleType:
		d.VehicleType = strings.ToUpper(strings.TrimSpace(value))
	case FieldPlateNumber:
		d.PlateNumber = value
	case FieldOperationArea:
		d.OperationArea = value
	case FieldPaymentPhone:
		if w.phoneLocked {
			return ErrPhoneLocked
		}
		d.PaymentPhone = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
	delete(w.errs, f)
	return nil
}

// Attach sets one of the upload slots; a nil upload clears it.
func (w *Wizard) Attach(f Field, upload *dto.Upload) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if upload != nil {
		upload.Field = string(f)
	}
	switch f {
	case FieldLicenseFile:
		w.draft.LicenseFile = upload
	case FieldIDFile:
		w.draft.IDFile = upload
	case FieldVehicleRegFile:
		w.draft.VehicleRegFile = upload
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
	delete(w.errs, f)
	return nil
}

// Blur validates a single field and returns its message, if any.
func (w *Wizard) Blur(f Field) string {
	w.mu.Lock()
	defer w.mu.Unlock()

	msg := w.draft.validate(f)
	if msg == "" {
		delete(w.errs, f)
	} else {
		w.errs[f] = msg
	}
	return msg
}

func (w *Wizard) stepFields(step int) []Field {
	if !w.isDriver() {
		if step == 1 {
			return basicFields
		}
		return nil
	}
	return driverStepFields[step]
}

// IsStepValid reports whether step passes validation without touching the
// visible errors.
func (w *Wizard) IsStepValid(step int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, f := range w.stepFields(step) {
		if w.draft.validate(f) != "" {
			return false
		}
	}
	return true
}

// IsAllValid is the cross-step check that enables submit.
func (w *Wizard) IsAllValid() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.firstInvalidLocked(w.allFields()) == ""
}

func (w *Wizard) allFields() []Field {
	if w.isDriver() {
		return allDriverFields
	}
	return basicFields
}

// firstInvalidLocked records the messages of fields and returns the first
// invalid one.
func (w *Wizard) firstInvalidLocked(fields []Field) Field {
	var first Field
	for _, f := range fields {
		msg := w.draft.validate(f)
		if msg == "" {
			delete(w.errs, f)
			continue
		}
		w.errs[f] = msg
		if first == "" {
			first = f
		}
	}
	return first
}

// Next advances one step if the current one is valid. On failure the field
// errors are shown and focus moves to the first invalid field.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step >= len(w.Steps()) {
		return ErrInvalidStep
	}
	if first := w.firstInvalidLocked(w.stepFields(w.step)); first != "" {
		w.focus = first
		return ErrStepNotValid
	}
	w.focus = ""
	w.step++
	if w.step > w.reached {
		w.reached = w.step
	}
	return nil
}

// Back moves one step back without validating.
func (w *Wizard) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step > 1 {
		w.step--
	}
}

// GoTo jumps to a step already reached, as the step indicator and the review
// "Edit" links do. It never validates.
func (w *Wizard) GoTo(step int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if step < 1 || step > w.reached {
		return fmt.Errorf("%w: %d", ErrInvalidStep, step)
	}
	w.step = step
	return nil
}

// Cooldown is the time left before another code can be requested.
func (w *Wizard) Cooldown() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cooldownLocked()
}

func (w *Wizard) cooldownLocked() time.Duration {
	if w.otpSentAt.IsZero() {
		return 0
	}
	left := OTPCooldown - w.clock.Now().Sub(w.otpSentAt)
	if left < 0 {
		return 0
	}
	return left
}

// SendOTP asks the backend to text a code to the payment phone.
func (w *Wizard) SendOTP(ctx context.Context) error {
	w.mu.Lock()
	phone := strings.TrimSpace(w.draft.PaymentPhone)
	switch {
	case w.phoneLocked:
		w.mu.Unlock()
		return ErrPhoneLocked
	case phone == "":
		w.errs[FieldPaymentPhone] = MsgPhoneRequired
		w.focus = FieldPaymentPhone
		w.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrFieldRequired, FieldPaymentPhone)
	case w.cooldownLocked() > 0:
		w.mu.Unlock()
		return ErrCooldown
	}
	w.mu.Unlock()

	err := w.gateway.SendOTP(ctx, dto.SendOTPRequest{Phone: phone, Role: w.role})

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.mylog.Action("otp_send_failed").Error("failed to send otp", err)
		w.errs[FieldPaymentPhone] = apiclient.Message(err, MsgOTPSendFailed)
		return fmt.Errorf("%w: %w", ErrOTPFailed, err)
	}
	w.otpSentAt = w.clock.Now()
	delete(w.errs, FieldPaymentPhone)
	w.mylog.Action("otp_sent").Info("verification code sent")
	return nil
}

// VerifyOTP checks code. Success marks the payment phone verified and locks it;
// failure leaves both untouched.
func (w *Wizard) VerifyOTP(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)

	w.mu.Lock()
	phone := strings.TrimSpace(w.draft.PaymentPhone)
	if code == "" {
		w.errs[FieldOTP] = MsgOTPRequired
		w.focus = FieldOTP
		w.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrFieldRequired, FieldOTP)
	}
	if phone == "" {
		w.errs[FieldPaymentPhone] = MsgPhoneRequired
		w.focus = FieldPaymentPhone
		w.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrFieldRequired, FieldPaymentPhone)
	}
	w.mu.Unlock()

	err := w.gateway.VerifyOTP(ctx, dto.VerifyOTPRequest{Phone: phone, OTP: code})

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.mylog.Action("otp_verify_failed").Error("failed to verify otp", err)
		w.errs[FieldOTP] = apiclient.Message(err, MsgOTPVerifyFailed)
		return fmt.Errorf("%w: %w", ErrOTPFailed, err)
	}
	w.draft.PaymentVerified = true
	w.phoneLocked = true
	delete(w.errs, FieldOTP)
	delete(w.errs, FieldPaymentPhone)
	w.mylog.Action("otp_verified").Info("payment phone verified")
	return nil
}

// Submit validates every step and posts the profile as multipart form data.
func (w *Wizard) Submit(ctx context.Context) (Result, error) {
	w.mu.Lock()
	if w.done {
		w.mu.Unlock()
		return Result{}, ErrAlreadyDone
	}
	if w.submitting {
		w.mu.Unlock()
		return Result{}, ErrBusy
	}
	if first := w.firstInvalidLocked(w.allFields()); first != "" {
		w.focus = first
		w.mu.Unlock()
		return Result{}, ErrIncomplete
	}
	w.submitting = true
	w.message = ""
	fields, files := w.formLocked()
	w.mu.Unlock()

	resp, err := w.gateway.SubmitProfile(ctx, fields, files)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false

	if err != nil {
		if apiclient.HasCode(err, "role_mismatch") {
			w.message = MsgRoleMismatch
			w.mylog.Action("onboarding_role_mismatch").Warn("account role conflicts with onboarding role")
			return Result{}, fmt.Errorf("%w: %w", ErrRoleMismatch, err)
		}
		w.message = apiclient.Message(err, MsgSubmitFailed)
		w.mylog.Action("onboarding_submit_failed").Error("failed to submit profile", err)
		return Result{}, fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}

	res := Result{
		Message:       resp.Message,
		Redirect:      resp.Redirect,
		RedirectAfter: RedirectDelay,
	}
	if res.Message == "" {
		res.Message = MsgSubmitSucceeded
	}
	if res.Redirect == "" {
		res.Redirect = RedirectFor(w.role)
	}
	w.message = res.Message
	w.done = true
	w.draft = Draft{}
	w.mylog.Action("onboarding_submitted").Info("profile submitted", "redirect", res.Redirect)
	return res, nil
}

// RedirectFor is the landing page after onboarding for role.
func RedirectFor(role string) string {
	if path, ok := redirects[strings.ToLower(role)]; ok {
		return path
	}
	return "/account"
}

func (w *Wizard) formLocked() (map[string]string, []dto.Upload) {
	d := w.draft
	fields := map[string]string{
		"role":  w.role,
		"name":  strings.TrimSpace(d.Name),
		"email": strings.TrimSpace(d.Email),
	}
	optional := map[string]string{
		"gender":      d.Gender,
		"nationality": d.Nationality,
	}
	if w.isDriver() {
		fields["licenseNumber"] = strings.TrimSpace(d.LicenseNumber)
		fields["vehicleType"] = d.VehicleType
		fields["plateNumber"] = strings.TrimSpace(d.PlateNumber)
		fields["paymentPhone"] = strings.TrimSpace(d.PaymentPhone)
		fields["paymentVerified"] = "true"
		optional["nin"] = d.NIN
		optional["operationArea"] = d.OperationArea
	}
	if w.referral != "" {
		optional["ref"] = w.referral
	}
	for k, v := range optional {
		if v = strings.TrimSpace(v); v != "" {
			fields[k] = v
		}
	}

	var files []dto.Upload
	if w.isDriver() {
		for _, u := range []*dto.Upload{d.LicenseFile, d.IDFile, d.VehicleRegFile} {
			if u != nil && len(u.Data) > 0 {
				files = append(files, *u)
			}
		}
	}
	return fields, files
}
