package main

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"nolsaf-admin/internal/admin-console/core/domain/dto"
	"nolsaf-admin/internal/admin-console/core/onboarding"
	"nolsaf-admin/internal/mylogger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOnboarding struct {
	fields map[string]string
}

func (s *stubOnboarding) SendOTP(context.Context, dto.SendOTPRequest) error     { return nil }
func (s *stubOnboarding) VerifyOTP(context.Context, dto.VerifyOTPRequest) error { return nil }

func (s *stubOnboarding) SubmitProfile(_ context.Context, fields map[string]string, _ []dto.Upload) (dto.ProfileResponse, error) {
	s.fields = fields
	return dto.ProfileResponse{OK: true}, nil
}

func runScript(t *testing.T, role, script string, gw *stubOnboarding) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := &console{out: &out}
	w := onboarding.New(role, gw, mylogger.NewWithWriter(mylogger.LevelError, io.Discard))
	p := &prompter{in: bufio.NewReader(strings.NewReader(script)), out: &out}
	err := c.runWizard(context.Background(), w, p)
	return out.String(), err
}

func TestOnboardOwnerRetriesInvalidStep(t *testing.T) {
	gw := &stubOnboarding{}
	script := strings.Join([]string{
		"Neema Joseph", "not-an-email", "", "",
		"", "neema@example.com", "", "Tanzanian",
		"y",
	}, "\n") + "\n"

	out, err := runScript(t, "owner", script, gw)
	require.NoError(t, err)

	assert.Contains(t, out, onboarding.MsgEmailInvalid)
	assert.Contains(t, out, "Continue at /owner")
	assert.Equal(t, "Neema Joseph", gw.fields["name"])
	assert.Equal(t, "neema@example.com", gw.fields["email"])
	assert.Equal(t, "Tanzanian", gw.fields["nationality"])
	assert.Equal(t, "owner", gw.fields["role"])
}

func TestOnboardEndOfInputCancels(t *testing.T) {
	gw := &stubOnboarding{}
	_, err := runScript(t, "customer", "Asha\n", gw)
	assert.ErrorIs(t, err, errCancelled)
	assert.Nil(t, gw.fields)
}

func TestOnboardQuitAtReview(t *testing.T) {
	gw := &stubOnboarding{}
	_, err := runScript(t, "customer", "Asha\nasha@example.com\n\n\nq\n", gw)
	assert.ErrorIs(t, err, errCancelled)
	assert.Nil(t, gw.fields)
}

func TestStepOfMapsDriverFields(t *testing.T) {
	assert.Equal(t, 1, stepOf(onboarding.FieldEmail))
	assert.Equal(t, 2, stepOf(onboarding.FieldPlateNumber))
	assert.Equal(t, 3, stepOf(onboarding.FieldPaymentPhone))
	assert.Equal(t, 4, stepOf(onboarding.FieldIDFile))
	assert.Equal(t, 0, stepOf(onboarding.FieldGender))
}

func TestTableHelpers(t *testing.T) {
	var buf bytes.Buffer
	footer(&buf, 1, 0, 0)
	assert.Equal(t, "\npage 1 of 1, 0 total\n", buf.String())

	assert.Equal(t, "-", orDash("  "))
	assert.Equal(t, "-", day(nil))
	assert.Equal(t, "42%", percent(41.6))
}
