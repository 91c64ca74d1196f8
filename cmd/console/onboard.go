package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"nolsaf-admin/internal/admin-console/core/domain/dto"
	"nolsaf-admin/internal/admin-console/core/onboarding"

	"github.com/spf13/cobra"
)

var errCancelled = errors.New("onboarding cancelled")

// prompter reads one answer per line.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// ask prints label with the current value and returns the trimmed answer.
// An empty answer keeps current.
func (p *prompter) ask(label, current string) (string, error) {
	if current != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, current)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", errCancelled
	}
	if line = strings.TrimSpace(line); line == "" {
		return current, nil
	}
	return line, nil
}

func (c *console) onboardCmd() *cobra.Command {
	var role, refURL string
	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Complete a profile with the onboarding wizard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var opts []onboarding.Option
			if ref := onboarding.ReferralFromURL(refURL); ref != "" {
				opts = append(opts, onboarding.WithReferral(ref))
			}
			w := onboarding.New(role, c.app.Onboarding, c.log, opts...)
			p := &prompter{in: bufio.NewReader(c.in), out: c.out}
			return c.runWizard(cmd.Context(), w, p)
		},
	}
	cmd.Flags().StringVar(&role, "role", onboarding.RoleDriver, "driver, owner or customer")
	cmd.Flags().StringVar(&refURL, "ref-url", "", "page URL carrying a ref referral code")
	return cmd
}

func (c *console) runWizard(ctx context.Context, w *onboarding.Wizard, p *prompter) error {
	for {
		fmt.Fprintf(c.out, "\n[%d/%d] %s\n", w.Step(), w.StepCount(), w.StepName())

		if w.Step() == w.StepCount() {
			done, err := c.review(ctx, w, p)
			if done || err != nil {
				return err
			}
			continue
		}

		if err := c.fillStep(ctx, w, p); err != nil {
			return err
		}
		if err := w.Next(); err != nil {
			if !errors.Is(err, onboarding.ErrStepNotValid) {
				return err
			}
			printFieldErrors(c.out, w)
		}
	}
}

func (c *console) fillStep(ctx context.Context, w *onboarding.Wizard, p *prompter) error {
	d := w.Draft()
	var fields []struct {
		field   onboarding.Field
		label   string
		current string
	}
	add := func(f onboarding.Field, label, current string) {
		fields = append(fields, struct {
			field   onboarding.Field
			label   string
			current string
		}{f, label, current})
	}

	switch w.StepName() {
	case "Personal":
		add(onboarding.FieldName, "Full name", d.Name)
		add(onboarding.FieldEmail, "Email", d.Email)
		add(onboarding.FieldGender, "Gender", d.Gender)
		add(onboarding.FieldNationality, "Nationality", d.Nationality)
		if w.Role() == onboarding.RoleDriver {
			add(onboarding.FieldNIN, "National ID number", d.NIN)
		}
	case "Driving":
		add(onboarding.FieldLicenseNumber, "License number", d.LicenseNumber)
		add(onboarding.FieldVehicleType, "Vehicle type ("+strings.Join(onboarding.VehicleTypes, "/")+")", d.VehicleType)
		add(onboarding.FieldPlateNumber, "Plate number", d.PlateNumber)
		add(onboarding.FieldOperationArea, "Operation area", d.OperationArea)
	case "Payment":
		return c.verifyPhone(ctx, w, p)
	case "Uploads":
		return c.attachFiles(w, p)
	}

	for _, f := range fields {
		v, err := p.ask(f.label, f.current)
		if err != nil {
			return err
		}
		if err := w.Set(f.field, v); err != nil {
			return err
		}
		if msg := w.Blur(f.field); msg != "" {
			fmt.Fprintf(c.out, "  %s\n", msg)
		}
	}
	return nil
}

func (c *console) verifyPhone(ctx context.Context, w *onboarding.Wizard, p *prompter) error {
	if w.PhoneLocked() {
		fmt.Fprintf(c.out, "Payment phone %s is verified\n", w.Draft().PaymentPhone)
		return nil
	}
	phone, err := p.ask("Payment phone", w.Draft().PaymentPhone)
	if err != nil {
		return err
	}
	if err := w.Set(onboarding.FieldPaymentPhone, phone); err != nil {
		return err
	}

	if err := w.SendOTP(ctx); err != nil {
		switch {
		case errors.Is(err, onboarding.ErrCooldown):
			fmt.Fprintf(c.out, "A code was sent recently, retry in %s\n", w.Cooldown().Round(time.Second))
		default:
			printFieldErrors(c.out, w)
			return nil
		}
	} else {
		fmt.Fprintln(c.out, "Code sent")
	}

	code, err := p.ask("Verification code", "")
	if err != nil {
		return err
	}
	if err := w.VerifyOTP(ctx, code); err != nil {
		printFieldErrors(c.out, w)
		return nil
	}
	fmt.Fprintln(c.out, "Payment phone verified")
	return nil
}

func (c *console) attachFiles(w *onboarding.Wizard, p *prompter) error {
	slots := []struct {
		field onboarding.Field
		label string
		have  *dto.Upload
	}{
		{onboarding.FieldLicenseFile, "Driving license file", w.Draft().LicenseFile},
		{onboarding.FieldIDFile, "National ID file", w.Draft().IDFile},
		{onboarding.FieldVehicleRegFile, "Vehicle registration file (optional)", w.Draft().VehicleRegFile},
	}
	for _, s := range slots {
		current := ""
		if s.have != nil {
			current = s.have.Filename
		}
		path, err := p.ask(s.label, current)
		if err != nil {
			return err
		}
		if path == "" || path == current {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(c.out, "  cannot read %s: %v\n", path, err)
			continue
		}
		if err := w.Attach(s.field, &dto.Upload{Filename: filepath.Base(path), Data: data}); err != nil {
			return err
		}
	}
	return nil
}

// review prints the draft and submits on confirmation. It reports done once
// the wizard should stop.
func (c *console) review(ctx context.Context, w *onboarding.Wizard, p *prompter) (bool, error) {
	d := w.Draft()
	tw := newTable(c.out, "FIELD", "VALUE")
	row(tw, "Name", orDash(d.Name))
	row(tw, "Email", orDash(d.Email))
	row(tw, "Gender", orDash(d.Gender))
	row(tw, "Nationality", orDash(d.Nationality))
	if w.Role() == onboarding.RoleDriver {
		row(tw, "License", orDash(d.LicenseNumber))
		row(tw, "Vehicle", strings.TrimSpace(d.VehicleType+" "+d.PlateNumber))
		row(tw, "Operation area", orDash(d.OperationArea))
		row(tw, "Payment phone", orDash(d.PaymentPhone))
		row(tw, "Documents", uploadNames(d.LicenseFile, d.IDFile, d.VehicleRegFile))
	}
	tw.Flush()

	answer, err := p.ask("Submit (y), edit a step (1-"+fmt.Sprint(w.StepCount()-1)+") or quit (q)", "")
	if err != nil {
		return true, err
	}
	switch answer = strings.ToLower(answer); answer {
	case "y", "yes":
	case "q", "quit", "":
		return true, errCancelled
	default:
		var step int
		if _, err := fmt.Sscan(answer, &step); err != nil || w.GoTo(step) != nil {
			fmt.Fprintln(c.out, "Unknown choice")
		}
		return false, nil
	}

	res, err := w.Submit(ctx)
	switch {
	case errors.Is(err, onboarding.ErrIncomplete):
		printFieldErrors(c.out, w)
		if step := stepOf(w.Focus()); step > 0 {
			_ = w.GoTo(step)
		}
		return false, nil
	case err != nil:
		fmt.Fprintln(c.out, w.Message())
		if errors.Is(err, onboarding.ErrRoleMismatch) {
			return true, err
		}
		return false, nil
	}
	fmt.Fprintln(c.out, res.Message)
	fmt.Fprintf(c.out, "Continue at %s\n", res.Redirect)
	return true, nil
}

// stepOf is the driver step that holds f.
func stepOf(f onboarding.Field) int {
	switch f {
	case onboarding.FieldName, onboarding.FieldEmail:
		return 1
	case onboarding.FieldLicenseNumber, onboarding.FieldVehicleType, onboarding.FieldPlateNumber:
		return 2
	case onboarding.FieldPaymentPhone:
		return 3
	case onboarding.FieldLicenseFile, onboarding.FieldIDFile:
		return 4
	}
	return 0
}

func printFieldErrors(w io.Writer, wiz *onboarding.Wizard) {
	errs := wiz.Errors()
	keys := make([]string, 0, len(errs))
	for f := range errs {
		keys = append(keys, string(f))
	}
	sort.Strings(keys)
	for _, k := range keys {
		marker := " "
		if onboarding.Field(k) == wiz.Focus() {
			marker = ">"
		}
		fmt.Fprintf(w, " %s %s: %s\n", marker, k, errs[onboarding.Field(k)])
	}
}

func uploadNames(uploads ...*dto.Upload) string {
	var names []string
	for _, u := range uploads {
		if u != nil {
			names = append(names, u.Filename)
		}
	}
	return orDash(strings.Join(names, ", "))
}
