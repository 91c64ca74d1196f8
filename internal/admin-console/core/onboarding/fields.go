package onboarding

import (
	"regexp"
	"strings"

	"nolsaf-admin/internal/admin-console/core/domain/dto"
)

type Field string

const (
	FieldName           Field = "name"
	FieldEmail          Field = "email"
	FieldGender         Field = "gender"
	FieldNationality    Field = "nationality"
	FieldNIN            Field = "nin"
	FieldLicenseNumber  Field = "licenseNumber"
	FieldVehicleType    Field = "vehicleType"
	FieldPlateNumber    Field = "plateNumber"
	FieldOperationArea  Field = "operationArea"
	FieldPaymentPhone   Field = "paymentPhone"
	FieldOTP            Field = "otp"
	FieldLicenseFile    Field = "drivingLicense"
	FieldIDFile         Field = "nationalId"
	FieldVehicleRegFile Field = "vehicleRegistration"
)

// Vehicle categories accepted for drivers.
var VehicleTypes = []string{"BODA", "BAJAJI", "CAR"}

const (
	MsgNameRequired    = "Full name is required"
	MsgEmailRequired   = "Email is required"
	MsgEmailInvalid    = "Enter a valid email address"
	MsgLicenseRequired = "License number is required"
	MsgVehicleType     = "Select a vehicle type"
	MsgPlateRequired   = "Plate number is required"
	MsgPaymentVerify   = "Verify your payment phone number"
	MsgLicenseFile     = "Driving license file is required"
	MsgIDFile          = "National ID file is required"
	MsgPhoneRequired   = "Enter your payment phone number"
	MsgOTPRequired     = "Enter the code we sent you"
	MsgRoleMismatch    = "This account is already registered with a different role. Sign in with the right account to finish onboarding."
	MsgSubmitFailed    = "We could not save your profile. Please try again."
	MsgSubmitSucceeded = "Profile saved. Redirecting..."
	MsgOTPSendFailed   = "Could not send the verification code"
	MsgOTPVerifyFailed = "Verification failed"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Draft accumulates the wizard input until it is submitted.
type Draft struct {
	Name            string
	Email           string
	Gender          string
	Nationality     string
	NIN             string
	LicenseNumber   string
	VehicleType     string
	PlateNumber     string
	OperationArea   string
	PaymentPhone    string
	LicenseFile     *dto.Upload
	IDFile          *dto.Upload
	VehicleRegFile  *dto.Upload
	PaymentVerified bool
}

// validate returns the error message of one field, or "".
func (d Draft) validate(f Field) string {
	switch f {
	case FieldName:
		if strings.TrimSpace(d.Name) == "" {
			return MsgNameRequired
		}
	case FieldEmail:
		email := strings.TrimSpace(d.Email)
		if email == "" {
			return MsgEmailRequired
		}
		if !emailPattern.MatchString(email) {
			return MsgEmailInvalid
		}
	case FieldLicenseNumber:
		if strings.TrimSpace(d.LicenseNumber) == "" {
			return MsgLicenseRequired
		}
	case FieldVehicleType:
		if !validVehicleType(d.VehicleType) {
			return MsgVehicleType
		}
	case FieldPlateNumber:
		if strings.TrimSpace(d.PlateNumber) == "" {
			return MsgPlateRequired
		}
	case FieldPaymentPhone:
		if !d.PaymentVerified {
			return MsgPaymentVerify
		}
	case FieldLicenseFile:
		if d.LicenseFile == nil || len(d.LicenseFile.Data) == 0 {
			return MsgLicenseFile
		}
	case FieldIDFile:
		if d.IDFile == nil || len(d.IDFile.Data) == 0 {
			return MsgIDFile
		}
	}
	return ""
}

func validVehicleType(v string) bool {
	for _, t := range VehicleTypes {
		if v == t {
			return true
		}
	}
	return false
}
