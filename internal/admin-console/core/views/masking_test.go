package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMasking(t *testing.T) {
	cases := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"account", MaskAccount, "0765012370", "076*****70"},
		{"long account", MaskAccount, "ACC1234567890", "ACC********90"},
		{"short account", MaskAccount, "12345", "12345"},
		{"local phone", MaskPhone, "0765012370", "076*****70"},
		{"international phone", MaskPhone, "255765012370", "076*****70"},
		{"plus phone", MaskPhone, "+255-765-012-370", "076*****70"},
		{"short phone", MaskPhone, "12345678", "12345678"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.fn(tc.in))
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "0765012370", NormalizePhone("+255765012370"))
	assert.Equal(t, "0765012370", NormalizePhone("0765 012 370"))
	assert.Equal(t, "255", NormalizePhone("255"))
}
