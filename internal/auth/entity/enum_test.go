package entity

import (
	"testing"
)

func TestOtpPurposeFromString(t *testing.T) {
	cases := []struct {
		in   string
		want OtpPurpose
	}{
		{"REGISTER", OtpPurposeRegister},
		{"FORGOT_PASSWORD", OtpPurposeForgotPassword},
		{"register", OtpPurposeUnknown},
		{"", OtpPurposeUnknown},
	}

	for _, tc := range cases {
		if got := OtpPurposeFromString(tc.in); got != tc.want {
			t.Errorf("OtpPurposeFromString(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	if !OtpPurposeUnknown.IsUnknown() || OtpPurposeRegister.IsUnknown() {
		t.Errorf("IsUnknown misclassifies purposes")
	}
}

func TestRoleFromString(t *testing.T) {
	cases := []struct {
		in   string
		want Role
	}{
		{"admin", RoleAdmin},
		{"user", RoleUser},
		{"nutritionist", RoleNutritionist},
		{"Admin", RoleUnknown},
		{"", RoleUnknown},
	}

	for _, tc := range cases {
		if got := RoleFromString(tc.in); got != tc.want {
			t.Errorf("RoleFromString(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	if got, want := RoleAdmin.Subject(), "role:admin"; got != want {
		t.Errorf("Subject() = %q, want %q", got, want)
	}
}
