package entity

// OtpPurpose names the flow an OTP challenge belongs to. The value is
// carried verbatim in the session token's type claim.
type OtpPurpose string

const (
	OtpPurposeUnknown        OtpPurpose = ""
	OtpPurposeRegister       OtpPurpose = "REGISTER"
	OtpPurposeForgotPassword OtpPurpose = "FORGOT_PASSWORD"
)

func OtpPurposeFromString(str string) OtpPurpose {
	switch str {
	case "REGISTER":
		return OtpPurposeRegister
	case "FORGOT_PASSWORD":
		return OtpPurposeForgotPassword
	default:
		return OtpPurposeUnknown
	}
}

func (p OtpPurpose) String() string {
	return string(p)
}

func (p OtpPurpose) IsUnknown() bool {
	switch p {
	case OtpPurposeRegister, OtpPurposeForgotPassword:
		return false
	default:
		return true
	}
}

// Role is an assignable authorization role backed by a grouping rule.
type Role string

const (
	RoleUnknown      Role = ""
	RoleAdmin        Role = "admin"
	RoleUser         Role = "user"
	RoleNutritionist Role = "nutritionist"
)

func RoleFromString(str string) Role {
	switch str {
	case "admin":
		return RoleAdmin
	case "user":
		return RoleUser
	case "nutritionist":
		return RoleNutritionist
	default:
		return RoleUnknown
	}
}

func (r Role) String() string {
	return string(r)
}

func (r Role) IsUnknown() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleNutritionist:
		return false
	default:
		return true
	}
}

// Subject returns the grouping-policy subject for the role.
func (r Role) Subject() string {
	return "role:" + string(r)
}
