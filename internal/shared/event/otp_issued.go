package event

const OtpIssuedDestination string = "otp_issued"
const OtpIssuedConsumerMailer string = "otp_issued_mailer"

type OtpIssuedMessage struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	Passcode  string `json:"passcode"`
	Purpose   string `json:"purpose"`
	ExpiresAt int64  `json:"expires_at"`
}
