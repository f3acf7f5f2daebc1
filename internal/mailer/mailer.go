package mailer

import "embed"

const (
	FromName                 = "Eventra"
	maxRetries               = 3
	VendorWelcomeTemplate    = "vendor_welcome.tmpl"
	VendorApprovedTemplate   = "vendor_approved.tmpl"
	VendorRejectedTemplate   = "vendor_rejected.tmpl"
	VerificationCodeTemplate = "verification_code.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, username, email string, data any) (int, error)
}
