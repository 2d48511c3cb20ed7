package mail

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	LoginURL string
	// Enabled false logs messages instead of dialing SMTP (local development).
	Enabled bool
}

type CredentialsEmailData struct {
	Name             string
	Email            string
	OrganizationName string
	Password         string
	LoginURL         string
}

type DemoDecisionEmailData struct {
	Name     string
	Approved bool
}
