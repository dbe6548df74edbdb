package email

type Config struct {
	FromEmail string `envconfig:"FROM_EMAIL" default:"noreply@example.com"`
	FromName  string `envconfig:"FROM_NAME" default:"Marketplace"`

	MailjetAPIKey    string `envconfig:"MAILJET_API_KEY"`
	MailjetAPISecret string `envconfig:"MAILJET_API_SECRET"`
	MailjetBaseURL   string `envconfig:"MAILJET_BASE_URL" default:"https://api.mailjet.com/v3.1"`

	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername string `envconfig:"SMTP_USERNAME"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`

	TimeoutSeconds int `envconfig:"TIMEOUT" default:"10"`
}

func (c *Config) MailjetEnabled() bool {
	return c.MailjetAPIKey != "" && c.MailjetAPISecret != ""
}

func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != ""
}
