package utils

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/tendai-dev/SLIZ/config"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Sports Leaders Institute of Zimbabwe <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	return smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
}

// SendCertificateEmail notifies a learner that their programme completion
// certificate has been issued
func SendCertificateEmail(to string, certificateNumber string) error {
	body := getEmailTemplate("Certificate Issued", fmt.Sprintf(`
		<h2>Congratulations!</h2>
		<p>You have completed every course in the SLIZ sports leadership programme.</p>
		<div class="info-box">
			<p><strong>Certificate number:</strong> %s</p>
		</div>
		<p>Your certificate is available from your dashboard.</p>
	`, certificateNumber))

	return SendEmail([]string{to}, "Your SLIZ Certificate", body)
}

// HTML wrapper shared by all outbound mail
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #00331A; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #00331A; line-height: 1.6; }
			.content h2 { color: #00331A; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #d7b56d; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>%s</h1>
			</div>
			<div class="content">
				%s
			</div>
			<div class="footer">
				Sports Leaders Institute of Zimbabwe
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}
