package utils

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/gomail.v2"
)

// EmailConfig holds email configuration
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func emailConfigFromEnv() EmailConfig {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || port == 0 {
		port = 587 // Default SMTP port
	}
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "Brown Girl Club <no-reply@browngirlclub.com>"
	}
	return EmailConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     from,
	}
}

// SendEmail sends an HTML email using SMTP
func SendEmail(to, subject, body string) error {
	config := emailConfigFromEnv()
	if config.Host == "" {
		LogInfo("SMTP_HOST not set; skipping email to %s (%s)", to, subject)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", config.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}

	return nil
}

// SendCashPaymentReminderEmail reminds a new member to pay at the counter so
// a cashier can activate the subscription.
func SendCashPaymentReminderEmail(to, name, planName string) error {
	subject := "Reminder: Complete Your Brown Girl Club Payment"
	body := fmt.Sprintf(`
		<h2>Complete Your Membership Payment</h2>
		<p>Hi %s,</p>
		<p>Thanks for joining Brown Girl Club! To activate your <strong>%s</strong> membership, please complete your cash payment at one of our locations:</p>
		<ul>
			<li><strong>Brown Girl Cafe</strong>, Lance Aux Epines</li>
			<li><strong>Chebauffle House</strong>, True Blue</li>
		</ul>
		<p>Tell the cashier your email address so we can mark your subscription as paid right away.</p>
		<p>If you have any questions, just reply to this email.</p>
	`, name, planName)

	return SendEmail(to, subject, body)
}

// SendInvoiceEmail sends the payment receipt after a cashier marks a
// subscription paid.
func SendInvoiceEmail(to, name, planName string, amount float64, currency string, invoiceID uint) error {
	if currency == "" {
		currency = "XCD"
	}
	subject := "Your Brown Girl Club Receipt"
	body := fmt.Sprintf(`
		<h2>Receipt</h2>
		<p>Hi %s,</p>
		<p>Thanks for your payment. Your <strong>%s</strong> membership is now active.</p>
		<ul>
			<li><strong>Amount:</strong> %s %.2f</li>
			<li><strong>Invoice ID:</strong> %d</li>
		</ul>
		<p>Keep this email for your records.</p>
	`, name, planName, currency, amount, invoiceID)

	return SendEmail(to, subject, body)
}

// SendRedemptionReceiptEmail confirms a recorded redemption. Remaining
// figures are the validator's pre-redemption numbers minus the quantity just
// consumed; nil means the axis has no cap on this plan.
func SendRedemptionReceiptEmail(to, name, planName, itemType, itemName, location string, redeemedAt time.Time, remainingCoffees, remainingFood *int) error {
	var remainingParts []string
	if remainingCoffees != nil {
		remainingParts = append(remainingParts, fmt.Sprintf("<strong>Coffees remaining:</strong> %d", *remainingCoffees))
	}
	if remainingFood != nil {
		remainingParts = append(remainingParts, fmt.Sprintf("<strong>Food remaining:</strong> %d", *remainingFood))
	}
	remainingHTML := ""
	if len(remainingParts) > 0 {
		remainingHTML = fmt.Sprintf("<p>%s</p>", strings.Join(remainingParts, " &nbsp;&bull;&nbsp; "))
	}
	locationHTML := ""
	if location != "" {
		locationHTML = fmt.Sprintf("<li><strong>Location:</strong> %s</li>", location)
	}

	subject := "Your Brown Girl Club redemption receipt"
	body := fmt.Sprintf(`
		<h2>Redemption receipt</h2>
		<p>Hi %s,</p>
		<p>We recorded your %s redemption on your <strong>%s</strong> membership:</p>
		<ul>
			<li><strong>Item:</strong> %s (%s)</li>
			<li><strong>When:</strong> %s</li>
			%s
		</ul>
		%s
		<p>Keep this email for your records. If anything looks off, just reply to this email.</p>
	`, name, itemType, planName, itemName, itemType, redeemedAt.Format("Jan 2, 2006 3:04 PM"), locationHTML, remainingHTML)

	return SendEmail(to, subject, body)
}

// SendMemberInviteEmail invites someone onto a bundle subscription's shared seat.
func SendMemberInviteEmail(to, planName, inviteURL string) error {
	subject := "You're invited to Brown Girl Club"
	body := fmt.Sprintf(`
		<h2>You've been invited!</h2>
		<p>A member has invited you to share their <strong>%s</strong> membership at Brown Girl Club.</p>
		<p><a href="%s">Accept your invitation</a></p>
		<p>This invitation expires in 7 days. If you weren't expecting it, you can ignore this email.</p>
	`, planName, inviteURL)

	return SendEmail(to, subject, body)
}

// SendCashierInviteEmail invites counter staff to set up their account.
func SendCashierInviteEmail(to, name, acceptURL string) error {
	subject := "Your Brown Girl Club cashier account"
	body := fmt.Sprintf(`
		<h2>Welcome to the team</h2>
		<p>Hi %s,</p>
		<p>You've been invited to operate the Brown Girl Club counter. Click below to choose a password and activate your account:</p>
		<p><a href="%s">Activate your account</a></p>
		<p>This link expires in 7 days.</p>
	`, name, acceptURL)

	return SendEmail(to, subject, body)
}
