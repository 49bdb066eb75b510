package integration

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/pkg/errors"
	"github.com/wneessen/go-mail"

	"github.com/wgparish/buy-it-for-life-tracker/app/common/config"
)

// PriceAlertEmail carries everything the price drop notification renders.
type PriceAlertEmail struct {
	ItemID    string
	ItemTitle string
	Retailer  string

	OldPrice         float64
	NewPrice         float64
	PercentageChange float64
}

type EmailManager struct {
	smtpConfig config.SMTPConfig
	appConfig  config.AppConfig
}

func NewEmailManager(globalConfig config.Config) *EmailManager {
	return &EmailManager{
		smtpConfig: globalConfig.SMTP,
		appConfig:  globalConfig.AppConfig,
	}
}

func (em *EmailManager) SendPriceAlert(ctx context.Context, emailOfReceiver string, alert PriceAlertEmail) error {
	subject := fmt.Sprintf("Price Drop Alert: %s is now $%.2f!", alert.ItemTitle, alert.NewPrice)

	htmlBody, err := renderPriceAlertHTML(alert, em.appConfig.FrontendURL, time.Now())
	if err != nil {
		return err
	}

	textBody := renderPriceAlertText(alert, em.appConfig.FrontendURL)

	return em.sendEmail(ctx, emailOfReceiver, subject, htmlBody, textBody)
}

func (em *EmailManager) sendEmail(ctx context.Context, emailOfReceiver, subject, htmlBody, textBody string) error {
	message := mail.NewMsg()

	if err := message.FromFormat(em.smtpConfig.FromName, em.smtpConfig.From); err != nil {
		return errors.Wrap(err, "invalid sender address for outgoing email")
	}

	if err := message.To(emailOfReceiver); err != nil {
		return errors.Wrap(err, "invalid recipient address for outgoing email")
	}

	message.Subject(subject)
	message.SetBodyString(mail.TypeTextPlain, textBody)
	message.AddAlternativeString(mail.TypeTextHTML, htmlBody)

	port, err := em.smtpConfig.PortAsInt()
	if err != nil {
		return err
	}

	client, err := mail.NewClient(
		em.smtpConfig.Host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(em.smtpConfig.Username),
		mail.WithPassword(em.smtpConfig.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return errors.Wrap(err, "error occurred while creating SMTP client")
	}

	if err := client.DialAndSendWithContext(ctx, message); err != nil {
		return errors.Wrap(err, "error occurred while sending email")
	}

	return nil
}

var priceAlertTemplate = template.Must(template.New("price_alert").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
    <h2 style="color: #2c3e50;">Price Drop Alert!</h2>

    <div style="background-color: #f8f9fa; border-radius: 8px; padding: 20px; margin: 20px 0;">
        <h3 style="margin-top: 0; color: #2c3e50;">{{.ItemTitle}}</h3>

        <p>The price has dropped on {{.Retailer}}!</p>

        <table style="width: 100%; border-collapse: collapse; margin: 15px 0;">
            <tr>
                <td style="padding: 8px; border-bottom: 1px solid #ddd;">Previous Price:</td>
                <td style="padding: 8px; border-bottom: 1px solid #ddd; text-align: right; text-decoration: line-through;">{{.OldPriceFormatted}}</td>
            </tr>
            <tr>
                <td style="padding: 8px; border-bottom: 1px solid #ddd; font-weight: bold;">New Price:</td>
                <td style="padding: 8px; border-bottom: 1px solid #ddd; text-align: right; font-weight: bold; color: #27ae60;">{{.NewPriceFormatted}}</td>
            </tr>
            <tr>
                <td style="padding: 8px; border-bottom: 1px solid #ddd;">You Save:</td>
                <td style="padding: 8px; border-bottom: 1px solid #ddd; text-align: right; color: #27ae60;">{{.SavingsFormatted}} ({{.PercentageFormatted}})</td>
            </tr>
        </table>

        <div style="text-align: center; margin: 30px 0;">
            <a href="{{.ItemURL}}" style="background-color: #3498db; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">
                View Item Details
            </a>
        </div>
    </div>

    <p>This price was detected on {{.DetectedOn}}. Prices may change rapidly, so act quickly if you're interested!</p>

    <hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">
    <p style="color: #7f8c8d; font-size: 12px;">
        You're receiving this email because you've set up price alerts for this item on BuyItForLife Sale Tracker.
        <br>
        To manage your alert preferences, <a href="{{.AlertSettingsURL}}" style="color: #3498db;">visit your account settings</a>.
    </p>
</div>
`))

type priceAlertTemplateData struct {
	ItemTitle string
	Retailer  string

	OldPriceFormatted   string
	NewPriceFormatted   string
	SavingsFormatted    string
	PercentageFormatted string

	ItemURL          string
	AlertSettingsURL string
	DetectedOn       string
}

func renderPriceAlertHTML(alert PriceAlertEmail, frontendURL string, detectedAt time.Time) (string, error) {
	data := priceAlertTemplateData{
		ItemTitle: alert.ItemTitle,
		Retailer:  alert.Retailer,

		OldPriceFormatted:   fmt.Sprintf("$%.2f", alert.OldPrice),
		NewPriceFormatted:   fmt.Sprintf("$%.2f", alert.NewPrice),
		SavingsFormatted:    fmt.Sprintf("$%.2f", alert.OldPrice-alert.NewPrice),
		PercentageFormatted: fmt.Sprintf("%.1f%%", alert.PercentageChange),

		ItemURL:          fmt.Sprintf("%s/items/%s", frontendURL, alert.ItemID),
		AlertSettingsURL: fmt.Sprintf("%s/account/alerts", frontendURL),
		DetectedOn:       detectedAt.Format("January 2, 2006"),
	}

	var buffer bytes.Buffer
	if err := priceAlertTemplate.Execute(&buffer, data); err != nil {
		return "", errors.Wrap(err, "error occurred while rendering price alert email")
	}

	return buffer.String(), nil
}

func renderPriceAlertText(alert PriceAlertEmail, frontendURL string) string {
	return fmt.Sprintf(
		"Price drop alert: %s is now $%.2f on %s (was $%.2f, you save $%.2f / %.1f%%).\nView the item: %s/items/%s",
		alert.ItemTitle,
		alert.NewPrice,
		alert.Retailer,
		alert.OldPrice,
		alert.OldPrice-alert.NewPrice,
		alert.PercentageChange,
		frontendURL,
		alert.ItemID,
	)
}
