package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// Template names accepted in EmailJob.Template.
const (
	TemplatePasswordReset = "password_reset"
	TemplateOrderPlaced   = "order_placed"
)

var passwordResetHTML = template.Must(template.New(TemplatePasswordReset).Parse(`
<p>Hi {{.Name}},</p>
<p>We received a request to reset the password for your {{.Company}} account.</p>
<p><a href="{{.ResetURL}}">Reset your password</a></p>
<p>The link expires in {{.ExpiresIn}}. If you did not request this, you can ignore this email.</p>
`))

var orderPlacedHTML = template.Must(template.New(TemplateOrderPlaced).Parse(`
<p>Hi {{.Name}},</p>
<p>Thanks for your order! We received your payment of {{printf "%.2f" .TotalPrice}} and your order <strong>{{.OrderID}}</strong> is now being processed.</p>
<p>We will let you know once it ships.</p>
`))

// Render produces subject, text and html bodies for a named template.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	var (
		tpl *template.Template
		buf bytes.Buffer
	)
	switch name {
	case TemplatePasswordReset:
		tpl = passwordResetHTML
		subject = "Reset your password"
		text = fmt.Sprintf("Reset your password: %v", data["ResetURL"])
	case TemplateOrderPlaced:
		tpl = orderPlacedHTML
		subject = "Your order is confirmed"
		text = fmt.Sprintf("Your order %v has been placed.", data["OrderID"])
	default:
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
	if err := tpl.Execute(&buf, data); err != nil {
		return "", "", "", err
	}
	return subject, text, buf.String(), nil
}
