package notifications

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

// Each notification type has an html and a text body of the same name.
const htmlBodies = `
{{define "BOOKING_CONFIRMED"}}
<h2>Booking confirmed</h2>
<p>Hi {{.guest_name}},</p>
<p>Your stay{{with .room_number}} in room <strong>{{.}}</strong>{{end}} from <strong>{{.check_in}}</strong> to <strong>{{.check_out}}</strong> is confirmed.</p>
<p>Room total: {{printf "%.2f" .total_price}}<br>Advance received: {{printf "%.2f" .advance_payment}}</p>
<p>Reference: {{.booking_id}}</p>
{{end}}

{{define "CHECKOUT_RECEIPT"}}
<h2>Thank you for staying with us</h2>
<p>Hi {{.guest_name}},</p>
<p>You checked out{{with .room_number}} of room <strong>{{.}}</strong>{{end}} on {{.check_out}}.</p>
<table>
<tr><td>Room total</td><td>{{printf "%.2f" .total_price}}</td></tr>
<tr><td>Advance</td><td>{{printf "%.2f" .advance_payment}}</td></tr>
<tr><td><strong>Balance</strong></td><td><strong>{{printf "%.2f" .balance}}</strong></td></tr>
</table>
<p>Reference: {{.booking_id}}</p>
{{end}}

{{define "BOOKING_CANCELLED"}}
<h2>Booking cancelled</h2>
<p>Hi {{.guest_name}},</p>
<p>Your stay from {{.check_in}} to {{.check_out}} has been cancelled.</p>
<p>Reference: {{.booking_id}}</p>
{{end}}
`

const textBodies = `
{{define "BOOKING_CONFIRMED"}}Hi {{.guest_name}},

Your stay{{with .room_number}} in room {{.}}{{end}} from {{.check_in}} to {{.check_out}} is confirmed.
Room total: {{printf "%.2f" .total_price}}
Advance received: {{printf "%.2f" .advance_payment}}

Reference: {{.booking_id}}
{{end}}

{{define "CHECKOUT_RECEIPT"}}Hi {{.guest_name}},

You checked out{{with .room_number}} of room {{.}}{{end}} on {{.check_out}}.
Room total: {{printf "%.2f" .total_price}}
Advance: {{printf "%.2f" .advance_payment}}
Balance: {{printf "%.2f" .balance}}

Reference: {{.booking_id}}
{{end}}

{{define "BOOKING_CANCELLED"}}Hi {{.guest_name}},

Your stay from {{.check_in}} to {{.check_out}} has been cancelled.

Reference: {{.booking_id}}
{{end}}
`

var (
	htmlTemplates = htmltemplate.Must(htmltemplate.New("email").Parse(htmlBodies))
	textTemplates = texttemplate.Must(texttemplate.New("email").Parse(textBodies))
)

// renderNotification returns the html and text bodies for n
func renderNotification(n *EmailNotification) (string, string, error) {
	name := string(n.Type)
	if htmlTemplates.Lookup(name) == nil {
		return "", "", fmt.Errorf("no email template for %s", name)
	}

	var htmlBuf, textBuf bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&htmlBuf, name, n.TemplateData); err != nil {
		return "", "", fmt.Errorf("failed to execute HTML template: %w", err)
	}
	if err := textTemplates.ExecuteTemplate(&textBuf, name, n.TemplateData); err != nil {
		return "", "", fmt.Errorf("failed to execute text template: %w", err)
	}
	return htmlBuf.String(), textBuf.String(), nil
}
