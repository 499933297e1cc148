package notifications

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"tasteofegypt/internal/config"
	"tasteofegypt/internal/models"

	"github.com/yuin/goldmark"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Message bodies are written in markdown. The markdown doubles as the plain
// text part and goldmark renders the HTML alternative.
const confirmationTmpl = `# Thank you for your order, {{md .Customer.Name}}!

We've received your order and will confirm it as soon as your payment arrives.

- **Order ID:** {{.Order.OrderID}}
- **Order Type:** {{title (print .Order.OrderType)}}
{{- if .Order.Address}}
- **Deliver To:** {{md .Order.Address.Street}}, {{md .Order.Address.City}} {{md .Order.Address.PostalCode}}
{{- end}}
- **Scheduled Time:** {{if .Order.ScheduledTime}}{{md .Order.ScheduledTime}}{{else}}ASAP{{end}}

## Items

{{range .Order.Items}}- {{.Quantity}} x {{.Name}}: {{money .LineTotal}}
{{end}}
## Totals

- Subtotal: {{money .Order.Pricing.Subtotal}}
{{- if eq (print .Order.OrderType) "delivery"}}
- Delivery Fee: {{if .Order.IsFirstOrder}}FREE (first order){{else}}{{money .Order.Pricing.DeliveryFee}}{{end}}
{{- end}}
- Tax: {{money .Order.Pricing.Tax}}
- **Total: {{money .Order.Pricing.Total}}**

## Payment Instructions

Please send an e-transfer of **{{money .Order.Pricing.Total}}** to **{{.Restaurant.ETransferEmail}}**.
Use your order ID **{{.Order.OrderID}}** as the message/reference.

Questions? Call us at {{.Restaurant.Phone}}.

{{.Restaurant.Name}}, {{.Restaurant.Address}}
`

const statusUpdateTmpl = `# Order Update

Hi {{md .Customer.Name}},

{{.StatusMessage}}

- **Order ID:** {{.Order.OrderID}}
- **Status:** {{.StatusLabel}}
- **Total:** {{money .Order.Pricing.Total}}
{{- if and (eq (print .Order.Status) "ready") (eq (print .Order.OrderType) "pickup")}}

Pick up at {{.Restaurant.Address}}.
{{- end}}

Questions? Call us at {{.Restaurant.Phone}}.

{{.Restaurant.Name}}
`

const adminAlertTmpl = `# New Order {{.Order.OrderID}}
{{- if .Order.IsFirstOrder}}

**FIRST ORDER - FREE DELIVERY**
{{- end}}

## Customer

- **Name:** {{md .Customer.Name}}
- **Email:** {{md .Customer.Email}}
- **Phone:** {{md .Order.Phone}}

## Fulfilment

- **Order Type:** {{title (print .Order.OrderType)}}
- **Address:** {{if .Order.Address}}{{md .Order.Address.Street}}, {{md .Order.Address.City}} {{md .Order.Address.PostalCode}}{{else}}Customer will pick up{{end}}
- **Scheduled Time:** {{if .Order.ScheduledTime}}{{md .Order.ScheduledTime}}{{else}}ASAP{{end}}
{{- if .Order.Notes}}
- **Notes:** {{md .Order.Notes}}
{{- end}}

## Items

{{range .Order.Items}}- {{.Quantity}} x {{.Name}} @ {{money .UnitPrice}} = {{money .LineTotal}}
{{end}}
## Totals

- Subtotal: {{money .Order.Pricing.Subtotal}}
- Delivery Fee: {{money .Order.Pricing.DeliveryFee}}
- Tax: {{money .Order.Pricing.Tax}}
- **Total: {{money .Order.Pricing.Total}}**
- Payment: {{.Order.PaymentStatus}}
`

type messageData struct {
	Order         models.Order
	Customer      models.User
	Restaurant    config.RestaurantConfig
	StatusLabel   string
	StatusMessage string
}

// Formatter renders the customer and operator emails for an order.
type Formatter struct {
	restaurant   config.RestaurantConfig
	md           goldmark.Markdown
	confirmation *template.Template
	statusUpdate *template.Template
	adminAlert   *template.Template
}

// NewFormatter parses the message templates for restaurant.
func NewFormatter(restaurant config.RestaurantConfig) (*Formatter, error) {
	funcs := template.FuncMap{
		"money": Money,
		"title": titleCase,
		"md":    escapeMarkdown,
	}
	parse := func(name, text string) (*template.Template, error) {
		t, err := template.New(name).Funcs(funcs).Parse(text)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		return t, nil
	}

	f := &Formatter{restaurant: restaurant, md: goldmark.New()}
	var err error
	if f.confirmation, err = parse("confirmation", confirmationTmpl); err != nil {
		return nil, err
	}
	if f.statusUpdate, err = parse("status_update", statusUpdateTmpl); err != nil {
		return nil, err
	}
	if f.adminAlert, err = parse("admin_alert", adminAlertTmpl); err != nil {
		return nil, err
	}
	return f, nil
}

// OrderConfirmation is sent to the customer once the order is stored.
func (f *Formatter) OrderConfirmation(order models.Order, customer models.User) (Message, error) {
	subject := fmt.Sprintf("Order %s Received - %s", order.OrderID, f.restaurant.Name)
	return f.render(f.confirmation, customer.Email, subject, f.data(order, customer))
}

// StatusUpdate tells the customer about a status change.
func (f *Formatter) StatusUpdate(order models.Order, customer models.User) (Message, error) {
	subject := fmt.Sprintf("Order %s - %s", order.OrderID, StatusLabel(order.Status))
	return f.render(f.statusUpdate, customer.Email, subject, f.data(order, customer))
}

// AdminAlert tells the operator about a new order.
func (f *Formatter) AdminAlert(order models.Order, customer models.User, adminEmail string) (Message, error) {
	subject := fmt.Sprintf("New Order %s - %s", order.OrderID, Money(order.Pricing.Total))
	return f.render(f.adminAlert, adminEmail, subject, f.data(order, customer))
}

func (f *Formatter) data(order models.Order, customer models.User) messageData {
	return messageData{
		Order:         order,
		Customer:      customer,
		Restaurant:    f.restaurant,
		StatusLabel:   StatusLabel(order.Status),
		StatusMessage: StatusMessage(order),
	}
}

func (f *Formatter) render(t *template.Template, to, subject string, data messageData) (Message, error) {
	var text bytes.Buffer
	if err := t.Execute(&text, data); err != nil {
		return Message{}, fmt.Errorf("failed to render %s: %w", t.Name(), err)
	}
	var html bytes.Buffer
	if err := f.md.Convert(text.Bytes(), &html); err != nil {
		return Message{}, fmt.Errorf("failed to convert %s to html: %w", t.Name(), err)
	}
	return Message{
		To:      to,
		Subject: subject,
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}

// StatusLabel is the display form of a status, e.g. "Confirmed".
func StatusLabel(s models.OrderStatus) string {
	return titleCase(string(s))
}

// StatusMessage is the customer-facing sentence for the order's current status.
func StatusMessage(order models.Order) string {
	switch order.Status {
	case models.StatusConfirmed:
		return "Your order has been confirmed and payment received!"
	case models.StatusPreparing:
		return "Your delicious Egyptian feast is now being prepared!"
	case models.StatusReady:
		if order.OrderType == models.OrderTypeDelivery {
			return "Your order is ready and out for delivery!"
		}
		return "Your order is ready for pickup!"
	case models.StatusCompleted:
		return "Thank you for dining with us! We hope you enjoyed your meal."
	case models.StatusCancelled:
		return "Your order has been cancelled. If you have questions, please contact us."
	}
	return fmt.Sprintf("Your order status is now: %s", order.Status)
}

// Money formats an amount as dollars with two decimals.
func Money(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"!", `\!`,
	"#", `\#`,
	"|", `\|`,
	"~", `\~`,
	"\r\n", " ",
	"\n", " ",
)

// escapeMarkdown keeps customer-supplied text literal in the rendered HTML.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// A Caser is stateful, so one is built per call.
func titleCase(s string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
}
