package notification

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends customer emails over SMTP. The storefront uses a Gmail app
// password in production, but any AUTH PLAIN relay works.
type Mailer struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

var statusLabels = map[string]string{
	"pending":    "Pending",
	"processing": "Processing",
	"shipped":    "Shipped",
	"delivered":  "Delivered",
	"cancelled":  "Cancelled",
}

// Handle renders and sends the email for one notification event.
func (m *Mailer) Handle(event Event) error {
	switch event.Type {
	case EventOrderConfirmed:
		return m.send(event.CustomerEmail,
			fmt.Sprintf("Order Confirmed - %s", event.OrderNumber),
			confirmationBody(event))
	case EventStatusChanged:
		return m.send(event.CustomerEmail,
			fmt.Sprintf("Order %s Update - %s", event.OrderNumber, label(event.NewStatus)),
			statusBody(event))
	default:
		return fmt.Errorf("unknown event type %q", event.Type)
	}
}

func (m *Mailer) send(to, subject, body string) error {
	if m.User == "" || m.Pass == "" {
		return errors.New("smtp credentials not configured")
	}
	if to == "" {
		return errors.New("recipient missing")
	}

	msg := strings.Join([]string{
		"From: Fashion Store <" + m.From + ">",
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	auth := smtp.PlainAuth("", m.User, m.Pass, m.Host)
	return smtp.SendMail(m.Host+":"+m.Port, auth, m.From, []string{to}, []byte(msg))
}

func confirmationBody(e Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThanks for your order %s.\n\n", e.CustomerName, e.OrderNumber)
	for _, it := range e.Items {
		fmt.Fprintf(&b, "  %s (size %s) x%d: ₹%.2f\n", it.Name, it.Size, it.Quantity, it.Price)
	}
	fmt.Fprintf(&b, "\nSubtotal: ₹%.2f\nShipping: ₹%.2f\nTotal: ₹%.2f\n", e.Subtotal, e.ShippingCharge, e.Total)
	fmt.Fprintf(&b, "Payment method: %s\n", paymentLabel(e.PaymentMethod))
	b.WriteString("\nWe will email you again when your order ships.\n")
	return b.String()
}

func statusBody(e Event) string {
	return fmt.Sprintf("Hi %s,\n\nYour order %s moved from %s to %s.\n",
		e.CustomerName, e.OrderNumber, label(e.OldStatus), label(e.NewStatus))
}

func label(status string) string {
	if l, ok := statusLabels[status]; ok {
		return l
	}
	return status
}

func paymentLabel(method string) string {
	if method == "COD" {
		return "Cash on Delivery"
	}
	return "Online Payment"
}
