// Package mail renders and delivers the transactional emails sent by the
// formations backend: the admin alert and client confirmation for contact
// requests, and the invoice confirmation after a purchase.
package mail

import "gopkg.in/gomail.v2"

// Message is a rendered email ready for submission.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Transport submits a rendered message to a recipient. Implementations
// report delivery failure through the returned error; the Dispatcher owns
// retries.
type Transport interface {
	Send(m Message) error
}

// SMTPTransport delivers messages over SMTP.
type SMTPTransport struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPTransport constructs an SMTPTransport.
func NewSMTPTransport(host string, port int, username, password, from string) *SMTPTransport {
	return &SMTPTransport{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send dials the SMTP server and submits the message.
func (t *SMTPTransport) Send(m Message) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", t.from)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/html", m.HTML)
	return t.dialer.DialAndSend(msg)
}
