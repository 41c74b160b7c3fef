package email

import (
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
	"time"
)

const senderName = "LiteBay"

// sendFunc matches smtp.SendMail
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Service sends storefront mail through an unauthenticated SMTP relay
type Service struct {
	addr string
	from mail.Address
	send sendFunc
	now  func() time.Time
}

func NewService(host, port, from string) *Service {
	return &Service{
		addr: net.JoinHostPort(host, port),
		from: mail.Address{Name: senderName, Address: from},
		send: smtp.SendMail,
		now:  time.Now,
	}
}

func (s *Service) SendOrderConfirmation(to string, o Order) error {
	subject := fmt.Sprintf("[LiteBay] Xác nhận đơn hàng #%d", o.ID)
	return s.deliver(to, subject, BuildOrderConfirmationBody(o))
}

func (s *Service) SendContactAcknowledgement(to string, c Contact) error {
	subject := "[LiteBay] Chúng tôi đã nhận được liên hệ của bạn"
	return s.deliver(to, subject, BuildContactAcknowledgementBody(c))
}

func (s *Service) deliver(to, subject, body string) error {
	rcpt, err := mail.ParseAddress(to)
	if err != nil {
		return fmt.Errorf("invalid recipient %q: %w", to, err)
	}

	if err := s.send(s.addr, nil, s.from.Address, []string{rcpt.Address}, s.compose(rcpt, subject, body)); err != nil {
		return fmt.Errorf("failed to send %q to %s: %w", subject, rcpt.Address, err)
	}
	return nil
}

// compose builds the RFC 5322 message; non-ASCII subjects are Q-encoded
func (s *Service) compose(to *mail.Address, subject, body string) []byte {
	var b strings.Builder
	header := func(k, v string) {
		b.WriteString(k + ": " + v + "\r\n")
	}
	header("From", s.from.String())
	header("To", to.String())
	header("Subject", mime.QEncoding.Encode("utf-8", subject))
	header("Date", s.now().Format(time.RFC1123Z))
	header("MIME-Version", "1.0")
	header("Content-Type", "text/html; charset=UTF-8")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
