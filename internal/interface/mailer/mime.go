package mailer

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"

	"farewatch/templates"
)

// buildMIMEMessage assembles a multipart/alternative RFC 822 message carrying
// both the plain-text and HTML renderings.
func buildMIMEMessage(from, to string, content *templates.EmailContent) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", content.Subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", writer.Boundary())

	textPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=UTF-8"},
	})
	if err != nil {
		return nil, fmt.Errorf("creating text part: %w", err)
	}
	if _, err := textPart.Write([]byte(content.TextBody)); err != nil {
		return nil, fmt.Errorf("writing text part: %w", err)
	}

	htmlPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/html; charset=UTF-8"},
	})
	if err != nil {
		return nil, fmt.Errorf("creating html part: %w", err)
	}
	if _, err := htmlPart.Write([]byte(content.HTMLBody)); err != nil {
		return nil, fmt.Errorf("writing html part: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart writer: %w", err)
	}
	return buf.Bytes(), nil
}
