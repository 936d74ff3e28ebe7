package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"mime/multipart"
	"net/http"
	"strings"
)

// Messages shown to the visitor after a contact form submission.
const (
	ContactSentMessage   = "Спасибо! Ваше сообщение успешно отправлено."
	ContactFailedMessage = "Произошла ошибка при отправке сообщения"
)

const (
	cf7StatusSent       = "mail_sent"
	contactMissingField = "missing required field"
)

// SendContactForm posts a message to the Contact Form 7 feedback endpoint.
// Only a "mail_sent" answer counts as success; every other outcome, including
// a missing field, is reported with ContactFailedMessage and the detail logged.
func (c *Client) SendContactForm(ctx context.Context, form ContactForm) ContactResult {
	if strings.TrimSpace(form.Email) == "" || strings.TrimSpace(form.Subject) == "" || strings.TrimSpace(form.Message) == "" {
		c.logger.Warnf("wordpress: contact form submitted with empty fields")
		return ContactResult{Message: ContactFailedMessage, Detail: contactMissingField}
	}
	if err := c.postFeedback(ctx, form); err != nil {
		c.logger.Errorf("wordpress: send contact form: %v", err)
		return ContactResult{Message: ContactFailedMessage, Detail: err.Error()}
	}
	return ContactResult{Success: true, Message: ContactSentMessage}
}

func (c *Client) postFeedback(ctx context.Context, form ContactForm) error {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fields := [][2]string{
		{"your-email", form.Email},
		{"your-subject", form.Subject},
		{"your-message", form.Message},
		{"_wpcf7", c.formID},
		{"_wpcf7_version", cf7Version},
		{"_wpcf7_unit_tag", fmt.Sprintf("wpcf7-f%s-p0-o%d", c.formID, rand.IntN(100))},
		{"_wpcf7_container_post", "0"},
		{"_wpcf7_posted_data_hash", ""},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return fmt.Errorf("write field %s: %w", f[0], err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close form: %w", err)
	}

	u := c.siteURL + "/wp-json/contact-form-7/v1/contact-forms/" + c.formID + "/feedback"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, &body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", u, err)
	}
	defer resp.Body.Close()

	var res cf7Response
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &StatusError{URL: u, StatusCode: resp.StatusCode}
		}
		return fmt.Errorf("decode feedback response: %w", err)
	}
	if res.Status != cf7StatusSent {
		return fmt.Errorf("feedback status %q (http %d): %s", res.Status, resp.StatusCode, res.Message)
	}
	return nil
}
