package codorbits

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/codorbits/newsletter"
	"github.com/eringen/codorbits/wordpress"
)

// User-facing form messages.
const (
	msgFillAllFields    = "Пожалуйста, заполните все поля"
	msgTooManyRequests  = "Слишком много запросов. Попробуйте позже."
	msgInvalidEmail     = "Необходимо указать корректный email"
	msgCaptchaRequired  = "Требуется подтверждение reCAPTCHA"
	msgCaptchaFailed    = "Проверка reCAPTCHA не пройдена. Попробуйте еще раз."
	msgAlreadySubscribe = "Вы уже подписаны на нашу рассылку!"
	msgSubscribeFailed  = "Ошибка при подписке"
	msgSubscribed       = "Спасибо за подписку!"
	msgRequestFailed    = "Произошла ошибка при обработке запроса"
)

func (a *App) handleContactSubmit(c echo.Context) error {
	ctx := c.Request().Context()
	form := wordpress.ContactForm{
		Email:   strings.TrimSpace(c.FormValue("email")),
		Subject: strings.TrimSpace(c.FormValue("subject")),
		Message: strings.TrimSpace(c.FormValue("message")),
	}

	var flash Flash
	switch {
	case !a.formLimiter.Allow(c.RealIP()):
		flash = Flash{Message: msgTooManyRequests}
	case form.Email == "" || form.Subject == "" || form.Message == "":
		flash = Flash{Message: msgFillAllFields}
	default:
		if ok, msg := a.checkCaptcha(ctx, c.FormValue("g-recaptcha-response"), c.RealIP()); !ok {
			flash = Flash{Message: msg}
			break
		}
		res := a.Content.SendContactForm(ctx, form)
		flash = Flash{Success: res.Success, Message: res.Message}
		a.record(c, Submission{
			Kind:    KindContact,
			Email:   form.Email,
			Subject: form.Subject,
			Message: form.Message,
			Success: res.Success,
			Detail:  res.Detail,
		})
	}

	if isHTMX(c) {
		return Render(c, a.Views.ContactStatus(flash))
	}
	if err := setFlash(c, flash); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/contacts/")
}

// checkCaptcha verifies token when reCAPTCHA is configured. It returns the
// message to show the visitor when verification does not pass.
func (a *App) checkCaptcha(ctx context.Context, token, ip string) (bool, string) {
	if a.captcha == nil || !a.captcha.Enabled() {
		return true, ""
	}
	if strings.TrimSpace(token) == "" {
		return false, msgCaptchaRequired
	}
	ok, err := a.captcha.Verify(ctx, token, ip)
	if err != nil {
		a.Echo.Logger.Warnf("recaptcha: %v", err)
	}
	if !ok {
		return false, msgCaptchaFailed
	}
	return true, ""
}

type subscribeRequest struct {
	Email          string `json:"email"`
	RecaptchaToken string `json:"recaptchaToken"`
}

type subscribeResponse struct {
	Success bool   `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (a *App) handleSubscribe(c echo.Context) error {
	var req subscribeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, subscribeResponse{Error: msgInvalidEmail})
	}
	req.Email = strings.TrimSpace(req.Email)
	if !a.formLimiter.Allow(c.RealIP()) {
		return c.JSON(http.StatusTooManyRequests, subscribeResponse{Error: msgTooManyRequests})
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return c.JSON(http.StatusBadRequest, subscribeResponse{Error: msgInvalidEmail})
	}
	if ok, msg := a.checkCaptcha(c.Request().Context(), req.RecaptchaToken, c.RealIP()); !ok {
		return c.JSON(http.StatusBadRequest, subscribeResponse{Error: msg})
	}

	err := a.newsletter.Subscribe(c.Request().Context(), req.Email)
	sub := Submission{Kind: KindSubscribe, Email: req.Email, Success: err == nil}
	if err != nil {
		sub.Detail = err.Error()
	}
	a.record(c, sub)

	if err == nil {
		return c.JSON(http.StatusOK, subscribeResponse{Success: true, Message: msgSubscribed})
	}

	var apiErr *newsletter.APIError
	switch {
	case errors.Is(err, newsletter.ErrAlreadySubscribed):
		status := http.StatusBadRequest
		if errors.As(err, &apiErr) {
			status = apiErr.Status
		}
		return c.JSON(status, subscribeResponse{Error: msgAlreadySubscribe})
	case errors.As(err, &apiErr):
		c.Logger().Warnf("subscribe %s: %v", req.Email, err)
		return c.JSON(apiErr.Status, subscribeResponse{Error: firstNonEmpty(apiErr.Detail, msgSubscribeFailed)})
	default:
		c.Logger().Errorf("subscribe %s: %v", req.Email, err)
		return c.JSON(http.StatusInternalServerError, subscribeResponse{Error: msgRequestFailed})
	}
}

// record logs a form attempt; a failed write never fails the request.
func (a *App) record(c echo.Context, sub Submission) {
	if a.Store == nil {
		return
	}
	if _, err := a.Store.RecordSubmission(sub); err != nil {
		c.Logger().Errorf("record %s submission: %v", sub.Kind, err)
	}
}
