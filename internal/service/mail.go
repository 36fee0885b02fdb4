package service

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/avast/retry-go/v4"
	"github.com/dchest/uniuri"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"maa.plus/backend-next/internal/app/appconfig"
	"maa.plus/backend-next/internal/model/cache"
	"maa.plus/backend-next/internal/pkg/maaerr"
)

var codeChars = []byte("0123456789")

type Mail struct {
	conf *appconfig.Config
}

func NewMail(conf *appconfig.Config) *Mail {
	return &Mail{
		conf: conf,
	}
}

// SendActivationURL issues a one-time nonce bound to the email and mails an
// activation link carrying it.
func (s *Mail) SendActivationURL(ctx context.Context, email string) error {
	nonce := uniuri.NewLen(32)
	if err := cache.EmailByNonce.Set(nonce, email, s.conf.MailCodeExpire); err != nil {
		return err
	}

	link := s.conf.ActivationURLBase + nonce
	body := fmt.Sprintf("Welcome to MAA Copilot! Activate your account by visiting:\r\n\r\n%s\r\n\r\nThe link expires in %s.", link, s.conf.MailCodeExpire)
	return s.send(email, "MAA Copilot Account Activation", body)
}

// SendVerificationCode issues a short numeric code bound to the email and
// mails it. The code is consumed by VerifyCode.
func (s *Mail) SendVerificationCode(ctx context.Context, email string) error {
	code := uniuri.NewLenChars(6, codeChars)
	if err := cache.MailCodeByEmail.Set(email, code, s.conf.MailCodeExpire); err != nil {
		return err
	}

	body := fmt.Sprintf("Your MAA Copilot verification code is: %s\r\n\r\nThe code expires in %s.", code, s.conf.MailCodeExpire)
	return s.send(email, "MAA Copilot Verification Code", body)
}

// VerifyCode checks the code previously mailed to email and consumes it on
// success.
func (s *Mail) VerifyCode(ctx context.Context, email, code string) error {
	var want string
	err := cache.MailCodeByEmail.Get(email, &want)
	if err != nil || want == "" || want != code {
		return maaerr.ErrInvalidReq.Msg("verification code is invalid or has expired")
	}
	_ = cache.MailCodeByEmail.Delete(email)
	return nil
}

func (s *Mail) send(to, subject, body string) error {
	if s.conf.SMTPAddress == "" {
		log.Warn().
			Str("evt.name", "mail.send").
			Str("to", to).
			Str("subject", subject).
			Msg("SMTP is not configured; dropping outbound mail")
		return nil
	}

	msg := strings.Join([]string{
		"From: " + s.conf.MailFrom,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		body,
	}, "\r\n")

	host := s.conf.SMTPAddress
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}

	var auth smtp.Auth
	if s.conf.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.conf.SMTPUsername, s.conf.SMTPPassword, host)
	}

	err := retry.Do(
		func() error {
			return smtp.SendMail(s.conf.SMTPAddress, auth, s.conf.MailFrom, []string{to}, []byte(msg))
		},
		retry.Attempts(3),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		log.Error().
			Err(err).
			Str("evt.name", "mail.send").
			Str("to", to).
			Msg("failed to send mail")
		return errors.Wrap(err, "failed to send mail")
	}

	log.Info().
		Str("evt.name", "mail.send").
		Str("to", to).
		Str("subject", subject).
		Msg("sent mail")
	return nil
}
