package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/eringen/codorbits"
)

// loadConfig reads .env, an optional config.yaml and the environment into a
// SiteConfig. Environment variables win over the file. CACHE_WARM_SPEC set to
// an empty string disables cache warming.
func loadConfig() (codorbits.SiteConfig, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debugf("no .env file loaded: %v", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("SITE_URL", "https://www.codorbits.com")
	v.SetDefault("SITE_DESCRIPTION", "Бесплатный курс по программированию на Java")
	v.SetDefault("CMS_TIMEOUT", "15s")
	v.SetDefault("CMS_FANOUT", 8)
	v.SetDefault("CONTENT_CACHE_TTL", "5m")
	v.SetDefault("CACHE_WARM_SPEC", "@every 5m")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return codorbits.SiteConfig{}, fmt.Errorf("read config.yaml: %w", err)
		}
	}

	cfg := codorbits.SiteConfig{
		Name:                v.GetString("SITE_NAME"),
		URL:                 v.GetString("SITE_URL"),
		Description:         v.GetString("SITE_DESCRIPTION"),
		Addr:                v.GetString("ADDR"),
		DatabasePath:        v.GetString("DATABASE_PATH"),
		CMSURL:              v.GetString("CMS_URL"),
		CMSTimeout:          v.GetDuration("CMS_TIMEOUT"),
		CMSFanOut:           v.GetInt("CMS_FANOUT"),
		ContactFormID:       v.GetString("CF7_FORM_ID"),
		SessionSecret:       v.GetString("SESSION_SECRET"),
		CookieSecure:        v.GetBool("COOKIE_SECURE"),
		RecaptchaSiteKey:    v.GetString("RECAPTCHA_SITE_KEY"),
		RecaptchaSecretKey:  v.GetString("RECAPTCHA_SECRET_KEY"),
		MailchimpAPIKey:     v.GetString("MAILCHIMP_API_KEY"),
		MailchimpAudienceID: v.GetString("MAILCHIMP_AUDIENCE_ID"),
		MailchimpServer:     v.GetString("MAILCHIMP_API_SERVER"),
		ContentCacheTTL:     v.GetDuration("CONTENT_CACHE_TTL"),
		CacheWarmSpec:       v.GetString("CACHE_WARM_SPEC"),
	}
	// viper treats an empty variable as unset and falls back to the default.
	if spec, ok := os.LookupEnv("CACHE_WARM_SPEC"); ok {
		cfg.CacheWarmSpec = spec
	}
	return cfg, nil
}
