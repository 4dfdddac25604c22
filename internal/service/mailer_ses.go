// internal/service/mailer_ses.go
package service

import (
	"context"
	"log/slog"

	"innerpath/internal/config"
	"innerpath/internal/middleware"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// SESMailer sends ops alerts through AWS SES.
type SESMailer struct {
	client *sesv2.Client
	cfg    *config.AlertsConfig
}

// NewSESMailer builds the SES client, honoring either static credentials or
// the ambient IAM role depending on config.
func NewSESMailer(cfg *config.Config) Mailer {
	var awsCfgOpts []func(*awsconfig.LoadOptions) error
	awsCfgOpts = append(awsCfgOpts, awsconfig.WithRegion(cfg.Alerts.SESRegion))

	switch cfg.Alerts.AuthType {
	case "static_credentials":
		slog.Info("Configuring SES with static credentials.")
		if cfg.Alerts.AccessKeyID == "" || cfg.Alerts.SecretAccessKey == "" {
			slog.Error("SES auth_type is 'static_credentials' but access_key_id or secret_access_key is missing in config.")
			panic("missing static credentials for SES")
		}
		creds := credentials.NewStaticCredentialsProvider(
			cfg.Alerts.AccessKeyID,
			cfg.Alerts.SecretAccessKey,
			"",
		)
		awsCfgOpts = append(awsCfgOpts, awsconfig.WithCredentialsProvider(creds))
	case "iam_role", "":
		slog.Info("Configuring SES with IAM Role credentials.")
	default:
		slog.Warn("Unknown SES auth_type specified, defaulting to IAM Role.", "type", cfg.Alerts.AuthType)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsCfgOpts...)
	if err != nil {
		slog.Error("Failed to load AWS config for SES", "error", err)
		panic(err)
	}

	return &SESMailer{
		client: sesv2.NewFromConfig(awsCfg),
		cfg:    &cfg.Alerts,
	}
}

func (m *SESMailer) Send(ctx context.Context, to, subject, body string) error {
	logger := middleware.GetLogger(ctx)

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.cfg.From),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Text: &types.Content{
						Data:    aws.String(body),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := m.client.SendEmail(ctx, input); err != nil {
		logger.Error("Failed to send alert via SES", "error", err, "to", to)
		return err
	}

	logger.Info("Alert sent via SES", "to", to, "subject", subject)
	return nil
}
