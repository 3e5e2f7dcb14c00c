package email

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	appconfig "github.com/lumiforge/video-bridge/internal/config"
)

// Sender is the subset of the SES client used for alerts.
type Sender interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Client отправляет операторские оповещения через Amazon SES
type Client struct {
	ses       Sender
	sender    string
	recipient string
	timeout   time.Duration
}

// NewClient returns nil when alert e-mail is not configured.
func NewClient(appCfg *appconfig.Config) *Client {
	if appCfg.AlertEmailFrom == "" || appCfg.AlertEmailTo == "" || appCfg.SESRegion == "" {
		return nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(appCfg.SESRegion))
	if err != nil {
		log.Printf("WARN: failed to load SES config, alert e-mail disabled: %v", err)
		return nil
	}

	sesClient := sesv2.NewFromConfig(cfg, func(o *sesv2.Options) {
		if appCfg.SESEndpoint != "" {
			o.BaseEndpoint = aws.String(appCfg.SESEndpoint)
		}
	})

	return newClient(sesClient, appCfg.AlertEmailFrom, appCfg.AlertEmailTo)
}

func newClient(ses Sender, from, to string) *Client {
	return &Client{
		ses:       ses,
		sender:    from,
		recipient: to,
		timeout:   10 * time.Second,
	}
}

// SendAlert sends msg as a plain-text e-mail to the operator address.
func (c *Client) SendAlert(msg string) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	subject := "Upload bridge alert"
	input := &sesv2.SendEmailInput{
		FromEmailAddress: &c.sender,
		Destination: &types.Destination{
			ToAddresses: []string{c.recipient},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data: &subject,
				},
				Body: &types.Body{
					Text: &types.Content{
						Data: &msg,
					},
				},
			},
		},
	}

	_, err := c.ses.SendEmail(ctx, input)
	return err
}
