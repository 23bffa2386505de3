// Package notifier delivers the waste report over email, SNS or to a local file.
package notifier

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/thirukguru/aws-wastesweep/service/config"
	htmloutput "github.com/thirukguru/aws-wastesweep/shared/html_output"
)

const charset = "UTF-8"

// maxSNSSubject is the SNS limit on subject length.
const maxSNSSubject = 100

// New returns the notifier selected by cfg. SES and SNS clients are created
// in cfg.Region.
func New(cfg config.NotificationConfig, awsCfg aws.Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Channel {
	case config.ChannelSES:
		client := ses.NewFromConfig(awsCfg, func(o *ses.Options) {
			o.Region = cfg.Region
		})
		return NewEmailService(client, cfg.Sender, cfg.Recipient), nil
	case config.ChannelSNS:
		client := sns.NewFromConfig(awsCfg, func(o *sns.Options) {
			if region := topicRegion(cfg.TopicARN); region != "" {
				o.Region = region
			}
		})
		return NewTopicService(client, cfg.TopicARN), nil
	case config.ChannelFile:
		return NewFileService(cfg.OutputPath), nil
	default:
		return nil, fmt.Errorf("unsupported notification channel: %s", cfg.Channel)
	}
}

// NewEmailService sends the report as an HTML email through SES.
func NewEmailService(client SESClientAPI, sender, recipient string) Service {
	return &emailService{client: client, sender: sender, recipient: recipient}
}

func (s *emailService) Send(ctx context.Context, subject, document string) error {
	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(s.sender),
		Destination: &sestypes.Destination{
			ToAddresses: []string{s.recipient},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject), Charset: aws.String(charset)},
			Body: &sestypes.Body{
				Html: &sestypes.Content{Data: aws.String(document), Charset: aws.String(charset)},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", s.recipient, err)
	}
	return nil
}

// NewTopicService publishes the report to an SNS topic.
func NewTopicService(client SNSClientAPI, topicARN string) Service {
	return &topicService{client: client, topicARN: topicARN}
}

func (s *topicService) Send(ctx context.Context, subject, document string) error {
	_, err := s.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Subject:  aws.String(SNSSubject(subject)),
		Message:  aws.String(document),
	})
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", s.topicARN, err)
	}
	return nil
}

// SNSSubject reduces subject to printable ASCII within the SNS length limit.
func SNSSubject(subject string) string {
	var b strings.Builder
	for _, r := range subject {
		if r < unicode.MaxASCII && unicode.IsPrint(r) {
			b.WriteRune(r)
		}
	}

	out := strings.TrimSpace(b.String())
	if len(out) > maxSNSSubject {
		out = out[:maxSNSSubject]
	}
	return out
}

// topicRegion extracts the region field of an SNS topic ARN.
func topicRegion(arn string) string {
	parts := strings.Split(arn, ":")
	if len(parts) < 6 {
		return ""
	}
	return parts[3]
}

// NewFileService writes the report document to path.
func NewFileService(path string) Service {
	return &fileService{path: path}
}

func (s *fileService) Send(_ context.Context, _ string, document string) error {
	return htmloutput.WriteHTMLString(s.path, document)
}
