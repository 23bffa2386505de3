package notifier

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SESClientAPI is the interface for the AWS SES client methods used by the service.
type SESClientAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SNSClientAPI is the interface for the AWS SNS client methods used by the service.
type SNSClientAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Service delivers a rendered report.
type Service interface {
	Send(ctx context.Context, subject, document string) error
}

type emailService struct {
	client    SESClientAPI
	sender    string
	recipient string
}

type topicService struct {
	client   SNSClientAPI
	topicARN string
}

type fileService struct {
	path string
}
