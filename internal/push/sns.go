// Package push delivers mobile push notifications through SNS platform endpoints.
package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/smithy-go"

	"github.com/questionconnection/backend/internal/breaker"
)

// Push gateway errors.
var (
	ErrNotConfigured    = errors.New("push platform application not configured")
	ErrEndpointNotFound = errors.New("endpoint ARN not found in SNS error")
)

var endpointARNPattern = regexp.MustCompile(`(arn:aws:sns:[^ ]+)`)

// SNSAPI is the subset of the SNS client used by Gateway.
type SNSAPI interface {
	CreatePlatformEndpoint(ctx context.Context, params *sns.CreatePlatformEndpointInput, optFns ...func(*sns.Options)) (*sns.CreatePlatformEndpointOutput, error)
	SetEndpointAttributes(ctx context.Context, params *sns.SetEndpointAttributesInput, optFns ...func(*sns.Options)) (*sns.SetEndpointAttributesOutput, error)
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Message is an APNs alert with app-specific custom data.
type Message struct {
	Title      string
	Body       string
	CustomData map[string]string
}

// Gateway registers device endpoints and publishes to them.
type Gateway struct {
	client         SNSAPI
	platformAppARN string
	breaker        breaker.Breaker
	logger         *slog.Logger
}

// New creates a Gateway. A nil breaker disables circuit breaking.
func New(client SNSAPI, platformAppARN string, br breaker.Breaker, logger *slog.Logger) *Gateway {
	if br == nil {
		br = breaker.Noop()
	}
	return &Gateway{
		client:         client,
		platformAppARN: platformAppARN,
		breaker:        br,
		logger:         logger.With("component", "push.gateway"),
	}
}

// NewFromConfig builds a Gateway from the default AWS credential chain.
func NewFromConfig(ctx context.Context, region, platformAppARN string, br breaker.Breaker, logger *slog.Logger) (*Gateway, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return New(sns.NewFromConfig(cfg), platformAppARN, br, logger), nil
}

// RegisterEndpoint creates a platform endpoint for token and returns its ARN.
// When SNS reports that an endpoint for the token already exists, the existing
// ARN is taken from the error message and its attributes are refreshed. A
// failure to refresh is logged and the existing ARN is still returned.
func (g *Gateway) RegisterEndpoint(ctx context.Context, userID, token string) (string, error) {
	if g.platformAppARN == "" {
		return "", ErrNotConfigured
	}

	userData, err := json.Marshal(map[string]string{"userId": userID})
	if err != nil {
		return "", fmt.Errorf("failed to encode custom user data: %w", err)
	}

	// An existing endpoint for the token is the normal re-registration
	// path, so it must not count against the breaker.
	var (
		out       *sns.CreatePlatformEndpointOutput
		existsMsg string
	)
	err = g.breaker.Execute(func() error {
		var callErr error
		out, callErr = g.client.CreatePlatformEndpoint(ctx, &sns.CreatePlatformEndpointInput{
			PlatformApplicationArn: aws.String(g.platformAppARN),
			Token:                  aws.String(token),
			CustomUserData:         aws.String(string(userData)),
		})
		if callErr != nil && isAlreadyExists(callErr) {
			existsMsg = errorMessage(callErr)
			return nil
		}
		return callErr
	})
	if err != nil {
		return "", fmt.Errorf("failed to create platform endpoint: %w", err)
	}
	if existsMsg == "" {
		return aws.ToString(out.EndpointArn), nil
	}

	arn := ExtractEndpointARN(existsMsg)
	if arn == "" {
		return "", fmt.Errorf("%w: %s", ErrEndpointNotFound, existsMsg)
	}

	attrErr := g.breaker.Execute(func() error {
		_, callErr := g.client.SetEndpointAttributes(ctx, &sns.SetEndpointAttributesInput{
			EndpointArn: aws.String(arn),
			Attributes: map[string]string{
				"Token":          token,
				"Enabled":        "true",
				"CustomUserData": string(userData),
			},
		})
		return callErr
	})
	if attrErr != nil {
		g.logger.Warn("failed to refresh endpoint attributes",
			"endpoint_arn", arn,
			"error", attrErr,
		)
	}

	return arn, nil
}

// Publish sends msg to a single endpoint using a per-platform JSON message.
func (g *Gateway) Publish(ctx context.Context, endpointARN string, msg Message) error {
	payload, err := BuildPayload(msg)
	if err != nil {
		return err
	}

	err = g.breaker.Execute(func() error {
		_, callErr := g.client.Publish(ctx, &sns.PublishInput{
			TargetArn:        aws.String(endpointARN),
			Message:          aws.String(payload),
			MessageStructure: aws.String("json"),
		})
		return callErr
	})
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", endpointARN, err)
	}
	return nil
}

// BuildPayload renders the SNS message body: a "default" text and an "APNS"
// member holding the encoded aps dictionary.
func BuildPayload(msg Message) (string, error) {
	aps := map[string]any{
		"aps": map[string]any{
			"alert": map[string]string{
				"title": msg.Title,
				"body":  msg.Body,
			},
			"sound": "default",
		},
	}
	if len(msg.CustomData) > 0 {
		aps["customData"] = msg.CustomData
	}

	apns, err := json.Marshal(aps)
	if err != nil {
		return "", fmt.Errorf("failed to encode APNS payload: %w", err)
	}

	envelope, err := json.Marshal(map[string]string{
		"default": msg.Body,
		"APNS":    string(apns),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode SNS message: %w", err)
	}
	return string(envelope), nil
}

// ExtractEndpointARN returns the first SNS ARN found in s, or "".
func ExtractEndpointARN(s string) string {
	match := endpointARNPattern.FindStringSubmatch(s)
	if match == nil {
		return ""
	}
	return match[1]
}

func isAlreadyExists(err error) bool {
	return strings.Contains(errorMessage(err), "already exists")
}

func errorMessage(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorMessage()
	}
	return err.Error()
}
