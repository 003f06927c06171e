package account

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"github.com/zenidr/todo-cognito-api/internal/observability"
	"github.com/zenidr/todo-cognito-api/services"
)

// CognitoClient is the subset of the Cognito identity provider API this
// service calls
type CognitoClient interface {
	InitiateAuth(ctx context.Context, params *cognitoidentityprovider.InitiateAuthInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.InitiateAuthOutput, error)
	SignUp(ctx context.Context, params *cognitoidentityprovider.SignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.SignUpOutput, error)
	ConfirmSignUp(ctx context.Context, params *cognitoidentityprovider.ConfirmSignUpInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.ConfirmSignUpOutput, error)
	GlobalSignOut(ctx context.Context, params *cognitoidentityprovider.GlobalSignOutInput, optFns ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.GlobalSignOutOutput, error)
}

// Tokens represents the token set returned by a successful login
type Tokens struct {
	AccessToken  string
	IDToken      string
	RefreshToken string
	ExpiresIn    int32
}

// SignupResult represents the outcome of a signup call
type SignupResult struct {
	UserConfirmed bool
	UserSub       string
}

// Service handles the Cognito-backed account operations
type Service struct {
	client       CognitoClient
	clientID     string
	clientSecret string
	logger       *zap.Logger
}

// NewService creates a new account Service
func NewService(client CognitoClient, clientID, clientSecret string, logger *zap.Logger) *Service {
	return &Service{
		client:       client,
		clientID:     clientID,
		clientSecret: clientSecret,
		logger:       logger,
	}
}

// secretHash computes base64(HMAC-SHA256(key=client secret,
// msg=username+clientID)). App clients without a secret get "".
func (s *Service) secretHash(username string) string {
	if s.clientSecret == "" {
		return ""
	}

	mac := hmac.New(sha256.New, []byte(s.clientSecret))
	mac.Write([]byte(username + s.clientID))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Login authenticates a user with the USER_PASSWORD_AUTH flow and returns
// the issued token set
func (s *Service) Login(ctx context.Context, username, password string) (*Tokens, error) {
	params := map[string]string{
		"USERNAME": username,
		"PASSWORD": password,
	}
	if hash := s.secretHash(username); hash != "" {
		params["SECRET_HASH"] = hash
	}

	out, err := s.client.InitiateAuth(ctx, &cognitoidentityprovider.InitiateAuthInput{
		AuthFlow:       types.AuthFlowTypeUserPasswordAuth,
		ClientId:       aws.String(s.clientID),
		AuthParameters: params,
	})
	recordCall("InitiateAuth", err)
	if err != nil {
		var notAuthorized *types.NotAuthorizedException
		var userNotFound *types.UserNotFoundException
		var notConfirmed *types.UserNotConfirmedException
		switch {
		case errors.As(err, &notAuthorized), errors.As(err, &userNotFound):
			return nil, services.ErrInvalidCredentials.Wrap(err)
		case errors.As(err, &notConfirmed):
			return nil, services.ErrUserNotConfirmed.Wrap(err)
		default:
			return nil, s.providerError("InitiateAuth", err)
		}
	}

	result := out.AuthenticationResult
	if result == nil {
		// The pool answered with a challenge; the password flow does not
		// negotiate challenges
		return nil, services.ErrProviderError.
			Wrap(fmt.Errorf("authentication challenge %q not supported", out.ChallengeName))
	}

	s.logger.Debug("user logged in", zap.String("username", username))

	return &Tokens{
		AccessToken:  aws.ToString(result.AccessToken),
		IDToken:      aws.ToString(result.IdToken),
		RefreshToken: aws.ToString(result.RefreshToken),
		ExpiresIn:    result.ExpiresIn,
	}, nil
}

// Signup registers a new user with the email attribute attached
func (s *Service) Signup(ctx context.Context, username, password, email string) (*SignupResult, error) {
	input := &cognitoidentityprovider.SignUpInput{
		ClientId: aws.String(s.clientID),
		Username: aws.String(username),
		Password: aws.String(password),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(email)},
		},
	}
	if hash := s.secretHash(username); hash != "" {
		input.SecretHash = aws.String(hash)
	}

	out, err := s.client.SignUp(ctx, input)
	recordCall("SignUp", err)
	if err != nil {
		var usernameExists *types.UsernameExistsException
		var invalidPassword *types.InvalidPasswordException
		var invalidParameter *types.InvalidParameterException
		switch {
		case errors.As(err, &usernameExists):
			return nil, services.ErrUsernameExists.Wrap(err)
		case errors.As(err, &invalidPassword):
			return nil, services.ErrInvalidPassword.Wrap(err)
		case errors.As(err, &invalidParameter):
			return nil, services.ErrInvalidInput.Wrap(err)
		default:
			return nil, s.providerError("SignUp", err)
		}
	}

	s.logger.Info("user signed up",
		zap.String("username", username),
		zap.Bool("confirmed", out.UserConfirmed))

	return &SignupResult{
		UserConfirmed: out.UserConfirmed,
		UserSub:       aws.ToString(out.UserSub),
	}, nil
}

// Confirm submits the emailed verification code for a pending user
func (s *Service) Confirm(ctx context.Context, username, code string) error {
	input := &cognitoidentityprovider.ConfirmSignUpInput{
		ClientId:         aws.String(s.clientID),
		Username:         aws.String(username),
		ConfirmationCode: aws.String(code),
	}
	if hash := s.secretHash(username); hash != "" {
		input.SecretHash = aws.String(hash)
	}

	_, err := s.client.ConfirmSignUp(ctx, input)
	recordCall("ConfirmSignUp", err)
	if err != nil {
		var codeMismatch *types.CodeMismatchException
		var expiredCode *types.ExpiredCodeException
		var userNotFound *types.UserNotFoundException
		switch {
		case errors.As(err, &codeMismatch):
			return services.ErrCodeMismatch.Wrap(err)
		case errors.As(err, &expiredCode):
			return services.ErrCodeExpired.Wrap(err)
		case errors.As(err, &userNotFound):
			return services.ErrUserNotFound.Wrap(err)
		default:
			return s.providerError("ConfirmSignUp", err)
		}
	}

	s.logger.Info("user confirmed", zap.String("username", username))
	return nil
}

// Logout revokes every token issued for the access token's session
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	_, err := s.client.GlobalSignOut(ctx, &cognitoidentityprovider.GlobalSignOutInput{
		AccessToken: aws.String(accessToken),
	})
	recordCall("GlobalSignOut", err)
	if err != nil {
		var notAuthorized *types.NotAuthorizedException
		if errors.As(err, &notAuthorized) {
			return services.ErrUnauthorized.Wrap(err)
		}
		return s.providerError("GlobalSignOut", err)
	}

	return nil
}

// providerError wraps a Cognito failure the caller did not anticipate,
// keeping the provider's error code when one came back
func (s *Service) providerError(operation string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		s.logger.Warn("unexpected provider error",
			zap.String("operation", operation),
			zap.String("code", apiErr.ErrorCode()),
			zap.Error(err))
		return services.ErrProviderError.Wrap(err).WithDetail("code", apiErr.ErrorCode())
	}

	s.logger.Warn("provider unreachable",
		zap.String("operation", operation),
		zap.Error(err))
	return services.ErrProviderUnavailable.Wrap(err)
}

func recordCall(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	observability.CognitoCallsTotal.WithLabelValues(operation, result).Inc()
}
