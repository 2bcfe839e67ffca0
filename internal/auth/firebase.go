package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// Provider wraps the external identity provider's admin SDK. The only
// thing this layer asks of it is deleting the provider-side account
// when an admin deletes a user; credential issuance and verification
// for API access go through TokenService.
type Provider struct {
	client *fbauth.Client
}

// NewProvider initialises the admin SDK from base64-encoded
// service-account material (the form the deployment environment
// carries it in).
func NewProvider(ctx context.Context, serviceKeyBase64 string) (*Provider, error) {
	if serviceKeyBase64 == "" {
		return nil, errors.New("service account material is empty")
	}
	jsonKey, err := base64.StdEncoding.DecodeString(serviceKeyBase64)
	if err != nil {
		return nil, fmt.Errorf("service account material is not valid base64: %w", err)
	}
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsJSON(jsonKey))
	if err != nil {
		return nil, fmt.Errorf("initializing identity provider app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting identity provider auth client: %w", err)
	}
	return &Provider{client: client}, nil
}

// DeleteUserByEmail removes the provider-side account for email. A nil
// Provider is a valid no-op (the provider is optional in local
// deployments).
func (p *Provider) DeleteUserByEmail(ctx context.Context, email string) error {
	if p == nil || p.client == nil {
		return nil
	}
	u, err := p.client.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("looking up provider account for %s: %w", email, err)
	}
	if err := p.client.DeleteUser(ctx, u.UID); err != nil {
		return fmt.Errorf("deleting provider account for %s: %w", email, err)
	}
	return nil
}
