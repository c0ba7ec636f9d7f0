package azure

import (
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	"github.com/Chapsvision-dev/supabase-token/internal/config"
	"github.com/Chapsvision-dev/supabase-token/internal/store"
	"github.com/Chapsvision-dev/supabase-token/internal/version"
)

// endpointFor returns the blob service endpoint with a trailing slash.
func endpointFor(c config.AzureConfig) string {
	endpoint := strings.TrimSpace(c.Endpoint)
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.blob.core.windows.net/", c.Account)
	}
	if !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}
	return endpoint
}

// Build client from config.
// Priority: 1) SAS  2) Service Principal  3) DefaultAzureCredential.
func newClientFromConfig(c config.AzureConfig) (*azblob.Client, string, error) {
	endpoint := endpointFor(c)
	// The SDK's own retry policy is disabled: one lookup per invocation.
	opts := &azblob.ClientOptions{ClientOptions: azcore.ClientOptions{
		Telemetry: policy.TelemetryOptions{ApplicationID: version.AppID},
		Retry:     policy.RetryOptions{MaxRetries: -1},
	}}

	// 1) SAS
	if sasRaw := strings.TrimSpace(c.SASToken); sasRaw != "" {
		sas := strings.TrimPrefix(sasRaw, "?")
		cl, err := azblob.NewClientWithNoCredential(endpoint+"?"+sas, opts)
		return cl, "sas", err
	}

	// 2) Service Principal
	if c.ClientID != "" && c.ClientSecret != "" && c.TenantID != "" {
		cred, err := azidentity.NewClientSecretCredential(c.TenantID, c.ClientID, c.ClientSecret, nil)
		if err != nil {
			return nil, "", err
		}
		cl, err := azblob.NewClient(endpoint, cred, opts)
		return cl, "service_principal", err
	}

	// 3) Managed Identity / DefaultAzureCredential
	defCred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, "", err
	}
	cl, err := azblob.NewClient(endpoint, defCred, opts)
	return cl, "default_credential", err
}

func init() {
	store.Register("azure", func(c config.Config) (store.Store, error) {
		client, authMode, err := newClientFromConfig(c.Azure)
		if err != nil {
			return nil, fmt.Errorf("azure: %w", err)
		}
		return &BlobStore{
			container: c.Azure.Container,
			prefix:    c.Azure.BlobPrefix,
			authMode:  authMode,
			download:  downloadWith(client),
		}, nil
	})
}
