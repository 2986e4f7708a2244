package config

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FirebaseConfig holds the service-account credentials for the Admin SDK and
// the client API key for the Identity Toolkit REST surface. Everything comes
// from the environment; the private key arrives with literal "\n" sequences
// that must be unescaped before use.
type FirebaseConfig struct {
	ProjectID               string
	PrivateKeyID            string
	PrivateKey              string
	ClientEmail             string
	ClientID                string
	AuthURI                 string
	TokenURI                string
	AuthProviderX509CertURL string
	ClientX509CertURL       string
	UniverseDomain          string

	// APIKey authenticates Identity Toolkit REST calls (sign-in, sign-up,
	// out-of-band email dispatch).
	APIKey string
}

func loadFirebaseConfig() FirebaseConfig {
	return FirebaseConfig{
		ProjectID:               getEnv("FIREBASE_PROJECT_ID", ""),
		PrivateKeyID:            getEnv("FIREBASE_PRIVATE_KEY_ID", ""),
		PrivateKey:              strings.ReplaceAll(getEnv("FIREBASE_PRIVATE_KEY", ""), `\n`, "\n"),
		ClientEmail:             getEnv("FIREBASE_CLIENT_EMAIL", ""),
		ClientID:                getEnv("FIREBASE_CLIENT_ID", ""),
		AuthURI:                 getEnv("FIREBASE_AUTH_URI", "https://accounts.google.com/o/oauth2/auth"),
		TokenURI:                getEnv("FIREBASE_TOKEN_URI", "https://oauth2.googleapis.com/token"),
		AuthProviderX509CertURL: getEnv("FIREBASE_AUTH_PROVIDER_CERT_URL", "https://www.googleapis.com/oauth2/v1/certs"),
		ClientX509CertURL:       getEnv("FIREBASE_CLIENT_CERT_URL", ""),
		UniverseDomain:          getEnv("FIREBASE_UNIVERSE_DOMAIN", "googleapis.com"),
		APIKey:                  getEnv("FIREBASE_API_KEY", ""),
	}
}

// Validate reports whether the config is complete enough to initialize the
// Firebase adapters.
func (c FirebaseConfig) Validate() error {
	missing := []string{}
	if c.ProjectID == "" {
		missing = append(missing, "FIREBASE_PROJECT_ID")
	}
	if c.PrivateKey == "" {
		missing = append(missing, "FIREBASE_PRIVATE_KEY")
	}
	if c.ClientEmail == "" {
		missing = append(missing, "FIREBASE_CLIENT_EMAIL")
	}
	if c.APIKey == "" {
		missing = append(missing, "FIREBASE_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("firebase config incomplete, missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// ServiceAccountJSON assembles the credentials JSON the Google SDKs expect.
func (c FirebaseConfig) ServiceAccountJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"type":                        "service_account",
		"project_id":                  c.ProjectID,
		"private_key_id":              c.PrivateKeyID,
		"private_key":                 c.PrivateKey,
		"client_email":                c.ClientEmail,
		"client_id":                   c.ClientID,
		"auth_uri":                    c.AuthURI,
		"token_uri":                   c.TokenURI,
		"auth_provider_x509_cert_url": c.AuthProviderX509CertURL,
		"client_x509_cert_url":        c.ClientX509CertURL,
		"universe_domain":             c.UniverseDomain,
	})
}
