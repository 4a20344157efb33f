package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService groups jobfeed's entries in the OS keychain.
const KeyringService = "jobfeed"

// Keychain account names for the credentials jobfeed needs.
const (
	AccountAdzunaAppID  = "adzuna_app_id"
	AccountAdzunaAppKey = "adzuna_app_key"
	AccountUploadKey    = "upload_api_key"
	AccountUploadURL    = "upload_url"
)

// Accounts lists every account name accepted by Set and Delete.
var Accounts = []string{AccountAdzunaAppID, AccountAdzunaAppKey, AccountUploadKey, AccountUploadURL}

// Lookup returns the first non-empty environment variable from envNames,
// then falls back to the keychain entry for account. It returns "" when
// nothing is configured; callers decide whether that is an error.
func Lookup(envNames []string, account string) string {
	for _, name := range envNames {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}
	if account == "" {
		return ""
	}
	v, err := keyring.Get(KeyringService, account)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(v)
}

// Set stores value in the keychain under account.
func Set(account, value string) error {
	if err := checkAccount(account); err != nil {
		return err
	}
	if strings.TrimSpace(value) == "" {
		return errors.New("secret value is empty")
	}
	return keyring.Set(KeyringService, account, strings.TrimSpace(value))
}

// Delete removes the keychain entry for account.
func Delete(account string) error {
	if err := checkAccount(account); err != nil {
		return err
	}
	return keyring.Delete(KeyringService, account)
}

// Stored reports whether the keychain holds a value for account.
func Stored(account string) bool {
	v, err := keyring.Get(KeyringService, account)
	return err == nil && strings.TrimSpace(v) != ""
}

func checkAccount(account string) error {
	for _, a := range Accounts {
		if a == account {
			return nil
		}
	}
	return fmt.Errorf("unknown secret name %q (want one of: %s)", account, strings.Join(Accounts, ", "))
}
