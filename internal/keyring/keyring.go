// Package keyring keeps the PostgreSQL connection string for the habits
// store in the OS keyring, so it never has to appear in config or flags.
package keyring

import (
	"errors"
	"fmt"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/habits/internal/constants"
)

var (
	// ErrNotFound means no connection string has been stored.
	ErrNotFound = errors.New("no connection string in keyring")
	// ErrKeyringUnavailable means the OS keyring could not be reached.
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// availabilityAccount is read, never written, to check that the keyring answers.
const availabilityAccount = "availability-check"

// classify maps go-keyring errors onto this package's sentinels.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gokeyring.ErrNotFound):
		return ErrNotFound
	default:
		return fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
}

// GetConnectionString returns the stored connection string or ErrNotFound.
func GetConnectionString() (string, error) {
	connStr, err := gokeyring.Get(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		return "", classify(err)
	}
	return connStr, nil
}

// SetConnectionString stores connStr, replacing any previous value.
func SetConnectionString(connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	return classify(gokeyring.Set(constants.AppName, constants.DefaultKeyringUser, connStr))
}

// DeleteConnectionString removes the stored value; ErrNotFound if there was none.
func DeleteConnectionString() error {
	return classify(gokeyring.Delete(constants.AppName, constants.DefaultKeyringUser))
}

// IsAvailable reports whether the keyring answers at all. A missing
// entry still counts as an answer.
func IsAvailable() bool {
	_, err := gokeyring.Get(constants.AppName, availabilityAccount)
	return !errors.Is(classify(err), ErrKeyringUnavailable)
}
