package totp

import (
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	// Period is the time-step size in seconds.
	Period = 30
	// Skew is the number of adjacent time steps accepted on either side of
	// the current one, tolerating client clock drift.
	Skew = 2
)

// GenerateSecret creates a new base32 TOTP secret and the otpauth URL the
// frontend renders as a QR code.
func GenerateSecret(issuer, accountName string) (secret, url string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: accountName,
		Period:      Period,
		SecretSize:  20,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}

// Verify reports whether the code matches the secret for the current time
// step or any step within the skew window.
func Verify(secret, code string) bool {
	ok, err := totp.ValidateCustom(code, secret, timeNow(), totp.ValidateOpts{
		Period:    Period,
		Skew:      Skew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}
