// Package language maps ISO 639 language codes to display names for
// human-facing stream listings. Track selection compares raw tags
// byte-for-byte and does not go through this package.
package language
