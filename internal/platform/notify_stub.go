//go:build !linux

package platform

// Notify is a no-op on platforms without a supported notification
// backend; the surrounding flow treats missing notifications as a
// cosmetic degradation.
func Notify(title, body string, opts Options) error {
	return nil
}
