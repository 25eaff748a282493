//go:build tinygo

package kernel

// Stack capture is unavailable on TinyGo targets.
func captureStack() []byte {
	return nil
}
