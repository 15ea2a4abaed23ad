package antivirus

import (
	"context"
	"errors"
)

// ErrScanFailed wraps every transport or daemon-side failure. Callers must
// treat it as "not known to be clean".
var ErrScanFailed = errors.New("antivirus: scan failed")

// Verdict is the outcome of scanning one upload.
type Verdict struct {
	Infected  bool
	Signature string // e.g. "Eicar-Test-Signature"; empty when clean
	Scanner   string
}

// Scanner checks uploaded bytes for malware.
type Scanner interface {
	Scan(ctx context.Context, name string, data []byte) (Verdict, error)
	// Ping reports whether the scanner is reachable. It doubles as a health check.
	Ping(ctx context.Context) error
	Name() string
}
