package antivirus

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"net"
	"strings"
	"time"
)

// defaultChunkSize stays well below clamd's StreamMaxLength default.
const defaultChunkSize = 64 << 10

// ClamAV talks to clamd over its null-terminated command protocol.
type ClamAV struct {
	network   string
	address   string
	timeout   time.Duration
	chunkSize int
}

var _ Scanner = (*ClamAV)(nil)

// NewClamAV targets clamd at address: "host:port" for TCP, or an absolute
// path for a Unix socket.
func NewClamAV(address string, timeout time.Duration) *ClamAV {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	network := "tcp"
	if strings.HasPrefix(address, "/") {
		network = "unix"
	}
	return &ClamAV{network: network, address: address, timeout: timeout, chunkSize: defaultChunkSize}
}

func (c *ClamAV) Name() string { return "clamav" }

func (c *ClamAV) dial(ctx context.Context) (net.Conn, error) {
	d := net.Dialer{Timeout: c.timeout}
	conn, err := d.DialContext(ctx, c.network, c.address)
	if err != nil {
		return nil, fmt.Errorf("%w: connect %s: %v", ErrScanFailed, c.address, err)
	}
	deadline := time.Now().Add(c.timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	_ = conn.SetDeadline(deadline)
	return conn, nil
}

func (c *ClamAV) Ping(ctx context.Context) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("zPING\x00")); err != nil {
		return fmt.Errorf("%w: ping: %v", ErrScanFailed, err)
	}
	reply, err := readReply(conn)
	if err != nil {
		return err
	}
	if reply != "PONG" {
		return fmt.Errorf("%w: unexpected ping reply %q", ErrScanFailed, reply)
	}
	return nil
}

// Scan streams data with INSTREAM. Any failure returns ErrScanFailed and a
// zero Verdict.
func (c *ClamAV) Scan(ctx context.Context, name string, data []byte) (Verdict, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return Verdict{}, err
	}
	defer conn.Close()

	w := bufio.NewWriter(conn)
	if _, err := w.WriteString("zINSTREAM\x00"); err != nil {
		return Verdict{}, fmt.Errorf("%w: %s: %v", ErrScanFailed, name, err)
	}

	var size [4]byte
	for off := 0; off < len(data); off += c.chunkSize {
		end := min(off+c.chunkSize, len(data))
		binary.BigEndian.PutUint32(size[:], uint32(end-off))
		if _, err := w.Write(size[:]); err != nil {
			return Verdict{}, fmt.Errorf("%w: %s: %v", ErrScanFailed, name, err)
		}
		if _, err := w.Write(data[off:end]); err != nil {
			return Verdict{}, fmt.Errorf("%w: %s: %v", ErrScanFailed, name, err)
		}
	}
	binary.BigEndian.PutUint32(size[:], 0)
	if _, err := w.Write(size[:]); err != nil {
		return Verdict{}, fmt.Errorf("%w: %s: %v", ErrScanFailed, name, err)
	}
	if err := w.Flush(); err != nil {
		return Verdict{}, fmt.Errorf("%w: %s: %v", ErrScanFailed, name, err)
	}

	reply, err := readReply(conn)
	if err != nil {
		return Verdict{}, err
	}
	return parseVerdict(c.Name(), reply)
}

// readReply reads one null-terminated (or connection-terminated) reply.
func readReply(conn net.Conn) (string, error) {
	raw, err := bufio.NewReader(conn).ReadBytes(0)
	if err != nil && len(raw) == 0 {
		return "", fmt.Errorf("%w: read reply: %v", ErrScanFailed, err)
	}
	return string(bytes.TrimSpace(bytes.TrimRight(raw, "\x00"))), nil
}

// parseVerdict understands "stream: OK", "stream: <sig> FOUND" and "<msg> ERROR".
func parseVerdict(scanner, reply string) (Verdict, error) {
	_, body, found := strings.Cut(reply, ": ")
	if !found {
		body = reply
	}
	switch {
	case body == "OK":
		return Verdict{Scanner: scanner}, nil
	case strings.HasSuffix(body, " FOUND"):
		return Verdict{
			Infected:  true,
			Signature: strings.TrimSuffix(body, " FOUND"),
			Scanner:   scanner,
		}, nil
	case strings.HasSuffix(body, " ERROR"):
		return Verdict{}, fmt.Errorf("%w: %s", ErrScanFailed, strings.TrimSuffix(body, " ERROR"))
	}
	return Verdict{}, fmt.Errorf("%w: unexpected reply %q", ErrScanFailed, reply)
}
