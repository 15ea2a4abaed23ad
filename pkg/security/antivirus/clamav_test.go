package antivirus

import (
	"bufio"
	"context"
	"encoding/binary"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClamd answers zPING and zINSTREAM. Payloads containing "EICAR" are infected.
func fakeClamd(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go serveClamd(conn)
		}
	}()
	return ln.Addr().String()
}

func serveClamd(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	cmd, err := r.ReadString(0)
	if err != nil {
		return
	}

	switch strings.TrimRight(cmd, "\x00") {
	case "zPING":
		conn.Write([]byte("PONG\x00"))
	case "zINSTREAM":
		var payload []byte
		var size [4]byte
		for {
			if _, err := io.ReadFull(r, size[:]); err != nil {
				return
			}
			n := binary.BigEndian.Uint32(size[:])
			if n == 0 {
				break
			}
			chunk := make([]byte, n)
			if _, err := io.ReadFull(r, chunk); err != nil {
				return
			}
			payload = append(payload, chunk...)
		}
		if strings.Contains(string(payload), "EICAR") {
			conn.Write([]byte("stream: Eicar-Test-Signature FOUND\x00"))
			return
		}
		conn.Write([]byte("stream: OK\x00"))
	}
}

func TestClamAVScan(t *testing.T) {
	scanner := NewClamAV(fakeClamd(t), 2*time.Second)
	scanner.chunkSize = 4 // force several chunks
	ctx := context.Background()

	require.NoError(t, scanner.Ping(ctx))

	verdict, err := scanner.Scan(ctx, "logo.png", []byte("\x89PNG harmless bytes"))
	require.NoError(t, err)
	assert.False(t, verdict.Infected)
	assert.Equal(t, "clamav", verdict.Scanner)

	verdict, err = scanner.Scan(ctx, "logo.png", []byte("X5O!P%@AP EICAR test"))
	require.NoError(t, err)
	assert.True(t, verdict.Infected)
	assert.Equal(t, "Eicar-Test-Signature", verdict.Signature)
}

func TestClamAVUnreachable(t *testing.T) {
	scanner := NewClamAV("127.0.0.1:1", 200*time.Millisecond)

	_, err := scanner.Scan(context.Background(), "logo.png", []byte("data"))
	assert.ErrorIs(t, err, ErrScanFailed)
	assert.ErrorIs(t, scanner.Ping(context.Background()), ErrScanFailed)
}

func TestNewClamAVNetwork(t *testing.T) {
	assert.Equal(t, "unix", NewClamAV("/var/run/clamav/clamd.sock", 0).network)
	assert.Equal(t, "tcp", NewClamAV("clamd:3310", 0).network)
	assert.Equal(t, 30*time.Second, NewClamAV("clamd:3310", 0).timeout)
}

func TestParseVerdict(t *testing.T) {
	v, err := parseVerdict("clamav", "stream: OK")
	require.NoError(t, err)
	assert.False(t, v.Infected)

	v, err = parseVerdict("clamav", "stream: Win.Test.EICAR_HDB-1 FOUND")
	require.NoError(t, err)
	assert.True(t, v.Infected)
	assert.Equal(t, "Win.Test.EICAR_HDB-1", v.Signature)

	_, err = parseVerdict("clamav", "INSTREAM size limit exceeded. ERROR")
	assert.ErrorIs(t, err, ErrScanFailed)

	_, err = parseVerdict("clamav", "garbage")
	assert.ErrorIs(t, err, ErrScanFailed)
}
