package preload

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"
)

const DEF_FTP_DIAL_TIMEOUT = 30 * time.Second

// ftpConn is the subset of *ftp.ServerConn the fetcher uses.
type ftpConn interface {
	Login(user, password string) error
	Type(transferType ftp.TransferType) error
	Retr(path string) (io.ReadCloser, error)
	Quit() error
}

// ftpDialFunc opens a control connection to addr.
type ftpDialFunc func(ctx context.Context, addr string, useTLS bool) (ftpConn, error)

var _ Fetcher = (*FTPFetcher)(nil)

// FTPFetcher fetches images from ftp:// and ftps:// URLs.
// Credentials come from the URL userinfo and default to anonymous.
type FTPFetcher struct {
	dial ftpDialFunc
}

// NewFTPFetcher creates an FTPFetcher that dials real servers.
func NewFTPFetcher() *FTPFetcher {
	return &FTPFetcher{dial: dialFTP}
}

// ftpTarget is a parsed ftp URL.
type ftpTarget struct {
	addr     string
	path     string
	user     string
	password string
	useTLS   bool
}

func parseFTPURL(rawURL string) (*ftpTarget, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "ftp" && scheme != "ftps" {
		return nil, fmt.Errorf("%w %q for ftp fetcher", ErrUnsupportedScheme, scheme)
	}
	if parsed.Path == "" || parsed.Path == "/" {
		return nil, fmt.Errorf("empty or root path in FTP URL %q", rawURL)
	}
	t := &ftpTarget{
		addr:     parsed.Host,
		path:     parsed.Path,
		user:     "anonymous",
		password: "anonymous",
		useTLS:   scheme == "ftps",
	}
	if parsed.Port() == "" {
		t.addr = parsed.Hostname() + ":21"
	}
	if parsed.User != nil {
		t.user = parsed.User.Username()
		if p, ok := parsed.User.Password(); ok {
			t.password = p
		}
	}
	return t, nil
}

// Fetch retrieves the file in binary mode and validates it as an image.
func (f *FTPFetcher) Fetch(ctx context.Context, rawURL string) error {
	t, err := parseFTPURL(rawURL)
	if err != nil {
		return newFetchError(rawURL, "request", err)
	}
	conn, err := f.dial(ctx, t.addr, t.useTLS)
	if err != nil {
		return newFetchError(rawURL, "request", err)
	}
	defer conn.Quit()

	if err := conn.Login(t.user, t.password); err != nil {
		return newFetchError(rawURL, "request", fmt.Errorf("login: %w", err))
	}
	if err := conn.Type(ftp.TransferTypeBinary); err != nil {
		return newFetchError(rawURL, "request", fmt.Errorf("set binary mode: %w", err))
	}
	body, err := conn.Retr(t.path)
	if err != nil {
		return newFetchError(rawURL, "status", err)
	}
	defer body.Close()
	return validateImage(rawURL, body, typeByPath(t.path))
}

// serverConn adapts *ftp.ServerConn to ftpConn.
type serverConn struct {
	*ftp.ServerConn
}

func (c serverConn) Retr(path string) (io.ReadCloser, error) {
	resp, err := c.ServerConn.Retr(path)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func dialFTP(ctx context.Context, addr string, useTLS bool) (ftpConn, error) {
	opts := []ftp.DialOption{
		ftp.DialWithTimeout(DEF_FTP_DIAL_TIMEOUT),
		ftp.DialWithContext(ctx),
	}
	if useTLS {
		host := addr
		if i := strings.LastIndex(addr, ":"); i >= 0 {
			host = addr[:i]
		}
		opts = append(opts, ftp.DialWithExplicitTLS(&tls.Config{
			ServerName: host,
			MinVersion: tls.VersionTLS12,
		}))
	}
	c, err := ftp.Dial(addr, opts...)
	if err != nil {
		return nil, err
	}
	return serverConn{c}, nil
}
