package sgml

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
)

// fetchURI resolves a SYSTEM/PUBLIC identifier to external-subset text,
// guarding against runaway recursion through nested external DTDs that
// reference each other. Remote fetches are served from CacheDir when a
// prior fetch of the same URI left a cached copy there.
func (p *Parser) fetchURI(uri string) (string, error) {
	if p.fetchDepth >= p.cfg.MaxDTDDepth {
		return "", &FetchError{URI: uri, Err: errors.New("external DTD recursion limit reached")}
	}
	p.fetchDepth++
	defer func() { p.fetchDepth-- }()

	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		if p.cfg.CacheDir != "" {
			if cached, ok := readDTDCache(p.cfg.CacheDir, uri); ok {
				return cached, nil
			}
			data, err := fetchRemoteURI(uri)
			if err != nil {
				return "", err
			}
			writeDTDCache(p.cfg.CacheDir, uri, data)
			return data, nil
		}
		return fetchRemoteURI(uri)
	}

	path := uri
	if p.cfg.BaseDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(p.cfg.BaseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &FetchError{URI: uri, Err: err}
	}
	return DecodeLegacy(data, "")
}

// dtdCachePath mirrors uri's host and path segments as nested directories
// under cacheDir, so the cache on disk reads the same way the URI does.
func dtdCachePath(cacheDir, uri string) (string, bool) {
	u, err := url.Parse(uri)
	if err != nil || u.Host == "" {
		return "", false
	}
	segments := append([]string{u.Host}, strings.Split(strings.TrimPrefix(u.Path, "/"), "/")...)
	return filepath.Join(append([]string{cacheDir}, segments...)...), true
}

func readDTDCache(cacheDir, uri string) (string, bool) {
	path, ok := dtdCachePath(cacheDir, uri)
	if !ok {
		return "", false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(data), true
}

func writeDTDCache(cacheDir, uri, data string) {
	path, ok := dtdCachePath(cacheDir, uri)
	if !ok {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	os.WriteFile(path, []byte(data), 0o644)
}

// fetchRemoteURI retrieves uri over HTTP(S), sniffing its charset from the
// response the same way a browser would before handing the DTD text back
// as UTF-8.
func fetchRemoteURI(uri string) (string, error) {
	resp, err := http.Get(uri)
	if err != nil {
		return "", &FetchError{URI: uri, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", &FetchError{URI: uri, Err: errors.New("unexpected status " + resp.Status)}
	}
	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", &FetchError{URI: uri, Err: err}
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", &FetchError{URI: uri, Err: err}
	}
	return string(data), nil
}

// DecodeLegacy decodes data into UTF-8 text. Valid UTF-8 input passes
// through unchanged. Otherwise name, an IANA or htmlindex-recognized
// encoding label ("windows-1252", "iso-8859-1", ...), selects the decoder;
// an empty name falls back to Windows-1252, the legacy encoding SGML
// documents in the wild most often turn out to be.
func DecodeLegacy(data []byte, name string) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	enc := charmap.Windows1252.NewDecoder()
	if name != "" {
		if e, err := htmlindex.Get(name); err == nil {
			enc = e.NewDecoder()
		}
	}
	out, err := enc.Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
