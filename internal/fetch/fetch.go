// Package fetch retrieves schema files over HTTP and decodes them according
// to the charset declared by the server.
package fetch

import (
	"context"
	"io"
	"io/ioutil"
	"mime"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/galaxy-steam/buildtool"
	"github.com/klauspost/pgzip"
	"golang.org/x/net/html/charset"
	"golang.org/x/xerrors"
)

// Retriever is implemented by Fetcher. Tests substitute canned content.
type Retriever interface {
	Fetch(ctx context.Context, url string) (string, error)
}

var httpClient = &http.Client{Transport: &http.Transport{
	Proxy:               http.ProxyFromEnvironment,
	MaxIdleConnsPerHost: 10,
	DisableCompression:  true,
}}

// Fetcher retrieves one URL per call. There is no retry and no timeout:
// a hung server blocks until ctx is canceled.
type Fetcher struct {
	// Client defaults to a client which negotiates gzip explicitly.
	Client *http.Client
}

type gzipReader struct {
	body io.ReadCloser
	zr   *pgzip.Reader
}

func (r *gzipReader) Read(p []byte) (n int, err error) {
	return r.zr.Read(p)
}

func (r *gzipReader) Close() error {
	if err := r.zr.Close(); err != nil {
		return err
	}
	return r.body.Close()
}

func (f *Fetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return httpClient
}

// Fetch performs a GET request for url and returns the decoded body.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return "", &buildtool.Error{Kind: buildtool.NetworkFailure, Subject: url, Err: err}
	}
	req.Header.Set("Accept-Encoding", "gzip")
	resp, err := f.client().Do(req.WithContext(ctx))
	if err != nil {
		return "", &buildtool.Error{Kind: buildtool.NetworkFailure, Subject: url, Err: err}
	}
	defer resp.Body.Close()
	if got, want := resp.StatusCode, http.StatusOK; got != want {
		return "", &buildtool.Error{
			Kind:    buildtool.NetworkFailure,
			Subject: url,
			Err:     xerrors.Errorf("HTTP status %v", resp.Status),
		}
	}
	var body io.ReadCloser = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		zr, err := pgzip.NewReader(resp.Body)
		if err != nil {
			return "", &buildtool.Error{Kind: buildtool.NetworkFailure, Subject: url, Err: err}
		}
		body = &gzipReader{body: resp.Body, zr: zr}
		defer body.Close()
	}
	b, err := ioutil.ReadAll(body)
	if err != nil {
		return "", &buildtool.Error{Kind: buildtool.NetworkFailure, Subject: url, Err: err}
	}
	s, err := Decode(b, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", &buildtool.Error{Kind: buildtool.DecodeFailure, Subject: url, Err: err}
	}
	return s, nil
}

// Decode converts b to a string using the charset parameter of contentType.
// Without a declared charset, b must be valid UTF-8.
func Decode(b []byte, contentType string) (string, error) {
	label := "utf-8"
	if contentType != "" {
		_, params, err := mime.ParseMediaType(contentType)
		if err != nil {
			return "", xerrors.Errorf("Content-Type %q: %v", contentType, err)
		}
		if cs := params["charset"]; cs != "" {
			label = cs
		}
	}
	enc, name := charset.Lookup(label)
	if enc == nil {
		return "", xerrors.Errorf("unsupported charset %q", label)
	}
	if name == "utf-8" {
		if !utf8.Valid(b) {
			return "", xerrors.Errorf("body is not valid %s", name)
		}
		return string(b), nil
	}
	decoded, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", xerrors.Errorf("decoding %s: %v", name, err)
	}
	return string(decoded), nil
}
